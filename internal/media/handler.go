// Package media exposes the product image endpoints on top of a blob store.
package media

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/stocklet/stocklet/internal/blobstore"
	"github.com/stocklet/stocklet/internal/platform/httpx"
)

const maxUploadBytes = 32 << 20

// Handler serves upload, listing, deletion and raw bytes for images. A nil
// store means the deployment has no bucket configured; API calls then fail
// with 500 and a clear message.
type Handler struct {
	logger *slog.Logger
	store  blobstore.Store
}

// NewHandler constructs the media handler. store may be nil.
func NewHandler(logger *slog.Logger, store blobstore.Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// UploadedFile describes one stored image in upload responses.
type UploadedFile struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type uploadResponse struct {
	OK    bool           `json:"ok"`
	Count int            `json:"count"`
	Files []UploadedFile `json:"files"`
}

type imageEntry struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type deleteRequest struct {
	URLs []string `json:"urls"`
}

type deleteResponse struct {
	OK           bool     `json:"ok"`
	DeletedCount int      `json:"deletedCount"`
	Deleted      []string `json:"deleted"`
	NotFound     []string `json:"notFound"`
}

// Upload stores one or more multipart images sent under the "image" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		httpx.RespondError(w, httpx.ErrStoreUnconfigured)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		httpx.Error(w, http.StatusBadRequest, "no file uploaded")
		return
	}

	uploaded := make([]UploadedFile, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "unreadable file in upload")
			return
		}
		key := blobstore.NewKey(header.Filename)
		err = h.store.Put(r.Context(), key, header.Header.Get("Content-Type"), file)
		_ = file.Close()
		if err != nil {
			h.logger.Error("store image", slog.Any("error", err), slog.String("key", key))
			httpx.RespondError(w, err)
			return
		}
		filename := header.Filename
		if filename == "" {
			filename = key
		}
		uploaded = append(uploaded, UploadedFile{
			Key:      key,
			URL:      "/uploads/" + url.PathEscape(key),
			Filename: filename,
		})
	}

	httpx.JSON(w, http.StatusCreated, uploadResponse{OK: true, Count: len(uploaded), Files: uploaded})
}

// List returns every stored image.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		httpx.RespondError(w, httpx.ErrStoreUnconfigured)
		return
	}
	objects, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("list images", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	images := make([]imageEntry, 0, len(objects))
	for _, obj := range objects {
		images = append(images, imageEntry{
			URL:      "/uploads/" + url.PathEscape(obj.Key),
			Filename: obj.Key,
		})
	}
	httpx.JSON(w, http.StatusOK, images)
}

// Delete removes a batch of images addressed by their /uploads URLs. Each
// entry is classified as deleted or notFound; one bad entry never aborts the
// batch.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		httpx.RespondError(w, httpx.ErrStoreUnconfigured)
		return
	}
	var req deleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp := deleteResponse{OK: true, Deleted: []string{}, NotFound: []string{}}
	for _, raw := range req.URLs {
		key, ok := keyFromURL(raw)
		if !ok {
			resp.NotFound = append(resp.NotFound, raw)
			continue
		}
		if err := h.store.Delete(r.Context(), key); err != nil {
			if !errors.Is(err, blobstore.ErrKeyNotFound) {
				h.logger.Error("delete image", slog.Any("error", err), slog.String("key", key))
			}
			resp.NotFound = append(resp.NotFound, raw)
			continue
		}
		resp.Deleted = append(resp.Deleted, raw)
	}
	resp.DeletedCount = len(resp.Deleted)
	httpx.JSON(w, http.StatusOK, resp)
}

// Serve streams one image with its content type and a long-lived cache
// directive.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		httpx.RespondError(w, httpx.ErrStoreUnconfigured)
		return
	}
	key := chi.URLParam(r, "key")
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}

	body, contentType, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, blobstore.ErrKeyNotFound) {
			httpx.Error(w, http.StatusNotFound, "image not found")
			return
		}
		h.logger.Error("serve image", slog.Any("error", err), slog.String("key", key))
		httpx.RespondError(w, err)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}

// keyFromURL extracts the storage key from an /uploads URL or bare filename.
func keyFromURL(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	name := path.Base(parsed.Path)
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if !blobstore.ValidKey(name) {
		return "", false
	}
	return name, true
}
