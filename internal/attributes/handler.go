package attributes

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stocklet/stocklet/internal/platform/httpx"
)

// Handler exposes the attribute registry over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the attribute handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers attribute routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	Type      string  `json:"type" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	ColorCode *string `json:"color_code"`
	Status    any     `json:"status"`
}

type updateRequest struct {
	Name      *string `json:"name"`
	ColorCode *string `json:"color_code"`
	Status    any     `json:"status"`
}

type deleteResponse struct {
	OK      bool  `json:"ok"`
	Deleted int64 `json:"deleted"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	onlyActive := q.Get("onlyActive") == "1" || q.Get("onlyActive") == "true"

	attrs, err := h.service.List(r.Context(), q.Get("type"), onlyActive)
	if err != nil {
		h.logger.Error("list attributes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, attrs)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.Wrap(httpx.ErrValidation, "type and name are required"))
		return
	}

	attr, err := h.service.Create(r.Context(), CreateInput{
		Type:      req.Type,
		Name:      req.Name,
		ColorCode: req.ColorCode,
		Status:    req.Status,
	})
	if err != nil {
		h.logger.Error("create attribute", slog.Any("error", err), slog.String("type", req.Type))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, attr)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	attr, err := h.service.Update(r.Context(), id, UpdateInput{
		Name:      req.Name,
		ColorCode: req.ColorCode,
		Status:    req.Status,
	})
	if err != nil {
		h.logger.Error("update attribute", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, attr)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("delete attribute", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, deleteResponse{OK: true, Deleted: deleted})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "invalid attribute id")
		return 0, false
	}
	return id, true
}
