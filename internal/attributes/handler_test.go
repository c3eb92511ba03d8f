package attributes

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo Repository) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo, nil))
	r := chi.NewRouter()
	r.Route("/api/attributes", handler.MountRoutes)
	return r
}

func TestHandlerCreate(t *testing.T) {
	router := newTestRouter(newMockRepo())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/attributes",
		strings.NewReader(`{"type":"color","name":"Red","color_code":"#ff0000"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var attr Attribute
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attr))
	require.Equal(t, "Red", attr.Name)
	require.EqualValues(t, 1, attr.Status)
}

func TestHandlerCreateRejectsMissingFields(t *testing.T) {
	router := newTestRouter(newMockRepo())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/attributes", strings.NewReader(`{"type":"color"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "error")
}

func TestHandlerCreateDuplicateConflicts(t *testing.T) {
	router := newTestRouter(newMockRepo())

	body := `{"type":"size","name":"M"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/attributes", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/attributes", strings.NewReader(body)))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerListOnlyActive(t *testing.T) {
	repo := newMockRepo()
	router := newTestRouter(repo)

	for _, body := range []string{
		`{"type":"color","name":"Red"}`,
		`{"type":"color","name":"Grey","status":0}`,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/attributes", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attributes?type=color&onlyActive=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var attrs []Attribute
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attrs))
	require.Len(t, attrs, 1)
	require.Equal(t, "Red", attrs[0].Name)
}

func TestHandlerUpdateAndDelete(t *testing.T) {
	repo := newMockRepo()
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/attributes",
		strings.NewReader(`{"type":"category","name":"Shoes"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var attr Attribute
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attr))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/attributes/1",
		strings.NewReader(`{"status":"0"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attr))
	require.EqualValues(t, 0, attr.Status)
	require.Equal(t, "Shoes", attr.Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/attributes/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true,"deleted":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/attributes/1", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/attributes/abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
