package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stocklet/stocklet/internal/attributes"
	"github.com/stocklet/stocklet/internal/catalog"
	"github.com/stocklet/stocklet/internal/media"
	"github.com/stocklet/stocklet/internal/movements"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AttributesHandler *attributes.Handler
	CatalogHandler    *catalog.Handler
	MovementsHandler  *movements.Handler
	MediaHandler      *media.Handler
}

// NewRouter constructs the chi.Router with stocklet defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: params.Logger, Config: params.Config}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/attributes", params.AttributesHandler.MountRoutes)
	r.Route("/api/products", params.CatalogHandler.MountRoutes)
	r.Route("/api/movements", params.MovementsHandler.MountRoutes)

	r.Post("/api/upload-image", params.MediaHandler.Upload)
	r.Get("/api/images", params.MediaHandler.List)
	r.Delete("/api/images", params.MediaHandler.Delete)
	r.Get("/uploads/{key}", params.MediaHandler.Serve)

	return r
}
