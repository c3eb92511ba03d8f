package movements

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stocklet/stocklet/internal/platform/httpx"
)

// Handler exposes the movement ledger over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the movements handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.record)
}

type recordRequest struct {
	VariantID int64   `json:"variantId" validate:"required"`
	Type      string  `json:"type" validate:"required"`
	Quantity  int64   `json:"quantity" validate:"required"`
	User      *string `json:"user"`
	Note      *string `json:"note"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list movements", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.Wrap(httpx.ErrValidation, "variantId, type and quantity are required"))
		return
	}

	movement, err := h.service.Record(r.Context(), RecordInput{
		VariantID: req.VariantID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		User:      req.User,
		Note:      req.Note,
	})
	if err != nil {
		h.logger.Error("record movement",
			slog.Any("error", err),
			slog.Int64("variant_id", req.VariantID),
			slog.String("type", req.Type))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, movement)
}
