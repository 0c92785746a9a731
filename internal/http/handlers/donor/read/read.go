// Package read реализует HTTP-обработчик получения донора по идентификатору.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Handler обрабатывает запросы на получение донора по ID.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику чтения донора.
type Service interface {
	Get(ctx context.Context, id string) (models.Donor, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получение донора
// @Tags Donors
// @Produce  json
// @Param id path string true "ID донора"
// @Success 200 {object} response.Response "Донор"
// @Failure 404 {object} response.ErrorResponse "Донор не найден"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /donors/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	donor, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Warn("failed to read donor", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"donor": donor,
	}))
}
