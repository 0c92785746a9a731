// Package remove реализует HTTP-обработчик удаления донора.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
)

// Handler обрабатывает запросы на удаление донора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику удаления донора.
type Service interface {
	Remove(ctx context.Context, id string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление донора
// @Tags Donors
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID донора"
// @Success 200 {object} response.Response "Донор удалён"
// @Failure 401 {object} response.ErrorResponse "Требуется вход"
// @Failure 404 {object} response.ErrorResponse "Донор не найден"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /donors/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), id); err != nil {
		log.Warn("failed to remove donor", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("donor removed", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
