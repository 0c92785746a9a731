// Package accountremove реализует HTTP-обработчик удаления учётной записи.
package accountremove

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

// Handler обрабатывает запросы на удаление учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику удаления учётной записи.
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
// @Summary Удаление учётной записи
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID учётной записи"
// @Success 200 {object} response.Response "Учётная запись удалена"
// @Failure 404 {object} response.ErrorResponse "Не найдена"
// @Router /accounts/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), id); err != nil {
		log.Warn("failed to remove account", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("account removed", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
