// Package clearall реализует HTTP-обработчик очистки справочника доноров (только для администратора).
package clearall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
)

// Handler обрабатывает запросы на удаление всех доноров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает очистку справочника; возвращает число удалённых записей.
type Service interface {
	Clear(ctx context.Context) (int, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Очистка справочника доноров
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Число удалённых доноров"
// @Failure 401 {object} response.ErrorResponse "Требуется вход"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /donors [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.clear"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	removed, err := h.service.Clear(r.Context())
	if err != nil {
		log.Error("failed to clear donors", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("donors cleared", slog.Int("removed", removed))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": removed,
	}))
}
