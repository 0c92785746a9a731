// Package accountlist реализует HTTP-обработчик списка учётных записей с поиском.
package accountlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Handler обрабатывает запросы на получение учётных записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service ищет учётные записи по имени, email и роли. Пустой запрос возвращает все.
type Service interface {
	Search(ctx context.Context, q string) ([]models.Account, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список учётных записей
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param q query string false "Строка поиска"
// @Success 200 {object} response.Response "Учётные записи"
// @Router /accounts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accounts, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Error("failed to search accounts", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	}))
}
