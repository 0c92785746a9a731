// Package accountupdate реализует HTTP-обработчик редактирования учётной записи.
package accountupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Handler обрабатывает запросы на редактирование учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику редактирования учётной записи.
type Service interface {
	Update(ctx context.Context, id string, in models.AccountInput) (models.Account, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Редактирование учётной записи
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID учётной записи"
// @Param request body models.AccountInput true "Новые данные"
// @Success 200 {object} response.Response "Учётная запись обновлена"
// @Failure 404 {object} response.ErrorResponse "Не найдена"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /accounts/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var in models.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	account, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		log.Warn("failed to update account", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("account updated", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"account": account,
	}))
}
