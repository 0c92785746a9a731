// Package accountcreate реализует HTTP-обработчик создания учётной записи администратором.
package accountcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Handler обрабатывает запросы на создание учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику добавления учётной записи.
type Service interface {
	Add(ctx context.Context, in models.AccountInput) (models.Account, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создание учётной записи
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.AccountInput true "Данные учётной записи"
// @Success 201 {object} response.Response "Учётная запись создана"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /accounts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	account, err := h.service.Add(r.Context(), in)
	if err != nil {
		log.Warn("failed to create account", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("account created", slog.String("id", account.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"account": account,
	}))
}
