// Package create реализует HTTP-обработчик публичной регистрации донора.
//
// Handler принимает JSON с данными донора, передаёт их реестру, который сам
// нормализует и проверяет поля, и возвращает созданную запись со статусом 201.
package create

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

// Handler обрабатывает запросы на регистрацию донора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику добавления донора.
type Service interface {
	Add(ctx context.Context, in models.DonorInput) (models.Donor, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Регистрация донора
// @Description Добавляет донора в справочник. Телефон должен быть уникальным.
// @Tags Donors
// @Accept  json
// @Produce  json
// @Param request body models.DonorInput true "Данные донора"
// @Success 201 {object} response.Response "Донор зарегистрирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Телефон уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /donors [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.DonorInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	donor, err := h.service.Add(r.Context(), in)
	if err != nil {
		log.Warn("failed to register donor", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("donor registered", slog.String("id", donor.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"donor": donor,
	}))
}
