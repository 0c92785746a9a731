// Package update реализует HTTP-обработчик редактирования донора.
//
// Редактирование заменяет все поля записи; идентификатор и дата регистрации
// сохраняются реестром.
package update

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

// Handler обрабатывает запросы на редактирование донора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику редактирования донора.
type Service interface {
	Update(ctx context.Context, id string, in models.DonorInput) (models.Donor, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Редактирование донора
// @Tags Donors
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID донора"
// @Param request body models.DonorInput true "Новые данные донора"
// @Success 200 {object} response.Response "Донор обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Требуется вход"
// @Failure 404 {object} response.ErrorResponse "Донор не найден"
// @Failure 409 {object} response.ErrorResponse "Телефон уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /donors/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var in models.DonorInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	donor, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		log.Warn("failed to update donor", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("donor updated", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"donor": donor,
	}))
}
