// Package list реализует HTTP-обработчик просмотра и поиска по справочнику доноров.
//
// Параметр q ищет подстроку без учёта регистра в имени, телефоне, группе крови
// и адресе; blood_type отбирает одну группу ("all" или пусто — все группы).
// Если хранилище недоступно, справочник возвращается пустым.
package list

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

// Handler обрабатывает запросы на получение списка доноров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику поиска доноров.
type Service interface {
	Search(ctx context.Context, f models.DonorFilter) ([]models.Donor, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Справочник доноров
// @Tags Donors
// @Produce  json
// @Param q query string false "Строка поиска"
// @Param blood_type query string false "Группа крови или all"
// @Success 200 {object} response.Response "Список доноров"
// @Router /donors [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.DonorFilter{
		Query:     r.URL.Query().Get("q"),
		BloodType: r.URL.Query().Get("blood_type"),
	}

	donors, err := h.service.Search(r.Context(), filter)
	if err != nil {
		log.Error("failed to search donors", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Debug("donors listed", slog.Int("count", len(donors)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"donors": donors,
		"count":  len(donors),
	}))
}
