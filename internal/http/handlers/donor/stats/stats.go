// Package stats реализует HTTP-обработчик статистики справочника доноров.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Handler обрабатывает запросы статистики.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает расчёт статистики. Окно <= 0 означает окно по умолчанию.
type Service interface {
	Stats(ctx context.Context, window time.Duration) (models.DonorStats, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика доноров
// @Description Общее число доноров, распределение по группам крови и число недавних регистраций.
// @Tags Donors
// @Produce  json
// @Param window_days query int false "Окно недавних регистраций в днях"
// @Success 200 {object} response.Response "Статистика"
// @Failure 400 {object} response.ErrorResponse "Некорректное окно"
// @Router /donors/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var window time.Duration
	if raw := r.URL.Query().Get("window_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 || days > models.MaxRecentWindowDays {
			log.Warn("invalid window_days", slog.String("window_days", raw))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("window_days must be a positive integer up to %d", models.MaxRecentWindowDays)))
			return
		}
		window = time.Duration(days) * 24 * time.Hour
	}

	res, err := h.service.Stats(r.Context(), window)
	if err != nil {
		log.Error("failed to compute stats", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(res))
}
