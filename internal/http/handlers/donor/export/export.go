// Package export реализует выгрузку справочника доноров в xlsx (только для администратора).
package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/lib/xlsx"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Handler обрабатывает запросы на выгрузку.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

// Service описывает чтение справочника и статистики для выгрузки.
type Service interface {
	List(ctx context.Context) ([]models.Donor, error)
	Stats(ctx context.Context, window time.Duration) (models.DonorStats, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Выгрузка доноров в Excel
// @Tags Admin
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Файл xlsx"
// @Failure 401 {object} response.ErrorResponse "Требуется вход"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Router /donors/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.export"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	donors, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list donors", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	stats, err := h.service.Stats(r.Context(), 0)
	if err != nil {
		log.Error("failed to compute stats", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	data, err := xlsx.ExportDonors(donors, stats)
	if err != nil {
		log.Error("failed to build workbook", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	filename := fmt.Sprintf("donors-%s.xlsx", h.now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write workbook", sl.Err(err))
		return
	}
	log.Info("donors exported", slog.Int("count", len(donors)))
}
