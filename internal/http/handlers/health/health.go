// Package health реализует проверку готовности сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/storage"
)

// Handler отвечает на проверки живости и готовности.
type Handler struct {
	log   *slog.Logger
	store storage.RecordStore
}

// New создает новый Handler. Хранилище опрашивается чтением коллекции доноров.
func New(log *slog.Logger, store storage.RecordStore) *Handler {
	return &Handler{
		log:   log,
		store: store,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Сервис готов"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if _, err := h.store.Get(r.Context(), storage.Donors); err != nil {
		h.log.Warn("storage check failed", slog.String("op", op), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}

