// Package me возвращает учётную запись, от имени которой выполнен запрос.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lifeflow/internal/http/response"
)

// Handler отдаёт текущую учётную запись из контекста запроса.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущая учётная запись
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	account, ok := middlewarectx.AccountFromContext(r.Context())
	if !ok {
		h.log.Error("account missing in context",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"account":  account,
		"is_admin": account.IsAdmin(),
	}))
}
