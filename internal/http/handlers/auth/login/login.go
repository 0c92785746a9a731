// Package login реализует HTTP-обработчик входа в систему.
//
// Обработчик проверяет email и пароль через шлюз сессии и при успехе
// выдаёт JWT для последующих запросов. Неверные учётные данные — это
// обычный ответ 401, а не внутренняя ошибка.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/lib/validation"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Request — структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Handler обрабатывает HTTP-запросы для входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	tokens   TokenMaker
	validate *validator.Validate
}

// Service проверяет учётные данные без изменения состояния сессии.
type Service interface {
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
}

// TokenMaker выпускает JWT для учётной записи.
type TokenMaker interface {
	GenerateToken(accountID, role string) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, tokens TokenMaker) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		tokens:   tokens,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход в систему
// @Description Проверяет email и пароль активной учётной записи. Возвращает JWT и учётную запись.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} response.Response "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := validation.Struct(h.validate, req).OrNil(); err != nil {
		log.Warn("validation failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	account, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	if account == nil {
		log.Info("invalid credentials", slog.String("email", req.Email))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}

	token, err := h.tokens.GenerateToken(account.ID, string(account.Role))
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("login success", slog.String("account_id", account.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":   token,
		"account": account,
	}))
}
