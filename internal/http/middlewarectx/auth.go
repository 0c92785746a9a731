// Package middlewarectx содержит HTTP middleware: проверку JWT и прав администратора,
// ограничение частоты запросов, метрики и трассировку.
//
// JWTMiddleware проверяет токен из заголовка Authorization, заново загружает
// учётную запись и кладёт её в контекст запроса. Удалённые и неактивные
// учётные записи отклоняются, даже если токен ещё не истёк.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/http/response"
	"github.com/magabrotheeeer/lifeflow/internal/lib/jwt"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// AccountKey ключ учётной записи в контексте.
const AccountKey Key = "account"

// TokenParser разбирает и проверяет JWT.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// AccountResolver загружает актуальную учётную запись по id.
type AccountResolver interface {
	Get(ctx context.Context, id string) (models.Account, error)
}

// WithAccount кладёт учётную запись в контекст.
func WithAccount(ctx context.Context, a models.Account) context.Context {
	return context.WithValue(ctx, AccountKey, a)
}

// AccountFromContext достаёт учётную запись, положенную JWTMiddleware.
func AccountFromContext(ctx context.Context) (models.Account, bool) {
	a, ok := ctx.Value(AccountKey).(models.Account)
	return a, ok
}

// JWTMiddleware возвращает middleware, который проверяет JWT в заголовке Authorization.
func JWTMiddleware(log *slog.Logger, tokens TokenParser, accounts AccountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := tokens.ParseToken(tokenStr)
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			account, err := accounts.Get(r.Context(), claims.AccountID)
			switch {
			case errors.Is(err, models.ErrNotFound):
				log.Warn("token account no longer exists", slog.String("account_id", claims.AccountID))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("account not found"))
				return
			case err != nil:
				log.Error("failed to resolve account", sl.Err(err))
				response.RenderError(w, r, err)
				return
			}
			if !account.IsActive() {
				log.Warn("inactive account", slog.String("account_id", account.ID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("account is inactive"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// RequireAdmin пропускает только администраторов. Ставится после JWTMiddleware.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := AccountFromContext(r.Context())
			if !ok {
				log.Error("account missing in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			if !account.IsAdmin() {
				log.Warn("admin access denied", slog.String("account_id", account.ID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
