package lifeflow

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/account/accountcreate"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/account/accountlist"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/account/accountremove"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/account/accountupdate"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/donor/clearall"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/donor/create"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/donor/export"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/donor/list"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/donor/read"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/donor/remove"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/donor/stats"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/donor/update"
	"github.com/magabrotheeeer/lifeflow/internal/http/handlers/health"
	"github.com/magabrotheeeer/lifeflow/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lifeflow/internal/lib/jwt"
	accountservice "github.com/magabrotheeeer/lifeflow/internal/services/account"
	donorservice "github.com/magabrotheeeer/lifeflow/internal/services/donor"
	"github.com/magabrotheeeer/lifeflow/internal/services/session"
	"github.com/magabrotheeeer/lifeflow/internal/storage"
	"github.com/magabrotheeeer/lifeflow/internal/telemetry"
)

// Deps зависимости HTTP-маршрутов.
type Deps struct {
	Logger   *slog.Logger
	Store    storage.RecordStore
	Donors   *donorservice.Registry
	Accounts *accountservice.Registry
	Gate     *session.Gate
	Tokens   jwt.Maker
	Metrics  *telemetry.Metrics
	Gatherer prometheus.Gatherer
	Limiter  *rate.Limiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Observe(d.Metrics),
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, d.Gate, d.Tokens).ServeHTTP)
		r.Get("/donors", list.New(logger, d.Donors).ServeHTTP)
		r.Get("/donors/stats", stats.New(logger, d.Donors).ServeHTTP)
		r.Get("/donors/{id}", read.New(logger, d.Donors).ServeHTTP)
		r.With(middlewarectx.RateLimitMiddleware(logger, d.Limiter)).
			Post("/donors", create.New(logger, d.Donors).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(logger, d.Tokens, d.Accounts))
			r.Get("/me", me.New(logger).ServeHTTP)
			r.Put("/donors/{id}", update.New(logger, d.Donors).ServeHTTP)
			r.Delete("/donors/{id}", remove.New(logger, d.Donors).ServeHTTP)

			// Панель администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Delete("/donors", clearall.New(logger, d.Donors).ServeHTTP)
				r.Get("/donors/export", export.New(logger, d.Donors).ServeHTTP)
				r.Get("/accounts", accountlist.New(logger, d.Accounts).ServeHTTP)
				r.Post("/accounts", accountcreate.New(logger, d.Accounts).ServeHTTP)
				r.Put("/accounts/{id}", accountupdate.New(logger, d.Accounts).ServeHTTP)
				r.Delete("/accounts/{id}", accountremove.New(logger, d.Accounts).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, d.Store).ServeHTTP)
	r.Handle("/metrics", metricsHandler(d.Gatherer))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

func metricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
