// Package lifeflow собирает HTTP-приложение реестра доноров: хранилище,
// реестры, шлюз сессии, публикацию событий, метрики и маршруты.
package lifeflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/lifeflow/internal/config"
	"github.com/magabrotheeeer/lifeflow/internal/events"
	"github.com/magabrotheeeer/lifeflow/internal/lib/jwt"
	"github.com/magabrotheeeer/lifeflow/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	accountservice "github.com/magabrotheeeer/lifeflow/internal/services/account"
	donorservice "github.com/magabrotheeeer/lifeflow/internal/services/donor"
	"github.com/magabrotheeeer/lifeflow/internal/services/session"
	"github.com/magabrotheeeer/lifeflow/internal/storage"
	"github.com/magabrotheeeer/lifeflow/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер со всеми зависимостями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []func() error

	shutdownTracing func(context.Context) error
}

// New собирает приложение по конфигу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)

	app := &App{
		logger:          logger,
		shutdownTracing: shutdownTracing,
	}

	rawStore, closeStore, err := OpenStore(ctx, cfg, logger, registry)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}
	app.closers = append(app.closers, closeStore)
	store := storage.Instrumented(rawStore, metrics)

	publisher, closePublisher, err := NewPublisher(cfg.RabbitMQ, logger)
	if err != nil {
		app.close()
		_ = shutdownTracing(ctx)
		return nil, err
	}
	app.closers = append(app.closers, closePublisher)
	publisher = events.Observed(publisher, metrics)

	creds, err := session.NewHashedCredentials(cfg.Credentials)
	if err != nil {
		app.close()
		_ = shutdownTracing(ctx)
		return nil, err
	}
	if len(cfg.Credentials) == 0 {
		logger.Warn("no credentials configured, nobody can log in")
	}

	donors := donorservice.New(logger, store, publisher, donorservice.Options{
		RecentWindow: cfg.RecentWindow,
		PhonePrefix:  cfg.PhonePrefix,
		StrictPhone:  cfg.StrictPhone,
	})
	accounts := accountservice.New(logger, store, publisher)
	gate := session.NewGate(logger, accounts, creds, store)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:   logger,
		Store:    store,
		Donors:   donors,
		Accounts: accounts,
		Gate:     gate,
		Tokens:   jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		Metrics:  metrics,
		Gatherer: registry,
		Limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// NewPublisher подключается к RabbitMQ, если он включён, иначе возвращает events.Noop.
func NewPublisher(cfg config.RabbitMQ, logger *slog.Logger) (events.Publisher, func() error, error) {
	const op = "lifeflow.NewPublisher"
	if !cfg.Enabled {
		return events.Noop{}, func() error { return nil }, nil
	}

	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange, rabbitmq.GetAuditQueues())
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("publishing events to rabbitmq", slog.String("exchange", cfg.Exchange))

	return events.NewRabbitPublisher(ch, cfg.Exchange), closeAMQP(ch, conn), nil
}

func closeAMQP(ch *amqp.Channel, conn *amqp.Connection) func() error {
	return func() error {
		return errors.Join(ch.Close(), conn.Close())
	}
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		if terr := a.shutdownTracing(timeoutCtx); terr != nil {
			a.logger.Warn("failed to flush traces", sl.Err(terr))
		}
		return err
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
