// Package main содержит точку входа консольного клиента реестра доноров.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/lifeflow/internal/app/donorctl"
	"github.com/magabrotheeeer/lifeflow/internal/app/lifeflow"
	"github.com/magabrotheeeer/lifeflow/internal/config"
	"github.com/magabrotheeeer/lifeflow/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lifeflow/internal/services/account"
	"github.com/magabrotheeeer/lifeflow/internal/services/donor"
	"github.com/magabrotheeeer/lifeflow/internal/services/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.MustLoad()

	level := slog.LevelWarn
	if os.Getenv("DONORCTL_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := lifeflow.OpenStore(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("failed to open storage", slog.Any("err", err))
		return 1
	}
	defer func() {
		_ = closeStore()
	}()

	publisher, closePublisher, err := lifeflow.NewPublisher(cfg.RabbitMQ, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.Any("err", err))
		return 1
	}
	defer func() {
		_ = closePublisher()
	}()

	creds, err := session.NewHashedCredentials(cfg.Credentials)
	if err != nil {
		logger.Error("failed to load credentials", slog.Any("err", err))
		return 1
	}

	donors := donor.New(logger, store, publisher, donor.Options{
		RecentWindow: cfg.RecentWindow,
		PhonePrefix:  cfg.PhonePrefix,
		StrictPhone:  cfg.StrictPhone,
	})
	accounts := account.New(logger, store, publisher)
	gate := session.NewGate(logger, accounts, creds, store)

	var source donorctl.EventSource
	if cfg.RabbitMQ.Enabled {
		source = &auditSource{cfg: cfg.RabbitMQ, log: logger}
	}

	cli := donorctl.New(logger, donors, gate, source, os.Stdout)
	if err := cli.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, donorctl.ErrUsage) {
			fmt.Fprint(os.Stderr, donorctl.Usage)
			return 2
		}
		return 1
	}
	return 0
}

// auditSource читает очередь аудита через отдельное соединение.
type auditSource struct {
	cfg config.RabbitMQ
	log *slog.Logger
}

func (s *auditSource) Consume(ctx context.Context, handler func([]byte) error) error {
	conn, err := rabbitmq.Connect(s.cfg.URL, s.cfg.Retries, s.cfg.RetryDelay)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()

	ch, err := rabbitmq.SetupExchange(conn, s.cfg.Exchange, rabbitmq.GetAuditQueues())
	if err != nil {
		return err
	}
	defer func() {
		_ = ch.Close()
	}()

	return rabbitmq.ConsumerMessage(ctx, s.log, ch, rabbitmq.AuditQueue, handler)
}
