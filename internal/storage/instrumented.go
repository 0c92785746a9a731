package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Observer принимает замеры операций хранилища.
type Observer interface {
	ObserveStore(op, collection, status string, duration time.Duration)
}

type instrumented struct {
	next     RecordStore
	observer Observer
	tracer   trace.Tracer
}

// Instrumented оборачивает хранилище метриками и трейсингом.
func Instrumented(next RecordStore, observer Observer) RecordStore {
	return &instrumented{
		next:     next,
		observer: observer,
		tracer:   otel.Tracer("github.com/magabrotheeeer/lifeflow/internal/storage"),
	}
}

func (s *instrumented) Get(ctx context.Context, c Collection) ([]json.RawMessage, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Get", trace.WithAttributes(attribute.String("collection", string(c))))
	defer span.End()

	start := time.Now()
	records, err := s.next.Get(ctx, c)
	s.finish(span, "get", c, start, err)
	if err == nil {
		span.SetAttributes(attribute.Int("records", len(records)))
	}
	return records, err
}

func (s *instrumented) Put(ctx context.Context, c Collection, records []json.RawMessage) error {
	ctx, span := s.tracer.Start(ctx, "storage.Put", trace.WithAttributes(
		attribute.String("collection", string(c)),
		attribute.Int("records", len(records)),
	))
	defer span.End()

	start := time.Now()
	err := s.next.Put(ctx, c, records)
	s.finish(span, "put", c, start, err)
	return err
}

func (s *instrumented) finish(span trace.Span, op string, c Collection, start time.Time, err error) {
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, models.ErrStorageUnavailable):
		status = "unavailable"
	default:
		status = "error"
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.observer != nil {
		s.observer.ObserveStore(op, string(c), status, time.Since(start))
	}
}
