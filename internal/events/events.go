// Package events описывает доменные события реестра и их публикацию.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/lifeflow/internal/lib/rabbitmq"
)

// Типы событий, они же routing key в exchange.
const (
	DonorCreated   = "donor.created"
	DonorUpdated   = "donor.updated"
	DonorDeleted   = "donor.deleted"
	DonorsCleared  = "donor.cleared"
	AccountCreated = "account.created"
	AccountUpdated = "account.updated"
	AccountDeleted = "account.deleted"
)

// Event событие об изменении реестра.
type Event struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// New создаёт событие с текущим временем.
func New(eventType, entityID string, payload any) Event {
	return Event{
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher публикует события. Ошибка публикации не отменяет уже сохранённое изменение.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop отбрасывает события, когда брокер не настроен.
type Noop struct{}

// Publish ничего не делает.
func (Noop) Publish(context.Context, Event) error { return nil }

// RabbitPublisher публикует события в topic exchange RabbitMQ.
type RabbitPublisher struct {
	ch       rabbitmq.Channel
	exchange string
}

// NewRabbitPublisher создаёт публикатор поверх открытого канала.
func NewRabbitPublisher(ch rabbitmq.Channel, exchange string) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, exchange: exchange}
}

// Publish отправляет событие с routing key, равным его типу.
func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	const op = "events.RabbitPublisher.Publish"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if err := rabbitmq.PublishMessage(p.ch, p.exchange, e.Type, e); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Observer получает результат каждой публикации.
type Observer interface {
	ObserveEvent(eventType, status string)
}

type observed struct {
	next     Publisher
	observer Observer
}

// Observed оборачивает Publisher, сообщая observer статус публикации: ok или error.
func Observed(next Publisher, observer Observer) Publisher {
	return &observed{next: next, observer: observer}
}

func (o *observed) Publish(ctx context.Context, e Event) error {
	err := o.next.Publish(ctx, e)
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.observer.ObserveEvent(e.Type, status)
	return err
}
