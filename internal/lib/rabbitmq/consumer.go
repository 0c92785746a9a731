package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
)

// ConsumerMessage читает сообщения очереди и передаёт тело в handler до отмены ctx.
// Сообщение подтверждается после успешной обработки, иначе отклоняется без возврата в очередь.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-delivery:
			if !ok {
				return fmt.Errorf("%s: delivery channel closed", op)
			}
			handleDelivery(log, d, handler)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handleDelivery(log *slog.Logger, d amqp.Delivery, handler func([]byte) error) {
	process(log, d.Body, &d, handler)
}

func process(log *slog.Logger, body []byte, ack acknowledger, handler func([]byte) error) {
	if err := handler(body); err != nil {
		log.Warn("failed to handle message", sl.Err(err))
		if nackErr := ack.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
