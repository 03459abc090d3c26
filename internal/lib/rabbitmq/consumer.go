package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
)

// ConsumerMessage запускает потребителя очереди. Каждое сообщение обрабатывается handler
// в отдельной горутине, не более concurrency одновременно. Ошибка обработчика
// возвращает сообщение в очередь.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string,
	concurrency int, handler func(context.Context, []byte) error) error {
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

	if concurrency < 1 {
		concurrency = 1
	}
	go serve(ctx, log, delivery, queueName, concurrency, handler)
	return nil
}

// serve раздаёт сообщения обработчикам до закрытия канала или отмены ctx.
// Сообщение, полученное после отмены, возвращается в очередь необработанным.
func serve(ctx context.Context, log *slog.Logger, deliveries <-chan amqp.Delivery, queueName string,
	concurrency int, handler func(context.Context, []byte) error) {
	sem := make(chan struct{}, concurrency)
	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				if err := d.Nack(false, true); err != nil {
					log.Error("failed to requeue message", sl.Err(err))
				}
				return
			}
			go func(delivery amqp.Delivery) {
				defer func() { <-sem }()
				if err := handler(ctx, delivery.Body); err != nil {
					log.Error("failed to handle message", slog.String("queue", queueName), sl.Err(err))
					if nackErr := delivery.Nack(false, !delivery.Redelivered); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					return
				}
				if ackErr := delivery.Ack(false); ackErr != nil {
					log.Error("failed to ack message", sl.Err(ackErr))
				}
			}(d)
		case <-ctx.Done():
			return
		}
	}
}
