package rabbitmq

import (
	"context"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// Число заданий, обрабатываемых одновременно. Согласовано с Qos канала.
const maxInflightJobs = 10

// ConsumeJobs запускает потребление заданий из очереди. Каждое сообщение
// передаётся обработчику в своей горутине; ошибка обработчика возвращает
// сообщение в очередь, успех подтверждает его. Потребление останавливается
// по отмене контекста или закрытию канала.
func ConsumeJobs(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumeJobs"
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

	inflight := make(chan struct{}, maxInflightJobs)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				inflight <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-inflight }()
					if err := handler(d.Body); err != nil {
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Printf("failed to requeue job from %s: %v", queueName, nackErr)
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Printf("failed to ack job from %s: %v", queueName, ackErr)
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
