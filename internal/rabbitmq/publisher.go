package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// PublishMessage публикует сообщение в обменник уведомлений
// с постоянным режимом доставки.
func PublishMessage(ch *amqp.Channel, routingKey string, body []byte) error {
	const op = "rabbitmq.PublishMessage"
	err := ch.Publish(
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
