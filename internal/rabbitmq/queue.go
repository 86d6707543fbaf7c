package rabbitmq

import (
	"encoding/json"

	"github.com/streadway/amqp"

	"github.com/aboutwebsite/sitebuilder/internal/models"
)

// EmailQueue публикует почтовые задания в очередь email_jobs.
type EmailQueue struct {
	ch *amqp.Channel
}

// NewEmailQueue создаёт издателя почтовых заданий.
func NewEmailQueue(ch *amqp.Channel) *EmailQueue {
	return &EmailQueue{ch: ch}
}

// PublishEmailJob сериализует задание и публикует его с ключом "email".
func (q *EmailQueue) PublishEmailJob(job models.EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return PublishMessage(q.ch, "email", body)
}
