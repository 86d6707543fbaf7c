// Package notifier собирает воркер отправки писем: подключается к RabbitMQ,
// потребляет задания из очереди и отправляет письма через MSG91.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/aboutwebsite/sitebuilder/internal/config"
	"github.com/aboutwebsite/sitebuilder/internal/providers/msg91"
	"github.com/aboutwebsite/sitebuilder/internal/rabbitmq"
	mailerservice "github.com/aboutwebsite/sitebuilder/internal/services/mailer"
)

// App воркер отправки писем.
type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	mailer *mailerservice.Service
	logger *slog.Logger
}

// New инициализирует подключение к брокеру и сервис отправки писем.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	sender := msg91.NewClient(cfg.MSG91AuthKey, cfg.MSG91FromEmail, cfg.MSG91FromName, cfg.MSG91Domain)
	mailer := mailerservice.New(sender, cfg.AppURL, logger)

	return &App{
		conn:   conn,
		ch:     ch,
		mailer: mailer,
		logger: logger,
	}, nil
}

// Run запускает потребителя очереди писем и работает до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeJobs(ctx, a.ch, "email_jobs", a.mailer.HandleEmailJob)
	if err != nil {
		a.logger.Error("failed to start email_jobs consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
