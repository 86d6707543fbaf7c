// Package mailer обрабатывает почтовые задания из очереди и отправляет
// письма через внешнего провайдера.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aboutwebsite/sitebuilder/internal/models"
)

const sendTimeout = 15 * time.Second

// Sender отправка писем через провайдера.
type Sender interface {
	IsConfigured() bool
	SendEmail(ctx context.Context, toEmail, toName, subject, htmlBody string) error
}

// Service обработчик почтовых заданий.
type Service struct {
	sender Sender
	appURL string
	log    *slog.Logger
}

// New создаёт обработчик почтовых заданий. Аргумент appURL — адрес
// веб-приложения для ссылок в письмах.
func New(sender Sender, appURL string, log *slog.Logger) *Service {
	return &Service{
		sender: sender,
		appURL: appURL,
		log:    log,
	}
}

// HandleEmailJob обрабатывает одно задание из очереди. Ошибка приводит
// к повторной доставке сообщения брокером.
func (s *Service) HandleEmailJob(body []byte) error {
	var job models.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		// Нечитаемое задание повторять бессмысленно
		s.log.Error("dropping malformed email job", slog.Any("err", err))
		return nil
	}

	if !s.sender.IsConfigured() {
		s.log.Warn("email sender is not configured, dropping job",
			slog.String("type", job.Type))
		return nil
	}

	subject, html, err := s.render(job)
	if err != nil {
		s.log.Error("dropping email job", slog.String("type", job.Type), slog.Any("err", err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := s.sender.SendEmail(ctx, job.Email, job.Name, subject, html); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	s.log.Info("sent email",
		slog.String("type", job.Type),
		slog.String("email", job.Email))
	return nil
}

func (s *Service) render(job models.EmailJob) (string, string, error) {
	switch job.Type {
	case models.EmailWelcome:
		subject := "Welcome to AboutWebsite"
		html := fmt.Sprintf(
			`<h2>Hi %s,</h2>
<p>Your account is ready. Build your website and publish it in minutes.</p>
<p><a href="%s">Open the builder</a></p>`,
			job.Name, s.appURL)
		return subject, html, nil
	case models.EmailPasswordReset:
		token := job.Vars["reset_token"]
		if token == "" {
			return "", "", fmt.Errorf("password reset job without token")
		}
		subject := "Reset your password"
		html := fmt.Sprintf(
			`<h2>Hi %s,</h2>
<p>We received a request to reset your password. The link is valid for one hour.</p>
<p><a href="%s/reset-password?token=%s">Reset password</a></p>
<p>If you did not request this, ignore this email.</p>`,
			job.Name, s.appURL, token)
		return subject, html, nil
	default:
		return "", "", fmt.Errorf("unknown email job type: %s", job.Type)
	}
}
