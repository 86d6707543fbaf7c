package mailer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aboutwebsite/sitebuilder/internal/models"
)

type SenderMock struct{ mock.Mock }

func (m *SenderMock) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *SenderMock) SendEmail(ctx context.Context, toEmail, toName, subject, htmlBody string) error {
	args := m.Called(ctx, toEmail, toName, subject, htmlBody)
	return args.Error(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_HandleEmailJob(t *testing.T) {
	const appURL = "https://aboutwebsite.in"

	t.Run("приветственное письмо отправляется", func(t *testing.T) {
		sender := new(SenderMock)
		service := New(sender, appURL, NewNoopLogger())

		sender.On("IsConfigured").Return(true).Once()
		sender.On("SendEmail", mock.Anything, "asha@example.com", "Asha Rao",
			"Welcome to AboutWebsite", mock.MatchedBy(func(html string) bool {
				return strings.Contains(html, "Asha Rao")
			})).Return(nil).Once()

		body, err := json.Marshal(models.EmailJob{
			Type:  models.EmailWelcome,
			Email: "asha@example.com",
			Name:  "Asha Rao",
		})
		require.NoError(t, err)

		assert.NoError(t, service.HandleEmailJob(body))
		sender.AssertExpectations(t)
	})

	t.Run("письмо сброса содержит ссылку с токеном", func(t *testing.T) {
		sender := new(SenderMock)
		service := New(sender, appURL, NewNoopLogger())

		sender.On("IsConfigured").Return(true).Once()
		sender.On("SendEmail", mock.Anything, "asha@example.com", "Asha Rao",
			"Reset your password", mock.MatchedBy(func(html string) bool {
				return strings.Contains(html, appURL+"/reset-password?token=tok-123")
			})).Return(nil).Once()

		body, _ := json.Marshal(models.EmailJob{
			Type:  models.EmailPasswordReset,
			Email: "asha@example.com",
			Name:  "Asha Rao",
			Vars:  map[string]string{"reset_token": "tok-123"},
		})

		assert.NoError(t, service.HandleEmailJob(body))
		sender.AssertExpectations(t)
	})

	t.Run("нечитаемое задание не возвращается в очередь", func(t *testing.T) {
		sender := new(SenderMock)
		service := New(sender, appURL, NewNoopLogger())

		assert.NoError(t, service.HandleEmailJob([]byte("not a json")))
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("без настроенного провайдера задание отбрасывается", func(t *testing.T) {
		sender := new(SenderMock)
		service := New(sender, appURL, NewNoopLogger())

		sender.On("IsConfigured").Return(false).Once()

		body, _ := json.Marshal(models.EmailJob{Type: models.EmailWelcome, Email: "a@b.c", Name: "A"})
		assert.NoError(t, service.HandleEmailJob(body))
	})

	t.Run("ошибка отправки возвращает задание в очередь", func(t *testing.T) {
		sender := new(SenderMock)
		service := New(sender, appURL, NewNoopLogger())

		sender.On("IsConfigured").Return(true).Once()
		sender.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError).Once()

		body, _ := json.Marshal(models.EmailJob{Type: models.EmailWelcome, Email: "a@b.c", Name: "A"})
		assert.Error(t, service.HandleEmailJob(body))
	})

	t.Run("сброс без токена отбрасывается", func(t *testing.T) {
		sender := new(SenderMock)
		service := New(sender, appURL, NewNoopLogger())

		sender.On("IsConfigured").Return(true).Once()

		body, _ := json.Marshal(models.EmailJob{Type: models.EmailPasswordReset, Email: "a@b.c", Name: "A"})
		assert.NoError(t, service.HandleEmailJob(body))
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
