package ai

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type CompleterMock struct{ mock.Mock }

func (m *CompleterMock) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *CompleterMock) ChatCompletion(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const description = "A family bakery in Pune serving fresh bread and cakes"

func TestService_Generate(t *testing.T) {
	t.Run("ответ модели разбирается в контент", func(t *testing.T) {
		completer := new(CompleterMock)
		service := New(completer, NewNoopLogger())

		completer.On("IsConfigured").Return(true).Once()
		completer.On("ChatCompletion", mock.Anything, mock.Anything, description).
			Return(`{"tagline":"Fresh daily","heroTitle":"Pune Bakery","heroSubtitle":"Bread and cakes","heroDescription":"d","aboutTitle":"About","aboutDescription":"a"}`, nil).Once()

		content, generated := service.Generate(context.Background(), description)
		assert.True(t, generated)
		assert.Equal(t, "Fresh daily", content.Tagline)
		assert.Equal(t, "Pune Bakery", content.HeroTitle)
	})

	t.Run("code fence вокруг JSON не мешает", func(t *testing.T) {
		completer := new(CompleterMock)
		service := New(completer, NewNoopLogger())

		completer.On("IsConfigured").Return(true).Once()
		completer.On("ChatCompletion", mock.Anything, mock.Anything, description).
			Return("```json\n{\"tagline\":\"Fresh daily\",\"heroTitle\":\"t\",\"heroSubtitle\":\"s\",\"heroDescription\":\"d\",\"aboutTitle\":\"a\",\"aboutDescription\":\"ad\"}\n```", nil).Once()

		content, generated := service.Generate(context.Background(), description)
		assert.True(t, generated)
		assert.Equal(t, "Fresh daily", content.Tagline)
	})

	t.Run("ошибка модели даёт шаблонный фолбэк", func(t *testing.T) {
		completer := new(CompleterMock)
		service := New(completer, NewNoopLogger())

		completer.On("IsConfigured").Return(true).Once()
		completer.On("ChatCompletion", mock.Anything, mock.Anything, description).
			Return("", assert.AnError).Once()

		content, generated := service.Generate(context.Background(), description)
		assert.False(t, generated)
		require.NotNil(t, content)
		assert.Equal(t, description, content.AboutDescription)
	})

	t.Run("без ключа сразу фолбэк", func(t *testing.T) {
		completer := new(CompleterMock)
		service := New(completer, NewNoopLogger())

		completer.On("IsConfigured").Return(false).Once()

		content, generated := service.Generate(context.Background(), description)
		assert.False(t, generated)
		require.NotNil(t, content)
		completer.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything, mock.Anything)
	})
}
