package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aboutwebsite/sitebuilder/internal/lib/jwt"
	"github.com/aboutwebsite/sitebuilder/internal/lib/password"
	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) UpdateProfile(ctx context.Context, userID, phone, fullName string) error {
	return m.Called(ctx, userID, phone, fullName).Error(0)
}

func (m *RepoMock) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

func (m *RepoMock) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	return m.Called(ctx, userID, token, expiry).Error(0)
}

func (m *RepoMock) ClearResetToken(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *RepoMock) CompleteOnboarding(ctx context.Context, userID string, data map[string]any) error {
	return m.Called(ctx, userID, data).Error(0)
}

type QueueMock struct{ mock.Mock }

func (m *QueueMock) PublishEmailJob(job models.EmailJob) error {
	return m.Called(job).Error(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newMaker(t *testing.T) jwt.Maker {
	t.Helper()
	return jwt.NewMaker("test-secret-key", time.Hour)
}

func TestService_Register(t *testing.T) {
	t.Run("успешная регистрация с welcome-письмом", func(t *testing.T) {
		repo := new(RepoMock)
		queue := new(QueueMock)
		service := New(repo, newMaker(t), queue, NewNoopLogger())

		repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == "new@example.com" && u.PasswordHash != "" && u.PasswordHash != "secret123"
		})).Return("user-1", nil).Once()
		queue.On("PublishEmailJob", mock.MatchedBy(func(job models.EmailJob) bool {
			return job.Type == models.EmailWelcome && job.Email == "new@example.com"
		})).Return(nil).Once()
		repo.On("GetUser", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", Email: "new@example.com"}, nil).Once()

		user, token, err := service.Register(context.Background(), models.DummyRegister{
			Phone:    "9876543210",
			FullName: "New User",
			Email:    "new@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.NotEmpty(t, token)
		repo.AssertExpectations(t)
		queue.AssertExpectations(t)
	})

	t.Run("email уже занят", func(t *testing.T) {
		repo := new(RepoMock)
		service := New(repo, newMaker(t), nil, NewNoopLogger())

		repo.On("RegisterUser", mock.Anything, mock.Anything).
			Return("", storage.ErrUniqueViolation).Once()

		_, _, err := service.Register(context.Background(), models.DummyRegister{
			Phone:    "9876543210",
			FullName: "New User",
			Email:    "taken@example.com",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	t.Run("успешный вход", func(t *testing.T) {
		repo := new(RepoMock)
		service := New(repo, newMaker(t), nil, NewNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "user@example.com").
			Return(&models.User{ID: "user-1", Email: "user@example.com", PasswordHash: hash}, nil).Once()

		user, token, err := service.Login(context.Background(), models.DummyLogin{
			Email:    "user@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		repo := new(RepoMock)
		service := New(repo, newMaker(t), nil, NewNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "user@example.com").
			Return(&models.User{ID: "user-1", PasswordHash: hash}, nil).Once()

		_, _, err := service.Login(context.Background(), models.DummyLogin{
			Email:    "user@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("неизвестный email", func(t *testing.T) {
		repo := new(RepoMock)
		service := New(repo, newMaker(t), nil, NewNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, storage.ErrNotFound).Once()

		_, _, err := service.Login(context.Background(), models.DummyLogin{
			Email:    "ghost@example.com",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_ForgotPassword(t *testing.T) {
	t.Run("токен выдаётся и уходит в письмо", func(t *testing.T) {
		repo := new(RepoMock)
		queue := new(QueueMock)
		service := New(repo, newMaker(t), queue, NewNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "user@example.com").
			Return(&models.User{ID: "user-1", Email: "user@example.com", FullName: "User"}, nil).Once()
		repo.On("SetResetToken", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(nil).Once()
		queue.On("PublishEmailJob", mock.MatchedBy(func(job models.EmailJob) bool {
			return job.Type == models.EmailPasswordReset && job.Vars["reset_token"] != ""
		})).Return(nil).Once()

		require.NoError(t, service.ForgotPassword(context.Background(), "user@example.com"))
		repo.AssertExpectations(t)
		queue.AssertExpectations(t)
	})

	t.Run("незнакомый email не раскрывается", func(t *testing.T) {
		repo := new(RepoMock)
		service := New(repo, newMaker(t), nil, NewNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, storage.ErrNotFound).Once()

		require.NoError(t, service.ForgotPassword(context.Background(), "ghost@example.com"))
		repo.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_ResetPassword(t *testing.T) {
	t.Run("просроченный токен", func(t *testing.T) {
		repo := new(RepoMock)
		service := New(repo, newMaker(t), nil, NewNoopLogger())

		repo.On("GetUserByResetToken", mock.Anything, "stale-token").
			Return(nil, storage.ErrNotFound).Once()

		err := service.ResetPassword(context.Background(), models.DummyResetPassword{
			Token:       "stale-token",
			NewPassword: "newsecret",
		})
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("успешный сброс очищает токен", func(t *testing.T) {
		repo := new(RepoMock)
		service := New(repo, newMaker(t), nil, NewNoopLogger())

		repo.On("GetUserByResetToken", mock.Anything, "valid-token").
			Return(&models.User{ID: "user-1"}, nil).Once()
		repo.On("UpdatePasswordHash", mock.Anything, "user-1", mock.Anything).Return(nil).Once()
		repo.On("ClearResetToken", mock.Anything, "user-1").Return(nil).Once()

		require.NoError(t, service.ResetPassword(context.Background(), models.DummyResetPassword{
			Token:       "valid-token",
			NewPassword: "newsecret",
		}))
		repo.AssertExpectations(t)
	})
}
