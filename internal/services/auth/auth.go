// Package auth реализует регистрацию, вход и управление учётной записью:
// профиль, смену и восстановление пароля, онбординг. Письма отправляются
// асинхронно через очередь заданий и не блокируют основной сценарий.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aboutwebsite/sitebuilder/internal/lib/jwt"
	"github.com/aboutwebsite/sitebuilder/internal/lib/password"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Срок действия токена сброса пароля.
const resetTokenTTL = time.Hour

// Ошибки сервиса аутентификации.
var (
	// ErrEmailTaken email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidResetToken токен сброса не найден или просрочен.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// Repository операции хранилища, нужные сервису аутентификации.
type Repository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, phone, fullName string) error
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	ClearResetToken(ctx context.Context, userID string) error
	CompleteOnboarding(ctx context.Context, userID string, data map[string]any) error
}

// EmailQueue публикация почтовых заданий.
type EmailQueue interface {
	PublishEmailJob(job models.EmailJob) error
}

// Service сервис аутентификации.
type Service struct {
	repo   Repository
	tokens jwt.Maker
	emails EmailQueue
	log    *slog.Logger
}

// New создаёт сервис аутентификации. Очередь писем может быть nil,
// тогда письма не отправляются.
func New(repo Repository, tokens jwt.Maker, emails EmailQueue, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		emails: emails,
		log:    log,
	}
}

// Register создаёт учётную запись и возвращает пользователя с токеном входа.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (*models.User, string, error) {
	hash, err := password.GetHash(req.Password)
	if err != nil {
		return nil, "", err
	}

	userID, err := s.repo.RegisterUser(ctx, models.User{
		Phone:        req.Phone,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(userID, req.Email)
	if err != nil {
		return nil, "", err
	}

	s.enqueueEmail(models.EmailJob{
		Type:  models.EmailWelcome,
		Email: req.Email,
		Name:  req.FullName,
	})
	s.log.Info("registered user", slog.String("user_id", userID))

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login проверяет учётные данные и возвращает пользователя с токеном входа.
func (s *Service) Login(ctx context.Context, req models.DummyLogin) (*models.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(req.Password, user.PasswordHash); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// Profile возвращает профиль пользователя.
func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userID)
}

// UpdateProfile обновляет телефон и имя пользователя.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req models.DummyProfileUpdate) (*models.User, error) {
	if err := s.repo.UpdateProfile(ctx, userID, req.Phone, req.FullName); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, userID)
}

// ChangePassword меняет пароль после проверки текущего.
func (s *Service) ChangePassword(ctx context.Context, userID string, req models.DummyChangePassword) error {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(req.CurrentPassword, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := password.GetHash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}
	s.log.Info("password changed", slog.String("user_id", userID))
	return nil
}

// ForgotPassword выдаёт токен сброса пароля и отправляет его на почту.
// Для незарегистрированного email завершается успешно без действий,
// чтобы не раскрывать существование учётной записи.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	token := uuid.New().String()
	if err := s.repo.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	s.enqueueEmail(models.EmailJob{
		Type:  models.EmailPasswordReset,
		Email: user.Email,
		Name:  user.FullName,
		Vars:  map[string]string{"reset_token": token},
	})
	s.log.Info("issued password reset token", slog.String("user_id", user.ID))
	return nil
}

// ResetPassword устанавливает новый пароль по токену сброса.
func (s *Service) ResetPassword(ctx context.Context, req models.DummyResetPassword) error {
	user, err := s.repo.GetUserByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := password.GetHash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.repo.ClearResetToken(ctx, user.ID); err != nil {
		return err
	}
	s.log.Info("password reset", slog.String("user_id", user.ID))
	return nil
}

// CompleteOnboarding сохраняет данные онбординга пользователя.
func (s *Service) CompleteOnboarding(ctx context.Context, userID string, data map[string]any) (*models.User, error) {
	if err := s.repo.CompleteOnboarding(ctx, userID, data); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, userID)
}

func (s *Service) enqueueEmail(job models.EmailJob) {
	if s.emails == nil {
		return
	}
	if err := s.emails.PublishEmailJob(job); err != nil {
		s.log.Warn("failed to publish email job",
			slog.String("type", job.Type), sl.Err(err))
	}
}
