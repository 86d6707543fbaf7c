package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aboutwebsite/sitebuilder/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его ID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (phone, full_name, email, password_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Phone, user.FullName, user.Email, user.PasswordHash).Scan(&newID); err != nil {
		return "", mapError(op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по его email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, phone, full_name, email, password_hash, reset_token, reset_token_expiry,
				  onboarding_completed, onboarding_data, created_at
			  FROM users
			  WHERE lower(email) = lower($1)`
	return s.scanUser(op, s.DB.QueryRowContext(ctx, query, email))
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, phone, full_name, email, password_hash, reset_token, reset_token_expiry,
				  onboarding_completed, onboarding_data, created_at
			  FROM users
			  WHERE id = $1`
	return s.scanUser(op, s.DB.QueryRowContext(ctx, query, userID))
}

// GetUserByResetToken возвращает пользователя по непросроченному токену сброса пароля.
func (s *Storage) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	const op = "storage.GetUserByResetToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, phone, full_name, email, password_hash, reset_token, reset_token_expiry,
				  onboarding_completed, onboarding_data, created_at
			  FROM users
			  WHERE reset_token = $1
				AND reset_token_expiry > now()`
	return s.scanUser(op, s.DB.QueryRowContext(ctx, query, token))
}

// UpdateProfile обновляет телефон и имя пользователя.
func (s *Storage) UpdateProfile(ctx context.Context, userID, phone, fullName string) error {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET phone = $1, full_name = $2
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, phone, fullName, userID)
	if err != nil {
		return mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdatePasswordHash обновляет хэш пароля пользователя.
func (s *Storage) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	const op = "storage.UpdatePasswordHash"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// SetResetToken сохраняет токен сброса пароля и срок его действия.
func (s *Storage) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	const op = "storage.SetResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET reset_token = $1, reset_token_expiry = $2
			  WHERE id = $3`
	_, err := s.DB.ExecContext(ctx, query, token, expiry, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClearResetToken сбрасывает токен сброса пароля после использования.
func (s *Storage) ClearResetToken(ctx context.Context, userID string) error {
	const op = "storage.ClearResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET reset_token = NULL, reset_token_expiry = NULL
			  WHERE id = $1`
	_, err := s.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CompleteOnboarding помечает онбординг завершённым и сохраняет его данные.
func (s *Storage) CompleteOnboarding(ctx context.Context, userID string, data map[string]any) error {
	const op = "storage.CompleteOnboarding"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, err := marshalJSONB(data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE users
			  SET onboarding_completed = TRUE, onboarding_data = $1
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, raw, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func (s *Storage) scanUser(op string, row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var resetToken sql.NullString
	var resetTokenExpiry sql.NullTime
	var onboardingData []byte
	if err := row.Scan(&u.ID, &u.Phone, &u.FullName, &u.Email, &u.PasswordHash,
		&resetToken, &resetTokenExpiry, &u.OnboardingCompleted, &onboardingData,
		&u.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	if resetToken.Valid {
		u.ResetToken = &resetToken.String
	}
	if resetTokenExpiry.Valid {
		u.ResetTokenExpiry = &resetTokenExpiry.Time
	}
	data, err := unmarshalJSONB(onboardingData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.OnboardingData = data
	return u, nil
}
