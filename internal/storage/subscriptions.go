package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aboutwebsite/sitebuilder/internal/models"
)

const subscriptionColumns = `id, user_id, plan, duration, status, start_date, expires_at,
				  price, created_at, updated_at`

// FindActiveSubscription возвращает активную подписку пользователя
// независимо от срока её действия. Просрочку определяет сервисный слой.
func (s *Storage) FindActiveSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "storage.FindActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1 AND status = 'active'`
	return s.scanSubscription(op, s.DB.QueryRowContext(ctx, query, userID))
}

// CreateSubscription вставляет новую подписку и возвращает созданную запись.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_id, plan, duration, status, start_date, expires_at, price)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + subscriptionColumns
	return s.scanSubscription(op, s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.Plan, sub.Duration, sub.Status, sub.StartDate, sub.ExpiresAt, sub.Price))
}

// ExtendSubscription сдвигает срок действия активной подписки и обновляет
// её длительность и цену.
func (s *Storage) ExtendSubscription(ctx context.Context, id string, expiresAt time.Time, duration string, price int) (*models.Subscription, error) {
	const op = "storage.ExtendSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET expires_at = $1, duration = $2, price = price + $3, updated_at = now()
			  WHERE id = $4
			  RETURNING ` + subscriptionColumns
	return s.scanSubscription(op, s.DB.QueryRowContext(ctx, query, expiresAt, duration, price, id))
}

// MarkSubscriptionExpired переводит подписку в статус expired.
func (s *Storage) MarkSubscriptionExpired(ctx context.Context, id string) error {
	const op = "storage.MarkSubscriptionExpired"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = 'expired', updated_at = now()
			  WHERE id = $1`
	_, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CancelActiveSubscription переводит активную подписку пользователя в статус
// cancelled и возвращает количество изменённых строк.
func (s *Storage) CancelActiveSubscription(ctx context.Context, userID string) (int, error) {
	const op = "storage.CancelActiveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = 'cancelled', updated_at = now()
			  WHERE user_id = $1 AND status = 'active'`
	result, err := s.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func (s *Storage) scanSubscription(op string, row *sql.Row) (*models.Subscription, error) {
	sub := &models.Subscription{}
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.Plan, &sub.Duration, &sub.Status,
		&sub.StartDate, &sub.ExpiresAt, &sub.Price, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, mapError(op, err)
	}
	return sub, nil
}
