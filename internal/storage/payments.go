package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aboutwebsite/sitebuilder/internal/models"
)

const paymentColumns = `id, razorpay_order_id, amount, currency, receipt, notes, status,
				  payment_id, completed_at, created_at, updated_at`

// SavePayment сохраняет созданный заказ платёжного шлюза.
func (s *Storage) SavePayment(ctx context.Context, payment models.Payment) (*models.Payment, error) {
	const op = "storage.SavePayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, err := marshalJSONB(payment.Notes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO payments (razorpay_order_id, amount, currency, receipt, notes, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + paymentColumns
	return s.scanPayment(op, s.DB.QueryRowContext(ctx, query,
		payment.RazorpayOrderID, payment.Amount, payment.Currency, payment.Receipt, raw, payment.Status))
}

// GetPaymentByOrderID возвращает платёж по идентификатору заказа шлюза.
func (s *Storage) GetPaymentByOrderID(ctx context.Context, razorpayOrderID string) (*models.Payment, error) {
	const op = "storage.GetPaymentByOrderID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE razorpay_order_id = $1`
	return s.scanPayment(op, s.DB.QueryRowContext(ctx, query, razorpayOrderID))
}

// UpdatePaymentStatus обновляет состояние платежа после валидации подписи.
// Для завершённых платежей сохраняет идентификатор платежа и время завершения.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, razorpayOrderID, status string, paymentID *string) error {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $1,
				  payment_id = COALESCE($2, payment_id),
				  completed_at = CASE WHEN $1 = 'completed' THEN now() ELSE completed_at END,
				  updated_at = now()
			  WHERE razorpay_order_id = $3`
	result, err := s.DB.ExecContext(ctx, query, status, paymentID, razorpayOrderID)
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

// ListPaymentsForUser возвращает платежи пользователя по полю user_id
// в контексте заказа, новые первыми.
func (s *Storage) ListPaymentsForUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsForUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE notes ->> 'user_id' = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		item, err := s.scanPayment(op, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) scanPayment(op string, row rowScanner) (*models.Payment, error) {
	p := &models.Payment{}
	var receipt, paymentID sql.NullString
	var completedAt sql.NullTime
	var notes []byte
	if err := row.Scan(&p.ID, &p.RazorpayOrderID, &p.Amount, &p.Currency, &receipt, &notes,
		&p.Status, &paymentID, &completedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapError(op, err)
	}
	if receipt.Valid {
		p.Receipt = receipt.String
	}
	parsed, err := unmarshalJSONB(notes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.Notes = parsed
	if paymentID.Valid {
		p.PaymentID = &paymentID.String
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return p, nil
}
