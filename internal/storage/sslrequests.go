package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aboutwebsite/sitebuilder/internal/models"
)

const sslRequestColumns = `id, user_id, website_id, domain, status, requested_at, applied_at, notes`

// CreateSSLRequest вставляет новую SSL-заявку и возвращает созданную запись.
func (s *Storage) CreateSSLRequest(ctx context.Context, userID, websiteID, domain string) (*models.SSLRequest, error) {
	const op = "storage.CreateSSLRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO ssl_requests (user_id, website_id, domain)
			  VALUES ($1, $2, $3)
			  RETURNING ` + sslRequestColumns
	return s.scanSSLRequest(op, s.DB.QueryRowContext(ctx, query, userID, websiteID, domain))
}

// FindOpenSSLRequest ищет незавершённую заявку для пары сайт-домен.
// Возвращает false вторым значением, если такой заявки нет.
func (s *Storage) FindOpenSSLRequest(ctx context.Context, websiteID, domain string) (*models.SSLRequest, bool, error) {
	const op = "storage.FindOpenSSLRequest"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sslRequestColumns + `
			  FROM ssl_requests
			  WHERE website_id = $1
				AND lower(domain) = lower($2)
				AND status IN ('pending', 'processing')
			  ORDER BY requested_at DESC
			  LIMIT 1`
	req, err := s.scanSSLRequest(op, s.DB.QueryRowContext(ctx, query, websiteID, domain))
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return req, true, nil
}

// ListSSLRequests возвращает SSL-заявки пользователя, новые первыми.
func (s *Storage) ListSSLRequests(ctx context.Context, userID string) ([]*models.SSLRequest, error) {
	const op = "storage.ListSSLRequests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sslRequestColumns + `
			  FROM ssl_requests
			  WHERE user_id = $1
			  ORDER BY requested_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SSLRequest
	for rows.Next() {
		item, err := s.scanSSLRequest(op, rows)
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

// GetSSLRequest возвращает SSL-заявку по ID с проверкой владельца.
func (s *Storage) GetSSLRequest(ctx context.Context, id, userID string) (*models.SSLRequest, error) {
	const op = "storage.GetSSLRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sslRequestColumns + `
			  FROM ssl_requests
			  WHERE id = $1 AND user_id = $2`
	return s.scanSSLRequest(op, s.DB.QueryRowContext(ctx, query, id, userID))
}

// GetSSLRequestByDomain возвращает последнюю SSL-заявку пользователя
// по домену, независимо от её состояния.
func (s *Storage) GetSSLRequestByDomain(ctx context.Context, userID, domain string) (*models.SSLRequest, error) {
	const op = "storage.GetSSLRequestByDomain"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sslRequestColumns + `
			  FROM ssl_requests
			  WHERE user_id = $1 AND lower(domain) = lower($2)
			  ORDER BY requested_at DESC
			  LIMIT 1`
	return s.scanSSLRequest(op, s.DB.QueryRowContext(ctx, query, userID, domain))
}

func (s *Storage) scanSSLRequest(op string, row rowScanner) (*models.SSLRequest, error) {
	req := &models.SSLRequest{}
	var appliedAt sql.NullTime
	var notes sql.NullString
	if err := row.Scan(&req.ID, &req.UserID, &req.WebsiteID, &req.Domain, &req.Status,
		&req.RequestedAt, &appliedAt, &notes); err != nil {
		return nil, mapError(op, err)
	}
	if appliedAt.Valid {
		req.AppliedAt = &appliedAt.Time
	}
	if notes.Valid {
		req.Notes = &notes.String
	}
	return req, nil
}
