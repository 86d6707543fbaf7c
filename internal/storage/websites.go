package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aboutwebsite/sitebuilder/internal/models"
)

const websiteColumns = `id, user_id, name, data, subdomain, custom_domain,
				  is_published, published_url, created_at, updated_at`

// Выражение канонического домена: пользовательский домен без префикса "www.".
// Совпадает с выражением уникального индекса websites_custom_domain_unique.
const canonicalDomainExpr = `(CASE
				WHEN lower(custom_domain) LIKE 'www.%'
					THEN substring(lower(custom_domain) FROM 5)
				ELSE lower(custom_domain)
			END)`

// CreateWebsite вставляет новый сайт пользователя и возвращает созданную запись.
func (s *Storage) CreateWebsite(ctx context.Context, userID, name string, data map[string]any) (*models.Website, error) {
	const op = "storage.CreateWebsite"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, err := marshalJSONB(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO websites (user_id, name, data)
			  VALUES ($1, $2, $3)
			  RETURNING ` + websiteColumns
	return s.scanWebsite(op, s.DB.QueryRowContext(ctx, query, userID, name, raw))
}

// CountWebsites возвращает количество сайтов пользователя.
func (s *Storage) CountWebsites(ctx context.Context, userID string) (int, error) {
	const op = "storage.CountWebsites"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM websites WHERE user_id = $1`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListWebsites возвращает список сайтов пользователя, новые первыми.
func (s *Storage) ListWebsites(ctx context.Context, userID string) ([]*models.Website, error) {
	const op = "storage.ListWebsites"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + websiteColumns + `
			  FROM websites
			  WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Website
	for rows.Next() {
		item, err := s.scanWebsite(op, rows)
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

// GetWebsite возвращает сайт по ID с проверкой владельца.
func (s *Storage) GetWebsite(ctx context.Context, id, userID string) (*models.Website, error) {
	const op = "storage.GetWebsite"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + websiteColumns + `
			  FROM websites
			  WHERE id = $1 AND user_id = $2`
	return s.scanWebsite(op, s.DB.QueryRowContext(ctx, query, id, userID))
}

// GetWebsiteByID возвращает сайт по ID без проверки владельца.
func (s *Storage) GetWebsiteByID(ctx context.Context, id string) (*models.Website, error) {
	const op = "storage.GetWebsiteByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + websiteColumns + `
			  FROM websites
			  WHERE id = $1`
	return s.scanWebsite(op, s.DB.QueryRowContext(ctx, query, id))
}

// UpdateWebsite обновляет имя и документ сайта с проверкой владельца.
func (s *Storage) UpdateWebsite(ctx context.Context, id, userID, name string, data map[string]any) error {
	const op = "storage.UpdateWebsite"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, err := marshalJSONB(data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE websites
			  SET name = $1, data = $2, updated_at = now()
			  WHERE id = $3 AND user_id = $4`
	result, err := s.DB.ExecContext(ctx, query, name, raw, id, userID)
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

// DeleteWebsite удаляет сайт с проверкой владельца и возвращает количество удалённых строк.
func (s *Storage) DeleteWebsite(ctx context.Context, id, userID string) (int, error) {
	const op = "storage.DeleteWebsite"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM websites WHERE id = $1 AND user_id = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetSubdomain устанавливает или снимает поддомен сайта. Конфликт уникальности
// возвращается как ErrUniqueViolation.
func (s *Storage) SetSubdomain(ctx context.Context, id string, subdomain *string) error {
	const op = "storage.SetSubdomain"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE websites
			  SET subdomain = $1, updated_at = now()
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, subdomain, id)
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

// SetCustomDomain устанавливает или снимает пользовательский домен сайта.
// Конфликт уникальности возвращается как ErrUniqueViolation.
func (s *Storage) SetCustomDomain(ctx context.Context, id string, customDomain *string) error {
	const op = "storage.SetCustomDomain"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE websites
			  SET custom_domain = $1, updated_at = now()
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, customDomain, id)
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

// SetPublished обновляет флаг публикации и публичный URL сайта.
func (s *Storage) SetPublished(ctx context.Context, id string, isPublished bool, publishedURL *string) error {
	const op = "storage.SetPublished"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE websites
			  SET is_published = $1, published_url = $2, updated_at = now()
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, isPublished, publishedURL, id)
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

// FindWebsiteIDBySubdomain ищет сайт, занявший поддомен, исключая excludeID.
// Возвращает false вторым значением, если поддомен свободен.
func (s *Storage) FindWebsiteIDBySubdomain(ctx context.Context, subdomain, excludeID string) (string, bool, error) {
	const op = "storage.FindWebsiteIDBySubdomain"
	select {
	case <-ctx.Done():
		return "", false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id
			  FROM websites
			  WHERE lower(subdomain) = lower($1)
				AND ($2::uuid IS NULL OR id <> $2::uuid)`
	var id string
	err := s.DB.QueryRowContext(ctx, query, subdomain, nullableID(excludeID)).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return id, true, nil
}

// FindWebsiteIDByCustomDomain ищет сайт, занявший домен, исключая excludeID.
// Аргумент canonicalDomain — домен в нижнем регистре без префикса "www.",
// поэтому совпадение учитывает оба варианта написания.
func (s *Storage) FindWebsiteIDByCustomDomain(ctx context.Context, canonicalDomain, excludeID string) (string, bool, error) {
	const op = "storage.FindWebsiteIDByCustomDomain"
	select {
	case <-ctx.Done():
		return "", false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id
			  FROM websites
			  WHERE custom_domain IS NOT NULL
				AND ` + canonicalDomainExpr + ` = $1
				AND ($2::uuid IS NULL OR id <> $2::uuid)`
	var id string
	err := s.DB.QueryRowContext(ctx, query, canonicalDomain, nullableID(excludeID)).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return id, true, nil
}

// GetWebsiteBySubdomain возвращает сайт по поддомену.
func (s *Storage) GetWebsiteBySubdomain(ctx context.Context, subdomain string) (*models.Website, error) {
	const op = "storage.GetWebsiteBySubdomain"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + websiteColumns + `
			  FROM websites
			  WHERE lower(subdomain) = lower($1)`
	return s.scanWebsite(op, s.DB.QueryRowContext(ctx, query, subdomain))
}

// GetWebsiteByCustomDomain возвращает сайт по каноническому пользовательскому домену.
func (s *Storage) GetWebsiteByCustomDomain(ctx context.Context, canonicalDomain string) (*models.Website, error) {
	const op = "storage.GetWebsiteByCustomDomain"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + websiteColumns + `
			  FROM websites
			  WHERE custom_domain IS NOT NULL
				AND ` + canonicalDomainExpr + ` = $1`
	return s.scanWebsite(op, s.DB.QueryRowContext(ctx, query, canonicalDomain))
}

// rowScanner объединяет *sql.Row и *sql.Rows для общего сканирования.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanWebsite(op string, row rowScanner) (*models.Website, error) {
	w := &models.Website{}
	var data []byte
	var subdomain, customDomain, publishedURL sql.NullString
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &data, &subdomain, &customDomain,
		&w.IsPublished, &publishedURL, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, mapError(op, err)
	}
	doc, err := unmarshalJSONB(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	w.Data = doc
	if subdomain.Valid {
		w.Subdomain = &subdomain.String
	}
	if customDomain.Valid {
		w.CustomDomain = &customDomain.String
	}
	if publishedURL.Valid {
		w.PublishedURL = &publishedURL.String
	}
	return w, nil
}

// nullableID превращает пустой ID в NULL для необязательных uuid-параметров.
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
