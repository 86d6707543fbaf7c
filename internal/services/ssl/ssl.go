// Package ssl реализует заявки на выпуск SSL-сертификатов для
// пользовательских доменов. Сервис только регистрирует и отслеживает
// заявки, сам выпуск выполняет внешний процесс.
package ssl

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/services/domain"
)

// ErrDuplicateRequest по паре сайт-домен уже есть незавершённая заявка.
var ErrDuplicateRequest = errors.New("ssl request already in progress")

// Repository операции хранилища, нужные сервису SSL-заявок.
type Repository interface {
	GetWebsite(ctx context.Context, id, userID string) (*models.Website, error)
	CreateSSLRequest(ctx context.Context, userID, websiteID, domainName string) (*models.SSLRequest, error)
	FindOpenSSLRequest(ctx context.Context, websiteID, domainName string) (*models.SSLRequest, bool, error)
	ListSSLRequests(ctx context.Context, userID string) ([]*models.SSLRequest, error)
	GetSSLRequest(ctx context.Context, id, userID string) (*models.SSLRequest, error)
	GetSSLRequestByDomain(ctx context.Context, userID, domain string) (*models.SSLRequest, error)
}

// Service сервис SSL-заявок.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт сервис SSL-заявок.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Request регистрирует заявку на сертификат. Сайт должен принадлежать
// пользователю, повторная заявка при незавершённой отклоняется.
func (s *Service) Request(ctx context.Context, userID string, req models.DummySSLRequest) (*models.SSLRequest, error) {
	d, err := domain.NormalizeCustomDomain(req.Domain)
	if err != nil {
		return nil, err
	}

	// Проверка владения сайтом
	if _, err := s.repo.GetWebsite(ctx, req.WebsiteID, userID); err != nil {
		return nil, err
	}

	_, open, err := s.repo.FindOpenSSLRequest(ctx, req.WebsiteID, d)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrDuplicateRequest
	}

	created, err := s.repo.CreateSSLRequest(ctx, userID, req.WebsiteID, d)
	if err != nil {
		return nil, err
	}
	s.log.Info("created ssl request",
		slog.String("request_id", created.ID),
		slog.String("website_id", req.WebsiteID),
		slog.String("domain", d))
	return created, nil
}

// List возвращает SSL-заявки пользователя.
func (s *Service) List(ctx context.Context, userID string) ([]*models.SSLRequest, error) {
	return s.repo.ListSSLRequests(ctx, userID)
}

// Status возвращает SSL-заявку пользователя по ID.
func (s *Service) Status(ctx context.Context, id, userID string) (*models.SSLRequest, error) {
	return s.repo.GetSSLRequest(ctx, id, userID)
}

// StatusForDomain возвращает последнюю SSL-заявку пользователя по домену.
// Домен приводится к каноническому виду перед поиском.
func (s *Service) StatusForDomain(ctx context.Context, userID, rawDomain string) (*models.SSLRequest, error) {
	d, err := domain.NormalizeCustomDomain(rawDomain)
	if err != nil {
		return nil, err
	}
	return s.repo.GetSSLRequestByDomain(ctx, userID, d)
}
