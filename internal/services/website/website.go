// Package website реализует работу с сайтами пользователя: CRUD с лимитом
// на количество, публикацию под контролем подписки и выдачу опубликованных
// сайтов по ID, поддомену и пользовательскому домену.
//
// Право показа проверяется на каждом чтении: если подписка владельца
// истекла, опубликованный сайт снимается с публикации прямо в момент
// запроса.
package website

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/providers/vercel"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Время жизни записи кэша опубликованного сайта.
const publishedCacheTTL = 5 * time.Minute

// Ошибки сервиса сайтов.
var (
	// ErrSubscriptionRequired публикация без действующей подписки.
	ErrSubscriptionRequired = errors.New("active subscription required")
	// ErrNotPublished сайт не опубликован.
	ErrNotPublished = errors.New("website is not published")
)

// LimitError достигнут лимит сайтов на пользователя.
type LimitError struct {
	Limit   int
	Current int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("website limit reached: %d of %d", e.Current, e.Limit)
}

// Repository операции хранилища, нужные сервису сайтов.
type Repository interface {
	CreateWebsite(ctx context.Context, userID, name string, data map[string]any) (*models.Website, error)
	CountWebsites(ctx context.Context, userID string) (int, error)
	ListWebsites(ctx context.Context, userID string) ([]*models.Website, error)
	GetWebsite(ctx context.Context, id, userID string) (*models.Website, error)
	GetWebsiteByID(ctx context.Context, id string) (*models.Website, error)
	UpdateWebsite(ctx context.Context, id, userID, name string, data map[string]any) error
	DeleteWebsite(ctx context.Context, id, userID string) (int, error)
	SetPublished(ctx context.Context, id string, isPublished bool, publishedURL *string) error
}

// Ledger проверка действующей подписки владельца.
type Ledger interface {
	HasActive(ctx context.Context, userID string) (bool, error)
}

// AddressRegistry операции реестра адресов.
type AddressRegistry interface {
	ClaimSubdomain(ctx context.Context, websiteID, subdomain string) (string, error)
	ClaimCustomDomain(ctx context.Context, websiteID, domain string) (string, error)
	ReleaseSubdomain(ctx context.Context, websiteID string) error
	ReleaseCustomDomain(ctx context.Context, websiteID string) error
	ResolveSubdomain(ctx context.Context, subdomain string) (*models.Website, error)
	ResolveCustomDomain(ctx context.Context, domain string) (*models.Website, error)
}

// EdgeProvider привязка доменов у DNS/edge провайдера. Все вызовы
// необязательные: их неуспех не отменяет основную операцию.
type EdgeProvider interface {
	IsConfigured() bool
	AddDomain(ctx context.Context, domain string) (*vercel.Domain, error)
	RemoveDomain(ctx context.Context, domain string) error
	DomainStatus(ctx context.Context, domain string) (*vercel.Domain, error)
	ConfigStatus(ctx context.Context, domain string) (*vercel.DomainConfig, error)
}

// Cache кэш опубликованных сайтов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service сервис сайтов.
type Service struct {
	repo     Repository
	ledger   Ledger
	registry AddressRegistry
	edge     EdgeProvider
	cache    Cache
	limit    int
	log      *slog.Logger
}

// New создаёт сервис сайтов.
func New(repo Repository, ledger Ledger, registry AddressRegistry, edge EdgeProvider,
	cache Cache, limit int, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		ledger:   ledger,
		registry: registry,
		edge:     edge,
		cache:    cache,
		limit:    limit,
		log:      log,
	}
}

// Create создаёт сайт пользователя с учётом лимита на количество.
func (s *Service) Create(ctx context.Context, userID string, req models.DummyWebsite) (*models.Website, error) {
	count, err := s.repo.CountWebsites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= s.limit {
		return nil, &LimitError{Limit: s.limit, Current: count}
	}

	created, err := s.repo.CreateWebsite(ctx, userID, req.Name, req.Data)
	if err != nil {
		return nil, err
	}
	s.log.Info("created website",
		slog.String("website_id", created.ID),
		slog.String("user_id", userID))
	return s.decorate(created), nil
}

// List возвращает сайты пользователя. Просроченная подписка снимает
// публикации прямо при чтении списка.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Website, error) {
	sites, err := s.repo.ListWebsites(ctx, userID)
	if err != nil {
		return nil, err
	}

	hasActive, checked := false, false
	for _, w := range sites {
		if w.IsPublished {
			if !checked {
				hasActive, err = s.ledger.HasActive(ctx, userID)
				if err != nil {
					return nil, err
				}
				checked = true
			}
			if !hasActive {
				if err := s.demote(ctx, w); err != nil {
					return nil, err
				}
			}
		}
		s.decorate(w)
	}
	return sites, nil
}

// Get возвращает сайт пользователя с проверкой права показа.
func (s *Service) Get(ctx context.Context, id, userID string) (*models.Website, error) {
	w, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.enforceGate(ctx, w); err != nil {
		return nil, err
	}
	return s.decorate(w), nil
}

// Update обновляет имя и документ сайта. Смена адресов в документе
// проводится через реестр, привязка домена у провайдера выполняется
// в мягком режиме и прикладывается к результату.
func (s *Service) Update(ctx context.Context, id, userID string, req models.DummyWebsite) (*models.Website, *models.ProviderResult, error) {
	current, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}

	var provider *models.ProviderResult
	if sub, ok := stringField(req.Data, "subdomain"); ok && !equalsPtr(current.Subdomain, sub) {
		if sub == "" {
			if err := s.registry.ReleaseSubdomain(ctx, id); err != nil {
				return nil, nil, err
			}
		} else if _, err := s.registry.ClaimSubdomain(ctx, id, sub); err != nil {
			return nil, nil, err
		}
	}
	if dom, ok := stringField(req.Data, "customDomain"); ok && !equalsPtr(current.CustomDomain, dom) {
		if dom == "" {
			if current.CustomDomain != nil {
				provider = s.removeEdgeDomain(ctx, *current.CustomDomain)
			}
			if err := s.registry.ReleaseCustomDomain(ctx, id); err != nil {
				return nil, nil, err
			}
		} else {
			claimed, err := s.registry.ClaimCustomDomain(ctx, id, dom)
			if err != nil {
				return nil, nil, err
			}
			provider = s.addEdgeDomain(ctx, claimed)
		}
	}

	if err := s.repo.UpdateWebsite(ctx, id, userID, req.Name, req.Data); err != nil {
		return nil, nil, err
	}
	s.invalidatePublished(id)

	updated, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.enforceGate(ctx, updated); err != nil {
		return nil, nil, err
	}
	return s.decorate(updated), provider, nil
}

// Delete удаляет сайт пользователя. Привязанный домен снимается
// у провайдера в мягком режиме.
func (s *Service) Delete(ctx context.Context, id, userID string) (*models.ProviderResult, error) {
	current, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	var provider *models.ProviderResult
	if current.CustomDomain != nil {
		provider = s.removeEdgeDomain(ctx, *current.CustomDomain)
	}

	rows, err := s.repo.DeleteWebsite(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, storage.ErrNotFound
	}
	s.invalidatePublished(id)
	s.log.Info("deleted website",
		slog.String("website_id", id),
		slog.String("user_id", userID))
	return provider, nil
}

// Publish публикует сайт. Требуется действующая подписка владельца.
func (s *Service) Publish(ctx context.Context, id, userID string) (*models.Website, error) {
	w, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	hasActive, err := s.ledger.HasActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !hasActive {
		return nil, ErrSubscriptionRequired
	}

	publishedURL := "/published/" + w.ID
	if err := s.repo.SetPublished(ctx, w.ID, true, &publishedURL); err != nil {
		return nil, err
	}
	w.IsPublished = true
	w.PublishedURL = &publishedURL
	s.invalidatePublished(w.ID)
	s.log.Info("published website",
		slog.String("website_id", w.ID),
		slog.String("user_id", userID))
	return s.decorate(w), nil
}

// Unpublish снимает сайт с публикации.
func (s *Service) Unpublish(ctx context.Context, id, userID string) (*models.Website, error) {
	w, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetPublished(ctx, w.ID, false, nil); err != nil {
		return nil, err
	}
	w.IsPublished = false
	w.PublishedURL = nil
	s.invalidatePublished(w.ID)
	s.log.Info("unpublished website",
		slog.String("website_id", w.ID),
		slog.String("user_id", userID))
	return s.decorate(w), nil
}

// GetPublished возвращает опубликованный сайт по ID для публичного показа.
func (s *Service) GetPublished(ctx context.Context, id string) (*models.Website, error) {
	cacheKey := "published:" + id
	var w *models.Website
	found, err := s.cache.Get(cacheKey, &w)
	if err != nil {
		s.log.Warn("failed to read published cache",
			slog.String("key", cacheKey), slog.Any("err", err))
		found = false
	}
	if !found {
		w, err = s.repo.GetWebsiteByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, w, publishedCacheTTL); err != nil {
			s.log.Warn("failed to cache published website",
				slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return s.servePublished(ctx, w)
}

// GetBySubdomain возвращает опубликованный сайт по поддомену.
func (s *Service) GetBySubdomain(ctx context.Context, subdomain string) (*models.Website, error) {
	w, err := s.registry.ResolveSubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	return s.servePublished(ctx, w)
}

// GetByCustomDomain возвращает опубликованный сайт по пользовательскому домену.
func (s *Service) GetByCustomDomain(ctx context.Context, domain string) (*models.Website, error) {
	w, err := s.registry.ResolveCustomDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	return s.servePublished(ctx, w)
}

// SetCustomDomain привязывает пользовательский домен к сайту.
func (s *Service) SetCustomDomain(ctx context.Context, id, userID, domain string) (*models.Website, *models.ProviderResult, error) {
	w, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}

	claimed, err := s.registry.ClaimCustomDomain(ctx, w.ID, domain)
	if err != nil {
		return nil, nil, err
	}
	provider := s.addEdgeDomain(ctx, claimed)
	s.invalidatePublished(w.ID)

	updated, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	return s.decorate(updated), provider, nil
}

// RemoveCustomDomain отвязывает пользовательский домен от сайта.
func (s *Service) RemoveCustomDomain(ctx context.Context, id, userID string) (*models.Website, *models.ProviderResult, error) {
	w, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}

	var provider *models.ProviderResult
	if w.CustomDomain != nil {
		provider = s.removeEdgeDomain(ctx, *w.CustomDomain)
	}
	if err := s.registry.ReleaseCustomDomain(ctx, w.ID); err != nil {
		return nil, nil, err
	}
	s.invalidatePublished(w.ID)

	updated, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	return s.decorate(updated), provider, nil
}

// ListDomains возвращает доменную проекцию сайтов пользователя.
func (s *Service) ListDomains(ctx context.Context, userID string) ([]models.DomainInfo, error) {
	sites, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]models.DomainInfo, 0, len(sites))
	for _, w := range sites {
		result = append(result, models.DomainInfo{
			WebsiteID:    w.ID,
			Name:         w.Name,
			Subdomain:    w.Subdomain,
			CustomDomain: w.CustomDomain,
			PublishedURL: w.PublishedURL,
			IsPublished:  w.IsPublished,
		})
	}
	return result, nil
}

// CustomDomainStatus возвращает состояние привязанного домена у провайдера.
func (s *Service) CustomDomainStatus(ctx context.Context, id, userID string) (*models.ProviderResult, error) {
	w, err := s.repo.GetWebsite(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if w.CustomDomain == nil {
		return nil, storage.ErrNotFound
	}
	if !s.edge.IsConfigured() {
		return &models.ProviderResult{
			Success: false,
			Domain:  *w.CustomDomain,
			Error:   "edge provider is not configured",
		}, nil
	}

	status, err := s.edge.DomainStatus(ctx, *w.CustomDomain)
	if err != nil {
		return &models.ProviderResult{
			Success: false,
			Domain:  *w.CustomDomain,
			Error:   err.Error(),
		}, nil
	}
	result := &models.ProviderResult{
		Success:      true,
		Domain:       status.Name,
		Status:       "pending",
		Verification: status.Verification,
	}
	if status.Verified {
		result.Status = "verified"
	}
	if config, err := s.edge.ConfigStatus(ctx, *w.CustomDomain); err == nil && config.Misconfigured {
		result.Status = "misconfigured"
	}
	return result, nil
}

// servePublished применяет право показа к сайту перед публичной выдачей.
func (s *Service) servePublished(ctx context.Context, w *models.Website) (*models.Website, error) {
	if w == nil || !w.IsPublished {
		return nil, ErrNotPublished
	}
	hasActive, err := s.ledger.HasActive(ctx, w.UserID)
	if err != nil {
		return nil, err
	}
	if !hasActive {
		if err := s.demote(ctx, w); err != nil {
			return nil, err
		}
		return nil, ErrNotPublished
	}
	return s.decorate(w), nil
}

// enforceGate проверяет право показа при владельческом чтении: сайт с
// публикацией и истёкшей подпиской владельца снимается с публикации
// прямо в момент запроса.
func (s *Service) enforceGate(ctx context.Context, w *models.Website) error {
	if !w.IsPublished {
		return nil
	}
	hasActive, err := s.ledger.HasActive(ctx, w.UserID)
	if err != nil {
		return err
	}
	if !hasActive {
		return s.demote(ctx, w)
	}
	return nil
}

// demote снимает сайт с публикации из-за истёкшей подписки владельца.
func (s *Service) demote(ctx context.Context, w *models.Website) error {
	if err := s.repo.SetPublished(ctx, w.ID, false, nil); err != nil {
		return err
	}
	w.IsPublished = false
	w.PublishedURL = nil
	s.invalidatePublished(w.ID)
	s.log.Info("unpublished website due to lapsed subscription",
		slog.String("website_id", w.ID),
		slog.String("user_id", w.UserID))
	return nil
}

// decorate зеркалирует адресные поля в документ сайта для клиента.
func (s *Service) decorate(w *models.Website) *models.Website {
	if w.Data == nil {
		w.Data = map[string]any{}
	}
	if w.Subdomain != nil {
		w.Data["subdomain"] = *w.Subdomain
	} else {
		delete(w.Data, "subdomain")
	}
	if w.CustomDomain != nil {
		w.Data["customDomain"] = *w.CustomDomain
	} else {
		delete(w.Data, "customDomain")
	}
	w.Data["isPublished"] = w.IsPublished
	if w.PublishedURL != nil {
		w.Data["publishedUrl"] = *w.PublishedURL
	} else {
		delete(w.Data, "publishedUrl")
	}
	return w
}

func (s *Service) invalidatePublished(id string) {
	if err := s.cache.Invalidate("published:" + id); err != nil {
		s.log.Warn("failed to invalidate published cache",
			slog.String("website_id", id), slog.Any("err", err))
	}
}

// addEdgeDomain добавляет домен у провайдера, неуспех превращается
// в предупреждение в ответе.
func (s *Service) addEdgeDomain(ctx context.Context, domain string) *models.ProviderResult {
	if !s.edge.IsConfigured() {
		return &models.ProviderResult{Success: false, Domain: domain, Error: "edge provider is not configured"}
	}
	added, err := s.edge.AddDomain(ctx, domain)
	if err != nil {
		s.log.Warn("failed to add domain to edge provider",
			slog.String("domain", domain), slog.Any("err", err))
		return &models.ProviderResult{Success: false, Domain: domain, Error: err.Error()}
	}
	result := &models.ProviderResult{Success: true, Domain: added.Name, Status: "pending", Verification: added.Verification}
	if added.Verified {
		result.Status = "verified"
	}
	return result
}

func (s *Service) removeEdgeDomain(ctx context.Context, domain string) *models.ProviderResult {
	if !s.edge.IsConfigured() {
		return &models.ProviderResult{Success: false, Domain: domain, Error: "edge provider is not configured"}
	}
	if err := s.edge.RemoveDomain(ctx, domain); err != nil {
		s.log.Warn("failed to remove domain from edge provider",
			slog.String("domain", domain), slog.Any("err", err))
		return &models.ProviderResult{Success: false, Domain: domain, Error: err.Error()}
	}
	return &models.ProviderResult{Success: true, Domain: domain, Status: "removed"}
}

// stringField читает строковое поле документа. Второе значение false,
// если поля нет или оно не строка.
func stringField(data map[string]any, key string) (string, bool) {
	if data == nil {
		return "", false
	}
	raw, ok := data[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func equalsPtr(p *string, s string) bool {
	if p == nil {
		return s == ""
	}
	return *p == s
}
