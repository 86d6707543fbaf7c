package website

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/providers/vercel"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateWebsite(ctx context.Context, userID, name string, data map[string]any) (*models.Website, error) {
	args := m.Called(ctx, userID, name, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Website), args.Error(1)
}

func (m *RepoMock) CountWebsites(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListWebsites(ctx context.Context, userID string) ([]*models.Website, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Website), args.Error(1)
}

func (m *RepoMock) GetWebsite(ctx context.Context, id, userID string) (*models.Website, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Website), args.Error(1)
}

func (m *RepoMock) GetWebsiteByID(ctx context.Context, id string) (*models.Website, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Website), args.Error(1)
}

func (m *RepoMock) UpdateWebsite(ctx context.Context, id, userID, name string, data map[string]any) error {
	return m.Called(ctx, id, userID, name, data).Error(0)
}

func (m *RepoMock) DeleteWebsite(ctx context.Context, id, userID string) (int, error) {
	args := m.Called(ctx, id, userID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) SetPublished(ctx context.Context, id string, isPublished bool, publishedURL *string) error {
	return m.Called(ctx, id, isPublished, publishedURL).Error(0)
}

type LedgerMock struct{ mock.Mock }

func (m *LedgerMock) HasActive(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type RegistryMock struct{ mock.Mock }

func (m *RegistryMock) ClaimSubdomain(ctx context.Context, websiteID, subdomain string) (string, error) {
	args := m.Called(ctx, websiteID, subdomain)
	return args.String(0), args.Error(1)
}

func (m *RegistryMock) ClaimCustomDomain(ctx context.Context, websiteID, domain string) (string, error) {
	args := m.Called(ctx, websiteID, domain)
	return args.String(0), args.Error(1)
}

func (m *RegistryMock) ReleaseSubdomain(ctx context.Context, websiteID string) error {
	return m.Called(ctx, websiteID).Error(0)
}

func (m *RegistryMock) ReleaseCustomDomain(ctx context.Context, websiteID string) error {
	return m.Called(ctx, websiteID).Error(0)
}

func (m *RegistryMock) ResolveSubdomain(ctx context.Context, subdomain string) (*models.Website, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Website), args.Error(1)
}

func (m *RegistryMock) ResolveCustomDomain(ctx context.Context, domain string) (*models.Website, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Website), args.Error(1)
}

type EdgeMock struct{ mock.Mock }

func (m *EdgeMock) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *EdgeMock) AddDomain(ctx context.Context, domain string) (*vercel.Domain, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vercel.Domain), args.Error(1)
}

func (m *EdgeMock) RemoveDomain(ctx context.Context, domain string) error {
	return m.Called(ctx, domain).Error(0)
}

func (m *EdgeMock) DomainStatus(ctx context.Context, domain string) (*vercel.Domain, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vercel.Domain), args.Error(1)
}

func (m *EdgeMock) ConfigStatus(ctx context.Context, domain string) (*vercel.DomainConfig, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vercel.DomainConfig), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(repo *RepoMock, ledger *LedgerMock, registry *RegistryMock,
	edge *EdgeMock, cache *CacheMock) *Service {
	return New(repo, ledger, registry, edge, cache, 1, NewNoopLogger())
}

func TestService_Create_LimitReached(t *testing.T) {
	repo := new(RepoMock)
	service := newService(repo, new(LedgerMock), new(RegistryMock), new(EdgeMock), new(CacheMock))

	repo.On("CountWebsites", mock.Anything, "user-1").Return(1, nil).Once()

	_, err := service.Create(context.Background(), "user-1", models.DummyWebsite{
		Name: "second site",
		Data: map[string]any{},
	})
	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 1, limitErr.Limit)
	assert.Equal(t, 1, limitErr.Current)
	repo.AssertNotCalled(t, "CreateWebsite", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_Success(t *testing.T) {
	repo := new(RepoMock)
	service := newService(repo, new(LedgerMock), new(RegistryMock), new(EdgeMock), new(CacheMock))

	data := map[string]any{"hero": "welcome"}
	repo.On("CountWebsites", mock.Anything, "user-1").Return(0, nil).Once()
	repo.On("CreateWebsite", mock.Anything, "user-1", "My Site", data).
		Return(&models.Website{ID: "site-1", UserID: "user-1", Name: "My Site", Data: data}, nil).Once()

	created, err := service.Create(context.Background(), "user-1", models.DummyWebsite{
		Name: "My Site",
		Data: data,
	})
	require.NoError(t, err)
	assert.Equal(t, "site-1", created.ID)
	assert.Equal(t, false, created.Data["isPublished"])
	repo.AssertExpectations(t)
}

func TestService_Publish(t *testing.T) {
	t.Run("без подписки публикация запрещена", func(t *testing.T) {
		repo := new(RepoMock)
		ledger := new(LedgerMock)
		service := newService(repo, ledger, new(RegistryMock), new(EdgeMock), new(CacheMock))

		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").
			Return(&models.Website{ID: "site-1", UserID: "user-1"}, nil).Once()
		ledger.On("HasActive", mock.Anything, "user-1").Return(false, nil).Once()

		_, err := service.Publish(context.Background(), "site-1", "user-1")
		assert.ErrorIs(t, err, ErrSubscriptionRequired)
		repo.AssertNotCalled(t, "SetPublished", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("с подпиской сайт публикуется", func(t *testing.T) {
		repo := new(RepoMock)
		ledger := new(LedgerMock)
		cache := new(CacheMock)
		service := newService(repo, ledger, new(RegistryMock), new(EdgeMock), cache)

		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").
			Return(&models.Website{ID: "site-1", UserID: "user-1"}, nil).Once()
		ledger.On("HasActive", mock.Anything, "user-1").Return(true, nil).Once()
		url := "/published/site-1"
		repo.On("SetPublished", mock.Anything, "site-1", true, &url).Return(nil).Once()
		cache.On("Invalidate", "published:site-1").Return(nil).Once()

		published, err := service.Publish(context.Background(), "site-1", "user-1")
		require.NoError(t, err)
		assert.True(t, published.IsPublished)
		require.NotNil(t, published.PublishedURL)
		assert.Equal(t, "/published/site-1", *published.PublishedURL)
		repo.AssertExpectations(t)
	})
}

func TestService_GetPublished_LapsedSubscription(t *testing.T) {
	repo := new(RepoMock)
	ledger := new(LedgerMock)
	cache := new(CacheMock)
	service := newService(repo, ledger, new(RegistryMock), new(EdgeMock), cache)

	url := "/published/site-1"
	site := &models.Website{ID: "site-1", UserID: "user-1", IsPublished: true, PublishedURL: &url}

	cache.On("Get", "published:site-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetWebsiteByID", mock.Anything, "site-1").Return(site, nil).Once()
	cache.On("Set", "published:site-1", site, publishedCacheTTL).Return(nil).Once()
	ledger.On("HasActive", mock.Anything, "user-1").Return(false, nil).Once()
	// Истёкшая подписка снимает публикацию прямо при чтении
	repo.On("SetPublished", mock.Anything, "site-1", false, (*string)(nil)).Return(nil).Once()
	cache.On("Invalidate", "published:site-1").Return(nil).Once()

	_, err := service.GetPublished(context.Background(), "site-1")
	assert.ErrorIs(t, err, ErrNotPublished)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_GetPublished_NotPublished(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	service := newService(repo, new(LedgerMock), new(RegistryMock), new(EdgeMock), cache)

	site := &models.Website{ID: "site-1", UserID: "user-1", IsPublished: false}
	cache.On("Get", "published:site-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetWebsiteByID", mock.Anything, "site-1").Return(site, nil).Once()
	cache.On("Set", "published:site-1", site, publishedCacheTTL).Return(nil).Once()

	_, err := service.GetPublished(context.Background(), "site-1")
	assert.ErrorIs(t, err, ErrNotPublished)
}

func TestService_GetByCustomDomain(t *testing.T) {
	repo := new(RepoMock)
	ledger := new(LedgerMock)
	registry := new(RegistryMock)
	service := newService(repo, ledger, registry, new(EdgeMock), new(CacheMock))

	url := "/published/site-1"
	site := &models.Website{ID: "site-1", UserID: "user-1", IsPublished: true, PublishedURL: &url}
	registry.On("ResolveCustomDomain", mock.Anything, "www.example.com").Return(site, nil).Once()
	ledger.On("HasActive", mock.Anything, "user-1").Return(true, nil).Once()

	got, err := service.GetByCustomDomain(context.Background(), "www.example.com")
	require.NoError(t, err)
	assert.Equal(t, "site-1", got.ID)
	assert.Equal(t, true, got.Data["isPublished"])
}

func TestService_List_DemotesLapsedPublications(t *testing.T) {
	repo := new(RepoMock)
	ledger := new(LedgerMock)
	cache := new(CacheMock)
	service := newService(repo, ledger, new(RegistryMock), new(EdgeMock), cache)

	url := "/published/site-1"
	sites := []*models.Website{
		{ID: "site-1", UserID: "user-1", IsPublished: true, PublishedURL: &url},
	}
	repo.On("ListWebsites", mock.Anything, "user-1").Return(sites, nil).Once()
	ledger.On("HasActive", mock.Anything, "user-1").Return(false, nil).Once()
	repo.On("SetPublished", mock.Anything, "site-1", false, (*string)(nil)).Return(nil).Once()
	cache.On("Invalidate", "published:site-1").Return(nil).Once()

	got, err := service.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsPublished)
	assert.Nil(t, got[0].PublishedURL)
	repo.AssertExpectations(t)
}

func TestService_Get(t *testing.T) {
	t.Run("истёкшая подписка снимает публикацию при чтении владельцем", func(t *testing.T) {
		repo := new(RepoMock)
		ledger := new(LedgerMock)
		cache := new(CacheMock)
		service := newService(repo, ledger, new(RegistryMock), new(EdgeMock), cache)

		url := "/published/site-1"
		site := &models.Website{ID: "site-1", UserID: "user-1", IsPublished: true, PublishedURL: &url}
		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").Return(site, nil).Once()
		ledger.On("HasActive", mock.Anything, "user-1").Return(false, nil).Once()
		repo.On("SetPublished", mock.Anything, "site-1", false, (*string)(nil)).Return(nil).Once()
		cache.On("Invalidate", "published:site-1").Return(nil).Once()

		got, err := service.Get(context.Background(), "site-1", "user-1")
		require.NoError(t, err)
		assert.False(t, got.IsPublished)
		assert.Nil(t, got.PublishedURL)
		assert.Equal(t, false, got.Data["isPublished"])
		repo.AssertExpectations(t)
	})

	t.Run("с действующей подпиской публикация сохраняется", func(t *testing.T) {
		repo := new(RepoMock)
		ledger := new(LedgerMock)
		service := newService(repo, ledger, new(RegistryMock), new(EdgeMock), new(CacheMock))

		url := "/published/site-1"
		site := &models.Website{ID: "site-1", UserID: "user-1", IsPublished: true, PublishedURL: &url}
		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").Return(site, nil).Once()
		ledger.On("HasActive", mock.Anything, "user-1").Return(true, nil).Once()

		got, err := service.Get(context.Background(), "site-1", "user-1")
		require.NoError(t, err)
		assert.True(t, got.IsPublished)
		repo.AssertNotCalled(t, "SetPublished", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("неопубликованный сайт не трогает подписку", func(t *testing.T) {
		repo := new(RepoMock)
		ledger := new(LedgerMock)
		service := newService(repo, ledger, new(RegistryMock), new(EdgeMock), new(CacheMock))

		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").
			Return(&models.Website{ID: "site-1", UserID: "user-1"}, nil).Once()

		_, err := service.Get(context.Background(), "site-1", "user-1")
		require.NoError(t, err)
		ledger.AssertNotCalled(t, "HasActive", mock.Anything, mock.Anything)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("смена поддомена проходит через реестр", func(t *testing.T) {
		repo := new(RepoMock)
		registry := new(RegistryMock)
		cache := new(CacheMock)
		service := newService(repo, new(LedgerMock), registry, new(EdgeMock), cache)

		sub := "myshop"
		data := map[string]any{"subdomain": "myshop", "hero": "welcome"}
		current := &models.Website{ID: "site-1", UserID: "user-1", Name: "My Site"}
		updated := &models.Website{ID: "site-1", UserID: "user-1", Name: "My Site", Subdomain: &sub, Data: data}

		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").Return(current, nil).Once()
		registry.On("ClaimSubdomain", mock.Anything, "site-1", "myshop").Return("myshop", nil).Once()
		repo.On("UpdateWebsite", mock.Anything, "site-1", "user-1", "My Site", data).Return(nil).Once()
		cache.On("Invalidate", "published:site-1").Return(nil).Once()
		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").Return(updated, nil).Once()

		got, provider, err := service.Update(context.Background(), "site-1", "user-1", models.DummyWebsite{
			Name: "My Site",
			Data: data,
		})
		require.NoError(t, err)
		assert.Nil(t, provider)
		require.NotNil(t, got.Subdomain)
		assert.Equal(t, "myshop", *got.Subdomain)
		registry.AssertExpectations(t)
	})

	t.Run("привязка домена идёт через реестр и провайдера", func(t *testing.T) {
		repo := new(RepoMock)
		registry := new(RegistryMock)
		edge := new(EdgeMock)
		cache := new(CacheMock)
		service := newService(repo, new(LedgerMock), registry, edge, cache)

		dom := "example.com"
		data := map[string]any{"customDomain": "www.Example.com"}
		current := &models.Website{ID: "site-1", UserID: "user-1", Name: "My Site"}
		updated := &models.Website{ID: "site-1", UserID: "user-1", Name: "My Site", CustomDomain: &dom, Data: data}

		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").Return(current, nil).Once()
		registry.On("ClaimCustomDomain", mock.Anything, "site-1", "www.Example.com").
			Return("example.com", nil).Once()
		edge.On("IsConfigured").Return(true).Once()
		edge.On("AddDomain", mock.Anything, "example.com").
			Return(&vercel.Domain{Name: "example.com", Verified: true}, nil).Once()
		repo.On("UpdateWebsite", mock.Anything, "site-1", "user-1", "My Site", data).Return(nil).Once()
		cache.On("Invalidate", "published:site-1").Return(nil).Once()
		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").Return(updated, nil).Once()

		got, provider, err := service.Update(context.Background(), "site-1", "user-1", models.DummyWebsite{
			Name: "My Site",
			Data: data,
		})
		require.NoError(t, err)
		require.NotNil(t, provider)
		assert.True(t, provider.Success)
		assert.Equal(t, "verified", provider.Status)
		require.NotNil(t, got.CustomDomain)
		assert.Equal(t, "example.com", *got.CustomDomain)
	})

	t.Run("истёкшая подписка снимает публикацию после обновления", func(t *testing.T) {
		repo := new(RepoMock)
		ledger := new(LedgerMock)
		cache := new(CacheMock)
		service := newService(repo, ledger, new(RegistryMock), new(EdgeMock), cache)

		url := "/published/site-1"
		data := map[string]any{"hero": "welcome"}
		current := &models.Website{ID: "site-1", UserID: "user-1", Name: "My Site"}
		updated := &models.Website{ID: "site-1", UserID: "user-1", Name: "My Site",
			IsPublished: true, PublishedURL: &url, Data: data}

		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").Return(current, nil).Once()
		repo.On("UpdateWebsite", mock.Anything, "site-1", "user-1", "My Site", data).Return(nil).Once()
		cache.On("Invalidate", "published:site-1").Return(nil).Twice()
		repo.On("GetWebsite", mock.Anything, "site-1", "user-1").Return(updated, nil).Once()
		ledger.On("HasActive", mock.Anything, "user-1").Return(false, nil).Once()
		repo.On("SetPublished", mock.Anything, "site-1", false, (*string)(nil)).Return(nil).Once()

		got, _, err := service.Update(context.Background(), "site-1", "user-1", models.DummyWebsite{
			Name: "My Site",
			Data: data,
		})
		require.NoError(t, err)
		assert.False(t, got.IsPublished)
		repo.AssertExpectations(t)
	})
}

func TestService_SetCustomDomain_EdgeFailureIsSoft(t *testing.T) {
	repo := new(RepoMock)
	registry := new(RegistryMock)
	edge := new(EdgeMock)
	cache := new(CacheMock)
	service := newService(repo, new(LedgerMock), registry, edge, cache)

	domain := "example.com"
	site := &models.Website{ID: "site-1", UserID: "user-1"}
	updated := &models.Website{ID: "site-1", UserID: "user-1", CustomDomain: &domain}

	repo.On("GetWebsite", mock.Anything, "site-1", "user-1").Return(site, nil).Once()
	registry.On("ClaimCustomDomain", mock.Anything, "site-1", "example.com").
		Return("example.com", nil).Once()
	edge.On("IsConfigured").Return(true).Once()
	edge.On("AddDomain", mock.Anything, "example.com").
		Return(nil, assert.AnError).Once()
	cache.On("Invalidate", "published:site-1").Return(nil).Once()
	repo.On("GetWebsite", mock.Anything, "site-1", "user-1").Return(updated, nil).Once()

	got, provider, err := service.SetCustomDomain(context.Background(), "site-1", "user-1", "example.com")
	require.NoError(t, err)
	require.NotNil(t, got.CustomDomain)
	require.NotNil(t, provider)
	assert.False(t, provider.Success)
	assert.NotEmpty(t, provider.Error)
}
