package domain

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) FindWebsiteIDBySubdomain(ctx context.Context, subdomain, excludeID string) (string, bool, error) {
	args := m.Called(ctx, subdomain, excludeID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *RepoMock) FindWebsiteIDByCustomDomain(ctx context.Context, canonicalDomain, excludeID string) (string, bool, error) {
	args := m.Called(ctx, canonicalDomain, excludeID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *RepoMock) SetSubdomain(ctx context.Context, id string, subdomain *string) error {
	return m.Called(ctx, id, subdomain).Error(0)
}

func (m *RepoMock) SetCustomDomain(ctx context.Context, id string, customDomain *string) error {
	return m.Called(ctx, id, customDomain).Error(0)
}

func (m *RepoMock) GetWebsiteBySubdomain(ctx context.Context, subdomain string) (*models.Website, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Website), args.Error(1)
}

func (m *RepoMock) GetWebsiteByCustomDomain(ctx context.Context, canonicalDomain string) (*models.Website, error) {
	args := m.Called(ctx, canonicalDomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Website), args.Error(1)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestNormalizeSubdomain(t *testing.T) {
	tests := []struct {
		name      string
		subdomain string
		want      string
		wantErr   bool
	}{
		{name: "простой поддомен", subdomain: "mybusiness", want: "mybusiness"},
		{name: "верхний регистр приводится к нижнему", subdomain: "MyBusiness", want: "mybusiness"},
		{name: "дефис в середине", subdomain: "my-business", want: "my-business"},
		{name: "один символ", subdomain: "a", want: "a"},
		{name: "цифры", subdomain: "shop24", want: "shop24"},
		{name: "пробелы по краям обрезаются", subdomain: "  shop  ", want: "shop"},
		{name: "дефис в начале", subdomain: "-shop", wantErr: true},
		{name: "дефис в конце", subdomain: "shop-", wantErr: true},
		{name: "точка запрещена", subdomain: "my.shop", wantErr: true},
		{name: "пробел внутри", subdomain: "my shop", wantErr: true},
		{name: "пустая строка", subdomain: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSubdomain(tt.subdomain)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCustomDomain(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		want    string
		wantErr bool
	}{
		{name: "домен второго уровня", domain: "example.com", want: "example.com"},
		{name: "www-вариант", domain: "www.example.com", want: "www.example.com"},
		{name: "регистр приводится к нижнему", domain: "Example.COM", want: "example.com"},
		{name: "поддомен третьего уровня", domain: "shop.example.co.in", want: "shop.example.co.in"},
		{name: "без зоны", domain: "example", wantErr: true},
		{name: "дефис в начале метки", domain: "-bad.com", wantErr: true},
		{name: "числовая зона", domain: "example.123", wantErr: true},
		{name: "пустая строка", domain: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCustomDomain(tt.domain)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalDomain(t *testing.T) {
	assert.Equal(t, "example.com", CanonicalDomain("example.com"))
	assert.Equal(t, "example.com", CanonicalDomain("www.example.com"))
	assert.Equal(t, "example.com", CanonicalDomain("WWW.Example.COM"))
	// Префикс www отрезается только целиком как метка
	assert.Equal(t, "wwwexample.com", CanonicalDomain("wwwexample.com"))
}

func TestRegistry_ClaimSubdomain(t *testing.T) {
	t.Run("успешное закрепление", func(t *testing.T) {
		repo := new(RepoMock)
		registry := NewRegistry(repo, NewNoopLogger())

		sub := "mybusiness"
		repo.On("FindWebsiteIDBySubdomain", mock.Anything, "mybusiness", "site-1").
			Return("", false, nil).Once()
		repo.On("SetSubdomain", mock.Anything, "site-1", &sub).Return(nil).Once()

		got, err := registry.ClaimSubdomain(context.Background(), "site-1", "MyBusiness")
		require.NoError(t, err)
		assert.Equal(t, "mybusiness", got)
		repo.AssertExpectations(t)
	})

	t.Run("поддомен занят другим сайтом", func(t *testing.T) {
		repo := new(RepoMock)
		registry := NewRegistry(repo, NewNoopLogger())

		repo.On("FindWebsiteIDBySubdomain", mock.Anything, "mybusiness", "site-1").
			Return("site-2", true, nil).Once()

		_, err := registry.ClaimSubdomain(context.Background(), "site-1", "mybusiness")
		var taken *AddressTakenError
		require.ErrorAs(t, err, &taken)
		assert.Equal(t, "mybusiness", taken.Address)
	})

	t.Run("гонка закрывается уникальным индексом", func(t *testing.T) {
		repo := new(RepoMock)
		registry := NewRegistry(repo, NewNoopLogger())

		repo.On("FindWebsiteIDBySubdomain", mock.Anything, "mybusiness", "site-1").
			Return("", false, nil).Once()
		repo.On("SetSubdomain", mock.Anything, "site-1", mock.Anything).
			Return(storage.ErrUniqueViolation).Once()

		_, err := registry.ClaimSubdomain(context.Background(), "site-1", "mybusiness")
		var taken *AddressTakenError
		require.ErrorAs(t, err, &taken)
	})

	t.Run("невалидный формат", func(t *testing.T) {
		registry := NewRegistry(new(RepoMock), NewNoopLogger())

		_, err := registry.ClaimSubdomain(context.Background(), "site-1", "-bad-")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestRegistry_ClaimCustomDomain_WwwEquivalence(t *testing.T) {
	repo := new(RepoMock)
	registry := NewRegistry(repo, NewNoopLogger())

	// Занятость www-варианта проверяется по каноническому ключу без www
	repo.On("FindWebsiteIDByCustomDomain", mock.Anything, "example.com", "site-1").
		Return("site-2", true, nil).Once()

	_, err := registry.ClaimCustomDomain(context.Background(), "site-1", "www.example.com")
	var taken *AddressTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, "www.example.com", taken.Address)
	repo.AssertExpectations(t)
}

func TestRegistry_ResolveCustomDomain(t *testing.T) {
	repo := new(RepoMock)
	registry := NewRegistry(repo, NewNoopLogger())

	site := &models.Website{ID: "site-1"}
	repo.On("GetWebsiteByCustomDomain", mock.Anything, "example.com").Return(site, nil).Twice()

	got, err := registry.ResolveCustomDomain(context.Background(), "www.example.com")
	require.NoError(t, err)
	assert.Equal(t, "site-1", got.ID)

	got, err = registry.ResolveCustomDomain(context.Background(), "Example.com")
	require.NoError(t, err)
	assert.Equal(t, "site-1", got.ID)
	repo.AssertExpectations(t)
}
