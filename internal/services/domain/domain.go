// Package domain реализует реестр адресов сайтов: поддоменов платформы
// и пользовательских доменов. Домен и его www-вариант считаются одним
// адресом, занятость проверяется по каноническому ключу.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"regexp"
	"strings"

	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

var (
	subdomainRe    = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$|^[a-z0-9]$`)
	customDomainRe = regexp.MustCompile(`^(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)
)

// Нейм-серверы, на которые должен указывать пользовательский домен.
var expectedNameservers = []string{"ns1.vercel-dns.com", "ns2.vercel-dns.com"}

// ErrInvalidFormat адрес не соответствует допустимому формату.
var ErrInvalidFormat = errors.New("invalid address format")

// AddressTakenError адрес уже занят другим сайтом.
type AddressTakenError struct {
	Address string
}

func (e *AddressTakenError) Error() string {
	return fmt.Sprintf("address already taken: %s", e.Address)
}

// Repository операции хранилища, нужные реестру адресов.
type Repository interface {
	FindWebsiteIDBySubdomain(ctx context.Context, subdomain, excludeID string) (string, bool, error)
	FindWebsiteIDByCustomDomain(ctx context.Context, canonicalDomain, excludeID string) (string, bool, error)
	SetSubdomain(ctx context.Context, id string, subdomain *string) error
	SetCustomDomain(ctx context.Context, id string, customDomain *string) error
	GetWebsiteBySubdomain(ctx context.Context, subdomain string) (*models.Website, error)
	GetWebsiteByCustomDomain(ctx context.Context, canonicalDomain string) (*models.Website, error)
}

// Registry реестр адресов сайтов.
type Registry struct {
	repo     Repository
	resolver *net.Resolver
	log      *slog.Logger
}

// NewRegistry создаёт реестр адресов.
func NewRegistry(repo Repository, log *slog.Logger) *Registry {
	return &Registry{
		repo:     repo,
		resolver: net.DefaultResolver,
		log:      log,
	}
}

// NormalizeSubdomain приводит поддомен к нижнему регистру и проверяет формат.
func NormalizeSubdomain(subdomain string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(subdomain))
	if !subdomainRe.MatchString(s) {
		return "", ErrInvalidFormat
	}
	return s, nil
}

// NormalizeCustomDomain приводит домен к нижнему регистру и проверяет формат.
func NormalizeCustomDomain(domain string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(domain))
	if !customDomainRe.MatchString(d) {
		return "", ErrInvalidFormat
	}
	return d, nil
}

// CanonicalDomain возвращает канонический ключ домена: нижний регистр
// без префикса "www.".
func CanonicalDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
}

// CheckSubdomain проверяет доступность поддомена. Сайт excludeID
// исключается из проверки, чтобы повторная установка своего адреса
// не считалась конфликтом.
func (r *Registry) CheckSubdomain(ctx context.Context, subdomain, excludeID string) (string, bool, error) {
	s, err := NormalizeSubdomain(subdomain)
	if err != nil {
		return "", false, err
	}
	_, taken, err := r.repo.FindWebsiteIDBySubdomain(ctx, s, excludeID)
	if err != nil {
		return "", false, err
	}
	return s, !taken, nil
}

// CheckCustomDomain проверяет доступность пользовательского домена
// с учётом www-эквивалентности.
func (r *Registry) CheckCustomDomain(ctx context.Context, domain, excludeID string) (string, bool, error) {
	d, err := NormalizeCustomDomain(domain)
	if err != nil {
		return "", false, err
	}
	_, taken, err := r.repo.FindWebsiteIDByCustomDomain(ctx, CanonicalDomain(d), excludeID)
	if err != nil {
		return "", false, err
	}
	return d, !taken, nil
}

// ClaimSubdomain закрепляет поддомен за сайтом. Предварительная проверка
// носит справочный характер, окончательное слово за уникальным индексом.
func (r *Registry) ClaimSubdomain(ctx context.Context, websiteID, subdomain string) (string, error) {
	s, available, err := r.CheckSubdomain(ctx, subdomain, websiteID)
	if err != nil {
		return "", err
	}
	if !available {
		return "", &AddressTakenError{Address: s}
	}
	if err := r.repo.SetSubdomain(ctx, websiteID, &s); err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			return "", &AddressTakenError{Address: s}
		}
		return "", err
	}
	r.log.Info("claimed subdomain",
		slog.String("website_id", websiteID),
		slog.String("subdomain", s))
	return s, nil
}

// ClaimCustomDomain закрепляет пользовательский домен за сайтом.
func (r *Registry) ClaimCustomDomain(ctx context.Context, websiteID, domain string) (string, error) {
	d, available, err := r.CheckCustomDomain(ctx, domain, websiteID)
	if err != nil {
		return "", err
	}
	if !available {
		return "", &AddressTakenError{Address: d}
	}
	if err := r.repo.SetCustomDomain(ctx, websiteID, &d); err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			return "", &AddressTakenError{Address: d}
		}
		return "", err
	}
	r.log.Info("claimed custom domain",
		slog.String("website_id", websiteID),
		slog.String("domain", d))
	return d, nil
}

// ReleaseSubdomain снимает поддомен с сайта.
func (r *Registry) ReleaseSubdomain(ctx context.Context, websiteID string) error {
	return r.repo.SetSubdomain(ctx, websiteID, nil)
}

// ReleaseCustomDomain снимает пользовательский домен с сайта.
func (r *Registry) ReleaseCustomDomain(ctx context.Context, websiteID string) error {
	return r.repo.SetCustomDomain(ctx, websiteID, nil)
}

// ResolveSubdomain находит сайт по поддомену.
func (r *Registry) ResolveSubdomain(ctx context.Context, subdomain string) (*models.Website, error) {
	return r.repo.GetWebsiteBySubdomain(ctx, strings.ToLower(strings.TrimSpace(subdomain)))
}

// ResolveCustomDomain находит сайт по пользовательскому домену.
// Запрос с www-вариантом находит сайт, привязанный без www, и наоборот.
func (r *Registry) ResolveCustomDomain(ctx context.Context, domain string) (*models.Website, error) {
	return r.repo.GetWebsiteByCustomDomain(ctx, CanonicalDomain(domain))
}

// CheckDNS проверяет, указывают ли NS-записи домена на нейм-серверы платформы.
func (r *Registry) CheckDNS(ctx context.Context, domain string) (*models.DNSStatus, error) {
	d, err := NormalizeCustomDomain(domain)
	if err != nil {
		return nil, err
	}

	records, err := r.resolver.LookupNS(ctx, CanonicalDomain(d))
	if err != nil {
		return &models.DNSStatus{
			Configured: false,
			Message:    "nameserver lookup failed",
		}, nil
	}

	var found []string
	configured := false
	for _, ns := range records {
		host := strings.ToLower(strings.TrimSuffix(ns.Host, "."))
		found = append(found, host)
		for _, expected := range expectedNameservers {
			if host == expected {
				configured = true
			}
		}
	}

	msg := "domain is not pointing to the platform nameservers"
	if configured {
		msg = "domain is configured correctly"
	}
	return &models.DNSStatus{
		Configured:  configured,
		Nameservers: found,
		Message:     msg,
	}, nil
}
