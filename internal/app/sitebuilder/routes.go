// Package sitebuilder предоставляет маршруты для основного приложения.
package sitebuilder

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/ai/generate"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/auth/changepassword"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/auth/forgotpassword"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/auth/login"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/auth/onboarding"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/auth/profile"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/auth/profileupdate"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/auth/register"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/auth/resetpassword"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/domain/checkcustomdomain"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/domain/checkdns"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/domain/checksubdomain"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/domain/listdomains"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/health"
	paymentlist "github.com/aboutwebsite/sitebuilder/internal/http/handlers/payment/list"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/payment/order"
	paymentvalidate "github.com/aboutwebsite/sitebuilder/internal/http/handlers/payment/validate"
	ssldomainstatus "github.com/aboutwebsite/sitebuilder/internal/http/handlers/ssl/domainstatus"
	ssllist "github.com/aboutwebsite/sitebuilder/internal/http/handlers/ssl/list"
	sslrequest "github.com/aboutwebsite/sitebuilder/internal/http/handlers/ssl/request"
	sslstatus "github.com/aboutwebsite/sitebuilder/internal/http/handlers/ssl/status"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/subscription/cancel"
	subcreate "github.com/aboutwebsite/sitebuilder/internal/http/handlers/subscription/create"
	subget "github.com/aboutwebsite/sitebuilder/internal/http/handlers/subscription/get"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/subscription/plans"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/bycustomdomain"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/bysubdomain"
	sitecreate "github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/create"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/domainstatus"
	sitelist "github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/list"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/publish"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/published"
	siteread "github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/read"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/remove"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/removedomain"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/setdomain"
	"github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/unpublish"
	siteupdate "github.com/aboutwebsite/sitebuilder/internal/http/handlers/website/update"
	"github.com/aboutwebsite/sitebuilder/internal/http/middlewarectx"
	"github.com/aboutwebsite/sitebuilder/internal/lib/jwt"
	aiservice "github.com/aboutwebsite/sitebuilder/internal/services/ai"
	authservice "github.com/aboutwebsite/sitebuilder/internal/services/auth"
	domainservice "github.com/aboutwebsite/sitebuilder/internal/services/domain"
	paymentservice "github.com/aboutwebsite/sitebuilder/internal/services/payment"
	sslservice "github.com/aboutwebsite/sitebuilder/internal/services/ssl"
	subscriptionservice "github.com/aboutwebsite/sitebuilder/internal/services/subscription"
	websiteservice "github.com/aboutwebsite/sitebuilder/internal/services/website"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, tokens jwt.Maker, db *storage.Storage,
	authService *authservice.Service, websiteService *websiteservice.Service,
	registry *domainservice.Registry, ledger *subscriptionservice.Ledger,
	sslService *sslservice.Service, paymentService *paymentservice.Service,
	aiService *aiservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/forgot-password", forgotpassword.New(logger, authService).ServeHTTP)
		r.Post("/auth/reset-password", resetpassword.New(logger, authService).ServeHTTP)

		// Публичный просмотр опубликованных сайтов
		r.Get("/published/{id}", published.New(logger, websiteService).ServeHTTP)
		r.Get("/sites/by-subdomain/{subdomain}", bysubdomain.New(logger, websiteService).ServeHTTP)
		r.Get("/sites/by-domain", bycustomdomain.New(logger, websiteService).ServeHTTP)

		r.Get("/subscription/plans", plans.New(logger, ledger).ServeHTTP)
		r.Post("/payments/validate", paymentvalidate.New(logger, paymentService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokens, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/auth/profile", profile.New(logger, authService).ServeHTTP)
			r.Put("/auth/profile", profileupdate.New(logger, authService).ServeHTTP)
			r.Post("/auth/change-password", changepassword.New(logger, authService).ServeHTTP)
			r.Post("/auth/onboarding", onboarding.New(logger, authService).ServeHTTP)

			r.Post("/websites", sitecreate.New(logger, websiteService).ServeHTTP)
			r.Get("/websites", sitelist.New(logger, websiteService).ServeHTTP)
			r.Get("/websites/{id}", siteread.New(logger, websiteService).ServeHTTP)
			r.Put("/websites/{id}", siteupdate.New(logger, websiteService).ServeHTTP)
			r.Delete("/websites/{id}", remove.New(logger, websiteService).ServeHTTP)
			r.Post("/websites/{id}/publish", publish.New(logger, websiteService).ServeHTTP)
			r.Post("/websites/{id}/unpublish", unpublish.New(logger, websiteService).ServeHTTP)
			r.Post("/websites/{id}/custom-domain", setdomain.New(logger, websiteService).ServeHTTP)
			r.Delete("/websites/{id}/custom-domain", removedomain.New(logger, websiteService).ServeHTTP)
			r.Get("/websites/{id}/custom-domain/status", domainstatus.New(logger, websiteService).ServeHTTP)

			r.Get("/domains", listdomains.New(logger, websiteService).ServeHTTP)
			r.Get("/domains/check-subdomain", checksubdomain.New(logger, registry).ServeHTTP)
			r.Get("/domains/check-custom-domain", checkcustomdomain.New(logger, registry).ServeHTTP)
			r.Get("/domains/check-dns", checkdns.New(logger, registry).ServeHTTP)

			r.Get("/subscription", subget.New(logger, ledger).ServeHTTP)
			r.Post("/subscription", subcreate.New(logger, ledger).ServeHTTP)
			r.Delete("/subscription", cancel.New(logger, ledger).ServeHTTP)

			r.Post("/ssl/request", sslrequest.New(logger, sslService).ServeHTTP)
			r.Get("/ssl/requests", ssllist.New(logger, sslService).ServeHTTP)
			r.Get("/ssl/requests/{id}", sslstatus.New(logger, sslService).ServeHTTP)
			r.Get("/ssl/status/{domain}", ssldomainstatus.New(logger, sslService).ServeHTTP)

			r.Post("/payments/create-order", order.New(logger, paymentService).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, paymentService).ServeHTTP)

			r.Post("/ai/generate", generate.New(logger, aiService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
