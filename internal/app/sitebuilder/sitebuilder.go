// Package sitebuilder собирает HTTP-приложение конструктора сайтов:
// хранилище, кэш, очередь писем, внешние провайдеры, сервисы и маршруты.
package sitebuilder

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/aboutwebsite/sitebuilder/internal/cache"
	"github.com/aboutwebsite/sitebuilder/internal/config"
	"github.com/aboutwebsite/sitebuilder/internal/lib/jwt"
	"github.com/aboutwebsite/sitebuilder/internal/migrations"
	"github.com/aboutwebsite/sitebuilder/internal/providers/openai"
	"github.com/aboutwebsite/sitebuilder/internal/providers/razorpay"
	"github.com/aboutwebsite/sitebuilder/internal/providers/vercel"
	"github.com/aboutwebsite/sitebuilder/internal/rabbitmq"
	aiservice "github.com/aboutwebsite/sitebuilder/internal/services/ai"
	authservice "github.com/aboutwebsite/sitebuilder/internal/services/auth"
	domainservice "github.com/aboutwebsite/sitebuilder/internal/services/domain"
	paymentservice "github.com/aboutwebsite/sitebuilder/internal/services/payment"
	sslservice "github.com/aboutwebsite/sitebuilder/internal/services/ssl"
	subscriptionservice "github.com/aboutwebsite/sitebuilder/internal/services/subscription"
	websiteservice "github.com/aboutwebsite/sitebuilder/internal/services/website"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// App HTTP-приложение конструктора сайтов.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	rabbit *amqp.Connection
}

// New инициализирует зависимости и собирает приложение.
// Очередь писем опциональна: пустой RabbitMQ URL отключает её.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var rabbitConn *amqp.Connection
	var emailQueue authservice.EmailQueue
	if cfg.RabbitMQURL != "" {
		rabbitConn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetNotificationQueues())
		if err != nil {
			rabbitConn.Close()
			return nil, err
		}
		emailQueue = rabbitmq.NewEmailQueue(ch)
	} else {
		logger.Warn("rabbitmq url is empty, email jobs are disabled")
	}

	razorpayClient := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	vercelClient := vercel.NewClient(cfg.VercelAPIToken, cfg.VercelProjectID)
	openaiClient := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	tokens := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	ledger := subscriptionservice.NewLedger(db, cfg.BasePrice, logger)
	registry := domainservice.NewRegistry(db, logger)
	authService := authservice.New(db, tokens, emailQueue, logger)
	websiteService := websiteservice.New(db, ledger, registry, vercelClient,
		cacheRedis, cfg.WebsiteLimit, logger)
	sslService := sslservice.New(db, logger)
	paymentService := paymentservice.New(razorpayClient, db, ledger, logger)
	aiService := aiservice.New(openaiClient, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, tokens, db,
		authService, websiteService, registry, ledger, sslService, paymentService, aiService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		rabbit: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.rabbit != nil {
			a.rabbit.Close()
		}
		a.db.DB.Close()
		return err
	}
}
