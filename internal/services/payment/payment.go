// Package payment реализует приём оплаты через Razorpay: создание заказов,
// проверку подписи завершённых платежей и оформление подписки по
// подтверждённому платежу.
package payment

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/providers/razorpay"
)

// Ошибки платёжного сервиса.
var (
	// ErrGatewayNotConfigured учётные данные шлюза не заданы.
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured")
	// ErrInvalidSignature подпись платежа не прошла проверку.
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrMissingContext в заказе нет данных для оформления подписки.
	ErrMissingContext = errors.New("payment notes missing subscription context")
)

// Gateway операции платёжного шлюза.
type Gateway interface {
	IsConfigured() bool
	CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Repository операции хранилища, нужные платёжному сервису.
type Repository interface {
	SavePayment(ctx context.Context, payment models.Payment) (*models.Payment, error)
	GetPaymentByOrderID(ctx context.Context, razorpayOrderID string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, razorpayOrderID, status string, paymentID *string) error
	ListPaymentsForUser(ctx context.Context, userID string) ([]*models.Payment, error)
}

// Ledger оформление подписки по подтверждённому платежу.
type Ledger interface {
	Create(ctx context.Context, userID string, months int) (*models.Subscription, error)
}

// Service платёжный сервис.
type Service struct {
	gateway Gateway
	repo    Repository
	ledger  Ledger
	log     *slog.Logger
}

// New создаёт платёжный сервис.
func New(gateway Gateway, repo Repository, ledger Ledger, log *slog.Logger) *Service {
	return &Service{
		gateway: gateway,
		repo:    repo,
		ledger:  ledger,
		log:     log,
	}
}

// CreateOrder создаёт заказ у шлюза и сохраняет его локально.
// Идентификатор пользователя записывается в контекст заказа, чтобы
// связать платёж с подпиской при валидации.
func (s *Service) CreateOrder(ctx context.Context, userID string, req models.DummyOrder) (*razorpay.Order, error) {
	if !s.gateway.IsConfigured() {
		return nil, ErrGatewayNotConfigured
	}

	notes := req.Notes
	if notes == nil {
		notes = map[string]any{}
	}
	notes["user_id"] = userID

	order, err := s.gateway.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.SavePayment(ctx, models.Payment{
		RazorpayOrderID: order.ID,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Receipt:         order.Receipt,
		Notes:           notes,
		Status:          models.PaymentCreated,
	}); err != nil {
		return nil, err
	}

	s.log.Info("created payment order",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int("amount", order.Amount))
	return order, nil
}

// Validate проверяет подпись платежа. Валидный платёж завершает заказ
// и оформляет подписку по данным из его контекста, невалидный помечает
// заказ неуспешным.
func (s *Service) Validate(ctx context.Context, req models.DummyValidate) (*models.Subscription, error) {
	if !s.gateway.IsConfigured() {
		return nil, ErrGatewayNotConfigured
	}

	if !s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		if err := s.repo.UpdatePaymentStatus(ctx, req.RazorpayOrderID, models.PaymentFailed, nil); err != nil {
			s.log.Warn("failed to mark payment failed",
				slog.String("order_id", req.RazorpayOrderID), sl.Err(err))
		}
		return nil, ErrInvalidSignature
	}

	payment, err := s.repo.GetPaymentByOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, err
	}

	userID, okUser := stringNote(payment.Notes, "user_id")
	months, okMonths := monthsNote(payment.Notes)
	if !okUser || !okMonths {
		return nil, ErrMissingContext
	}

	sub, err := s.ledger.Create(ctx, userID, months)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePaymentStatus(ctx, req.RazorpayOrderID, models.PaymentCompleted, &req.RazorpayPaymentID); err != nil {
		return nil, err
	}
	s.log.Info("payment validated",
		slog.String("order_id", req.RazorpayOrderID),
		slog.String("payment_id", req.RazorpayPaymentID),
		slog.String("user_id", userID))
	return sub, nil
}

// List возвращает платежи пользователя.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Payment, error) {
	return s.repo.ListPaymentsForUser(ctx, userID)
}

func stringNote(notes map[string]any, key string) (string, bool) {
	raw, ok := notes[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok && s != ""
}

// monthsNote читает количество месяцев из контекста заказа. Значение
// может прийти строкой или числом в зависимости от клиента.
func monthsNote(notes map[string]any) (int, bool) {
	raw, ok := notes["months"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case string:
		months, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return months, true
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
