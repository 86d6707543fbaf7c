package models

import "time"

// Статусы платежа.
const (
	PaymentCreated   = "created"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentCancelled = "cancelled"
)

// Payment представляет заказ платёжного шлюза и его локальное состояние.
// Notes переносит контекст платежа (user_id, months) до момента валидации.
type Payment struct {
	ID              string
	RazorpayOrderID string
	Amount          int // Сумма в пайсах
	Currency        string
	Receipt         string
	Notes           map[string]any
	Status          string // created | completed | failed | cancelled
	PaymentID       *string
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DummyOrder используется для приёма данных создания заказа из JSON-запроса.
type DummyOrder struct {
	Amount   int            `json:"amount" validate:"required,gt=0"` // Сумма в пайсах
	Currency string         `json:"currency" validate:"required"`
	Receipt  string         `json:"receipt"`
	Notes    map[string]any `json:"notes"`
}

// DummyValidate используется для приёма параметров проверки подписи платежа.
type DummyValidate struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}
