package models

import "time"

// Статусы подписки.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// Subscription представляет оплаченное право публикации сайтов пользователя.
// У пользователя может быть не более одной активной подписки; продление
// сдвигает ExpiresAt существующей записи, а не создаёт новую.
type Subscription struct {
	ID        string
	UserID    string
	Plan      string // Всегда "publish"
	Duration  string // Например "6month"
	Status    string // active | expired | cancelled
	StartDate time.Time
	ExpiresAt time.Time
	Price     int // Итоговая цена в целых рупиях
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DummySubscription используется для приёма данных создания подписки из JSON-запроса.
type DummySubscription struct {
	Duration string `json:"duration" validate:"required"` // Например "6month"
}

// Plan описывает тарифный вариант для заданной длительности.
type Plan struct {
	Name          string `json:"name"`
	Price         int    `json:"price"`
	Days          int    `json:"days"`
	Months        int    `json:"months"`
	OriginalPrice int    `json:"originalPrice"`
	Savings       int    `json:"savings"`
}
