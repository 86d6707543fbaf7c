// Package subscription реализует учёт подписок на публикацию:
// тарифы со скидками за длительность, ленивое истечение и продление
// активной подписки вместо создания новой.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

// Длительность расчётного месяца. Сроки подписок считаются в сутках,
// а не по календарю.
const monthLength = 30 * 24 * time.Hour

// Границы допустимой длительности в месяцах.
const (
	minMonths = 1
	maxMonths = 60
)

// Ошибки сервиса подписок.
var (
	// ErrInvalidDuration длительность вне диапазона или не в формате "Nmonth".
	ErrInvalidDuration = errors.New("invalid subscription duration")
	// ErrNoActiveSubscription у пользователя нет действующей подписки.
	ErrNoActiveSubscription = errors.New("no active subscription")
)

// Repository операции хранилища, нужные сервису подписок.
type Repository interface {
	FindActiveSubscription(ctx context.Context, userID string) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	ExtendSubscription(ctx context.Context, id string, expiresAt time.Time, duration string, price int) (*models.Subscription, error)
	MarkSubscriptionExpired(ctx context.Context, id string) error
	CancelActiveSubscription(ctx context.Context, userID string) (int, error)
}

// Ledger сервис учёта подписок.
type Ledger struct {
	repo      Repository
	basePrice int
	log       *slog.Logger
}

// NewLedger создаёт сервис учёта подписок.
func NewLedger(repo Repository, basePrice int, log *slog.Logger) *Ledger {
	return &Ledger{
		repo:      repo,
		basePrice: basePrice,
		log:       log,
	}
}

// ParseDuration разбирает длительность вида "6month" в количество месяцев.
func ParseDuration(duration string) (int, error) {
	raw, ok := strings.CutSuffix(duration, "month")
	if !ok {
		return 0, ErrInvalidDuration
	}
	months, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidDuration
	}
	if months < minMonths || months > maxMonths {
		return 0, ErrInvalidDuration
	}
	return months, nil
}

// CalculatePrice считает итоговую цену за months месяцев. Скидка за
// длительность применяется ко всей сумме, результат округляется
// до целых рупий.
func (l *Ledger) CalculatePrice(months int) int {
	total := float64(l.basePrice * months)
	switch {
	case months >= 24:
		total *= 0.70
	case months >= 12:
		total *= 0.80
	case months >= 6:
		total *= 0.85
	case months >= 3:
		total *= 0.90
	}
	return int(math.Round(total))
}

// Plans возвращает тарифную сетку для стандартных длительностей.
func (l *Ledger) Plans() []models.Plan {
	var plans []models.Plan
	for _, months := range []int{1, 3, 6, 12, 24} {
		original := l.basePrice * months
		price := l.CalculatePrice(months)
		name := fmt.Sprintf("%d Month", months)
		if months > 1 {
			name += "s"
		}
		plans = append(plans, models.Plan{
			Name:          name,
			Price:         price,
			Days:          months * 30,
			Months:        months,
			OriginalPrice: original,
			Savings:       original - price,
		})
	}
	return plans
}

// GetActive возвращает действующую подписку пользователя. Просроченная
// подписка помечается истёкшей при чтении, в этом случае возвращается
// ErrNoActiveSubscription.
func (l *Ledger) GetActive(ctx context.Context, userID string) (*models.Subscription, error) {
	sub, err := l.repo.FindActiveSubscription(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	if time.Now().After(sub.ExpiresAt) {
		if err := l.repo.MarkSubscriptionExpired(ctx, sub.ID); err != nil {
			return nil, err
		}
		l.log.Info("marked subscription expired",
			slog.String("subscription_id", sub.ID),
			slog.String("user_id", userID))
		return nil, ErrNoActiveSubscription
	}
	return sub, nil
}

// HasActive сообщает, есть ли у пользователя действующая подписка.
func (l *Ledger) HasActive(ctx context.Context, userID string) (bool, error) {
	_, err := l.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create оформляет подписку на months месяцев. Действующая подписка
// продлевается от текущей даты окончания, новая создаётся от текущего
// момента.
func (l *Ledger) Create(ctx context.Context, userID string, months int) (*models.Subscription, error) {
	if months < minMonths || months > maxMonths {
		return nil, ErrInvalidDuration
	}
	price := l.CalculatePrice(months)
	added := time.Duration(months) * monthLength

	current, err := l.GetActive(ctx, userID)
	if err != nil && !errors.Is(err, ErrNoActiveSubscription) {
		return nil, err
	}

	if current != nil {
		newExpiry := current.ExpiresAt.Add(added)
		totalMonths := int(math.Round(float64(newExpiry.Sub(current.StartDate)) / float64(monthLength)))
		duration := fmt.Sprintf("%dmonth", totalMonths)

		extended, err := l.repo.ExtendSubscription(ctx, current.ID, newExpiry, duration, price)
		if err != nil {
			return nil, err
		}
		l.log.Info("extended subscription",
			slog.String("subscription_id", extended.ID),
			slog.String("user_id", userID),
			slog.Int("added_months", months))
		return extended, nil
	}

	now := time.Now()
	created, err := l.repo.CreateSubscription(ctx, models.Subscription{
		UserID:    userID,
		Plan:      "publish",
		Duration:  fmt.Sprintf("%dmonth", months),
		Status:    models.SubscriptionActive,
		StartDate: now,
		ExpiresAt: now.Add(added),
		Price:     price,
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("created subscription",
		slog.String("subscription_id", created.ID),
		slog.String("user_id", userID),
		slog.Int("months", months))
	return created, nil
}

// Cancel отменяет действующую подписку пользователя.
func (l *Ledger) Cancel(ctx context.Context, userID string) error {
	rows, err := l.repo.CancelActiveSubscription(ctx, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoActiveSubscription
	}
	l.log.Info("cancelled subscription", slog.String("user_id", userID))
	return nil
}
