package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aboutwebsite/sitebuilder/internal/models"
)

func TestStorage_CreateAndGetWebsite(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "owner@example.com")

	dummy := GetTestWebsiteData()
	created, err := storage.CreateWebsite(context.Background(), userID, dummy.Name, dummy.Data)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "My Business", created.Name)
	assert.False(t, created.IsPublished)

	got, err := storage.GetWebsite(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, dummy.Data, got.Data)

	// Чужой пользователь сайт не видит
	otherID := factory.CreateUser(t, "other@example.com")
	_, err = storage.GetWebsite(context.Background(), created.ID, otherID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_SetSubdomain_UniqueViolation(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "owner@example.com")
	first := factory.CreateWebsite(t, userID, "first")
	second := factory.CreateWebsite(t, userID, "second")

	sub := "mybusiness"
	require.NoError(t, storage.SetSubdomain(context.Background(), first, &sub))

	// Конфликт без учёта регистра
	upper := "MyBusiness"
	err := storage.SetSubdomain(context.Background(), second, &upper)
	require.ErrorIs(t, err, ErrUniqueViolation)

	// Повторная установка того же поддомена тем же сайтом проходит
	require.NoError(t, storage.SetSubdomain(context.Background(), first, &sub))

	// Снятие поддомена освобождает его
	require.NoError(t, storage.SetSubdomain(context.Background(), first, nil))
	require.NoError(t, storage.SetSubdomain(context.Background(), second, &sub))
}

func TestStorage_SetCustomDomain_WwwVariantConflict(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "owner@example.com")
	first := factory.CreateWebsite(t, userID, "first")
	second := factory.CreateWebsite(t, userID, "second")

	domain := "example.com"
	require.NoError(t, storage.SetCustomDomain(context.Background(), first, &domain))

	// www-вариант считается тем же доменом
	www := "www.example.com"
	err := storage.SetCustomDomain(context.Background(), second, &www)
	require.ErrorIs(t, err, ErrUniqueViolation)

	other := "other.com"
	require.NoError(t, storage.SetCustomDomain(context.Background(), second, &other))
}

func TestStorage_FindWebsiteIDByCustomDomain(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "owner@example.com")
	websiteID := factory.CreateWebsite(t, userID, "first")

	domain := "www.example.com"
	require.NoError(t, storage.SetCustomDomain(context.Background(), websiteID, &domain))

	// Поиск по каноническому ключу находит www-вариант
	foundID, found, err := storage.FindWebsiteIDByCustomDomain(context.Background(), "example.com", "")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, websiteID, foundID)

	// Собственный сайт исключается из поиска
	_, found, err = storage.FindWebsiteIDByCustomDomain(context.Background(), "example.com", websiteID)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = storage.FindWebsiteIDByCustomDomain(context.Background(), "free.com", "")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStorage_Subscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "owner@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	created, err := storage.CreateSubscription(context.Background(), models.Subscription{
		UserID:    userID,
		Plan:      "publish",
		Duration:  "3month",
		Status:    models.SubscriptionActive,
		StartDate: now,
		ExpiresAt: now.Add(90 * 24 * time.Hour),
		Price:     537,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, created.Status)

	// Вторая активная подписка на того же пользователя запрещена индексом
	_, err = storage.CreateSubscription(context.Background(), models.Subscription{
		UserID:    userID,
		Plan:      "publish",
		Duration:  "1month",
		Status:    models.SubscriptionActive,
		StartDate: now,
		ExpiresAt: now.Add(30 * 24 * time.Hour),
		Price:     199,
	})
	require.ErrorIs(t, err, ErrUniqueViolation)

	active, err := storage.FindActiveSubscription(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, active.ID)

	extended, err := storage.ExtendSubscription(context.Background(), created.ID,
		active.ExpiresAt.Add(30*24*time.Hour), "4month", 199)
	require.NoError(t, err)
	assert.Equal(t, "4month", extended.Duration)
	assert.Equal(t, 537+199, extended.Price)

	rows, err := storage.CancelActiveSubscription(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	_, err = storage.FindActiveSubscription(context.Background(), userID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	userID, err := storage.RegisterUser(context.Background(), models.User{
		Phone:        "9876543210",
		FullName:     "Test User",
		Email:        "Test@Example.com",
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	// Email уникален без учёта регистра
	_, err = storage.RegisterUser(context.Background(), models.User{
		Phone:        "9876543211",
		FullName:     "Another User",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
	})
	require.ErrorIs(t, err, ErrUniqueViolation)

	got, err := storage.GetUserByEmail(context.Background(), "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
	assert.False(t, got.OnboardingCompleted)

	require.NoError(t, storage.CompleteOnboarding(context.Background(), userID,
		map[string]any{"businessType": "bakery"}))

	got, err = storage.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, got.OnboardingCompleted)
	assert.Equal(t, "bakery", got.OnboardingData["businessType"])
}

func TestStorage_Payments(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "owner@example.com")

	saved, err := storage.SavePayment(context.Background(), models.Payment{
		RazorpayOrderID: "order_test123",
		Amount:          19900,
		Currency:        "INR",
		Receipt:         "rcpt_1",
		Notes:           map[string]any{"user_id": userID, "months": "1"},
		Status:          models.PaymentCreated,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCreated, saved.Status)

	paymentID := "pay_test456"
	require.NoError(t, storage.UpdatePaymentStatus(context.Background(),
		"order_test123", models.PaymentCompleted, &paymentID))

	got, err := storage.GetPaymentByOrderID(context.Background(), "order_test123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, got.Status)
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, paymentID, *got.PaymentID)
	require.NotNil(t, got.CompletedAt)

	list, err := storage.ListPaymentsForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "order_test123", list[0].RazorpayOrderID)
}
