// Package models содержит доменные структуры системы: пользователей, сайты,
// подписки, SSL-заявки и платежи, а также вспомогательные типы для приёма
// данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID                  string         // Уникальный идентификатор пользователя
	Phone               string         // Телефон (10 цифр)
	FullName            string         // Полное имя
	Email               string         // Электронная почта (уникальная)
	PasswordHash        string         // Хэш пароля пользователя
	ResetToken          *string        // Токен для сброса пароля
	ResetTokenExpiry    *time.Time     // Срок действия токена сброса
	OnboardingCompleted bool           // Завершён ли онбординг
	OnboardingData      map[string]any // Снимок данных онбординга
	CreatedAt           time.Time
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Phone    string `json:"phone" validate:"required,len=10,numeric"`
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyProfileUpdate используется для обновления профиля пользователя.
type DummyProfileUpdate struct {
	Phone    string `json:"phone" validate:"required,len=10,numeric"`
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
}

// DummyChangePassword используется для смены пароля авторизованным пользователем.
type DummyChangePassword struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// DummyForgotPassword используется для запроса сброса пароля.
type DummyForgotPassword struct {
	Email string `json:"email" validate:"required,email"`
}

// DummyResetPassword используется для сброса пароля по токену.
type DummyResetPassword struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// DummyOnboarding используется для сохранения результата онбординга.
type DummyOnboarding struct {
	Data map[string]any `json:"data" validate:"required"`
}
