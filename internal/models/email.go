package models

// Типы почтовых заданий.
const (
	EmailWelcome       = "welcome"
	EmailPasswordReset = "password_reset"
)

// EmailJob задание на отправку письма, публикуется API в очередь
// и обрабатывается сервисом notifier.
type EmailJob struct {
	Type  string            `json:"type"`
	Email string            `json:"email"`
	Name  string            `json:"name"`
	Vars  map[string]string `json:"vars,omitempty"`
}

// GeneratedContent результат генерации контента сайта (AI или шаблонный фолбэк).
type GeneratedContent struct {
	Tagline          string `json:"tagline"`
	HeroTitle        string `json:"heroTitle"`
	HeroSubtitle     string `json:"heroSubtitle"`
	HeroDescription  string `json:"heroDescription"`
	AboutTitle       string `json:"aboutTitle"`
	AboutDescription string `json:"aboutDescription"`
}

// DummyGenerate используется для приёма запроса генерации контента.
type DummyGenerate struct {
	BusinessDescription string `json:"businessDescription" validate:"required,min=10"`
}
