package models

import "time"

// Статусы SSL-заявки. Состояния дальше pending выставляет внешний
// процесс выпуска сертификатов.
const (
	SSLPending    = "pending"
	SSLProcessing = "processing"
	SSLApplied    = "applied"
	SSLFailed     = "failed"
)

// SSLRequest представляет заявку пользователя на выпуск сертификата для домена.
type SSLRequest struct {
	ID          string
	UserID      string
	WebsiteID   string
	Domain      string
	Status      string // pending | processing | applied | failed
	RequestedAt time.Time
	AppliedAt   *time.Time
	Notes       *string
}

// DummySSLRequest используется для приёма данных SSL-заявки из JSON-запроса.
type DummySSLRequest struct {
	WebsiteID string `json:"websiteId" validate:"required,uuid"`
	Domain    string `json:"domain" validate:"required"`
}
