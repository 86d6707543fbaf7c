package models

import "time"

// Website представляет сайт пользователя. Поле Data — произвольный документ
// с содержимым страниц; адресные поля Subdomain и CustomDomain хранятся
// отдельными колонками и зеркалируются в Data для клиента.
type Website struct {
	ID           string
	UserID       string
	Name         string
	Data         map[string]any
	Subdomain    *string // Глобально уникальный поддомен платформы
	CustomDomain *string // Глобально уникальный пользовательский домен
	IsPublished  bool
	PublishedURL *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DummyWebsite используется для приёма данных сайта из JSON-запроса.
type DummyWebsite struct {
	Name string         `json:"name" validate:"required"`
	Data map[string]any `json:"data" validate:"required"`
}

// DummyCustomDomain используется для привязки пользовательского домена к сайту.
type DummyCustomDomain struct {
	CustomDomain string `json:"customDomain" validate:"required"`
}

// DomainInfo доменно-ориентированная проекция сайта для списка доменов пользователя.
type DomainInfo struct {
	WebsiteID    string  `json:"websiteId"`
	Name         string  `json:"name"`
	Subdomain    *string `json:"subdomain"`
	CustomDomain *string `json:"customDomain"`
	PublishedURL *string `json:"publishedUrl"`
	IsPublished  bool    `json:"isPublished"`
}

// DNSStatus результат проверки NS-записей пользовательского домена.
type DNSStatus struct {
	Configured  bool     `json:"configured"`
	Nameservers []string `json:"nameservers"`
	Message     string   `json:"message"`
}

// ProviderResult итог обращения к DNS/edge провайдеру. Прикладывается к успешному
// ответу как предупреждение — неуспех провайдера не отменяет основную операцию.
type ProviderResult struct {
	Success      bool   `json:"success"`
	Domain       string `json:"domain,omitempty"`
	Status       string `json:"status,omitempty"`
	Verification any    `json:"verification,omitempty"`
	Error        string `json:"error,omitempty"`
}
