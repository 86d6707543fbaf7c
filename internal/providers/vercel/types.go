package vercel

// Domain состояние домена в проекте Vercel.
type Domain struct {
	Name         string         `json:"name"`
	ApexName     string         `json:"apexName"`
	Verified     bool           `json:"verified"`
	Verification []Verification `json:"verification,omitempty"`
}

// Verification запись, которую нужно создать в DNS для подтверждения владения.
type Verification struct {
	Type   string `json:"type"`
	Domain string `json:"domain"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// DomainConfig состояние DNS-конфигурации домена.
type DomainConfig struct {
	ConfiguredBy        *string  `json:"configuredBy"`
	Misconfigured       bool     `json:"misconfigured"`
	AcceptedChallenges  []string `json:"acceptedChallenges,omitempty"`
	ConflictingCAARecord *string `json:"conflictingCAARecord,omitempty"`
}

// ErrorResponse тело ошибки Vercel API.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
