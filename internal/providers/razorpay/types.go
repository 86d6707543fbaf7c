package razorpay

// CreateOrderRequest запрос на создание заказа.
type CreateOrderRequest struct {
	Amount   int            `json:"amount"` // Сумма в пайсах
	Currency string         `json:"currency"`
	Receipt  string         `json:"receipt,omitempty"`
	Notes    map[string]any `json:"notes,omitempty"`
}

// Order ответ Razorpay на создание заказа.
type Order struct {
	ID        string         `json:"id"`
	Entity    string         `json:"entity"`
	Amount    int            `json:"amount"`
	Currency  string         `json:"currency"`
	Receipt   string         `json:"receipt"`
	Status    string         `json:"status"`
	Notes     map[string]any `json:"notes"`
	CreatedAt int64          `json:"created_at"`
}
