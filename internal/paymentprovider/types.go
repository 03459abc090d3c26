package paymentprovider

import "fmt"

// CustomerParams параметры создания клиента у провайдера.
type CustomerParams struct {
	Email  string
	Name   string
	UserID string
}

// Customer клиент платёжного провайдера.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LineItem позиция оплаты. Price в основных единицах валюты.
type LineItem struct {
	Name     string
	Price    float64
	Quantity int
}

// CheckoutSessionParams параметры создания страницы оплаты.
type CheckoutSessionParams struct {
	Items         []LineItem
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession созданная страница оплаты.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// APIError ошибка, которую вернул провайдер.
type APIError struct {
	StatusCode int
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payment provider: status %d: %s: %s", e.StatusCode, e.Type, e.Message)
}
