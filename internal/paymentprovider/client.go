// Package paymentprovider содержит HTTP-клиент платёжного провайдера
// (Stripe-совместимый REST API с form-encoded запросами).
package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client клиент платёжного провайдера.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент провайдера.
func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCustomer регистрирует клиента у провайдера.
func (c *Client) CreateCustomer(ctx context.Context, p CustomerParams) (*Customer, error) {
	const op = "paymentprovider.CreateCustomer"

	form := url.Values{}
	form.Set("email", p.Email)
	if p.Name != "" {
		form.Set("name", p.Name)
	}
	form.Set("metadata[userId]", p.UserID)

	var customer Customer
	if err := c.post(ctx, "/customers", form, &customer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &customer, nil
}

// CreateCheckoutSession создаёт страницу оплаты в режиме разового платежа.
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (*CheckoutSession, error) {
	const op = "paymentprovider.CreateCheckoutSession"

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	if p.CustomerEmail != "" {
		form.Set("customer_email", p.CustomerEmail)
	}
	for i, item := range p.Items {
		prefix := "line_items[" + strconv.Itoa(i) + "]"
		form.Set(prefix+"[price_data][currency]", p.Currency)
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(UnitAmount(item.Price), 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}

	var session CheckoutSession
	if err := c.post(ctx, "/checkout/sessions", form, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &session, nil
}

// UnitAmount переводит цену в минимальные единицы валюты (центы).
func UnitAmount(price float64) int64 {
	return int64(math.Round(price * 100))
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var envelope struct {
			Error APIError `json:"error"`
		}
		_ = json.Unmarshal(body, &envelope)
		envelope.Error.StatusCode = resp.StatusCode
		if envelope.Error.Message == "" {
			envelope.Error.Message = resp.Status
		}
		return &envelope.Error
	}

	return json.Unmarshal(body, out)
}
