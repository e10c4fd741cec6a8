package gateway

import (
	"context"
	"fmt"
	"math"

	"github.com/go-resty/resty/v2"

	"github.com/kalasetu/workshop-api/pkg/config"
)

// RESTClient talks to the gateway's order API over HTTPS.
type RESTClient struct {
	http *resty.Client
}

// NewRESTClient builds a client from gateway configuration.
func NewRESTClient(cfg config.GatewayConfig) *RESTClient {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-client-id", cfg.ClientID).
		SetHeader("x-client-secret", cfg.ClientSecret).
		SetHeader("x-api-version", cfg.APIVersion)
	return &RESTClient{http: http}
}

type orderPayload struct {
	OrderID       string            `json:"order_id"`
	OrderAmount   float64           `json:"order_amount"`
	OrderCurrency string            `json:"order_currency"`
	OrderTags     map[string]string `json:"order_tags,omitempty"`
	OrderStatus   string            `json:"order_status,omitempty"`
	SessionID     string            `json:"payment_session_id,omitempty"`
	CustomerInfo  *customerPayload  `json:"customer_details,omitempty"`
	OrderMeta     *orderMetaPayload `json:"order_meta,omitempty"`
}

type customerPayload struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}

type orderMetaPayload struct {
	ReturnURL string `json:"return_url,omitempty"`
}

type paymentPayload struct {
	CfPaymentID   string  `json:"cf_payment_id"`
	PaymentStatus string  `json:"payment_status"`
	PaymentAmount float64 `json:"payment_amount"`
	PaymentMethod string  `json:"payment_group"`
	BankReference string  `json:"bank_reference"`
}

type gatewayError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// CreateOrder registers an order and returns the checkout session token.
func (c *RESTClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	payload := orderPayload{
		OrderID:       req.OrderID,
		OrderAmount:   centsToUnits(req.AmountCents),
		OrderCurrency: req.Currency,
		OrderTags:     req.Tags,
		CustomerInfo: &customerPayload{
			CustomerID:    req.CustomerID,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
		},
	}
	if req.ReturnURL != "" {
		payload.OrderMeta = &orderMetaPayload{ReturnURL: req.ReturnURL}
	}

	var created orderPayload
	var gwErr gatewayError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&created).
		SetError(&gwErr).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("gateway create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gateway create order: %s (%s)", gwErr.Message, resp.Status())
	}

	return toOrder(created), nil
}

// GetOrder fetches an order including the tags stashed at creation.
func (c *RESTClient) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var fetched orderPayload
	var gwErr gatewayError
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&fetched).
		SetError(&gwErr).
		Get("/orders/" + orderID)
	if err != nil {
		return nil, fmt.Errorf("gateway get order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gateway get order %s: %s (%s)", orderID, gwErr.Message, resp.Status())
	}

	return toOrder(fetched), nil
}

// GetOrderPayments fetches every payment attempt recorded for the order.
func (c *RESTClient) GetOrderPayments(ctx context.Context, orderID string) ([]PaymentRecord, error) {
	var fetched []paymentPayload
	var gwErr gatewayError
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&fetched).
		SetError(&gwErr).
		Get("/orders/" + orderID + "/payments")
	if err != nil {
		return nil, fmt.Errorf("gateway get payments: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gateway get payments %s: %s (%s)", orderID, gwErr.Message, resp.Status())
	}

	records := make([]PaymentRecord, 0, len(fetched))
	for _, p := range fetched {
		records = append(records, PaymentRecord{
			PaymentID:     p.CfPaymentID,
			Status:        p.PaymentStatus,
			Method:        p.PaymentMethod,
			TransactionID: p.BankReference,
			AmountCents:   unitsToCents(p.PaymentAmount),
		})
	}
	return records, nil
}

func toOrder(p orderPayload) *Order {
	return &Order{
		OrderID:      p.OrderID,
		AmountCents:  unitsToCents(p.OrderAmount),
		Currency:     p.OrderCurrency,
		Status:       p.OrderStatus,
		SessionToken: p.SessionID,
		Tags:         p.OrderTags,
	}
}

func centsToUnits(cents int64) float64 {
	return float64(cents) / 100
}

func unitsToCents(units float64) int64 {
	return int64(math.Round(units * 100))
}
