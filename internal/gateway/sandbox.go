package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sandbox fabricates successful payments without touching the real
// gateway. Orders younger than the configured delay report no payments
// yet, mimicking a student still on the checkout page.
type Sandbox struct {
	delay time.Duration

	mu     sync.Mutex
	orders map[string]sandboxOrder
}

type sandboxOrder struct {
	order   Order
	created time.Time
}

// NewSandbox builds a sandbox gateway.
func NewSandbox(delay time.Duration) *Sandbox {
	return &Sandbox{delay: delay, orders: make(map[string]sandboxOrder)}
}

// CreateOrder records the order in memory and hands back a fake session.
func (s *Sandbox) CreateOrder(_ context.Context, req CreateOrderRequest) (*Order, error) {
	order := Order{
		OrderID:      req.OrderID,
		AmountCents:  req.AmountCents,
		Currency:     req.Currency,
		Status:       "ACTIVE",
		SessionToken: "sandbox_session_" + uuid.NewString(),
		Tags:         req.Tags,
	}

	s.mu.Lock()
	s.orders[req.OrderID] = sandboxOrder{order: order, created: time.Now()}
	s.mu.Unlock()

	return &order, nil
}

// GetOrder returns the stored order.
func (s *Sandbox) GetOrder(_ context.Context, orderID string) (*Order, error) {
	s.mu.Lock()
	stored, ok := s.orders[orderID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("sandbox order %s not found", orderID)
	}

	order := stored.order
	if time.Since(stored.created) >= s.delay {
		order.Status = "PAID"
	}
	return &order, nil
}

// GetOrderPayments fabricates one successful payment once the delay passes.
func (s *Sandbox) GetOrderPayments(_ context.Context, orderID string) ([]PaymentRecord, error) {
	s.mu.Lock()
	stored, ok := s.orders[orderID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("sandbox order %s not found", orderID)
	}

	if time.Since(stored.created) < s.delay {
		return nil, nil
	}

	return []PaymentRecord{{
		PaymentID:     "sandbox_pay_" + orderID,
		Status:        "SUCCESS",
		Method:        "sandbox",
		TransactionID: "sandbox_txn_" + uuid.NewString(),
		AmountCents:   stored.order.AmountCents,
	}}, nil
}
