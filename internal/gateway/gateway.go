// Package gateway wraps the hosted-checkout payment provider. The service
// layer only sees orders, payments and the success allow-list; transport
// details stay here.
package gateway

import (
	"context"
	"strings"
)

// Tag keys stashed on gateway orders so the verifier can recover booking
// context without local state.
const (
	TagStudentID  = "studentId"
	TagWorkshopID = "workshopId"
	TagBatchID    = "batchId"
)

// CreateOrderRequest describes a new hosted-checkout order.
type CreateOrderRequest struct {
	OrderID       string
	AmountCents   int64
	Currency      string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ReturnURL     string
	Tags          map[string]string
}

// Order is the gateway's view of an order.
type Order struct {
	OrderID      string
	AmountCents  int64
	Currency     string
	Status       string
	SessionToken string
	Tags         map[string]string
}

// PaymentRecord is one payment attempt against an order.
type PaymentRecord struct {
	PaymentID     string
	Status        string
	Method        string
	TransactionID string
	AmountCents   int64
}

// Client is the gateway contract consumed by the payment service.
type Client interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	GetOrderPayments(ctx context.Context, orderID string) ([]PaymentRecord, error)
}

// successStatuses is the fixed allow-list of gateway statuses that count
// as a completed payment.
var successStatuses = map[string]struct{}{
	"SUCCESS":   {},
	"PAID":      {},
	"CAPTURED":  {},
	"COMPLETED": {},
}

// IsSuccess reports whether a gateway payment status means paid.
func IsSuccess(status string) bool {
	_, ok := successStatuses[strings.ToUpper(strings.TrimSpace(status))]
	return ok
}
