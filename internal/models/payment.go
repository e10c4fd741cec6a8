package models

import "time"

// Payment statuses recorded locally. The gateway's own vocabulary is wider;
// see gateway.SuccessStatuses for what counts as paid.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Payment links an enrollment to the gateway transaction that funded it.
type Payment struct {
	ID            string    `db:"id" json:"id"`
	OrderID       string    `db:"order_id" json:"order_id"`
	EnrollmentID  *string   `db:"enrollment_id" json:"enrollment_id,omitempty"`
	AmountCents   int64     `db:"amount_cents" json:"amount_cents"`
	Method        string    `db:"method" json:"method"`
	Status        string    `db:"status" json:"status"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
