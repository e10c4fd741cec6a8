package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kalasetu/workshop-api/internal/models"
)

// PaymentRepository records gateway transactions against enrollments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create persists a payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO payments (id, order_id, enrollment_id, amount_cents, method, status, transaction_id, created_at)
        VALUES (:id, :order_id, :enrollment_id, :amount_cents, :method, :status, :transaction_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// FindByOrderID returns payments recorded for an order, newest first.
func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) ([]models.Payment, error) {
	const query = `SELECT id, order_id, enrollment_id, amount_cents, method, status, transaction_id, created_at
        FROM payments WHERE order_id = $1 ORDER BY created_at DESC`
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, orderID); err != nil {
		return nil, fmt.Errorf("find payments by order: %w", err)
	}
	return payments, nil
}
