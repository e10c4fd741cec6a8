package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kalasetu/workshop-api/internal/gateway"
	"github.com/kalasetu/workshop-api/internal/models"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
)

type enroller interface {
	Enroll(ctx context.Context, req EnrollRequest) (*EnrollResult, error)
}

type batchFinder interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
}

// CreateOrderRequest opens a hosted-checkout order for a booking.
type CreateOrderRequest struct {
	WorkshopID  string `json:"workshopId" validate:"required,uuid4"`
	BatchID     string `json:"batchId" validate:"required,uuid4"`
	StudentID   string `json:"studentId" validate:"required,uuid4"`
	AmountCents int64  `json:"amount" validate:"gte=0"`
}

// CreateOrderResult carries the gateway session for the checkout redirect.
type CreateOrderResult struct {
	OrderID      string `json:"order_id"`
	SessionToken string `json:"session_token"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
}

// VerifyResult reports a verified payment and the enrollment it produced.
type VerifyResult struct {
	OrderID       string        `json:"order_id"`
	TransactionID string        `json:"transaction_id"`
	PaymentStatus string        `json:"payment_status"`
	Method        string        `json:"payment_method"`
	AmountCents   int64         `json:"amount_cents"`
	Enrollment    *EnrollResult `json:"enrollment"`
}

// PaymentService creates gateway orders and verifies them on return from
// the hosted checkout.
type PaymentService struct {
	gw          gateway.Client
	students    studentFinder
	workshops   workshopFinder
	batches     batchFinder
	enrollments enroller
	returnURL   string
	currency    string
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(gw gateway.Client, students studentFinder, workshops workshopFinder, batches batchFinder, enrollments enroller, returnURL string, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		gw:          gw,
		students:    students,
		workshops:   workshops,
		batches:     batches,
		enrollments: enrollments,
		returnURL:   returnURL,
		currency:    "INR",
		validator:   validator.New(),
		logger:      logger,
	}
}

// CreateOrder validates the booking context and opens a gateway order with
// the student, workshop and batch ids stashed in its tags.
func (s *PaymentService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "workshopId, batchId and studentId are required")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "student lookup failed")
	}
	workshop, err := s.workshops.FindByID(ctx, req.WorkshopID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "workshop lookup failed")
	}
	batch, err := s.batches.FindByID(ctx, req.BatchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "batch lookup failed")
	}
	if batch.WorkshopID != req.WorkshopID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "batch does not belong to this workshop")
	}
	if batch.Available() <= 0 {
		return nil, appErrors.ErrBatchFull
	}

	amount := req.AmountCents
	if amount <= 0 {
		amount = workshop.FeeCents
	}

	orderID := "wsorder_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	order, err := s.gw.CreateOrder(ctx, gateway.CreateOrderRequest{
		OrderID:       orderID,
		AmountCents:   amount,
		Currency:      s.currency,
		CustomerID:    student.ID,
		CustomerName:  student.FullName,
		CustomerEmail: student.Email,
		CustomerPhone: student.Phone,
		ReturnURL:     s.returnURL,
		Tags: map[string]string{
			gateway.TagStudentID:  student.ID,
			gateway.TagWorkshopID: workshop.ID,
			gateway.TagBatchID:    batch.ID,
		},
	})
	if err != nil {
		s.logger.Error("gateway order creation failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "could not reach the payment gateway")
	}

	s.logger.Info("gateway order created",
		zap.String("order_id", order.OrderID),
		zap.String("student_id", student.ID),
		zap.Int64("amount_cents", order.AmountCents))

	return &CreateOrderResult{
		OrderID:      order.OrderID,
		SessionToken: order.SessionToken,
		AmountCents:  order.AmountCents,
		Currency:     order.Currency,
	}, nil
}

// Verify fetches the gateway order and its payments, accepts only statuses
// in the success allow-list, and on success records the enrollment. A
// rejected payment creates neither an enrollment nor a payment row.
func (s *PaymentService) Verify(ctx context.Context, orderID string) (*VerifyResult, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "orderId is required")
	}

	order, err := s.gw.GetOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("gateway order lookup failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "could not verify the order with the payment gateway")
	}

	studentID := order.Tags[gateway.TagStudentID]
	workshopID := order.Tags[gateway.TagWorkshopID]
	batchID := order.Tags[gateway.TagBatchID]
	if studentID == "" || workshopID == "" || batchID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "order is missing booking details")
	}

	payments, err := s.gw.GetOrderPayments(ctx, orderID)
	if err != nil {
		s.logger.Error("gateway payments lookup failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "could not fetch payments for the order")
	}

	var paid *gateway.PaymentRecord
	lastStatus := order.Status
	for i := range payments {
		if gateway.IsSuccess(payments[i].Status) {
			paid = &payments[i]
			break
		}
		lastStatus = payments[i].Status
	}
	if paid == nil {
		s.logger.Warn("payment not successful",
			zap.String("order_id", orderID),
			zap.String("status", lastStatus))
		return nil, appErrors.Clone(appErrors.ErrPaymentRejected, fmt.Sprintf("payment was not successful (status %s)", lastStatus))
	}

	amount := paid.AmountCents
	if amount <= 0 {
		amount = order.AmountCents
	}

	enrollment, err := s.enrollments.Enroll(ctx, EnrollRequest{
		StudentID:     studentID,
		BatchID:       batchID,
		WorkshopID:    workshopID,
		PaymentStatus: models.PaymentStatusCompleted,
		OrderID:       orderID,
		TransactionID: paid.TransactionID,
		AmountCents:   amount,
		Method:        paid.Method,
	})
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		OrderID:       orderID,
		TransactionID: paid.TransactionID,
		PaymentStatus: paid.Status,
		Method:        paid.Method,
		AmountCents:   amount,
		Enrollment:    enrollment,
	}, nil
}
