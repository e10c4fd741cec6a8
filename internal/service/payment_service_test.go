package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalasetu/workshop-api/internal/gateway"
	"github.com/kalasetu/workshop-api/internal/models"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
)

type mockGateway struct {
	order      *gateway.Order
	orderErr   error
	payments   []gateway.PaymentRecord
	paymentErr error
	created    *gateway.CreateOrderRequest
}

func (m *mockGateway) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	m.created = &req
	return &gateway.Order{
		OrderID:      req.OrderID,
		AmountCents:  req.AmountCents,
		Currency:     req.Currency,
		Status:       "ACTIVE",
		SessionToken: "session_abc",
		Tags:         req.Tags,
	}, nil
}

func (m *mockGateway) GetOrder(ctx context.Context, orderID string) (*gateway.Order, error) {
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	return m.order, nil
}

func (m *mockGateway) GetOrderPayments(ctx context.Context, orderID string) ([]gateway.PaymentRecord, error) {
	if m.paymentErr != nil {
		return nil, m.paymentErr
	}
	return m.payments, nil
}

type mockEnroller struct {
	result *EnrollResult
	err    error
	called *EnrollRequest
}

func (m *mockEnroller) Enroll(ctx context.Context, req EnrollRequest) (*EnrollResult, error) {
	m.called = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

const (
	testStudentID  = "11111111-1111-4111-8111-111111111111"
	testBatchID    = "22222222-2222-4222-8222-222222222222"
	testWorkshopID = "33333333-3333-4333-8333-333333333333"
)

func newPaymentFixture(gw *mockGateway, enroller *mockEnroller) *PaymentService {
	students := &mockStudentFinder{student: &models.Student{ID: testStudentID, FullName: "Asha Rao", Email: "asha@example.com", Phone: "9876543210", Active: true}}
	workshops := &mockWorkshopFinder{workshop: &models.WorkshopDetail{Workshop: models.Workshop{ID: testWorkshopID, Title: "Vedic Maths", FeeCents: 150000}}}
	batches := &mockSeatCounter{batch: &models.Batch{
		ID:         testBatchID,
		WorkshopID: testWorkshopID,
		StartDate:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		Slots:      10,
		Enrolled:   4,
	}}
	return NewPaymentService(gw, students, workshops, batches, enroller, "https://example.com/return", nil)
}

func bookedOrder() *gateway.Order {
	return &gateway.Order{
		OrderID:     "wsorder_abc",
		AmountCents: 150000,
		Currency:    "INR",
		Status:      "PAID",
		Tags: map[string]string{
			gateway.TagStudentID:  testStudentID,
			gateway.TagWorkshopID: testWorkshopID,
			gateway.TagBatchID:    testBatchID,
		},
	}
}

func TestPaymentServiceCreateOrder(t *testing.T) {
	gw := &mockGateway{}
	svc := newPaymentFixture(gw, &mockEnroller{})

	result, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		WorkshopID: testWorkshopID,
		BatchID:    testBatchID,
		StudentID:  testStudentID,
	})
	require.NoError(t, err)
	assert.Equal(t, "session_abc", result.SessionToken)
	assert.Equal(t, int64(150000), result.AmountCents)

	require.NotNil(t, gw.created)
	assert.Equal(t, testStudentID, gw.created.Tags[gateway.TagStudentID])
	assert.Equal(t, testWorkshopID, gw.created.Tags[gateway.TagWorkshopID])
	assert.Equal(t, testBatchID, gw.created.Tags[gateway.TagBatchID])
}

func TestPaymentServiceCreateOrderBatchFull(t *testing.T) {
	gw := &mockGateway{}
	svc := newPaymentFixture(gw, &mockEnroller{})
	svc.batches.(*mockSeatCounter).batch.Enrolled = 10

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		WorkshopID: testWorkshopID,
		BatchID:    testBatchID,
		StudentID:  testStudentID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrBatchFull)
	assert.Nil(t, gw.created)
}

func TestPaymentServiceCreateOrderGatewayDown(t *testing.T) {
	gw := &mockGateway{orderErr: errors.New("timeout")}
	svc := newPaymentFixture(gw, &mockEnroller{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		WorkshopID: testWorkshopID,
		BatchID:    testBatchID,
		StudentID:  testStudentID,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
}

func TestPaymentServiceVerify(t *testing.T) {
	enroller := &mockEnroller{result: &EnrollResult{Enrollment: models.Enrollment{ID: "enroll-1"}, EmailQueued: true}}
	gw := &mockGateway{
		order: bookedOrder(),
		payments: []gateway.PaymentRecord{
			{PaymentID: "pay-1", Status: "SUCCESS", Method: "upi", TransactionID: "txn_1", AmountCents: 150000},
		},
	}
	svc := newPaymentFixture(gw, enroller)

	result, err := svc.Verify(context.Background(), "wsorder_abc")
	require.NoError(t, err)
	assert.Equal(t, "txn_1", result.TransactionID)
	assert.Equal(t, "SUCCESS", result.PaymentStatus)

	require.NotNil(t, enroller.called)
	assert.Equal(t, testStudentID, enroller.called.StudentID)
	assert.Equal(t, testBatchID, enroller.called.BatchID)
	assert.Equal(t, models.PaymentStatusCompleted, enroller.called.PaymentStatus)
}

func TestPaymentServiceVerifyRejectsFailedPayment(t *testing.T) {
	enroller := &mockEnroller{}
	gw := &mockGateway{
		order: bookedOrder(),
		payments: []gateway.PaymentRecord{
			{PaymentID: "pay-1", Status: "FAILED", Method: "upi", TransactionID: "txn_1"},
		},
	}
	svc := newPaymentFixture(gw, enroller)

	_, err := svc.Verify(context.Background(), "wsorder_abc")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPaymentRejected.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "FAILED")
	assert.Nil(t, enroller.called)
}

func TestPaymentServiceVerifyRejectsPendingStatuses(t *testing.T) {
	for _, status := range []string{"PENDING", "USER_DROPPED", "CANCELLED", "FLAGGED", ""} {
		enroller := &mockEnroller{}
		gw := &mockGateway{
			order:    bookedOrder(),
			payments: []gateway.PaymentRecord{{PaymentID: "pay-1", Status: status}},
		}
		svc := newPaymentFixture(gw, enroller)

		_, err := svc.Verify(context.Background(), "wsorder_abc")
		require.Error(t, err, "status %q must be rejected", status)
		assert.Nil(t, enroller.called, "status %q must not enroll", status)
	}
}

func TestPaymentServiceVerifyMissingTags(t *testing.T) {
	order := bookedOrder()
	delete(order.Tags, gateway.TagBatchID)
	enroller := &mockEnroller{}
	gw := &mockGateway{order: order}
	svc := newPaymentFixture(gw, enroller)

	_, err := svc.Verify(context.Background(), "wsorder_abc")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Nil(t, enroller.called)
}

func TestPaymentServiceVerifyEmptyOrderID(t *testing.T) {
	svc := newPaymentFixture(&mockGateway{}, &mockEnroller{})
	_, err := svc.Verify(context.Background(), "  ")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
