package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalasetu/workshop-api/internal/gateway"
	"github.com/kalasetu/workshop-api/internal/models"
	"github.com/kalasetu/workshop-api/internal/service"
)

const (
	testStudentID  = "11111111-1111-4111-8111-111111111111"
	testBatchID    = "22222222-2222-4222-8222-222222222222"
	testWorkshopID = "33333333-3333-4333-8333-333333333333"
)

type stubGateway struct {
	order    *gateway.Order
	payments []gateway.PaymentRecord
}

func (s *stubGateway) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	return &gateway.Order{OrderID: req.OrderID, AmountCents: req.AmountCents, Currency: req.Currency, Status: "ACTIVE", SessionToken: "session_abc", Tags: req.Tags}, nil
}

func (s *stubGateway) GetOrder(ctx context.Context, orderID string) (*gateway.Order, error) {
	return s.order, nil
}

func (s *stubGateway) GetOrderPayments(ctx context.Context, orderID string) ([]gateway.PaymentRecord, error) {
	return s.payments, nil
}

type stubStudents struct{ student *models.Student }

func (s *stubStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s.student != nil && s.student.ID == id {
		return s.student, nil
	}
	return nil, sql.ErrNoRows
}

type stubWorkshops struct{ workshop *models.WorkshopDetail }

func (s *stubWorkshops) FindByID(ctx context.Context, id string) (*models.WorkshopDetail, error) {
	if s.workshop != nil && s.workshop.ID == id {
		return s.workshop, nil
	}
	return nil, sql.ErrNoRows
}

type stubBatches struct{ batch *models.Batch }

func (s *stubBatches) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	if s.batch != nil && s.batch.ID == id {
		b := *s.batch
		return &b, nil
	}
	return nil, sql.ErrNoRows
}

type stubEnroller struct {
	result *service.EnrollResult
	err    error
	called bool
}

func (s *stubEnroller) Enroll(ctx context.Context, req service.EnrollRequest) (*service.EnrollResult, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newPaymentHandlerFixture(gw *stubGateway, enroller *stubEnroller) *PaymentHandler {
	students := &stubStudents{student: &models.Student{ID: testStudentID, FullName: "Asha Rao", Email: "asha@example.com", Phone: "9876543210", Active: true}}
	workshops := &stubWorkshops{workshop: &models.WorkshopDetail{Workshop: models.Workshop{ID: testWorkshopID, Title: "Vedic Maths", FeeCents: 150000, Active: true}}}
	batches := &stubBatches{batch: &models.Batch{ID: testBatchID, WorkshopID: testWorkshopID, StartDate: time.Now(), StartTime: "10:00", Slots: 10, Enrolled: 4}}
	svc := service.NewPaymentService(gw, students, workshops, batches, enroller, "https://example.com/return", nil)
	return NewPaymentHandler(svc)
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPaymentHandlerCreateOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newPaymentHandlerFixture(&stubGateway{}, &stubEnroller{})
	router := gin.New()
	router.POST("/api/payment/order", h.CreateOrder)

	w := performJSON(t, router, http.MethodPost, "/api/payment/order", gin.H{
		"workshopId": testWorkshopID,
		"batchId":    testBatchID,
		"studentId":  testStudentID,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "session_abc", body["sessionToken"])
	assert.NotEmpty(t, body["orderId"])
}

func TestPaymentHandlerVerifyFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw := &stubGateway{
		order: &gateway.Order{
			OrderID: "wsorder_abc",
			Status:  "ACTIVE",
			Tags: map[string]string{
				gateway.TagStudentID:  testStudentID,
				gateway.TagWorkshopID: testWorkshopID,
				gateway.TagBatchID:    testBatchID,
			},
		},
		payments: []gateway.PaymentRecord{{PaymentID: "pay-1", Status: "FAILED"}},
	}
	enroller := &stubEnroller{}
	h := newPaymentHandlerFixture(gw, enroller)
	router := gin.New()
	router.POST("/api/payment/verify", h.Verify)

	w := performJSON(t, router, http.MethodPost, "/api/payment/verify", gin.H{"orderId": "wsorder_abc"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "FAILED")
	assert.False(t, enroller.called)
}

func TestPaymentHandlerVerifySuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw := &stubGateway{
		order: &gateway.Order{
			OrderID:     "wsorder_abc",
			AmountCents: 150000,
			Status:      "PAID",
			Tags: map[string]string{
				gateway.TagStudentID:  testStudentID,
				gateway.TagWorkshopID: testWorkshopID,
				gateway.TagBatchID:    testBatchID,
			},
		},
		payments: []gateway.PaymentRecord{{PaymentID: "pay-1", Status: "SUCCESS", Method: "upi", TransactionID: "txn_1", AmountCents: 150000}},
	}
	enroller := &stubEnroller{result: &service.EnrollResult{Enrollment: models.Enrollment{ID: "enroll-1"}, EmailQueued: true}}
	h := newPaymentHandlerFixture(gw, enroller)
	router := gin.New()
	router.POST("/api/payment/verify", h.Verify)

	w := performJSON(t, router, http.MethodPost, "/api/payment/verify", gin.H{"orderId": "wsorder_abc"})

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "txn_1", body["transaction_id"])
	assert.Equal(t, "SUCCESS", body["payment_status"])
	assert.True(t, enroller.called)
}
