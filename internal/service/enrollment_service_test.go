package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalasetu/workshop-api/internal/mailer"
	"github.com/kalasetu/workshop-api/internal/models"
	"github.com/kalasetu/workshop-api/internal/repository"
	"github.com/kalasetu/workshop-api/pkg/config"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
	"github.com/kalasetu/workshop-api/pkg/jobs"
)

type mockEnrollmentRepo struct {
	existing  map[string]bool
	createErr error
	created   *models.Enrollment
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	return nil, 0, nil
}

func (m *mockEnrollmentRepo) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) Exists(ctx context.Context, studentID, batchID string) (bool, error) {
	return m.existing[studentID+"/"+batchID], nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	if enrollment.ID == "" {
		enrollment.ID = "enroll-1"
	}
	m.created = enrollment
	return nil
}

type mockSeatCounter struct {
	batch        *models.Batch
	incremented  []string
	incrementErr error
}

func (m *mockSeatCounter) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	if m.batch == nil || m.batch.ID != id {
		return nil, sql.ErrNoRows
	}
	b := *m.batch
	return &b, nil
}

func (m *mockSeatCounter) IncrementEnrolled(ctx context.Context, id string) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	m.incremented = append(m.incremented, id)
	m.batch.Enrolled++
	return nil
}

type mockStudentFinder struct {
	student *models.Student
}

func (m *mockStudentFinder) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if m.student == nil || m.student.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.student, nil
}

type mockWorkshopFinder struct {
	workshop *models.WorkshopDetail
}

func (m *mockWorkshopFinder) FindByID(ctx context.Context, id string) (*models.WorkshopDetail, error) {
	if m.workshop == nil || m.workshop.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.workshop, nil
}

type mockPaymentWriter struct {
	created *models.Payment
}

func (m *mockPaymentWriter) Create(ctx context.Context, payment *models.Payment) error {
	m.created = payment
	return nil
}

type mockEmailStore struct {
	template *models.EmailTemplate
	logged   []models.EmailLog
}

func (m *mockEmailStore) FindTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error) {
	if m.template == nil {
		return nil, sql.ErrNoRows
	}
	return m.template, nil
}

func (m *mockEmailStore) LogEmail(ctx context.Context, log *models.EmailLog) error {
	m.logged = append(m.logged, *log)
	return nil
}

type mockSender struct {
	sent []string
	err  error
}

func (m *mockSender) Send(to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func newEnrollmentFixture() (*EnrollmentService, *mockEnrollmentRepo, *mockSeatCounter, *mockPaymentWriter, *mockEmailStore, *mockSender) {
	repo := &mockEnrollmentRepo{existing: map[string]bool{}}
	batches := &mockSeatCounter{batch: &models.Batch{
		ID:         "22222222-2222-4222-8222-222222222222",
		WorkshopID: "33333333-3333-4333-8333-333333333333",
		StartDate:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		Slots:      10,
		Enrolled:   4,
	}}
	students := &mockStudentFinder{student: &models.Student{
		ID:       "11111111-1111-4111-8111-111111111111",
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Active:   true,
	}}
	workshops := &mockWorkshopFinder{workshop: &models.WorkshopDetail{Workshop: models.Workshop{
		ID:    "33333333-3333-4333-8333-333333333333",
		Title: "Vedic Maths",
	}}}
	payments := &mockPaymentWriter{}
	emails := &mockEmailStore{}
	sender := &mockSender{}
	svc := NewEnrollmentService(repo, batches, students, workshops, payments, emails, sender, nil, config.EffectsConfig{Workers: 1, MaxRetries: 1, RetryDelay: time.Millisecond}, nil)
	return svc, repo, batches, payments, emails, sender
}

func validEnrollRequest() EnrollRequest {
	return EnrollRequest{
		StudentID:     "11111111-1111-4111-8111-111111111111",
		BatchID:       "22222222-2222-4222-8222-222222222222",
		WorkshopID:    "33333333-3333-4333-8333-333333333333",
		PaymentStatus: models.PaymentStatusCompleted,
		OrderID:       "wsorder_abc",
		TransactionID: "txn_1",
		AmountCents:   150000,
		Method:        "upi",
	}
}

func TestEnrollmentServiceEnroll(t *testing.T) {
	svc, repo, _, payments, _, _ := newEnrollmentFixture()
	svc.Start(context.Background())
	defer svc.Stop()

	result, err := svc.Enroll(context.Background(), validEnrollRequest())
	require.NoError(t, err)
	assert.True(t, result.EmailQueued)
	require.NotNil(t, repo.created)
	assert.Equal(t, models.PaymentStatusCompleted, repo.created.PaymentStatus)
	require.NotNil(t, payments.created)
	assert.Equal(t, "wsorder_abc", payments.created.OrderID)
	require.NotNil(t, payments.created.EnrollmentID)
	assert.Equal(t, repo.created.ID, *payments.created.EnrollmentID)
}

func TestEnrollmentServiceEnrollAlreadyEnrolled(t *testing.T) {
	svc, repo, _, payments, _, _ := newEnrollmentFixture()
	svc.Start(context.Background())
	defer svc.Stop()
	repo.existing["11111111-1111-4111-8111-111111111111/22222222-2222-4222-8222-222222222222"] = true

	_, err := svc.Enroll(context.Background(), validEnrollRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrAlreadyEnrolled)
	assert.Nil(t, repo.created)
	assert.Nil(t, payments.created)
}

func TestEnrollmentServiceEnrollUniqueViolation(t *testing.T) {
	svc, repo, _, payments, _, _ := newEnrollmentFixture()
	svc.Start(context.Background())
	defer svc.Stop()
	repo.createErr = &pq.Error{Code: "23505", Constraint: "enrollments_student_id_batch_id_key"}

	_, err := svc.Enroll(context.Background(), validEnrollRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrAlreadyEnrolled)
	assert.Nil(t, payments.created)
}

func TestEnrollmentServiceEnrollUnknownStudent(t *testing.T) {
	svc, _, _, _, _, _ := newEnrollmentFixture()
	svc.Start(context.Background())
	defer svc.Stop()

	req := validEnrollRequest()
	req.StudentID = "99999999-9999-4999-8999-999999999999"
	_, err := svc.Enroll(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
}

func TestEnrollmentServiceIncrementEffect(t *testing.T) {
	svc, _, batches, _, _, _ := newEnrollmentFixture()

	err := svc.handleEffect(context.Background(), jobs.Job{Type: jobTypeIncrement, Payload: incrementPayload{BatchID: batches.batch.ID}})
	require.NoError(t, err)
	assert.Equal(t, 5, batches.batch.Enrolled)
}

func TestEnrollmentServiceIncrementEffectFullBatch(t *testing.T) {
	svc, _, batches, _, _, _ := newEnrollmentFixture()
	batches.incrementErr = repository.ErrNoSeats

	// A full batch is permanent; the job must not be retried.
	err := svc.handleEffect(context.Background(), jobs.Job{Type: jobTypeIncrement, Payload: incrementPayload{BatchID: batches.batch.ID}})
	require.NoError(t, err)
}

func TestEnrollmentServiceIncrementEffectTransientError(t *testing.T) {
	svc, _, batches, _, _, _ := newEnrollmentFixture()
	batches.incrementErr = errors.New("connection reset")

	err := svc.handleEffect(context.Background(), jobs.Job{Type: jobTypeIncrement, Payload: incrementPayload{BatchID: batches.batch.ID}})
	require.Error(t, err)
}

func TestEnrollmentServiceConfirmationEffect(t *testing.T) {
	svc, _, _, _, emails, sender := newEnrollmentFixture()

	payload := emailPayload{
		EnrollmentID: "enroll-1",
		Recipient:    "asha@example.com",
		Data:         confirmationData(),
	}
	err := svc.handleEffect(context.Background(), jobs.Job{Type: jobTypeEmail, Payload: payload})
	require.NoError(t, err)
	assert.Equal(t, []string{"asha@example.com"}, sender.sent)
	require.Len(t, emails.logged, 1)
	assert.Equal(t, models.EmailStatusSent, emails.logged[0].Status)
	assert.Equal(t, "builtin", emails.logged[0].Template)
}

func TestEnrollmentServiceConfirmationEffectUsesStoredTemplate(t *testing.T) {
	svc, _, _, _, emails, sender := newEnrollmentFixture()
	emails.template = &models.EmailTemplate{
		Name:     "enrollment_confirmation",
		Subject:  "Welcome {{student_name}}",
		BodyHTML: "<p>See you on {{batch_date}}</p>",
	}

	payload := emailPayload{EnrollmentID: "enroll-1", Recipient: "asha@example.com", Data: confirmationData()}
	err := svc.handleEffect(context.Background(), jobs.Job{Type: jobTypeEmail, Payload: payload})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	require.Len(t, emails.logged, 1)
	assert.Equal(t, "Welcome Asha Rao", emails.logged[0].Subject)
	assert.Equal(t, "enrollment_confirmation", emails.logged[0].Template)
}

func TestEnrollmentServiceConfirmationEffectSendFailure(t *testing.T) {
	svc, _, _, _, emails, sender := newEnrollmentFixture()
	sender.err = errors.New("smtp unreachable")

	payload := emailPayload{EnrollmentID: "enroll-1", Recipient: "asha@example.com", Data: confirmationData()}
	err := svc.handleEffect(context.Background(), jobs.Job{Type: jobTypeEmail, Payload: payload})
	require.Error(t, err)
	require.Len(t, emails.logged, 1)
	assert.Equal(t, models.EmailStatusFailed, emails.logged[0].Status)
	assert.Contains(t, emails.logged[0].Error, "smtp unreachable")
}

func confirmationData() mailer.ConfirmationData {
	return mailer.ConfirmationData{
		StudentName:   "Asha Rao",
		WorkshopTitle: "Vedic Maths",
		BatchDate:     "2026-09-15",
		BatchTime:     "10:00",
		MeetingLink:   "https://meet.example.com/vm",
	}
}
