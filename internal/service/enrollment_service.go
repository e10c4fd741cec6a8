package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kalasetu/workshop-api/internal/mailer"
	"github.com/kalasetu/workshop-api/internal/models"
	"github.com/kalasetu/workshop-api/internal/repository"
	"github.com/kalasetu/workshop-api/pkg/config"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
	"github.com/kalasetu/workshop-api/pkg/jobs"
)

// Side-effect job types handled by the enrollment queue.
const (
	jobTypeIncrement = "batch.increment"
	jobTypeEmail     = "email.confirmation"
)

// confirmationTemplateName is the CMS template used for enrollment emails
// when present; otherwise the built-in layout is used.
const confirmationTemplateName = "enrollment_confirmation"

type enrollmentRepo interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	Exists(ctx context.Context, studentID, batchID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
}

type seatCounter interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	IncrementEnrolled(ctx context.Context, id string) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type workshopFinder interface {
	FindByID(ctx context.Context, id string) (*models.WorkshopDetail, error)
}

type paymentWriter interface {
	Create(ctx context.Context, payment *models.Payment) error
}

type emailStore interface {
	FindTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error)
	LogEmail(ctx context.Context, log *models.EmailLog) error
}

// EnrollRequest records a paid seat for a student in a batch.
type EnrollRequest struct {
	StudentID     string `json:"studentId" validate:"required,uuid4"`
	BatchID       string `json:"batchId" validate:"required,uuid4"`
	WorkshopID    string `json:"workshopId"`
	PaymentStatus string `json:"paymentStatus" validate:"required"`
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
	AmountCents   int64  `json:"amount"`
	Method        string `json:"method"`
}

// EnrollResult is returned once the enrollment row is committed. EmailQueued
// means the confirmation was handed to the side-effect queue, not delivered.
type EnrollResult struct {
	Enrollment  models.Enrollment `json:"enrollment"`
	EmailQueued bool              `json:"email_queued"`
}

type incrementPayload struct {
	BatchID string
}

type emailPayload struct {
	EnrollmentID string
	Recipient    string
	Data         mailer.ConfirmationData
}

// EnrollmentService records enrollments and drives their side effects
// (seat counter, confirmation email) through a retrying job queue so the
// enrollment response never depends on them.
type EnrollmentService struct {
	repo      enrollmentRepo
	batches   seatCounter
	students  studentFinder
	workshops workshopFinder
	payments  paymentWriter
	emails    emailStore
	sender    mailer.Sender
	metrics   *MetricsService
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs the service and its side-effect queue.
// Call Start before enrolling and Stop on shutdown.
func NewEnrollmentService(
	repo enrollmentRepo,
	batches seatCounter,
	students studentFinder,
	workshops workshopFinder,
	payments paymentWriter,
	emails emailStore,
	sender mailer.Sender,
	metrics *MetricsService,
	effects config.EffectsConfig,
	logger *zap.Logger,
) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EnrollmentService{
		repo:      repo,
		batches:   batches,
		students:  students,
		workshops: workshops,
		payments:  payments,
		emails:    emails,
		sender:    sender,
		metrics:   metrics,
		validator: validator.New(),
		logger:    logger,
	}
	s.queue = jobs.NewQueue("enrollment-effects", s.handleEffect, jobs.QueueConfig{
		Workers:    effects.Workers,
		BufferSize: effects.BufferSize,
		MaxRetries: effects.MaxRetries,
		RetryDelay: effects.RetryDelay,
		Logger:     logger,
		DeadLetter: func(job jobs.Job, err error) {
			metrics.RecordEffect(job.Type, "dead_letter")
			logger.Error("enrollment side effect abandoned",
				zap.String("job_id", job.ID),
				zap.String("type", job.Type),
				zap.Error(err))
		},
	})
	return s
}

// Start launches the side-effect workers.
func (s *EnrollmentService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the side-effect workers.
func (s *EnrollmentService) Stop() {
	s.queue.Stop()
}

// Enroll writes the enrollment row and queues the seat increment and the
// confirmation email. Uniqueness is guaranteed by the (student, batch)
// unique index; the pre-insert check is only a fast path.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*EnrollResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "studentId, batchId and paymentStatus are required")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "student lookup failed")
	}
	batch, err := s.batches.FindByID(ctx, req.BatchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "batch lookup failed")
	}

	exists, err := s.repo.Exists(ctx, req.StudentID, req.BatchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "enrollment lookup failed")
	}
	if exists {
		return nil, appErrors.ErrAlreadyEnrolled
	}

	enrollment := &models.Enrollment{
		StudentID:     req.StudentID,
		BatchID:       req.BatchID,
		EnrolledOn:    time.Now().UTC(),
		PaymentStatus: req.PaymentStatus,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrAlreadyEnrolled
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not record enrollment")
	}

	if req.OrderID != "" {
		payment := &models.Payment{
			OrderID:       req.OrderID,
			EnrollmentID:  &enrollment.ID,
			AmountCents:   req.AmountCents,
			Method:        req.Method,
			Status:        req.PaymentStatus,
			TransactionID: req.TransactionID,
		}
		if err := s.payments.Create(ctx, payment); err != nil {
			s.logger.Error("could not record payment for enrollment",
				zap.String("enrollment_id", enrollment.ID),
				zap.String("order_id", req.OrderID),
				zap.Error(err))
		}
	}

	s.enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobTypeIncrement,
		Payload: incrementPayload{BatchID: req.BatchID},
	})

	emailQueued := s.enqueue(jobs.Job{
		ID:   uuid.NewString(),
		Type: jobTypeEmail,
		Payload: emailPayload{
			EnrollmentID: enrollment.ID,
			Recipient:    student.Email,
			Data: mailer.ConfirmationData{
				StudentName:     student.FullName,
				WorkshopTitle:   s.workshopTitle(ctx, req.WorkshopID, batch.WorkshopID),
				BatchDate:       batch.StartDate.Format("2006-01-02"),
				BatchTime:       batch.StartTime,
				MeetingLink:     batch.MeetingLink,
				MeetingID:       batch.MeetingID,
				MeetingPassword: batch.MeetingPassword,
			},
		},
	})

	s.logger.Info("enrollment recorded",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("student_id", req.StudentID),
		zap.String("batch_id", req.BatchID))

	return &EnrollResult{Enrollment: *enrollment, EmailQueued: emailQueued}, nil
}

// List returns enrollments for the admin surface.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not list enrollments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return enrollments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one enrollment with student and batch context.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not fetch enrollment")
	}
	return detail, nil
}

func (s *EnrollmentService) workshopTitle(ctx context.Context, requestedID, batchWorkshopID string) string {
	id := requestedID
	if id == "" {
		id = batchWorkshopID
	}
	workshop, err := s.workshops.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("could not resolve workshop for confirmation email", zap.String("workshop_id", id), zap.Error(err))
		return "your workshop"
	}
	return workshop.Title
}

func (s *EnrollmentService) enqueue(job jobs.Job) bool {
	if err := s.queue.Enqueue(job); err != nil {
		s.metrics.RecordEffect(job.Type, "enqueue_failed")
		s.logger.Error("could not enqueue side effect", zap.String("type", job.Type), zap.Error(err))
		return false
	}
	return true
}

func (s *EnrollmentService) handleEffect(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case jobTypeIncrement:
		payload, ok := job.Payload.(incrementPayload)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", job.Type)
		}
		return s.incrementSeat(ctx, payload)
	case jobTypeEmail:
		payload, ok := job.Payload.(emailPayload)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", job.Type)
		}
		return s.sendConfirmation(ctx, payload)
	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}

func (s *EnrollmentService) incrementSeat(ctx context.Context, payload incrementPayload) error {
	err := s.batches.IncrementEnrolled(ctx, payload.BatchID)
	if err == nil {
		s.metrics.RecordEffect(jobTypeIncrement, "ok")
		return nil
	}
	if errors.Is(err, repository.ErrNoSeats) {
		// Permanent: the counter hit the slots guard. Retrying cannot help.
		s.metrics.RecordEffect(jobTypeIncrement, "no_seats")
		s.logger.Error("seat counter at capacity, enrollment exceeds slots",
			zap.String("batch_id", payload.BatchID))
		return nil
	}
	s.metrics.RecordEffect(jobTypeIncrement, "error")
	return err
}

func (s *EnrollmentService) sendConfirmation(ctx context.Context, payload emailPayload) error {
	subject := mailer.ConfirmationSubject(payload.Data.WorkshopTitle)
	body := mailer.ConfirmationBody(payload.Data)
	templateName := "builtin"

	template, err := s.emails.FindTemplateByName(ctx, confirmationTemplateName)
	if err == nil {
		subject = mailer.RenderTemplate(template.Subject, payload.Data)
		body = mailer.RenderTemplate(template.BodyHTML, payload.Data)
		templateName = template.Name
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("could not load confirmation template, using builtin", zap.Error(err))
	}

	sendErr := s.sender.Send(payload.Recipient, subject, body)

	log := &models.EmailLog{
		Recipient: payload.Recipient,
		Subject:   subject,
		Template:  templateName,
		Status:    models.EmailStatusSent,
	}
	if sendErr != nil {
		log.Status = models.EmailStatusFailed
		log.Error = sendErr.Error()
	}
	if err := s.emails.LogEmail(ctx, log); err != nil {
		s.logger.Warn("could not record email log", zap.Error(err))
	}

	if sendErr != nil {
		s.metrics.RecordEffect(jobTypeEmail, "error")
		return fmt.Errorf("send confirmation for enrollment %s: %w", payload.EnrollmentID, sendErr)
	}
	s.metrics.RecordEffect(jobTypeEmail, "ok")
	return nil
}
