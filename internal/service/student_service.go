package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kalasetu/workshop-api/internal/models"
	"github.com/kalasetu/workshop-api/internal/repository"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	FindByPhone(ctx context.Context, phone string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

type enrollmentChecker interface {
	Exists(ctx context.Context, studentID, batchID string) (bool, error)
}

// VerifyContactRequest looks up a returning student by email or phone.
type VerifyContactRequest struct {
	Type       models.ContactType `json:"type" validate:"required,oneof=email phone"`
	Value      string             `json:"value" validate:"required"`
	WorkshopID string             `json:"workshopId"`
	BatchID    string             `json:"batchId"`
}

// VerifyContactResult reports the lookup outcome. A missing student is a
// normal outcome, not an error.
type VerifyContactResult struct {
	Found           bool            `json:"found"`
	Student         *models.Student `json:"student,omitempty"`
	AlreadyEnrolled bool            `json:"already_enrolled"`
}

// RegisterStudentRequest carries new-student registration fields.
type RegisterStudentRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
}

// UpdateStudentRequest carries admin-editable student fields.
type UpdateStudentRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
	Active   *bool  `json:"active"`
}

// StudentService owns the student directory.
type StudentService struct {
	repo        studentRepository
	enrollments enrollmentChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, enrollments enrollmentChecker, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:        repo,
		enrollments: enrollments,
		validator:   validator.New(),
		logger:      logger,
	}
}

// VerifyContact checks whether a student already exists for the given
// contact, and optionally whether they already hold a seat in a batch.
func (s *StudentService) VerifyContact(ctx context.Context, req VerifyContactRequest) (*VerifyContactResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "type must be email or phone and value is required")
	}

	var (
		student *models.Student
		err     error
	)
	switch req.Type {
	case models.ContactTypeEmail:
		student, err = s.repo.FindByEmail(ctx, req.Value)
	case models.ContactTypePhone:
		student, err = s.repo.FindByPhone(ctx, req.Value)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &VerifyContactResult{Found: false}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "student lookup failed")
	}

	result := &VerifyContactResult{Found: true, Student: student}
	if req.BatchID != "" {
		enrolled, err := s.enrollments.Exists(ctx, student.ID, req.BatchID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "enrollment lookup failed")
		}
		result.AlreadyEnrolled = enrolled
	}
	return result, nil
}

// Register creates a new student. Email uniqueness is enforced by the
// database; a duplicate maps to a conflict.
func (s *StudentService) Register(ctx context.Context, req RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student details")
	}

	student := &models.Student{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Pincode:  req.Pincode,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this email is already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not register student")
	}
	s.logger.Info("student registered", zap.String("student_id", student.ID))
	return student, nil
}

// List returns students for the admin directory.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not fetch student")
	}
	return student, nil
}

// Update modifies a student's profile from the admin CMS.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student details")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	student.FullName = req.FullName
	student.Email = req.Email
	student.Phone = req.Phone
	student.Address = req.Address
	student.Pincode = req.Pincode
	if req.Active != nil {
		student.Active = *req.Active
	}

	if err := s.repo.Update(ctx, student); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this email is already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not update student")
	}
	return student, nil
}

// Deactivate soft-disables a student account.
func (s *StudentService) Deactivate(ctx context.Context, id string) error {
	student, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	student.Active = false
	if err := s.repo.Update(ctx, student); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not deactivate student")
	}
	return nil
}
