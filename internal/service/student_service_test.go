package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalasetu/workshop-api/internal/models"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
)

type mockStudentRepo struct {
	byEmail   map[string]models.Student
	byPhone   map[string]models.Student
	createErr error
	created   *models.Student
	updated   *models.Student
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return nil, 0, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	for _, s := range m.byEmail {
		if s.ID == id {
			student := s
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	if s, ok := m.byEmail[email]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByPhone(ctx context.Context, phone string) (*models.Student, error) {
	if s, ok := m.byPhone[phone]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	if student.ID == "" {
		student.ID = "s-new"
	}
	m.created = student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.updated = student
	return nil
}

type mockEnrollmentChecker struct {
	enrolled map[string]bool
}

func (m *mockEnrollmentChecker) Exists(ctx context.Context, studentID, batchID string) (bool, error) {
	return m.enrolled[studentID+"/"+batchID], nil
}

func newStudentFixture() (*StudentService, *mockStudentRepo, *mockEnrollmentChecker) {
	repo := &mockStudentRepo{
		byEmail: map[string]models.Student{
			"asha@example.com": {ID: testStudentID, FullName: "Asha Rao", Email: "asha@example.com", Phone: "9876543210", Active: true},
		},
		byPhone: map[string]models.Student{
			"9876543210": {ID: testStudentID, FullName: "Asha Rao", Email: "asha@example.com", Phone: "9876543210", Active: true},
		},
	}
	checker := &mockEnrollmentChecker{enrolled: map[string]bool{}}
	return NewStudentService(repo, checker, nil), repo, checker
}

func TestStudentServiceVerifyContactByEmail(t *testing.T) {
	svc, _, _ := newStudentFixture()

	result, err := svc.VerifyContact(context.Background(), VerifyContactRequest{Type: models.ContactTypeEmail, Value: "asha@example.com"})
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, testStudentID, result.Student.ID)
	assert.False(t, result.AlreadyEnrolled)
}

func TestStudentServiceVerifyContactNotFound(t *testing.T) {
	svc, _, _ := newStudentFixture()

	result, err := svc.VerifyContact(context.Background(), VerifyContactRequest{Type: models.ContactTypeEmail, Value: "nobody@example.com"})
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Nil(t, result.Student)
}

func TestStudentServiceVerifyContactAlreadyEnrolled(t *testing.T) {
	svc, _, checker := newStudentFixture()
	checker.enrolled[testStudentID+"/"+testBatchID] = true

	result, err := svc.VerifyContact(context.Background(), VerifyContactRequest{
		Type:    models.ContactTypePhone,
		Value:   "9876543210",
		BatchID: testBatchID,
	})
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.True(t, result.AlreadyEnrolled)
}

func TestStudentServiceVerifyContactInvalidType(t *testing.T) {
	svc, _, _ := newStudentFixture()

	_, err := svc.VerifyContact(context.Background(), VerifyContactRequest{Type: "carrier-pigeon", Value: "x"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStudentServiceRegister(t *testing.T) {
	svc, repo, _ := newStudentFixture()

	student, err := svc.Register(context.Background(), RegisterStudentRequest{
		FullName: "Ravi Kumar",
		Email:    "ravi@example.com",
		Phone:    "9876500000",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, repo.created, student)
}

func TestStudentServiceRegisterDuplicateEmail(t *testing.T) {
	svc, repo, _ := newStudentFixture()
	repo.createErr = &pq.Error{Code: "23505", Constraint: "students_email_lower_idx"}

	_, err := svc.Register(context.Background(), RegisterStudentRequest{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "9876543210",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}
