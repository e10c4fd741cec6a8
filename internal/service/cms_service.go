package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kalasetu/workshop-api/internal/models"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
	"github.com/kalasetu/workshop-api/pkg/export"
)

type cmsRepository interface {
	ListQuotes(ctx context.Context, activeOnly bool) ([]models.Quote, error)
	CreateQuote(ctx context.Context, quote *models.Quote) error
	UpdateQuote(ctx context.Context, quote *models.Quote) error
	DeleteQuote(ctx context.Context, id string) error
	ListTemplates(ctx context.Context) ([]models.EmailTemplate, error)
	FindTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error)
	UpsertTemplate(ctx context.Context, template *models.EmailTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
	ListEmails(ctx context.Context, limit int) ([]models.EmailLog, error)
}

type mentorRepository interface {
	List(ctx context.Context) ([]models.Mentor, error)
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
	Create(ctx context.Context, mentor *models.Mentor) error
	Update(ctx context.Context, mentor *models.Mentor) error
	Delete(ctx context.Context, id string) error
}

type rosterSource interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
}

// QuoteRequest carries admin-editable quote fields.
type QuoteRequest struct {
	Author string `json:"author" validate:"required"`
	Text   string `json:"text" validate:"required,min=3"`
	Active *bool  `json:"active"`
}

// TemplateRequest carries admin-editable email template fields.
type TemplateRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Subject  string `json:"subject" validate:"required"`
	BodyHTML string `json:"body_html" validate:"required"`
}

// MentorRequest carries admin-editable mentor fields.
type MentorRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photo_url"`
}

// RosterExport is a rendered roster document ready for download.
type RosterExport struct {
	Filename    string
	ContentType string
	Content     []byte
}

// CMSService backs the thin admin surface: quotes, email templates,
// mentors, the sent-email log and roster exports.
type CMSService struct {
	repo      cmsRepository
	mentors   mentorRepository
	roster    rosterSource
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCMSService constructs a CMSService.
func NewCMSService(repo cmsRepository, mentors mentorRepository, roster rosterSource, logger *zap.Logger) *CMSService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CMSService{
		repo:      repo,
		mentors:   mentors,
		roster:    roster,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validator.New(),
		logger:    logger,
	}
}

// ListQuotes returns quotes, optionally only active ones.
func (s *CMSService) ListQuotes(ctx context.Context, activeOnly bool) ([]models.Quote, error) {
	quotes, err := s.repo.ListQuotes(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not list quotes")
	}
	return quotes, nil
}

// CreateQuote adds a quote.
func (s *CMSService) CreateQuote(ctx context.Context, req QuoteRequest) (*models.Quote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "author and text are required")
	}
	quote := &models.Quote{Author: req.Author, Text: req.Text, Active: true}
	if req.Active != nil {
		quote.Active = *req.Active
	}
	if err := s.repo.CreateQuote(ctx, quote); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not create quote")
	}
	return quote, nil
}

// UpdateQuote modifies a quote.
func (s *CMSService) UpdateQuote(ctx context.Context, id string, req QuoteRequest) (*models.Quote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "author and text are required")
	}
	quote := &models.Quote{ID: id, Author: req.Author, Text: req.Text, Active: true}
	if req.Active != nil {
		quote.Active = *req.Active
	}
	if err := s.repo.UpdateQuote(ctx, quote); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quote not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not update quote")
	}
	return quote, nil
}

// DeleteQuote removes a quote.
func (s *CMSService) DeleteQuote(ctx context.Context, id string) error {
	if err := s.repo.DeleteQuote(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "quote not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not delete quote")
	}
	return nil
}

// ListTemplates returns all email templates.
func (s *CMSService) ListTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not list templates")
	}
	return templates, nil
}

// SaveTemplate creates or replaces a template by name.
func (s *CMSService) SaveTemplate(ctx context.Context, req TemplateRequest) (*models.EmailTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, subject and body_html are required")
	}
	template := &models.EmailTemplate{
		Name:     strings.ToLower(strings.TrimSpace(req.Name)),
		Subject:  req.Subject,
		BodyHTML: req.BodyHTML,
	}
	if err := s.repo.UpsertTemplate(ctx, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not save template")
	}
	return template, nil
}

// DeleteTemplate removes a template.
func (s *CMSService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not delete template")
	}
	return nil
}

// ListEmails returns the most recent entries of the send log.
func (s *CMSService) ListEmails(ctx context.Context, limit int) ([]models.EmailLog, error) {
	emails, err := s.repo.ListEmails(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not list emails")
	}
	return emails, nil
}

// ListMentors returns all mentors.
func (s *CMSService) ListMentors(ctx context.Context) ([]models.Mentor, error) {
	mentors, err := s.mentors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not list mentors")
	}
	return mentors, nil
}

// CreateMentor adds a mentor.
func (s *CMSService) CreateMentor(ctx context.Context, req MentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "full_name is required")
	}
	mentor := &models.Mentor{FullName: req.FullName, Bio: req.Bio, PhotoURL: req.PhotoURL}
	if err := s.mentors.Create(ctx, mentor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not create mentor")
	}
	return mentor, nil
}

// UpdateMentor modifies a mentor.
func (s *CMSService) UpdateMentor(ctx context.Context, id string, req MentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "full_name is required")
	}
	mentor, err := s.mentors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not fetch mentor")
	}
	mentor.FullName = req.FullName
	mentor.Bio = req.Bio
	mentor.PhotoURL = req.PhotoURL
	if err := s.mentors.Update(ctx, mentor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not update mentor")
	}
	return mentor, nil
}

// DeleteMentor removes a mentor.
func (s *CMSService) DeleteMentor(ctx context.Context, id string) error {
	if err := s.mentors.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not delete mentor")
	}
	return nil
}

// ExportRoster renders a batch roster as CSV or PDF.
func (s *CMSService) ExportRoster(ctx context.Context, batchID, format string) (*RosterExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	enrollments, _, err := s.roster.List(ctx, models.EnrollmentFilter{BatchID: batchID, PageSize: 100, SortBy: "created_at", SortOrder: "ASC"})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not load roster")
	}

	dataset := export.Dataset{
		Headers: []string{"Student", "Email", "Workshop", "Batch Date", "Batch Time", "Payment Status", "Enrolled On"},
	}
	for _, e := range enrollments {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student":        e.StudentName,
			"Email":          e.StudentEmail,
			"Workshop":       e.WorkshopTitle,
			"Batch Date":     e.BatchDate.Format("2006-01-02"),
			"Batch Time":     e.BatchTime,
			"Payment Status": e.PaymentStatus,
			"Enrolled On":    e.EnrolledOn.Format("2006-01-02"),
		})
	}

	var (
		content     []byte
		contentType string
	)
	switch format {
	case "csv":
		content, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case "pdf":
		content, err = s.pdf.Render(dataset, "Batch Roster")
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not render roster")
	}

	return &RosterExport{
		Filename:    fmt.Sprintf("roster_%s.%s", batchID, format),
		ContentType: contentType,
		Content:     content,
	}, nil
}
