package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kalasetu/workshop-api/internal/models"
)

// CMSRepository persists quotes, email templates and the email send log.
type CMSRepository struct {
	db *sqlx.DB
}

// NewCMSRepository constructs the repository.
func NewCMSRepository(db *sqlx.DB) *CMSRepository {
	return &CMSRepository{db: db}
}

// ListQuotes returns quotes, optionally only active ones.
func (r *CMSRepository) ListQuotes(ctx context.Context, activeOnly bool) ([]models.Quote, error) {
	query := "SELECT id, author, text, active, created_at FROM quotes"
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY created_at DESC"
	var quotes []models.Quote
	if err := r.db.SelectContext(ctx, &quotes, query); err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// CreateQuote persists a quote.
func (r *CMSRepository) CreateQuote(ctx context.Context, quote *models.Quote) error {
	if quote.ID == "" {
		quote.ID = uuid.NewString()
	}
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO quotes (id, author, text, active, created_at)
        VALUES (:id, :author, :text, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, quote); err != nil {
		return fmt.Errorf("create quote: %w", err)
	}
	return nil
}

// UpdateQuote modifies a quote.
func (r *CMSRepository) UpdateQuote(ctx context.Context, quote *models.Quote) error {
	const query = `UPDATE quotes SET author = :author, text = :text, active = :active WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, quote)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteQuote removes a quote.
func (r *CMSRepository) DeleteQuote(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM quotes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListTemplates returns all email templates.
func (r *CMSRepository) ListTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	var templates []models.EmailTemplate
	if err := r.db.SelectContext(ctx, &templates, "SELECT id, name, subject, body_html, updated_at FROM email_templates ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// FindTemplateByName returns the template with the given name.
func (r *CMSRepository) FindTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error) {
	var template models.EmailTemplate
	if err := r.db.GetContext(ctx, &template, "SELECT id, name, subject, body_html, updated_at FROM email_templates WHERE name = $1", name); err != nil {
		return nil, err
	}
	return &template, nil
}

// UpsertTemplate creates or replaces a template by name.
func (r *CMSRepository) UpsertTemplate(ctx context.Context, template *models.EmailTemplate) error {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	template.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO email_templates (id, name, subject, body_html, updated_at)
        VALUES (:id, :name, :subject, :body_html, :updated_at)
        ON CONFLICT (name) DO UPDATE SET subject = EXCLUDED.subject, body_html = EXCLUDED.body_html, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, template); err != nil {
		return fmt.Errorf("upsert template: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template by ID.
func (r *CMSRepository) DeleteTemplate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM email_templates WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// LogEmail records a delivery attempt.
func (r *CMSRepository) LogEmail(ctx context.Context, log *models.EmailLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.SentAt.IsZero() {
		log.SentAt = time.Now().UTC()
	}
	const query = `INSERT INTO emails (id, recipient, subject, template, status, error, sent_at)
        VALUES (:id, :recipient, :subject, :template, :status, :error, :sent_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("log email: %w", err)
	}
	return nil
}

// ListEmails returns the send log, newest first, capped to limit.
func (r *CMSRepository) ListEmails(ctx context.Context, limit int) ([]models.EmailLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := fmt.Sprintf("SELECT id, recipient, subject, template, status, error, sent_at FROM emails ORDER BY sent_at DESC LIMIT %d", limit)
	var logs []models.EmailLog
	if err := r.db.SelectContext(ctx, &logs, query); err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	return logs, nil
}
