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

// MentorRepository manages mentor records.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository constructs the repository.
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

// List returns all mentors.
func (r *MentorRepository) List(ctx context.Context) ([]models.Mentor, error) {
	var mentors []models.Mentor
	if err := r.db.SelectContext(ctx, &mentors, "SELECT id, full_name, bio, photo_url, created_at FROM mentors ORDER BY full_name"); err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	return mentors, nil
}

// FindByID returns a mentor by ID.
func (r *MentorRepository) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, "SELECT id, full_name, bio, photo_url, created_at FROM mentors WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// Create persists a mentor.
func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	if mentor.CreatedAt.IsZero() {
		mentor.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO mentors (id, full_name, bio, photo_url, created_at)
        VALUES (:id, :full_name, :bio, :photo_url, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mentor); err != nil {
		return fmt.Errorf("create mentor: %w", err)
	}
	return nil
}

// Update modifies mentor fields.
func (r *MentorRepository) Update(ctx context.Context, mentor *models.Mentor) error {
	const query = `UPDATE mentors SET full_name = :full_name, bio = :bio, photo_url = :photo_url WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, mentor)
	if err != nil {
		return fmt.Errorf("update mentor: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a mentor.
func (r *MentorRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM mentors WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete mentor: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
