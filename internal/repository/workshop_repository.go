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

// WorkshopRepository handles persistence of workshops and mentors.
type WorkshopRepository struct {
	db *sqlx.DB
}

// NewWorkshopRepository constructs the repository.
func NewWorkshopRepository(db *sqlx.DB) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

// ListActive returns active workshops with mentor names, oldest first.
func (r *WorkshopRepository) ListActive(ctx context.Context) ([]models.WorkshopDetail, error) {
	const query = `SELECT w.id, w.title, w.description, w.fee_cents, w.capacity, w.duration, w.mentor_id,
        w.active, w.created_at, w.updated_at, m.full_name AS mentor_name
        FROM workshops w
        LEFT JOIN mentors m ON m.id = w.mentor_id
        WHERE w.active = TRUE
        ORDER BY w.created_at`
	var workshops []models.WorkshopDetail
	if err := r.db.SelectContext(ctx, &workshops, query); err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	return workshops, nil
}

// List returns every workshop regardless of active state (admin view).
func (r *WorkshopRepository) List(ctx context.Context) ([]models.WorkshopDetail, error) {
	const query = `SELECT w.id, w.title, w.description, w.fee_cents, w.capacity, w.duration, w.mentor_id,
        w.active, w.created_at, w.updated_at, m.full_name AS mentor_name
        FROM workshops w
        LEFT JOIN mentors m ON m.id = w.mentor_id
        ORDER BY w.created_at`
	var workshops []models.WorkshopDetail
	if err := r.db.SelectContext(ctx, &workshops, query); err != nil {
		return nil, fmt.Errorf("list all workshops: %w", err)
	}
	return workshops, nil
}

// FindByID returns a single workshop with mentor context.
func (r *WorkshopRepository) FindByID(ctx context.Context, id string) (*models.WorkshopDetail, error) {
	const query = `SELECT w.id, w.title, w.description, w.fee_cents, w.capacity, w.duration, w.mentor_id,
        w.active, w.created_at, w.updated_at, m.full_name AS mentor_name
        FROM workshops w
        LEFT JOIN mentors m ON m.id = w.mentor_id
        WHERE w.id = $1`
	var workshop models.WorkshopDetail
	if err := r.db.GetContext(ctx, &workshop, query, id); err != nil {
		return nil, err
	}
	return &workshop, nil
}

// Create persists a new workshop.
func (r *WorkshopRepository) Create(ctx context.Context, workshop *models.Workshop) error {
	if workshop.ID == "" {
		workshop.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	workshop.CreatedAt = now
	workshop.UpdatedAt = now
	workshop.Active = true

	const query = `INSERT INTO workshops (id, title, description, fee_cents, capacity, duration, mentor_id, active, created_at, updated_at)
        VALUES (:id, :title, :description, :fee_cents, :capacity, :duration, :mentor_id, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, workshop); err != nil {
		return fmt.Errorf("create workshop: %w", err)
	}
	return nil
}

// Update modifies workshop fields.
func (r *WorkshopRepository) Update(ctx context.Context, workshop *models.Workshop) error {
	workshop.UpdatedAt = time.Now().UTC()
	const query = `UPDATE workshops SET title = :title, description = :description, fee_cents = :fee_cents,
        capacity = :capacity, duration = :duration, mentor_id = :mentor_id, active = :active, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, workshop)
	if err != nil {
		return fmt.Errorf("update workshop: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a workshop and, via cascade, its batches.
func (r *WorkshopRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM workshops WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete workshop: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
