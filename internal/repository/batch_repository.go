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

// ErrNoSeats is returned when a guarded increment finds the batch full.
var ErrNoSeats = fmt.Errorf("no seats remaining")

// BatchRepository handles persistence of workshop batches.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs the repository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

const batchColumns = "id, workshop_id, start_date, start_time, slots, enrolled, meeting_link, meeting_id, meeting_password, created_at"

// ListByWorkshop returns all batches for a workshop ordered by start.
func (r *BatchRepository) ListByWorkshop(ctx context.Context, workshopID string) ([]models.Batch, error) {
	query := fmt.Sprintf("SELECT %s FROM batches WHERE workshop_id = $1 ORDER BY start_date, start_time", batchColumns)
	var batches []models.Batch
	if err := r.db.SelectContext(ctx, &batches, query, workshopID); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// FindByID returns a batch by its ID.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	query := fmt.Sprintf("SELECT %s FROM batches WHERE id = $1", batchColumns)
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Create persists a new batch.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO batches (id, workshop_id, start_date, start_time, slots, enrolled, meeting_link, meeting_id, meeting_password, created_at)
        VALUES (:id, :workshop_id, :start_date, :start_time, :slots, :enrolled, :meeting_link, :meeting_id, :meeting_password, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, batch); err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// Update modifies batch fields. The enrolled counter is managed separately
// through IncrementEnrolled.
func (r *BatchRepository) Update(ctx context.Context, batch *models.Batch) error {
	const query = `UPDATE batches SET start_date = :start_date, start_time = :start_time, slots = :slots,
        meeting_link = :meeting_link, meeting_id = :meeting_id, meeting_password = :meeting_password
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, batch)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a batch.
func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM batches WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementEnrolled bumps the seat counter, guarded so enrolled never
// exceeds slots. Returns ErrNoSeats when the batch is already full.
func (r *BatchRepository) IncrementEnrolled(ctx context.Context, id string) error {
	const query = `UPDATE batches SET enrolled = enrolled + 1 WHERE id = $1 AND enrolled < slots`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment enrolled: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment enrolled result: %w", err)
	}
	if affected == 0 {
		return ErrNoSeats
	}
	return nil
}
