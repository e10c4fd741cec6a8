package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalasetu/workshop-api/internal/models"
)

func newBatchMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestBatchRepositoryIncrementEnrolled(t *testing.T) {
	db, mock, cleanup := newBatchMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE batches SET enrolled = enrolled + 1 WHERE id = $1 AND enrolled < slots")).
		WithArgs("batch-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementEnrolled(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryIncrementEnrolledFull(t *testing.T) {
	db, mock, cleanup := newBatchMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE batches SET enrolled = enrolled + 1 WHERE id = $1 AND enrolled < slots")).
		WithArgs("batch-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementEnrolled(context.Background(), "batch-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSeats))
}

func TestBatchRepositoryListByWorkshop(t *testing.T) {
	db, mock, cleanup := newBatchMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	rows := sqlmock.NewRows([]string{"id", "workshop_id", "start_date", "start_time", "slots", "enrolled", "meeting_link", "meeting_id", "meeting_password", "created_at"}).
		AddRow("b1", "w1", time.Now(), "10:00", 10, 4, "", "", "", time.Now()).
		AddRow("b2", "w1", time.Now(), "14:00", 10, 10, "", "", "", time.Now())
	mock.ExpectQuery("SELECT id, workshop_id, start_date").
		WithArgs("w1").
		WillReturnRows(rows)

	batches, err := repo.ListByWorkshop(context.Background(), "w1")
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, 6, batches[0].Available())
	assert.Equal(t, 0, batches[1].Available())
}

func TestBatchRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newBatchMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec("INSERT INTO batches").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	batch := &models.Batch{WorkshopID: "w1", StartDate: time.Now(), StartTime: "10:00", Slots: 10}
	err := repo.Create(context.Background(), batch)
	require.NoError(t, err)
	assert.NotEmpty(t, batch.ID)
}
