package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalasetu/workshop-api/internal/models"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
)

type mockWorkshopRepo struct {
	workshops map[string]models.WorkshopDetail
}

func (m *mockWorkshopRepo) ListActive(ctx context.Context) ([]models.WorkshopDetail, error) {
	var out []models.WorkshopDetail
	for _, w := range m.workshops {
		if w.Active {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *mockWorkshopRepo) List(ctx context.Context) ([]models.WorkshopDetail, error) {
	var out []models.WorkshopDetail
	for _, w := range m.workshops {
		out = append(out, w)
	}
	return out, nil
}

func (m *mockWorkshopRepo) FindByID(ctx context.Context, id string) (*models.WorkshopDetail, error) {
	if w, ok := m.workshops[id]; ok {
		return &w, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockWorkshopRepo) Create(ctx context.Context, workshop *models.Workshop) error {
	if workshop.ID == "" {
		workshop.ID = "w-new"
	}
	m.workshops[workshop.ID] = models.WorkshopDetail{Workshop: *workshop}
	return nil
}

func (m *mockWorkshopRepo) Update(ctx context.Context, workshop *models.Workshop) error {
	m.workshops[workshop.ID] = models.WorkshopDetail{Workshop: *workshop}
	return nil
}

func (m *mockWorkshopRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.workshops[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.workshops, id)
	return nil
}

type mockBatchRepo struct {
	batches []models.Batch
}

func (m *mockBatchRepo) ListByWorkshop(ctx context.Context, workshopID string) ([]models.Batch, error) {
	var out []models.Batch
	for _, b := range m.batches {
		if b.WorkshopID == workshopID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBatchRepo) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	for _, b := range m.batches {
		if b.ID == id {
			batch := b
			return &batch, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockBatchRepo) Create(ctx context.Context, batch *models.Batch) error {
	if batch.ID == "" {
		batch.ID = "b-new"
	}
	m.batches = append(m.batches, *batch)
	return nil
}

func (m *mockBatchRepo) Update(ctx context.Context, batch *models.Batch) error {
	for i, b := range m.batches {
		if b.ID == batch.ID {
			m.batches[i] = *batch
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockBatchRepo) Delete(ctx context.Context, id string) error {
	for i, b := range m.batches {
		if b.ID == id {
			m.batches = append(m.batches[:i], m.batches[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newCatalogFixture() (*CatalogService, *mockWorkshopRepo, *mockBatchRepo) {
	workshops := &mockWorkshopRepo{workshops: map[string]models.WorkshopDetail{
		testWorkshopID: {Workshop: models.Workshop{ID: testWorkshopID, Title: "Vedic Maths", FeeCents: 150000, Active: true}},
	}}
	day1 := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
	batches := &mockBatchRepo{batches: []models.Batch{
		{ID: "b1", WorkshopID: testWorkshopID, StartDate: day1, StartTime: "14:00", Slots: 10, Enrolled: 4},
		{ID: "b2", WorkshopID: testWorkshopID, StartDate: day1, StartTime: "10:00", Slots: 10, Enrolled: 9},
		{ID: "b3", WorkshopID: testWorkshopID, StartDate: day2, StartTime: "10:00", Slots: 10, Enrolled: 10},
		{ID: "b4", WorkshopID: testWorkshopID, StartDate: day2, StartTime: "16:00", Slots: 5, Enrolled: 0},
		{ID: "b5", WorkshopID: testWorkshopID, StartTime: "18:00", Slots: 5, Enrolled: 0},
	}}
	svc := NewCatalogService(workshops, batches, nil, nil, time.Minute, nil)
	return svc, workshops, batches
}

func TestCatalogServiceAvailableBatches(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	days, err := svc.AvailableBatches(context.Background(), testWorkshopID)
	require.NoError(t, err)

	// b3 is full, b5 has no start date; both must be excluded.
	require.Len(t, days, 2)
	assert.Equal(t, "2026-09-15", days[0].Date)
	require.Len(t, days[0].Batches, 2)
	assert.Equal(t, "b2", days[0].Batches[0].ID)
	assert.Equal(t, 1, days[0].Batches[0].Available)
	assert.Equal(t, "b1", days[0].Batches[1].ID)
	assert.Equal(t, 6, days[0].Batches[1].Available)

	assert.Equal(t, "2026-09-16", days[1].Date)
	require.Len(t, days[1].Batches, 1)
	assert.Equal(t, "b4", days[1].Batches[0].ID)
	assert.Equal(t, 5, days[1].Batches[0].Available)
}

func TestCatalogServiceGetWorkshopNotFound(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	_, err := svc.GetWorkshop(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
}

func TestCatalogServiceUpdateBatchSlotsBelowEnrolled(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	_, err := svc.UpdateBatch(context.Background(), "b1", BatchRequest{
		WorkshopID: testWorkshopID,
		StartDate:  "2026-09-15",
		StartTime:  "14:00",
		Slots:      3,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCatalogServiceCreateBatchUnknownWorkshop(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	_, err := svc.CreateBatch(context.Background(), BatchRequest{
		WorkshopID: "99999999-9999-4999-8999-999999999999",
		StartDate:  "2026-09-15",
		StartTime:  "10:00",
		Slots:      10,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
}

func TestCatalogServiceListWorkshops(t *testing.T) {
	svc, workshops, _ := newCatalogFixture()
	workshops.workshops["w-inactive"] = models.WorkshopDetail{Workshop: models.Workshop{ID: "w-inactive", Title: "Archived", Active: false}}

	list, err := svc.ListWorkshops(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Vedic Maths", list[0].Title)
}
