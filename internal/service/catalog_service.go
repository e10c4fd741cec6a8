package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kalasetu/workshop-api/internal/models"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
)

const (
	cacheKeyWorkshops      = "catalog:workshops"
	cacheKeyWorkshopPrefix = "catalog:workshop:"
	cacheKeyCatalogPattern = "catalog:*"
)

type workshopRepository interface {
	ListActive(ctx context.Context) ([]models.WorkshopDetail, error)
	List(ctx context.Context) ([]models.WorkshopDetail, error)
	FindByID(ctx context.Context, id string) (*models.WorkshopDetail, error)
	Create(ctx context.Context, workshop *models.Workshop) error
	Update(ctx context.Context, workshop *models.Workshop) error
	Delete(ctx context.Context, id string) error
}

type batchRepository interface {
	ListByWorkshop(ctx context.Context, workshopID string) ([]models.Batch, error)
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id string) error
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// WorkshopRequest carries admin-editable workshop fields.
type WorkshopRequest struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Description string  `json:"description"`
	FeeCents    int64   `json:"fee_cents" validate:"gte=0"`
	Capacity    int     `json:"capacity" validate:"gte=0"`
	Duration    string  `json:"duration"`
	MentorID    *string `json:"mentor_id"`
	Active      *bool   `json:"active"`
}

// BatchRequest carries admin-editable batch fields.
type BatchRequest struct {
	WorkshopID      string `json:"workshop_id" validate:"required,uuid4"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" validate:"required"`
	Slots           int    `json:"slots" validate:"required,gt=0"`
	MeetingLink     string `json:"meeting_link"`
	MeetingID       string `json:"meeting_id"`
	MeetingPassword string `json:"meeting_password"`
}

// CatalogService serves the workshop catalog and the batch selector.
// Reads are cache-backed; admin writes invalidate the whole catalog.
type CatalogService struct {
	workshops workshopRepository
	batches   batchRepository
	cache     catalogCache
	metrics   *MetricsService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService. cache and metrics may be nil.
func NewCatalogService(workshops workshopRepository, batches batchRepository, cache catalogCache, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CatalogService{
		workshops: workshops,
		batches:   batches,
		cache:     cache,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		validator: validator.New(),
		logger:    logger,
	}
}

// ListWorkshops returns all active workshops with mentor names.
func (s *CatalogService) ListWorkshops(ctx context.Context) ([]models.WorkshopDetail, error) {
	var cached []models.WorkshopDetail
	if s.cacheGet(ctx, cacheKeyWorkshops, &cached) {
		return cached, nil
	}

	workshops, err := s.workshops.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not list workshops")
	}
	s.cacheSet(ctx, cacheKeyWorkshops, workshops)
	return workshops, nil
}

// ListAllWorkshops returns every workshop including inactive ones, for the CMS.
func (s *CatalogService) ListAllWorkshops(ctx context.Context) ([]models.WorkshopDetail, error) {
	workshops, err := s.workshops.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not list workshops")
	}
	return workshops, nil
}

// GetWorkshop fetches one workshop with mentor detail.
func (s *CatalogService) GetWorkshop(ctx context.Context, id string) (*models.WorkshopDetail, error) {
	key := cacheKeyWorkshopPrefix + id
	var cached models.WorkshopDetail
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	workshop, err := s.workshops.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not fetch workshop")
	}
	s.cacheSet(ctx, key, workshop)
	return workshop, nil
}

// ListBatches returns every batch of a workshop with remaining availability.
func (s *CatalogService) ListBatches(ctx context.Context, workshopID string) ([]models.Batch, error) {
	if _, err := s.GetWorkshop(ctx, workshopID); err != nil {
		return nil, err
	}
	batches, err := s.batches.ListByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not list batches")
	}
	return batches, nil
}

// AvailableBatches returns only batches with remaining seats, grouped by
// calendar date and sorted. Batches without a usable start date are logged
// and skipped rather than failing the whole listing.
func (s *CatalogService) AvailableBatches(ctx context.Context, workshopID string) ([]models.BatchDay, error) {
	batches, err := s.ListBatches(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.BatchOption)
	for _, batch := range batches {
		if batch.Available() <= 0 {
			continue
		}
		if batch.StartDate.IsZero() {
			s.logger.Warn("batch has no usable start date, skipping",
				zap.String("batch_id", batch.ID),
				zap.String("workshop_id", workshopID))
			continue
		}
		date := batch.StartDate.Format("2006-01-02")
		grouped[date] = append(grouped[date], models.BatchOption{
			ID:        batch.ID,
			StartDate: date,
			StartTime: batch.StartTime,
			Available: batch.Available(),
		})
	}

	days := make([]models.BatchDay, 0, len(grouped))
	for date, options := range grouped {
		sort.Slice(options, func(i, j int) bool { return options[i].StartTime < options[j].StartTime })
		days = append(days, models.BatchDay{Date: date, Batches: options})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

// CreateWorkshop adds a workshop and invalidates the catalog cache.
func (s *CatalogService) CreateWorkshop(ctx context.Context, req WorkshopRequest) (*models.Workshop, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid workshop details")
	}
	workshop := &models.Workshop{
		Title:       req.Title,
		Description: req.Description,
		FeeCents:    req.FeeCents,
		Capacity:    req.Capacity,
		Duration:    req.Duration,
		MentorID:    req.MentorID,
		Active:      true,
	}
	if req.Active != nil {
		workshop.Active = *req.Active
	}
	if err := s.workshops.Create(ctx, workshop); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not create workshop")
	}
	s.invalidate(ctx)
	return workshop, nil
}

// UpdateWorkshop modifies a workshop and invalidates the catalog cache.
func (s *CatalogService) UpdateWorkshop(ctx context.Context, id string, req WorkshopRequest) (*models.Workshop, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid workshop details")
	}
	existing, err := s.workshops.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not fetch workshop")
	}

	workshop := existing.Workshop
	workshop.Title = req.Title
	workshop.Description = req.Description
	workshop.FeeCents = req.FeeCents
	workshop.Capacity = req.Capacity
	workshop.Duration = req.Duration
	workshop.MentorID = req.MentorID
	if req.Active != nil {
		workshop.Active = *req.Active
	}

	if err := s.workshops.Update(ctx, &workshop); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not update workshop")
	}
	s.invalidate(ctx)
	return &workshop, nil
}

// DeleteWorkshop removes a workshop and invalidates the catalog cache.
func (s *CatalogService) DeleteWorkshop(ctx context.Context, id string) error {
	if err := s.workshops.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not delete workshop")
	}
	s.invalidate(ctx)
	return nil
}

// GetBatch fetches one batch.
func (s *CatalogService) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not fetch batch")
	}
	return batch, nil
}

// CreateBatch schedules a new batch under a workshop.
func (s *CatalogService) CreateBatch(ctx context.Context, req BatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch details")
	}
	if _, err := s.GetWorkshop(ctx, req.WorkshopID); err != nil {
		return nil, err
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start_date must be YYYY-MM-DD")
	}

	batch := &models.Batch{
		WorkshopID:      req.WorkshopID,
		StartDate:       startDate,
		StartTime:       req.StartTime,
		Slots:           req.Slots,
		MeetingLink:     req.MeetingLink,
		MeetingID:       req.MeetingID,
		MeetingPassword: req.MeetingPassword,
	}
	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not create batch")
	}
	s.invalidate(ctx)
	return batch, nil
}

// UpdateBatch modifies a batch's schedule or capacity. The enrolled counter
// is never writable here; it only moves through enrollment side effects.
func (s *CatalogService) UpdateBatch(ctx context.Context, id string, req BatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch details")
	}
	batch, err := s.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start_date must be YYYY-MM-DD")
	}
	if req.Slots < batch.Enrolled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slots cannot be reduced below current enrollment")
	}

	batch.StartDate = startDate
	batch.StartTime = req.StartTime
	batch.Slots = req.Slots
	batch.MeetingLink = req.MeetingLink
	batch.MeetingID = req.MeetingID
	batch.MeetingPassword = req.MeetingPassword

	if err := s.batches.Update(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not update batch")
	}
	s.invalidate(ctx)
	return batch, nil
}

// DeleteBatch removes a batch.
func (s *CatalogService) DeleteBatch(ctx context.Context, id string) error {
	if err := s.batches.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not delete batch")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	start := time.Now()
	err := s.cache.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, cacheKeyCatalogPattern); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
