package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	tourDomain "github.com/tourvista/service-tours/internal/domain/tour"
)

// TourCache caches the active tour catalog. A nil cache disables caching.
type TourCache interface {
	GetActiveTours(ctx context.Context) ([]TourDTO, error)
	SetActiveTours(ctx context.Context, tours []TourDTO) error
	Invalidate(ctx context.Context) error
}

// CreateTourRequest is the request DTO for creating a tour.
type CreateTourRequest struct {
	CategoryID   uuid.UUID       `json:"category_id" binding:"required"`
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	DurationDays int             `json:"duration_days" binding:"required"`
	BasePrice    decimal.Decimal `json:"base_price" binding:"required"`
	Currency     string          `json:"currency"`
	Capacity     int             `json:"capacity" binding:"required"`
}

// UpdateTourRequest is the request DTO for partially updating a tour.
type UpdateTourRequest struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	DurationDays int             `json:"duration_days"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Currency     string          `json:"currency"`
	Capacity     int             `json:"capacity"`
}

// TourDTO is the API response representation of a tour.
type TourDTO struct {
	ID           uuid.UUID       `json:"id"`
	CategoryID   uuid.UUID       `json:"category_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	DurationDays int             `json:"duration_days"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Currency     string          `json:"currency"`
	Capacity     int             `json:"capacity"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TourService manages the tour catalog.
type TourService struct {
	repo   tourDomain.TourRepository
	cache  TourCache
	logger *zap.Logger
}

// NewTourService creates a new TourService.
func NewTourService(repo tourDomain.TourRepository, cache TourCache, logger *zap.Logger) *TourService {
	return &TourService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// CreateTour adds a new tour to the catalog.
func (s *TourService) CreateTour(ctx context.Context, req CreateTourRequest) (*TourDTO, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	t, err := tourDomain.NewTour(
		req.CategoryID,
		req.Title,
		req.Description,
		req.DurationDays,
		req.BasePrice,
		currency,
		req.Capacity,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save tour: %w", err)
	}
	s.invalidateCache(ctx)

	result := toTourDTO(t)
	return &result, nil
}

// UpdateTour applies partial updates to a tour.
func (s *TourService) UpdateTour(ctx context.Context, tourID uuid.UUID, req UpdateTourRequest) (*TourDTO, error) {
	t, err := s.repo.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}

	t.Update(req.CategoryID, req.Title, req.Description, req.DurationDays, req.BasePrice, req.Currency, req.Capacity)
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)

	result := toTourDTO(t)
	return &result, nil
}

// ArchiveTour takes a tour off sale.
func (s *TourService) ArchiveTour(ctx context.Context, tourID uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, tourID)
	if err != nil {
		return err
	}

	t.Archive()
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// GetTour retrieves a single tour by ID.
func (s *TourService) GetTour(ctx context.Context, tourID uuid.UUID) (*TourDTO, error) {
	t, err := s.repo.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	result := toTourDTO(t)
	return &result, nil
}

// ListActiveTours returns the public catalog, served from cache when warm.
func (s *TourService) ListActiveTours(ctx context.Context) ([]TourDTO, error) {
	if s.cache != nil {
		cached, err := s.cache.GetActiveTours(ctx)
		if err != nil {
			s.logger.Warn("tour cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	tours, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]TourDTO, len(tours))
	for i, t := range tours {
		dtos[i] = toTourDTO(t)
	}

	if s.cache != nil {
		if err := s.cache.SetActiveTours(ctx, dtos); err != nil {
			s.logger.Warn("tour cache write failed", zap.Error(err))
		}
	}
	return dtos, nil
}

// ListAllTours returns a paginated list of all tours (admin).
func (s *TourService) ListAllTours(ctx context.Context, page, limit int) ([]TourDTO, int64, error) {
	tours, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]TourDTO, len(tours))
	for i, t := range tours {
		dtos[i] = toTourDTO(t)
	}
	return dtos, total, nil
}

func (s *TourService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("tour cache invalidation failed", zap.Error(err))
	}
}

func toTourDTO(t *tourDomain.Tour) TourDTO {
	return TourDTO{
		ID:           t.ID(),
		CategoryID:   t.CategoryID(),
		Title:        t.Title(),
		Description:  t.Description(),
		DurationDays: t.DurationDays(),
		BasePrice:    t.BasePrice(),
		Currency:     t.Currency(),
		Capacity:     t.Capacity(),
		Status:       string(t.Status()),
		CreatedAt:    t.CreatedAt(),
		UpdatedAt:    t.UpdatedAt(),
	}
}
