package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	tourDomain "github.com/tourvista/service-tours/internal/domain/tour"
	"github.com/tourvista/service-tours/pkg/domain"
)

// TourModel is the GORM model for the tours table.
type TourModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Title        string          `gorm:"not null;size:200"`
	Description  string          `gorm:"type:text"`
	DurationDays int             `gorm:"not null"`
	BasePrice    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency     string          `gorm:"not null;size:3;default:'USD'"`
	Capacity     int             `gorm:"not null"`
	Status       string          `gorm:"not null;size:20;index"`
	Version      int64           `gorm:"not null;default:1"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TourModel) TableName() string {
	return "tours"
}

// GormTourRepository is the GORM-based implementation of TourRepository.
type GormTourRepository struct {
	db *gorm.DB
}

// NewGormTourRepository creates a new GormTourRepository.
func NewGormTourRepository(db *gorm.DB) *GormTourRepository {
	return &GormTourRepository{db: db}
}

// FindByID retrieves a tour by its unique identifier.
func (r *GormTourRepository) FindByID(ctx context.Context, id uuid.UUID) (*tourDomain.Tour, error) {
	var model TourModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Tour", id.String())
		}
		return nil, fmt.Errorf("failed to find tour by ID: %w", err)
	}
	return toDomainTour(&model), nil
}

// ListActive retrieves all tours currently on sale.
func (r *GormTourRepository) ListActive(ctx context.Context) ([]*tourDomain.Tour, error) {
	var models []TourModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(tourDomain.TourStatusActive)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list active tours: %w", err)
	}

	tours := make([]*tourDomain.Tour, len(models))
	for i, m := range models {
		tours[i] = toDomainTour(&m)
	}
	return tours, nil
}

// ListAll retrieves all tours with pagination (admin).
func (r *GormTourRepository) ListAll(ctx context.Context, page, limit int) ([]*tourDomain.Tour, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&TourModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tours: %w", err)
	}

	var models []TourModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tours: %w", err)
	}

	tours := make([]*tourDomain.Tour, len(models))
	for i, m := range models {
		tours[i] = toDomainTour(&m)
	}
	return tours, total, nil
}

// Save persists a new tour.
func (r *GormTourRepository) Save(ctx context.Context, t *tourDomain.Tour) error {
	if err := r.db.WithContext(ctx).Create(toTourModel(t)).Error; err != nil {
		return fmt.Errorf("failed to save tour: %w", err)
	}
	return nil
}

// Update persists changes to an existing tour with optimistic locking.
func (r *GormTourRepository) Update(ctx context.Context, t *tourDomain.Tour) error {
	model := toTourModel(t)

	expectedVersion := t.Version() - 1
	res := r.db.WithContext(ctx).
		Model(&TourModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"category_id":   model.CategoryID,
			"title":         model.Title,
			"description":   model.Description,
			"duration_days": model.DurationDays,
			"base_price":    model.BasePrice,
			"currency":      model.Currency,
			"capacity":      model.Capacity,
			"status":        model.Status,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update tour: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewConflictError("tour was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toTourModel(t *tourDomain.Tour) *TourModel {
	return &TourModel{
		ID:           t.ID(),
		CategoryID:   t.CategoryID(),
		Title:        t.Title(),
		Description:  t.Description(),
		DurationDays: t.DurationDays(),
		BasePrice:    t.BasePrice(),
		Currency:     t.Currency(),
		Capacity:     t.Capacity(),
		Status:       string(t.Status()),
		Version:      t.Version(),
		CreatedAt:    t.CreatedAt(),
		UpdatedAt:    t.UpdatedAt(),
	}
}

func toDomainTour(m *TourModel) *tourDomain.Tour {
	return tourDomain.Reconstruct(
		m.ID,
		m.CategoryID,
		m.Title,
		m.Description,
		m.DurationDays,
		m.BasePrice,
		m.Currency,
		m.Capacity,
		tourDomain.TourStatus(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
