package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	categoryDomain "github.com/tourvista/service-tours/internal/domain/category"
	"github.com/tourvista/service-tours/pkg/domain"
)

// CategoryModel is the GORM model for the categories table.
type CategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null;size:100"`
	Description string    `gorm:"size:500"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CategoryModel) TableName() string {
	return "categories"
}

// GormCategoryRepository is the GORM-based implementation of CategoryRepository.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository.
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID retrieves a category by its unique identifier.
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*categoryDomain.Category, error) {
	var model CategoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Category", id.String())
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}
	return toDomainCategory(&model), nil
}

// List retrieves all categories.
func (r *GormCategoryRepository) List(ctx context.Context) ([]*categoryDomain.Category, error) {
	var models []CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*categoryDomain.Category, len(models))
	for i, m := range models {
		categories[i] = toDomainCategory(&m)
	}
	return categories, nil
}

// Save persists a new category.
func (r *GormCategoryRepository) Save(ctx context.Context, c *categoryDomain.Category) error {
	if err := r.db.WithContext(ctx).Create(toCategoryModel(c)).Error; err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

// Update persists changes to an existing category.
func (r *GormCategoryRepository) Update(ctx context.Context, c *categoryDomain.Category) error {
	model := toCategoryModel(c)
	res := r.db.WithContext(ctx).
		Model(&CategoryModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"updated_at":  model.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("Category", model.ID.String())
	}
	return nil
}

// Delete removes a category.
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&CategoryModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("Category", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toCategoryModel(c *categoryDomain.Category) *CategoryModel {
	return &CategoryModel{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func toDomainCategory(m *CategoryModel) *categoryDomain.Category {
	return categoryDomain.Reconstruct(m.ID, m.Name, m.Description, m.CreatedAt, m.UpdatedAt)
}
