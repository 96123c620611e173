package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	categoryDomain "github.com/tourvista/service-tours/internal/domain/category"
)

// CategoryDTO is the API response representation of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryRequest is the request DTO for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CategoryService manages tour categories.
type CategoryService struct {
	repo   categoryDomain.CategoryRepository
	logger *zap.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo categoryDomain.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

// CreateCategory adds a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryDTO, error) {
	c, err := categoryDomain.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	result := toCategoryDTO(c)
	return &result, nil
}

// UpdateCategory applies partial updates to a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryDTO, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Update(req.Name, req.Description)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	result := toCategoryDTO(c)
	return &result, nil
}

// DeleteCategory removes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = toCategoryDTO(c)
	}
	return dtos, nil
}

func toCategoryDTO(c *categoryDomain.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}
