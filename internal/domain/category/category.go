package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/tourvista/service-tours/pkg/domain"
)

// Category groups tours for browsing and homepage sections.
type Category struct {
	id          uuid.UUID
	name        string
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewCategory creates a new category.
func NewCategory(name, description string) (*Category, error) {
	if name == "" {
		return nil, domain.NewValidationError("category name is required")
	}

	now := time.Now().UTC()
	return &Category{
		id:          uuid.New(),
		name:        name,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Category from persistence.
func Reconstruct(id uuid.UUID, name, description string, createdAt, updatedAt time.Time) *Category {
	return &Category{
		id:          id,
		name:        name,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Getters.
func (c *Category) ID() uuid.UUID        { return c.id }
func (c *Category) Name() string         { return c.name }
func (c *Category) Description() string  { return c.description }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }

// Update applies partial updates to the category.
func (c *Category) Update(name, description string) {
	if name != "" {
		c.name = name
	}
	if description != "" {
		c.description = description
	}
	c.updatedAt = time.Now().UTC()
}
