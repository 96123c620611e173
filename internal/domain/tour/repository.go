package tour

import (
	"context"

	"github.com/google/uuid"
)

// TourRepository defines persistence operations for tours.
type TourRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tour, error)
	ListActive(ctx context.Context) ([]*Tour, error)
	ListAll(ctx context.Context, page, limit int) ([]*Tour, int64, error)
	Save(ctx context.Context, tour *Tour) error
	Update(ctx context.Context, tour *Tour) error
}
