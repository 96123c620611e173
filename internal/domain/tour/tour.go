package tour

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tourvista/service-tours/pkg/domain"
)

// TourStatus represents the publication state of a tour.
type TourStatus string

const (
	TourStatusActive   TourStatus = "active"
	TourStatusArchived TourStatus = "archived"
)

// Tour is the aggregate root for a bookable tour package.
type Tour struct {
	id           uuid.UUID
	categoryID   uuid.UUID
	title        string
	description  string
	durationDays int
	basePrice    decimal.Decimal
	currency     string
	capacity     int
	status       TourStatus
	version      int64
	createdAt    time.Time
	updatedAt    time.Time
}

// NewTour creates a new active tour with validated fields.
func NewTour(
	categoryID uuid.UUID,
	title, description string,
	durationDays int,
	basePrice decimal.Decimal,
	currency string,
	capacity int,
) (*Tour, error) {
	if categoryID == uuid.Nil {
		return nil, domain.NewValidationError("category ID is required")
	}
	if title == "" {
		return nil, domain.NewValidationError("tour title is required")
	}
	if durationDays <= 0 {
		return nil, domain.NewValidationError("duration must be positive")
	}
	if !basePrice.IsPositive() {
		return nil, domain.NewValidationError("base price must be positive")
	}
	if capacity <= 0 {
		return nil, domain.NewValidationError("capacity must be positive")
	}

	now := time.Now().UTC()
	return &Tour{
		id:           uuid.New(),
		categoryID:   categoryID,
		title:        title,
		description:  description,
		durationDays: durationDays,
		basePrice:    basePrice,
		currency:     currency,
		capacity:     capacity,
		status:       TourStatusActive,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a Tour from persistence data (no validation).
func Reconstruct(
	id, categoryID uuid.UUID,
	title, description string,
	durationDays int,
	basePrice decimal.Decimal,
	currency string,
	capacity int,
	status TourStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Tour {
	return &Tour{
		id:           id,
		categoryID:   categoryID,
		title:        title,
		description:  description,
		durationDays: durationDays,
		basePrice:    basePrice,
		currency:     currency,
		capacity:     capacity,
		status:       status,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// --- Getters ---

func (t *Tour) ID() uuid.UUID              { return t.id }
func (t *Tour) CategoryID() uuid.UUID      { return t.categoryID }
func (t *Tour) Title() string              { return t.title }
func (t *Tour) Description() string        { return t.description }
func (t *Tour) DurationDays() int          { return t.durationDays }
func (t *Tour) BasePrice() decimal.Decimal { return t.basePrice }
func (t *Tour) Currency() string           { return t.currency }
func (t *Tour) Capacity() int              { return t.capacity }
func (t *Tour) Status() TourStatus         { return t.status }
func (t *Tour) Version() int64             { return t.version }
func (t *Tour) CreatedAt() time.Time       { return t.createdAt }
func (t *Tour) UpdatedAt() time.Time       { return t.updatedAt }

// --- Behavior ---

// Update applies partial updates to the tour.
func (t *Tour) Update(
	categoryID uuid.UUID,
	title, description string,
	durationDays int,
	basePrice decimal.Decimal,
	currency string,
	capacity int,
) {
	if categoryID != uuid.Nil {
		t.categoryID = categoryID
	}
	if title != "" {
		t.title = title
	}
	if description != "" {
		t.description = description
	}
	if durationDays > 0 {
		t.durationDays = durationDays
	}
	if basePrice.IsPositive() {
		t.basePrice = basePrice
	}
	if currency != "" {
		t.currency = currency
	}
	if capacity > 0 {
		t.capacity = capacity
	}
	t.version++
	t.updatedAt = time.Now().UTC()
}

// Archive takes the tour off sale.
func (t *Tour) Archive() {
	t.status = TourStatusArchived
	t.version++
	t.updatedAt = time.Now().UTC()
}

// IsActive returns true if the tour is bookable.
func (t *Tour) IsActive() bool {
	return t.status == TourStatusActive
}
