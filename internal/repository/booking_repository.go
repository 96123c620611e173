package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/tourvista/service-tours/internal/domain/booking"
	"github.com/tourvista/service-tours/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber string          `gorm:"uniqueIndex;not null;size:20"`
	TourID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	CustomerName  string          `gorm:"not null;size:200"`
	CustomerEmail string          `gorm:"size:320"`
	Participants  int             `gorm:"not null"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency      string          `gorm:"not null;size:3;default:'USD'"`
	TravelDate    *time.Time      `gorm:""`
	StatusTypeID  int             `gorm:"column:status_type_id;not null;index"`
	PaymentStatus string          `gorm:"not null;size:20"`
	Note          string          `gorm:"type:text"`
	UpdatedBy     string          `gorm:"size:100"`
	Version       int64           `gorm:"not null;default:1"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByCustomerID retrieves bookings for a customer with pagination.
func (r *GormBookingRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("customer_id = ?", customerID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customer bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find customer bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// ListAll retrieves all bookings with pagination, optionally filtered by
// status (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, status *bookingDomain.BookingStatus, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{})
	if status != nil {
		query = query.Where("status_type_id = ?", status.Code())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// CountByStatus returns booking counts grouped by status name (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		StatusTypeID int
		Count        int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status_type_id, count(*) as count").
		Group("status_type_id").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		status, err := bookingDomain.ParseBookingStatus(sc.StatusTypeID)
		if err != nil {
			return nil, err
		}
		counts[status.String()] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// UpdateInTx runs the read-validate-write sequence for a single booking inside
// one transaction. The row is locked on read so concurrent status changes on
// the same booking are serialized; the version check is kept as a second line
// of defense. Any error from mutate or from the write aborts the transaction
// with a full rollback.
func (r *GormBookingRepository) UpdateInTx(ctx context.Context, id uuid.UUID, mutate func(*bookingDomain.Booking) error) (*bookingDomain.Booking, error) {
	var result *bookingDomain.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model BookingModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Booking", id.String())
			}
			return fmt.Errorf("failed to load booking for update: %w", err)
		}

		bk, err := toDomainBooking(&model)
		if err != nil {
			return err
		}

		if err := mutate(bk); err != nil {
			return err
		}
		bk.IncrementVersion()

		updated := toBookingModel(bk)
		res := tx.Model(&BookingModel{}).
			Where("id = ? AND version = ?", id, bk.Version()-1).
			Updates(map[string]interface{}{
				"status_type_id": updated.StatusTypeID,
				"payment_status": updated.PaymentStatus,
				"note":           updated.Note,
				"updated_by":     updated.UpdatedBy,
				"travel_date":    updated.TravelDate,
				"version":        updated.Version,
				"updated_at":     updated.UpdatedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update booking: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewConflictError("booking was modified by another transaction")
		}

		result = bk
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:            bk.ID(),
		BookingNumber: bk.BookingNumber(),
		TourID:        bk.TourID(),
		CustomerID:    bk.CustomerID(),
		CustomerName:  bk.CustomerName(),
		CustomerEmail: bk.CustomerEmail(),
		Participants:  bk.Participants(),
		TotalAmount:   bk.TotalAmount(),
		Currency:      bk.Currency(),
		TravelDate:    bk.TravelDate(),
		StatusTypeID:  bk.Status().Code(),
		PaymentStatus: bk.PaymentStatus().String(),
		Note:          bk.Note(),
		UpdatedBy:     bk.UpdatedBy(),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.StatusTypeID)
	if err != nil {
		return nil, err
	}

	// Out-of-band writes may have left an unrecognized payment value; the
	// transition rules treat it as terminal, so keep it as stored.
	paymentStatus := bookingDomain.PaymentStatus(m.PaymentStatus)

	return bookingDomain.Reconstruct(
		m.ID,
		m.BookingNumber,
		m.TourID,
		m.CustomerID,
		m.CustomerName,
		m.CustomerEmail,
		m.Participants,
		m.TotalAmount,
		m.Currency,
		m.TravelDate,
		status,
		paymentStatus,
		m.Note,
		m.UpdatedBy,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel, total int64) ([]*bookingDomain.Booking, int64, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}
