package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	bookingDomain "github.com/tourvista/service-tours/internal/domain/booking"
	tourDomain "github.com/tourvista/service-tours/internal/domain/tour"
	"github.com/tourvista/service-tours/pkg/domain"
	"github.com/tourvista/service-tours/pkg/events"
	"github.com/tourvista/service-tours/pkg/kafka"
)

// EventPublisher publishes CloudEvent-wrapped events. Satisfied by
// *kafka.Producer; kept as an interface so tests can capture events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	TourID        uuid.UUID  `json:"tour_id" binding:"required"`
	CustomerName  string     `json:"customer_name" binding:"required"`
	CustomerEmail string     `json:"customer_email"`
	Participants  int        `json:"participants" binding:"required"`
	TravelDate    *time.Time `json:"travel_date"`
	PaymentStatus string     `json:"payment_status"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID       `json:"id"`
	BookingNumber string          `json:"booking_number"`
	TourID        uuid.UUID       `json:"tour_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Participants  int             `json:"participants"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	TravelDate    *time.Time      `json:"travel_date,omitempty"`
	Status        string          `json:"status"`
	StatusCode    int             `json:"status_code"`
	PaymentStatus string          `json:"payment_status"`
	Note          string          `json:"note,omitempty"`
	UpdatedBy     string          `json:"updated_by,omitempty"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating booking use cases.
// Status and payment-status changes run through the booking aggregate inside
// one repository transaction, so a rejected transition or failed write leaves
// no partial state behind.
type BookingService struct {
	repo     bookingDomain.BookingRepository
	tours    tourDomain.TourRepository
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	tours tourDomain.TourRepository,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		tours:    tours,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking registers a new booking for the given customer. The booking
// starts in Pending with the caller-supplied payment status (PENDING when
// omitted); the total is the tour's base price times the participant count.
func (s *BookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	t, err := s.tours.FindByID(ctx, req.TourID)
	if err != nil {
		return nil, err
	}
	if !t.IsActive() {
		return nil, domain.NewValidationError("tour is not available for booking")
	}
	if req.Participants > t.Capacity() {
		return nil, domain.NewValidationError(fmt.Sprintf("participants exceed tour capacity of %d", t.Capacity()))
	}

	initialPayment := bookingDomain.PaymentPending
	if req.PaymentStatus != "" {
		initialPayment, err = bookingDomain.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			return nil, err
		}
	}

	total := t.BasePrice().Mul(decimal.NewFromInt(int64(req.Participants)))

	bk, err := bookingDomain.NewBooking(
		t.ID(),
		customerID,
		req.CustomerName,
		req.CustomerEmail,
		req.Participants,
		total,
		t.Currency(),
		req.TravelDate,
		initialPayment,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	evt := events.BookingCreatedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		TourID:        bk.TourID(),
		CustomerID:    bk.CustomerID(),
		Participants:  bk.Participants(),
		TotalAmount:   bk.TotalAmount(),
		Currency:      bk.Currency(),
		PaymentStatus: bk.PaymentStatus().String(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// ChangeBookingStatus applies a lifecycle transition to a booking. The
// validation, the status write, the optional audit note, and the payment
// status derived on cancellation all commit in one transaction or not at all.
func (s *BookingService) ChangeBookingStatus(ctx context.Context, bookingID uuid.UUID, requested bookingDomain.BookingStatus, updatedBy, note string) (*BookingDTO, error) {
	var previous bookingDomain.BookingStatus

	bk, err := s.repo.UpdateInTx(ctx, bookingID, func(b *bookingDomain.Booking) error {
		previous = b.Status()
		return b.ChangeStatus(requested, updatedBy, note)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", previous.String()),
		zap.String("to", bk.Status().String()),
		zap.String("payment_status", bk.PaymentStatus().String()),
		zap.String("updated_by", updatedBy),
	)

	evt := events.BookingStatusChangedEvent{
		BookingID:      bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		PreviousStatus: previous.String(),
		NewStatus:      bk.Status().String(),
		PaymentStatus:  bk.PaymentStatus().String(),
		UpdatedBy:      updatedBy,
		OccurredAt:     time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingStatusChanged, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// ChangePaymentStatus applies a caller-requested payment transition. Payment
// status is frozen once the booking reaches Cancel or Complete.
func (s *BookingService) ChangePaymentStatus(ctx context.Context, bookingID uuid.UUID, requested bookingDomain.PaymentStatus, updatedBy, note string) (*BookingDTO, error) {
	var previous bookingDomain.PaymentStatus

	bk, err := s.repo.UpdateInTx(ctx, bookingID, func(b *bookingDomain.Booking) error {
		previous = b.PaymentStatus()
		return b.ChangePaymentStatus(requested, updatedBy, note)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking payment status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", previous.String()),
		zap.String("to", bk.PaymentStatus().String()),
		zap.String("updated_by", updatedBy),
	)

	evt := events.BookingPaymentUpdatedEvent{
		BookingID:       bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		PreviousPayment: previous.String(),
		NewPayment:      bk.PaymentStatus().String(),
		UpdatedBy:       updatedBy,
		OccurredAt:      time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingPaymentUpdated, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// AddBookingNote appends an audit note to a booking.
func (s *BookingService) AddBookingNote(ctx context.Context, bookingID uuid.UUID, note, updatedBy string) (*BookingDTO, error) {
	bk, err := s.repo.UpdateInTx(ctx, bookingID, func(b *bookingDomain.Booking) error {
		return b.AddNote(note, updatedBy)
	})
	if err != nil {
		return nil, err
	}

	evt := events.BookingNoteAddedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UpdatedBy:     updatedBy,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingNoteAdded, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookingByNumber retrieves a single booking by its booking number.
func (s *BookingService) GetBookingByNumber(ctx context.Context, number string) (*BookingDTO, error) {
	bk, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetCustomerBookings retrieves paginated bookings for a specific customer.
func (s *BookingService) GetCustomerBookings(ctx context.Context, customerID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByCustomerID(ctx, customerID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ListAllBookings returns a paginated list of all bookings, optionally
// filtered by status (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, status *bookingDomain.BookingStatus, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
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
		Status:        bk.Status().String(),
		StatusCode:    bk.Status().Code(),
		PaymentStatus: bk.PaymentStatus().String(),
		Note:          bk.Note(),
		UpdatedBy:     bk.UpdatedBy(),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-tours", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
