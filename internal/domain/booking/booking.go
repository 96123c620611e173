package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tourvista/service-tours/pkg/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// noteTimestampLayout is the timestamp format used for audit note entries.
const noteTimestampLayout = "2006-01-02 15:04:05"

// Booking is the aggregate root for a tour reservation. The lifecycle status
// and payment status may only be changed through its behavior methods, which
// enforce the transition rules; everything a method changes is either applied
// in full or not at all.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	tourID        uuid.UUID
	customerID    uuid.UUID
	customerName  string
	customerEmail string
	participants  int
	totalAmount   decimal.Decimal
	currency      string
	travelDate    *time.Time

	status        BookingStatus
	paymentStatus PaymentStatus
	note          string
	updatedBy     string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "TB-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "TB-" + string(result), nil
}

// NewBooking creates a new Booking with status=Pending and the caller-supplied
// initial payment status.
func NewBooking(
	tourID, customerID uuid.UUID,
	customerName, customerEmail string,
	participants int,
	totalAmount decimal.Decimal,
	currency string,
	travelDate *time.Time,
	initialPayment PaymentStatus,
) (*Booking, error) {
	if tourID == uuid.Nil {
		return nil, domain.NewValidationError("tour ID is required")
	}
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer ID is required")
	}
	if customerName == "" {
		return nil, domain.NewValidationError("customer name is required")
	}
	if participants <= 0 {
		return nil, domain.NewValidationError("participants must be positive")
	}
	if !totalAmount.IsPositive() {
		return nil, domain.NewValidationError("total amount must be positive")
	}
	if !initialPayment.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid payment status: %s", initialPayment))
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		bookingNumber: bookingNumber,
		tourID:        tourID,
		customerID:    customerID,
		customerName:  customerName,
		customerEmail: customerEmail,
		participants:  participants,
		totalAmount:   totalAmount,
		currency:      currency,
		travelDate:    travelDate,
		status:        StatusPending,
		paymentStatus: initialPayment,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	bookingNumber string,
	tourID, customerID uuid.UUID,
	customerName, customerEmail string,
	participants int,
	totalAmount decimal.Decimal,
	currency string,
	travelDate *time.Time,
	status BookingStatus,
	paymentStatus PaymentStatus,
	note, updatedBy string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		bookingNumber: bookingNumber,
		tourID:        tourID,
		customerID:    customerID,
		customerName:  customerName,
		customerEmail: customerEmail,
		participants:  participants,
		totalAmount:   totalAmount,
		currency:      currency,
		travelDate:    travelDate,
		status:        status,
		paymentStatus: paymentStatus,
		note:          note,
		updatedBy:     updatedBy,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// TourID returns the booked tour's identifier.
func (b *Booking) TourID() uuid.UUID { return b.tourID }

// CustomerID returns the customer's user ID.
func (b *Booking) CustomerID() uuid.UUID { return b.customerID }

// CustomerName returns the customer's display name.
func (b *Booking) CustomerName() string { return b.customerName }

// CustomerEmail returns the customer's contact email.
func (b *Booking) CustomerEmail() string { return b.customerEmail }

// Participants returns the number of travellers on the booking.
func (b *Booking) Participants() int { return b.participants }

// TotalAmount returns the booked price.
func (b *Booking) TotalAmount() decimal.Decimal { return b.totalAmount }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// TravelDate returns the departure date, or nil if not scheduled yet.
func (b *Booking) TravelDate() *time.Time { return b.travelDate }

// Status returns the current lifecycle status.
func (b *Booking) Status() BookingStatus { return b.status }

// PaymentStatus returns the current payment status.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// Note returns the append-only audit note log.
func (b *Booking) Note() string { return b.note }

// UpdatedBy returns the actor that performed the last mutation.
func (b *Booking) UpdatedBy() string { return b.updatedBy }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// ChangeStatus applies a lifecycle transition. Validation happens before any
// field is touched, so a rejected request leaves the booking unchanged. When
// the target is Cancel, the payment status is updated to the derived value
// without going through the normal payment-transition check.
func (b *Booking) ChangeStatus(requested BookingStatus, updatedBy, note string) error {
	if !requested.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid booking status: %d", int(requested)))
	}
	if err := ValidateStatusTransition(b.status, requested); err != nil {
		return err
	}

	now := time.Now().UTC()
	b.status = requested
	b.updatedBy = updatedBy
	b.updatedAt = now
	if note != "" {
		b.appendNoteLine(now, fmt.Sprintf("Status updated to %s: %s", requested.DisplayName(), note))
	}
	if requested == StatusCancel {
		b.paymentStatus = DeriveCancellationPaymentEffect(b.paymentStatus)
	}
	return nil
}

// ChangePaymentStatus applies a caller-requested payment transition. The
// payment status is frozen once the booking reaches a terminal lifecycle
// status.
func (b *Booking) ChangePaymentStatus(requested PaymentStatus, updatedBy, note string) error {
	if b.status.IsTerminal() {
		return domain.NewTerminalStateError(b.status.DisplayName())
	}
	if err := ValidatePaymentTransition(b.paymentStatus, requested); err != nil {
		return err
	}

	now := time.Now().UTC()
	b.paymentStatus = requested
	b.updatedBy = updatedBy
	b.updatedAt = now
	if note != "" {
		b.appendNoteLine(now, fmt.Sprintf("Note added for payment status %s: %s", requested, note))
	}
	return nil
}

// AddNote appends a timestamped audit note. Empty and whitespace-only notes
// are rejected.
func (b *Booking) AddNote(note, updatedBy string) error {
	if strings.TrimSpace(note) == "" {
		return domain.NewValidationError("note must not be empty")
	}

	now := time.Now().UTC()
	b.updatedBy = updatedBy
	b.updatedAt = now
	b.appendNoteLine(now, fmt.Sprintf("Note added: %s", note))
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}

// appendNoteLine appends a timestamped entry, preserving prior entries.
func (b *Booking) appendNoteLine(at time.Time, line string) {
	entry := fmt.Sprintf("[%s] %s", at.Format(noteTimestampLayout), line)
	if b.note == "" {
		b.note = entry
		return
	}
	b.note = b.note + "\n" + entry
}
