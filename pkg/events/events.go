package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kafka topics shared between services.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types published on booking.events.
const (
	BookingCreated        = "booking.created"
	BookingStatusChanged  = "booking.status.changed"
	BookingPaymentUpdated = "booking.payment.updated"
	BookingNoteAdded      = "booking.note.added"
)

// Event types consumed from payment.events.
const (
	PaymentCaptured  = "payment.captured"
	PaymentCancelled = "payment.cancelled"
)

// BookingCreatedEvent is published when a new booking is registered.
type BookingCreatedEvent struct {
	BookingID     uuid.UUID       `json:"booking_id"`
	BookingNumber string          `json:"booking_number"`
	TourID        uuid.UUID       `json:"tour_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Participants  int             `json:"participants"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	PaymentStatus string          `json:"payment_status"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// BookingStatusChangedEvent is published after a booking status transition
// commits, including any payment status derived from it.
type BookingStatusChangedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	BookingNumber  string    `json:"booking_number"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	PaymentStatus  string    `json:"payment_status"`
	UpdatedBy      string    `json:"updated_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingPaymentUpdatedEvent is published after a payment status transition commits.
type BookingPaymentUpdatedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	BookingNumber   string    `json:"booking_number"`
	PreviousPayment string    `json:"previous_payment"`
	NewPayment      string    `json:"new_payment"`
	UpdatedBy       string    `json:"updated_by"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// BookingNoteAddedEvent is published when an audit note is appended.
type BookingNoteAddedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UpdatedBy     string    `json:"updated_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentCapturedEvent signals that the payment gateway captured funds
// for a booking.
type PaymentCapturedEvent struct {
	PaymentID  uuid.UUID       `json:"payment_id"`
	BookingID  uuid.UUID       `json:"booking_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// PaymentCancelledEvent signals that a pending payment was cancelled
// at the gateway.
type PaymentCancelledEvent struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
