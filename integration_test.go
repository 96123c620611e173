//go:build integration

package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/tourvista/service-tours/internal/domain/booking"
	"github.com/tourvista/service-tours/pkg/domain"
	"github.com/tourvista/service-tours/pkg/events"
)

// TestPaymentCaptured_MarksBookingPaid verifies that when a PaymentCapturedEvent
// is published to payment.events, the service picks it up and moves the
// booking's payment status to PAID, publishing the resulting update event.
func TestPaymentCaptured_MarksBookingPaid(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	bookingID := uuid.New()
	seedBooking(t, infra.DB, bookingID, bookingDomain.StatusConfirmed, bookingDomain.PaymentPending)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	evt := events.PaymentCapturedEvent{
		PaymentID:  uuid.New(),
		BookingID:  bookingID,
		Amount:     decimal.NewFromInt(500),
		Currency:   "USD",
		OccurredAt: time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, events.TopicPaymentEvents,
		"service-payment", events.PaymentCaptured, evt)

	model := waitForPaymentStatus(t, infra.DB, bookingID, "PAID", 15*time.Second)
	assert.Equal(t, bookingDomain.StatusConfirmed.Code(), model.StatusTypeID, "lifecycle status must not move")
	assert.Contains(t, model.Note, "Note added for payment status PAID")
	assert.Equal(t, "service-payment", model.UpdatedBy)
	assert.Equal(t, int64(2), model.Version)

	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingPaymentUpdated, 15*time.Second)

	var updated events.BookingPaymentUpdatedEvent
	require.NoError(t, ce.ParseData(&updated))
	assert.Equal(t, bookingID, updated.BookingID)
	assert.Equal(t, "PENDING", updated.PreviousPayment)
	assert.Equal(t, "PAID", updated.NewPayment)
}

// TestCancelInProgress_RefundsInOneCommit verifies that cancelling a booking
// that is underway with a captured payment writes the Cancel status and the
// derived REFUNDED payment status in a single commit.
func TestCancelInProgress_RefundsInOneCommit(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	bookingID := uuid.New()
	seedBooking(t, infra.DB, bookingID, bookingDomain.StatusInProgress, bookingDomain.PaymentPaid)

	dto, err := stack.Service.ChangeBookingStatus(context.Background(), bookingID,
		bookingDomain.StatusCancel, "staff-1", "medical emergency")
	require.NoError(t, err)

	assert.Equal(t, "Cancel", dto.Status)
	assert.Equal(t, "REFUNDED", dto.PaymentStatus)

	model := loadBooking(t, infra.DB, bookingID)
	assert.Equal(t, bookingDomain.StatusCancel.Code(), model.StatusTypeID)
	assert.Equal(t, "REFUNDED", model.PaymentStatus)
	assert.Contains(t, model.Note, "Status updated to Cancel: medical emergency")
	assert.Equal(t, int64(2), model.Version, "status and payment must land in one write")

	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingStatusChanged, 15*time.Second)
	var changed events.BookingStatusChangedEvent
	require.NoError(t, ce.ParseData(&changed))
	assert.Equal(t, "Cancel", changed.NewStatus)
	assert.Equal(t, "REFUNDED", changed.PaymentStatus)
}

// TestConcurrentTerminalTransitions_ExactlyOneWins verifies that two
// simultaneous transitions out of InProgress are serialized: one commits and
// the other is rejected against the committed terminal state.
func TestConcurrentTerminalTransitions_ExactlyOneWins(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	bookingID := uuid.New()
	seedBooking(t, infra.DB, bookingID, bookingDomain.StatusInProgress, bookingDomain.PaymentPaid)

	targets := []bookingDomain.BookingStatus{bookingDomain.StatusComplete, bookingDomain.StatusCancel}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target bookingDomain.BookingStatus) {
			defer wg.Done()
			_, errs[i] = stack.Service.ChangeBookingStatus(context.Background(), bookingID,
				target, "staff-race", "")
		}(i, target)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			failures++
			assert.True(t, domain.IsCode(err, domain.CodeTerminalState),
				"loser must be rejected against the committed terminal state, got %v", err)
		}
	}
	require.Equal(t, 1, failures, "exactly one of the two transitions must win")

	model := loadBooking(t, infra.DB, bookingID)
	assert.Equal(t, int64(2), model.Version, "only the winner may write")
	if errs[0] == nil {
		assert.Equal(t, bookingDomain.StatusComplete.Code(), model.StatusTypeID)
		assert.Equal(t, "PAID", model.PaymentStatus)
	} else {
		assert.Equal(t, bookingDomain.StatusCancel.Code(), model.StatusTypeID)
		assert.Equal(t, "REFUNDED", model.PaymentStatus)
	}
}
