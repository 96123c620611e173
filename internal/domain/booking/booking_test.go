package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvista/service-tours/pkg/domain"
)

func newTestBooking(t *testing.T, status BookingStatus, payment PaymentStatus) *Booking {
	t.Helper()
	now := time.Now().UTC().Add(-time.Hour)
	return Reconstruct(
		uuid.New(),
		"TB-TEST01",
		uuid.New(),
		uuid.New(),
		"Alice Tan",
		"alice@example.com",
		2,
		decimal.NewFromInt(500),
		"USD",
		nil,
		status,
		payment,
		"",
		"",
		1,
		now,
		now,
	)
}

func TestNewBooking(t *testing.T) {
	bk, err := NewBooking(
		uuid.New(), uuid.New(),
		"Alice Tan", "alice@example.com",
		3, decimal.NewFromInt(750), "USD", nil,
		PaymentPending,
	)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, PaymentPending, bk.PaymentStatus())
	assert.Equal(t, int64(1), bk.Version())
	assert.True(t, strings.HasPrefix(bk.BookingNumber(), "TB-"))
	assert.Len(t, bk.BookingNumber(), 9)
	assert.Empty(t, bk.Note())
}

func TestNewBooking_Validation(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (*Booking, error)
	}{
		{"missing tour", func() (*Booking, error) {
			return NewBooking(uuid.Nil, uuid.New(), "Alice", "", 1, decimal.NewFromInt(100), "USD", nil, PaymentPending)
		}},
		{"missing customer", func() (*Booking, error) {
			return NewBooking(uuid.New(), uuid.Nil, "Alice", "", 1, decimal.NewFromInt(100), "USD", nil, PaymentPending)
		}},
		{"missing name", func() (*Booking, error) {
			return NewBooking(uuid.New(), uuid.New(), "", "", 1, decimal.NewFromInt(100), "USD", nil, PaymentPending)
		}},
		{"zero participants", func() (*Booking, error) {
			return NewBooking(uuid.New(), uuid.New(), "Alice", "", 0, decimal.NewFromInt(100), "USD", nil, PaymentPending)
		}},
		{"zero amount", func() (*Booking, error) {
			return NewBooking(uuid.New(), uuid.New(), "Alice", "", 1, decimal.Zero, "USD", nil, PaymentPending)
		}},
		{"bad payment status", func() (*Booking, error) {
			return NewBooking(uuid.New(), uuid.New(), "Alice", "", 1, decimal.NewFromInt(100), "USD", nil, PaymentStatus("paid"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			require.Error(t, err)
			assert.True(t, domain.IsCode(err, domain.CodeValidation))
		})
	}
}

func TestChangeStatus_HappyPath(t *testing.T) {
	bk := newTestBooking(t, StatusPending, PaymentPending)

	require.NoError(t, bk.ChangeStatus(StatusConfirmed, "staff-1", "payment verified"))
	assert.Equal(t, StatusConfirmed, bk.Status())
	assert.Equal(t, "staff-1", bk.UpdatedBy())
	assert.Contains(t, bk.Note(), "Status updated to Confirmed: payment verified")

	require.NoError(t, bk.ChangeStatus(StatusInProgress, "staff-1", ""))
	require.NoError(t, bk.ChangeStatus(StatusComplete, "staff-1", "tour finished"))
	assert.Equal(t, StatusComplete, bk.Status())
}

func TestChangeStatus_NoteFormat(t *testing.T) {
	bk := newTestBooking(t, StatusPending, PaymentPending)
	require.NoError(t, bk.ChangeStatus(StatusConfirmed, "staff-1", "deposit received"))

	// "[YYYY-MM-DD HH:MM:SS] Status updated to <display name>: <note>"
	lines := strings.Split(bk.Note(), "\n")
	require.Len(t, lines, 1)
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] Status updated to Confirmed: deposit received$`, lines[0])
}

func TestChangeStatus_EmptyNoteSkipsAudit(t *testing.T) {
	bk := newTestBooking(t, StatusPending, PaymentPending)
	require.NoError(t, bk.ChangeStatus(StatusConfirmed, "staff-1", ""))
	assert.Empty(t, bk.Note())
}

func TestChangeStatus_NotesAccumulate(t *testing.T) {
	bk := newTestBooking(t, StatusPending, PaymentPending)
	require.NoError(t, bk.ChangeStatus(StatusConfirmed, "staff-1", "first"))
	require.NoError(t, bk.ChangeStatus(StatusInProgress, "staff-1", "second"))

	lines := strings.Split(bk.Note(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first")
	assert.Contains(t, lines[1], "second")
}

func TestChangeStatus_CancelDerivesPaymentEffect(t *testing.T) {
	t.Run("pending payment is cancelled", func(t *testing.T) {
		bk := newTestBooking(t, StatusInProgress, PaymentPending)
		require.NoError(t, bk.ChangeStatus(StatusCancel, "staff-1", "customer no-show"))
		assert.Equal(t, StatusCancel, bk.Status())
		assert.Equal(t, PaymentCancelled, bk.PaymentStatus())
	})

	t.Run("paid payment is refunded", func(t *testing.T) {
		bk := newTestBooking(t, StatusInProgress, PaymentPaid)
		require.NoError(t, bk.ChangeStatus(StatusCancel, "staff-1", "weather"))
		assert.Equal(t, StatusCancel, bk.Status())
		assert.Equal(t, PaymentRefunded, bk.PaymentStatus())
	})

	t.Run("refunded payment is untouched", func(t *testing.T) {
		bk := newTestBooking(t, StatusInProgress, PaymentRefunded)
		require.NoError(t, bk.ChangeStatus(StatusCancel, "staff-1", ""))
		assert.Equal(t, PaymentRefunded, bk.PaymentStatus())
	})
}

func TestChangeStatus_CompleteDoesNotTouchPayment(t *testing.T) {
	bk := newTestBooking(t, StatusInProgress, PaymentPaid)
	require.NoError(t, bk.ChangeStatus(StatusComplete, "staff-1", ""))
	assert.Equal(t, PaymentPaid, bk.PaymentStatus())
}

func TestChangeStatus_RejectionLeavesBookingUnchanged(t *testing.T) {
	bk := newTestBooking(t, StatusPending, PaymentPaid)
	before := *bk

	err := bk.ChangeStatus(StatusComplete, "staff-1", "should not stick")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeIllegalTransition))

	assert.Equal(t, before.Status(), bk.Status())
	assert.Equal(t, before.PaymentStatus(), bk.PaymentStatus())
	assert.Equal(t, before.Note(), bk.Note())
	assert.Equal(t, before.UpdatedBy(), bk.UpdatedBy())
	assert.Equal(t, before.UpdatedAt(), bk.UpdatedAt())
}

func TestChangeStatus_FromTerminal(t *testing.T) {
	bk := newTestBooking(t, StatusComplete, PaymentPaid)
	err := bk.ChangeStatus(StatusPending, "staff-1", "")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeTerminalState))
}

func TestChangeStatus_InvalidRequested(t *testing.T) {
	bk := newTestBooking(t, StatusPending, PaymentPending)
	err := bk.ChangeStatus(BookingStatus(42), "staff-1", "")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestChangePaymentStatus(t *testing.T) {
	bk := newTestBooking(t, StatusConfirmed, PaymentPending)

	require.NoError(t, bk.ChangePaymentStatus(PaymentPaid, "staff-2", "card captured"))
	assert.Equal(t, PaymentPaid, bk.PaymentStatus())
	assert.Equal(t, "staff-2", bk.UpdatedBy())
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] Note added for payment status PAID: card captured$`, bk.Note())
}

func TestChangePaymentStatus_FrozenAfterTerminalBookingStatus(t *testing.T) {
	for _, status := range []BookingStatus{StatusCancel, StatusComplete} {
		bk := newTestBooking(t, status, PaymentPending)
		err := bk.ChangePaymentStatus(PaymentPaid, "staff-2", "")
		require.Error(t, err, "payment change should be frozen in %s", status)
		assert.True(t, domain.IsCode(err, domain.CodeTerminalState))
		assert.Equal(t, PaymentPending, bk.PaymentStatus())
	}
}

func TestChangePaymentStatus_IllegalTransition(t *testing.T) {
	bk := newTestBooking(t, StatusConfirmed, PaymentPaid)
	err := bk.ChangePaymentStatus(PaymentRefunded, "staff-2", "manual refund")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeIllegalTransition))
	assert.Equal(t, PaymentPaid, bk.PaymentStatus())
	assert.Empty(t, bk.Note())
}

func TestAddNote(t *testing.T) {
	bk := newTestBooking(t, StatusPending, PaymentPending)

	require.NoError(t, bk.AddNote("customer requested window seats", "staff-3"))
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] Note added: customer requested window seats$`, bk.Note())
	assert.Equal(t, "staff-3", bk.UpdatedBy())
}

func TestAddNote_RejectsEmptyAndWhitespace(t *testing.T) {
	bk := newTestBooking(t, StatusPending, PaymentPending)

	for _, note := range []string{"", "   ", "\t\n"} {
		err := bk.AddNote(note, "staff-3")
		require.Error(t, err, "note %q should be rejected", note)
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	}
	assert.Empty(t, bk.Note())
}

func TestAddNote_AllowedInTerminalStatus(t *testing.T) {
	bk := newTestBooking(t, StatusComplete, PaymentPaid)
	require.NoError(t, bk.AddNote("customer feedback recorded", "staff-3"))
	assert.Contains(t, bk.Note(), "Note added: customer feedback recorded")
}

func TestGenerateBookingNumber_Charset(t *testing.T) {
	for i := 0; i < 50; i++ {
		n, err := generateBookingNumber()
		require.NoError(t, err)
		require.Len(t, n, 9)
		assert.True(t, strings.HasPrefix(n, "TB-"))
		for _, c := range n[3:] {
			assert.Contains(t, bookingNumberChars, string(c))
		}
	}
}
