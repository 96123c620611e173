package booking

import (
	"fmt"
	"strings"

	"github.com/tourvista/service-tours/pkg/domain"
)

// BookingStatus is the lifecycle state of a booking. It is persisted as a
// small integer code (status_type_id).
type BookingStatus int

const (
	StatusPending BookingStatus = iota + 1
	StatusConfirmed
	StatusInProgress
	StatusCancel
	StatusComplete
)

var statusNames = map[BookingStatus]string{
	StatusPending:    "Pending",
	StatusConfirmed:  "Confirmed",
	StatusInProgress: "InProgress",
	StatusCancel:     "Cancel",
	StatusComplete:   "Complete",
}

var statusDisplayNames = map[BookingStatus]string{
	StatusPending:    "Pending",
	StatusConfirmed:  "Confirmed",
	StatusInProgress: "In Progress",
	StatusCancel:     "Cancel",
	StatusComplete:   "Complete",
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// IsTerminal returns true if no further booking-status transitions are
// possible from this status.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancel || s == StatusComplete
}

// Code returns the integer code stored in the database.
func (s BookingStatus) Code() int {
	return int(s)
}

// String returns the canonical name used in APIs and events.
func (s BookingStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(s))
}

// DisplayName returns the human-readable name used in audit notes.
func (s BookingStatus) DisplayName() string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return s.String()
}

// ParseBookingStatus converts a stored integer code to a BookingStatus.
func ParseBookingStatus(code int) (BookingStatus, error) {
	s := BookingStatus(code)
	if !s.IsValid() {
		return 0, domain.NewValidationError(fmt.Sprintf("invalid booking status code: %d", code))
	}
	return s, nil
}

// ParseBookingStatusName converts a status name to a BookingStatus.
// Matching is case-insensitive and tolerates "In Progress" for InProgress.
func ParseBookingStatusName(name string) (BookingStatus, error) {
	normalized := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	for s, n := range statusNames {
		if strings.ToLower(n) == normalized {
			return s, nil
		}
	}
	return 0, domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", name))
}

// ValidateStatusTransition decides whether a booking may move from current to
// requested. The rules, evaluated in order:
//
//  1. Cancel and Complete are terminal; nothing leaves them.
//  2. From InProgress the only legal targets are Complete and Cancel.
//  3. Cancel and Complete cannot be reached directly from Pending or
//     Confirmed; both require passing through InProgress first.
//  4. Everything else is legal, including re-requesting the current status
//     from Pending or Confirmed.
func ValidateStatusTransition(current, requested BookingStatus) error {
	switch {
	case current.IsTerminal():
		return domain.NewTerminalStateError(current.DisplayName())
	case current == StatusInProgress:
		if requested == StatusComplete || requested == StatusCancel {
			return nil
		}
		return domain.NewIllegalTransitionError(current.DisplayName(), requested.DisplayName())
	case requested == StatusCancel || requested == StatusComplete:
		return domain.NewIllegalTransitionError(current.DisplayName(), requested.DisplayName())
	}
	return nil
}
