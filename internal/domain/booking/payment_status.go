package booking

import (
	"fmt"

	"github.com/tourvista/service-tours/pkg/domain"
)

// PaymentStatus is the financial settlement state of a booking, independent
// of the lifecycle status except for the cancellation-derivation rule below.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// paymentTransitions is the allowed payment-status graph. CANCELLED and
// REFUNDED are terminal. Values missing from the map (out-of-band writes)
// are treated as terminal too.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentPaid, PaymentCancelled},
	PaymentPaid:      {PaymentCancelled},
	PaymentCancelled: {},
	PaymentRefunded:  {},
}

// IsValid returns true if the payment status is recognized.
func (p PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[p]
	return ok
}

// IsTerminal returns true if no outbound payment transitions are permitted.
func (p PaymentStatus) IsTerminal() bool {
	allowed, ok := paymentTransitions[p]
	if !ok {
		return true
	}
	return len(allowed) == 0
}

// String returns the stored string value.
func (p PaymentStatus) String() string {
	return string(p)
}

// ParsePaymentStatus converts a string to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	p := PaymentStatus(s)
	if !p.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid payment status: %s", s))
	}
	return p, nil
}

// ValidatePaymentTransition decides whether a caller-requested payment-status
// change is legal. PENDING may move to PAID or CANCELLED; PAID may move to
// CANCELLED; everything else is terminal.
func ValidatePaymentTransition(current, requested PaymentStatus) error {
	if !requested.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid payment status: %s", requested))
	}
	allowed, ok := paymentTransitions[current]
	if !ok || len(allowed) == 0 {
		return domain.NewTerminalStateError(string(current))
	}
	for _, t := range allowed {
		if t == requested {
			return nil
		}
	}
	return domain.NewIllegalTransitionError(string(current), string(requested))
}

// DeriveCancellationPaymentEffect computes the payment status that a booking
// cancellation forces. It is system-derived and deliberately bypasses
// ValidatePaymentTransition: a pending payment is cancelled, a captured
// payment is refunded, and anything else is left untouched.
func DeriveCancellationPaymentEffect(current PaymentStatus) PaymentStatus {
	switch current {
	case PaymentPending:
		return PaymentCancelled
	case PaymentPaid:
		return PaymentRefunded
	default:
		return current
	}
}
