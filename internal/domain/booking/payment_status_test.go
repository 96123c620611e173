package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvista/service-tours/pkg/domain"
)

func TestValidatePaymentTransition(t *testing.T) {
	tests := []struct {
		current   PaymentStatus
		requested PaymentStatus
		wantCode  domain.ErrorCode // empty means allowed
	}{
		{PaymentPending, PaymentPaid, ""},
		{PaymentPending, PaymentCancelled, ""},
		{PaymentPending, PaymentRefunded, domain.CodeIllegalTransition},
		{PaymentPending, PaymentPending, domain.CodeIllegalTransition},
		{PaymentPaid, PaymentCancelled, ""},
		{PaymentPaid, PaymentPaid, domain.CodeIllegalTransition},
		{PaymentPaid, PaymentPending, domain.CodeIllegalTransition},
		{PaymentPaid, PaymentRefunded, domain.CodeIllegalTransition},
		{PaymentCancelled, PaymentPaid, domain.CodeTerminalState},
		{PaymentCancelled, PaymentPending, domain.CodeTerminalState},
		{PaymentRefunded, PaymentPaid, domain.CodeTerminalState},
		{PaymentRefunded, PaymentCancelled, domain.CodeTerminalState},
	}

	for _, tt := range tests {
		err := ValidatePaymentTransition(tt.current, tt.requested)
		if tt.wantCode == "" {
			assert.NoError(t, err, "%s -> %s should be allowed", tt.current, tt.requested)
		} else {
			require.Error(t, err, "%s -> %s should be rejected", tt.current, tt.requested)
			assert.True(t, domain.IsCode(err, tt.wantCode),
				"%s -> %s should fail with %s, got %v", tt.current, tt.requested, tt.wantCode, err)
		}
	}
}

func TestValidatePaymentTransition_InvalidRequested(t *testing.T) {
	err := ValidatePaymentTransition(PaymentPending, PaymentStatus("VOIDED"))
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestValidatePaymentTransition_UnknownCurrentIsTerminal(t *testing.T) {
	// Values written out-of-band are frozen rather than guessed at.
	err := ValidatePaymentTransition(PaymentStatus("CHARGEBACK"), PaymentPaid)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeTerminalState))
}

func TestDeriveCancellationPaymentEffect(t *testing.T) {
	assert.Equal(t, PaymentCancelled, DeriveCancellationPaymentEffect(PaymentPending))
	assert.Equal(t, PaymentRefunded, DeriveCancellationPaymentEffect(PaymentPaid))
	assert.Equal(t, PaymentCancelled, DeriveCancellationPaymentEffect(PaymentCancelled))
	assert.Equal(t, PaymentRefunded, DeriveCancellationPaymentEffect(PaymentRefunded))
	assert.Equal(t, PaymentStatus("CHARGEBACK"), DeriveCancellationPaymentEffect(PaymentStatus("CHARGEBACK")))
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	assert.False(t, PaymentPending.IsTerminal())
	assert.False(t, PaymentPaid.IsTerminal())
	assert.True(t, PaymentCancelled.IsTerminal())
	assert.True(t, PaymentRefunded.IsTerminal())
	assert.True(t, PaymentStatus("CHARGEBACK").IsTerminal())
}

func TestParsePaymentStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "PAID", "CANCELLED", "REFUNDED"} {
		p, err := ParsePaymentStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, p.String())
	}

	_, err := ParsePaymentStatus("paid")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}
