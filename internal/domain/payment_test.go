package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Payment Status Validation Tests
// ============================================================================

func TestValidPaymentStatuses_ContainsAll(t *testing.T) {
	expected := []string{PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed}
	assert.ElementsMatch(t, expected, ValidPaymentStatuses())
}

func TestIsValidPaymentStatus_Invalid(t *testing.T) {
	assert.False(t, IsValidPaymentStatus("unknown"))
	assert.False(t, IsValidPaymentStatus(""))
	assert.False(t, IsValidPaymentStatus("COMPLETED"))
}

// ============================================================================
// Payment Method Validation Tests
// ============================================================================

func TestValidPaymentMethods_ContainsAll(t *testing.T) {
	assert.ElementsMatch(t, []string{PaymentMethodCash, PaymentMethodRazorpay}, ValidPaymentMethods())
}

func TestIsValidPaymentMethod_Invalid(t *testing.T) {
	assert.False(t, IsValidPaymentMethod("card"))
	assert.False(t, IsValidPaymentMethod(""))
}

// ============================================================================
// Payment Transition Tests
// ============================================================================

func TestPaymentCanTransitionTo_FromPending(t *testing.T) {
	p := &Payment{Status: PaymentStatusPending}
	assert.True(t, p.CanTransitionTo(PaymentStatusCompleted))
	assert.True(t, p.CanTransitionTo(PaymentStatusFailed))
	assert.False(t, p.CanTransitionTo(PaymentStatusPending))
}

func TestPaymentCanTransitionTo_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []string{PaymentStatusCompleted, PaymentStatusFailed} {
		p := &Payment{Status: terminal}
		for _, target := range ValidPaymentStatuses() {
			assert.False(t, p.CanTransitionTo(target),
				"expected no transition out of %s", terminal)
		}
	}
}

func TestPaymentIsTerminal(t *testing.T) {
	assert.False(t, (&Payment{Status: PaymentStatusPending}).IsTerminal())
	assert.True(t, (&Payment{Status: PaymentStatusCompleted}).IsTerminal())
	assert.True(t, (&Payment{Status: PaymentStatusFailed}).IsTerminal())
}

// ============================================================================
// Transaction ID Tests
// ============================================================================

func TestNewTransactionID_Prefixes(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewTransactionID(PaymentMethodCash), "COD-"))
	assert.True(t, strings.HasPrefix(NewTransactionID(PaymentMethodRazorpay), "RAZ-"))
}

func TestNewTransactionID_Distinct(t *testing.T) {
	a := NewTransactionID(PaymentMethodCash)
	b := NewTransactionID(PaymentMethodCash)
	assert.NotEqual(t, a, b)
}
