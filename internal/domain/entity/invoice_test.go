package entity

import (
	"testing"
	"time"

	"clinic-management/internal/domain/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestInvoice(t *testing.T, lines ...TreatmentService) *Invoice {
	t.Helper()
	treatment := &Treatment{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		BranchID:  uuid.New(),
		Status:    TreatmentStatusCompleted,
	}
	issued := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	return NewInvoice("INV-20240315-0001", treatment, lines, issued)
}

func scenarioLines() []TreatmentService {
	return []TreatmentService{
		{Quantity: 1, PriceAtTime: dec("750.00")},
		{Quantity: 2, PriceAtTime: dec("100.00")},
	}
}

func TestNewInvoice_Totals(t *testing.T) {
	inv := newTestInvoice(t, scenarioLines()...)

	assert.True(t, inv.Subtotal.Equal(dec("950")), "subtotal %s", inv.Subtotal)
	assert.True(t, inv.Tax.Equal(dec("95")), "tax %s", inv.Tax)
	assert.True(t, inv.Discount.IsZero())
	assert.True(t, inv.TotalAmount.Equal(dec("1045")), "total %s", inv.TotalAmount)
	assert.True(t, inv.AmountPaid.IsZero())
	assert.True(t, inv.BalanceRemaining.Equal(dec("1045")))
	assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
	assert.Equal(t, inv.InvoiceDate.AddDate(0, 0, 30), inv.DueDate)
	assert.True(t, inv.IsConsistent())
}

func TestNewInvoice_TaxIsRoundedToCents(t *testing.T) {
	inv := newTestInvoice(t, TreatmentService{Quantity: 3, PriceAtTime: dec("33.35")})

	assert.True(t, inv.Subtotal.Equal(dec("100.05")))
	assert.True(t, inv.Tax.Equal(dec("10.01")), "tax %s", inv.Tax)
	assert.True(t, inv.TotalAmount.Equal(dec("110.06")))
}

func TestNewInvoice_ZeroTotalIsPaid(t *testing.T) {
	inv := newTestInvoice(t)

	assert.True(t, inv.TotalAmount.IsZero())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
}

func TestApplyPayment_PartialThenPaid(t *testing.T) {
	inv := newTestInvoice(t, scenarioLines()...)
	at := inv.InvoiceDate.Add(time.Hour)

	require.NoError(t, inv.ApplyPayment(dec("500"), at))
	assert.True(t, inv.AmountPaid.Equal(dec("500")))
	assert.True(t, inv.BalanceRemaining.Equal(dec("545")))
	assert.Equal(t, InvoiceStatusPartial, inv.Status)

	require.NoError(t, inv.ApplyPayment(dec("545"), at))
	assert.True(t, inv.BalanceRemaining.IsZero())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.IsConsistent())
}

func TestApplyPayment_RejectionLeavesInvoiceUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   error
	}{
		{name: "exceeds balance", amount: "600", want: ErrPaymentExceedsBalance},
		{name: "zero", amount: "0", want: ErrPaymentNotPositive},
		{name: "negative", amount: "-10", want: ErrPaymentNotPositive},
		{name: "rounds to zero", amount: "0.004", want: ErrPaymentNotPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice(t, scenarioLines()...)
			require.NoError(t, inv.ApplyPayment(dec("500"), inv.InvoiceDate))
			before := *inv

			err := inv.ApplyPayment(dec(tt.amount), inv.InvoiceDate.Add(time.Hour))

			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperror.InvalidPayment)
			assert.Equal(t, before, *inv)
		})
	}
}

func TestApplyPayment_ClearsOverride(t *testing.T) {
	inv := newTestInvoice(t, scenarioLines()...)
	by := uuid.New()

	require.NoError(t, inv.ForceStatus(InvoiceStatusPaid, "written off", by, inv.InvoiceDate))
	assert.True(t, inv.IsStatusOverridden())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.IsConsistent())

	require.NoError(t, inv.ApplyPayment(dec("100"), inv.InvoiceDate))
	assert.False(t, inv.IsStatusOverridden())
	assert.Nil(t, inv.StatusOverriddenBy)
	assert.Equal(t, InvoiceStatusPartial, inv.Status)
}

func TestForceStatus_Validation(t *testing.T) {
	inv := newTestInvoice(t, scenarioLines()...)

	assert.ErrorIs(t, inv.ForceStatus(InvoiceStatus("void"), "x", uuid.New(), time.Now()), apperror.InvalidTransition)
	assert.ErrorIs(t, inv.ForceStatus(InvoiceStatusPaid, "", uuid.New(), time.Now()), apperror.Validation)
	assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
}

func TestDeriveInvoiceStatus(t *testing.T) {
	tests := []struct {
		paid, total string
		want        InvoiceStatus
	}{
		{"0", "100", InvoiceStatusUnpaid},
		{"0.01", "100", InvoiceStatusPartial},
		{"99.99", "100", InvoiceStatusPartial},
		{"100", "100", InvoiceStatusPaid},
		{"0", "0", InvoiceStatusPaid},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveInvoiceStatus(dec(tt.paid), dec(tt.total)), "paid=%s total=%s", tt.paid, tt.total)
	}
}
