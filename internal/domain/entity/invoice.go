package entity

import (
	"time"

	"clinic-management/internal/domain/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// InvoiceTaxRate is applied to the subtotal of every generated invoice.
var InvoiceTaxRate = decimal.RequireFromString("0.10")

// InvoiceDueDays is the payment term of a generated invoice.
const InvoiceDueDays = 30

var (
	ErrPaymentNotPositive     = apperror.New(apperror.KindInvalidPayment, "payment amount must be greater than zero")
	ErrPaymentExceedsBalance  = apperror.New(apperror.KindInvalidPayment, "payment amount exceeds balance")
	ErrInvalidInvoiceStatus   = apperror.New(apperror.KindInvalidTransition, "invalid invoice status")
	ErrOverrideReasonRequired = apperror.New(apperror.KindValidation, "a reason is required to override invoice status")
)

// Invoice bills a completed treatment. At most one exists per treatment.
type Invoice struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TreatmentID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"treatment_id"`
	PatientID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"doctor_id"`
	BranchID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	InvoiceNumber    string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"invoice_number"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax              decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Discount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	AmountPaid       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_paid"`
	BalanceRemaining decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance_remaining"`
	Status           InvoiceStatus   `gorm:"type:varchar(16);not null;index" json:"status"`
	InvoiceDate      time.Time       `gorm:"not null" json:"invoice_date"`
	DueDate          time.Time       `gorm:"not null" json:"due_date"`
	Version          int             `gorm:"not null" json:"version"`

	// Set only by an administrative status override.
	StatusOverrideReason string     `gorm:"type:text" json:"status_override_reason,omitempty"`
	StatusOverriddenBy   *uuid.UUID `gorm:"type:uuid" json:"status_overridden_by,omitempty"`
	StatusOverriddenAt   *time.Time `json:"status_overridden_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (inv Invoice) InBranch(branchID uuid.UUID) bool {
	return inv.BranchID == branchID
}

// DeriveInvoiceStatus is the single rule mapping payment progress to a status.
func DeriveInvoiceStatus(amountPaid, totalAmount decimal.Decimal) InvoiceStatus {
	balance := Round2(totalAmount.Sub(amountPaid))
	switch {
	case balance.LessThanOrEqual(decimal.Zero):
		return InvoiceStatusPaid
	case amountPaid.GreaterThan(decimal.Zero):
		return InvoiceStatusPartial
	default:
		return InvoiceStatusUnpaid
	}
}

// NewInvoice bills the given service lines of a treatment.
func NewInvoice(number string, treatment *Treatment, services []TreatmentService, issuedAt time.Time) *Invoice {
	subtotal := SumServices(services)
	tax := Round2(subtotal.Mul(InvoiceTaxRate))
	discount := decimal.Zero
	total := Round2(subtotal.Add(tax).Sub(discount))
	amountPaid := decimal.Zero

	return &Invoice{
		ID:               uuid.New(),
		TreatmentID:      treatment.ID,
		PatientID:        treatment.PatientID,
		DoctorID:         treatment.DoctorID,
		BranchID:         treatment.BranchID,
		InvoiceNumber:    number,
		Subtotal:         subtotal,
		Tax:              tax,
		Discount:         discount,
		TotalAmount:      total,
		AmountPaid:       amountPaid,
		BalanceRemaining: total,
		Status:           DeriveInvoiceStatus(amountPaid, total),
		InvoiceDate:      issuedAt,
		DueDate:          issuedAt.AddDate(0, 0, InvoiceDueDays),
		CreatedAt:        issuedAt,
		UpdatedAt:        issuedAt,
	}
}

// ApplyPayment adds amount to the running totals and re-derives the status.
// On error the invoice is left unchanged.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal, at time.Time) error {
	amount = Round2(amount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrPaymentNotPositive
	}
	if amount.GreaterThan(inv.BalanceRemaining) {
		return ErrPaymentExceedsBalance
	}

	inv.AmountPaid = Round2(inv.AmountPaid.Add(amount))
	inv.BalanceRemaining = Round2(inv.TotalAmount.Sub(inv.AmountPaid))
	inv.Status = DeriveInvoiceStatus(inv.AmountPaid, inv.TotalAmount)
	inv.clearOverride()
	inv.UpdatedAt = at
	return nil
}

// ForceStatus sets the status by administrative decision, independent of the paid amounts.
func (inv *Invoice) ForceStatus(status InvoiceStatus, reason string, by uuid.UUID, at time.Time) error {
	if !status.IsValid() {
		return ErrInvalidInvoiceStatus
	}
	if reason == "" {
		return ErrOverrideReasonRequired
	}

	inv.Status = status
	inv.StatusOverrideReason = reason
	inv.StatusOverriddenBy = &by
	inv.StatusOverriddenAt = &at
	inv.UpdatedAt = at
	return nil
}

// IsStatusOverridden reports whether the current status was set by ForceStatus.
func (inv *Invoice) IsStatusOverridden() bool {
	return inv.StatusOverrideReason != ""
}

// IsConsistent reports whether the stored totals and status agree with the derivation rules.
func (inv *Invoice) IsConsistent() bool {
	if !inv.TotalAmount.Equal(Round2(inv.Subtotal.Add(inv.Tax).Sub(inv.Discount))) {
		return false
	}
	if !inv.BalanceRemaining.Equal(Round2(inv.TotalAmount.Sub(inv.AmountPaid))) {
		return false
	}
	return inv.IsStatusOverridden() || inv.Status == DeriveInvoiceStatus(inv.AmountPaid, inv.TotalAmount)
}

func (inv *Invoice) clearOverride() {
	inv.StatusOverrideReason = ""
	inv.StatusOverriddenBy = nil
	inv.StatusOverriddenAt = nil
}
