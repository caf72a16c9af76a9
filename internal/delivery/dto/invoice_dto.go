package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" validate:"required,oneof=cash card check bank_transfer"`
	Notes  string          `json:"notes" validate:"omitempty,max=1000"`
}

type ForceInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unpaid partial paid"`
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

// InvoiceQuery is the list filter parsed from the query string.
type InvoiceQuery struct {
	PatientID string `validate:"omitempty,uuid"`
	Status    string `validate:"omitempty,oneof=unpaid partial paid"`
	Search    string `validate:"omitempty,max=32"`
	Page      int    `validate:"gte=0"`
	Limit     int    `validate:"gte=0,lte=100"`
}

// Response DTOs

type InvoiceResponse struct {
	ID                   uuid.UUID       `json:"id"`
	TreatmentID          uuid.UUID       `json:"treatment_id"`
	PatientID            uuid.UUID       `json:"patient_id"`
	DoctorID             uuid.UUID       `json:"doctor_id"`
	BranchID             uuid.UUID       `json:"branch_id"`
	InvoiceNumber        string          `json:"invoice_number"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	Tax                  decimal.Decimal `json:"tax"`
	Discount             decimal.Decimal `json:"discount"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	AmountPaid           decimal.Decimal `json:"amount_paid"`
	BalanceRemaining     decimal.Decimal `json:"balance_remaining"`
	Status               string          `json:"status"`
	InvoiceDate          time.Time       `json:"invoice_date"`
	DueDate              time.Time       `json:"due_date"`
	Version              int             `json:"version"`
	StatusOverrideReason string          `json:"status_override_reason,omitempty"`
	StatusOverriddenBy   *uuid.UUID      `json:"status_overridden_by,omitempty"`
	StatusOverriddenAt   *time.Time      `json:"status_overridden_at,omitempty"`
}

type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int64             `json:"total"`
}

type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	PaymentDate time.Time       `json:"payment_date"`
}

type PaymentResultResponse struct {
	Invoice InvoiceResponse `json:"invoice"`
	Payment PaymentResponse `json:"payment"`
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int               `json:"total"`
}

// StatusUpdateResponse is returned by a treatment status change; Invoice is set on completion.
type StatusUpdateResponse struct {
	Treatment TreatmentResponse `json:"treatment"`
	Invoice   *InvoiceResponse  `json:"invoice,omitempty"`
}
