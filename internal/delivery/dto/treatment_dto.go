package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateTreatmentRequest struct {
	PatientID     string `json:"patient_id" validate:"required,uuid"`
	DoctorID      string `json:"doctor_id" validate:"omitempty,uuid"` // defaults to the calling doctor
	TreatmentDate string `json:"treatment_date" validate:"omitempty"` // RFC3339 or YYYY-MM-DD, defaults to now
	Notes         string `json:"notes" validate:"omitempty,max=5000"`
}

type UpdateTreatmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AddTreatmentServiceRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type UpdateTreatmentNotesRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

type RequestXRayRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

// TreatmentQuery is the list filter parsed from the query string.
type TreatmentQuery struct {
	PatientID string `validate:"omitempty,uuid"`
	DoctorID  string `validate:"omitempty,uuid"`
	Status    string `validate:"omitempty,oneof=pending in_progress completed cancelled"`
	StartAt   string `validate:"omitempty,datetime=2006-01-02"`
	EndAt     string `validate:"omitempty,datetime=2006-01-02"`
}

// Response DTOs

type TreatmentServiceResponse struct {
	ID          uuid.UUID       `json:"id"`
	ServiceID   uuid.UUID       `json:"service_id"`
	ServiceName string          `json:"service_name,omitempty"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type TreatmentResponse struct {
	ID            uuid.UUID                  `json:"id"`
	PatientID     uuid.UUID                  `json:"patient_id"`
	DoctorID      uuid.UUID                  `json:"doctor_id"`
	BranchID      uuid.UUID                  `json:"branch_id"`
	Status        string                     `json:"status"`
	TreatmentDate time.Time                  `json:"treatment_date"`
	Notes         string                     `json:"notes,omitempty"`
	TotalCost     decimal.Decimal            `json:"total_cost"`
	Version       int                        `json:"version"`
	Services      []TreatmentServiceResponse `json:"services,omitempty"`
	Invoice       *InvoiceResponse           `json:"invoice,omitempty"`
	CanEdit       bool                       `json:"can_edit"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

type TreatmentListResponse struct {
	Treatments []TreatmentResponse `json:"treatments"`
	Total      int                 `json:"total"`
}
