package entity

import "github.com/google/uuid"

// Domain-level filters used by the repository layer to avoid coupling with delivery DTOs.

// Pagination is a 1-based page window. Zero values mean "no limit".
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p Pagination) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type TreatmentFilter struct {
	BranchID  uuid.UUID
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    TreatmentStatus
	StartAt   string // Format: YYYY-MM-DD
	EndAt     string // Format: YYYY-MM-DD
}

type InvoiceFilter struct {
	BranchID  uuid.UUID
	PatientID *uuid.UUID
	Status    InvoiceStatus
	Search    string // Invoice number (ILIKE)
	Pagination
}

type XRayRequestFilter struct {
	BranchID uuid.UUID
	Status   XRayRequestStatus
}

type AuditLogFilter struct {
	UserID   *uuid.UUID
	Action   string
	Resource string
	Pagination
}

type UserFilter struct {
	BranchID *uuid.UUID
	Role     Role
}
