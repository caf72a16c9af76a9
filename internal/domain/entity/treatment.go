package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TreatmentStatus represents the status of a treatment
type TreatmentStatus string

const (
	TreatmentStatusPending    TreatmentStatus = "pending"
	TreatmentStatusInProgress TreatmentStatus = "in_progress"
	TreatmentStatusCompleted  TreatmentStatus = "completed"
	TreatmentStatusCancelled  TreatmentStatus = "cancelled"
)

func (s TreatmentStatus) IsValid() bool {
	switch s {
	case TreatmentStatusPending, TreatmentStatusInProgress, TreatmentStatusCompleted, TreatmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further edits are allowed in this status.
func (s TreatmentStatus) IsTerminal() bool {
	return s == TreatmentStatusCompleted || s == TreatmentStatusCancelled
}

// Treatment is a visit performed by a doctor. TotalCost is a projection of the
// treatment's service rows and is recomputed on every write to them.
type Treatment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"doctor_id"`
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	Status        TreatmentStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	TreatmentDate time.Time       `gorm:"not null" json:"treatment_date"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_cost"`
	Version       int             `gorm:"not null" json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Treatment) TableName() string {
	return "treatments"
}

func (t Treatment) InBranch(branchID uuid.UUID) bool {
	return t.BranchID == branchID
}

// IsCompleted checks if treatment is completed
func (t *Treatment) IsCompleted() bool {
	return t.Status == TreatmentStatusCompleted
}

// IsTerminal checks if treatment can no longer be edited
func (t *Treatment) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// Recalculate refreshes TotalCost from the treatment's service rows.
func (t *Treatment) Recalculate(services []TreatmentService) {
	t.TotalCost = SumServices(services)
}
