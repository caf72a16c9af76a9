package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is a catalog entry offered by a branch.
// Its price is copied into TreatmentService rows at the time of use.
type Service struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BranchID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

func (s Service) InBranch(branchID uuid.UUID) bool {
	return s.BranchID == branchID
}

// IsUsableIn reports whether the service can be added to a treatment of branchID.
func (s Service) IsUsableIn(branchID uuid.UUID) bool {
	return s.IsActive && s.BranchID == branchID
}
