package repository

import (
	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	Update(db *gorm.DB, patient *entity.Patient) error
	// Deactivate hides an active patient; it returns the affected row count.
	Deactivate(db *gorm.DB, id uuid.UUID) (int64, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByBranch(db *gorm.DB, branchID uuid.UUID) ([]entity.Patient, error)
	ExistsByCardID(db *gorm.DB, cardID string) (bool, error)
}
