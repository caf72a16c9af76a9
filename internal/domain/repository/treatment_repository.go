package repository

import (
	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TreatmentRepository interface {
	Create(db *gorm.DB, treatment *entity.Treatment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Treatment, error)
	FindAll(db *gorm.DB, filter *entity.TreatmentFilter) ([]entity.Treatment, error)
	// UpdateWithVersion writes treatment only if the stored version is still
	// expectedVersion and bumps it. 0 affected rows means a concurrent write won.
	UpdateWithVersion(db *gorm.DB, treatment *entity.Treatment, expectedVersion int) (int64, error)
}

type TreatmentServiceRepository interface {
	Create(db *gorm.DB, line *entity.TreatmentService) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TreatmentService, error)
	FindByTreatmentID(db *gorm.DB, treatmentID uuid.UUID) ([]entity.TreatmentService, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
