package repository

import (
	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type XRayRequestRepository interface {
	Create(db *gorm.DB, request *entity.XRayRequest) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.XRayRequest, error)
	FindAll(db *gorm.DB, filter *entity.XRayRequestFilter) ([]entity.XRayRequest, error)
	// Complete moves a requested row to completed. Returns affected rows:
	// 0 means it was already completed.
	Complete(db *gorm.DB, request *entity.XRayRequest) (int64, error)
}

type XRayFileRepository interface {
	Create(db *gorm.DB, file *entity.XRayFile) error
	FindByBranch(db *gorm.DB, branchID uuid.UUID, patientID *uuid.UUID) ([]entity.XRayFile, error)
}
