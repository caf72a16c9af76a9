package repository

import (
	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BranchRepository interface {
	Create(db *gorm.DB, branch *entity.Branch) error
	Update(db *gorm.DB, branch *entity.Branch) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Branch, error)
	FindAll(db *gorm.DB, activeOnly bool) ([]entity.Branch, error)
	Count(db *gorm.DB) (int64, error)
}
