package repository

import (
	"errors"

	"clinic-management/internal/domain/entity"
	domainRepo "clinic-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type branchRepository struct{}

func NewBranchRepository() domainRepo.BranchRepository {
	return &branchRepository{}
}

func (r *branchRepository) Create(db *gorm.DB, branch *entity.Branch) error {
	return db.Create(branch).Error
}

func (r *branchRepository) Update(db *gorm.DB, branch *entity.Branch) error {
	return db.Save(branch).Error
}

func (r *branchRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Branch, error) {
	var branch entity.Branch
	err := db.Where("id = ?", id).First(&branch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepository) FindAll(db *gorm.DB, activeOnly bool) ([]entity.Branch, error) {
	var branches []entity.Branch
	query := db
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("name ASC").Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

func (r *branchRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Branch{}).Count(&count).Error
	return count, err
}
