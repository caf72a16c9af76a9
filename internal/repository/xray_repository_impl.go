package repository

import (
	"errors"

	"clinic-management/internal/domain/entity"
	domainRepo "clinic-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type xrayRequestRepository struct{}

func NewXRayRequestRepository() domainRepo.XRayRequestRepository {
	return &xrayRequestRepository{}
}

func (r *xrayRequestRepository) Create(db *gorm.DB, request *entity.XRayRequest) error {
	return db.Create(request).Error
}

func (r *xrayRequestRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.XRayRequest, error) {
	var request entity.XRayRequest
	err := db.Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *xrayRequestRepository) FindAll(db *gorm.DB, filter *entity.XRayRequestFilter) ([]entity.XRayRequest, error) {
	var requests []entity.XRayRequest
	query := db
	if filter != nil {
		query = query.Where("branch_id = ?", filter.BranchID)
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
	}
	if err := query.Order("requested_at ASC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Complete atomically completes a request ONLY if it is still requested.
func (r *xrayRequestRepository) Complete(db *gorm.DB, request *entity.XRayRequest) (int64, error) {
	result := db.Model(&entity.XRayRequest{}).
		Where("id = ? AND status = ?", request.ID, entity.XRayRequestStatusRequested).
		Updates(map[string]interface{}{
			"status":       entity.XRayRequestStatusCompleted,
			"completed_at": request.CompletedAt,
			"updated_at":   request.UpdatedAt,
		})
	return result.RowsAffected, result.Error
}

type xrayFileRepository struct{}

func NewXRayFileRepository() domainRepo.XRayFileRepository {
	return &xrayFileRepository{}
}

func (r *xrayFileRepository) Create(db *gorm.DB, file *entity.XRayFile) error {
	return db.Create(file).Error
}

func (r *xrayFileRepository) FindByBranch(db *gorm.DB, branchID uuid.UUID, patientID *uuid.UUID) ([]entity.XRayFile, error) {
	var files []entity.XRayFile
	query := db.Where("branch_id = ? AND is_active = ?", branchID, true)
	if patientID != nil {
		query = query.Where("patient_id = ?", *patientID)
	}
	if err := query.Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}
