package repository

import (
	"errors"

	"clinic-management/internal/domain/entity"
	domainRepo "clinic-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type treatmentRepository struct{}

func NewTreatmentRepository() domainRepo.TreatmentRepository {
	return &treatmentRepository{}
}

func (r *treatmentRepository) Create(db *gorm.DB, treatment *entity.Treatment) error {
	return db.Create(treatment).Error
}

func (r *treatmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Treatment, error) {
	var treatment entity.Treatment
	err := db.Where("id = ?", id).First(&treatment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &treatment, nil
}

func (r *treatmentRepository) FindAll(db *gorm.DB, filter *entity.TreatmentFilter) ([]entity.Treatment, error) {
	var treatments []entity.Treatment
	query := db
	if filter != nil {
		query = query.Where("branch_id = ?", filter.BranchID)
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.DoctorID != nil {
			query = query.Where("doctor_id = ?", *filter.DoctorID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.StartAt != "" {
			query = query.Where("treatment_date >= ?", filter.StartAt)
		}
		if filter.EndAt != "" {
			query = query.Where("treatment_date < (?::date + 1)", filter.EndAt)
		}
	}
	if err := query.Order("treatment_date DESC").Find(&treatments).Error; err != nil {
		return nil, err
	}
	return treatments, nil
}

// UpdateWithVersion bumps the version on success and leaves treatment untouched otherwise.
func (r *treatmentRepository) UpdateWithVersion(db *gorm.DB, treatment *entity.Treatment, expectedVersion int) (int64, error) {
	result := db.Model(&entity.Treatment{}).
		Where("id = ? AND version = ?", treatment.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     treatment.Status,
			"notes":      treatment.Notes,
			"total_cost": treatment.TotalCost,
			"version":    expectedVersion + 1,
			"updated_at": treatment.UpdatedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		treatment.Version = expectedVersion + 1
	}
	return result.RowsAffected, nil
}

type treatmentServiceRepository struct{}

func NewTreatmentServiceRepository() domainRepo.TreatmentServiceRepository {
	return &treatmentServiceRepository{}
}

func (r *treatmentServiceRepository) Create(db *gorm.DB, line *entity.TreatmentService) error {
	return db.Omit("Service").Create(line).Error
}

func (r *treatmentServiceRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TreatmentService, error) {
	var line entity.TreatmentService
	err := db.Where("id = ?", id).First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *treatmentServiceRepository) FindByTreatmentID(db *gorm.DB, treatmentID uuid.UUID) ([]entity.TreatmentService, error) {
	var lines []entity.TreatmentService
	err := db.Preload("Service").
		Where("treatment_id = ?", treatmentID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *treatmentServiceRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.TreatmentService{})
	return result.RowsAffected, result.Error
}
