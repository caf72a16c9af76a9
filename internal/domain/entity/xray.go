package entity

import (
	"time"

	"clinic-management/internal/domain/apperror"

	"github.com/google/uuid"
)

// XRayRequestStatus represents the status of an X-ray request
type XRayRequestStatus string

const (
	XRayRequestStatusRequested XRayRequestStatus = "requested"
	XRayRequestStatusCompleted XRayRequestStatus = "completed"
)

var ErrXRayRequestCompleted = apperror.New(apperror.KindInvalidTransition, "x-ray request is already completed")

// XRayRequest queues an X-ray for the technicians of a branch.
type XRayRequest struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	TreatmentID uuid.UUID         `gorm:"type:uuid;not null;index" json:"treatment_id"`
	DoctorID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	BranchID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"branch_id"`
	Status      XRayRequestStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
	RequestedAt time.Time         `gorm:"not null" json:"requested_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (XRayRequest) TableName() string {
	return "xray_requests"
}

func (r XRayRequest) InBranch(branchID uuid.UUID) bool {
	return r.BranchID == branchID
}

// NewXRayRequest creates a pending request for a treatment.
func NewXRayRequest(treatment *Treatment, notes string, at time.Time) *XRayRequest {
	return &XRayRequest{
		ID:          uuid.New(),
		PatientID:   treatment.PatientID,
		TreatmentID: treatment.ID,
		DoctorID:    treatment.DoctorID,
		BranchID:    treatment.BranchID,
		Status:      XRayRequestStatusRequested,
		Notes:       notes,
		RequestedAt: at,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

// Complete moves the request from requested to completed.
func (r *XRayRequest) Complete(at time.Time) error {
	if r.Status == XRayRequestStatusCompleted {
		return ErrXRayRequestCompleted
	}
	r.Status = XRayRequestStatusCompleted
	r.CompletedAt = &at
	r.UpdatedAt = at
	return nil
}

// XRayFile is the metadata of an image stored elsewhere.
type XRayFile struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	TreatmentID *uuid.UUID `gorm:"type:uuid;index" json:"treatment_id,omitempty"`
	BranchID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id"`
	UploadedBy  uuid.UUID  `gorm:"type:uuid;not null" json:"uploaded_by"`
	FileType    string     `gorm:"type:varchar(16);not null" json:"file_type"`
	FileURL     string     `gorm:"type:text;not null" json:"file_url"`
	FileSize    int64      `gorm:"not null" json:"file_size"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (XRayFile) TableName() string {
	return "xray_files"
}

func (f XRayFile) InBranch(branchID uuid.UUID) bool {
	return f.BranchID == branchID
}
