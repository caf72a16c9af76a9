package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterXRayFileRequest struct {
	PatientID   string `json:"patient_id" validate:"required,uuid"`
	TreatmentID string `json:"treatment_id" validate:"omitempty,uuid"`
	FileType    string `json:"file_type" validate:"required,oneof=jpg jpeg png dicom pdf"`
	FileURL     string `json:"file_url" validate:"required,url"`
	FileSize    int64  `json:"file_size" validate:"gte=0"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// Response DTOs

type XRayRequestResponse struct {
	ID          uuid.UUID  `json:"id"`
	PatientID   uuid.UUID  `json:"patient_id"`
	TreatmentID uuid.UUID  `json:"treatment_id"`
	DoctorID    uuid.UUID  `json:"doctor_id"`
	BranchID    uuid.UUID  `json:"branch_id"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type XRayRequestListResponse struct {
	Requests []XRayRequestResponse `json:"requests"`
	Total    int                   `json:"total"`
}

type XRayFileResponse struct {
	ID          uuid.UUID  `json:"id"`
	PatientID   uuid.UUID  `json:"patient_id"`
	TreatmentID *uuid.UUID `json:"treatment_id,omitempty"`
	BranchID    uuid.UUID  `json:"branch_id"`
	UploadedBy  uuid.UUID  `json:"uploaded_by"`
	FileType    string     `json:"file_type"`
	FileURL     string     `json:"file_url"`
	FileSize    int64      `json:"file_size"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type XRayFileListResponse struct {
	Files []XRayFileResponse `json:"files"`
	Total int                `json:"total"`
}
