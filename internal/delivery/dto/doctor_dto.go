package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	UserID          string   `json:"user_id" validate:"required,uuid"`
	LicenseNumber   string   `json:"license_number" validate:"required,max=50"`
	Specialties     []string `json:"specialties" validate:"omitempty,dive,required"`
	Qualifications  string   `json:"qualifications" validate:"omitempty"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0,lte=80"`
}

type UpdateDoctorRequest struct {
	LicenseNumber   string   `json:"license_number" validate:"omitempty,max=50"`
	Specialties     []string `json:"specialties" validate:"omitempty,dive,required"`
	Qualifications  *string  `json:"qualifications" validate:"omitempty"`
	ExperienceYears *int     `json:"experience_years" validate:"omitempty,gte=0,lte=80"`
	IsActive        *bool    `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	BranchID        uuid.UUID `json:"branch_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	FullName        string    `json:"full_name"`
	LicenseNumber   string    `json:"license_number"`
	Specialties     []string  `json:"specialties"`
	Qualifications  string    `json:"qualifications,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
