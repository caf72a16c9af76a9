package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	AssignedDoctorID      string `json:"assigned_doctor_id" validate:"omitempty,uuid"`
	FirstName             string `json:"first_name" validate:"required,min=1,max=100"`
	LastName              string `json:"last_name" validate:"omitempty,max=100"`
	Email                 string `json:"email" validate:"omitempty,email"`
	Phone                 string `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth           string `json:"date_of_birth" validate:"omitempty"` // Format: YYYY-MM-DD
	Gender                string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address               string `json:"address" validate:"omitempty"`
	City                  string `json:"city" validate:"omitempty,max=100"`
	EmergencyContactName  string `json:"emergency_contact_name" validate:"omitempty,max=255"`
	EmergencyContactPhone string `json:"emergency_contact_phone" validate:"omitempty,max=32"`
	MedicalHistory        string `json:"medical_history" validate:"omitempty"`
	DentalHistory         string `json:"dental_history" validate:"omitempty"`
	Allergies             string `json:"allergies" validate:"omitempty"`
	CurrentMedications    string `json:"current_medications" validate:"omitempty"`
}

// UpdatePatientRequest replaces only the fields that are set.
type UpdatePatientRequest struct {
	AssignedDoctorID      *string `json:"assigned_doctor_id" validate:"omitempty"`
	FirstName             string  `json:"first_name" validate:"omitempty,max=100"`
	LastName              string  `json:"last_name" validate:"omitempty,max=100"`
	Email                 string  `json:"email" validate:"omitempty,email"`
	Phone                 string  `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth           string  `json:"date_of_birth" validate:"omitempty"`
	Gender                string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Address               string  `json:"address" validate:"omitempty"`
	City                  string  `json:"city" validate:"omitempty,max=100"`
	EmergencyContactName  string  `json:"emergency_contact_name" validate:"omitempty,max=255"`
	EmergencyContactPhone string  `json:"emergency_contact_phone" validate:"omitempty,max=32"`
	MedicalHistory        string  `json:"medical_history" validate:"omitempty"`
	DentalHistory         string  `json:"dental_history" validate:"omitempty"`
	Allergies             string  `json:"allergies" validate:"omitempty"`
	CurrentMedications    string  `json:"current_medications" validate:"omitempty"`
}

// Response DTOs

type PatientResponse struct {
	ID                    uuid.UUID  `json:"id"`
	BranchID              uuid.UUID  `json:"branch_id"`
	AssignedDoctorID      *uuid.UUID `json:"assigned_doctor_id,omitempty"`
	CardID                string     `json:"card_id"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	Email                 string     `json:"email,omitempty"`
	Phone                 string     `json:"phone,omitempty"`
	DateOfBirth           string     `json:"date_of_birth,omitempty"`
	Gender                string     `json:"gender,omitempty"`
	Address               string     `json:"address,omitempty"`
	City                  string     `json:"city,omitempty"`
	EmergencyContactName  string     `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `json:"emergency_contact_phone,omitempty"`
	MedicalHistory        string     `json:"medical_history,omitempty"`
	DentalHistory         string     `json:"dental_history,omitempty"`
	Allergies             string     `json:"allergies,omitempty"`
	CurrentMedications    string     `json:"current_medications,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
