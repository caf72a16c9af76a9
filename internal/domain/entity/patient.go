package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient belongs to one branch. AssignedDoctorID only drives doctor visibility.
type Patient struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BranchID              uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id"`
	AssignedDoctorID      *uuid.UUID `gorm:"type:uuid;index" json:"assigned_doctor_id,omitempty"`
	CardID                string     `gorm:"type:char(8);uniqueIndex;not null" json:"card_id"`
	FirstName             string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName              string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Email                 string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone                 string     `gorm:"type:varchar(32)" json:"phone,omitempty"`
	DateOfBirth           *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender                string     `gorm:"type:varchar(16)" json:"gender,omitempty"`
	Address               string     `gorm:"type:text" json:"address,omitempty"`
	City                  string     `gorm:"type:varchar(100)" json:"city,omitempty"`
	EmergencyContactName  string     `gorm:"type:varchar(255)" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `gorm:"type:varchar(32)" json:"emergency_contact_phone,omitempty"`
	MedicalHistory        string     `gorm:"type:text" json:"medical_history,omitempty"`
	DentalHistory         string     `gorm:"type:text" json:"dental_history,omitempty"`
	Allergies             string     `gorm:"type:text" json:"allergies,omitempty"`
	CurrentMedications    string     `gorm:"type:text" json:"current_medications,omitempty"`
	IsActive              bool       `gorm:"not null" json:"is_active"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p Patient) InBranch(branchID uuid.UUID) bool {
	return p.BranchID == branchID
}

// IsAssignedTo reports whether the patient's assigned doctor is doctorID.
func (p Patient) IsAssignedTo(doctorID uuid.UUID) bool {
	return p.AssignedDoctorID != nil && *p.AssignedDoctorID == doctorID
}
