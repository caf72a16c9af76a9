package entity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor links a staff user to a branch. UserID is unique, so a user resolves to at most one doctor.
type Doctor struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	BranchID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id"`
	FirstName       string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName        string     `gorm:"type:varchar(100);not null" json:"last_name"`
	LicenseNumber   string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Specialties     StringList `gorm:"type:jsonb;not null" json:"specialties"`
	Qualifications  string     `gorm:"type:text" json:"qualifications,omitempty"`
	ExperienceYears int        `gorm:"not null" json:"experience_years"`
	IsActive        bool       `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d Doctor) InBranch(branchID uuid.UUID) bool {
	return d.BranchID == branchID
}

func (d Doctor) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}
