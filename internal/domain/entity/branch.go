package entity

import (
	"time"

	"github.com/google/uuid"
)

// Branch partitions every other record. Branches are deactivated, never deleted.
type Branch struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Address     string    `gorm:"type:text" json:"address,omitempty"`
	Phone       string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Email       string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	OpeningTime string    `gorm:"type:varchar(5)" json:"opening_time,omitempty"`
	ClosingTime string    `gorm:"type:varchar(5)" json:"closing_time,omitempty"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Branch) TableName() string {
	return "branches"
}
