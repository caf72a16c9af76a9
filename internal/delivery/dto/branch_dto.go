package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBranchRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Address     string `json:"address" validate:"omitempty"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	Email       string `json:"email" validate:"omitempty,email"`
	OpeningTime string `json:"opening_time" validate:"omitempty,timeofday"`
	ClosingTime string `json:"closing_time" validate:"omitempty,timeofday"`
}

type UpdateBranchRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Address     string `json:"address" validate:"omitempty"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	Email       string `json:"email" validate:"omitempty,email"`
	OpeningTime string `json:"opening_time" validate:"omitempty,timeofday"`
	ClosingTime string `json:"closing_time" validate:"omitempty,timeofday"`
	IsActive    *bool  `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type BranchResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	OpeningTime string    `json:"opening_time,omitempty"`
	ClosingTime string    `json:"closing_time,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BranchListResponse struct {
	Branches []BranchResponse `json:"branches"`
	Total    int              `json:"total"`
}
