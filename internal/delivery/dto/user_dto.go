package dto

// Request DTOs

type CreateUserRequest struct {
	BranchID  string `json:"branch_id" validate:"required,uuid"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Role      string `json:"role" validate:"required,oneof=super_admin admin doctor receptionist accountant branch_manager xray_technician"`
}

type UpdateUserRequest struct {
	BranchID  string `json:"branch_id" validate:"omitempty,uuid"`
	Password  string `json:"password" validate:"omitempty,min=8"`
	FirstName string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=super_admin admin doctor receptionist accountant branch_manager xray_technician"`
	IsActive  *bool  `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}
