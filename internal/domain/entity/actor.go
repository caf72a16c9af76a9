package entity

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation.
// DoctorID is set only for doctors that have a Doctor record linked to UserID.
type Actor struct {
	UserID   uuid.UUID
	Email    string
	Role     Role
	BranchID uuid.UUID
	DoctorID *uuid.UUID
}

func (a Actor) IsDoctor() bool {
	return a.Role == RoleDoctor
}

// IsDoctorOf reports whether the actor is the doctor identified by doctorID.
func (a Actor) IsDoctorOf(doctorID uuid.UUID) bool {
	return a.IsDoctor() && a.DoctorID != nil && *a.DoctorID == doctorID
}
