package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	specialties := []string(doctor.Specialties)
	if specialties == nil {
		specialties = []string{}
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		UserID:          doctor.UserID,
		BranchID:        doctor.BranchID,
		FirstName:       doctor.FirstName,
		LastName:        doctor.LastName,
		FullName:        doctor.FullName(),
		LicenseNumber:   doctor.LicenseNumber,
		Specialties:     specialties,
		Qualifications:  doctor.Qualifications,
		ExperienceYears: doctor.ExperienceYears,
		IsActive:        doctor.IsActive,
		CreatedAt:       doctor.CreatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
