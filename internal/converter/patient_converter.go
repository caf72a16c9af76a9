package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	resp := &dto.PatientResponse{
		ID:                    patient.ID,
		BranchID:              patient.BranchID,
		AssignedDoctorID:      patient.AssignedDoctorID,
		CardID:                patient.CardID,
		FirstName:             patient.FirstName,
		LastName:              patient.LastName,
		Email:                 patient.Email,
		Phone:                 patient.Phone,
		Gender:                patient.Gender,
		Address:               patient.Address,
		City:                  patient.City,
		EmergencyContactName:  patient.EmergencyContactName,
		EmergencyContactPhone: patient.EmergencyContactPhone,
		MedicalHistory:        patient.MedicalHistory,
		DentalHistory:         patient.DentalHistory,
		Allergies:             patient.Allergies,
		CurrentMedications:    patient.CurrentMedications,
		CreatedAt:             patient.CreatedAt,
		UpdatedAt:             patient.UpdatedAt,
	}
	if patient.DateOfBirth != nil {
		resp.DateOfBirth = patient.DateOfBirth.Format("2006-01-02")
	}
	return resp
}

// PatientsToResponses converts a slice of Patient entities to slice of PatientResponse DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
