package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

// TreatmentToResponse converts a Treatment with its service lines and optional invoice.
func TreatmentToResponse(treatment *entity.Treatment, lines []entity.TreatmentService, invoice *entity.Invoice, canEdit bool) *dto.TreatmentResponse {
	if treatment == nil {
		return nil
	}

	return &dto.TreatmentResponse{
		ID:            treatment.ID,
		PatientID:     treatment.PatientID,
		DoctorID:      treatment.DoctorID,
		BranchID:      treatment.BranchID,
		Status:        string(treatment.Status),
		TreatmentDate: treatment.TreatmentDate,
		Notes:         treatment.Notes,
		TotalCost:     treatment.TotalCost,
		Version:       treatment.Version,
		Services:      TreatmentServicesToResponses(lines),
		Invoice:       InvoiceToResponse(invoice),
		CanEdit:       canEdit,
		CreatedAt:     treatment.CreatedAt,
		UpdatedAt:     treatment.UpdatedAt,
	}
}

func TreatmentServicesToResponses(lines []entity.TreatmentService) []dto.TreatmentServiceResponse {
	if len(lines) == 0 {
		return nil
	}
	responses := make([]dto.TreatmentServiceResponse, len(lines))
	for i, line := range lines {
		responses[i] = dto.TreatmentServiceResponse{
			ID:          line.ID,
			ServiceID:   line.ServiceID,
			Quantity:    line.Quantity,
			PriceAtTime: line.PriceAtTime,
			LineTotal:   line.LineTotal(),
		}
		if line.Service != nil {
			responses[i].ServiceName = line.Service.Name
		}
	}
	return responses
}
