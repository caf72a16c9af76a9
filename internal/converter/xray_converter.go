package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

func XRayRequestToResponse(request *entity.XRayRequest) *dto.XRayRequestResponse {
	if request == nil {
		return nil
	}

	return &dto.XRayRequestResponse{
		ID:          request.ID,
		PatientID:   request.PatientID,
		TreatmentID: request.TreatmentID,
		DoctorID:    request.DoctorID,
		BranchID:    request.BranchID,
		Status:      string(request.Status),
		Notes:       request.Notes,
		RequestedAt: request.RequestedAt,
		CompletedAt: request.CompletedAt,
	}
}

func XRayRequestsToResponses(requests []entity.XRayRequest) []dto.XRayRequestResponse {
	responses := make([]dto.XRayRequestResponse, len(requests))
	for i := range requests {
		responses[i] = *XRayRequestToResponse(&requests[i])
	}
	return responses
}

func XRayFileToResponse(file *entity.XRayFile) *dto.XRayFileResponse {
	if file == nil {
		return nil
	}

	return &dto.XRayFileResponse{
		ID:          file.ID,
		PatientID:   file.PatientID,
		TreatmentID: file.TreatmentID,
		BranchID:    file.BranchID,
		UploadedBy:  file.UploadedBy,
		FileType:    file.FileType,
		FileURL:     file.FileURL,
		FileSize:    file.FileSize,
		Description: file.Description,
		CreatedAt:   file.CreatedAt,
	}
}

func XRayFilesToResponses(files []entity.XRayFile) []dto.XRayFileResponse {
	responses := make([]dto.XRayFileResponse, len(files))
	for i := range files {
		responses[i] = *XRayFileToResponse(&files[i])
	}
	return responses
}
