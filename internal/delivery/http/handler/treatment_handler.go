package handler

import (
	"net/http"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/usecase"
	"clinic-management/pkg/response"
	"clinic-management/pkg/validator"
)

type TreatmentHandler struct {
	treatmentUsecase usecase.TreatmentUsecase
	validator        *validator.CustomValidator
}

func NewTreatmentHandler(treatmentUsecase usecase.TreatmentUsecase, validator *validator.CustomValidator) *TreatmentHandler {
	return &TreatmentHandler{
		treatmentUsecase: treatmentUsecase,
		validator:        validator,
	}
}

func (h *TreatmentHandler) CreateTreatment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateTreatmentRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	treatment, err := h.treatmentUsecase.CreateTreatment(r.Context(), actor, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create treatment")
		return
	}

	response.Success(w, http.StatusCreated, "Treatment created successfully", treatment)
}

func (h *TreatmentHandler) GetTreatment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "treatment")
	if !ok {
		return
	}

	treatment, err := h.treatmentUsecase.GetTreatment(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err, "Failed to get treatment")
		return
	}

	response.Success(w, http.StatusOK, "Treatment retrieved successfully", treatment)
}

// GetAllTreatments lists treatments of the current branch.
// Query: patient_id, doctor_id, status, start_date, end_date (YYYY-MM-DD).
func (h *TreatmentHandler) GetAllTreatments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := dto.TreatmentQuery{
		PatientID: q.Get("patient_id"),
		DoctorID:  q.Get("doctor_id"),
		Status:    q.Get("status"),
		StartAt:   q.Get("start_date"),
		EndAt:     q.Get("end_date"),
	}
	if !validateQuery(w, h.validator, &query) {
		return
	}

	treatments, err := h.treatmentUsecase.ListTreatments(r.Context(), actor, &query)
	if err != nil {
		response.FromError(w, err, "Failed to get treatments")
		return
	}

	response.Success(w, http.StatusOK, "Treatments retrieved successfully", treatments)
}

// UpdateStatus moves a treatment through its lifecycle. Completing it bills the treatment.
func (h *TreatmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "treatment")
	if !ok {
		return
	}

	var req dto.UpdateTreatmentStatusRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	result, err := h.treatmentUsecase.UpdateStatus(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update treatment status")
		return
	}

	response.Success(w, http.StatusOK, "Treatment status updated successfully", result)
}

func (h *TreatmentHandler) AddService(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "treatment")
	if !ok {
		return
	}

	var req dto.AddTreatmentServiceRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	treatment, err := h.treatmentUsecase.AddService(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to add service")
		return
	}

	response.Success(w, http.StatusCreated, "Service added successfully", treatment)
}

func (h *TreatmentHandler) RemoveService(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "treatment")
	if !ok {
		return
	}
	lineID, ok := pathID(w, r, "lineId", "treatment service")
	if !ok {
		return
	}

	treatment, err := h.treatmentUsecase.RemoveService(r.Context(), actor, id, lineID)
	if err != nil {
		response.FromError(w, err, "Failed to remove service")
		return
	}

	response.Success(w, http.StatusOK, "Service removed successfully", treatment)
}

func (h *TreatmentHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "treatment")
	if !ok {
		return
	}

	var req dto.UpdateTreatmentNotesRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	treatment, err := h.treatmentUsecase.UpdateNotes(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update notes")
		return
	}

	response.Success(w, http.StatusOK, "Notes updated successfully", treatment)
}

func (h *TreatmentHandler) RequestXray(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "treatment")
	if !ok {
		return
	}

	var req dto.RequestXRayRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	request, err := h.treatmentUsecase.RequestXray(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to request x-ray")
		return
	}

	response.Success(w, http.StatusCreated, "X-ray requested successfully", request)
}
