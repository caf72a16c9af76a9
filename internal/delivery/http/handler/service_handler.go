package handler

import (
	"net/http"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/usecase"
	"clinic-management/pkg/response"
	"clinic-management/pkg/validator"
)

// ServiceHandler serves the clinic service catalog.
type ServiceHandler struct {
	serviceUsecase usecase.ServiceUsecase
	validator      *validator.CustomValidator
}

func NewServiceHandler(serviceUsecase usecase.ServiceUsecase, validator *validator.CustomValidator) *ServiceHandler {
	return &ServiceHandler{
		serviceUsecase: serviceUsecase,
		validator:      validator,
	}
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateServiceRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	service, err := h.serviceUsecase.CreateService(r.Context(), actor, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create service")
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", service)
}

func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "service")
	if !ok {
		return
	}

	service, err := h.serviceUsecase.GetService(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err, "Failed to get service")
		return
	}

	response.Success(w, http.StatusOK, "Service retrieved successfully", service)
}

// GetAllServices lists the branch catalog; ?active=true hides retired services.
func (h *ServiceHandler) GetAllServices(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	services, err := h.serviceUsecase.ListServices(r.Context(), actor, queryBool(r, "active"))
	if err != nil {
		response.FromError(w, err, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "service")
	if !ok {
		return
	}

	var req dto.UpdateServiceRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	service, err := h.serviceUsecase.UpdateService(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update service")
		return
	}

	response.Success(w, http.StatusOK, "Service updated successfully", service)
}
