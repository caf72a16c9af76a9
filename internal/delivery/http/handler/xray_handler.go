package handler

import (
	"net/http"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/usecase"
	"clinic-management/pkg/response"
	"clinic-management/pkg/validator"
)

type XRayHandler struct {
	xrayUsecase usecase.XRayUsecase
	validator   *validator.CustomValidator
}

func NewXRayHandler(xrayUsecase usecase.XRayUsecase, validator *validator.CustomValidator) *XRayHandler {
	return &XRayHandler{
		xrayUsecase: xrayUsecase,
		validator:   validator,
	}
}

func (h *XRayHandler) GetAllRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	requests, err := h.xrayUsecase.ListRequests(r.Context(), actor, r.URL.Query().Get("status"))
	if err != nil {
		response.FromError(w, err, "Failed to get x-ray requests")
		return
	}

	response.Success(w, http.StatusOK, "X-ray requests retrieved successfully", requests)
}

func (h *XRayHandler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "x-ray request")
	if !ok {
		return
	}

	request, err := h.xrayUsecase.CompleteRequest(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err, "Failed to complete x-ray request")
		return
	}

	response.Success(w, http.StatusOK, "X-ray request completed successfully", request)
}

func (h *XRayHandler) RegisterFile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.RegisterXRayFileRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	file, err := h.xrayUsecase.RegisterFile(r.Context(), actor, &req)
	if err != nil {
		response.FromError(w, err, "Failed to register x-ray file")
		return
	}

	response.Success(w, http.StatusCreated, "X-ray file registered successfully", file)
}

func (h *XRayHandler) GetAllFiles(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	files, err := h.xrayUsecase.ListFiles(r.Context(), actor, r.URL.Query().Get("patient_id"))
	if err != nil {
		response.FromError(w, err, "Failed to get x-ray files")
		return
	}

	response.Success(w, http.StatusOK, "X-ray files retrieved successfully", files)
}
