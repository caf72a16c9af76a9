package handler

import (
	"net/http"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/usecase"
	"clinic-management/pkg/response"
	"clinic-management/pkg/validator"
)

type BranchHandler struct {
	branchUsecase usecase.BranchUsecase
	validator     *validator.CustomValidator
}

func NewBranchHandler(branchUsecase usecase.BranchUsecase, validator *validator.CustomValidator) *BranchHandler {
	return &BranchHandler{
		branchUsecase: branchUsecase,
		validator:     validator,
	}
}

func (h *BranchHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateBranchRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	branch, err := h.branchUsecase.CreateBranch(r.Context(), actor, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create branch")
		return
	}

	response.Success(w, http.StatusCreated, "Branch created successfully", branch)
}

func (h *BranchHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "branch")
	if !ok {
		return
	}

	branch, err := h.branchUsecase.GetBranch(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err, "Failed to get branch")
		return
	}

	response.Success(w, http.StatusOK, "Branch retrieved successfully", branch)
}

// GetAllBranches lists branches; ?active=true hides deactivated ones.
func (h *BranchHandler) GetAllBranches(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	branches, err := h.branchUsecase.ListBranches(r.Context(), actor, queryBool(r, "active"))
	if err != nil {
		response.FromError(w, err, "Failed to get branches")
		return
	}

	response.Success(w, http.StatusOK, "Branches retrieved successfully", branches)
}

func (h *BranchHandler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "branch")
	if !ok {
		return
	}

	var req dto.UpdateBranchRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	branch, err := h.branchUsecase.UpdateBranch(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update branch")
		return
	}

	response.Success(w, http.StatusOK, "Branch updated successfully", branch)
}
