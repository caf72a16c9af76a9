package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

func BranchToResponse(branch *entity.Branch) *dto.BranchResponse {
	if branch == nil {
		return nil
	}

	return &dto.BranchResponse{
		ID:          branch.ID,
		Name:        branch.Name,
		Address:     branch.Address,
		Phone:       branch.Phone,
		Email:       branch.Email,
		OpeningTime: branch.OpeningTime,
		ClosingTime: branch.ClosingTime,
		IsActive:    branch.IsActive,
		CreatedAt:   branch.CreatedAt,
		UpdatedAt:   branch.UpdatedAt,
	}
}

func BranchesToResponses(branches []entity.Branch) []dto.BranchResponse {
	responses := make([]dto.BranchResponse, len(branches))
	for i := range branches {
		responses[i] = *BranchToResponse(&branches[i])
	}
	return responses
}
