package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

func AuditLogToResponse(entry *entity.AuditLog) *dto.AuditLogResponse {
	if entry == nil {
		return nil
	}

	metadata := entry.Metadata
	if metadata == nil {
		metadata = entity.JSON{}
	}

	return &dto.AuditLogResponse{
		ID:          entry.ID,
		UserID:      entry.UserID,
		Action:      entry.Action,
		TableName:   entry.Resource,
		RecordID:    entry.RecordID,
		Description: entry.Description,
		Metadata:    metadata,
		CreatedAt:   entry.CreatedAt,
	}
}

// AuditLogsToResponses keeps the newest-first order of the query.
func AuditLogsToResponses(entries []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *AuditLogToResponse(&entries[i]))
	}
	return responses
}
