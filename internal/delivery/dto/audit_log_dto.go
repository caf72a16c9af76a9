package dto

import (
	"time"

	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
)

// AuditLogQuery is the list filter parsed from the query string.
type AuditLogQuery struct {
	UserID   string `validate:"omitempty,uuid"`
	Action   string `validate:"omitempty,oneof=CREATE UPDATE DELETE VIEW LOGIN LOGOUT"`
	Resource string `validate:"omitempty,max=64"`
	Page     int    `validate:"gte=0"`
	Limit    int    `validate:"gte=0,lte=200"`
}

// Response DTOs

type AuditLogResponse struct {
	ID          int64       `json:"id"`
	UserID      *uuid.UUID  `json:"user_id,omitempty"`
	Action      string      `json:"action"`
	TableName   string      `json:"table_name"`
	RecordID    string      `json:"record_id,omitempty"`
	Description string      `json:"description,omitempty"`
	Metadata    entity.JSON `json:"metadata"`
	CreatedAt   time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
