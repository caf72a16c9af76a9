package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action      string     `gorm:"type:varchar(16);not null;index" json:"action"`
	Resource    string     `gorm:"column:table_name;type:varchar(64);not null;index" json:"table_name"`
	RecordID    string     `gorm:"type:varchar(64);index" json:"record_id,omitempty"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Metadata    JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit actions
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
	AuditActionView   = "VIEW"
	AuditActionLogin  = "LOGIN"
	AuditActionLogout = "LOGOUT"
)

// Audited resources
const (
	AuditResourceAuth             = "auth"
	AuditResourceUser             = "users"
	AuditResourceBranch           = "branches"
	AuditResourcePatient          = "patients"
	AuditResourceDoctor           = "doctors"
	AuditResourceService          = "services"
	AuditResourceTreatment        = "treatments"
	AuditResourceTreatmentService = "treatment_services"
	AuditResourceInvoice          = "invoices"
	AuditResourcePayment          = "payments"
	AuditResourceXRayRequest      = "xray_requests"
	AuditResourceXRayFile         = "xray_files"
)
