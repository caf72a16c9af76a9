package service

import (
	"context"
	"encoding/json"
	"reflect"

	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Fields that change on every write and are left out of update diffs.
var auditIgnoredFields = map[string]struct{}{
	"updated_at": {},
	"version":    {},
}

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, resource string, recordID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, resource string, recordID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, resource string, recordID string, oldValue interface{}) error
	LogAction(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, resource string, recordID string, description string, metadata entity.JSON) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action with the new record
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, resource string, recordID string, newValue interface{}) error {
	return s.write(tx, &entity.AuditLog{
		UserID:   userID,
		Action:   entity.AuditActionCreate,
		Resource: resource,
		RecordID: recordID,
		Metadata: entity.JSON{"new_value": toAuditMap(newValue)},
	})
}

// LogUpdate logs only the fields that differ between oldValue and newValue
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, resource string, recordID string, oldValue, newValue interface{}) error {
	return s.write(tx, &entity.AuditLog{
		UserID:   userID,
		Action:   entity.AuditActionUpdate,
		Resource: resource,
		RecordID: recordID,
		Metadata: entity.JSON{"changes": DiffFields(oldValue, newValue)},
	})
}

// LogDelete logs a delete action with the removed record
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, resource string, recordID string, oldValue interface{}) error {
	return s.write(tx, &entity.AuditLog{
		UserID:   userID,
		Action:   entity.AuditActionDelete,
		Resource: resource,
		RecordID: recordID,
		Metadata: entity.JSON{"old_value": toAuditMap(oldValue)},
	})
}

// LogAction records anything that is not a plain create/update/delete, e.g. logins.
func (s *auditService) LogAction(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, resource string, recordID string, description string, metadata entity.JSON) error {
	return s.write(tx, &entity.AuditLog{
		UserID:      userID,
		Action:      action,
		Resource:    resource,
		RecordID:    recordID,
		Description: description,
		Metadata:    metadata,
	})
}

func (s *auditService) write(tx *gorm.DB, auditLog *entity.AuditLog) error {
	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}
	return nil
}

// DiffFields returns {field: {"old": x, "new": y}} for every JSON field whose value changed.
func DiffFields(oldValue, newValue interface{}) map[string]interface{} {
	before := toAuditMap(oldValue)
	after := toAuditMap(newValue)

	changes := make(map[string]interface{})
	for key, newField := range after {
		if _, skip := auditIgnoredFields[key]; skip {
			continue
		}
		oldField, existed := before[key]
		if existed && reflect.DeepEqual(oldField, newField) {
			continue
		}
		changes[key] = map[string]interface{}{"old": oldField, "new": newField}
	}
	for key, oldField := range before {
		if _, skip := auditIgnoredFields[key]; skip {
			continue
		}
		if _, still := after[key]; !still {
			changes[key] = map[string]interface{}{"old": oldField, "new": nil}
		}
	}
	return changes
}

func toAuditMap(value interface{}) map[string]interface{} {
	if value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
