package usecase

import (
	"context"

	"clinic-management/internal/converter"
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/access"
	"clinic-management/internal/domain/apperror"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrAuditLogNotFound = apperror.New(apperror.KindNotFound, "audit log not found")
)

// Default audit page size when the caller sends none.
const DefaultAuditLogLimit = 50

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, actor entity.Actor, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, actor entity.Actor, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		tx:           tx,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, actor entity.Actor, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	if !access.CanViewAuditLogs(actor.Role) {
		return nil, ErrPermissionDenied
	}

	filter := &entity.AuditLogFilter{Pagination: entity.Pagination{Page: 1, Limit: DefaultAuditLogLimit}}
	if query != nil {
		userID, err := parseOptionalID(query.UserID)
		if err != nil {
			return nil, err
		}
		filter.UserID = userID
		filter.Action = query.Action
		filter.Resource = query.Resource
		if query.Page > 0 {
			filter.Page = query.Page
		}
		if query.Limit > 0 {
			filter.Limit = query.Limit
		}
	}

	logs, total, err := u.auditLogRepo.FindAll(u.tx.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, actor entity.Actor, id int64) (*dto.AuditLogResponse, error) {
	if !access.CanViewAuditLogs(actor.Role) {
		return nil, ErrPermissionDenied
	}

	auditLog, err := u.auditLogRepo.FindByID(u.tx.DB(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
