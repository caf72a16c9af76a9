package usecase

import (
	"context"

	"clinic-management/internal/converter"
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/access"
	"clinic-management/internal/domain/apperror"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"
	"clinic-management/internal/service"
	"clinic-management/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrServiceNotFound = apperror.New(apperror.KindNotFound, "service not found")
	ErrInvalidPrice    = apperror.New(apperror.KindValidation, "price must not be negative")
)

// ServiceUsecase manages the clinic service catalog of a branch.
type ServiceUsecase interface {
	ListServices(ctx context.Context, actor entity.Actor, activeOnly bool) (*dto.ServiceListResponse, error)
	GetService(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.ServiceResponse, error)
	CreateService(ctx context.Context, actor entity.Actor, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	UpdateService(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
}

type serviceUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	clock        clock.Clock
	serviceRepo  repository.ServiceRepository
	auditService service.AuditService
}

func NewServiceUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	clock clock.Clock,
	serviceRepo repository.ServiceRepository,
	auditService service.AuditService,
) ServiceUsecase {
	return &serviceUsecase{
		tx:           tx,
		log:          log,
		clock:        clock,
		serviceRepo:  serviceRepo,
		auditService: auditService,
	}
}

func (u *serviceUsecase) ListServices(ctx context.Context, actor entity.Actor, activeOnly bool) (*dto.ServiceListResponse, error) {
	services, err := u.serviceRepo.FindByBranch(u.tx.DB(ctx), actor.BranchID)
	if err != nil {
		u.log.Warnf("Failed to list services: %+v", err)
		return nil, err
	}

	visible := access.VisibleServices(actor.BranchID, services)
	if activeOnly {
		active := visible[:0]
		for _, s := range visible {
			if s.IsActive {
				active = append(active, s)
			}
		}
		visible = active
	}

	return &dto.ServiceListResponse{
		Services: converter.ServicesToResponses(visible),
		Total:    len(visible),
	}, nil
}

func (u *serviceUsecase) GetService(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.ServiceResponse, error) {
	svc, err := u.findVisible(u.tx.DB(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.ServiceToResponse(svc), nil
}

func (u *serviceUsecase) CreateService(ctx context.Context, actor entity.Actor, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if !access.CanManageCatalog(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	now := u.clock.Now()
	svc := &entity.Service{
		ID:          uuid.New(),
		BranchID:    actor.BranchID,
		Name:        req.Name,
		Description: req.Description,
		Price:       entity.Round2(req.Price),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.serviceRepo.Create(tx, svc); err != nil {
			u.log.Warnf("Failed to create service: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourceService, svc.ID.String(), svc)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Service created: id=%s, branch=%s, price=%s", svc.ID, svc.BranchID, svc.Price)
	return converter.ServiceToResponse(svc), nil
}

// UpdateService edits a catalog entry. Treatment lines keep the price they were added with.
func (u *serviceUsecase) UpdateService(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	if !access.CanManageCatalog(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	var svc *entity.Service
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		svc, err = u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}
		before := *svc

		if req.Name != "" {
			svc.Name = req.Name
		}
		if req.Description != nil {
			svc.Description = *req.Description
		}
		if req.Price != nil {
			svc.Price = entity.Round2(*req.Price)
		}
		if req.IsActive != nil {
			svc.IsActive = *req.IsActive
		}
		svc.UpdatedAt = u.clock.Now()

		if err := u.serviceRepo.Update(tx, svc); err != nil {
			u.log.Warnf("Failed to update service %s: %+v", id, err)
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditResourceService, id.String(), before, svc)
	})
	if err != nil {
		return nil, err
	}

	return converter.ServiceToResponse(svc), nil
}

func (u *serviceUsecase) findVisible(db *gorm.DB, actor entity.Actor, id uuid.UUID) (*entity.Service, error) {
	svc, err := u.serviceRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", id, err)
		return nil, err
	}
	if svc == nil || !svc.InBranch(actor.BranchID) {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}
