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
	ErrBranchNotFound      = apperror.New(apperror.KindNotFound, "branch not found")
	ErrInvalidOpeningHours = apperror.New(apperror.KindValidation, "closing time must be after opening time")
)

type BranchUsecase interface {
	CreateBranch(ctx context.Context, actor entity.Actor, req *dto.CreateBranchRequest) (*dto.BranchResponse, error)
	GetBranch(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BranchResponse, error)
	ListBranches(ctx context.Context, actor entity.Actor, activeOnly bool) (*dto.BranchListResponse, error)
	UpdateBranch(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateBranchRequest) (*dto.BranchResponse, error)
}

type branchUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	clock        clock.Clock
	branchRepo   repository.BranchRepository
	auditService service.AuditService
}

func NewBranchUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	clock clock.Clock,
	branchRepo repository.BranchRepository,
	auditService service.AuditService,
) BranchUsecase {
	return &branchUsecase{
		tx:           tx,
		log:          log,
		clock:        clock,
		branchRepo:   branchRepo,
		auditService: auditService,
	}
}

// CreateBranch is reserved for roles that work across branches.
func (u *branchUsecase) CreateBranch(ctx context.Context, actor entity.Actor, req *dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if !access.CanSwitchBranch(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if !validOpeningHours(req.OpeningTime, req.ClosingTime) {
		return nil, ErrInvalidOpeningHours
	}

	now := u.clock.Now()
	branch := &entity.Branch{
		ID:          uuid.New(),
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.branchRepo.Create(tx, branch); err != nil {
			u.log.Warnf("Failed to create branch: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourceBranch, branch.ID.String(), branch)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Branch created: id=%s, name=%s", branch.ID, branch.Name)
	return converter.BranchToResponse(branch), nil
}

func (u *branchUsecase) GetBranch(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BranchResponse, error) {
	branch, err := u.findVisible(u.tx.DB(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.BranchToResponse(branch), nil
}

// ListBranches returns every branch to roles that may switch between them,
// and only the home branch to everyone else.
func (u *branchUsecase) ListBranches(ctx context.Context, actor entity.Actor, activeOnly bool) (*dto.BranchListResponse, error) {
	db := u.tx.DB(ctx)

	var branches []entity.Branch
	if access.CanSwitchBranch(actor.Role) {
		all, err := u.branchRepo.FindAll(db, activeOnly)
		if err != nil {
			u.log.Warnf("Failed to list branches: %+v", err)
			return nil, err
		}
		branches = all
	} else {
		branch, err := u.branchRepo.FindByID(db, actor.BranchID)
		if err != nil {
			u.log.Warnf("Failed to find branch %s: %+v", actor.BranchID, err)
			return nil, err
		}
		if branch != nil && (branch.IsActive || !activeOnly) {
			branches = []entity.Branch{*branch}
		}
	}

	return &dto.BranchListResponse{
		Branches: converter.BranchesToResponses(branches),
		Total:    len(branches),
	}, nil
}

// UpdateBranch edits a branch. Setting is_active=false deactivates it; branches are never deleted.
func (u *branchUsecase) UpdateBranch(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	if !access.CanManageCatalog(actor.Role) {
		return nil, ErrPermissionDenied
	}

	var branch *entity.Branch
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		branch, err = u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}
		before := *branch

		if req.Name != "" {
			branch.Name = req.Name
		}
		if req.Address != "" {
			branch.Address = req.Address
		}
		if req.Phone != "" {
			branch.Phone = req.Phone
		}
		if req.Email != "" {
			branch.Email = req.Email
		}
		if req.OpeningTime != "" {
			branch.OpeningTime = req.OpeningTime
		}
		if req.ClosingTime != "" {
			branch.ClosingTime = req.ClosingTime
		}
		if req.IsActive != nil {
			if !*req.IsActive && !access.CanSwitchBranch(actor.Role) {
				return ErrPermissionDenied
			}
			branch.IsActive = *req.IsActive
		}
		if !validOpeningHours(branch.OpeningTime, branch.ClosingTime) {
			return ErrInvalidOpeningHours
		}
		branch.UpdatedAt = u.clock.Now()

		if err := u.branchRepo.Update(tx, branch); err != nil {
			u.log.Warnf("Failed to update branch %s: %+v", id, err)
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditResourceBranch, id.String(), before, branch)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Branch updated: id=%s", id)
	return converter.BranchToResponse(branch), nil
}

func (u *branchUsecase) findVisible(db *gorm.DB, actor entity.Actor, id uuid.UUID) (*entity.Branch, error) {
	if id != actor.BranchID && !access.CanSwitchBranch(actor.Role) {
		return nil, ErrBranchNotFound
	}
	branch, err := u.branchRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find branch %s: %+v", id, err)
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}
	return branch, nil
}

// validOpeningHours accepts HH:MM pairs where closing is after opening, or either unset.
func validOpeningHours(opening, closing string) bool {
	if opening == "" || closing == "" {
		return true
	}
	return closing > opening
}
