package usecase

import (
	"context"
	"strings"

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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = apperror.New(apperror.KindConflict, "email already exists")
	ErrInvalidRole        = apperror.New(apperror.KindValidation, "invalid role")
)

type UserUsecase interface {
	CreateUser(ctx context.Context, actor entity.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, actor entity.Actor, role string) (*dto.UserListResponse, error)
	UpdateUser(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	clock        clock.Clock
	userRepo     repository.UserRepository
	branchRepo   repository.BranchRepository
	tokenStore   service.TokenStore
	auditService service.AuditService
}

func NewUserUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	clock clock.Clock,
	userRepo repository.UserRepository,
	branchRepo repository.BranchRepository,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		tx:           tx,
		log:          log,
		clock:        clock,
		userRepo:     userRepo,
		branchRepo:   branchRepo,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *userUsecase) CreateUser(ctx context.Context, actor entity.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := entity.Role(req.Role)
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if !u.canAssignRole(actor, role) {
		return nil, ErrPermissionDenied
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, ErrInvalidID
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	now := u.clock.Now()
	user := &entity.User{
		ID:        uuid.New(),
		BranchID:  branchID,
		Role:      role,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.requireActiveBranch(tx, branchID); err != nil {
			return err
		}
		if err := u.userRepo.Create(tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isForeignKeyError(err, "branch") {
				return ErrBranchNotFound
			}
			u.log.Warnf("Failed to create user: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourceUser, user.ID.String(), user)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("User created: id=%s, role=%s, branch=%s", user.ID, user.Role, user.BranchID)
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetUser(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.UserResponse, error) {
	if !access.CanManageStaff(actor.Role) && id != actor.UserID {
		return nil, ErrPermissionDenied
	}
	user, err := u.findVisible(u.tx.DB(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

// ListUsers lists the staff of the actor's current branch.
func (u *userUsecase) ListUsers(ctx context.Context, actor entity.Actor, role string) (*dto.UserListResponse, error) {
	if !access.CanManageStaff(actor.Role) {
		return nil, ErrPermissionDenied
	}

	filter := &entity.UserFilter{BranchID: &actor.BranchID}
	if role != "" {
		filter.Role = entity.Role(role)
		if !filter.Role.IsValid() {
			return nil, ErrInvalidRole
		}
	}

	users, err := u.userRepo.FindAll(u.tx.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

// UpdateUser edits a staff account. Deactivating it revokes every session of the user.
func (u *userUsecase) UpdateUser(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !access.CanManageStaff(actor.Role) {
		return nil, ErrPermissionDenied
	}

	var (
		user        *entity.User
		deactivated bool
	)
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}
		if !u.canAssignRole(actor, user.Role) {
			return ErrPermissionDenied
		}
		before := *user

		if req.Role != "" {
			role := entity.Role(req.Role)
			if !role.IsValid() {
				return ErrInvalidRole
			}
			if !u.canAssignRole(actor, role) {
				return ErrPermissionDenied
			}
			user.Role = role
		}
		if req.BranchID != "" {
			branchID, err := uuid.Parse(req.BranchID)
			if err != nil {
				return ErrInvalidID
			}
			if err := u.requireActiveBranch(tx, branchID); err != nil {
				return err
			}
			user.BranchID = branchID
		}
		if req.FirstName != "" {
			user.FirstName = req.FirstName
		}
		if req.LastName != "" {
			user.LastName = req.LastName
		}
		if req.Password != "" {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				u.log.Warnf("Failed to hash password: %+v", err)
				return err
			}
			user.Password = string(hashedPassword)
		}
		if req.IsActive != nil {
			deactivated = before.IsActive && !*req.IsActive
			user.IsActive = *req.IsActive
		}
		user.UpdatedAt = u.clock.Now()

		if err := u.userRepo.Update(tx, user); err != nil {
			u.log.Warnf("Failed to update user %s: %+v", id, err)
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditResourceUser, id.String(), before, user)
	})
	if err != nil {
		return nil, err
	}

	if deactivated {
		if err := u.tokenStore.DeleteAll(ctx, id); err != nil {
			// The account is already inactive; ResolveActor rejects its remaining tokens.
			u.log.Warnf("Failed to revoke tokens of user %s: %+v", id, err)
		}
	}

	u.log.Infof("User updated: id=%s", id)
	return converter.UserToResponse(user), nil
}

// canAssignRole keeps super_admin accounts in the hands of super admins.
func (u *userUsecase) canAssignRole(actor entity.Actor, role entity.Role) bool {
	if !access.CanManageStaff(actor.Role) {
		return false
	}
	return role != entity.RoleSuperAdmin || actor.Role == entity.RoleSuperAdmin
}

func (u *userUsecase) findVisible(db *gorm.DB, actor entity.Actor, id uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.BranchID != actor.BranchID && !access.CanSwitchBranch(actor.Role) && user.ID != actor.UserID {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (u *userUsecase) requireActiveBranch(db *gorm.DB, branchID uuid.UUID) error {
	branch, err := u.branchRepo.FindByID(db, branchID)
	if err != nil {
		u.log.Warnf("Failed to find branch %s: %+v", branchID, err)
		return err
	}
	if branch == nil || !branch.IsActive {
		return ErrBranchNotFound
	}
	return nil
}
