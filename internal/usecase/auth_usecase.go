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
	"clinic-management/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "invalid email or password")
	ErrInvalidToken       = apperror.New(apperror.KindUnauthorized, "invalid or expired token")
	ErrTokenRevoked       = apperror.New(apperror.KindUnauthorized, "token has been revoked")
	ErrUserInactive       = apperror.New(apperror.KindUnauthorized, "user account is inactive")
	ErrUserNotFound       = apperror.New(apperror.KindNotFound, "user not found")
	ErrBranchSwitchDenied = apperror.New(apperror.KindPermissionDenied, "you cannot act on another branch")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, session dto.Session, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error)
	// Authenticate verifies an access token against its signature and the token whitelist.
	Authenticate(ctx context.Context, accessToken string) (*dto.Session, error)
	// ResolveActor turns a session into the caller of an operation. branchHeader
	// is the optional X-Branch-ID selection.
	ResolveActor(ctx context.Context, session dto.Session, branchHeader string) (entity.Actor, error)
}

type authUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorRepository
	branchRepo   repository.BranchRepository
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
	auditService service.AuditService
}

func NewAuthUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	branchRepo repository.BranchRepository,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		tx:           tx,
		log:          log,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		branchRepo:   branchRepo,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	db := u.tx.DB(ctx)

	// Find user by email (read-only, no transaction needed)
	user, err := u.userRepo.FindByEmail(db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogAction(ctx, db, &user.ID, entity.AuditActionLogin, entity.AuditResourceAuth, user.ID.String(), "user logged in", nil); err != nil {
		return nil, err
	}

	u.log.Infof("User logged in: id=%s, role=%s", user.ID, user.Role)
	return tokens, nil
}

// Logout revokes the current access token and, when given, the refresh token of the same user.
func (u *authUsecase) Logout(ctx context.Context, session dto.Session, req *dto.LogoutRequest) error {
	if err := u.tokenStore.Delete(ctx, service.TokenKindAccess, session.UserID, session.TokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}

	if req != nil && req.RefreshToken != "" {
		claims, err := u.jwtService.ValidateToken(req.RefreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == session.UserID {
			if err := u.tokenStore.Delete(ctx, service.TokenKindRefresh, claims.UserID, claims.TokenID); err != nil {
				u.log.Warnf("Failed to delete refresh token: %+v", err)
				return err
			}
		}
	}

	return u.auditService.LogAction(ctx, u.tx.DB(ctx), &session.UserID, entity.AuditActionLogout, entity.AuditResourceAuth, session.UserID.String(), "user logged out", nil)
}

// RefreshToken rotates a refresh token: the old one is revoked and a new pair is issued.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, service.TokenKindRefresh, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	if err := u.tokenStore.Delete(ctx, service.TokenKindRefresh, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	// Role and branch are re-read so a changed account takes effect on refresh.
	user, err := u.userRepo.FindByID(u.tx.DB(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) Me(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.tx.DB(ctx), actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := converter.UserToResponse(user)
	resp.DoctorID = actor.DoctorID
	return resp, nil
}

func (u *authUsecase) Authenticate(ctx context.Context, accessToken string) (*dto.Session, error) {
	claims, err := u.jwtService.ValidateToken(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.AccessToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, service.TokenKindAccess, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check access token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	return &dto.Session{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Role:     claims.Role,
		BranchID: claims.BranchID,
		TokenID:  claims.TokenID,
	}, nil
}

// ResolveActor loads the session's user and, for doctors, their doctor record.
// A doctor without a linked record gets a nil DoctorID and sees no patients.
func (u *authUsecase) ResolveActor(ctx context.Context, session dto.Session, branchHeader string) (entity.Actor, error) {
	db := u.tx.DB(ctx)

	user, err := u.userRepo.FindByID(db, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return entity.Actor{}, err
	}
	if user == nil || !user.IsActive {
		return entity.Actor{}, ErrUserInactive
	}

	actor := entity.Actor{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		BranchID: user.BranchID,
	}

	if branchHeader != "" {
		branchID, err := uuid.Parse(branchHeader)
		if err != nil {
			return entity.Actor{}, ErrInvalidID
		}
		if branchID != actor.BranchID {
			if !access.CanSwitchBranch(actor.Role) {
				return entity.Actor{}, ErrBranchSwitchDenied
			}
			branch, err := u.branchRepo.FindByID(db, branchID)
			if err != nil {
				u.log.Warnf("Failed to find branch %s: %+v", branchID, err)
				return entity.Actor{}, err
			}
			if branch == nil || !branch.IsActive {
				return entity.Actor{}, ErrBranchNotFound
			}
			actor.BranchID = branchID
		}
	}

	if actor.IsDoctor() {
		doctor, err := u.doctorRepo.FindByUserID(db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find doctor of user %s: %+v", user.ID, err)
			return entity.Actor{}, err
		}
		if doctor != nil && doctor.IsActive {
			actor.DoctorID = &doctor.ID
		}
	}

	return actor, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	sub := jwt.Subject{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
		BranchID: user.BranchID,
	}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	// Store tokens in Redis
	if err := u.tokenStore.Save(ctx, service.TokenKindAccess, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.tokenStore.Save(ctx, service.TokenKindRefresh, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
