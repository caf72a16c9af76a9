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
	ErrDoctorNotFound       = apperror.New(apperror.KindNotFound, "doctor not found")
	ErrLicenseAlreadyExists = apperror.New(apperror.KindConflict, "license number already exists")
	ErrDoctorAlreadyLinked  = apperror.New(apperror.KindConflict, "user already has a doctor record")
	ErrUserNotDoctor        = apperror.New(apperror.KindValidation, "user must have the doctor role")
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, actor entity.Actor) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.DoctorResponse, error)
	CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	clock        clock.Clock
	doctorRepo   repository.DoctorRepository
	userRepo     repository.UserRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	clock clock.Clock,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		tx:           tx,
		log:          log,
		clock:        clock,
		doctorRepo:   doctorRepo,
		userRepo:     userRepo,
		auditService: auditService,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, actor entity.Actor) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindByBranch(u.tx.DB(ctx), actor.BranchID)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	visible := access.VisibleDoctors(actor.BranchID, doctors)
	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(visible),
		Total:   len(visible),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.findVisible(u.tx.DB(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

// CreateDoctor links an existing doctor-role user of the current branch to a doctor record.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if !access.CanManageCatalog(actor.Role) {
		return nil, ErrPermissionDenied
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doctor *entity.Doctor
	err = u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		user, err := u.userRepo.FindByID(tx, userID)
		if err != nil {
			u.log.Warnf("Failed to find user by ID: %+v", err)
			return err
		}
		if user == nil || user.BranchID != actor.BranchID {
			return ErrUserNotFound
		}
		if user.Role != entity.RoleDoctor {
			return ErrUserNotDoctor
		}

		existing, err := u.doctorRepo.FindByUserID(tx, userID)
		if err != nil {
			u.log.Warnf("Failed to find doctor of user %s: %+v", userID, err)
			return err
		}
		if existing != nil {
			return ErrDoctorAlreadyLinked
		}

		now := u.clock.Now()
		doctor = &entity.Doctor{
			ID:              uuid.New(),
			UserID:          user.ID,
			BranchID:        user.BranchID,
			FirstName:       user.FirstName,
			LastName:        user.LastName,
			LicenseNumber:   req.LicenseNumber,
			Specialties:     entity.StringList(req.Specialties),
			Qualifications:  req.Qualifications,
			ExperienceYears: req.ExperienceYears,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := u.doctorRepo.Create(tx, doctor); err != nil {
			if isDuplicateKeyError(err, "license") {
				return ErrLicenseAlreadyExists
			}
			if isDuplicateKeyError(err, "user_id") {
				return ErrDoctorAlreadyLinked
			}
			u.log.Warnf("Failed to create doctor: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourceDoctor, doctor.ID.String(), doctor)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Doctor created: id=%s, user=%s", doctor.ID, doctor.UserID)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if !access.CanManageCatalog(actor.Role) {
		return nil, ErrPermissionDenied
	}

	var doctor *entity.Doctor
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		doctor, err = u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}
		before := *doctor

		if req.LicenseNumber != "" {
			doctor.LicenseNumber = req.LicenseNumber
		}
		if req.Specialties != nil {
			doctor.Specialties = entity.StringList(req.Specialties)
		}
		if req.Qualifications != nil {
			doctor.Qualifications = *req.Qualifications
		}
		if req.ExperienceYears != nil {
			doctor.ExperienceYears = *req.ExperienceYears
		}
		if req.IsActive != nil {
			doctor.IsActive = *req.IsActive
		}
		doctor.UpdatedAt = u.clock.Now()

		if err := u.doctorRepo.Update(tx, doctor); err != nil {
			if isDuplicateKeyError(err, "license") {
				return ErrLicenseAlreadyExists
			}
			u.log.Warnf("Failed to update doctor %s: %+v", id, err)
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditResourceDoctor, id.String(), before, doctor)
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) findVisible(db *gorm.DB, actor entity.Actor, id uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil || !doctor.InBranch(actor.BranchID) {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}
