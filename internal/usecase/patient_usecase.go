package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

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

const (
	cardIDDigits   = 8
	cardIDAttempts = 5
)

var (
	ErrPatientNotFound     = apperror.New(apperror.KindNotFound, "patient not found")
	ErrCardIDExhausted     = apperror.New(apperror.KindConflict, "could not allocate a unique card id")
	ErrAssignedDoctorInput = apperror.New(apperror.KindValidation, "assigned doctor must be an active doctor of the branch")
)

type PatientUsecase interface {
	ListPatients(ctx context.Context, actor entity.Actor) (*dto.PatientListResponse, error)
	GetPatient(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.PatientResponse, error)
	CreatePatient(ctx context.Context, actor entity.Actor, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, actor entity.Actor, id uuid.UUID) error
}

type patientUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	clock        clock.Clock
	patientRepo  repository.PatientRepository
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	// newCardID is swapped in tests.
	newCardID func() (string, error)
}

func NewPatientUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	clock clock.Clock,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		tx:           tx,
		log:          log,
		clock:        clock,
		patientRepo:  patientRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		newCardID:    randomCardID,
	}
}

func (u *patientUsecase) ListPatients(ctx context.Context, actor entity.Actor) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.FindByBranch(u.tx.DB(ctx), actor.BranchID)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	visible := access.VisiblePatients(actor, patients)
	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(visible),
		Total:    len(visible),
	}, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.findVisible(u.tx.DB(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.PatientToResponse(patient), nil
}

// CreatePatient registers a patient in the actor's current branch with a fresh card id.
func (u *patientUsecase) CreatePatient(ctx context.Context, actor entity.Actor, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	if !access.CanManagePatients(actor.Role) {
		return nil, ErrPermissionDenied
	}

	assignedDoctorID, err := parseOptionalID(req.AssignedDoctorID)
	if err != nil {
		return nil, err
	}
	dateOfBirth, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	patient := &entity.Patient{
		ID:                    uuid.New(),
		BranchID:              actor.BranchID,
		AssignedDoctorID:      assignedDoctorID,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		DateOfBirth:           dateOfBirth,
		Gender:                req.Gender,
		Address:               req.Address,
		City:                  req.City,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		MedicalHistory:        req.MedicalHistory,
		DentalHistory:         req.DentalHistory,
		Allergies:             req.Allergies,
		CurrentMedications:    req.CurrentMedications,
		IsActive:              true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err = u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.checkAssignedDoctor(tx, actor.BranchID, patient.AssignedDoctorID); err != nil {
			return err
		}

		// A concurrent insert can still take the card id between the check and the insert;
		// the unique index turns that into a retry.
		for attempt := 0; attempt < cardIDAttempts; attempt++ {
			cardID, err := u.allocateCardID(tx)
			if err != nil {
				return err
			}
			patient.CardID = cardID

			err = u.patientRepo.Create(tx, patient)
			if err == nil {
				return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourcePatient, patient.ID.String(), patient)
			}
			if !isDuplicateKeyError(err, "card_id") {
				u.log.Warnf("Failed to create patient: %+v", err)
				return err
			}
		}
		return ErrCardIDExhausted
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Patient created: id=%s, card=%s, branch=%s", patient.ID, patient.CardID, patient.BranchID)
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	if !access.CanManagePatients(actor.Role) {
		return nil, ErrPermissionDenied
	}

	var patient *entity.Patient
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		patient, err = u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}
		before := *patient

		if req.AssignedDoctorID != nil {
			// An empty string unassigns the patient.
			doctorID, err := parseOptionalID(*req.AssignedDoctorID)
			if err != nil {
				return err
			}
			if err := u.checkAssignedDoctor(tx, patient.BranchID, doctorID); err != nil {
				return err
			}
			patient.AssignedDoctorID = doctorID
		}
		if req.DateOfBirth != "" {
			dateOfBirth, err := parseDateOfBirth(req.DateOfBirth)
			if err != nil {
				return err
			}
			patient.DateOfBirth = dateOfBirth
		}
		applyPatientFields(patient, req)
		patient.UpdatedAt = u.clock.Now()

		if err := u.patientRepo.Update(tx, patient); err != nil {
			u.log.Warnf("Failed to update patient %s: %+v", id, err)
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditResourcePatient, id.String(), before, patient)
	})
	if err != nil {
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

// DeletePatient deactivates the patient. Treatments and invoices keep referring to it.
func (u *patientUsecase) DeletePatient(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if !access.CanManagePatients(actor.Role) {
		return ErrPermissionDenied
	}

	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}

		affected, err := u.patientRepo.Deactivate(tx, id)
		if err != nil {
			u.log.Warnf("Failed to deactivate patient %s: %+v", id, err)
			return err
		}
		if affected == 0 {
			return ErrPatientNotFound
		}
		return u.auditService.LogDelete(ctx, tx, &actor.UserID, entity.AuditResourcePatient, id.String(), patient)
	})
	if err != nil {
		return err
	}

	u.log.Infof("Patient deactivated: id=%s", id)
	return nil
}

// findVisible hides inactive patients and patients outside the actor's view behind ErrPatientNotFound.
func (u *patientUsecase) findVisible(db *gorm.DB, actor entity.Actor, id uuid.UUID) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil || !patient.IsActive || !access.CanViewPatient(actor, patient) {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func (u *patientUsecase) checkAssignedDoctor(db *gorm.DB, branchID uuid.UUID, doctorID *uuid.UUID) error {
	if doctorID == nil {
		return nil
	}
	doctor, err := u.doctorRepo.FindByID(db, *doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", *doctorID, err)
		return err
	}
	if doctor == nil || !doctor.IsActive || !doctor.InBranch(branchID) {
		return ErrAssignedDoctorInput
	}
	return nil
}

func (u *patientUsecase) allocateCardID(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < cardIDAttempts; attempt++ {
		cardID, err := u.newCardID()
		if err != nil {
			return "", err
		}
		exists, err := u.patientRepo.ExistsByCardID(db, cardID)
		if err != nil {
			u.log.Warnf("Failed to check card id: %+v", err)
			return "", err
		}
		if !exists {
			return cardID, nil
		}
	}
	return "", ErrCardIDExhausted
}

func applyPatientFields(patient *entity.Patient, req *dto.UpdatePatientRequest) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&patient.FirstName, req.FirstName)
	set(&patient.LastName, req.LastName)
	set(&patient.Email, req.Email)
	set(&patient.Phone, req.Phone)
	set(&patient.Gender, req.Gender)
	set(&patient.Address, req.Address)
	set(&patient.City, req.City)
	set(&patient.EmergencyContactName, req.EmergencyContactName)
	set(&patient.EmergencyContactPhone, req.EmergencyContactPhone)
	set(&patient.MedicalHistory, req.MedicalHistory)
	set(&patient.DentalHistory, req.DentalHistory)
	set(&patient.Allergies, req.Allergies)
	set(&patient.CurrentMedications, req.CurrentMedications)
}

func parseDateOfBirth(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	dob, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &dob, nil
}

// randomCardID returns a zero-padded 8 digit number.
func randomCardID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
	if err != nil {
		return "", fmt.Errorf("generate card id: %w", err)
	}
	return fmt.Sprintf("%0*d", cardIDDigits, n.Int64()), nil
}
