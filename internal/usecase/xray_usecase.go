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
	ErrXRayRequestNotFound = apperror.New(apperror.KindNotFound, "x-ray request not found")
	ErrInvalidXRayStatus   = apperror.New(apperror.KindValidation, "invalid x-ray request status")
)

type XRayUsecase interface {
	ListRequests(ctx context.Context, actor entity.Actor, status string) (*dto.XRayRequestListResponse, error)
	CompleteRequest(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.XRayRequestResponse, error)
	RegisterFile(ctx context.Context, actor entity.Actor, req *dto.RegisterXRayFileRequest) (*dto.XRayFileResponse, error)
	ListFiles(ctx context.Context, actor entity.Actor, patientID string) (*dto.XRayFileListResponse, error)
}

type xrayUsecase struct {
	tx            repository.Transactor
	log           *logrus.Logger
	clock         clock.Clock
	requestRepo   repository.XRayRequestRepository
	fileRepo      repository.XRayFileRepository
	patientRepo   repository.PatientRepository
	treatmentRepo repository.TreatmentRepository
	auditService  service.AuditService
}

func NewXRayUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	clock clock.Clock,
	requestRepo repository.XRayRequestRepository,
	fileRepo repository.XRayFileRepository,
	patientRepo repository.PatientRepository,
	treatmentRepo repository.TreatmentRepository,
	auditService service.AuditService,
) XRayUsecase {
	return &xrayUsecase{
		tx:            tx,
		log:           log,
		clock:         clock,
		requestRepo:   requestRepo,
		fileRepo:      fileRepo,
		patientRepo:   patientRepo,
		treatmentRepo: treatmentRepo,
		auditService:  auditService,
	}
}

// ListRequests returns the x-ray queue of the actor's branch, oldest first.
func (u *xrayUsecase) ListRequests(ctx context.Context, actor entity.Actor, status string) (*dto.XRayRequestListResponse, error) {
	filter := &entity.XRayRequestFilter{
		BranchID: actor.BranchID,
		Status:   entity.XRayRequestStatus(status),
	}
	switch filter.Status {
	case "", entity.XRayRequestStatusRequested, entity.XRayRequestStatusCompleted:
	default:
		return nil, ErrInvalidXRayStatus
	}

	requests, err := u.requestRepo.FindAll(u.tx.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list x-ray requests: %+v", err)
		return nil, err
	}
	requests = access.VisibleXRayRequests(actor.BranchID, requests)

	if actor.IsDoctor() {
		own := requests[:0]
		for _, r := range requests {
			if actor.IsDoctorOf(r.DoctorID) {
				own = append(own, r)
			}
		}
		requests = own
	}

	return &dto.XRayRequestListResponse{
		Requests: converter.XRayRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

// CompleteRequest moves a request from requested to completed.
func (u *xrayUsecase) CompleteRequest(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.XRayRequestResponse, error) {
	if !access.CanCompleteXray(actor.Role) {
		return nil, ErrPermissionDenied
	}

	var request *entity.XRayRequest
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		request, err = u.requestRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find x-ray request %s: %+v", id, err)
			return err
		}
		if request == nil || !request.InBranch(actor.BranchID) {
			return ErrXRayRequestNotFound
		}

		before := *request
		if err := request.Complete(u.clock.Now()); err != nil {
			return err
		}

		affected, err := u.requestRepo.Complete(tx, request)
		if err != nil {
			u.log.Warnf("Failed to complete x-ray request %s: %+v", id, err)
			return err
		}
		if affected == 0 {
			return entity.ErrXRayRequestCompleted
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditResourceXRayRequest, id.String(), before, request)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("X-ray request completed: id=%s, by=%s", id, actor.UserID)
	return converter.XRayRequestToResponse(request), nil
}

// RegisterFile stores the metadata of an uploaded x-ray image.
func (u *xrayUsecase) RegisterFile(ctx context.Context, actor entity.Actor, req *dto.RegisterXRayFileRequest) (*dto.XRayFileResponse, error) {
	if !access.CanCompleteXray(actor.Role) {
		return nil, ErrPermissionDenied
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrInvalidID
	}
	treatmentID, err := parseOptionalID(req.TreatmentID)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	file := &entity.XRayFile{
		ID:          uuid.New(),
		PatientID:   patientID,
		TreatmentID: treatmentID,
		BranchID:    actor.BranchID,
		UploadedBy:  actor.UserID,
		FileType:    req.FileType,
		FileURL:     req.FileURL,
		FileSize:    req.FileSize,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientRepo.FindByID(tx, patientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
			return err
		}
		if patient == nil || !patient.IsActive || !patient.InBranch(actor.BranchID) {
			return ErrPatientNotFound
		}

		if treatmentID != nil {
			treatment, err := u.treatmentRepo.FindByID(tx, *treatmentID)
			if err != nil {
				u.log.Warnf("Failed to find treatment %s: %+v", *treatmentID, err)
				return err
			}
			if treatment == nil || !treatment.InBranch(actor.BranchID) || treatment.PatientID != patientID {
				return ErrTreatmentNotFound
			}
		}

		if err := u.fileRepo.Create(tx, file); err != nil {
			u.log.Warnf("Failed to register x-ray file: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourceXRayFile, file.ID.String(), file)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("X-ray file registered: id=%s, patient=%s", file.ID, patientID)
	return converter.XRayFileToResponse(file), nil
}

// ListFiles returns active x-ray files of the actor's branch. A doctor only
// sees files of patients visible to them.
func (u *xrayUsecase) ListFiles(ctx context.Context, actor entity.Actor, patientID string) (*dto.XRayFileListResponse, error) {
	pid, err := parseOptionalID(patientID)
	if err != nil {
		return nil, err
	}

	db := u.tx.DB(ctx)
	files, err := u.fileRepo.FindByBranch(db, actor.BranchID, pid)
	if err != nil {
		u.log.Warnf("Failed to list x-ray files: %+v", err)
		return nil, err
	}
	files = access.VisibleXRayFiles(actor.BranchID, files)

	if actor.IsDoctor() {
		files, err = u.filterByVisiblePatients(db, actor, files)
		if err != nil {
			return nil, err
		}
	}

	return &dto.XRayFileListResponse{
		Files: converter.XRayFilesToResponses(files),
		Total: len(files),
	}, nil
}

func (u *xrayUsecase) filterByVisiblePatients(db *gorm.DB, actor entity.Actor, files []entity.XRayFile) ([]entity.XRayFile, error) {
	patients, err := u.patientRepo.FindByBranch(db, actor.BranchID)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	visible := make(map[uuid.UUID]struct{})
	for _, p := range access.VisiblePatients(actor, patients) {
		visible[p.ID] = struct{}{}
	}

	out := make([]entity.XRayFile, 0, len(files))
	for _, f := range files {
		if _, ok := visible[f.PatientID]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}
