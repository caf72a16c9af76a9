package usecase

import (
	"context"
	"fmt"
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

var (
	ErrTreatmentNotFound         = apperror.New(apperror.KindNotFound, "treatment not found")
	ErrTreatmentNotEditable      = apperror.New(apperror.KindPermissionDenied, "you cannot edit this treatment")
	ErrInvalidTreatmentStatus    = apperror.New(apperror.KindInvalidTransition, "invalid treatment status")
	ErrTreatmentConcurrentUpdate = apperror.New(apperror.KindConcurrentModification, "treatment was modified by another request, reload and try again")
	ErrTreatmentServiceNotFound  = apperror.New(apperror.KindNotFound, "treatment service not found")
	ErrServiceUnavailable        = apperror.New(apperror.KindValidation, "service is inactive or belongs to another branch")
	ErrInvalidQuantity           = apperror.New(apperror.KindValidation, "quantity must be at least 1")
	ErrDuplicateInvoice          = apperror.New(apperror.KindDuplicateInvoice, "an invoice already exists for this treatment")
	ErrInvoiceNumberTaken        = apperror.New(apperror.KindConflict, "invoice number already issued, try again")
	ErrXrayNotAllowed            = apperror.New(apperror.KindPermissionDenied, "only the treating doctor can request an x-ray")
	ErrTreatmentCreateForbidden  = apperror.New(apperror.KindPermissionDenied, "you cannot create treatments for this doctor")
	ErrDoctorRequired            = apperror.New(apperror.KindValidation, "doctor_id is required")
)

type TreatmentUsecase interface {
	CreateTreatment(ctx context.Context, actor entity.Actor, req *dto.CreateTreatmentRequest) (*dto.TreatmentResponse, error)
	GetTreatment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.TreatmentResponse, error)
	ListTreatments(ctx context.Context, actor entity.Actor, query *dto.TreatmentQuery) (*dto.TreatmentListResponse, error)
	UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateTreatmentStatusRequest) (*dto.StatusUpdateResponse, error)
	AddService(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.AddTreatmentServiceRequest) (*dto.TreatmentResponse, error)
	RemoveService(ctx context.Context, actor entity.Actor, id uuid.UUID, lineID uuid.UUID) (*dto.TreatmentResponse, error)
	UpdateNotes(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateTreatmentNotesRequest) (*dto.TreatmentResponse, error)
	RequestXray(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RequestXRayRequest) (*dto.XRayRequestResponse, error)
}

type treatmentUsecase struct {
	tx             repository.Transactor
	log            *logrus.Logger
	clock          clock.Clock
	locker         Locker
	treatmentRepo  repository.TreatmentRepository
	lineRepo       repository.TreatmentServiceRepository
	serviceRepo    repository.ServiceRepository
	patientRepo    repository.PatientRepository
	doctorRepo     repository.DoctorRepository
	invoiceRepo    repository.InvoiceRepository
	xrayRepo       repository.XRayRequestRepository
	invoiceNumbers service.InvoiceNumberGenerator
	auditService   service.AuditService
}

func NewTreatmentUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	clock clock.Clock,
	locker Locker,
	treatmentRepo repository.TreatmentRepository,
	lineRepo repository.TreatmentServiceRepository,
	serviceRepo repository.ServiceRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	invoiceRepo repository.InvoiceRepository,
	xrayRepo repository.XRayRequestRepository,
	invoiceNumbers service.InvoiceNumberGenerator,
	auditService service.AuditService,
) TreatmentUsecase {
	return &treatmentUsecase{
		tx:             tx,
		log:            log,
		clock:          clock,
		locker:         locker,
		treatmentRepo:  treatmentRepo,
		lineRepo:       lineRepo,
		serviceRepo:    serviceRepo,
		patientRepo:    patientRepo,
		doctorRepo:     doctorRepo,
		invoiceRepo:    invoiceRepo,
		xrayRepo:       xrayRepo,
		invoiceNumbers: invoiceNumbers,
		auditService:   auditService,
	}
}

// CreateTreatment opens a pending treatment for a patient of the actor's branch.
// A doctor always opens treatments for themselves.
func (u *treatmentUsecase) CreateTreatment(ctx context.Context, actor entity.Actor, req *dto.CreateTreatmentRequest) (*dto.TreatmentResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doctorID uuid.UUID
	switch {
	case actor.IsDoctor() && actor.DoctorID != nil && req.DoctorID == "":
		doctorID = *actor.DoctorID
	case req.DoctorID == "":
		return nil, ErrDoctorRequired
	default:
		if doctorID, err = uuid.Parse(req.DoctorID); err != nil {
			return nil, ErrInvalidID
		}
	}
	if !access.CanCreateTreatment(actor, doctorID) {
		return nil, ErrTreatmentCreateForbidden
	}

	now := u.clock.Now()
	treatmentDate := now
	if req.TreatmentDate != "" {
		if treatmentDate, err = parseTreatmentDate(req.TreatmentDate); err != nil {
			return nil, ErrInvalidDate
		}
	}

	db := u.tx.DB(ctx)

	patient, err := u.patientRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil || !access.CanViewPatient(actor, patient) {
		return nil, ErrPatientNotFound
	}

	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil || !doctor.IsActive || !doctor.InBranch(actor.BranchID) {
		return nil, ErrDoctorNotFound
	}

	treatment := &entity.Treatment{
		ID:            uuid.New(),
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		BranchID:      actor.BranchID,
		Status:        entity.TreatmentStatusPending,
		TreatmentDate: treatmentDate,
		Notes:         req.Notes,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	treatment.Recalculate(nil)

	err = u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.treatmentRepo.Create(tx, treatment); err != nil {
			u.log.Warnf("Failed to create treatment: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourceTreatment, treatment.ID.String(), treatment)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Treatment created: id=%s, patient=%s, doctor=%s", treatment.ID, patient.ID, doctor.ID)
	return converter.TreatmentToResponse(treatment, nil, nil, access.CanEditTreatment(actor, treatment)), nil
}

// GetTreatment returns the treatment with its live service lines and invoice, if any.
func (u *treatmentUsecase) GetTreatment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.TreatmentResponse, error) {
	db := u.tx.DB(ctx)

	treatment, err := u.findVisible(db, actor, id)
	if err != nil {
		return nil, err
	}

	lines, err := u.lineRepo.FindByTreatmentID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find services of treatment %s: %+v", id, err)
		return nil, err
	}
	treatment.Recalculate(lines)

	invoice, err := u.invoiceRepo.FindByTreatmentID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find invoice of treatment %s: %+v", id, err)
		return nil, err
	}

	return converter.TreatmentToResponse(treatment, lines, invoice, access.CanEditTreatment(actor, treatment)), nil
}

// ListTreatments lists the treatments of the actor's branch. Doctors only see their own.
func (u *treatmentUsecase) ListTreatments(ctx context.Context, actor entity.Actor, query *dto.TreatmentQuery) (*dto.TreatmentListResponse, error) {
	filter := &entity.TreatmentFilter{BranchID: actor.BranchID}
	if query != nil {
		var err error
		if filter.PatientID, err = parseOptionalID(query.PatientID); err != nil {
			return nil, err
		}
		if filter.DoctorID, err = parseOptionalID(query.DoctorID); err != nil {
			return nil, err
		}
		filter.Status = entity.TreatmentStatus(query.Status)
		filter.StartAt = query.StartAt
		filter.EndAt = query.EndAt
	}
	if actor.IsDoctor() {
		if actor.DoctorID == nil {
			return &dto.TreatmentListResponse{Treatments: []dto.TreatmentResponse{}}, nil
		}
		filter.DoctorID = actor.DoctorID
	}

	treatments, err := u.treatmentRepo.FindAll(u.tx.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list treatments: %+v", err)
		return nil, err
	}
	treatments = access.VisibleTreatments(actor.BranchID, treatments)

	responses := make([]dto.TreatmentResponse, len(treatments))
	for i := range treatments {
		responses[i] = *converter.TreatmentToResponse(&treatments[i], nil, nil, access.CanEditTreatment(actor, &treatments[i]))
	}
	return &dto.TreatmentListResponse{
		Treatments: responses,
		Total:      len(responses),
	}, nil
}

// UpdateStatus moves a treatment to a new status. Completing it generates the
// invoice unless one already exists.
//
// Flow:
// 1. Validate status against the enum
// 2. Serialise on the treatment id, then gate on CanEditTreatment
// 3. Compare-and-swap the treatment row on its version
// 4. On completion, create the invoice from the live service lines
func (u *treatmentUsecase) UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateTreatmentStatusRequest) (*dto.StatusUpdateResponse, error) {
	newStatus := entity.TreatmentStatus(req.Status)
	if !newStatus.IsValid() {
		return nil, ErrInvalidTreatmentStatus
	}

	unlock := u.locker.Lock(treatmentLockKey(id))
	defer unlock()

	var (
		treatment *entity.Treatment
		lines     []entity.TreatmentService
		invoice   *entity.Invoice
	)
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		treatment, err = u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}
		if !access.CanEditTreatment(actor, treatment) {
			return ErrTreatmentNotEditable
		}

		before := *treatment
		now := u.clock.Now()
		treatment.Status = newStatus
		treatment.UpdatedAt = now

		if lines, err = u.lineRepo.FindByTreatmentID(tx, id); err != nil {
			u.log.Warnf("Failed to find services of treatment %s: %+v", id, err)
			return err
		}
		treatment.Recalculate(lines)

		if err := u.saveTreatment(tx, treatment, before.Version); err != nil {
			return err
		}
		if err := u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditResourceTreatment, id.String(), before, treatment); err != nil {
			return err
		}

		if treatment.IsCompleted() {
			invoice, err = u.ensureInvoice(ctx, tx, actor, treatment, lines, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Treatment status updated: id=%s, status=%s", id, newStatus)
	return &dto.StatusUpdateResponse{
		Treatment: *converter.TreatmentToResponse(treatment, lines, nil, access.CanEditTreatment(actor, treatment)),
		Invoice:   converter.InvoiceToResponse(invoice),
	}, nil
}

// ensureInvoice returns the newly created invoice, or nil when the treatment already had one.
func (u *treatmentUsecase) ensureInvoice(ctx context.Context, tx *gorm.DB, actor entity.Actor, treatment *entity.Treatment, lines []entity.TreatmentService, now time.Time) (*entity.Invoice, error) {
	existing, err := u.invoiceRepo.FindByTreatmentID(tx, treatment.ID)
	if err != nil {
		u.log.Warnf("Failed to find invoice of treatment %s: %+v", treatment.ID, err)
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	number, err := u.invoiceNumbers.Next(ctx, now)
	if err != nil {
		u.log.Warnf("Failed to allocate invoice number: %+v", err)
		return nil, err
	}

	invoice := entity.NewInvoice(number, treatment, lines, now)
	invoice.Version = 1
	if err := u.invoiceRepo.Create(tx, invoice); err != nil {
		if isDuplicateKeyError(err, "treatment_id") {
			return nil, ErrDuplicateInvoice
		}
		if isDuplicateKeyError(err, "invoice_number") {
			u.log.Warnf("Invoice number %s already issued, sequence is behind the invoices table", number)
			return nil, ErrInvoiceNumberTaken
		}
		u.log.Warnf("Failed to create invoice for treatment %s: %+v", treatment.ID, err)
		return nil, err
	}
	if err := u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourceInvoice, invoice.ID.String(), invoice); err != nil {
		return nil, err
	}

	u.log.Infof("Invoice generated: id=%s, number=%s, treatment=%s, total=%s", invoice.ID, invoice.InvoiceNumber, treatment.ID, invoice.TotalAmount)
	return invoice, nil
}

// AddService adds a service line with the catalog price captured now.
func (u *treatmentUsecase) AddService(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.AddTreatmentServiceRequest) (*dto.TreatmentResponse, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, ErrInvalidID
	}

	return u.mutateLines(ctx, actor, id, func(tx *gorm.DB, treatment *entity.Treatment) error {
		svc, err := u.serviceRepo.FindByID(tx, serviceID)
		if err != nil {
			u.log.Warnf("Failed to find service %s: %+v", serviceID, err)
			return err
		}
		if svc == nil {
			return ErrServiceNotFound
		}
		if !svc.IsUsableIn(treatment.BranchID) {
			return ErrServiceUnavailable
		}

		line := entity.NewTreatmentService(treatment.ID, svc, req.Quantity, u.clock.Now())
		if err := u.lineRepo.Create(tx, line); err != nil {
			u.log.Warnf("Failed to add service to treatment %s: %+v", treatment.ID, err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourceTreatmentService, line.ID.String(), line)
	})
}

// RemoveService deletes a service line. An existing invoice is never touched.
func (u *treatmentUsecase) RemoveService(ctx context.Context, actor entity.Actor, id uuid.UUID, lineID uuid.UUID) (*dto.TreatmentResponse, error) {
	return u.mutateLines(ctx, actor, id, func(tx *gorm.DB, treatment *entity.Treatment) error {
		line, err := u.lineRepo.FindByID(tx, lineID)
		if err != nil {
			u.log.Warnf("Failed to find treatment service %s: %+v", lineID, err)
			return err
		}
		if line == nil || line.TreatmentID != treatment.ID {
			return ErrTreatmentServiceNotFound
		}

		affected, err := u.lineRepo.Delete(tx, lineID)
		if err != nil {
			u.log.Warnf("Failed to remove treatment service %s: %+v", lineID, err)
			return err
		}
		if affected == 0 {
			return ErrTreatmentServiceNotFound
		}
		return u.auditService.LogDelete(ctx, tx, &actor.UserID, entity.AuditResourceTreatmentService, lineID.String(), line)
	})
}

// mutateLines runs change under the treatment's edit gate, then recomputes the
// total from the stored lines and saves the treatment.
func (u *treatmentUsecase) mutateLines(ctx context.Context, actor entity.Actor, id uuid.UUID, change func(tx *gorm.DB, treatment *entity.Treatment) error) (*dto.TreatmentResponse, error) {
	unlock := u.locker.Lock(treatmentLockKey(id))
	defer unlock()

	var (
		treatment *entity.Treatment
		lines     []entity.TreatmentService
	)
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		treatment, err = u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}
		if !access.CanEditTreatment(actor, treatment) {
			return ErrTreatmentNotEditable
		}
		expected := treatment.Version

		if err := change(tx, treatment); err != nil {
			return err
		}

		if lines, err = u.lineRepo.FindByTreatmentID(tx, id); err != nil {
			u.log.Warnf("Failed to find services of treatment %s: %+v", id, err)
			return err
		}
		treatment.Recalculate(lines)
		treatment.UpdatedAt = u.clock.Now()
		return u.saveTreatment(tx, treatment, expected)
	})
	if err != nil {
		return nil, err
	}

	return converter.TreatmentToResponse(treatment, lines, nil, access.CanEditTreatment(actor, treatment)), nil
}

// UpdateNotes replaces the treatment notes.
func (u *treatmentUsecase) UpdateNotes(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateTreatmentNotesRequest) (*dto.TreatmentResponse, error) {
	unlock := u.locker.Lock(treatmentLockKey(id))
	defer unlock()

	var (
		treatment *entity.Treatment
		lines     []entity.TreatmentService
	)
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		treatment, err = u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}
		if !access.CanEditTreatment(actor, treatment) {
			return ErrTreatmentNotEditable
		}

		before := *treatment
		treatment.Notes = req.Notes
		treatment.UpdatedAt = u.clock.Now()

		if lines, err = u.lineRepo.FindByTreatmentID(tx, id); err != nil {
			u.log.Warnf("Failed to find services of treatment %s: %+v", id, err)
			return err
		}
		treatment.Recalculate(lines)

		if err := u.saveTreatment(tx, treatment, before.Version); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditResourceTreatment, id.String(), before, treatment)
	})
	if err != nil {
		return nil, err
	}

	return converter.TreatmentToResponse(treatment, lines, nil, true), nil
}

// RequestXray queues an x-ray for the treatment. Only its doctor may ask for one.
func (u *treatmentUsecase) RequestXray(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RequestXRayRequest) (*dto.XRayRequestResponse, error) {
	var request *entity.XRayRequest
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		treatment, err := u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}
		if !access.CanRequestXray(actor, treatment) {
			return ErrXrayNotAllowed
		}

		request = entity.NewXRayRequest(treatment, req.Notes, u.clock.Now())
		if err := u.xrayRepo.Create(tx, request); err != nil {
			u.log.Warnf("Failed to create x-ray request for treatment %s: %+v", id, err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourceXRayRequest, request.ID.String(), request)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("X-ray requested: id=%s, treatment=%s", request.ID, id)
	return converter.XRayRequestToResponse(request), nil
}

// findVisible loads a treatment of the actor's branch. Treatments of other
// branches, and other doctors' treatments for a doctor, are reported as not found.
func (u *treatmentUsecase) findVisible(db *gorm.DB, actor entity.Actor, id uuid.UUID) (*entity.Treatment, error) {
	treatment, err := u.treatmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment %s: %+v", id, err)
		return nil, err
	}
	if treatment == nil || !treatment.InBranch(actor.BranchID) {
		return nil, ErrTreatmentNotFound
	}
	if actor.IsDoctor() && !actor.IsDoctorOf(treatment.DoctorID) {
		return nil, ErrTreatmentNotFound
	}
	return treatment, nil
}

func (u *treatmentUsecase) saveTreatment(tx *gorm.DB, treatment *entity.Treatment, expectedVersion int) error {
	affected, err := u.treatmentRepo.UpdateWithVersion(tx, treatment, expectedVersion)
	if err != nil {
		u.log.Warnf("Failed to update treatment %s: %+v", treatment.ID, err)
		return err
	}
	if affected == 0 {
		return ErrTreatmentConcurrentUpdate
	}
	return nil
}

func parseTreatmentDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse treatment date: %w", err)
	}
	return t, nil
}
