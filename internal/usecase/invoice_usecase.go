package usecase

import (
	"context"
	"errors"

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
	ErrInvoiceNotFound         = apperror.New(apperror.KindNotFound, "invoice not found")
	ErrInvoiceConcurrentUpdate = apperror.New(apperror.KindConcurrentModification, "invoice was modified by another request, reload and try again")
	ErrInvalidPaymentMethod    = apperror.New(apperror.KindValidation, "invalid payment method")
)

type InvoiceUsecase interface {
	GetInvoice(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, actor entity.Actor, query *dto.InvoiceQuery) (*dto.InvoiceListResponse, error)
	RecordPayment(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RecordPaymentRequest) (*dto.PaymentResultResponse, error)
	ListPayments(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.PaymentListResponse, error)
	ForceStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.ForceInvoiceStatusRequest) (*dto.InvoiceResponse, error)
}

type invoiceUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	clock        clock.Clock
	locker       Locker
	invoiceRepo  repository.InvoiceRepository
	paymentRepo  repository.PaymentRepository
	auditService service.AuditService
}

func NewInvoiceUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	clock clock.Clock,
	locker Locker,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	auditService service.AuditService,
) InvoiceUsecase {
	return &invoiceUsecase{
		tx:           tx,
		log:          log,
		clock:        clock,
		locker:       locker,
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		auditService: auditService,
	}
}

func (u *invoiceUsecase) GetInvoice(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.InvoiceResponse, error) {
	invoice, err := u.findVisible(u.tx.DB(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.InvoiceToResponse(invoice), nil
}

// ListInvoices pages through the invoices of the actor's branch, newest first.
func (u *invoiceUsecase) ListInvoices(ctx context.Context, actor entity.Actor, query *dto.InvoiceQuery) (*dto.InvoiceListResponse, error) {
	filter := &entity.InvoiceFilter{BranchID: actor.BranchID}
	if query != nil {
		patientID, err := parseOptionalID(query.PatientID)
		if err != nil {
			return nil, err
		}
		filter.PatientID = patientID
		filter.Status = entity.InvoiceStatus(query.Status)
		filter.Search = query.Search
		filter.Pagination = entity.Pagination{Page: query.Page, Limit: query.Limit}
	}

	invoices, total, err := u.invoiceRepo.FindAll(u.tx.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list invoices: %+v", err)
		return nil, err
	}
	invoices = access.VisibleInvoices(actor.BranchID, invoices)

	return &dto.InvoiceListResponse{
		Invoices: converter.InvoicesToResponses(invoices),
		Total:    total,
	}, nil
}

// RecordPayment applies a payment to an invoice and writes the ledger row in
// the same transaction.
//
// Flow:
// 1. Gate on CanManageInvoices
// 2. Serialise on the invoice id and reload it
// 3. ApplyPayment, which validates against the current balance
// 4. Compare-and-swap the invoice on its version, then insert the payment
func (u *invoiceUsecase) RecordPayment(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RecordPaymentRequest) (*dto.PaymentResultResponse, error) {
	if !access.CanManageInvoices(actor.Role) {
		return nil, ErrPermissionDenied
	}
	method := entity.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	unlock := u.locker.Lock(invoiceLockKey(id))
	defer unlock()

	var (
		invoice *entity.Invoice
		payment *entity.Payment
	)
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		invoice, err = u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}

		before := *invoice
		now := u.clock.Now()
		if err := invoice.ApplyPayment(req.Amount, now); err != nil {
			return err
		}
		if err := u.saveInvoice(tx, invoice, before.Version); err != nil {
			return err
		}

		payment = &entity.Payment{
			ID:          uuid.New(),
			InvoiceID:   invoice.ID,
			Amount:      entity.Round2(req.Amount),
			Method:      method,
			Notes:       req.Notes,
			CreatedBy:   actor.UserID,
			PaymentDate: now,
			CreatedAt:   now,
		}
		if err := u.paymentRepo.Create(tx, payment); err != nil {
			u.log.Warnf("Failed to create payment for invoice %s: %+v", id, err)
			return err
		}

		if err := u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditResourcePayment, payment.ID.String(), payment); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditResourceInvoice, id.String(), before, invoice)
	})
	if err != nil {
		if errors.Is(err, apperror.InvalidPayment) {
			u.log.Infof("Payment rejected for invoice %s: %v", id, err)
		}
		return nil, err
	}

	u.log.Infof("Payment recorded: invoice=%s, amount=%s, status=%s", id, payment.Amount, invoice.Status)
	return &dto.PaymentResultResponse{
		Invoice: *converter.InvoiceToResponse(invoice),
		Payment: *converter.PaymentToResponse(payment),
	}, nil
}

func (u *invoiceUsecase) ListPayments(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.PaymentListResponse, error) {
	db := u.tx.DB(ctx)
	if _, err := u.findVisible(db, actor, id); err != nil {
		return nil, err
	}

	payments, err := u.paymentRepo.FindByInvoiceID(db, id)
	if err != nil {
		u.log.Warnf("Failed to list payments of invoice %s: %+v", id, err)
		return nil, err
	}
	return &dto.PaymentListResponse{
		Payments: converter.PaymentsToResponses(payments),
		Total:    len(payments),
	}, nil
}

// ForceStatus overrides the derived status. The override stays visible on the
// invoice until the next payment re-derives it.
func (u *invoiceUsecase) ForceStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.ForceInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if !access.CanManageInvoices(actor.Role) {
		return nil, ErrPermissionDenied
	}

	unlock := u.locker.Lock(invoiceLockKey(id))
	defer unlock()

	var invoice *entity.Invoice
	err := u.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		invoice, err = u.findVisible(tx, actor, id)
		if err != nil {
			return err
		}

		before := *invoice
		if err := invoice.ForceStatus(entity.InvoiceStatus(req.Status), req.Reason, actor.UserID, u.clock.Now()); err != nil {
			return err
		}
		if err := u.saveInvoice(tx, invoice, before.Version); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditResourceInvoice, id.String(), before, invoice)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Invoice status overridden: id=%s, status=%s, by=%s", id, invoice.Status, actor.UserID)
	return converter.InvoiceToResponse(invoice), nil
}

func (u *invoiceUsecase) findVisible(db *gorm.DB, actor entity.Actor, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := u.invoiceRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find invoice %s: %+v", id, err)
		return nil, err
	}
	if invoice == nil || !invoice.InBranch(actor.BranchID) {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

func (u *invoiceUsecase) saveInvoice(tx *gorm.DB, invoice *entity.Invoice, expectedVersion int) error {
	affected, err := u.invoiceRepo.UpdateWithVersion(tx, invoice, expectedVersion)
	if err != nil {
		u.log.Warnf("Failed to update invoice %s: %+v", invoice.ID, err)
		return err
	}
	if affected == 0 {
		return ErrInvoiceConcurrentUpdate
	}
	return nil
}
