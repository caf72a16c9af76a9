package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/apperror"
	"clinic-management/internal/domain/entity"
	"clinic-management/pkg/clock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type treatmentFixture struct {
	uc         TreatmentUsecase
	tx         *fakeTransactor
	locker     *fakeLocker
	treatments *MockTreatmentRepository
	lines      *MockTreatmentServiceRepository
	services   *MockServiceRepository
	patients   *MockPatientRepository
	doctors    *MockDoctorRepository
	invoices   *MockInvoiceRepository
	xrays      *MockXRayRequestRepository
	numbers    *MockInvoiceNumberGenerator
	audit      *MockAuditService
}

func newTreatmentFixture() *treatmentFixture {
	f := &treatmentFixture{
		tx:         &fakeTransactor{},
		locker:     &fakeLocker{},
		treatments: new(MockTreatmentRepository),
		lines:      new(MockTreatmentServiceRepository),
		services:   new(MockServiceRepository),
		patients:   new(MockPatientRepository),
		doctors:    new(MockDoctorRepository),
		invoices:   new(MockInvoiceRepository),
		xrays:      new(MockXRayRequestRepository),
		numbers:    new(MockInvoiceNumberGenerator),
		audit:      allowAudit(new(MockAuditService)),
	}
	f.uc = NewTreatmentUsecase(
		f.tx, quietLogger(), clock.Fixed(testNow), f.locker,
		f.treatments, f.lines, f.services, f.patients, f.doctors,
		f.invoices, f.xrays, f.numbers, f.audit,
	)
	return f
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "want %s, got %s", want, got)
}

type clinicSetup struct {
	branchID uuid.UUID
	doctorID uuid.UUID
	doctor   entity.Actor
	desk     entity.Actor
}

func newClinicSetup() clinicSetup {
	branchID := uuid.New()
	doctorID := uuid.New()
	return clinicSetup{
		branchID: branchID,
		doctorID: doctorID,
		doctor:   entity.Actor{UserID: uuid.New(), Role: entity.RoleDoctor, BranchID: branchID, DoctorID: &doctorID},
		desk:     entity.Actor{UserID: uuid.New(), Role: entity.RoleReceptionist, BranchID: branchID},
	}
}

func (s clinicSetup) treatment(status entity.TreatmentStatus) *entity.Treatment {
	return &entity.Treatment{
		ID:            uuid.New(),
		PatientID:     uuid.New(),
		DoctorID:      s.doctorID,
		BranchID:      s.branchID,
		Status:        status,
		TreatmentDate: testNow,
		Version:       3,
	}
}

// lines worth 950: one root canal at 750.00 and two x-rays at 100.00.
func scenarioLines(treatmentID uuid.UUID) []entity.TreatmentService {
	return []entity.TreatmentService{
		{ID: uuid.New(), TreatmentID: treatmentID, ServiceID: uuid.New(), Quantity: 1, PriceAtTime: money("750.00")},
		{ID: uuid.New(), TreatmentID: treatmentID, ServiceID: uuid.New(), Quantity: 2, PriceAtTime: money("100.00")},
	}
}

func TestTreatmentUsecase_CompleteGeneratesInvoice(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	tr := s.treatment(entity.TreatmentStatusInProgress)

	f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
	f.lines.On("FindByTreatmentID", mock.Anything, tr.ID).Return(scenarioLines(tr.ID), nil)
	f.treatments.On("UpdateWithVersion", mock.Anything, tr, 3).Return(int64(1), nil)
	f.invoices.On("FindByTreatmentID", mock.Anything, tr.ID).Return(nil, nil)
	f.numbers.On("Next", mock.Anything, testNow).Return("INV-20260314-0001", nil)

	var created *entity.Invoice
	f.invoices.On("Create", mock.Anything, mock.AnythingOfType("*entity.Invoice")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*entity.Invoice) }).
		Return(nil)

	resp, err := f.uc.UpdateStatus(context.Background(), s.doctor, tr.ID, &dto.UpdateTreatmentStatusRequest{Status: "completed"})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "completed", resp.Treatment.Status)
	assert.False(t, resp.Treatment.CanEdit)
	assertMoney(t, "950", resp.Treatment.TotalCost)

	require.NotNil(t, resp.Invoice)
	assert.Equal(t, "INV-20260314-0001", resp.Invoice.InvoiceNumber)
	assertMoney(t, "950", created.Subtotal)
	assertMoney(t, "95", created.Tax)
	assertMoney(t, "0", created.Discount)
	assertMoney(t, "1045", created.TotalAmount)
	assertMoney(t, "1045", created.BalanceRemaining)
	assert.Equal(t, entity.InvoiceStatusUnpaid, created.Status)
	assert.Equal(t, testNow.AddDate(0, 0, 30), created.DueDate)
	assert.Equal(t, 1, created.Version)
	assert.Equal(t, tr.PatientID, created.PatientID)
	assert.Equal(t, s.branchID, created.BranchID)

	assert.Equal(t, []string{treatmentLockKey(tr.ID)}, f.locker.keys)
	assert.Equal(t, 1, f.tx.commits)
}

func TestTreatmentUsecase_SecondCompletionCreatesNoInvoice(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	tr := s.treatment(entity.TreatmentStatusCompleted)

	f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)

	_, err := f.uc.UpdateStatus(context.Background(), s.desk, tr.ID, &dto.UpdateTreatmentStatusRequest{Status: "completed"})

	assert.ErrorIs(t, err, apperror.PermissionDenied)
	f.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.numbers.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
}

func TestTreatmentUsecase_CompleteKeepsExistingInvoice(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	tr := s.treatment(entity.TreatmentStatusInProgress)
	existing := &entity.Invoice{ID: uuid.New(), TreatmentID: tr.ID}

	f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
	f.lines.On("FindByTreatmentID", mock.Anything, tr.ID).Return(scenarioLines(tr.ID), nil)
	f.treatments.On("UpdateWithVersion", mock.Anything, tr, 3).Return(int64(1), nil)
	f.invoices.On("FindByTreatmentID", mock.Anything, tr.ID).Return(existing, nil)

	resp, err := f.uc.UpdateStatus(context.Background(), s.desk, tr.ID, &dto.UpdateTreatmentStatusRequest{Status: "completed"})

	require.NoError(t, err)
	assert.Nil(t, resp.Invoice)
	f.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.numbers.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
}

func TestTreatmentUsecase_CompleteLosesInvoiceRace(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	tr := s.treatment(entity.TreatmentStatusInProgress)

	f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
	f.lines.On("FindByTreatmentID", mock.Anything, tr.ID).Return(scenarioLines(tr.ID), nil)
	f.treatments.On("UpdateWithVersion", mock.Anything, tr, 3).Return(int64(1), nil)
	f.invoices.On("FindByTreatmentID", mock.Anything, tr.ID).Return(nil, nil)
	f.numbers.On("Next", mock.Anything, testNow).Return("INV-20260314-0002", nil)
	f.invoices.On("Create", mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "idx_invoices_treatment_id"})

	_, err := f.uc.UpdateStatus(context.Background(), s.desk, tr.ID, &dto.UpdateTreatmentStatusRequest{Status: "completed"})

	assert.ErrorIs(t, err, ErrDuplicateInvoice)
	assert.Equal(t, apperror.KindDuplicateInvoice, apperror.KindOf(err))
	assert.Equal(t, 0, f.tx.commits)
}

func TestTreatmentUsecase_CompleteWithStaleInvoiceNumber(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	tr := s.treatment(entity.TreatmentStatusInProgress)

	f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
	f.lines.On("FindByTreatmentID", mock.Anything, tr.ID).Return(scenarioLines(tr.ID), nil)
	f.treatments.On("UpdateWithVersion", mock.Anything, tr, 3).Return(int64(1), nil)
	f.invoices.On("FindByTreatmentID", mock.Anything, tr.ID).Return(nil, nil)
	f.numbers.On("Next", mock.Anything, testNow).Return("INV-20260314-0001", nil)
	f.invoices.On("Create", mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "idx_invoices_invoice_number"})

	_, err := f.uc.UpdateStatus(context.Background(), s.desk, tr.ID, &dto.UpdateTreatmentStatusRequest{Status: "completed"})

	assert.ErrorIs(t, err, ErrInvoiceNumberTaken)
	assert.NotErrorIs(t, err, ErrDuplicateInvoice)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, 0, f.tx.commits)
}

func TestTreatmentUsecase_UpdateStatusVersionConflict(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	tr := s.treatment(entity.TreatmentStatusPending)

	f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
	f.lines.On("FindByTreatmentID", mock.Anything, tr.ID).Return([]entity.TreatmentService{}, nil)
	f.treatments.On("UpdateWithVersion", mock.Anything, tr, 3).Return(int64(0), nil)

	_, err := f.uc.UpdateStatus(context.Background(), s.desk, tr.ID, &dto.UpdateTreatmentStatusRequest{Status: "in_progress"})

	assert.ErrorIs(t, err, apperror.ConcurrentModification)
	f.invoices.AssertNotCalled(t, "FindByTreatmentID", mock.Anything, mock.Anything)
}

func TestTreatmentUsecase_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()

	_, err := f.uc.UpdateStatus(context.Background(), s.desk, uuid.New(), &dto.UpdateTreatmentStatusRequest{Status: "archived"})

	assert.ErrorIs(t, err, apperror.InvalidTransition)
	assert.Empty(t, f.locker.keys)
}

func TestTreatmentUsecase_CompletedTreatmentIsReadOnly(t *testing.T) {
	s := newClinicSetup()
	admin := entity.Actor{UserID: uuid.New(), Role: entity.RoleAdmin, BranchID: s.branchID}

	for _, actor := range []entity.Actor{s.desk, s.doctor, admin} {
		t.Run(string(actor.Role), func(t *testing.T) {
			f := newTreatmentFixture()
			tr := s.treatment(entity.TreatmentStatusCompleted)
			f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)

			_, err := f.uc.AddService(context.Background(), actor, tr.ID,
				&dto.AddTreatmentServiceRequest{ServiceID: uuid.NewString(), Quantity: 1})
			assert.ErrorIs(t, err, apperror.PermissionDenied)

			_, err = f.uc.RemoveService(context.Background(), actor, tr.ID, uuid.New())
			assert.ErrorIs(t, err, apperror.PermissionDenied)

			_, err = f.uc.UpdateNotes(context.Background(), actor, tr.ID, &dto.UpdateTreatmentNotesRequest{Notes: "late"})
			assert.ErrorIs(t, err, apperror.PermissionDenied)

			f.services.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
			f.lines.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			f.treatments.AssertNotCalled(t, "UpdateWithVersion", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTreatmentUsecase_AddServiceSnapshotsPrice(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	tr := s.treatment(entity.TreatmentStatusInProgress)
	svc := &entity.Service{ID: uuid.New(), BranchID: s.branchID, Name: "X-Ray", Price: money("100.00"), IsActive: true}
	rootCanal := entity.TreatmentService{ID: uuid.New(), TreatmentID: tr.ID, ServiceID: uuid.New(), Quantity: 1, PriceAtTime: money("750.00")}

	f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
	f.services.On("FindByID", mock.Anything, svc.ID).Return(svc, nil)

	var added *entity.TreatmentService
	f.lines.On("Create", mock.Anything, mock.AnythingOfType("*entity.TreatmentService")).
		Run(func(args mock.Arguments) { added = args.Get(1).(*entity.TreatmentService) }).
		Return(nil)
	f.lines.On("FindByTreatmentID", mock.Anything, tr.ID).Return([]entity.TreatmentService{
		rootCanal,
		{ID: uuid.New(), TreatmentID: tr.ID, ServiceID: svc.ID, Quantity: 2, PriceAtTime: money("100.00")},
	}, nil)
	f.treatments.On("UpdateWithVersion", mock.Anything, tr, 3).Return(int64(1), nil)

	resp, err := f.uc.AddService(context.Background(), s.doctor, tr.ID,
		&dto.AddTreatmentServiceRequest{ServiceID: svc.ID.String(), Quantity: 2})

	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, tr.ID, added.TreatmentID)
	assert.Equal(t, 2, added.Quantity)
	assertMoney(t, "100", added.PriceAtTime)
	assertMoney(t, "950", resp.TotalCost)
	assert.Len(t, resp.Services, 2)
	assert.True(t, resp.CanEdit)
}

func TestTreatmentUsecase_AddServiceRejections(t *testing.T) {
	s := newClinicSetup()

	t.Run("quantity below one", func(t *testing.T) {
		f := newTreatmentFixture()
		_, err := f.uc.AddService(context.Background(), s.desk, uuid.New(),
			&dto.AddTreatmentServiceRequest{ServiceID: uuid.NewString(), Quantity: 0})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	unusable := map[string]*entity.Service{
		"inactive":     {ID: uuid.New(), BranchID: s.branchID, Price: money("10"), IsActive: false},
		"other branch": {ID: uuid.New(), BranchID: uuid.New(), Price: money("10"), IsActive: true},
	}
	for name, svc := range unusable {
		t.Run(name, func(t *testing.T) {
			f := newTreatmentFixture()
			tr := s.treatment(entity.TreatmentStatusPending)
			f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
			f.services.On("FindByID", mock.Anything, svc.ID).Return(svc, nil)

			_, err := f.uc.AddService(context.Background(), s.desk, tr.ID,
				&dto.AddTreatmentServiceRequest{ServiceID: svc.ID.String(), Quantity: 1})

			assert.ErrorIs(t, err, ErrServiceUnavailable)
			f.lines.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestTreatmentUsecase_RemoveServiceLeavesInvoiceAlone(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	tr := s.treatment(entity.TreatmentStatusInProgress)
	lines := scenarioLines(tr.ID)

	f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
	f.lines.On("FindByID", mock.Anything, lines[0].ID).Return(&lines[0], nil)
	f.lines.On("Delete", mock.Anything, lines[0].ID).Return(int64(1), nil)
	f.lines.On("FindByTreatmentID", mock.Anything, tr.ID).Return(lines[1:], nil)
	f.treatments.On("UpdateWithVersion", mock.Anything, tr, 3).Return(int64(1), nil)

	resp, err := f.uc.RemoveService(context.Background(), s.desk, tr.ID, lines[0].ID)

	require.NoError(t, err)
	assertMoney(t, "200", resp.TotalCost)
	assert.Empty(t, f.invoices.Calls)
}

func TestTreatmentUsecase_RemoveServiceOfAnotherTreatment(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	tr := s.treatment(entity.TreatmentStatusInProgress)
	foreign := entity.TreatmentService{ID: uuid.New(), TreatmentID: uuid.New()}

	f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
	f.lines.On("FindByID", mock.Anything, foreign.ID).Return(&foreign, nil)

	_, err := f.uc.RemoveService(context.Background(), s.desk, tr.ID, foreign.ID)

	assert.ErrorIs(t, err, ErrTreatmentServiceNotFound)
	f.lines.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTreatmentUsecase_HiddenTreatmentsAreNotFound(t *testing.T) {
	s := newClinicSetup()
	otherDoctorID := uuid.New()
	otherDoctor := entity.Actor{UserID: uuid.New(), Role: entity.RoleDoctor, BranchID: s.branchID, DoctorID: &otherDoctorID}
	otherBranchDesk := entity.Actor{UserID: uuid.New(), Role: entity.RoleReceptionist, BranchID: uuid.New()}

	for name, actor := range map[string]entity.Actor{"other doctor": otherDoctor, "other branch": otherBranchDesk} {
		t.Run(name, func(t *testing.T) {
			f := newTreatmentFixture()
			tr := s.treatment(entity.TreatmentStatusPending)
			f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)

			_, err := f.uc.GetTreatment(context.Background(), actor, tr.ID)
			assert.ErrorIs(t, err, apperror.NotFound)
		})
	}
}

func TestTreatmentUsecase_GetTreatmentUsesLiveTotal(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	tr := s.treatment(entity.TreatmentStatusCompleted)
	tr.TotalCost = money("1")
	invoice := &entity.Invoice{ID: uuid.New(), TreatmentID: tr.ID, InvoiceNumber: "INV-20260314-0003"}

	f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
	f.lines.On("FindByTreatmentID", mock.Anything, tr.ID).Return(scenarioLines(tr.ID), nil)
	f.invoices.On("FindByTreatmentID", mock.Anything, tr.ID).Return(invoice, nil)

	resp, err := f.uc.GetTreatment(context.Background(), s.doctor, tr.ID)

	require.NoError(t, err)
	assertMoney(t, "950", resp.TotalCost)
	require.NotNil(t, resp.Invoice)
	assert.Equal(t, "INV-20260314-0003", resp.Invoice.InvoiceNumber)
	assert.False(t, resp.CanEdit)
}

func TestTreatmentUsecase_ListTreatmentsScopesDoctor(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	own := s.treatment(entity.TreatmentStatusPending)

	f.treatments.On("FindAll", mock.Anything, mock.MatchedBy(func(filter *entity.TreatmentFilter) bool {
		return filter.BranchID == s.branchID && filter.DoctorID != nil && *filter.DoctorID == s.doctorID
	})).Return([]entity.Treatment{*own}, nil)

	resp, err := f.uc.ListTreatments(context.Background(), s.doctor, &dto.TreatmentQuery{DoctorID: uuid.NewString()})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.True(t, resp.Treatments[0].CanEdit)
}

func TestTreatmentUsecase_ListTreatmentsUnlinkedDoctor(t *testing.T) {
	f := newTreatmentFixture()
	s := newClinicSetup()
	unlinked := entity.Actor{UserID: uuid.New(), Role: entity.RoleDoctor, BranchID: s.branchID}

	resp, err := f.uc.ListTreatments(context.Background(), unlinked, nil)

	require.NoError(t, err)
	assert.Empty(t, resp.Treatments)
	f.treatments.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestTreatmentUsecase_CreateTreatment(t *testing.T) {
	s := newClinicSetup()
	patient := &entity.Patient{ID: uuid.New(), BranchID: s.branchID, AssignedDoctorID: &s.doctorID, IsActive: true}
	doctor := &entity.Doctor{ID: s.doctorID, BranchID: s.branchID, IsActive: true}

	t.Run("doctor defaults to self", func(t *testing.T) {
		f := newTreatmentFixture()
		f.patients.On("FindByID", mock.Anything, patient.ID).Return(patient, nil)
		f.doctors.On("FindByID", mock.Anything, s.doctorID).Return(doctor, nil)

		var created *entity.Treatment
		f.treatments.On("Create", mock.Anything, mock.AnythingOfType("*entity.Treatment")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*entity.Treatment) }).
			Return(nil)

		resp, err := f.uc.CreateTreatment(context.Background(), s.doctor, &dto.CreateTreatmentRequest{PatientID: patient.ID.String()})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, s.doctorID, created.DoctorID)
		assert.Equal(t, entity.TreatmentStatusPending, created.Status)
		assert.Equal(t, 1, created.Version)
		assert.Equal(t, testNow, created.TreatmentDate)
		assertMoney(t, "0", resp.TotalCost)
	})

	t.Run("doctor cannot open for a colleague", func(t *testing.T) {
		f := newTreatmentFixture()
		_, err := f.uc.CreateTreatment(context.Background(), s.doctor, &dto.CreateTreatmentRequest{
			PatientID: patient.ID.String(),
			DoctorID:  uuid.NewString(),
		})
		assert.ErrorIs(t, err, apperror.PermissionDenied)
	})

	t.Run("receptionist must name a doctor", func(t *testing.T) {
		f := newTreatmentFixture()
		_, err := f.uc.CreateTreatment(context.Background(), s.desk, &dto.CreateTreatmentRequest{PatientID: patient.ID.String()})
		assert.ErrorIs(t, err, ErrDoctorRequired)
	})

	t.Run("bad date", func(t *testing.T) {
		f := newTreatmentFixture()
		_, err := f.uc.CreateTreatment(context.Background(), s.desk, &dto.CreateTreatmentRequest{
			PatientID:     patient.ID.String(),
			DoctorID:      s.doctorID.String(),
			TreatmentDate: "14/03/2026",
		})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestTreatmentUsecase_RequestXray(t *testing.T) {
	s := newClinicSetup()

	t.Run("treating doctor", func(t *testing.T) {
		f := newTreatmentFixture()
		tr := s.treatment(entity.TreatmentStatusInProgress)
		f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
		f.xrays.On("Create", mock.Anything, mock.AnythingOfType("*entity.XRayRequest")).Return(nil)

		resp, err := f.uc.RequestXray(context.Background(), s.doctor, tr.ID, &dto.RequestXRayRequest{Notes: "upper left molar"})

		require.NoError(t, err)
		assert.Equal(t, "requested", resp.Status)
		assert.Equal(t, tr.PatientID, resp.PatientID)
		assert.Equal(t, testNow, resp.RequestedAt)
	})

	t.Run("receptionist", func(t *testing.T) {
		f := newTreatmentFixture()
		tr := s.treatment(entity.TreatmentStatusInProgress)
		f.treatments.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)

		_, err := f.uc.RequestXray(context.Background(), s.desk, tr.ID, &dto.RequestXRayRequest{})

		assert.ErrorIs(t, err, apperror.PermissionDenied)
		f.xrays.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
