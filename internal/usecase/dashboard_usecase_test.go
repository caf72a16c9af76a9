package usecase

import (
	"context"
	"errors"
	"testing"

	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type dashboardFixture struct {
	uc       DashboardUsecase
	patients *MockPatientRepository
	doctors  *MockDoctorRepository
	invoices *MockInvoiceRepository
	branches *MockBranchRepository
}

func newDashboardFixture(s clinicSetup) *dashboardFixture {
	f := &dashboardFixture{
		patients: new(MockPatientRepository),
		doctors:  new(MockDoctorRepository),
		invoices: new(MockInvoiceRepository),
		branches: new(MockBranchRepository),
	}
	f.uc = NewDashboardUsecase(&fakeTransactor{}, quietLogger(), f.patients, f.doctors, f.invoices, f.branches)

	f.patients.On("FindByBranch", mock.Anything, s.branchID).Return(s.patients(), nil)
	f.doctors.On("FindByBranch", mock.Anything, s.branchID).Return([]entity.Doctor{
		{ID: s.doctorID, BranchID: s.branchID},
		{ID: uuid.New(), BranchID: s.branchID},
	}, nil)
	f.invoices.On("CountByBranch", mock.Anything, s.branchID).Return(int64(7), nil)
	f.invoices.On("SumPaidTotal", mock.Anything, s.branchID).Return(money("2090"), nil)
	f.branches.On("Count", mock.Anything).Return(int64(3), nil)
	return f
}

func TestDashboardUsecase_StatsByRole(t *testing.T) {
	s := newClinicSetup()

	t.Run("admin", func(t *testing.T) {
		f := newDashboardFixture(s)
		admin := entity.Actor{UserID: uuid.New(), Role: entity.RoleAdmin, BranchID: s.branchID}

		stats, err := f.uc.GetStats(context.Background(), admin)

		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalPatients)
		assert.Equal(t, 2, stats.TotalDoctors)
		assert.Equal(t, int64(7), stats.TotalInvoices)
		assert.Equal(t, int64(3), stats.TotalBranches)
		assertMoney(t, "2090", stats.TotalRevenue)
	})

	t.Run("doctor", func(t *testing.T) {
		f := newDashboardFixture(s)

		stats, err := f.uc.GetStats(context.Background(), s.doctor)

		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalPatients)
		assert.Equal(t, int64(1), stats.TotalBranches)
		assertMoney(t, "0", stats.TotalRevenue)
		f.invoices.AssertNotCalled(t, "SumPaidTotal", mock.Anything, mock.Anything)
		f.branches.AssertNotCalled(t, "Count", mock.Anything)
	})
}

func TestDashboardUsecase_QueryFailure(t *testing.T) {
	s := newClinicSetup()
	invoices := new(MockInvoiceRepository)
	patients := new(MockPatientRepository)
	doctors := new(MockDoctorRepository)
	uc := NewDashboardUsecase(&fakeTransactor{}, quietLogger(), patients, doctors, invoices, new(MockBranchRepository))

	patients.On("FindByBranch", mock.Anything, s.branchID).Return([]entity.Patient{}, nil)
	doctors.On("FindByBranch", mock.Anything, s.branchID).Return([]entity.Doctor{}, nil)
	invoices.On("CountByBranch", mock.Anything, s.branchID).Return(int64(0), errors.New("connection reset"))
	invoices.On("SumPaidTotal", mock.Anything, s.branchID).Return(decimal.Zero, nil).Maybe()

	_, err := uc.GetStats(context.Background(), s.desk)

	assert.EqualError(t, err, "connection reset")
}
