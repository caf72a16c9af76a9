package usecase

import (
	"context"
	"io"
	"time"

	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// fakeTransactor runs every callback with a nil handle; repositories are mocked.
type fakeTransactor struct {
	commits int
}

func (f *fakeTransactor) DB(ctx context.Context) *gorm.DB {
	return nil
}

func (f *fakeTransactor) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := fn(nil); err != nil {
		return err
	}
	f.commits++
	return nil
}

type fakeLocker struct {
	keys []string
}

func (l *fakeLocker) Lock(key string) func() {
	l.keys = append(l.keys, key)
	return func() {}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// ---------- repositories ----------

type MockTreatmentRepository struct {
	mock.Mock
}

func (m *MockTreatmentRepository) Create(db *gorm.DB, treatment *entity.Treatment) error {
	return m.Called(db, treatment).Error(0)
}

func (m *MockTreatmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Treatment, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) FindAll(db *gorm.DB, filter *entity.TreatmentFilter) ([]entity.Treatment, error) {
	args := m.Called(db, filter)
	return args.Get(0).([]entity.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) UpdateWithVersion(db *gorm.DB, treatment *entity.Treatment, expectedVersion int) (int64, error) {
	args := m.Called(db, treatment, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

type MockTreatmentServiceRepository struct {
	mock.Mock
}

func (m *MockTreatmentServiceRepository) Create(db *gorm.DB, line *entity.TreatmentService) error {
	return m.Called(db, line).Error(0)
}

func (m *MockTreatmentServiceRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TreatmentService, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TreatmentService), args.Error(1)
}

func (m *MockTreatmentServiceRepository) FindByTreatmentID(db *gorm.DB, treatmentID uuid.UUID) ([]entity.TreatmentService, error) {
	args := m.Called(db, treatmentID)
	return args.Get(0).([]entity.TreatmentService), args.Error(1)
}

func (m *MockTreatmentServiceRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(db *gorm.DB, service *entity.Service) error {
	return m.Called(db, service).Error(0)
}

func (m *MockServiceRepository) Update(db *gorm.DB, service *entity.Service) error {
	return m.Called(db, service).Error(0)
}

func (m *MockServiceRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Service, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Service), args.Error(1)
}

func (m *MockServiceRepository) FindByBranch(db *gorm.DB, branchID uuid.UUID) ([]entity.Service, error) {
	args := m.Called(db, branchID)
	return args.Get(0).([]entity.Service), args.Error(1)
}

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return m.Called(db, patient).Error(0)
}

func (m *MockPatientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return m.Called(db, patient).Error(0)
}

func (m *MockPatientRepository) Deactivate(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindByBranch(db *gorm.DB, branchID uuid.UUID) ([]entity.Patient, error) {
	args := m.Called(db, branchID)
	return args.Get(0).([]entity.Patient), args.Error(1)
}

func (m *MockPatientRepository) ExistsByCardID(db *gorm.DB, cardID string) (bool, error) {
	args := m.Called(db, cardID)
	return args.Bool(0), args.Error(1)
}

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return m.Called(db, doctor).Error(0)
}

func (m *MockDoctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return m.Called(db, doctor).Error(0)
}

func (m *MockDoctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) FindByBranch(db *gorm.DB, branchID uuid.UUID) ([]entity.Doctor, error) {
	args := m.Called(db, branchID)
	return args.Get(0).([]entity.Doctor), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(db *gorm.DB, invoice *entity.Invoice) error {
	return m.Called(db, invoice).Error(0)
}

func (m *MockInvoiceRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Invoice, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByTreatmentID(db *gorm.DB, treatmentID uuid.UUID) (*entity.Invoice, error) {
	args := m.Called(db, treatmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(db *gorm.DB, filter *entity.InvoiceFilter) ([]entity.Invoice, int64, error) {
	args := m.Called(db, filter)
	return args.Get(0).([]entity.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) UpdateWithVersion(db *gorm.DB, invoice *entity.Invoice, expectedVersion int) (int64, error) {
	args := m.Called(db, invoice, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByBranch(db *gorm.DB, branchID uuid.UUID) (int64, error) {
	args := m.Called(db, branchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumPaidTotal(db *gorm.DB, branchID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(db, branchID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(db *gorm.DB, payment *entity.Payment) error {
	return m.Called(db, payment).Error(0)
}

func (m *MockPaymentRepository) FindByInvoiceID(db *gorm.DB, invoiceID uuid.UUID) ([]entity.Payment, error) {
	args := m.Called(db, invoiceID)
	return args.Get(0).([]entity.Payment), args.Error(1)
}

type MockXRayRequestRepository struct {
	mock.Mock
}

func (m *MockXRayRequestRepository) Create(db *gorm.DB, request *entity.XRayRequest) error {
	return m.Called(db, request).Error(0)
}

func (m *MockXRayRequestRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.XRayRequest, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.XRayRequest), args.Error(1)
}

func (m *MockXRayRequestRepository) FindAll(db *gorm.DB, filter *entity.XRayRequestFilter) ([]entity.XRayRequest, error) {
	args := m.Called(db, filter)
	return args.Get(0).([]entity.XRayRequest), args.Error(1)
}

func (m *MockXRayRequestRepository) Complete(db *gorm.DB, request *entity.XRayRequest) (int64, error) {
	args := m.Called(db, request)
	return args.Get(0).(int64), args.Error(1)
}

type MockXRayFileRepository struct {
	mock.Mock
}

func (m *MockXRayFileRepository) Create(db *gorm.DB, file *entity.XRayFile) error {
	return m.Called(db, file).Error(0)
}

func (m *MockXRayFileRepository) FindByBranch(db *gorm.DB, branchID uuid.UUID, patientID *uuid.UUID) ([]entity.XRayFile, error) {
	args := m.Called(db, branchID, patientID)
	return args.Get(0).([]entity.XRayFile), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(db *gorm.DB, user *entity.User) error {
	return m.Called(db, user).Error(0)
}

func (m *MockUserRepository) Update(db *gorm.DB, user *entity.User) error {
	return m.Called(db, user).Error(0)
}

func (m *MockUserRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(db, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(db *gorm.DB, filter *entity.UserFilter) ([]entity.User, error) {
	args := m.Called(db, filter)
	return args.Get(0).([]entity.User), args.Error(1)
}

type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) Create(db *gorm.DB, branch *entity.Branch) error {
	return m.Called(db, branch).Error(0)
}

func (m *MockBranchRepository) Update(db *gorm.DB, branch *entity.Branch) error {
	return m.Called(db, branch).Error(0)
}

func (m *MockBranchRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Branch, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindAll(db *gorm.DB, activeOnly bool) ([]entity.Branch, error) {
	args := m.Called(db, activeOnly)
	return args.Get(0).([]entity.Branch), args.Error(1)
}

func (m *MockBranchRepository) Count(db *gorm.DB) (int64, error) {
	args := m.Called(db)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return m.Called(db, log).Error(0)
}

func (m *MockAuditLogRepository) FindAll(db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	args := m.Called(db, filter)
	return args.Get(0).([]entity.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

// ---------- services ----------

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, resource string, recordID string, newValue interface{}) error {
	return m.Called(ctx, tx, userID, resource, recordID, newValue).Error(0)
}

func (m *MockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, resource string, recordID string, oldValue, newValue interface{}) error {
	return m.Called(ctx, tx, userID, resource, recordID, oldValue, newValue).Error(0)
}

func (m *MockAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, resource string, recordID string, oldValue interface{}) error {
	return m.Called(ctx, tx, userID, resource, recordID, oldValue).Error(0)
}

func (m *MockAuditService) LogAction(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, resource string, recordID string, description string, metadata entity.JSON) error {
	return m.Called(ctx, tx, userID, action, resource, recordID, description, metadata).Error(0)
}

// allowAudit accepts any audit write.
func allowAudit(m *MockAuditService) *MockAuditService {
	m.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("LogDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("LogAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

type MockInvoiceNumberGenerator struct {
	mock.Mock
}

func (m *MockInvoiceNumberGenerator) Next(ctx context.Context, day time.Time) (string, error) {
	args := m.Called(ctx, day)
	return args.String(0), args.Error(1)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Save(ctx context.Context, kind string, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, kind, userID, tokenID, ttl).Error(0)
}

func (m *MockTokenStore) Exists(ctx context.Context, kind string, userID uuid.UUID, tokenID string) (bool, error) {
	args := m.Called(ctx, kind, userID, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) Delete(ctx context.Context, kind string, userID uuid.UUID, tokenID string) error {
	return m.Called(ctx, kind, userID, tokenID).Error(0)
}

func (m *MockTokenStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}
