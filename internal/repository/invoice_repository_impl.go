package repository

import (
	"errors"

	"clinic-management/internal/domain/entity"
	domainRepo "clinic-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type invoiceRepository struct{}

func NewInvoiceRepository() domainRepo.InvoiceRepository {
	return &invoiceRepository{}
}

func (r *invoiceRepository) Create(db *gorm.DB, invoice *entity.Invoice) error {
	return db.Create(invoice).Error
}

func (r *invoiceRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Invoice, error) {
	return r.findOne(db, "id = ?", id)
}

func (r *invoiceRepository) FindByTreatmentID(db *gorm.DB, treatmentID uuid.UUID) (*entity.Invoice, error) {
	return r.findOne(db, "treatment_id = ?", treatmentID)
}

func (r *invoiceRepository) findOne(db *gorm.DB, query string, args ...interface{}) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := db.Where(query, args...).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindAll(db *gorm.DB, filter *entity.InvoiceFilter) ([]entity.Invoice, int64, error) {
	query := db.Model(&entity.Invoice{})
	if filter != nil {
		query = query.Where("branch_id = ?", filter.BranchID)
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Search != "" {
			query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("invoice_date DESC")
	if filter != nil && filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset())
	}

	var invoices []entity.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// UpdateWithVersion writes the running totals, status and override fields.
func (r *invoiceRepository) UpdateWithVersion(db *gorm.DB, invoice *entity.Invoice, expectedVersion int) (int64, error) {
	result := db.Model(&entity.Invoice{}).
		Where("id = ? AND version = ?", invoice.ID, expectedVersion).
		Updates(map[string]interface{}{
			"amount_paid":            invoice.AmountPaid,
			"balance_remaining":      invoice.BalanceRemaining,
			"status":                 invoice.Status,
			"status_override_reason": invoice.StatusOverrideReason,
			"status_overridden_by":   invoice.StatusOverriddenBy,
			"status_overridden_at":   invoice.StatusOverriddenAt,
			"version":                expectedVersion + 1,
			"updated_at":             invoice.UpdatedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		invoice.Version = expectedVersion + 1
	}
	return result.RowsAffected, nil
}

func (r *invoiceRepository) CountByBranch(db *gorm.DB, branchID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Invoice{}).Where("branch_id = ?", branchID).Count(&count).Error
	return count, err
}

func (r *invoiceRepository) SumPaidTotal(db *gorm.DB, branchID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.NullDecimal
	}
	err := db.Model(&entity.Invoice{}).
		Select("SUM(total_amount) AS total").
		Where("branch_id = ? AND status = ?", branchID, entity.InvoiceStatusPaid).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !result.Total.Valid {
		return decimal.Zero, nil
	}
	return result.Total.Decimal, nil
}

type paymentRepository struct{}

func NewPaymentRepository() domainRepo.PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(db *gorm.DB, payment *entity.Payment) error {
	return db.Create(payment).Error
}

func (r *paymentRepository) FindByInvoiceID(db *gorm.DB, invoiceID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := db.Where("invoice_id = ?", invoiceID).Order("payment_date ASC").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
