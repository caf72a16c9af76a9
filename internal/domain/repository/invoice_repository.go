package repository

import (
	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(db *gorm.DB, invoice *entity.Invoice) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Invoice, error)
	FindByTreatmentID(db *gorm.DB, treatmentID uuid.UUID) (*entity.Invoice, error)
	FindAll(db *gorm.DB, filter *entity.InvoiceFilter) ([]entity.Invoice, int64, error)
	// UpdateWithVersion has the same compare-and-swap contract as the treatment one.
	UpdateWithVersion(db *gorm.DB, invoice *entity.Invoice, expectedVersion int) (int64, error)
	CountByBranch(db *gorm.DB, branchID uuid.UUID) (int64, error)
	// SumPaidTotal returns Σ total_amount over paid invoices of the branch.
	SumPaidTotal(db *gorm.DB, branchID uuid.UUID) (decimal.Decimal, error)
}

type PaymentRepository interface {
	Create(db *gorm.DB, payment *entity.Payment) error
	FindByInvoiceID(db *gorm.DB, invoiceID uuid.UUID) ([]entity.Payment, error)
}
