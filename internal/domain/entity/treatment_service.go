package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TreatmentService is a service line on a treatment. PriceAtTime is the catalog
// price captured when the line was added and is never re-read from the catalog.
type TreatmentService struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TreatmentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"treatment_id"`
	ServiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"service_id"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_at_time"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relationships
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (TreatmentService) TableName() string {
	return "treatment_services"
}

// NewTreatmentService snapshots the service price into a new line.
func NewTreatmentService(treatmentID uuid.UUID, service *Service, quantity int, at time.Time) *TreatmentService {
	return &TreatmentService{
		ID:          uuid.New(),
		TreatmentID: treatmentID,
		ServiceID:   service.ID,
		Quantity:    quantity,
		PriceAtTime: service.Price,
		CreatedAt:   at,
	}
}

func (ts TreatmentService) LineTotal() decimal.Decimal {
	return ts.PriceAtTime.Mul(decimal.NewFromInt(int64(ts.Quantity)))
}

// SumServices returns Σ quantity × priceAtTime, rounded to cents.
func SumServices(services []TreatmentService) decimal.Decimal {
	total := decimal.Zero
	for _, ts := range services {
		total = total.Add(ts.LineTotal())
	}
	return Round2(total)
}
