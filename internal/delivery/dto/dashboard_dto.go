package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DashboardStatsResponse struct {
	BranchID      uuid.UUID       `json:"branch_id"`
	TotalPatients int             `json:"total_patients"`
	TotalDoctors  int             `json:"total_doctors"`
	TotalInvoices int64           `json:"total_invoices"`
	TotalBranches int64           `json:"total_branches"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}
