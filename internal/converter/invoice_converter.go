package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

// InvoiceToResponse converts an Invoice entity to InvoiceResponse DTO
func InvoiceToResponse(invoice *entity.Invoice) *dto.InvoiceResponse {
	if invoice == nil {
		return nil
	}

	return &dto.InvoiceResponse{
		ID:                   invoice.ID,
		TreatmentID:          invoice.TreatmentID,
		PatientID:            invoice.PatientID,
		DoctorID:             invoice.DoctorID,
		BranchID:             invoice.BranchID,
		InvoiceNumber:        invoice.InvoiceNumber,
		Subtotal:             invoice.Subtotal,
		Tax:                  invoice.Tax,
		Discount:             invoice.Discount,
		TotalAmount:          invoice.TotalAmount,
		AmountPaid:           invoice.AmountPaid,
		BalanceRemaining:     invoice.BalanceRemaining,
		Status:               string(invoice.Status),
		InvoiceDate:          invoice.InvoiceDate,
		DueDate:              invoice.DueDate,
		Version:              invoice.Version,
		StatusOverrideReason: invoice.StatusOverrideReason,
		StatusOverriddenBy:   invoice.StatusOverriddenBy,
		StatusOverriddenAt:   invoice.StatusOverriddenAt,
	}
}

// InvoicesToResponses converts a slice of Invoice entities to slice of InvoiceResponse DTOs
func InvoicesToResponses(invoices []entity.Invoice) []dto.InvoiceResponse {
	responses := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *InvoiceToResponse(&invoices[i])
	}
	return responses
}

func PaymentToResponse(payment *entity.Payment) *dto.PaymentResponse {
	if payment == nil {
		return nil
	}

	return &dto.PaymentResponse{
		ID:          payment.ID,
		InvoiceID:   payment.InvoiceID,
		Amount:      payment.Amount,
		Method:      string(payment.Method),
		Notes:       payment.Notes,
		CreatedBy:   payment.CreatedBy,
		PaymentDate: payment.PaymentDate,
	}
}

func PaymentsToResponses(payments []entity.Payment) []dto.PaymentResponse {
	responses := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *PaymentToResponse(&payments[i])
	}
	return responses
}
