package handler

import (
	"net/http"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/usecase"
	"clinic-management/pkg/response"
	"clinic-management/pkg/validator"
)

type InvoiceHandler struct {
	invoiceUsecase usecase.InvoiceUsecase
	validator      *validator.CustomValidator
}

func NewInvoiceHandler(invoiceUsecase usecase.InvoiceUsecase, validator *validator.CustomValidator) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceUsecase: invoiceUsecase,
		validator:      validator,
	}
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceUsecase.GetInvoice(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err, "Failed to get invoice")
		return
	}

	response.Success(w, http.StatusOK, "Invoice retrieved successfully", invoice)
}

// GetAllInvoices lists invoices of the current branch.
// Query: patient_id, status, search (invoice number), page, limit.
func (h *InvoiceHandler) GetAllInvoices(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := dto.InvoiceQuery{
		PatientID: q.Get("patient_id"),
		Status:    q.Get("status"),
		Search:    q.Get("search"),
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
	}
	if !validateQuery(w, h.validator, &query) {
		return
	}

	invoices, err := h.invoiceUsecase.ListInvoices(r.Context(), actor, &query)
	if err != nil {
		response.FromError(w, err, "Failed to get invoices")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Invoices retrieved successfully", invoices,
		response.NewMeta(query.Page, query.Limit, invoices.Total))
}

func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "invoice")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	result, err := h.invoiceUsecase.RecordPayment(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to record payment")
		return
	}

	response.Success(w, http.StatusCreated, "Payment recorded successfully", result)
}

func (h *InvoiceHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "invoice")
	if !ok {
		return
	}

	payments, err := h.invoiceUsecase.ListPayments(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err, "Failed to get payments")
		return
	}

	response.Success(w, http.StatusOK, "Payments retrieved successfully", payments)
}

// ForceStatus sets the invoice status by hand; the reason is recorded on the invoice.
func (h *InvoiceHandler) ForceStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "invoice")
	if !ok {
		return
	}

	var req dto.ForceInvoiceStatusRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	invoice, err := h.invoiceUsecase.ForceStatus(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update invoice status")
		return
	}

	response.Success(w, http.StatusOK, "Invoice status updated successfully", invoice)
}
