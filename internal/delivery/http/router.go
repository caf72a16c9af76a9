package http

import (
	"net/http"

	"clinic-management/internal/delivery/http/handler"
	"clinic-management/internal/delivery/http/middleware"
	"clinic-management/internal/domain/access"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Branch    *handler.BranchHandler
	Patient   *handler.PatientHandler
	Doctor    *handler.DoctorHandler
	Service   *handler.ServiceHandler
	Treatment *handler.TreatmentHandler
	Invoice   *handler.InvoiceHandler
	XRay      *handler.XRayHandler
	Dashboard *handler.DashboardHandler
	AuditLog  *handler.AuditLogHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Everything below needs a resolved actor
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)

	// List endpoints follow the dashboard page table; the usecases enforce
	// the per-record rules for everything else.
	protected.Handle("/dashboard/stats", gate("/dashboard", h.Dashboard.GetStats)).Methods(http.MethodGet)

	protected.Handle("/users", gate("/dashboard/users", h.User.GetAllUsers)).Methods(http.MethodGet)
	protected.HandleFunc("/users", h.User.CreateUser).Methods(http.MethodPost)
	protected.HandleFunc("/users/{id}", h.User.GetUser).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", h.User.UpdateUser).Methods(http.MethodPut)

	protected.Handle("/branches", gate("/dashboard/branches", h.Branch.GetAllBranches)).Methods(http.MethodGet)
	protected.HandleFunc("/branches", h.Branch.CreateBranch).Methods(http.MethodPost)
	protected.HandleFunc("/branches/{id}", h.Branch.GetBranch).Methods(http.MethodGet)
	protected.HandleFunc("/branches/{id}", h.Branch.UpdateBranch).Methods(http.MethodPut)

	protected.Handle("/patients", gate("/dashboard/patients", h.Patient.GetAllPatients)).Methods(http.MethodGet)
	protected.HandleFunc("/patients", h.Patient.CreatePatient).Methods(http.MethodPost)
	protected.HandleFunc("/patients/{id}", h.Patient.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", h.Patient.UpdatePatient).Methods(http.MethodPut)
	protected.HandleFunc("/patients/{id}", h.Patient.DeletePatient).Methods(http.MethodDelete)

	protected.Handle("/doctors", gate("/dashboard/doctors", h.Doctor.GetAllDoctors)).Methods(http.MethodGet)
	protected.HandleFunc("/doctors", h.Doctor.CreateDoctor).Methods(http.MethodPost)
	protected.HandleFunc("/doctors/{id}", h.Doctor.GetDoctor).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}", h.Doctor.UpdateDoctor).Methods(http.MethodPut)

	// The catalog is read by everyone who edits treatments, so its list is not page-gated.
	protected.HandleFunc("/services", h.Service.GetAllServices).Methods(http.MethodGet)
	protected.HandleFunc("/services", h.Service.CreateService).Methods(http.MethodPost)
	protected.HandleFunc("/services/{id}", h.Service.GetService).Methods(http.MethodGet)
	protected.HandleFunc("/services/{id}", h.Service.UpdateService).Methods(http.MethodPut)

	protected.Handle("/treatments", gate("/dashboard/treatments", h.Treatment.GetAllTreatments)).Methods(http.MethodGet)
	protected.HandleFunc("/treatments", h.Treatment.CreateTreatment).Methods(http.MethodPost)
	protected.HandleFunc("/treatments/{id}", h.Treatment.GetTreatment).Methods(http.MethodGet)
	protected.HandleFunc("/treatments/{id}/status", h.Treatment.UpdateStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/treatments/{id}/notes", h.Treatment.UpdateNotes).Methods(http.MethodPatch)
	protected.HandleFunc("/treatments/{id}/services", h.Treatment.AddService).Methods(http.MethodPost)
	protected.HandleFunc("/treatments/{id}/services/{lineId}", h.Treatment.RemoveService).Methods(http.MethodDelete)
	protected.HandleFunc("/treatments/{id}/xray-requests", h.Treatment.RequestXray).Methods(http.MethodPost)

	protected.Handle("/invoices", gate("/dashboard/invoices", h.Invoice.GetAllInvoices)).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{id}", h.Invoice.GetInvoice).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{id}/status", h.Invoice.ForceStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/invoices/{id}/payments", h.Invoice.GetPayments).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{id}/payments", h.Invoice.RecordPayment).Methods(http.MethodPost)

	protected.HandleFunc("/xray-requests", h.XRay.GetAllRequests).Methods(http.MethodGet)
	protected.Handle("/xray-requests/{id}/complete",
		middleware.RequireRole(access.XRayRoles...)(http.HandlerFunc(h.XRay.CompleteRequest))).Methods(http.MethodPost)
	protected.HandleFunc("/xray-files", h.XRay.GetAllFiles).Methods(http.MethodGet)
	protected.HandleFunc("/xray-files", h.XRay.RegisterFile).Methods(http.MethodPost)

	protected.Handle("/audit-logs", gate("/dashboard/audit-logs", h.AuditLog.GetAllAuditLogs)).Methods(http.MethodGet)
	protected.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	return r.router
}

// Handler wraps the routes with CORS so preflight requests never reach the
// method-restricted routes.
func (r *Router) Handler() http.Handler {
	return r.corsMiddleware.Handle(r.Setup())
}

func gate(route string, fn http.HandlerFunc) http.Handler {
	return middleware.RequireRoute(route)(fn)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
