// Package access holds the role and branch rules that decide what an actor may
// see and change. All functions are pure and safe for concurrent use.
package access

import (
	"strings"

	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
)

// DashboardRoot is the fallback route for unlisted dashboard pages.
const DashboardRoot = "/dashboard"

var routeRoles = map[string][]entity.Role{
	"/dashboard": entity.AllRoles,
	"/dashboard/users": {
		entity.RoleSuperAdmin, entity.RoleAdmin,
	},
	"/dashboard/branches": {
		entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleBranchManager,
	},
	"/dashboard/doctors": {
		entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleBranchManager,
	},
	"/dashboard/patients": {
		entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleDoctor, entity.RoleReceptionist, entity.RoleBranchManager,
	},
	"/dashboard/services": {
		entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleBranchManager,
	},
	"/dashboard/treatments": {
		entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleDoctor, entity.RoleBranchManager,
	},
	"/dashboard/invoices": {
		entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleReceptionist, entity.RoleAccountant, entity.RoleBranchManager,
	},
	"/dashboard/reports": {
		entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleAccountant, entity.RoleBranchManager,
	},
	"/dashboard/settings": {
		entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleBranchManager,
	},
	"/dashboard/audit-logs": {
		entity.RoleSuperAdmin, entity.RoleAccountant,
	},
}

// CanAccessRoute reports whether role may open route. The longest listed prefix
// ending on a path-segment boundary decides; unlisted pages under /dashboard use
// the /dashboard allow-list and anything else is denied.
func CanAccessRoute(role entity.Role, route string) bool {
	if !role.IsValid() {
		return false
	}
	allowed, ok := routeRoles[matchRoute(route)]
	if !ok {
		return false
	}
	return role.In(allowed...)
}

func matchRoute(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	route = strings.TrimRight(route, "/")
	for route != "" {
		if _, ok := routeRoles[route]; ok {
			return route
		}
		i := strings.LastIndex(route, "/")
		if i <= 0 {
			break
		}
		route = route[:i]
	}
	return ""
}

// VisiblePatients returns the patients of the actor's branch. Doctors only see
// patients assigned to them, and see none when no doctor record is linked.
func VisiblePatients(actor entity.Actor, patients []entity.Patient) []entity.Patient {
	inBranch := filterBranch(actor.BranchID, patients)
	if !actor.IsDoctor() {
		return inBranch
	}

	visible := make([]entity.Patient, 0, len(inBranch))
	if actor.DoctorID == nil {
		return visible
	}
	for _, p := range inBranch {
		if p.IsAssignedTo(*actor.DoctorID) {
			visible = append(visible, p)
		}
	}
	return visible
}

// CanViewPatient applies the VisiblePatients rule to a single record.
func CanViewPatient(actor entity.Actor, patient *entity.Patient) bool {
	return len(VisiblePatients(actor, []entity.Patient{*patient})) == 1
}

func VisibleDoctors(branchID uuid.UUID, doctors []entity.Doctor) []entity.Doctor {
	return filterBranch(branchID, doctors)
}

func VisibleServices(branchID uuid.UUID, services []entity.Service) []entity.Service {
	return filterBranch(branchID, services)
}

func VisibleTreatments(branchID uuid.UUID, treatments []entity.Treatment) []entity.Treatment {
	return filterBranch(branchID, treatments)
}

func VisibleInvoices(branchID uuid.UUID, invoices []entity.Invoice) []entity.Invoice {
	return filterBranch(branchID, invoices)
}

func VisibleXRayFiles(branchID uuid.UUID, files []entity.XRayFile) []entity.XRayFile {
	return filterBranch(branchID, files)
}

func VisibleXRayRequests(branchID uuid.UUID, requests []entity.XRayRequest) []entity.XRayRequest {
	return filterBranch(branchID, requests)
}

type branchScoped interface {
	InBranch(branchID uuid.UUID) bool
}

func filterBranch[T branchScoped](branchID uuid.UUID, records []T) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if r.InBranch(branchID) {
			out = append(out, r)
		}
	}
	return out
}

// CanEditTreatment reports whether actor may change the treatment's status,
// services or notes. Completed and cancelled treatments are never editable.
func CanEditTreatment(actor entity.Actor, treatment *entity.Treatment) bool {
	if treatment == nil || treatment.Status.IsTerminal() {
		return false
	}
	switch actor.Role {
	case entity.RoleReceptionist, entity.RoleAdmin, entity.RoleSuperAdmin:
		return true
	case entity.RoleDoctor:
		return actor.IsDoctorOf(treatment.DoctorID)
	default:
		return false
	}
}

// CanRequestXray is true for the treating doctor of an editable treatment.
func CanRequestXray(actor entity.Actor, treatment *entity.Treatment) bool {
	return actor.IsDoctor() && CanEditTreatment(actor, treatment)
}

// CanManageInvoices covers recording payments and overriding invoice status.
func CanManageInvoices(role entity.Role) bool {
	return role.In(entity.RoleReceptionist, entity.RoleAdmin, entity.RoleAccountant, entity.RoleSuperAdmin)
}

// XRayRoles may close x-ray requests.
var XRayRoles = []entity.Role{entity.RoleXRayTechnician, entity.RoleAdmin, entity.RoleSuperAdmin}

func CanCompleteXray(role entity.Role) bool {
	return role.In(XRayRoles...)
}

// CanCreateTreatment mirrors the edit roles; doctors may only open treatments for themselves.
func CanCreateTreatment(actor entity.Actor, doctorID uuid.UUID) bool {
	switch actor.Role {
	case entity.RoleReceptionist, entity.RoleAdmin, entity.RoleSuperAdmin:
		return true
	case entity.RoleDoctor:
		return actor.IsDoctorOf(doctorID)
	default:
		return false
	}
}

func CanManagePatients(role entity.Role) bool {
	return role.In(entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleReceptionist, entity.RoleBranchManager)
}

// CanManageCatalog covers doctors, services and editing branch details. Opening or
// closing a branch additionally needs CanSwitchBranch.
func CanManageCatalog(role entity.Role) bool {
	return role.In(entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleBranchManager)
}

// CanManageStaff covers user accounts.
func CanManageStaff(role entity.Role) bool {
	return role.In(entity.RoleSuperAdmin, entity.RoleAdmin)
}

// CanSwitchBranch reports whether role may act on a branch other than its own.
func CanSwitchBranch(role entity.Role) bool {
	return role.In(entity.RoleSuperAdmin, entity.RoleAdmin)
}

func CanViewAuditLogs(role entity.Role) bool {
	return role.In(entity.RoleSuperAdmin, entity.RoleAccountant)
}
