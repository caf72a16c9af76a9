package access

import (
	"testing"

	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanAccessRoute(t *testing.T) {
	tests := []struct {
		role  entity.Role
		route string
		want  bool
	}{
		{entity.RoleXRayTechnician, "/dashboard", true},
		{entity.RoleDoctor, "/dashboard/patients", true},
		{entity.RoleDoctor, "/dashboard/invoices", false},
		{entity.RoleAccountant, "/dashboard/invoices", true},
		{entity.RoleAccountant, "/dashboard/audit-logs", true},
		{entity.RoleAdmin, "/dashboard/audit-logs", false},
		{entity.RoleBranchManager, "/dashboard/users", false},
		{entity.RoleSuperAdmin, "/dashboard/users", true},
		{entity.RoleReceptionist, "/dashboard/treatments", false},
		{entity.RoleDoctor, "/dashboard/treatments/123/edit", true},
		{entity.RoleReceptionist, "/dashboard/invoices/?page=2", true},
		{entity.RoleXRayTechnician, "/dashboard/xray", true},
		{entity.RoleAdmin, "/dashboardx", false},
		{entity.RoleAdmin, "/settings", false},
		{entity.RoleAdmin, "/", false},
		{entity.Role("patient"), "/dashboard", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanAccessRoute(tt.role, tt.route), "%s %s", tt.role, tt.route)
	}
}

func TestCanAccessRoute_EveryRoleReachesDashboard(t *testing.T) {
	for _, role := range entity.AllRoles {
		assert.True(t, CanAccessRoute(role, DashboardRoot), string(role))
	}
	assert.Len(t, routeRoles, 11)
}

func TestVisiblePatients_Doctor(t *testing.T) {
	branch := uuid.New()
	otherBranch := uuid.New()
	me := uuid.New()
	colleague := uuid.New()

	patients := []entity.Patient{
		{ID: uuid.New(), BranchID: branch, AssignedDoctorID: &me},
		{ID: uuid.New(), BranchID: branch, AssignedDoctorID: &colleague},
		{ID: uuid.New(), BranchID: branch},
		{ID: uuid.New(), BranchID: otherBranch, AssignedDoctorID: &me},
	}

	doctor := entity.Actor{UserID: uuid.New(), Role: entity.RoleDoctor, BranchID: branch, DoctorID: &me}
	visible := VisiblePatients(doctor, patients)
	if assert.Len(t, visible, 1) {
		assert.Equal(t, patients[0].ID, visible[0].ID)
	}
	for _, p := range visible {
		assert.True(t, p.InBranch(branch))
		assert.True(t, p.IsAssignedTo(me))
	}

	unlinked := doctor
	unlinked.DoctorID = nil
	assert.Empty(t, VisiblePatients(unlinked, patients))

	receptionist := entity.Actor{Role: entity.RoleReceptionist, BranchID: branch}
	assert.Len(t, VisiblePatients(receptionist, patients), 3)
	assert.False(t, CanViewPatient(receptionist, &patients[3]))
	assert.True(t, CanViewPatient(doctor, &patients[0]))
}

func TestVisibleByBranch(t *testing.T) {
	branch := uuid.New()
	invoices := []entity.Invoice{{BranchID: branch}, {BranchID: uuid.New()}, {BranchID: branch}}
	doctors := []entity.Doctor{{BranchID: uuid.New()}}

	assert.Len(t, VisibleInvoices(branch, invoices), 2)
	assert.Empty(t, VisibleDoctors(branch, doctors))
	assert.Empty(t, VisibleServices(branch, nil))
}

func TestCanEditTreatment(t *testing.T) {
	doctorID := uuid.New()
	otherDoctor := uuid.New()
	branch := uuid.New()

	actors := map[string]entity.Actor{
		"super_admin":  {Role: entity.RoleSuperAdmin, BranchID: branch},
		"admin":        {Role: entity.RoleAdmin, BranchID: branch},
		"receptionist": {Role: entity.RoleReceptionist, BranchID: branch},
		"own doctor":   {Role: entity.RoleDoctor, BranchID: branch, DoctorID: &doctorID},
		"other doctor": {Role: entity.RoleDoctor, BranchID: branch, DoctorID: &otherDoctor},
		"accountant":   {Role: entity.RoleAccountant, BranchID: branch},
		"manager":      {Role: entity.RoleBranchManager, BranchID: branch},
		"technician":   {Role: entity.RoleXRayTechnician, BranchID: branch},
	}
	editable := map[string]bool{
		"super_admin":  true,
		"admin":        true,
		"receptionist": true,
		"own doctor":   true,
	}

	for _, status := range []entity.TreatmentStatus{
		entity.TreatmentStatusPending,
		entity.TreatmentStatusInProgress,
		entity.TreatmentStatusCompleted,
		entity.TreatmentStatusCancelled,
	} {
		tr := &entity.Treatment{DoctorID: doctorID, BranchID: branch, Status: status}
		for name, actor := range actors {
			want := editable[name] && !status.IsTerminal()
			assert.Equal(t, want, CanEditTreatment(actor, tr), "%s on %s", name, status)
		}
	}
}

func TestCanRequestXray(t *testing.T) {
	doctorID := uuid.New()
	tr := &entity.Treatment{DoctorID: doctorID, Status: entity.TreatmentStatusInProgress}

	assert.True(t, CanRequestXray(entity.Actor{Role: entity.RoleDoctor, DoctorID: &doctorID}, tr))
	assert.False(t, CanRequestXray(entity.Actor{Role: entity.RoleAdmin}, tr))

	tr.Status = entity.TreatmentStatusCompleted
	assert.False(t, CanRequestXray(entity.Actor{Role: entity.RoleDoctor, DoctorID: &doctorID}, tr))
}

func TestRolePredicates(t *testing.T) {
	assert.True(t, CanManageInvoices(entity.RoleAccountant))
	assert.False(t, CanManageInvoices(entity.RoleDoctor))
	assert.True(t, CanCompleteXray(entity.RoleXRayTechnician))
	assert.False(t, CanCompleteXray(entity.RoleReceptionist))
	assert.True(t, CanSwitchBranch(entity.RoleAdmin))
	assert.False(t, CanSwitchBranch(entity.RoleBranchManager))
	assert.False(t, CanManageStaff(entity.RoleBranchManager))
	assert.True(t, CanManageCatalog(entity.RoleBranchManager))
}
