package entity

// Role is the staff role a session is issued for. It never changes within a session.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdmin          Role = "admin"
	RoleDoctor         Role = "doctor"
	RoleReceptionist   Role = "receptionist"
	RoleAccountant     Role = "accountant"
	RoleBranchManager  Role = "branch_manager"
	RoleXRayTechnician Role = "xray_technician"
)

// AllRoles lists every role in display order.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleDoctor,
	RoleReceptionist,
	RoleAccountant,
	RoleBranchManager,
	RoleXRayTechnician,
}

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}
