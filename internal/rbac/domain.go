package rbac

// Role names known to the back office.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSupervisor = "supervisor"
	RolePacker     = "packer"
)

// Principal describes the authenticated actor as trusted by the core.
type Principal struct {
	UserID string
	Role   string
}
