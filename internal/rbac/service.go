package rbac

import (
	"errors"
	"strings"

	"github.com/wareline/wareline/internal/shared"
)

// ErrUnknownRole indicates a role name outside the known set.
var ErrUnknownRole = errors.New("rbac: unknown role")

// Service resolves effective permissions from a role name. Role assignments are
// static for the back office; the identity layer stores the verified role in the
// session and this service expands it.
type Service struct {
	grants map[string][]string
}

// NewService constructs a Service with the default role grants.
func NewService() *Service {
	return &Service{grants: defaultGrants()}
}

// EffectivePermissions returns the permission names granted to the role.
func (s *Service) EffectivePermissions(role string) ([]string, error) {
	perms, ok := s.grants[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return nil, ErrUnknownRole
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out, nil
}

func defaultGrants() map[string][]string {
	viewAll := []string{
		shared.PermProductView, shared.PermSupplierView, shared.PermDepartmentView,
		shared.PermInventoryView, shared.PermSalesOrderView, shared.PermPrepTaskView,
		shared.PermNotificationView,
	}

	packer := append([]string{}, viewAll...)
	packer = append(packer, shared.PermPrepTaskPick)

	supervisor := append([]string{}, viewAll...)
	supervisor = append(supervisor, shared.PermPrepTaskReview, shared.PermPrepTaskExport)

	manager := append([]string{}, supervisor...)
	manager = append(manager,
		shared.PermProductEdit, shared.PermSupplierEdit, shared.PermDepartmentEdit,
		shared.PermInventoryEdit,
		shared.PermSalesOrderCreate, shared.PermSalesOrderEdit,
		shared.PermSalesOrderConfirm, shared.PermSalesOrderCancel, shared.PermSalesOrderRemit,
		shared.PermPrepTaskCreate, shared.PermPrepTaskEdit, shared.PermPrepTaskCancel,
	)

	return map[string][]string{
		RolePacker:     packer,
		RoleSupervisor: supervisor,
		RoleManager:    manager,
		RoleAdmin:      shared.WarehouseScopes(),
	}
}
