package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wareline/wareline/internal/rbac"
	"github.com/wareline/wareline/internal/shared"
)

func TestEffectivePermissionsPerRole(t *testing.T) {
	svc := rbac.NewService()

	packer, err := svc.EffectivePermissions(rbac.RolePacker)
	require.NoError(t, err)
	require.Contains(t, packer, shared.PermPrepTaskPick)
	require.NotContains(t, packer, shared.PermPrepTaskReview)
	require.NotContains(t, packer, shared.PermPrepTaskCreate)

	supervisor, err := svc.EffectivePermissions(rbac.RoleSupervisor)
	require.NoError(t, err)
	require.Contains(t, supervisor, shared.PermPrepTaskReview)
	require.Contains(t, supervisor, shared.PermPrepTaskExport)
	require.NotContains(t, supervisor, shared.PermPrepTaskPick)

	manager, err := svc.EffectivePermissions(rbac.RoleManager)
	require.NoError(t, err)
	require.Contains(t, manager, shared.PermPrepTaskCreate)
	require.Contains(t, manager, shared.PermSalesOrderRemit)
	require.NotContains(t, manager, shared.PermPrepTaskDelete)

	admin, err := svc.EffectivePermissions(rbac.RoleAdmin)
	require.NoError(t, err)
	require.ElementsMatch(t, shared.WarehouseScopes(), admin)
}

func TestEffectivePermissionsNormalisesRoleName(t *testing.T) {
	svc := rbac.NewService()

	perms, err := svc.EffectivePermissions("  Packer ")
	require.NoError(t, err)
	require.Contains(t, perms, shared.PermPrepTaskPick)
}

func TestEffectivePermissionsUnknownRole(t *testing.T) {
	svc := rbac.NewService()

	_, err := svc.EffectivePermissions("intern")
	require.ErrorIs(t, err, rbac.ErrUnknownRole)
}

func TestEffectivePermissionsReturnsCopy(t *testing.T) {
	svc := rbac.NewService()

	first, err := svc.EffectivePermissions(rbac.RolePacker)
	require.NoError(t, err)
	first[0] = "tampered"

	second, err := svc.EffectivePermissions(rbac.RolePacker)
	require.NoError(t, err)
	require.NotContains(t, second, "tampered")
}
