package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	require.NoError(t, svc.GrantRolePolicy("kitchen", "/admin/restaurants/:id", "PUT"))
	require.NoError(t, svc.SetAdminRoles(1, []string{"kitchen"}))

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/restaurants/7", "put")
	require.NoError(t, err)
	assert.True(t, allow)

	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/restaurants/7", "DELETE")
	require.NoError(t, err)
	assert.False(t, allow)

	allow, err = svc.EnforceAdmin(2, "/api/v1/admin/restaurants/7", "PUT")
	require.NoError(t, err)
	assert.False(t, allow, "admin without role")
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	require.NoError(t, svc.SetAdminRoles(3, []string{"a", "role:b"}))
	roles, err := svc.GetAdminRoles(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"role:a", "role:b"}, roles)

	require.NoError(t, svc.SetAdminRoles(3, []string{"c"}))
	roles, err = svc.GetAdminRoles(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"role:c"}, roles)

	all, err := svc.ListRoles()
	require.NoError(t, err)
	assert.Equal(t, []string{"role:a", "role:b", "role:c"}, all)

	assert.ErrorIs(t, svc.SetAdminRoles(0, nil), ErrAdminRequired)
}

func TestRoleLifecycle(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	require.NoError(t, svc.GrantRolePolicy("promo desk", "/admin/promos", "post"))
	policies, err := svc.GetRolePolicies("promo_desk")
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, Policy{Subject: "role:promo_desk", Object: "/admin/promos", Action: "POST"}, policies[0])

	require.NoError(t, svc.RevokeRolePolicy("promo_desk", "/admin/promos", "POST"))
	policies, err = svc.GetRolePolicies("promo_desk")
	require.NoError(t, err)
	assert.Empty(t, policies)

	require.NoError(t, svc.DeleteRole("promo_desk"))
	roles, err := svc.ListRoles()
	require.NoError(t, err)
	assert.NotContains(t, roles, "role:promo_desk")

	assert.ErrorIs(t, svc.GrantRolePolicy("x", "/admin/promos", " "), ErrActionRequired)
	_, err = svc.EnsureRole("  ")
	assert.ErrorIs(t, err, ErrRoleInvalid)
	_, err = svc.EnsureRole(roleAnchor)
	assert.ErrorIs(t, err, ErrRoleInvalid)
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"/api/v1/admin/orders": "/admin/orders",
		"admin/promos":         "/admin/promos",
		"/api/v1":              "/",
		" /admin/restaurants ": "/admin/restaurants",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeObject(in), in)
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	require.NoError(t, svc.BootstrapBuiltinRoles())
	require.NoError(t, svc.BootstrapBuiltinRoles(), "bootstrap is idempotent")

	roles, err := svc.ListRoles()
	require.NoError(t, err)
	for _, seed := range BuiltinRoleSeeds() {
		assert.Contains(t, roles, rolePrefix+seed.Role)
	}

	require.NoError(t, svc.SetAdminRoles(10, []string{"menu_manager"}))
	require.NoError(t, svc.SetAdminRoles(11, []string{"support"}))
	require.NoError(t, svc.SetAdminRoles(12, []string{"promo_manager"}))

	checks := []struct {
		admin  uint
		obj    string
		act    string
		expect bool
	}{
		{10, "/api/v1/admin/restaurants/7", "PUT", true},
		{10, "/api/v1/admin/restaurants/7/items/3", "DELETE", true},
		{10, "/api/v1/admin/promos/FK1313", "PUT", false},
		{10, "/api/v1/admin/orders", "GET", true},
		{11, "/api/v1/admin/orders/123456", "GET", true},
		{11, "/api/v1/admin/restaurants", "POST", false},
		{12, "/api/v1/admin/promos/FK1313", "DELETE", true},
		{12, "/api/v1/admin/authz/roles", "POST", false},
	}
	for _, check := range checks {
		allow, err := svc.EnforceAdmin(check.admin, check.obj, check.act)
		require.NoError(t, err)
		assert.Equal(t, check.expect, allow, "%d %s %s", check.admin, check.act, check.obj)
	}
}

func TestNilServiceUnavailable(t *testing.T) {
	var svc *Service
	_, err := svc.EnforceAdmin(1, "/admin/orders", "GET")
	assert.ErrorIs(t, err, ErrUnavailable)
}
