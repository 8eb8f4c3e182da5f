package rbac

import (
	"errors"
	"testing"

	"go-leave/internal/access"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	roles []EmployeeRoleRow
	perms []RolePermissionRow
	err   error
}

func (f *fakeRepo) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	return f.roles, f.err
}

func (f *fakeRepo) GetRolePermissions(companyID string) ([]RolePermissionRow, error) {
	return f.perms, nil
}

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	modelText := `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

	m, err := model.NewModelFromString(modelText)
	assert.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	assert.NoError(t, err)

	return e
}

func newRepo() *fakeRepo {
	return &fakeRepo{
		roles: []EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleID: "role-staff"},
			{EmployeeID: "emp-2", RoleID: "role-staff"},
			{EmployeeID: "emp-2", RoleID: "role-manager"},
		},
		perms: []RolePermissionRow{
			{RoleID: "role-staff", Resource: "leave", Action: "view_self"},
			{RoleID: "role-staff", Resource: "leave", Action: "edit_self"},
			{RoleID: "role-manager", Resource: "leave", Action: "view_department"},
			{RoleID: "role-manager", Resource: "leave", Action: "approve"},
			{RoleID: "role-manager", Resource: "employee", Action: "read"},
			{RoleID: "role-manager", Resource: "leave", Action: "unknown_action"},
		},
	}
}

func TestRBACService_Enforce(t *testing.T) {
	service := NewService(newRepo(), newTestEnforcer(t))

	allowed, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-2",
		CompanyID:  "company-1",
		Resource:   "leave",
		Action:     "approve",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)

	denied, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "leave",
		Action:     "approve",
	})
	assert.NoError(t, err)
	assert.False(t, denied)
}

func TestRBACService_Capabilities(t *testing.T) {
	service := NewService(newRepo(), newTestEnforcer(t))

	t.Run("staff", func(t *testing.T) {
		caps, err := service.Capabilities("company-1", "emp-1")
		assert.NoError(t, err)
		assert.Equal(t, access.ViewSelf|access.EditSelf, caps)
	})

	t.Run("manager inherits both roles", func(t *testing.T) {
		caps, err := service.Capabilities("company-1", "emp-2")
		assert.NoError(t, err)
		assert.Equal(t, access.ViewSelf|access.EditSelf|access.ViewDepartment|access.Approve, caps)
	})

	t.Run("unknown employee has nothing", func(t *testing.T) {
		caps, err := service.Capabilities("company-1", "emp-9")
		assert.NoError(t, err)
		assert.Equal(t, access.Capability(0), caps)
	})
}

func TestRBACService_CapabilitiesRepoError(t *testing.T) {
	service := NewService(&fakeRepo{err: errors.New("db down")}, newTestEnforcer(t))

	_, err := service.Capabilities("company-1", "emp-1")

	assert.Error(t, err)
}
