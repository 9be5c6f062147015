package rbac

import (
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
)

type mockRepo struct {
	employeeRoles   []EmployeeRoleRow
	rolePermissions []RolePermissionRow
}

func (m *mockRepo) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	return m.employeeRoles, nil
}

func (m *mockRepo) GetRolePermissions(companyID string) ([]RolePermissionRow, error) {
	return m.rolePermissions, nil
}

func (m *mockRepo) ListRoles(companyID string) ([]RoleRow, error)         { return nil, nil }
func (m *mockRepo) GetRoleByID(id string) (*RoleRow, error)               { return nil, nil }
func (m *mockRepo) GetRoleByName(companyID, name string) (*RoleRow, error) {
	return nil, nil
}
func (m *mockRepo) CreateRole(role *RoleRow) error                 { return nil }
func (m *mockRepo) UpdateRole(role *RoleRow) error                 { return nil }
func (m *mockRepo) DeleteRole(id string) error                     { return nil }
func (m *mockRepo) ListPermissions() ([]PermissionRow, error)      { return nil, nil }
func (m *mockRepo) GetPermissionsByRoleID(roleID string) ([]PermissionRow, error) {
	return nil, nil
}
func (m *mockRepo) UpdateRolePermissions(roleID string, permIDs []string) error { return nil }

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

func TestRBACService_Enforce(t *testing.T) {
	repo := &mockRepo{
		employeeRoles: []EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleID: "role-hr"},
		},
		rolePermissions: []RolePermissionRow{
			{RoleID: "role-hr", Resource: "leave", Action: "read"},
		},
	}
	enforcer := newTestEnforcer(t)

	service := NewService(repo, enforcer)

	err := service.LoadCompanyPolicy("company-1")
	assert.NoError(t, err)

	allowed, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "leave",
		Action:     "read",
	})

	assert.NoError(t, err)
	assert.True(t, allowed)

	denied, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "leave",
		Action:     "manage",
	})

	assert.NoError(t, err)
	assert.False(t, denied)
}

func TestRBACService_EnforceReloadsPerCompany(t *testing.T) {
	repo := &mockRepo{
		employeeRoles: []EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleID: "role-hr"},
		},
		rolePermissions: []RolePermissionRow{
			{RoleID: "role-hr", Resource: "leave", Action: "read"},
		},
	}
	service := NewService(repo, newTestEnforcer(t))

	allowed, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "leave",
		Action:     "read",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)

	// Policy shrinks; the next enforce must see the new state, not the
	// previously loaded one.
	repo.rolePermissions = nil

	denied, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "leave",
		Action:     "read",
	})
	assert.NoError(t, err)
	assert.False(t, denied)
}
