package rbac

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/auth"
)

func TestDefaultPolicyEnforcement(t *testing.T) {
	e, err := New(DefaultPolicy())
	require.NoError(t, err)
	ctx := context.Background()

	allowed, err := e.HasPermission(ctx, auth.RoleHR, auth.PermEmployeesWrite)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = e.HasPermission(ctx, auth.RoleEmployee, auth.PermCompensationRead)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = e.HasPermission(ctx, auth.RoleAdmin, auth.PermUsersManage)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = e.HasPermission(ctx, "", auth.PermEmployeesRead)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLoadPolicyFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`roles:
  admin: ["*"]
  employee:
    - employees.read
    - documents.read
    - salaryslip.download
`), 0o600))

	policy, err := LoadPolicy(path)
	require.NoError(t, err)
	e, err := New(policy)
	require.NoError(t, err)

	allowed, err := e.HasPermission(context.Background(), auth.RoleAdmin, "anything.at.all")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = e.HasPermission(context.Background(), auth.RoleEmployee, auth.PermSalarySlipDownload)
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.Equal(t, []string{"documents.read", "employees.read", "salaryslip.download"}, e.Permissions(auth.RoleEmployee))
}

func TestLoadPolicyRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles: {}\n"), 0o600))
	_, err := LoadPolicy(path)
	assert.Error(t, err)
}
