package employee_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/employee"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
)

func postgresService(t *testing.T) *employee.Service {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, config.Config{DatabaseURL: dbURL})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool))
	return employee.NewService(employee.NewStore(pool), employee.Options{}, nil)
}

func TestPostgresStoreLifecycle(t *testing.T) {
	svc := postgresService(t)
	ctx := context.Background()
	suffix := fmt.Sprint(time.Now().UnixNano())

	manager := mustCreate(t, svc, basePatch("PM"+suffix, "Store"+suffix, "Manager"))
	report := mustCreate(t, svc, employee.Patch{
		"employee_code":          "PR" + suffix,
		"first_name":             "Report",
		"department":             "Engineering",
		"designation":            "SWE",
		"annual_ctc":             "1500000.50",
		"date_of_joining":        "2024-02-29",
		"reporting_manager_code": manager.EmployeeCode,
	})
	assert.Equal(t, manager.ID, report.ReportingManagerID)
	assert.Equal(t, manager.EmployeeCode, report.ReportingManagerCode)
	require.NotNil(t, report.Compensation)
	assert.True(t, report.AnnualCTC.Equal(decimal.RequireFromString("1500000.50")))

	_, err := svc.Create(ctx, basePatch("PR"+suffix, "Dup", "Code"))
	assert.ErrorIs(t, err, employee.ErrDuplicateCode)

	found, err := svc.List(ctx, employee.Query{Search: "store" + suffix})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, manager.ID, found[0].ID)

	byName, err := svc.Update(ctx, report.ID, employee.Patch{"reporting_manager": "Store" + suffix + " Manager"}, false)
	require.NoError(t, err)
	assert.Equal(t, manager.ID, byName.ReportingManagerID)
	assert.False(t, byName.UpdatedAt.Before(byName.CreatedAt))

	require.NoError(t, svc.Delete(ctx, manager.ID))
	orphan, err := svc.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Empty(t, orphan.ReportingManagerID)

	removed, err := svc.BulkDelete(ctx, []string{report.ID, manager.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = svc.Get(ctx, report.ID)
	assert.ErrorIs(t, err, employee.ErrNotFound)
}
