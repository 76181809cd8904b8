package offboarding_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/employee"
	employeestore "hrms/internal/domain/employee/memstore"
	"hrms/internal/domain/offboarding"
	"hrms/internal/domain/offboarding/memstore"
	"hrms/internal/domain/validation"
)

func setup(t *testing.T) (*offboarding.Service, *memstore.Store, employee.Employee) {
	t.Helper()
	employees := employee.NewService(employeestore.New(), employee.Options{}, nil)
	emp, err := employees.Create(context.Background(), employee.Patch{
		"employee_code": "E1", "first_name": "Asha", "department": "Engineering", "designation": "SWE",
	})
	require.NoError(t, err)
	store := memstore.New()
	return offboarding.NewService(store, employees, nil), store, emp
}

func fullChecklist() map[string]string {
	return map[string]string{
		offboarding.ItemLaptopReturned:    offboarding.StatusSubmitted,
		offboarding.ItemAccessCard:        offboarding.StatusPending,
		offboarding.ItemDocuments:         "",
		offboarding.ItemNoDues:            offboarding.StatusPending,
		offboarding.ItemKnowledgeTransfer: offboarding.StatusPending,
	}
}

func request() offboarding.Request {
	return offboarding.Request{
		ResignationDate: "2025-01-10",
		LastWorkingDate: "2025-02-10",
		ReasonForExit:   "Relocation",
		Checklist:       fullChecklist(),
	}
}

func TestCreateOffboarding(t *testing.T) {
	svc, _, emp := setup(t)

	off, err := svc.Create(context.Background(), emp.ID, request())
	require.NoError(t, err)
	require.Len(t, off.Checklist, 5)
	assert.Equal(t, offboarding.ItemLaptopReturned, off.Checklist[0].Item)
	assert.Equal(t, offboarding.StatusSubmitted, off.Checklist[0].Status)
	assert.Equal(t, offboarding.StatusPending, off.Checklist[2].Status)
	assert.Equal(t, "2025-02-10", off.LastWorkingDate.String())
}

func TestCreateTwiceConflicts(t *testing.T) {
	svc, _, emp := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, emp.ID, request())
	require.NoError(t, err)

	_, err = svc.Create(ctx, emp.ID, request())
	assert.ErrorIs(t, err, offboarding.ErrExists)
}

func TestInvalidChecklistWritesNothing(t *testing.T) {
	svc, _, emp := setup(t)
	ctx := context.Background()
	req := request()
	req.Checklist["PARKING_PASS"] = offboarding.StatusPending
	req.Checklist[offboarding.ItemNoDues] = "DONE"
	delete(req.Checklist, offboarding.ItemAccessCard)

	_, err := svc.Create(ctx, emp.ID, req)
	issues, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, issues.HasField("checklist.PARKING_PASS"))
	assert.True(t, issues.HasField("checklist.NO_DUES"))
	assert.True(t, issues.HasField("checklist.ACCESS_CARD"))

	_, err = svc.Get(ctx, emp.ID)
	assert.ErrorIs(t, err, offboarding.ErrNotFound)
}

func TestCreateForMissingEmployee(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Create(context.Background(), "7a1f6a52-53f4-4b8e-9a63-0d8c55f0e6a1", request())
	assert.ErrorIs(t, err, employee.ErrNotFound)
}

func TestDatesAreValidated(t *testing.T) {
	svc, _, emp := setup(t)
	req := request()
	req.LastWorkingDate = "2024-12-01"
	_, err := svc.Create(context.Background(), emp.ID, req)
	issues, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, issues.HasField("last_working_date"))
}

func TestReplaceChecklistAndUpdateItem(t *testing.T) {
	svc, _, emp := setup(t)
	ctx := context.Background()
	off, err := svc.Create(ctx, emp.ID, request())
	require.NoError(t, err)
	oldID := off.Checklist[0].ID

	replacement := fullChecklist()
	for key := range replacement {
		replacement[key] = offboarding.StatusSubmitted
	}
	items, err := svc.ReplaceChecklist(ctx, emp.ID, replacement)
	require.NoError(t, err)
	require.Len(t, items, 5)
	for _, item := range items {
		assert.Equal(t, offboarding.StatusSubmitted, item.Status)
	}
	_, err = svc.GetItem(ctx, oldID)
	assert.ErrorIs(t, err, offboarding.ErrItemNotFound)

	updated, err := svc.UpdateItem(ctx, items[1].ID, offboarding.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, offboarding.StatusPending, updated.Status)

	got, err := svc.GetItem(ctx, items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, offboarding.StatusPending, got.Status)

	_, err = svc.UpdateItem(ctx, items[1].ID, "pending")
	_, ok := validation.As(err)
	assert.True(t, ok)
}

func TestChecklistKeysAreTrimmed(t *testing.T) {
	svc, _, emp := setup(t)
	ctx := context.Background()
	req := request()
	req.Checklist[" "+offboarding.ItemNoDues+" "] = offboarding.StatusSubmitted
	delete(req.Checklist, offboarding.ItemNoDues)

	off, err := svc.Create(ctx, emp.ID, req)
	require.NoError(t, err)
	var noDues string
	for _, item := range off.Checklist {
		if item.Item == offboarding.ItemNoDues {
			noDues = item.Status
		}
	}
	assert.Equal(t, offboarding.StatusSubmitted, noDues)

	dup := fullChecklist()
	dup[offboarding.ItemNoDues+" "] = offboarding.StatusSubmitted
	_, err = svc.ReplaceChecklist(ctx, emp.ID, dup)
	issues, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, issues.HasField("checklist.NO_DUES"))
}
