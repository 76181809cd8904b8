package salaryslip

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/employee"
)

func TestRenderProducesPDF(t *testing.T) {
	emp := employee.Employee{
		EmployeeCode: "E100",
		FirstName:    "Asha",
		Department:   "Engineering",
		Designation:  "SWE",
		Compensation: &employee.Compensation{AnnualCTC: decimal.NewFromInt(1200000)},
	}

	data, err := Render(emp, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "salary-slip-E100.pdf", FileName(emp))
}

func TestRenderWithoutCompensation(t *testing.T) {
	data, err := Render(employee.Employee{EmployeeCode: "E1"}, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
