package employee

import "github.com/shopspring/decimal"

// SettlementRates are the fixed inputs of the final settlement projection.
// They are configuration, not derived from the employee's compensation.
type SettlementRates struct {
	PendingSalary   decimal.Decimal
	LeaveEncashment decimal.Decimal
	Gratuity        decimal.Decimal
	Deductions      decimal.Decimal
}

func DefaultSettlementRates() SettlementRates {
	return SettlementRates{
		PendingSalary:   decimal.NewFromInt(50000),
		LeaveEncashment: decimal.NewFromInt(10000),
		Gratuity:        decimal.NewFromInt(25000),
		Deductions:      decimal.NewFromInt(5000),
	}
}

func (r SettlementRates) For(emp Employee) Settlement {
	return Settlement{
		EmployeeID:      emp.ID,
		EmployeeCode:    emp.EmployeeCode,
		EmployeeName:    emp.FullName(),
		PendingSalary:   r.PendingSalary,
		LeaveEncashment: r.LeaveEncashment,
		Gratuity:        r.Gratuity,
		Deductions:      r.Deductions,
		TotalPayable:    r.PendingSalary.Add(r.LeaveEncashment).Add(r.Gratuity).Sub(r.Deductions),
	}
}
