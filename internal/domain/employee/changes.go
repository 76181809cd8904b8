package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Changes holds validated, typed values for the fields a write touches.
// Dates and the manager link are pointers; nil clears them.
type Changes struct {
	values map[string]any
}

func (c *Changes) set(field string, value any) {
	if c.values == nil {
		c.values = map[string]any{}
	}
	c.values[field] = value
}

func (c Changes) Has(field string) bool {
	_, ok := c.values[field]
	return ok
}

func (c Changes) Len() int {
	return len(c.values)
}

// Fields returns the touched fields in declared order.
func (c Changes) Fields() []string {
	out := make([]string, 0, len(c.values))
	for _, field := range Fields {
		if c.Has(field) {
			out = append(out, field)
		}
	}
	return out
}

func (c Changes) Text(field string) string {
	value, _ := c.values[field].(string)
	return value
}

func (c Changes) Date(field string) *time.Time {
	value, _ := c.values[field].(*time.Time)
	return value
}

func (c Changes) Amount(field string) decimal.Decimal {
	value, _ := c.values[field].(decimal.Decimal)
	return value
}

// ManagerID is nil when the change clears the link.
func (c Changes) ManagerID() *string {
	value, _ := c.values[FieldReportingManager].(*string)
	return value
}

// Apply copies the changes onto a record. Manager name and code are left to
// the store that owns the lookup.
func (c Changes) Apply(e *Employee) {
	for _, field := range c.Fields() {
		switch field {
		case FieldEmployeeCode:
			e.EmployeeCode = c.Text(field)
		case FieldFirstName:
			e.FirstName = c.Text(field)
		case FieldLastName:
			e.LastName = c.Text(field)
		case FieldEmail:
			e.Email = c.Text(field)
		case FieldDepartment:
			e.Department = c.Text(field)
		case FieldDesignation:
			e.Designation = c.Text(field)
		case FieldLocation:
			e.Location = c.Text(field)
		case FieldPhone:
			e.Phone = c.Text(field)
		case FieldStatus:
			e.Status = c.Text(field)
		case FieldGender:
			e.Gender = c.Text(field)
		case FieldEmployeeType:
			e.EmployeeType = c.Text(field)
		case FieldWorkShift:
			e.WorkShift = c.Text(field)
		case FieldWorkTiming:
			e.WorkTiming = c.Text(field)
		case FieldProbationStatus:
			e.ProbationStatus = c.Text(field)
		case FieldPhoto:
			e.Photo = c.Text(field)
		case FieldDateOfJoining:
			e.DateOfJoining = datePtr(c.Date(field))
		case FieldDateOfBirth:
			e.DateOfBirth = datePtr(c.Date(field))
		case FieldReportingManager:
			e.ReportingManagerID = ""
			if id := c.ManagerID(); id != nil {
				e.ReportingManagerID = *id
			}
		case FieldAnnualCTC, FieldBasicPay, FieldAllowances, FieldBonus:
			if e.Compensation == nil {
				e.Compensation = &Compensation{}
			}
			amount := c.Amount(field)
			switch field {
			case FieldAnnualCTC:
				e.AnnualCTC = amount
			case FieldBasicPay:
				e.BasicPay = amount
			case FieldAllowances:
				e.Allowances = amount
			case FieldBonus:
				e.Bonus = amount
			}
		}
	}
}

func datePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return NewDate(*t)
}

// StatusChange builds the single-field change used by deactivation.
func StatusChange(status string) Changes {
	var c Changes
	c.set(FieldStatus, status)
	return c
}

func PhotoChange(ref string) Changes {
	var c Changes
	c.set(FieldPhoto, ref)
	return c
}
