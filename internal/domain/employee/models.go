package employee

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Date is a calendar date rendered as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) *Date {
	if t.IsZero() {
		return nil
	}
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

type Compensation struct {
	AnnualCTC  decimal.Decimal `json:"annual_ctc"`
	BasicPay   decimal.Decimal `json:"basic_pay"`
	Allowances decimal.Decimal `json:"allowances"`
	Bonus      decimal.Decimal `json:"bonus"`
}

type Employee struct {
	ID                   string `json:"id"`
	EmployeeCode         string `json:"employee_code"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Gender               string `json:"gender"`
	DateOfBirth          *Date  `json:"date_of_birth"`
	Department           string `json:"department"`
	Designation          string `json:"designation"`
	Location             string `json:"location"`
	Status               string `json:"status"`
	EmployeeType         string `json:"employee_type"`
	WorkShift            string `json:"work_shift"`
	WorkTiming           string `json:"work_timing"`
	ProbationStatus      string `json:"probation_status"`
	DateOfJoining        *Date  `json:"date_of_joining"`
	ReportingManagerID   string `json:"reporting_manager"`
	ReportingManagerCode string `json:"reporting_manager_code"`
	ReportingManagerName string `json:"reporting_manager_name"`
	*Compensation
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Value renders one declared field as flat text for tabular exports.
func (e Employee) Value(field string) string {
	switch field {
	case FieldEmployeeCode:
		return e.EmployeeCode
	case FieldFirstName:
		return e.FirstName
	case FieldLastName:
		return e.LastName
	case FieldEmail:
		return e.Email
	case FieldDepartment:
		return e.Department
	case FieldDesignation:
		return e.Designation
	case FieldLocation:
		return e.Location
	case FieldPhone:
		return e.Phone
	case FieldDateOfJoining:
		return dateText(e.DateOfJoining)
	case FieldStatus:
		return e.Status
	case FieldGender:
		return e.Gender
	case FieldDateOfBirth:
		return dateText(e.DateOfBirth)
	case FieldEmployeeType:
		return e.EmployeeType
	case FieldWorkShift:
		return e.WorkShift
	case FieldWorkTiming:
		return e.WorkTiming
	case FieldProbationStatus:
		return e.ProbationStatus
	case FieldReportingManager:
		return e.ReportingManagerName
	case FieldReportingManagerCode:
		return e.ReportingManagerCode
	case FieldAnnualCTC, FieldBasicPay, FieldAllowances, FieldBonus:
		if e.Compensation == nil {
			return ""
		}
		return e.amount(field).StringFixed(2)
	case FieldPhoto:
		return e.Photo
	case FieldCreatedAt:
		return timeText(e.CreatedAt)
	case FieldUpdatedAt:
		return timeText(e.UpdatedAt)
	}
	return ""
}

func (e Employee) amount(field string) decimal.Decimal {
	switch field {
	case FieldAnnualCTC:
		return e.AnnualCTC
	case FieldBasicPay:
		return e.BasicPay
	case FieldAllowances:
		return e.Allowances
	case FieldBonus:
		return e.Bonus
	}
	return decimal.Zero
}

func dateText(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func timeText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Query drives List. Empty fields do not filter.
type Query struct {
	Search     string
	Department string
	Status     string
	Location   string
	Sort       string
	Limit      int
	Offset     int
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type Stats struct {
	TotalEmployees      int               `json:"total_employees"`
	Active              int               `json:"active"`
	OnLeave             int               `json:"on_leave"`
	Inactive            int               `json:"inactive"`
	DepartmentBreakdown []DepartmentCount `json:"department_breakdown"`
}

type Settlement struct {
	EmployeeID      string          `json:"employee_id"`
	EmployeeCode    string          `json:"employee_code"`
	EmployeeName    string          `json:"employee_name"`
	PendingSalary   decimal.Decimal `json:"pending_salary"`
	LeaveEncashment decimal.Decimal `json:"leave_encashment"`
	Gratuity        decimal.Decimal `json:"gratuity"`
	Deductions      decimal.Decimal `json:"deductions"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
}
