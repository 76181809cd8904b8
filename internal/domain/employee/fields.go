package employee

const (
	FieldEmployeeCode     = "employee_code"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldEmail            = "email"
	FieldDepartment       = "department"
	FieldDesignation      = "designation"
	FieldLocation         = "location"
	FieldPhone            = "phone"
	FieldDateOfJoining    = "date_of_joining"
	FieldStatus           = "status"
	FieldGender           = "gender"
	FieldDateOfBirth      = "date_of_birth"
	FieldEmployeeType     = "employee_type"
	FieldWorkShift        = "work_shift"
	FieldWorkTiming       = "work_timing"
	FieldProbationStatus  = "probation_status"
	FieldReportingManager = "reporting_manager"
	FieldAnnualCTC        = "annual_ctc"
	FieldBasicPay         = "basic_pay"
	FieldAllowances       = "allowances"
	FieldBonus            = "bonus"
	FieldPhoto            = "photo"
	FieldCreatedAt        = "created_at"
	FieldUpdatedAt        = "updated_at"

	// FieldReportingManagerCode names a manager by employee_code instead of by name.
	FieldReportingManagerCode = "reporting_manager_code"
)

// Fields lists the record attributes in declared order. Exports follow it.
var Fields = []string{
	FieldEmployeeCode,
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldDepartment,
	FieldDesignation,
	FieldLocation,
	FieldPhone,
	FieldDateOfJoining,
	FieldStatus,
	FieldGender,
	FieldDateOfBirth,
	FieldEmployeeType,
	FieldWorkShift,
	FieldWorkTiming,
	FieldProbationStatus,
	FieldReportingManager,
	FieldAnnualCTC,
	FieldBasicPay,
	FieldAllowances,
	FieldBonus,
	FieldPhoto,
	FieldCreatedAt,
	FieldUpdatedAt,
}

var compensationFields = []string{FieldAnnualCTC, FieldBasicPay, FieldAllowances, FieldBonus}

var sectionFields = map[string][]string{
	SectionOverview: {
		FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldGender, FieldDateOfBirth,
	},
	SectionJob: {
		FieldDepartment, FieldDesignation, FieldLocation, FieldStatus, FieldEmployeeType, FieldWorkShift, FieldWorkTiming,
		FieldProbationStatus, FieldDateOfJoining, FieldReportingManager, FieldReportingManagerCode,
	},
	SectionSalary: compensationFields,
}

// SectionFields returns the writable fields of a section, or nil when the
// section is unknown.
func SectionFields(section string) []string {
	return sectionFields[section]
}

func IsCompensationField(field string) bool {
	return contains(compensationFields, field)
}

// TouchesCompensation reports whether a patch writes any pay field.
func TouchesCompensation(p Patch) bool {
	for _, field := range compensationFields {
		if p.Has(field) {
			return true
		}
	}
	return false
}

// FilterEmployeeFields strips pay and date of birth for callers without
// compensation access.
func FilterEmployeeFields(emp *Employee, canViewSensitive bool) {
	if emp == nil || canViewSensitive {
		return
	}
	emp.Compensation = nil
	emp.DateOfBirth = nil
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
