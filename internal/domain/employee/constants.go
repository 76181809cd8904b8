package employee

const (
	StatusActive   = "ACTIVE"
	StatusOnLeave  = "ON_LEAVE"
	StatusInactive = "INACTIVE"

	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"

	TypeFullTime  = "FULL_TIME"
	TypeTemporary = "TEMPORARY"

	ShiftDay        = "DAY"
	ShiftNight      = "NIGHT"
	ShiftRotational = "ROTATIONAL"

	ProbationPending   = "PENDING"
	ProbationCompleted = "COMPLETED"
)

const (
	SortNameAsc  = "name_asc"
	SortNameDesc = "name_desc"
	SortCodeAsc  = "code_asc"
	SortCodeDesc = "code_desc"
)

const (
	CategoryDepartments = "departments"
	CategoryLocations   = "locations"
	CategoryStatus      = "status"
)

const (
	SectionOverview = "overview"
	SectionJob      = "job"
	SectionSalary   = "salary"
)

var (
	Statuses          = []string{StatusActive, StatusOnLeave, StatusInactive}
	Genders           = []string{GenderMale, GenderFemale, GenderOther}
	EmployeeTypes     = []string{TypeFullTime, TypeTemporary}
	WorkShifts        = []string{ShiftDay, ShiftNight, ShiftRotational}
	ProbationStatuses = []string{ProbationPending, ProbationCompleted}
	SortKeys          = []string{SortNameAsc, SortNameDesc, SortCodeAsc, SortCodeDesc}
	Categories        = []string{CategoryDepartments, CategoryLocations, CategoryStatus}
	Sections          = []string{SectionOverview, SectionJob, SectionSalary}
)
