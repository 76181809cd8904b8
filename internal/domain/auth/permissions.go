package auth

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

const (
	PermEmployeesRead      = "employees.read"
	PermEmployeesWrite     = "employees.write"
	PermEmployeesDelete    = "employees.delete"
	PermCompensationRead   = "employees.compensation.read"
	PermCompensationWrite  = "employees.compensation.write"
	PermEmployeesImport    = "employees.import"
	PermEmployeesExport    = "employees.export"
	PermOffboardingRead    = "offboarding.read"
	PermOffboardingWrite   = "offboarding.write"
	PermDocumentsRead      = "documents.read"
	PermDocumentsWrite     = "documents.write"
	PermSalarySlipDownload = "salaryslip.download"
	PermAuditRead          = "audit.read"
	PermMetricsRead        = "metrics.read"
	PermUsersManage        = "users.manage"
)

var Roles = []string{RoleAdmin, RoleHR, RoleEmployee}

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermEmployeesDelete,
	PermCompensationRead,
	PermCompensationWrite,
	PermEmployeesImport,
	PermEmployeesExport,
	PermOffboardingRead,
	PermOffboardingWrite,
	PermDocumentsRead,
	PermDocumentsWrite,
	PermSalarySlipDownload,
	PermAuditRead,
	PermMetricsRead,
	PermUsersManage,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermDocumentsRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermEmployeesDelete,
		PermCompensationRead,
		PermCompensationWrite,
		PermEmployeesImport,
		PermEmployeesExport,
		PermOffboardingRead,
		PermOffboardingWrite,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermSalarySlipDownload,
		PermAuditRead,
	},
	RoleAdmin: DefaultPermissions,
}

func ValidRole(role string) bool {
	for _, candidate := range Roles {
		if candidate == role {
			return true
		}
	}
	return false
}
