package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hrms/internal/platform/db"
)

const codeConstraint = "employees_employee_code_key"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const selectEmployee = `
  SELECT e.id, e.employee_code, e.first_name, e.last_name, e.email, e.phone, e.gender, e.date_of_birth,
         e.department, e.designation, e.location, e.status, e.employee_type, e.work_shift, e.work_timing,
         e.probation_status, e.date_of_joining,
         COALESCE(e.reporting_manager_id::text, ''),
         COALESCE(m.employee_code, ''),
         COALESCE(TRIM(m.first_name || ' ' || m.last_name), ''),
         e.annual_ctc::text, e.basic_pay::text, e.allowances::text, e.bonus::text,
         e.photo, e.created_at, e.updated_at
  FROM employees e
  LEFT JOIN employees m ON m.id = e.reporting_manager_id`

var columnFor = map[string]string{
	FieldReportingManager: "reporting_manager_id",
}

func column(field string) string {
	if name, ok := columnFor[field]; ok {
		return name
	}
	return field
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var dob, doj *time.Time
	var ctc, basic, allowances, bonus string
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone, &emp.Gender, &dob,
		&emp.Department, &emp.Designation, &emp.Location, &emp.Status, &emp.EmployeeType, &emp.WorkShift, &emp.WorkTiming,
		&emp.ProbationStatus, &doj,
		&emp.ReportingManagerID, &emp.ReportingManagerCode, &emp.ReportingManagerName,
		&ctc, &basic, &allowances, &bonus,
		&emp.Photo, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	if dob != nil {
		emp.DateOfBirth = NewDate(*dob)
	}
	if doj != nil {
		emp.DateOfJoining = NewDate(*doj)
	}
	emp.Compensation = &Compensation{
		AnnualCTC:  decimalOrZero(ctc),
		BasicPay:   decimalOrZero(basic),
		Allowances: decimalOrZero(allowances),
		Bonus:      decimalOrZero(bonus),
	}
	return emp, nil
}

func decimalOrZero(raw string) decimal.Decimal {
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

func collect(rows pgx.Rows) ([]Employee, error) {
	defer rows.Close()
	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// placeholder renders the bind expression for a field so amounts travel as
// text and are cast server side.
func placeholder(field string, n int) string {
	if IsCompensationField(field) {
		return fmt.Sprintf("$%d::text::numeric", n)
	}
	return fmt.Sprintf("$%d", n)
}

func bindValue(changes Changes, field string) any {
	switch field {
	case FieldDateOfJoining, FieldDateOfBirth:
		return changes.Date(field)
	case FieldReportingManager:
		return changes.ManagerID()
	case FieldAnnualCTC, FieldBasicPay, FieldAllowances, FieldBonus:
		return changes.Amount(field).StringFixed(2)
	}
	return changes.Text(field)
}

func mapWriteError(err error) error {
	if db.IsUniqueViolation(err, codeConstraint) {
		return ErrDuplicateCode
	}
	if db.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: reporting manager", ErrNotFound)
	}
	return err
}

func (s *Store) Create(ctx context.Context, changes Changes) (Employee, error) {
	fields := changes.Fields()
	columns := make([]string, 0, len(fields))
	binds := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for i, field := range fields {
		columns = append(columns, column(field))
		binds = append(binds, placeholder(field, i+1))
		args = append(args, bindValue(changes, field))
	}

	var id string
	err := s.DB.QueryRow(ctx, fmt.Sprintf(
		"INSERT INTO employees (%s) VALUES (%s) RETURNING id::text",
		strings.Join(columns, ", "), strings.Join(binds, ", "),
	), args...).Scan(&id)
	if err != nil {
		return Employee{}, mapWriteError(err)
	}
	return s.Get(ctx, id)
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, selectEmployee+" WHERE e.id::text = $1", id))
}

func (s *Store) GetByCode(ctx context.Context, code string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, selectEmployee+" WHERE e.employee_code = $1", code))
}

func (s *Store) Update(ctx context.Context, id string, changes Changes) (Employee, error) {
	fields := changes.Fields()
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for i, field := range fields {
		sets = append(sets, fmt.Sprintf("%s = %s", column(field), placeholder(field, i+1)))
		args = append(args, bindValue(changes, field))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	tag, err := s.DB.Exec(ctx, fmt.Sprintf(
		"UPDATE employees SET %s WHERE id::text = $%d",
		strings.Join(sets, ", "), len(args),
	), args...)
	if err != nil {
		return Employee{}, mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id::text = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id::text = ANY($1)", ids)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) List(ctx context.Context, q Query) ([]Employee, error) {
	where, args := listFilters(q)
	query := selectEmployee
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderBy(q.Sort)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func listFilters(q Query) ([]string, []any) {
	var where []string
	var args []any
	if search := strings.TrimSpace(q.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(e.first_name ILIKE $%[1]d OR e.last_name ILIKE $%[1]d OR e.employee_code ILIKE $%[1]d OR e.email ILIKE $%[1]d OR e.phone ILIKE $%[1]d)", n))
	}
	for _, filter := range []struct {
		column string
		value  string
	}{
		{"e.department", q.Department},
		{"e.status", q.Status},
		{"e.location", q.Location},
	} {
		if value := strings.TrimSpace(filter.value); value != "" {
			args = append(args, value)
			where = append(where, fmt.Sprintf("lower(%s) = lower($%d)", filter.column, len(args)))
		}
	}
	return where, args
}

func orderBy(sort string) string {
	switch sort {
	case SortNameAsc:
		return "lower(e.first_name), lower(e.last_name), e.employee_code"
	case SortNameDesc:
		return "lower(e.first_name) DESC, lower(e.last_name) DESC, e.employee_code DESC"
	case SortCodeDesc:
		return "e.employee_code DESC"
	}
	return "e.employee_code"
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

func (s *Store) ListByIDs(ctx context.Context, ids []string) ([]Employee, error) {
	if len(ids) == 0 {
		return []Employee{}, nil
	}
	rows, err := s.DB.Query(ctx, selectEmployee+" WHERE e.id::text = ANY($1) ORDER BY e.employee_code", ids)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) FindByName(ctx context.Context, firstName, lastName string) ([]Employee, error) {
	query := selectEmployee + " WHERE lower(e.first_name) = lower($1)"
	args := []any{firstName}
	if lastName != "" {
		query += " AND lower(e.last_name) = lower($2)"
		args = append(args, lastName)
	}
	rows, err := s.DB.Query(ctx, query+" ORDER BY e.employee_code", args...)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE status = $1),
           COUNT(1) FILTER (WHERE status = $2),
           COUNT(1) FILTER (WHERE status = $3)
    FROM employees
  `, StatusActive, StatusOnLeave, StatusInactive).Scan(&stats.TotalEmployees, &stats.Active, &stats.OnLeave, &stats.Inactive)
	if err != nil {
		return Stats{}, err
	}

	rows, err := s.DB.Query(ctx, "SELECT department, COUNT(1) FROM employees GROUP BY department ORDER BY department")
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	stats.DepartmentBreakdown = []DepartmentCount{}
	for rows.Next() {
		var dc DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return Stats{}, err
		}
		stats.DepartmentBreakdown = append(stats.DepartmentBreakdown, dc)
	}
	return stats, rows.Err()
}

var distinctColumns = map[string]string{
	FieldDepartment: "department",
	FieldLocation:   "location",
	FieldStatus:     "status",
}

func (s *Store) Distinct(ctx context.Context, field string) ([]string, error) {
	col, ok := distinctColumns[field]
	if !ok {
		return nil, fmt.Errorf("distinct values not supported for %q", field)
	}
	rows, err := s.DB.Query(ctx, fmt.Sprintf("SELECT DISTINCT %[1]s FROM employees WHERE %[1]s <> '' ORDER BY %[1]s", col))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, rows.Err()
}
