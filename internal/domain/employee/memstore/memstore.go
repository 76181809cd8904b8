// Package memstore keeps employee records in memory. It backs the handler
// tests and the CLI dry-run mode and mirrors the constraints of the
// PostgreSQL schema: unique codes, manager links cleared on delete.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrms/internal/domain/employee"
)

var ErrSelfManager = errors.New("employee cannot report to itself")

type Store struct {
	mu   sync.RWMutex
	rows map[string]employee.Employee
	now  func() time.Time
}

func New() *Store {
	return &Store{
		rows: map[string]employee.Employee{},
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for created_at and updated_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Create(_ context.Context, changes employee.Changes) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp := employee.Employee{
		ID:           uuid.NewString(),
		Status:       employee.StatusActive,
		Compensation: &employee.Compensation{},
	}
	changes.Apply(&emp)
	if s.codeTaken(emp.EmployeeCode, "") {
		return employee.Employee{}, employee.ErrDuplicateCode
	}
	if err := s.checkManager(emp); err != nil {
		return employee.Employee{}, err
	}
	now := s.now()
	emp.CreatedAt = now
	emp.UpdatedAt = now
	s.rows[emp.ID] = emp
	return s.view(emp), nil
}

func (s *Store) codeTaken(code, exceptID string) bool {
	for id, row := range s.rows {
		if id != exceptID && row.EmployeeCode == code {
			return true
		}
	}
	return false
}

func (s *Store) checkManager(emp employee.Employee) error {
	if emp.ReportingManagerID == "" {
		return nil
	}
	if emp.ReportingManagerID == emp.ID {
		return ErrSelfManager
	}
	if _, ok := s.rows[emp.ReportingManagerID]; !ok {
		return fmt.Errorf("%w: reporting manager", employee.ErrNotFound)
	}
	return nil
}

// view returns a detached copy with the manager columns joined in.
func (s *Store) view(emp employee.Employee) employee.Employee {
	if emp.Compensation != nil {
		pay := *emp.Compensation
		emp.Compensation = &pay
	}
	if emp.DateOfBirth != nil {
		d := *emp.DateOfBirth
		emp.DateOfBirth = &d
	}
	if emp.DateOfJoining != nil {
		d := *emp.DateOfJoining
		emp.DateOfJoining = &d
	}
	emp.ReportingManagerCode = ""
	emp.ReportingManagerName = ""
	if manager, ok := s.rows[emp.ReportingManagerID]; ok {
		emp.ReportingManagerCode = manager.EmployeeCode
		emp.ReportingManagerName = manager.FullName()
	}
	return emp
}

func (s *Store) Get(_ context.Context, id string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emp, ok := s.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	return s.view(emp), nil
}

func (s *Store) GetByCode(_ context.Context, code string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, emp := range s.rows {
		if emp.EmployeeCode == code {
			return s.view(emp), nil
		}
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (s *Store) Update(_ context.Context, id string, changes employee.Changes) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	emp := s.view(stored)
	changes.Apply(&emp)
	if s.codeTaken(emp.EmployeeCode, id) {
		return employee.Employee{}, employee.ErrDuplicateCode
	}
	if err := s.checkManager(emp); err != nil {
		return employee.Employee{}, err
	}
	emp.UpdatedAt = s.now()
	if !emp.UpdatedAt.After(stored.UpdatedAt) {
		emp.UpdatedAt = stored.UpdatedAt.Add(time.Microsecond)
	}
	s.rows[id] = emp
	return s.view(emp), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return employee.ErrNotFound
	}
	s.remove(id)
	return nil
}

func (s *Store) remove(id string) {
	delete(s.rows, id)
	for key, row := range s.rows {
		if row.ReportingManagerID == id {
			row.ReportingManagerID = ""
			s.rows[key] = row
		}
	}
}

func (s *Store) DeleteMany(_ context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, id := range ids {
		if _, ok := s.rows[id]; ok {
			s.remove(id)
			removed++
		}
	}
	return removed, nil
}

func (s *Store) List(_ context.Context, q employee.Query) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := []employee.Employee{}
	for _, emp := range s.rows {
		if search != "" && !matchesSearch(emp, search) {
			continue
		}
		if !equalFilter(emp.Department, q.Department) || !equalFilter(emp.Status, q.Status) || !equalFilter(emp.Location, q.Location) {
			continue
		}
		out = append(out, s.view(emp))
	}
	sortEmployees(out, q.Sort)
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []employee.Employee{}, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func matchesSearch(emp employee.Employee, search string) bool {
	for _, value := range []string{emp.FirstName, emp.LastName, emp.EmployeeCode, emp.Email, emp.Phone} {
		if strings.Contains(strings.ToLower(value), search) {
			return true
		}
	}
	return false
}

func equalFilter(value, filter string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || strings.EqualFold(value, filter)
}

func sortEmployees(rows []employee.Employee, key string) {
	byName := func(a, b employee.Employee) int {
		if c := strings.Compare(strings.ToLower(a.FirstName), strings.ToLower(b.FirstName)); c != 0 {
			return c
		}
		if c := strings.Compare(strings.ToLower(a.LastName), strings.ToLower(b.LastName)); c != 0 {
			return c
		}
		return strings.Compare(a.EmployeeCode, b.EmployeeCode)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		switch key {
		case employee.SortNameAsc:
			return byName(rows[i], rows[j]) < 0
		case employee.SortNameDesc:
			return byName(rows[i], rows[j]) > 0
		case employee.SortCodeDesc:
			return rows[i].EmployeeCode > rows[j].EmployeeCode
		}
		return rows[i].EmployeeCode < rows[j].EmployeeCode
	})
}

func (s *Store) ListByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []employee.Employee{}
	for _, id := range ids {
		if emp, ok := s.rows[id]; ok {
			out = append(out, s.view(emp))
		}
	}
	sortEmployees(out, employee.SortCodeAsc)
	return out, nil
}

func (s *Store) FindByName(_ context.Context, firstName, lastName string) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []employee.Employee{}
	for _, emp := range s.rows {
		if !strings.EqualFold(emp.FirstName, firstName) {
			continue
		}
		if lastName != "" && !strings.EqualFold(emp.LastName, lastName) {
			continue
		}
		out = append(out, s.view(emp))
	}
	sortEmployees(out, employee.SortCodeAsc)
	return out, nil
}

func (s *Store) Stats(_ context.Context) (employee.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := employee.Stats{TotalEmployees: len(s.rows), DepartmentBreakdown: []employee.DepartmentCount{}}
	departments := map[string]int{}
	for _, emp := range s.rows {
		switch emp.Status {
		case employee.StatusActive:
			stats.Active++
		case employee.StatusOnLeave:
			stats.OnLeave++
		case employee.StatusInactive:
			stats.Inactive++
		}
		departments[emp.Department]++
	}
	for name, count := range departments {
		stats.DepartmentBreakdown = append(stats.DepartmentBreakdown, employee.DepartmentCount{Department: name, Count: count})
	}
	sort.Slice(stats.DepartmentBreakdown, func(i, j int) bool {
		return stats.DepartmentBreakdown[i].Department < stats.DepartmentBreakdown[j].Department
	})
	return stats, nil
}

func (s *Store) Distinct(_ context.Context, field string) ([]string, error) {
	switch field {
	case employee.FieldDepartment, employee.FieldLocation, employee.FieldStatus:
	default:
		return nil, fmt.Errorf("distinct values not supported for %q", field)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	for _, emp := range s.rows {
		var value string
		switch field {
		case employee.FieldDepartment:
			value = emp.Department
		case employee.FieldLocation:
			value = emp.Location
		case employee.FieldStatus:
			value = emp.Status
		}
		if value != "" {
			seen[value] = true
		}
	}
	out := make([]string, 0, len(seen))
	for value := range seen {
		out = append(out, value)
	}
	sort.Strings(out)
	return out, nil
}

var _ employee.StoreAPI = (*Store)(nil)
