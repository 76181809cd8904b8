package offboarding

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"hrms/internal/domain/employee"
	"hrms/internal/domain/validation"
)

// Employees confirms the employee being offboarded exists.
type Employees interface {
	Get(ctx context.Context, id string) (employee.Employee, error)
}

type Service struct {
	store     StoreAPI
	employees Employees
	logger    *slog.Logger
}

func NewService(store StoreAPI, employees Employees, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, employees: employees, logger: logger}
}

// Create opens the offboarding of an employee. Every input is validated
// before anything is written and an employee can be offboarded only once.
func (s *Service) Create(ctx context.Context, employeeID string, req Request) (Offboarding, error) {
	if _, err := s.employees.Get(ctx, employeeID); err != nil {
		return Offboarding{}, err
	}

	v := validation.New()
	resignation, _ := v.Date("resignation_date", req.ResignationDate)
	lastDay, _ := v.Date("last_working_date", req.LastWorkingDate)
	v.Required("resignation_date", req.ResignationDate)
	v.Required("last_working_date", req.LastWorkingDate)
	if !resignation.IsZero() && !lastDay.IsZero() && lastDay.Before(resignation) {
		v.Add("last_working_date", "must not be before the resignation date")
	}
	v.MaxLen("reason_for_exit", req.ReasonForExit, 2000)
	v.MaxLen("additional_notes", req.AdditionalNotes, 4000)
	checklist := normalizeChecklist(v, req.Checklist)
	if err := v.Err(); err != nil {
		return Offboarding{}, err
	}

	if _, err := s.store.GetByEmployee(ctx, employeeID); err == nil {
		return Offboarding{}, ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return Offboarding{}, err
	}

	off, err := s.store.Create(ctx, Offboarding{
		EmployeeID:      employeeID,
		ResignationDate: employee.NewDate(resignation),
		LastWorkingDate: employee.NewDate(lastDay),
		ReasonForExit:   strings.TrimSpace(req.ReasonForExit),
		AdditionalNotes: strings.TrimSpace(req.AdditionalNotes),
	}, checklist)
	if err != nil {
		return Offboarding{}, err
	}
	s.logger.Info("offboarding created", "employee_id", employeeID, "offboarding_id", off.ID)
	return off, nil
}

// normalizeChecklist demands exactly the fixed items, keyed after trimming.
// A blank status means PENDING.
func normalizeChecklist(v *validation.Validator, in map[string]string) map[string]string {
	if len(in) == 0 {
		v.Add("checklist", "is required")
		return nil
	}
	out := make(map[string]string, len(Items))
	seen := make(map[string]bool, len(Items))
	for raw, status := range in {
		key := strings.TrimSpace(raw)
		if !contains(Items, key) {
			v.Add("checklist."+key, "is not a checklist item")
			continue
		}
		if seen[key] {
			v.Add("checklist."+key, "is given more than once")
			continue
		}
		seen[key] = true
		status = strings.TrimSpace(status)
		if status == "" {
			status = StatusPending
		}
		if !contains(Statuses, status) {
			v.Add("checklist."+key, "must be one of "+strings.Join(Statuses, ", "))
			continue
		}
		out[key] = status
	}
	for _, item := range Items {
		if !seen[item] {
			v.Add("checklist."+item, "is required")
		}
	}
	return out
}

func (s *Service) Get(ctx context.Context, employeeID string) (Offboarding, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return Offboarding{}, ErrNotFound
	}
	return s.store.GetByEmployee(ctx, employeeID)
}

// ReplaceChecklist swaps the whole checklist for the given map.
func (s *Service) ReplaceChecklist(ctx context.Context, employeeID string, checklist map[string]string) ([]ChecklistItem, error) {
	v := validation.New()
	normalized := normalizeChecklist(v, checklist)
	if err := v.Err(); err != nil {
		return nil, err
	}
	off, err := s.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ReplaceChecklist(ctx, off.ID, normalized)
	if err != nil {
		return nil, err
	}
	s.logger.Info("offboarding checklist replaced", "offboarding_id", off.ID)
	return items, nil
}

func (s *Service) GetItem(ctx context.Context, itemID string) (ChecklistItem, error) {
	if _, err := uuid.Parse(itemID); err != nil {
		return ChecklistItem{}, ErrItemNotFound
	}
	return s.store.GetItem(ctx, itemID)
}

// UpdateItem moves one checklist item to the given status.
func (s *Service) UpdateItem(ctx context.Context, itemID, status string) (ChecklistItem, error) {
	v := validation.New()
	status = strings.TrimSpace(status)
	v.Required("status", status)
	v.Enum("status", status, Statuses)
	if err := v.Err(); err != nil {
		return ChecklistItem{}, err
	}
	if _, err := uuid.Parse(itemID); err != nil {
		return ChecklistItem{}, ErrItemNotFound
	}
	return s.store.UpdateItemStatus(ctx, itemID, status)
}

func sortItems(items []ChecklistItem) {
	order := map[string]int{}
	for i, item := range Items {
		order[item] = i
	}
	sort.Slice(items, func(i, j int) bool {
		return order[items[i].Item] < order[items[j].Item]
	})
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
