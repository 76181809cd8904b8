package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"hrms/internal/domain/validation"
)

const (
	maxListLimit = 500

	modeCreate = iota
	modeReplace
	modePatch
)

var requiredFields = []string{FieldEmployeeCode, FieldFirstName, FieldDepartment, FieldDesignation}

var textLimits = map[string]int{
	FieldEmployeeCode: 50,
	FieldFirstName:    100,
	FieldLastName:     100,
	FieldEmail:        254,
	FieldDepartment:   100,
	FieldDesignation:  100,
	FieldLocation:     100,
	FieldPhone:        30,
	FieldWorkTiming:   100,
}

var enumFields = map[string][]string{
	FieldStatus:          Statuses,
	FieldGender:          Genders,
	FieldEmployeeType:    EmployeeTypes,
	FieldWorkShift:       WorkShifts,
	FieldProbationStatus: ProbationStatuses,
}

var categoryFields = map[string]string{
	CategoryDepartments: FieldDepartment,
	CategoryLocations:   FieldLocation,
	CategoryStatus:      FieldStatus,
}

type Options struct {
	ManagerPolicy string
	Settlement    SettlementRates
}

type Service struct {
	store    StoreAPI
	resolver *Resolver
	rates    SettlementRates
	logger   *slog.Logger
	stats    singleflight.Group
}

func NewService(store StoreAPI, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Settlement == (SettlementRates{}) {
		opts.Settlement = DefaultSettlementRates()
	}
	return &Service{
		store:    store,
		resolver: NewResolver(store, opts.ManagerPolicy),
		rates:    opts.Settlement,
		logger:   logger,
	}
}

func (s *Service) Resolver() *Resolver {
	return s.resolver
}

func (s *Service) Create(ctx context.Context, p Patch) (Employee, error) {
	changes, err := s.changes(ctx, modeCreate, p, nil)
	if err != nil {
		return Employee{}, err
	}
	emp, err := s.store.Create(ctx, changes)
	if err != nil {
		return Employee{}, err
	}
	s.logger.Info("employee created", "employee_id", emp.ID, "employee_code", emp.EmployeeCode)
	return emp, nil
}

// Get treats a malformed id as a missing record.
func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Employee{}, ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// Update writes only the supplied fields. A full update additionally demands
// every required field.
func (s *Service) Update(ctx context.Context, id string, p Patch, full bool) (Employee, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	mode := modePatch
	if full {
		mode = modeReplace
	}
	return s.update(ctx, current, mode, p)
}

func (s *Service) update(ctx context.Context, current Employee, mode int, p Patch) (Employee, error) {
	changes, err := s.changes(ctx, mode, p, &current)
	if err != nil {
		return Employee{}, err
	}
	if changes.Len() == 0 {
		return current, nil
	}
	return s.store.Update(ctx, current.ID, changes)
}

// Section returns the projection of one detail tab.
func (s *Service) Section(ctx context.Context, id, section string) (map[string]any, error) {
	if SectionFields(section) == nil {
		return nil, ErrUnknownSection
	}
	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return Project(emp, section)
}

// UpdateSection patches the fields of one section and rejects any other key.
func (s *Service) UpdateSection(ctx context.Context, id, section string, p Patch) (Employee, error) {
	fields := SectionFields(section)
	if fields == nil {
		return Employee{}, ErrUnknownSection
	}
	v := validation.New()
	for key := range p {
		if !contains(fields, key) {
			v.Add(key, "is not part of the "+section+" section")
		}
	}
	if err := v.Err(); err != nil {
		return Employee{}, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	return s.update(ctx, current, modePatch, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

func (s *Service) BulkDelete(ctx context.Context, ids []string) (int, error) {
	ids, err := validIDs(ids)
	if err != nil {
		return 0, err
	}
	removed, err := s.store.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("employees deleted", "requested", len(ids), "removed", removed)
	return removed, nil
}

func validIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, validation.Field("ids", "must contain at least one id")
	}
	v := validation.New()
	out := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for i, id := range ids {
		id = strings.TrimSpace(id)
		if !v.UUID("ids["+strconv.Itoa(i)+"]", id) {
			continue
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) List(ctx context.Context, q Query) ([]Employee, error) {
	v := validation.New()
	if q.Sort != "" {
		v.Enum("sort", q.Sort, SortKeys)
	}
	if q.Limit < 0 || q.Limit > maxListLimit {
		v.Add("limit", fmt.Sprintf("must be between 0 and %d", maxListLimit))
	}
	if q.Offset < 0 {
		v.Add("offset", "must not be negative")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.store.List(ctx, q)
}

// Stats coalesces concurrent callers onto one query.
// Stats shares one in-flight query between concurrent callers. The shared
// query is detached from any single caller's cancellation.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.stats.DoChan("stats", func() (any, error) {
		return s.store.Stats(shared)
	})
	select {
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Stats{}, res.Err
		}
		return res.Val.(Stats), nil
	}
}

func (s *Service) FilterValues(ctx context.Context, category string) ([]string, error) {
	field, ok := categoryFields[category]
	if !ok {
		return nil, validation.Field("category", "must be one of "+strings.Join(Categories, ", "))
	}
	return s.store.Distinct(ctx, field)
}

// Deactivate forces the status to INACTIVE.
func (s *Service) Deactivate(ctx context.Context, id string) (Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Employee{}, ErrNotFound
	}
	emp, err := s.store.Update(ctx, id, StatusChange(StatusInactive))
	if err != nil {
		return Employee{}, err
	}
	s.logger.Info("employee deactivated", "employee_id", id)
	return emp, nil
}

func (s *Service) FinalSettlement(ctx context.Context, id string) (Settlement, error) {
	emp, err := s.Get(ctx, id)
	if err != nil {
		return Settlement{}, err
	}
	return s.rates.For(emp), nil
}

func (s *Service) SetPhoto(ctx context.Context, id, ref string) (Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Employee{}, ErrNotFound
	}
	return s.store.Update(ctx, id, PhotoChange(ref))
}

// Upsert creates or patches the record keyed by employee_code. The boolean is
// true when a new record was created.
func (s *Service) Upsert(ctx context.Context, p Patch) (Employee, bool, error) {
	code := p.Get(FieldEmployeeCode)
	if code == "" {
		return Employee{}, false, validation.Field(FieldEmployeeCode, "is required")
	}
	current, err := s.store.GetByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		created, createErr := s.Create(ctx, p)
		if !errors.Is(createErr, ErrDuplicateCode) {
			return created, createErr == nil, createErr
		}
		// Lost a race with a concurrent insert of the same code.
		current, err = s.store.GetByCode(ctx, code)
	}
	if err != nil {
		return Employee{}, false, err
	}
	updated, err := s.update(ctx, current, modePatch, p)
	return updated, false, err
}

// Records returns the rows of an export: every record, or the given subset.
func (s *Service) Records(ctx context.Context, ids []string) ([]Employee, error) {
	if len(ids) == 0 {
		return s.store.List(ctx, Query{Sort: SortCodeAsc})
	}
	valid, err := validIDs(ids)
	if err != nil {
		return nil, err
	}
	return s.store.ListByIDs(ctx, valid)
}

// changes validates a payload and turns it into typed values. current is nil
// on create.
func (s *Service) changes(ctx context.Context, mode int, p Patch, current *Employee) (Changes, error) {
	var out Changes
	v := validation.New()

	for _, field := range requiredFields {
		switch {
		case mode == modeCreate, mode == modeReplace && field != FieldEmployeeCode:
			v.Required(field, p.Get(field))
		case p.Has(field) && field != FieldEmployeeCode:
			v.Required(field, p.Get(field))
		}
	}

	for field, limit := range textLimits {
		if !p.Has(field) {
			continue
		}
		value := p.Get(field)
		v.MaxLen(field, value, limit)
		if field == FieldEmployeeCode && current != nil {
			if value != "" && value != current.EmployeeCode {
				v.Add(field, "cannot be changed")
			}
			continue
		}
		if field == FieldEmail {
			v.Email(field, value)
		}
		out.set(field, value)
	}

	for field, allowed := range enumFields {
		if !p.Has(field) {
			continue
		}
		value := p.Get(field)
		if field == FieldStatus && value == "" {
			if current != nil {
				v.Add(field, "is required")
			}
			continue
		}
		v.Enum(field, value, allowed)
		out.set(field, value)
	}
	if current == nil && !out.Has(FieldStatus) {
		out.set(FieldStatus, StatusActive)
	}

	for _, field := range []string{FieldDateOfJoining, FieldDateOfBirth} {
		if !p.Has(field) {
			continue
		}
		parsed, ok := v.Date(field, p.Get(field))
		if !ok {
			continue
		}
		if parsed.IsZero() {
			out.set(field, nilTime)
			continue
		}
		out.set(field, &parsed)
	}

	for _, field := range compensationFields {
		if !p.Has(field) {
			continue
		}
		if amount, ok := v.Amount(field, p.Get(field)); ok {
			out.set(field, amount)
		}
	}

	if err := s.manager(ctx, p, current, v, &out); err != nil {
		return Changes{}, err
	}
	if err := v.Err(); err != nil {
		return Changes{}, err
	}
	return out, nil
}

// manager resolves the reporting manager reference when the payload carries
// one. The code reference wins over the name.
func (s *Service) manager(ctx context.Context, p Patch, current *Employee, v *validation.Validator, out *Changes) error {
	var (
		found *Employee
		err   error
	)
	code := p.Get(FieldReportingManagerCode)
	switch {
	case code != "":
		found, err = s.resolver.ResolveCode(ctx, code)
	case p.Has(FieldReportingManager):
		found, err = s.resolver.Resolve(ctx, p.Get(FieldReportingManager))
	case p.Has(FieldReportingManagerCode):
	default:
		return nil
	}

	var ambiguous *AmbiguousManagerError
	switch {
	case errors.Is(err, ErrManagerNotFound):
		v.Add(FieldReportingManager, "does not match any employee")
		return nil
	case errors.As(err, &ambiguous):
		v.Add(FieldReportingManager, "matches several employees ("+strings.Join(ambiguous.Codes, ", ")+"); use reporting_manager_code")
		return nil
	case err != nil:
		return err
	}

	if found == nil {
		out.set(FieldReportingManager, nilID)
		return nil
	}
	if current != nil && found.ID == current.ID {
		v.Add(FieldReportingManager, "cannot be the employee themselves")
		return nil
	}
	id := found.ID
	out.set(FieldReportingManager, &id)
	return nil
}

var (
	nilTime = (*time.Time)(nil)
	nilID   = (*string)(nil)
)

// Project renders one section of a record as a flat map.
func Project(emp Employee, section string) (map[string]any, error) {
	fields := SectionFields(section)
	if fields == nil {
		return nil, ErrUnknownSection
	}
	data, err := json.Marshal(emp)
	if err != nil {
		return nil, err
	}
	all := map[string]any{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	out := map[string]any{
		"id":              emp.ID,
		FieldEmployeeCode: emp.EmployeeCode,
	}
	for _, field := range fields {
		if value, ok := all[field]; ok {
			out[field] = value
		}
	}
	if section == SectionJob {
		out["reporting_manager_name"] = emp.ReportingManagerName
	}
	return out, nil
}
