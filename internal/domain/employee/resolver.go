package employee

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	PolicyFirst  = "first"
	PolicyReject = "reject"
)

// Resolver turns the manager reference of a payload into a stored employee.
type Resolver struct {
	store  StoreAPI
	policy string
}

func NewResolver(store StoreAPI, policy string) *Resolver {
	if policy != PolicyReject {
		policy = PolicyFirst
	}
	return &Resolver{store: store, policy: policy}
}

// SplitName collapses whitespace and splits a full name into the first token
// and the rest.
func SplitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ResolveName finds the employee named by a free-text full name. A blank
// name resolves to nil without touching the store.
func (r *Resolver) ResolveName(ctx context.Context, name string) (*Employee, error) {
	first, last := SplitName(name)
	if first == "" {
		return nil, nil
	}
	matches, err := r.store.FindByName(ctx, first, last)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrManagerNotFound
	}
	if len(matches) > 1 && r.policy == PolicyReject {
		codes := make([]string, 0, len(matches))
		for _, match := range matches {
			codes = append(codes, match.EmployeeCode)
		}
		return nil, &AmbiguousManagerError{Name: strings.Join(strings.Fields(name), " "), Codes: codes}
	}
	return &matches[0], nil
}

// ResolveCode finds the manager by employee_code.
func (r *Resolver) ResolveCode(ctx context.Context, code string) (*Employee, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	emp, err := r.store.GetByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrManagerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// Resolve accepts either a record id, as returned on read, or a full name.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*Employee, error) {
	ref = strings.TrimSpace(ref)
	if _, err := uuid.Parse(ref); err == nil {
		emp, err := r.store.Get(ctx, ref)
		if err == nil {
			return &emp, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return r.ResolveName(ctx, ref)
}
