// Package memstore keeps offboardings in memory for tests and dry runs.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrms/internal/domain/offboarding"
)

type Store struct {
	mu    sync.Mutex
	byEmp map[string]offboarding.Offboarding
	items map[string]offboarding.ChecklistItem
}

func New() *Store {
	return &Store{
		byEmp: map[string]offboarding.Offboarding{},
		items: map[string]offboarding.ChecklistItem{},
	}
}

func (s *Store) Create(_ context.Context, off offboarding.Offboarding, checklist map[string]string) (offboarding.Offboarding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmp[off.EmployeeID]; ok {
		return offboarding.Offboarding{}, offboarding.ErrExists
	}
	off.ID = uuid.NewString()
	off.CreatedAt = time.Now().UTC()
	off.Checklist = nil
	s.byEmp[off.EmployeeID] = off
	s.replace(off.ID, checklist)
	return s.load(off), nil
}

func (s *Store) load(off offboarding.Offboarding) offboarding.Offboarding {
	off.Checklist = s.list(off.ID)
	return off
}

func (s *Store) list(offboardingID string) []offboarding.ChecklistItem {
	out := []offboarding.ChecklistItem{}
	for _, name := range offboarding.Items {
		for _, item := range s.items {
			if item.OffboardingID == offboardingID && item.Item == name {
				out = append(out, item)
			}
		}
	}
	return out
}

func (s *Store) replace(offboardingID string, checklist map[string]string) {
	for id, item := range s.items {
		if item.OffboardingID == offboardingID {
			delete(s.items, id)
		}
	}
	now := time.Now().UTC()
	for _, name := range offboarding.Items {
		status, ok := checklist[name]
		if !ok {
			continue
		}
		id := uuid.NewString()
		s.items[id] = offboarding.ChecklistItem{ID: id, OffboardingID: offboardingID, Item: name, Status: status, UpdatedAt: now}
	}
}

func (s *Store) GetByEmployee(_ context.Context, employeeID string) (offboarding.Offboarding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	off, ok := s.byEmp[employeeID]
	if !ok {
		return offboarding.Offboarding{}, offboarding.ErrNotFound
	}
	return s.load(off), nil
}

func (s *Store) ReplaceChecklist(_ context.Context, offboardingID string, checklist map[string]string) ([]offboarding.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(offboardingID, checklist)
	return s.list(offboardingID), nil
}

func (s *Store) GetItem(_ context.Context, itemID string) (offboarding.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return offboarding.ChecklistItem{}, offboarding.ErrItemNotFound
	}
	return item, nil
}

func (s *Store) UpdateItemStatus(_ context.Context, itemID, status string) (offboarding.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return offboarding.ChecklistItem{}, offboarding.ErrItemNotFound
	}
	item.Status = status
	item.UpdatedAt = time.Now().UTC()
	s.items[itemID] = item
	return item, nil
}

// ForgetEmployee mirrors the cascade of an employee delete.
func (s *Store) ForgetEmployee(employeeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	off, ok := s.byEmp[employeeID]
	if !ok {
		return
	}
	delete(s.byEmp, employeeID)
	for id, item := range s.items {
		if item.OffboardingID == off.ID {
			delete(s.items, id)
		}
	}
}

var _ offboarding.StoreAPI = (*Store)(nil)
