// Package memstore keeps document rows in memory for tests and dry runs.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrms/internal/domain/documents"
)

type Store struct {
	mu   sync.Mutex
	rows map[[2]string]documents.Document
}

func New() *Store {
	return &Store{rows: map[[2]string]documents.Document{}}
}

func (s *Store) Upsert(_ context.Context, doc documents.Document) (documents.Document, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]string{doc.EmployeeID, doc.DocumentType}
	previous := ""
	doc.ID = uuid.NewString()
	if existing, ok := s.rows[key]; ok {
		previous = existing.StorageKey
		doc.ID = existing.ID
	}
	doc.UploadedAt = time.Now().UTC()
	s.rows[key] = doc
	return doc, previous, nil
}

func (s *Store) List(_ context.Context, employeeID string) ([]documents.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []documents.Document{}
	for key, doc := range s.rows {
		if key[0] == employeeID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentType < out[j].DocumentType })
	return out, nil
}

func (s *Store) Get(_ context.Context, employeeID, documentType string) (documents.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.rows[[2]string{employeeID, documentType}]
	if !ok {
		return documents.Document{}, documents.ErrNotFound
	}
	return doc, nil
}

func (s *Store) StorageKeys(_ context.Context, employeeIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := map[string]bool{}
	for _, id := range employeeIDs {
		wanted[id] = true
	}
	keys := []string{}
	for key, doc := range s.rows {
		if wanted[key[0]] {
			keys = append(keys, doc.StorageKey)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// ForgetEmployees mirrors the cascade of an employee delete.
func (s *Store) ForgetEmployees(employeeIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range employeeIDs {
		for key := range s.rows {
			if key[0] == id {
				delete(s.rows, key)
			}
		}
	}
}

var _ documents.StoreAPI = (*Store)(nil)
