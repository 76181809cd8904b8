package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Trail used by tests and the CLI.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(_ context.Context, entry Entry) error {
	before, err := encode(entry.Before)
	if err != nil {
		return err
	}
	after, err := encode(entry.After)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{
		ID:         uuid.NewString(),
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		RequestID:  entry.RequestID,
		IP:         entry.IP,
		CreatedAt:  time.Now().UTC(),
		Before:     json.RawMessage(before),
		After:      json.RawMessage(after),
	})
	return nil
}

func (m *Memory) matching(filter Filter) []Event {
	out := []Event{}
	for i := len(m.events) - 1; i >= 0; i-- {
		evt := m.events[i]
		if (filter.Action == "" || evt.Action == filter.Action) &&
			(filter.EntityType == "" || evt.EntityType == filter.EntityType) &&
			(filter.EntityID == "" || evt.EntityID == filter.EntityID) &&
			(filter.ActorUser == "" || evt.ActorID == filter.ActorUser) {
			out = append(out, evt)
		}
	}
	return out
}

func (m *Memory) Count(_ context.Context, filter Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(filter)), nil
}

func (m *Memory) List(_ context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := m.matching(filter)
	if offset >= len(events) {
		return []Event{}, nil
	}
	events = events[offset:]
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	if !includeDetails {
		for i := range events {
			events[i].Before = nil
			events[i].After = nil
		}
	}
	return events, nil
}

var (
	_ Trail = (*Memory)(nil)
	_ Trail = (*Service)(nil)
)
