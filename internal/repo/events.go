// Package repo holds the in-memory event and contact repositories. All
// state lives here and nowhere else; calendar, listing, and stakeholder
// projections read snapshots and never write back. Everything is lost on
// restart by design.
package repo

import (
	"errors"
	"sync"

	"github.com/obessu/eventflow/internal/model"
)

// ErrNotFound is returned for lookups of unknown ids.
var ErrNotFound = errors.New("not found")

// EventStore owns the event collection. Newest events come first, matching
// how analyses are prepended as they arrive.
type EventStore struct {
	mu     sync.RWMutex
	events []*model.Event
	byID   map[string]*model.Event
}

// NewEventStore creates an empty store.
func NewEventStore() *EventStore {
	return &EventStore{byID: make(map[string]*model.Event)}
}

// Add prepends a new event.
func (s *EventStore) Add(ev *model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]*model.Event{ev.Clone()}, s.events...)
	s.byID[ev.ID] = s.events[0]
}

// Get returns a clone of the event with the given id.
func (s *EventStore) Get(id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ev.Clone(), nil
}

// List returns a cloned snapshot of all events in store order. Callers may
// mutate the result freely; nothing is shared with the store.
func (s *EventStore) List() []*model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Event, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Clone()
	}
	return out
}

// Len returns the number of stored events.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Update applies a typed partial update to the event with the given id and
// returns a clone of the result.
func (s *EventStore) Update(id string, patch model.EventPatch) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(ev)
	return ev.Clone(), nil
}

// Delete removes the event with the given id.
func (s *EventStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			break
		}
	}
	return nil
}

// PropagateRename rewrites the institution on every event whose institution
// exactly matches oldName. A targeted bulk update, synchronous and total; it
// never merges with a pre-existing group under newName — the next
// aggregation pass does that naturally. Returns the number of rewrites.
func (s *EventStore) PropagateRename(oldName, newName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.events {
		if ev.Analysis.Institution == oldName {
			ev.Analysis.Institution = newName
			n++
		}
	}
	return n
}

// propagateContact syncs the snapshot fields of every assignment that
// references the contact. Called by the contact store under its own lock.
func (s *EventStore) propagateContact(c *model.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.Contact.ContactID == c.ID {
			ev.Contact.Name = c.Name
			ev.Contact.Email = c.Email
			ev.Contact.Role = c.Role
			ev.Contact.Organization = c.Organization
		}
	}
}

// unassignContact clears the directory back-reference on every assignment
// that references the contact, leaving the snapshot fields intact.
func (s *EventStore) unassignContact(contactID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.Contact.ContactID == contactID {
			ev.Contact.ContactID = ""
		}
	}
}
