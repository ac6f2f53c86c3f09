package repo

import (
	"sync"

	"github.com/obessu/eventflow/internal/model"
)

// ContactStore owns the contact directory. Contacts live independently of
// events; the only coupling is the explicit propagation in Update and the
// unassignment in Delete.
type ContactStore struct {
	mu       sync.RWMutex
	contacts []*model.Contact
	byID     map[string]*model.Contact
	events   *EventStore
}

// NewContactStore creates an empty directory bound to the event store it
// propagates into.
func NewContactStore(events *EventStore) *ContactStore {
	return &ContactStore{byID: make(map[string]*model.Contact), events: events}
}

// Add appends a new contact.
func (s *ContactStore) Add(c *model.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := c.Clone()
	s.contacts = append(s.contacts, clone)
	s.byID[c.ID] = clone
}

// Get returns a clone of the contact with the given id.
func (s *ContactStore) Get(id string) (*model.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

// List returns a cloned snapshot of the directory in insertion order.
func (s *ContactStore) List() []*model.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Contact, len(s.contacts))
	for i, c := range s.contacts {
		out[i] = c.Clone()
	}
	return out
}

// Update replaces a contact's fields and propagates the new snapshot
// (name, email, role, organization) to every event assignment referencing
// it. Updating an unknown id inserts the contact instead.
func (s *ContactStore) Update(c *model.Contact) {
	s.mu.Lock()
	existing, ok := s.byID[c.ID]
	if ok {
		*existing = *c
	} else {
		clone := c.Clone()
		s.contacts = append(s.contacts, clone)
		s.byID[c.ID] = clone
	}
	s.mu.Unlock()

	if s.events != nil {
		s.events.propagateContact(c)
	}
}

// Delete removes the contact and unassigns it from every event. Event
// snapshots keep the last-propagated fields: deletion never cascades.
func (s *ContactStore) Delete(id string) error {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, c := range s.contacts {
		if c.ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if s.events != nil {
		s.events.unassignContact(id)
	}
	return nil
}
