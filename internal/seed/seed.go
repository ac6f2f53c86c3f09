// Package seed loads initial contacts and events from a YAML fixture file.
// Seeding is optional and best-effort; a missing path simply starts empty.
package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/obessu/eventflow/internal/model"
	"github.com/obessu/eventflow/internal/repo"
)

// File is the top-level fixture document.
type File struct {
	Contacts []model.Contact `yaml:"contacts"`
	Events   []seedEvent     `yaml:"events"`
}

// seedEvent mirrors model.Event but lets fixtures omit id and createdAt.
type seedEvent struct {
	ID           string                  `yaml:"id"`
	CreatedAt    time.Time               `yaml:"createdAt"`
	OriginalText string                  `yaml:"originalText"`
	Analysis     model.AnalysisResult    `yaml:"analysis"`
	Contact      model.ContactAssignment `yaml:"contact"`
	FollowUp     model.FollowUpState     `yaml:"followUp"`
}

// Load parses the fixture file at path and inserts its contacts and events
// into the stores. Events are inserted in file order, so the first fixture
// ends up last in the store's newest-first ordering, matching how they
// would have arrived.
func Load(path string, events *repo.EventStore, contacts *repo.ContactStore) (int, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return 0, 0, fmt.Errorf("parse seed file: %w", err)
	}

	for i := range f.Contacts {
		c := f.Contacts[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		contacts.Add(&c)
	}

	for _, se := range f.Events {
		ev := &model.Event{
			ID:           se.ID,
			CreatedAt:    se.CreatedAt,
			OriginalText: se.OriginalText,
			Analysis:     se.Analysis,
			Contact:      se.Contact,
			FollowUp:     se.FollowUp,
		}
		if ev.ID == "" {
			ev.ID = uuid.New().String()
		}
		if ev.CreatedAt.IsZero() {
			ev.CreatedAt = time.Now()
		}
		if ev.Analysis.LinkedActivities == nil {
			ev.Analysis.LinkedActivities = []string{}
		}
		events.Add(ev)
	}

	return len(f.Events), len(f.Contacts), nil
}
