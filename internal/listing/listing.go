// Package listing implements textual search and workflow-stage partitioning
// for the event list views.
package listing

import (
	"strings"

	"github.com/obessu/eventflow/internal/model"
)

// View modes understood by Filter. Any other value applies no status filter.
const (
	ViewUpcoming = "upcoming"
	ViewPast     = "past"
)

// IsCompletedOrArchived classifies a workflow stage as done-or-dismissed:
// any "Completed..." stage, or the exact "Not Relevant" literal.
func IsCompletedOrArchived(status model.Status) bool {
	return strings.HasPrefix(string(status), "Completed") || status == model.StatusNotRelevant
}

// entry caches the lowercase search keys for one event. Lower-casing once
// per collection instead of once per keystroke is the whole point of this
// index; see BenchmarkFilter.
type entry struct {
	event            *model.Event
	lowerName        string
	lowerInstitution string
}

// Index is a search index over an event collection. Build it once per
// collection snapshot and reuse it across filter calls.
type Index struct {
	entries []entry
}

// NewIndex precomputes the lowercase comparison keys for events.
func NewIndex(events []*model.Event) *Index {
	entries := make([]entry, len(events))
	for i, ev := range events {
		entries[i] = entry{
			event:            ev,
			lowerName:        strings.ToLower(ev.Analysis.EventName),
			lowerInstitution: strings.ToLower(ev.Analysis.Institution),
		}
	}
	return &Index{entries: entries}
}

// Filter returns the events matching term (case-insensitive substring of
// event name or institution; empty term matches everything) and the view
// mode's status predicate, in input order.
func (ix *Index) Filter(term, view string) []*model.Event {
	lowerTerm := strings.ToLower(term)
	out := make([]*model.Event, 0, len(ix.entries))
	for _, en := range ix.entries {
		if lowerTerm != "" &&
			!strings.Contains(en.lowerName, lowerTerm) &&
			!strings.Contains(en.lowerInstitution, lowerTerm) {
			continue
		}
		switch view {
		case ViewUpcoming:
			if IsCompletedOrArchived(en.event.FollowUp.Status) {
				continue
			}
		case ViewPast:
			if !IsCompletedOrArchived(en.event.FollowUp.Status) {
				continue
			}
		}
		out = append(out, en.event)
	}
	return out
}
