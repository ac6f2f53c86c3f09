// Package stakeholder groups events by institution for the engagement
// overview.
package stakeholder

import (
	"sort"
	"strings"

	"github.com/obessu/eventflow/internal/listing"
	"github.com/obessu/eventflow/internal/model"
)

// UnknownStakeholder is the fallback group for events whose institution is
// empty after trimming.
const UnknownStakeholder = "Unknown Stakeholder"

type accumulator struct {
	all       []*model.Event
	completed []*model.Event
	themes    []string
	themeSet  map[string]struct{}
	papers    []string
	paperSet  map[string]struct{}
}

// Aggregate groups events by trimmed institution name. Grouping is
// case-sensitive: "Inst" and "inst" are distinct stakeholders. Groups come
// back sorted by descending event count; ties keep first-seen order.
func Aggregate(events []*model.Event) []model.StakeholderGroup {
	groups := make(map[string]*accumulator)
	order := make([]string, 0)

	for _, ev := range events {
		name := strings.TrimSpace(ev.Analysis.Institution)
		if name == "" {
			name = UnknownStakeholder
		}
		acc, ok := groups[name]
		if !ok {
			acc = &accumulator{
				themeSet: make(map[string]struct{}),
				paperSet: make(map[string]struct{}),
			}
			groups[name] = acc
			order = append(order, name)
		}

		acc.all = append(acc.all, ev)
		if _, seen := acc.themeSet[ev.Analysis.Theme]; !seen {
			acc.themeSet[ev.Analysis.Theme] = struct{}{}
			acc.themes = append(acc.themes, ev.Analysis.Theme)
		}
		for _, paper := range ev.Analysis.LinkedActivities {
			if _, seen := acc.paperSet[paper]; !seen {
				acc.paperSet[paper] = struct{}{}
				acc.papers = append(acc.papers, paper)
			}
		}
		if listing.IsCompletedOrArchived(ev.FollowUp.Status) {
			acc.completed = append(acc.completed, ev)
		}
	}

	out := make([]model.StakeholderGroup, 0, len(order))
	for _, name := range order {
		acc := groups[name]
		out = append(out, model.StakeholderGroup{
			Name:            name,
			AllEvents:       acc.all,
			CompletedEvents: acc.completed,
			Themes:          acc.themes,
			Papers:          acc.papers,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].AllEvents) > len(out[j].AllEvents)
	})
	return out
}
