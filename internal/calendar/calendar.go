// Package calendar partitions a year into Monday-aligned week buckets and
// merges a filtered, date-sorted event stream into them.
//
// All date math happens on UTC midnights constructed from the raw
// year/month/day components of the YYYY-MM-DD strings. The same components
// feed both the arithmetic and the DateString formatting, so an event's
// analysis date and its day bucket can never disagree by a timezone shift.
package calendar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/obessu/eventflow/internal/model"
)

const maxWeeksPerYear = 53

// PriorityAll and ThemeAll disable the respective filter.
const (
	PriorityAll = "All"
	ThemeAll    = "All"
)

// Options control which weeks and events are assembled.
type Options struct {
	// StartDate and EndDate bound the visible range (inclusive, YYYY-MM-DD).
	// If either fails to parse the result is empty — a bad range must not
	// blank the process, only the view.
	StartDate string
	EndDate   string

	// Priority is a model.Priority literal or PriorityAll.
	Priority string
	// Theme is an exact theme string or ThemeAll.
	Theme string
}

// discriminating reports whether a filter is active that should suppress
// empty weeks.
func (o Options) discriminating() bool {
	return o.Priority != PriorityAll || o.Theme != ThemeAll
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight. The second
// return is false for empty, malformed, or non-existent dates (2026-02-31).
func ParseDate(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year <= 0 {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 31 -> Mar 3); reject those.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// DateString formats a UTC midnight back to YYYY-MM-DD.
func DateString(d time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), int(d.Month()), d.Day())
}

// FirstMonday returns the Monday on or before January 1 of the given year.
// It may fall in the previous calendar year: for 2026 it is 2025-12-29.
func FirstMonday(year int) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	wd := int(jan1.Weekday()) // Sunday == 0
	if wd == 0 {
		wd = 7
	}
	return jan1.AddDate(0, 0, 1-wd)
}

// datedEvent pairs an event with its parsed analysis date.
type datedEvent struct {
	event *model.Event
	date  time.Time
}

// indexEvents filters by priority and theme, parses analysis dates, and
// sorts ascending. Events with missing or unparseable dates are dropped
// silently. The sort is stable: same-day events keep their input order.
// Runs once per filter combination, O(n log n).
func indexEvents(events []*model.Event, priority, theme string) []datedEvent {
	out := make([]datedEvent, 0, len(events))
	for _, ev := range events {
		if priority != PriorityAll && string(ev.Analysis.Priority) != priority {
			continue
		}
		if theme != ThemeAll && ev.Analysis.Theme != theme {
			continue
		}
		d, ok := ParseDate(ev.Analysis.Date)
		if !ok {
			continue
		}
		out = append(out, datedEvent{event: ev, date: d})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].date.Before(out[j].date)
	})
	return out
}

// Assemble produces the week buckets for a year, restricted to the range in
// opts, with events placed into their week and day. The merge is a single
// forward sweep over both the generated weeks and the sorted events —
// O(weeks + events), never O(weeks x events).
func Assemble(events []*model.Event, year int, opts Options) []model.WeekBucket {
	rangeStart, okStart := ParseDate(opts.StartDate)
	rangeEnd, okEnd := ParseDate(opts.EndDate)
	if !okStart || !okEnd {
		return []model.WeekBucket{}
	}

	sorted := indexEvents(events, opts.Priority, opts.Theme)
	suppressEmpty := opts.discriminating()

	firstMonday := FirstMonday(year)
	weeks := make([]model.WeekBucket, 0, maxWeeksPerYear)
	cursor := 0

	for i := 0; i < maxWeeksPerYear; i++ {
		weekStart := firstMonday.AddDate(0, 0, i*7)
		if weekStart.Year() > year {
			break
		}
		weekEnd := weekStart.AddDate(0, 0, 6)

		// Only weeks overlapping [rangeStart, rangeEnd] are considered.
		if weekEnd.Before(rangeStart) || weekStart.After(rangeEnd) {
			continue
		}

		days := make([]model.DayBucket, 7)
		for d := 0; d < 7; d++ {
			dayDate := weekStart.AddDate(0, 0, d)
			days[d] = model.DayBucket{
				Date:       dayDate,
				DateString: DateString(dayDate),
				Events:     []*model.Event{},
			}
		}

		for cursor < len(sorted) && sorted[cursor].date.Before(weekStart) {
			cursor++
		}

		weekEvents := []*model.Event{}
		for cursor < len(sorted) && !sorted[cursor].date.After(weekEnd) {
			de := sorted[cursor]
			weekEvents = append(weekEvents, de.event)

			offset := int(de.date.Sub(weekStart).Hours() / 24)
			if offset < 0 {
				offset = 0
			}
			if offset > 6 {
				offset = 6
			}
			days[offset].Events = append(days[offset].Events, de.event)
			cursor++
		}

		if len(weekEvents) == 0 && suppressEmpty {
			continue
		}

		weeks = append(weeks, model.WeekBucket{
			Number: i + 1,
			Start:  weekStart,
			End:    weekEnd,
			Events: weekEvents,
			Days:   days,
		})
	}
	return weeks
}

// Themes returns the distinct analysis themes in first-seen order, for
// populating the theme filter.
func Themes(events []*model.Event) []string {
	seen := make(map[string]struct{}, len(events))
	out := make([]string, 0, len(events))
	for _, ev := range events {
		t := ev.Analysis.Theme
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
