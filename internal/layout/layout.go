// Package layout computes where events sit on the time grid.
//
// Everything here is a pure function of its inputs: the same event list and
// day always produce the same geometry.
package layout

import (
	"sort"
	"time"

	"weekcal/internal/model"
)

const (
	// MinutesPerDay is the height of one day column in minutes.
	MinutesPerDay = 24 * 60

	// RightGap is the percentage of a day column left free on the right so
	// the empty slot stays clickable.
	RightGap = 8.0
	// CascadeOverlap is how many percentage points adjacent columns of an
	// overlap group slide under each other.
	CascadeOverlap = 8.0
)

// Overlaps reports whether the half-open intervals [a.Start, a.End) and
// [b.Start, b.End) intersect.
func Overlaps(a, b model.Event) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// EventsForDay returns the timed events that start on day's date.
func EventsForDay(events []model.Event, day model.Day) []model.Event {
	out := make([]model.Event, 0)
	for _, ev := range events {
		if ev.AllDay {
			continue
		}
		if model.SameDate(ev.Start, day.Date) {
			out = append(out, ev)
		}
	}
	return out
}

// AllDayEventsForDay returns the all-day events whose inclusive date range
// covers day.
func AllDayEventsForDay(events []model.Event, day model.Day) []model.Event {
	out := make([]model.Event, 0)
	dayStart := model.StartOfDay(day.Date)
	for _, ev := range events {
		if !ev.AllDay {
			continue
		}
		if coversDay(ev, dayStart) {
			out = append(out, ev)
		}
	}
	return out
}

func coversDay(ev model.Event, dayStart time.Time) bool {
	if model.SameDate(ev.Start, dayStart) || model.SameDate(ev.End, dayStart) {
		return true
	}
	return !ev.Start.After(dayStart) && !ev.End.Before(dayStart)
}

// sortByStart orders events by start, longer events first on ties. The sort
// is stable so identical intervals keep their input order.
func sortByStart(events []model.Event) []model.Event {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return startsBefore(sorted[i], sorted[j])
	})
	return sorted
}

func startsBefore(a, b model.Event) bool {
	if !a.Start.Equal(b.Start) {
		return a.Start.Before(b.Start)
	}
	return a.Duration() > b.Duration()
}
