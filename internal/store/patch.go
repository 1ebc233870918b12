package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"weekcal/internal/model"
)

var (
	// ErrEmptyPatch is returned for a patch that sets no field.
	ErrEmptyPatch = errors.New("patch sets no field")
	// ErrInvalidPatch wraps every rule a patched event breaks.
	ErrInvalidPatch = errors.New("invalid event change")
)

// Patch is a partial edit of one event. Nil fields are left alone. A Start
// without an End moves the event and keeps its duration.
type Patch struct {
	Start      *time.Time   `json:"start,omitempty"`
	End        *time.Time   `json:"end,omitempty"`
	Color      *model.Color `json:"color,omitempty"`
	CalendarID *string      `json:"calendar_id,omitempty"`
}

func (p Patch) empty() bool {
	return p.Start == nil && p.End == nil && p.Color == nil && p.CalendarID == nil
}

// Apply returns ev with p applied, times converted to loc. Timed events must
// keep start < end on one date (an end at the next midnight counts as the
// same day); all-day events are truncated to midnight and may not end
// before they start.
func (p Patch) Apply(ev model.Event, loc *time.Location) (model.Event, error) {
	if p.empty() {
		return ev, ErrEmptyPatch
	}
	if loc == nil {
		loc = time.Local
	}

	if p.Start != nil || p.End != nil {
		start, end := ev.Start, ev.End
		switch {
		case p.Start != nil && p.End != nil:
			start, end = *p.Start, *p.End
		case p.Start != nil:
			start = *p.Start
			end = start.Add(ev.End.Sub(ev.Start))
		default:
			end = *p.End
		}
		if start.IsZero() || end.IsZero() {
			return ev, fmt.Errorf("%w: start and end must be set", ErrInvalidPatch)
		}
		start, end = start.In(loc), end.In(loc)

		if ev.AllDay {
			start, end = model.StartOfDay(start), model.StartOfDay(end)
			if end.Before(start) {
				return ev, fmt.Errorf("%w: end is before start", ErrInvalidPatch)
			}
		} else {
			if !end.After(start) {
				return ev, fmt.Errorf("%w: end must be after start", ErrInvalidPatch)
			}
			if !model.SameDate(start, end) && !end.Equal(model.AddDays(model.StartOfDay(start), 1)) {
				return ev, fmt.Errorf("%w: timed events must stay within one day", ErrInvalidPatch)
			}
		}
		ev.Start, ev.End = start, end
	}

	if p.Color != nil {
		c := model.Color(strings.ToLower(string(*p.Color)))
		if !c.Valid() {
			return ev, fmt.Errorf("%w: unknown color %q", ErrInvalidPatch, *p.Color)
		}
		ev.Color = c
	}
	if p.CalendarID != nil {
		id := strings.TrimSpace(*p.CalendarID)
		if id == "" {
			return ev, fmt.Errorf("%w: calendar_id is empty", ErrInvalidPatch)
		}
		ev.CalendarID = id
	}
	return ev, nil
}

// Patch applies p to the stored event id and marks it dirty. The store is
// unchanged when the patch is rejected.
func (s *Store) Patch(id string, p Patch, loc *time.Location) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return model.Event{}, ErrNotFound
	}
	ev, err := p.Apply(s.events[i], loc)
	if err != nil {
		return model.Event{}, err
	}
	s.events[i] = ev
	s.dirty[id] = struct{}{}
	return ev, nil
}
