// Package store keeps the authoritative in-memory event list. Drag commits
// land here through Update; periodic ICS refreshes go through Replace.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	appLog "weekcal/internal/log"
	"weekcal/internal/model"
)

var ErrNotFound = errors.New("event not found")

// Store is safe for concurrent use. Every read returns copies.
type Store struct {
	mu     sync.RWMutex
	events []model.Event
	index  map[string]int
	// dirty holds ids changed locally since the last refresh or ClearDirty.
	dirty map[string]struct{}
}

func New(events []model.Event) *Store {
	s := &Store{dirty: map[string]struct{}{}}
	s.setLocked(events)
	return s
}

func (s *Store) setLocked(events []model.Event) {
	s.events = append([]model.Event(nil), events...)
	s.index = make(map[string]int, len(s.events))
	for i, ev := range s.events {
		s.index[ev.ID] = i
	}
}

// List returns every event in insertion order.
func (s *Store) List() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Event(nil), s.events...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *Store) Get(id string) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Event{}, ErrNotFound
	}
	return s.events[i], nil
}

// Range returns the events touching [from, to), sorted by start. All-day
// events use their inclusive date range.
func (s *Store) Range(from, to time.Time) []model.Event {
	s.mu.RLock()
	out := make([]model.Event, 0, len(s.events))
	for _, ev := range s.events {
		if touches(ev, from, to) {
			out = append(out, ev)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func touches(ev model.Event, from, to time.Time) bool {
	if ev.AllDay {
		end := model.AddDays(model.StartOfDay(ev.End), 1)
		return model.StartOfDay(ev.Start).Before(to) && end.After(from)
	}
	return ev.Start.Before(to) && ev.End.After(from)
}

// Replace swaps in a freshly fetched list. Events the user changed locally
// keep their local copy; a dirty event missing from the new list is kept.
func (s *Store) Replace(events []model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Event, 0, len(events)+len(s.dirty))
	seen := make(map[string]struct{}, len(events))
	kept := 0
	for _, ev := range events {
		seen[ev.ID] = struct{}{}
		if _, dirty := s.dirty[ev.ID]; dirty {
			if i, ok := s.index[ev.ID]; ok {
				next = append(next, s.events[i])
				kept++
				continue
			}
		}
		next = append(next, ev)
	}
	// Local-only events stay in their previous relative order.
	for _, ev := range s.events {
		if _, ok := seen[ev.ID]; ok {
			continue
		}
		if _, dirty := s.dirty[ev.ID]; dirty {
			next = append(next, ev)
			kept++
		}
	}
	s.setLocked(next)
	appLog.Debug("store replaced", "events", len(next), "local_kept", kept)
}

// Update stores ev under its id and marks it dirty.
func (s *Store) Update(ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[ev.ID]
	if !ok {
		return ErrNotFound
	}
	s.events[i] = ev
	s.dirty[ev.ID] = struct{}{}
	return nil
}

// Add appends ev, assigning a new id when it has none. The stored copy is
// returned.
func (s *Store) Add(ev model.Event) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if i, ok := s.index[ev.ID]; ok {
		s.events[i] = ev
	} else {
		s.index[ev.ID] = len(s.events)
		s.events = append(s.events, ev)
	}
	s.dirty[ev.ID] = struct{}{}
	return ev
}

// Dirty returns the ids changed locally, sorted.
func (s *Store) Dirty() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.dirty))
	for id := range s.dirty {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Store) IsDirty(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.dirty[id]
	return ok
}

// ClearDirty forgets local changes; the next Replace overwrites them.
func (s *Store) ClearDirty() {
	s.mu.Lock()
	s.dirty = map[string]struct{}{}
	s.mu.Unlock()
}
