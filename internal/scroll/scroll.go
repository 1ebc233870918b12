// Package scroll pages the day columns with horizontal wheel input.
//
// Wheel deltas are accumulated into a pixel offset while the user scrolls.
// Once input pauses, the offset snaps to the nearest whole day column: either
// back to zero or to a day boundary followed by a navigation callback. A
// separate slide animation lets programmatic navigation (buttons, keys) play
// the same visual transition without navigating again.
package scroll

import (
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	appLog "weekcal/internal/log"
)

// State is what the presentation layer reads every frame.
type State struct {
	ScrollOffset float64 `json:"scroll_offset"`
	SlideOffset  float64 `json:"slide_offset"`
	IsScrolling  bool    `json:"is_scrolling"`
	IsAnimating  bool    `json:"is_animating"`
}

type Settings struct {
	// Debounce is the quiet period after the last wheel event before the
	// offset snaps.
	Debounce time.Duration
	// Animation is the length of the snap and slide transitions.
	Animation time.Duration
	// Frame separates the slide's start position from its animated move.
	Frame time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		Debounce:  150 * time.Millisecond,
		Animation: 200 * time.Millisecond,
		Frame:     16 * time.Millisecond,
	}
}

type Options struct {
	Clock          clock.Clock
	Settings       Settings
	DayColumnWidth float64
	// OnNavigate receives the day delta after a wheel gesture settles on a
	// new position. Positive moves forward in time.
	OnNavigate func(days int)
	OnChange   func(State)
}

// Coordinator is safe for concurrent use; callbacks run without its lock.
type Coordinator struct {
	mu       sync.Mutex
	opts     Options
	settings Settings
	clock    clock.Clock

	st          State
	accumulated float64
	colWidth    float64
	disabled    bool
	closed      bool

	debounce *clock.Timer
	snapDone *clock.Timer
	frame    *clock.Timer
	slide    *clock.Timer
}

func New(opts Options) *Coordinator {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	s := opts.Settings
	def := DefaultSettings()
	if s.Debounce <= 0 {
		s.Debounce = def.Debounce
	}
	if s.Animation <= 0 {
		s.Animation = def.Animation
	}
	if s.Frame <= 0 {
		s.Frame = def.Frame
	}
	return &Coordinator{
		opts:     opts,
		settings: s,
		clock:    clk,
		colWidth: opts.DayColumnWidth,
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st
}

// SetDisabled stops wheel handling, e.g. while an event drag is active.
func (c *Coordinator) SetDisabled(disabled bool) {
	c.mu.Lock()
	c.disabled = disabled
	c.mu.Unlock()
}

func (c *Coordinator) SetDayColumnWidth(w float64) {
	c.mu.Lock()
	c.colWidth = w
	c.mu.Unlock()
}

// Wheel feeds one wheel event. It returns true when the event was consumed
// (the caller should then suppress the default scroll). Only gestures whose
// horizontal component dominates are consumed.
func (c *Coordinator) Wheel(dx, dy float64) bool {
	c.mu.Lock()
	if c.disabled || c.closed || math.Abs(dx) <= math.Abs(dy) {
		c.mu.Unlock()
		return false
	}

	c.st.IsScrolling = true
	// Scrolling right moves the calendar left, i.e. forward in time.
	c.accumulated += -dx
	c.st.ScrollOffset = c.accumulated

	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = c.clock.AfterFunc(c.settings.Debounce, c.settle)
	notify := c.notifyLocked()
	c.mu.Unlock()

	notify()
	return true
}

// settle snaps the accumulated offset once wheel input has paused.
func (c *Coordinator) settle() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	offset := c.accumulated
	c.accumulated = 0
	c.debounce = nil

	if c.colWidth <= 0 {
		c.st.ScrollOffset = 0
		c.st.IsScrolling = false
		notify := c.notifyLocked()
		c.mu.Unlock()
		notify()
		return
	}

	days := int(math.Round(offset / c.colWidth))
	c.st.IsAnimating = true
	if days == 0 {
		// Less than half a column: spring back.
		c.st.ScrollOffset = 0
		c.snapDone = c.clock.AfterFunc(c.settings.Animation, func() { c.finishSnap(0) })
	} else {
		c.st.ScrollOffset = float64(days) * c.colWidth
		c.snapDone = c.clock.AfterFunc(c.settings.Animation, func() { c.finishSnap(days) })
	}
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()
}

func (c *Coordinator) finishSnap(days int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.st.ScrollOffset = 0
	c.st.IsAnimating = false
	c.st.IsScrolling = false
	c.snapDone = nil
	nav := c.opts.OnNavigate
	notify := c.notifyLocked()
	c.mu.Unlock()

	if days != 0 {
		appLog.Debug("wheel navigation", "days", -days)
		if nav != nil {
			nav(-days)
		}
	}
	notify()
}

// TriggerSlideAnimation plays the transition for a navigation of days that
// the caller has already applied. It never calls OnNavigate and is ignored
// while another scroll or animation is in progress.
func (c *Coordinator) TriggerSlideAnimation(days int) {
	c.mu.Lock()
	if c.closed || c.colWidth <= 0 || c.st.IsAnimating || c.st.IsScrolling {
		c.mu.Unlock()
		return
	}
	c.st.SlideOffset = float64(days) * c.colWidth
	if c.frame != nil {
		c.frame.Stop()
	}
	c.frame = c.clock.AfterFunc(c.settings.Frame, c.startSlide)
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()
}

func (c *Coordinator) startSlide() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.frame = nil
	c.st.IsAnimating = true
	c.st.SlideOffset = 0
	c.slide = c.clock.AfterFunc(c.settings.Animation, c.finishSlide)
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()
}

func (c *Coordinator) finishSlide() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.slide = nil
	c.st.IsAnimating = false
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()
}

// Close stops every pending timer. Further input is ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, t := range []*clock.Timer{c.debounce, c.snapDone, c.frame, c.slide} {
		if t != nil {
			t.Stop()
		}
	}
	c.debounce, c.snapDone, c.frame, c.slide = nil, nil, nil, nil
}

func (c *Coordinator) notifyLocked() func() {
	cb := c.opts.OnChange
	if cb == nil {
		return func() {}
	}
	st := c.st
	return func() { cb(st) }
}
