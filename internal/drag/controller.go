// Package drag turns raw pointer input over a time grid into snapped event
// moves.
//
// A Controller owns at most one drag at a time. A press on an event arms it;
// travel past Settings.Threshold starts dragging; release either commits the
// new time range through OnEventChange or, if the threshold was never
// crossed, ends as a plain click. While dragging, two timers may run: edge
// navigation (pages the view when the pointer rests near the grid's left or
// right edge) and auto-scroll (scrolls the container when the pointer nears
// its top or bottom). Both are stopped together whenever the drag ends.
//
// All methods are safe for concurrent use. Callbacks are invoked without the
// controller lock held, so they may call back into the controller.
package drag

import (
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	appLog "weekcal/internal/log"
	"weekcal/internal/model"
)

// Options wires a Controller to its container and owner.
type Options struct {
	Viewport Viewport
	// Listener is optional. Without it the caller forwards PointerMove and
	// PointerUp itself.
	Listener Listener
	// Clock drives the edge navigation and auto-scroll timers. Defaults to
	// the wall clock.
	Clock    clock.Clock
	Settings Settings
	// TimeAxisWidth is the width of the hour labels left of the first day
	// column, inside the container.
	TimeAxisWidth float64

	OnEventChange  func(model.Event)
	OnEventClick   func(model.Event)
	OnDragNavigate func(days int)
	// OnStateChange receives every new snapshot; active is false once the
	// interaction is over.
	OnStateChange func(state model.DragState, active bool)
}

// Inputs are the per-render values the controller reads while dragging.
type Inputs struct {
	HourHeight     float64
	DayColumnWidth float64
	// Events is the live event list used to resolve the committed event.
	Events []model.Event
	// Days are the midnights of the visible day columns, left to right.
	Days []time.Time
}

type session struct {
	id       uint64
	event    model.Event
	origin   Point
	grab     Point
	dragging bool
	duration time.Duration
	release  func()

	edgeDir   int
	edgeTimer *clock.Timer

	scrollSpeed  float64
	scrollTicker *clock.Ticker
	scrollStop   chan struct{}
}

// Controller is the drag state machine. The zero value is not usable; use
// New.
type Controller struct {
	mu       sync.Mutex
	opts     Options
	settings Settings
	clock    clock.Clock
	in       Inputs

	seq    uint64
	active *session
	state  model.DragState
	closed bool
}

// New returns an idle Controller.
func New(opts Options) *Controller {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Controller{
		opts:     opts,
		settings: opts.Settings.normalize(),
		clock:    clk,
	}
}

// Sync replaces the per-render inputs.
func (c *Controller) Sync(in Inputs) {
	c.mu.Lock()
	c.in = in
	c.mu.Unlock()
}

// State returns the current snapshot and whether an interaction is active.
func (c *Controller) State() (model.DragState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return model.DragState{}, false
	}
	return c.state, true
}

// Dragging reports whether the active interaction has crossed the
// threshold.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil && c.active.dragging
}

// PointerDown arms a drag for ev. p is the pointer position and target the
// client rect of the event's rendered box. Only the primary button (0)
// starts an interaction. The click callback fires immediately.
func (c *Controller) PointerDown(ev model.Event, p Point, target Rect, button int) {
	if button != 0 {
		return
	}

	var fx effects
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	// A press while another drag is still live tears that one down first.
	fx = c.endLocked(fx)
	if cb := c.opts.OnEventClick; cb != nil {
		fx.add(func() { cb(ev) })
	}

	if c.opts.Viewport == nil {
		c.mu.Unlock()
		fx.run()
		return
	}
	if _, ok := c.opts.Viewport.Bounds(); !ok {
		c.mu.Unlock()
		fx.run()
		return
	}

	c.seq++
	s := &session{
		id:       c.seq,
		event:    ev,
		origin:   p,
		grab:     Point{X: p.X - target.Left, Y: p.Y - target.Top},
		duration: ev.End.Sub(ev.Start),
	}
	c.active = s
	c.state = model.DragState{
		EventID:       ev.ID,
		Event:         ev,
		OriginalStart: ev.Start,
		OriginalEnd:   ev.End,
		CurrentStart:  ev.Start,
		CurrentEnd:    ev.End,
		CurrentDate:   ev.Start,
	}
	fx = c.notifyLocked(fx)
	if c.opts.Listener != nil {
		s.release = c.opts.Listener.Listen(c)
	}
	c.mu.Unlock()

	appLog.Debug("drag armed", "event_id", ev.ID)
	fx.run()
}

// PointerMove advances the active interaction. It is a no-op when idle or
// while the container is unavailable.
func (c *Controller) PointerMove(p Point) {
	var fx effects
	c.mu.Lock()
	s := c.active
	if s == nil {
		c.mu.Unlock()
		return
	}

	if !s.dragging {
		dx := math.Abs(p.X - s.origin.X)
		dy := math.Abs(p.Y - s.origin.Y)
		if dx < c.settings.Threshold && dy < c.settings.Threshold {
			c.mu.Unlock()
			return
		}
		s.dragging = true
		appLog.Debug("drag started", "event_id", s.event.ID)
	}

	fx = c.trackLocked(s, p, fx)
	c.mu.Unlock()
	fx.run()
}

// trackLocked recomputes the candidate range and drives the edge timers.
func (c *Controller) trackLocked(s *session, p Point, fx effects) effects {
	vp := c.opts.Viewport
	if vp == nil {
		return fx
	}
	rect, ok := vp.Bounds()
	if !ok {
		return fx
	}
	days := c.in.Days
	if len(days) == 0 || c.in.HourHeight <= 0 {
		return fx
	}

	absY := p.Y - rect.Top + vp.ScrollTop() - s.grab.Y
	absX := p.X - rect.Left - s.grab.X

	durMinutes := s.duration.Minutes()
	raw := absY / c.in.HourHeight * 60
	startMinutes := clampStart(snapMinutes(raw, c.settings.Snap), durMinutes)

	colWidth := c.in.DayColumnWidth
	gridLeft := rect.Left + c.opts.TimeAxisWidth
	cursorInGrid := p.X - gridLeft
	col := 0
	if colWidth > 0 {
		col = clampInt(int(math.Floor(cursorInGrid/colWidth)), 0, len(days)-1)
	}
	target := days[col]

	start := atMinutes(target, startMinutes)
	c.state.CurrentStart = start
	c.state.CurrentEnd = start.Add(s.duration)
	c.state.CurrentDate = target
	c.state.IsDragging = true
	c.state.CursorX = absX
	c.state.CursorY = absY
	c.state.ClientX = p.X - s.grab.X
	c.state.ClientY = p.Y - s.grab.Y
	fx = c.notifyLocked(fx)

	// Without a measured column width there is no grid to have edges.
	gridWidth := colWidth * float64(len(days))
	switch {
	case colWidth <= 0:
		c.cancelEdgeLocked(s)
	case cursorInGrid < c.settings.EdgeZone:
		c.scheduleEdgeLocked(s, -c.settings.NavStep)
	case cursorInGrid > gridWidth-c.settings.EdgeZone:
		c.scheduleEdgeLocked(s, c.settings.NavStep)
	default:
		c.cancelEdgeLocked(s)
	}

	yInContainer := p.Y - rect.Top
	zone := c.settings.ScrollZone
	switch {
	case yInContainer < zone:
		s.scrollSpeed = -scrollSpeed(yInContainer, zone, c.settings.MaxScrollSpeed)
		c.startScrollLocked(s)
	case yInContainer > rect.Height-zone:
		s.scrollSpeed = scrollSpeed(rect.Height-yInContainer, zone, c.settings.MaxScrollSpeed)
		c.startScrollLocked(s)
	default:
		c.stopScrollLocked(s)
	}
	return fx
}

// PointerUp ends the active interaction. A drag commits its current range
// against the live copy of the event; a press that never crossed the
// threshold ends without a change.
func (c *Controller) PointerUp() {
	var fx effects
	c.mu.Lock()
	s := c.active
	if s == nil {
		c.mu.Unlock()
		return
	}
	final := c.state
	fx = c.endLocked(fx)

	if s.dragging {
		live, found := findEvent(c.in.Events, s.event.ID)
		switch {
		case !found:
			appLog.Debug("drag commit skipped; event gone", "event_id", s.event.ID)
		case c.opts.OnEventChange != nil:
			live.Start = final.CurrentStart
			live.End = final.CurrentEnd
			cb := c.opts.OnEventChange
			fx.add(func() { cb(live) })
			appLog.Debug("drag committed", "event_id", live.ID, "start", live.Start.Format(time.RFC3339))
		}
	}
	c.mu.Unlock()
	fx.run()
}

// Close tears the controller down: the active drag is dropped without a
// commit, its timers stop and its listeners are released. Later presses are
// ignored.
func (c *Controller) Close() {
	var fx effects
	c.mu.Lock()
	c.closed = true
	fx = c.endLocked(fx)
	c.mu.Unlock()
	fx.run()
}

// endLocked releases everything the active session holds and returns to
// idle.
func (c *Controller) endLocked(fx effects) effects {
	s := c.active
	if s == nil {
		return fx
	}
	c.cancelEdgeLocked(s)
	c.stopScrollLocked(s)
	if s.release != nil {
		s.release()
		s.release = nil
	}
	c.active = nil
	c.state = model.DragState{}
	return c.notifyLocked(fx)
}

func (c *Controller) notifyLocked(fx effects) effects {
	cb := c.opts.OnStateChange
	if cb == nil {
		return fx
	}
	snapshot, active := c.state, c.active != nil
	fx.add(func() { cb(snapshot, active) })
	return fx
}

func (c *Controller) scheduleEdgeLocked(s *session, dir int) {
	if s.edgeDir == dir {
		return
	}
	c.cancelEdgeLocked(s)
	s.edgeDir = dir
	id := s.id
	s.edgeTimer = c.clock.AfterFunc(c.settings.EdgeDelay, func() { c.fireEdge(id, dir) })
}

func (c *Controller) cancelEdgeLocked(s *session) {
	if s.edgeTimer != nil {
		s.edgeTimer.Stop()
		s.edgeTimer = nil
	}
	s.edgeDir = 0
}

// fireEdge pages the view and re-arms the repeat timer, provided the drag
// that scheduled it is still active and still aimed the same way.
func (c *Controller) fireEdge(id uint64, dir int) {
	c.mu.Lock()
	s := c.active
	if s == nil || s.id != id || s.edgeDir != dir {
		c.mu.Unlock()
		return
	}
	s.edgeTimer = c.clock.AfterFunc(c.settings.EdgeRepeat, func() { c.fireEdge(id, dir) })
	cb := c.opts.OnDragNavigate
	c.mu.Unlock()

	appLog.Debug("drag edge navigation", "days", dir)
	if cb != nil {
		cb(dir)
	}
}

func (c *Controller) startScrollLocked(s *session) {
	if s.scrollTicker != nil {
		return
	}
	t := c.clock.Ticker(c.settings.Frame)
	stop := make(chan struct{})
	s.scrollTicker = t
	s.scrollStop = stop
	go c.scrollLoop(s.id, t, stop)
}

func (c *Controller) stopScrollLocked(s *session) {
	if s.scrollTicker != nil {
		s.scrollTicker.Stop()
		close(s.scrollStop)
		s.scrollTicker = nil
		s.scrollStop = nil
	}
	s.scrollSpeed = 0
}

func (c *Controller) scrollLoop(id uint64, t *clock.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if !c.scrollFrame(id, t) {
				return
			}
		}
	}
}

// scrollFrame applies one auto-scroll step. It reports false once the loop
// should exit.
func (c *Controller) scrollFrame(id uint64, t *clock.Ticker) bool {
	c.mu.Lock()
	s := c.active
	if s == nil || s.id != id || s.scrollTicker != t {
		c.mu.Unlock()
		return false
	}
	vp := c.opts.Viewport
	if vp == nil || s.scrollSpeed == 0 {
		c.stopScrollLocked(s)
		c.mu.Unlock()
		return false
	}
	if _, ok := vp.Bounds(); !ok {
		c.stopScrollLocked(s)
		c.mu.Unlock()
		return false
	}
	speed := s.scrollSpeed
	c.mu.Unlock()

	vp.ScrollBy(speed)
	return true
}

func findEvent(events []model.Event, id string) (model.Event, bool) {
	for _, ev := range events {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.Event{}, false
}

// effects collects callbacks to run once the lock is released.
type effects []func()

func (fx *effects) add(f func()) { *fx = append(*fx, f) }

func (fx effects) run() {
	for _, f := range fx {
		f()
	}
}
