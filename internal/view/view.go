// Package view holds the calendar page state that sits between the store and
// the presentation: which days are shown, how big a day column and an hour
// are, and how wheel scrolling, event dragging and button navigation move the
// reference date.
package view

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"weekcal/internal/drag"
	appLog "weekcal/internal/log"
	"weekcal/internal/model"
	"weekcal/internal/scroll"
)

type Mode string

const (
	ModeDay  Mode = "day"
	ModeWeek Mode = "week"
)

// ParseMode accepts "day" or "week" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDay:
		return ModeDay, nil
	case ModeWeek:
		return ModeWeek, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// VisibleDays is the number of day columns the mode shows.
func (m Mode) VisibleDays() int {
	if m == ModeDay {
		return 1
	}
	return 7
}

const (
	DefaultTimeAxisWidth = 64
	DefaultMinHourHeight = 48
	DefaultBufferDays    = 7
	DefaultBufferStep    = 7
	// Day mode keeps a smaller strip.
	DefaultDayBufferDays = 3
	DefaultDayBufferStep = 3
)

type Options struct {
	Mode Mode
	// Date is the first visible day. Week mode aligns it to WeekStart.
	Date      time.Time
	WeekStart time.Weekday

	// BufferDays and BufferStep size the off-screen strip; zero picks the
	// mode's default.
	BufferDays    int
	BufferStep    int
	TimeAxisWidth float64
	MinHourHeight float64

	Clock          clock.Clock
	Viewport       drag.Viewport
	Listener       drag.Listener
	DragSettings   drag.Settings
	ScrollSettings scroll.Settings

	OnEventChange       func(model.Event)
	OnEventClick        func(model.Event)
	OnDateChange        func(time.Time)
	OnVisibleDaysChange func([]time.Time)
	// OnUpdate fires after any state change that affects rendering.
	OnUpdate func()
}

// Geometry is the pixel size of one day column and one hour row.
type Geometry struct {
	DayColumnWidth float64 `json:"day_column_width"`
	HourHeight     float64 `json:"hour_height"`
}

// Frame describes the horizontal strip of buffered day columns.
type Frame struct {
	BufferDays int `json:"buffer_days"`
	TotalDays  int `json:"total_days"`
	// WidthPercent is the strip width relative to the visible area.
	WidthPercent float64 `json:"width_percent"`
	TranslateX   float64 `json:"translate_x"`
	Animating    bool    `json:"animating"`
}

// Calendar coordinates one calendar view. Methods are safe for concurrent
// use; it never holds its own lock while calling into the drag controller or
// the scroll coordinator.
type Calendar struct {
	opts  Options
	clock clock.Clock

	drag   *drag.Controller
	scroll *scroll.Coordinator

	mu       sync.Mutex
	mode     Mode
	date     time.Time
	events   []model.Event
	geo      Geometry
	visStart time.Time
}

func New(opts Options) *Calendar {
	if opts.Mode == "" {
		opts.Mode = ModeWeek
	}
	if opts.TimeAxisWidth <= 0 {
		opts.TimeAxisWidth = DefaultTimeAxisWidth
	}
	if opts.MinHourHeight <= 0 {
		opts.MinHourHeight = DefaultMinHourHeight
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	c := &Calendar{
		opts:  opts,
		clock: clk,
		mode:  opts.Mode,
		geo:   Geometry{HourHeight: opts.MinHourHeight},
	}
	date := opts.Date
	if date.IsZero() {
		date = clk.Now()
	}
	c.date = c.alignLocked(date)
	c.visStart = c.date

	c.drag = drag.New(drag.Options{
		Viewport:       opts.Viewport,
		Listener:       opts.Listener,
		Clock:          clk,
		Settings:       opts.DragSettings,
		TimeAxisWidth:  opts.TimeAxisWidth,
		OnEventChange:  opts.OnEventChange,
		OnEventClick:   opts.OnEventClick,
		OnDragNavigate: c.dragNavigate,
		OnStateChange:  c.dragStateChanged,
	})
	c.scroll = scroll.New(scroll.Options{
		Clock:      clk,
		Settings:   opts.ScrollSettings,
		OnNavigate: c.scrollNavigate,
		OnChange:   c.scrollChanged,
	})
	c.syncDrag()
	return c
}

// Drag exposes the drag controller for pointer input.
func (c *Calendar) Drag() *drag.Controller { return c.drag }

// Scroll exposes the wheel coordinator.
func (c *Calendar) Scroll() *scroll.Coordinator { return c.scroll }

func (c *Calendar) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// CurrentDate is the first visible day, ignoring any scroll in progress.
func (c *Calendar) CurrentDate() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.date
}

func (c *Calendar) Geometry() Geometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geo
}

// Resize recomputes the column width and hour height from the container's
// client size.
func (c *Calendar) Resize(width, height float64) {
	c.mu.Lock()
	visible := c.mode.VisibleDays()
	c.geo = Geometry{
		DayColumnWidth: math.Max(0, width-c.opts.TimeAxisWidth) / float64(visible),
		HourHeight:     math.Max(c.opts.MinHourHeight, height/24),
	}
	colWidth := c.geo.DayColumnWidth
	c.mu.Unlock()

	c.scroll.SetDayColumnWidth(colWidth)
	c.syncDrag()
	c.update()
}

// SetEvents replaces the event list the view renders and drags.
func (c *Calendar) SetEvents(events []model.Event) {
	c.mu.Lock()
	c.events = append([]model.Event(nil), events...)
	c.mu.Unlock()
	c.syncDrag()
	c.update()
}

func (c *Calendar) Events() []model.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Event(nil), c.events...)
}

// TimedEvents returns the events placed on the time grid.
func (c *Calendar) TimedEvents() []model.Event {
	return filter(c.Events(), false)
}

// AllDayEvents returns the events placed in the all-day row.
func (c *Calendar) AllDayEvents() []model.Event {
	return filter(c.Events(), true)
}

func filter(events []model.Event, allDay bool) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev.AllDay == allDay {
			out = append(out, ev)
		}
	}
	return out
}

// Days returns the visible day columns.
func (c *Calendar) Days() []model.Day {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.DaysFrom(c.date, c.mode.VisibleDays(), c.clock.Now())
}

// BufferedDays returns the visible days plus the off-screen buffer on both
// sides. The buffer grows in BufferStep chunks while a wheel scroll pulls
// further columns into view.
func (c *Calendar) BufferedDays() []model.Day {
	st := c.scroll.State()
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := c.bufferLocked(st.ScrollOffset)
	start := model.AddDays(c.date, -buf)
	return model.DaysFrom(start, buf+c.mode.VisibleDays()+buf, c.clock.Now())
}

// Frame returns the strip transform for the current scroll and slide
// offsets.
func (c *Calendar) Frame() Frame {
	st := c.scroll.State()
	c.mu.Lock()
	defer c.mu.Unlock()
	visible := c.mode.VisibleDays()
	buf := c.bufferLocked(st.ScrollOffset)
	total := buf + visible + buf
	return Frame{
		BufferDays:   buf,
		TotalDays:    total,
		WidthPercent: float64(total) / float64(visible) * 100,
		TranslateX:   -(float64(buf) * c.geo.DayColumnWidth) + st.ScrollOffset + st.SlideOffset,
		Animating:    st.IsAnimating,
	}
}

// TranslateX is the strip's horizontal offset in pixels.
func (c *Calendar) TranslateX() float64 {
	return c.Frame().TranslateX
}

func (c *Calendar) bufferLocked(scrollOffset float64) int {
	base, step := c.bufferSizeLocked()
	extra := 0
	if w := c.geo.DayColumnWidth; w > 0 {
		extra = int(math.Ceil(math.Abs(scrollOffset)/w/float64(step))) * step
	}
	return base + extra
}

func (c *Calendar) bufferSizeLocked() (base, step int) {
	base, step = c.opts.BufferDays, c.opts.BufferStep
	defBase, defStep := DefaultBufferDays, DefaultBufferStep
	if c.mode == ModeDay {
		defBase, defStep = DefaultDayBufferDays, DefaultDayBufferStep
	}
	if base <= 0 {
		base = defBase
	}
	if step <= 0 {
		step = defStep
	}
	return base, step
}

// VisibleDates follows the wheel scroll in real time: it is the range the
// user currently sees, not the committed reference date.
func (c *Calendar) VisibleDates() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.Dates(model.DaysFrom(c.visStart, c.mode.VisibleDays(), c.clock.Now()))
}

// Prev moves back one day in day mode and one week in week mode.
func (c *Calendar) Prev() { c.step(-1) }

// Next moves forward one day in day mode and one week in week mode.
func (c *Calendar) Next() { c.step(1) }

func (c *Calendar) step(dir int) {
	c.mu.Lock()
	n := dir
	if c.mode == ModeWeek {
		n = 7 * dir
	}
	date := model.AddDays(c.date, n)
	c.mu.Unlock()
	c.setDate(date, false)
}

// Today jumps to today (day mode) or the week containing today.
func (c *Calendar) Today() {
	c.GoTo(c.clock.Now())
}

// GoTo jumps to date, aligned to the week start in week mode.
func (c *Calendar) GoTo(date time.Time) {
	c.mu.Lock()
	date = c.alignLocked(date)
	c.mu.Unlock()
	c.setDate(date, false)
}

// SwitchMode changes between day and week. Day mode opens on today; week
// mode opens on the week containing the current date. The change is not
// animated.
func (c *Calendar) SwitchMode(m Mode) {
	c.mu.Lock()
	if m == c.mode {
		c.mu.Unlock()
		return
	}
	c.mode = m
	var date time.Time
	if m == ModeDay {
		date = model.StartOfDay(c.clock.Now())
	} else {
		date = model.StartOfWeek(c.date, c.opts.WeekStart)
	}
	c.date = date
	c.visStart = date
	// Column width depends on the visible count; rescale from the old one.
	if w := c.geo.DayColumnWidth; w > 0 {
		if m == ModeDay {
			c.geo.DayColumnWidth = w * 7
		} else {
			c.geo.DayColumnWidth = w / 7
		}
	}
	colWidth := c.geo.DayColumnWidth
	visible := model.Dates(model.DaysFrom(date, m.VisibleDays(), c.clock.Now()))
	c.mu.Unlock()

	appLog.Debug("view mode switched", "mode", string(m), "date", date.Format(time.DateOnly))
	c.scroll.SetDayColumnWidth(colWidth)
	c.syncDrag()
	if cb := c.opts.OnDateChange; cb != nil {
		cb(date)
	}
	if cb := c.opts.OnVisibleDaysChange; cb != nil {
		cb(visible)
	}
	c.update()
}

func (c *Calendar) alignLocked(date time.Time) time.Time {
	if c.mode == ModeWeek {
		return model.StartOfWeek(date, c.opts.WeekStart)
	}
	return model.StartOfDay(date)
}

// setDate applies a new reference date. Changes that did not come from a
// wheel gesture play the slide animation for the day difference.
func (c *Calendar) setDate(date time.Time, fromScroll bool) {
	c.mu.Lock()
	prev := c.date
	c.date = model.StartOfDay(date)
	diff := model.DaysBetween(prev, c.date)
	newDate := c.date
	c.mu.Unlock()

	if diff == 0 {
		return
	}
	appLog.Debug("view date changed", "date", newDate.Format(time.DateOnly), "days", diff, "scroll", fromScroll)
	c.syncDrag()
	if cb := c.opts.OnDateChange; cb != nil {
		cb(newDate)
	}
	if !fromScroll {
		c.scroll.TriggerSlideAnimation(diff)
	}
	c.reportVisible()
	c.update()
}

func (c *Calendar) scrollNavigate(days int) {
	c.mu.Lock()
	date := model.AddDays(c.date, days)
	c.mu.Unlock()
	c.setDate(date, true)
}

func (c *Calendar) dragNavigate(days int) {
	c.mu.Lock()
	date := model.AddDays(c.date, days)
	c.mu.Unlock()
	c.setDate(date, false)
}

func (c *Calendar) dragStateChanged(state model.DragState, active bool) {
	c.scroll.SetDisabled(active && state.IsDragging)
	c.update()
}

func (c *Calendar) scrollChanged(scroll.State) {
	c.reportVisible()
	c.update()
}

// reportVisible recomputes the on-screen range from the scroll offset and
// reports it when it crossed a day boundary.
func (c *Calendar) reportVisible() {
	st := c.scroll.State()
	c.mu.Lock()
	delta := 0
	if w := c.geo.DayColumnWidth; w > 0 {
		delta = int(math.Round(-st.ScrollOffset / w))
	}
	start := model.AddDays(c.date, delta)
	if start.Equal(c.visStart) {
		c.mu.Unlock()
		return
	}
	c.visStart = start
	visible := model.Dates(model.DaysFrom(start, c.mode.VisibleDays(), c.clock.Now()))
	c.mu.Unlock()

	if cb := c.opts.OnVisibleDaysChange; cb != nil {
		cb(visible)
	}
}

// syncDrag pushes the current geometry, events and visible days to the drag
// controller.
func (c *Calendar) syncDrag() {
	c.mu.Lock()
	in := drag.Inputs{
		HourHeight:     c.geo.HourHeight,
		DayColumnWidth: c.geo.DayColumnWidth,
		Events:         filter(c.events, false),
		Days:           model.Dates(model.DaysFrom(c.date, c.mode.VisibleDays(), c.clock.Now())),
	}
	c.mu.Unlock()
	c.drag.Sync(in)
}

func (c *Calendar) update() {
	if cb := c.opts.OnUpdate; cb != nil {
		cb()
	}
}

// Close stops the drag and scroll timers.
func (c *Calendar) Close() {
	c.drag.Close()
	c.scroll.Close()
}
