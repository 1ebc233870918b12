//go:build js && wasm

// Command weekcal-wasm exposes the layout engine, the drag controller and the
// wheel coordinator to a browser page as the global WeekCal object.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"syscall/js"
	"time"

	"weekcal/internal/config"
	"weekcal/internal/drag"
	"weekcal/internal/layout"
	appLog "weekcal/internal/log"
	"weekcal/internal/model"
	"weekcal/internal/store"
	"weekcal/internal/view"
)

// This is the starting point which gets called from JS.
func main() {
	b := &bridge{}
	b.register()

	// tell JS we are ready
	if readyFn := js.Global().Get("onWeekCalReady"); readyFn.Type() == js.TypeFunction {
		readyFn.Invoke()
	}
	select {} // block infinitely
}

// mountOptions is the JSON accepted by WeekCal.mount. Settings is the body
// of GET /api/config/view; Mode and WeekStart override it when set.
type mountOptions struct {
	Mode      string               `json:"mode"`
	Date      string               `json:"date"`
	WeekStart *int                 `json:"week_start,omitempty"`
	Events    []model.Event        `json:"events"`
	Settings  *config.ClientConfig `json:"settings,omitempty"`
}

// viewOptions resolves the config-driven part of view.Options.
func (o mountOptions) viewOptions() view.Options {
	cfg := config.DefaultConfig()
	if o.Settings != nil {
		cfg.ApplyClient(*o.Settings)
	}
	if o.Mode != "" {
		cfg.View.Mode = o.Mode
	}
	cfg.Normalize()
	vo := cfg.ViewOptions()
	if o.WeekStart != nil {
		vo.WeekStart = time.Weekday(((*o.WeekStart % 7) + 7) % 7)
	}
	return vo
}

// snapshot is everything the page needs to render one frame.
type snapshot struct {
	Mode     view.Mode         `json:"mode"`
	Date     time.Time         `json:"date"`
	Header   view.Header       `json:"header"`
	Geometry view.Geometry     `json:"geometry"`
	Frame    view.Frame        `json:"frame"`
	Days     []dayColumn       `json:"days"`
	AllDay   []model.AllDayRow `json:"all_day"`
	Drag     *model.DragState  `json:"drag,omitempty"`
	Dirty    []string          `json:"dirty,omitempty"`
}

type dayColumn struct {
	Day    model.Day               `json:"day"`
	Events []model.PositionedEvent `json:"events"`
}

type bridge struct {
	mu    sync.Mutex
	cal   *view.Calendar
	store *store.Store
	hooks js.Value
}

func (b *bridge) register() {
	js.Global().Set("WeekCal", js.ValueOf(map[string]any{
		"mount":       js.FuncOf(b.mount),
		"unmount":     js.FuncOf(b.unmount),
		"setEvents":   js.FuncOf(b.setEvents),
		"resize":      js.FuncOf(b.resize),
		"snapshot":    js.FuncOf(b.snapshot),
		"next":        js.FuncOf(b.nav(func(c *view.Calendar) { c.Next() })),
		"prev":        js.FuncOf(b.nav(func(c *view.Calendar) { c.Prev() })),
		"today":       js.FuncOf(b.nav(func(c *view.Calendar) { c.Today() })),
		"goTo":        js.FuncOf(b.goTo),
		"switchMode":  js.FuncOf(b.switchMode),
		"wheel":       js.FuncOf(b.wheel),
		"pointerDown": js.FuncOf(b.pointerDown),
		"updateEvent": js.FuncOf(b.updateEvent),
		"layout":      js.FuncOf(layoutFunc),
	}))
}

func (b *bridge) calendar() *view.Calendar {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cal
}

// mount(container, optionsJSON, hooks) attaches a calendar to the scroll
// container element. hooks may hold onUpdate, onEventChange, onEventClick,
// onDateChange and onVisibleDaysChange functions.
func (b *bridge) mount(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return jsError(errors.New("mount: container element is required"))
	}
	var opts mountOptions
	if len(args) > 1 && args[1].Type() == js.TypeString {
		if err := json.Unmarshal([]byte(args[1].String()), &opts); err != nil {
			return jsError(fmt.Errorf("mount: %w", err))
		}
	}
	hooks := js.Undefined()
	if len(args) > 2 {
		hooks = args[2]
	}

	date := time.Now()
	if opts.Date != "" {
		if d, err := time.ParseInLocation(time.DateOnly, opts.Date, time.Local); err == nil {
			date = d
		}
	}

	b.unmount(js.Undefined(), nil)

	st := store.New(opts.Events)
	vp := &domViewport{el: args[0]}
	vo := opts.viewOptions()
	vo.Date = date
	vo.Viewport = vp
	vo.Listener = windowListener{}
	vo.OnEventChange = func(ev model.Event) {
		if err := st.Update(ev); err != nil {
			appLog.Warn("drag commit for unknown event", "id", ev.ID)
			return
		}
		b.calendar().SetEvents(st.List())
		callHook(hooks, "onEventChange", ev)
	}
	vo.OnEventClick = func(ev model.Event) { callHook(hooks, "onEventClick", ev) }
	vo.OnDateChange = func(d time.Time) { callHook(hooks, "onDateChange", d.Format(time.DateOnly)) }
	vo.OnVisibleDaysChange = func(days []time.Time) {
		out := make([]string, len(days))
		for i, d := range days {
			out[i] = d.Format(time.DateOnly)
		}
		callHook(hooks, "onVisibleDaysChange", out)
	}
	vo.OnUpdate = func() {
		if !hooks.Truthy() {
			return
		}
		if fn := hooks.Get("onUpdate"); fn.Type() == js.TypeFunction {
			fn.Invoke()
		}
	}
	cal := view.New(vo)

	b.mu.Lock()
	b.cal, b.store, b.hooks = cal, st, hooks
	b.mu.Unlock()

	cal.SetEvents(st.List())
	if r, ok := vp.Bounds(); ok {
		cal.Resize(r.Width, r.Height)
	}
	return nil
}

func (b *bridge) unmount(js.Value, []js.Value) any {
	b.mu.Lock()
	cal := b.cal
	b.cal, b.store = nil, nil
	b.mu.Unlock()
	if cal != nil {
		cal.Close()
	}
	return nil
}

// setEvents(eventsJSON) replaces the event list, keeping local drag edits.
func (b *bridge) setEvents(_ js.Value, args []js.Value) any {
	b.mu.Lock()
	cal, st := b.cal, b.store
	b.mu.Unlock()
	if cal == nil || len(args) < 1 {
		return nil
	}
	var events []model.Event
	if err := json.Unmarshal([]byte(args[0].String()), &events); err != nil {
		return jsError(fmt.Errorf("setEvents: %w", err))
	}
	st.Replace(events)
	cal.SetEvents(st.List())
	return nil
}

func (b *bridge) resize(_ js.Value, args []js.Value) any {
	if cal := b.calendar(); cal != nil && len(args) >= 2 {
		cal.Resize(args[0].Float(), args[1].Float())
	}
	return nil
}

func (b *bridge) nav(fn func(*view.Calendar)) func(js.Value, []js.Value) any {
	return func(js.Value, []js.Value) any {
		if cal := b.calendar(); cal != nil {
			fn(cal)
		}
		return nil
	}
}

// goTo("2026-03-12")
func (b *bridge) goTo(_ js.Value, args []js.Value) any {
	cal := b.calendar()
	if cal == nil || len(args) < 1 {
		return nil
	}
	d, err := time.ParseInLocation(time.DateOnly, args[0].String(), time.Local)
	if err != nil {
		return jsError(err)
	}
	cal.GoTo(d)
	return nil
}

func (b *bridge) switchMode(_ js.Value, args []js.Value) any {
	cal := b.calendar()
	if cal == nil || len(args) < 1 {
		return nil
	}
	m, err := view.ParseMode(args[0].String())
	if err != nil {
		return jsError(err)
	}
	cal.SwitchMode(m)
	return nil
}

// wheel(deltaX, deltaY) returns true when the page should preventDefault.
func (b *bridge) wheel(_ js.Value, args []js.Value) any {
	cal := b.calendar()
	if cal == nil || len(args) < 2 {
		return false
	}
	return cal.Scroll().Wheel(args[0].Float(), args[1].Float())
}

// pointerDown(eventId, clientX, clientY, targetRect, button) starts a press
// on an event block; targetRect is the block's getBoundingClientRect().
func (b *bridge) pointerDown(_ js.Value, args []js.Value) any {
	cal := b.calendar()
	if cal == nil || len(args) < 5 {
		return nil
	}
	id := args[0].String()
	var ev model.Event
	found := false
	// All-day banners are not draggable.
	for _, e := range cal.TimedEvents() {
		if e.ID == id {
			ev, found = e, true
			break
		}
	}
	if !found {
		return nil
	}
	cal.Drag().PointerDown(ev,
		drag.Point{X: args[1].Float(), Y: args[2].Float()},
		rectOf(args[3]),
		args[4].Int(),
	)
	return nil
}

// updateEvent(id, patchJSON) applies a partial edit such as
// {"color":"green"} or {"calendar_id":"work"}, re-renders and fires
// onEventChange. It returns the updated event as JSON.
func (b *bridge) updateEvent(_ js.Value, args []js.Value) any {
	b.mu.Lock()
	cal, st, hooks := b.cal, b.store, b.hooks
	b.mu.Unlock()
	if cal == nil {
		return jsError(errors.New("updateEvent: calendar is not mounted"))
	}
	if len(args) < 2 {
		return jsError(errors.New("updateEvent: id and patch are required"))
	}
	var patch store.Patch
	if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
		return jsError(fmt.Errorf("updateEvent: %w", err))
	}
	ev, err := st.Patch(args[0].String(), patch, time.Local)
	if err != nil {
		return jsError(fmt.Errorf("updateEvent: %w", err))
	}
	cal.SetEvents(st.List())
	callHook(hooks, "onEventChange", ev)
	return toJSON(ev)
}

// snapshot() returns the render state as a JSON string.
func (b *bridge) snapshot(js.Value, []js.Value) any {
	b.mu.Lock()
	cal, st := b.cal, b.store
	b.mu.Unlock()
	if cal == nil {
		return js.Null()
	}

	snap := snapshot{
		Mode:     cal.Mode(),
		Date:     cal.CurrentDate(),
		Header:   cal.Header(),
		Geometry: cal.Geometry(),
		Frame:    cal.Frame(),
		AllDay:   layout.PositionAllDayRows(cal.AllDayEvents(), cal.Days()),
		Dirty:    st.Dirty(),
	}
	timed := cal.TimedEvents()
	for _, d := range cal.BufferedDays() {
		snap.Days = append(snap.Days, dayColumn{Day: d, Events: layout.PositionEvents(timed, d)})
	}
	if ds, ok := cal.Drag().State(); ok {
		snap.Drag = &ds
	}
	return toJSON(snap)
}

// layout(eventsJSON, "2026-03-01", days) is the pure layout engine: it
// returns positioned events per day and the all-day rows as JSON.
func layoutFunc(_ js.Value, args []js.Value) any {
	if len(args) < 3 {
		return jsError(errors.New("layout: events, date and days are required"))
	}
	var events []model.Event
	if err := json.Unmarshal([]byte(args[0].String()), &events); err != nil {
		return jsError(fmt.Errorf("layout: %w", err))
	}
	from, err := time.ParseInLocation(time.DateOnly, args[1].String(), time.Local)
	if err != nil {
		return jsError(fmt.Errorf("layout: %w", err))
	}
	days := model.DaysFrom(from, args[2].Int(), time.Now())

	out := struct {
		Days   []dayColumn       `json:"days"`
		AllDay []model.AllDayRow `json:"all_day"`
	}{AllDay: layout.PositionAllDayRows(events, days)}
	for _, d := range days {
		out.Days = append(out.Days, dayColumn{Day: d, Events: layout.PositionEvents(events, d)})
	}
	return toJSON(out)
}

func callHook(hooks js.Value, name string, payload any) {
	if !hooks.Truthy() {
		return
	}
	fn := hooks.Get(name)
	if fn.Type() != js.TypeFunction {
		return
	}
	fn.Invoke(toJSON(payload))
}

func toJSON(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return jsError(err)
	}
	return string(data)
}

// jsError builds a JS Error object for returning to the caller.
func jsError(err error) any {
	return js.Global().Get("Error").New(err.Error())
}
