package drag

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekcal/internal/model"
)

// Grid used throughout: the container sits at client (0,100), 764x600; the
// time axis is 64px wide, each of the 7 day columns is 100px and an hour is
// 60px (one pixel per minute). The container is scrolled down by 480px, so
// 08:00 is at its top edge.
const (
	axisWidth  = 64.0
	colWidth   = 100.0
	hourHeight = 60.0
	scrollTop  = 480.0
)

type fakeViewport struct {
	mu        sync.Mutex
	rect      Rect
	mounted   bool
	scrollTop float64
	scrolls   []float64
}

func (v *fakeViewport) Bounds() (Rect, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rect, v.mounted
}

func (v *fakeViewport) ScrollTop() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollTop
}

func (v *fakeViewport) ScrollBy(dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollTop += dy
	v.scrolls = append(v.scrolls, dy)
}

func (v *fakeViewport) setMounted(m bool) {
	v.mu.Lock()
	v.mounted = m
	v.mu.Unlock()
}

func (v *fakeViewport) scrollCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.scrolls)
}

type fakeListener struct {
	mu       sync.Mutex
	listens  int
	releases int
}

func (l *fakeListener) Listen(Handler) func() {
	l.mu.Lock()
	l.listens++
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		l.releases++
		l.mu.Unlock()
	}
}

func (l *fakeListener) counts() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listens, l.releases
}

type recorder struct {
	mu      sync.Mutex
	changes []model.Event
	clicks  []model.Event
	navs    []int
	states  []model.DragState
}

func (r *recorder) navCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.navs)
}

type harness struct {
	t        *testing.T
	ctrl     *Controller
	vp       *fakeViewport
	listener *fakeListener
	clock    *clock.Mock
	rec      *recorder
	days     []time.Time
	event    model.Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		vp:       &fakeViewport{rect: Rect{Left: 0, Top: 100, Width: axisWidth + 7*colWidth, Height: 600}, mounted: true, scrollTop: scrollTop},
		listener: &fakeListener{},
		clock:    clock.NewMock(),
		rec:      &recorder{},
	}
	sunday := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		h.days = append(h.days, sunday.AddDate(0, 0, i))
	}
	h.event = model.Event{
		ID:    "j09",
		Title: "Design Sync",
		Start: time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC),
	}

	h.ctrl = New(Options{
		Viewport:      h.vp,
		Listener:      h.listener,
		Clock:         h.clock,
		Settings:      DefaultSettings(),
		TimeAxisWidth: axisWidth,
		OnEventChange: func(ev model.Event) {
			h.rec.mu.Lock()
			h.rec.changes = append(h.rec.changes, ev)
			h.rec.mu.Unlock()
		},
		OnEventClick: func(ev model.Event) {
			h.rec.mu.Lock()
			h.rec.clicks = append(h.rec.clicks, ev)
			h.rec.mu.Unlock()
		},
		OnDragNavigate: func(days int) {
			h.rec.mu.Lock()
			h.rec.navs = append(h.rec.navs, days)
			h.rec.mu.Unlock()
		},
		OnStateChange: func(st model.DragState, active bool) {
			h.rec.mu.Lock()
			h.rec.states = append(h.rec.states, st)
			h.rec.mu.Unlock()
		},
	})
	h.ctrl.Sync(Inputs{
		HourHeight:     hourHeight,
		DayColumnWidth: colWidth,
		Events:         []model.Event{h.event},
		Days:           h.days,
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

// press grabs the Wednesday 09:00 event 30px from its left and 10px below
// its top edge, at client (394, 170).
func (h *harness) press() Point {
	p := Point{X: 394, Y: 170}
	h.ctrl.PointerDown(h.event, p, Rect{Left: 364, Top: 160, Width: 92, Height: 60}, 0)
	return p
}

func TestClickWithoutDrag(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: p.X + 2, Y: p.Y + 3})
	h.ctrl.PointerUp()

	require.Len(t, h.rec.clicks, 1)
	assert.Equal(t, "j09", h.rec.clicks[0].ID)
	assert.Empty(t, h.rec.changes)
	_, active := h.ctrl.State()
	assert.False(t, active)
	listens, releases := h.listener.counts()
	assert.Equal(t, 1, listens)
	assert.Equal(t, 1, releases)
}

func TestArmedStateBeforeThreshold(t *testing.T) {
	h := newHarness(t)

	h.press()

	st, active := h.ctrl.State()
	require.True(t, active)
	assert.False(t, st.IsDragging)
	assert.False(t, h.ctrl.Dragging())
	assert.Equal(t, h.event.Start, st.CurrentStart)
	assert.Equal(t, h.event.End, st.OriginalEnd)
}

func TestDragSnapsToQuarterHour(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	// 37px == 37 minutes of raw travel.
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + 37})

	st, active := h.ctrl.State()
	require.True(t, active)
	assert.True(t, st.IsDragging)
	assert.Equal(t, time.Date(2026, 1, 7, 9, 30, 0, 0, time.UTC), st.CurrentStart)
	assert.Equal(t, time.Date(2026, 1, 7, 10, 30, 0, 0, time.UTC), st.CurrentEnd)
	assert.Equal(t, h.days[3], st.CurrentDate)
	assert.Equal(t, 364.0, st.ClientX)
	assert.Equal(t, 197.0, st.ClientY)

	h.ctrl.PointerUp()

	require.Len(t, h.rec.changes, 1)
	assert.Equal(t, st.CurrentStart, h.rec.changes[0].Start)
	assert.Equal(t, st.CurrentEnd, h.rec.changes[0].End)
	assert.Equal(t, "Design Sync", h.rec.changes[0].Title)
}

func TestDragPreservesDuration(t *testing.T) {
	h := newHarness(t)
	h.event.End = h.event.Start.Add(95 * time.Minute)
	h.ctrl.Sync(Inputs{HourHeight: hourHeight, DayColumnWidth: colWidth, Events: []model.Event{h.event}, Days: h.days})

	p := h.press()
	for _, dy := range []float64{5, 23, -41, 88, 300, 900, -700} {
		h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + dy})
		st, _ := h.ctrl.State()
		assert.Equal(t, 95*time.Minute, st.CurrentEnd.Sub(st.CurrentStart), "dy=%v", dy)
	}
	h.ctrl.PointerUp()

	require.Len(t, h.rec.changes, 1)
	assert.Equal(t, 95*time.Minute, h.rec.changes[0].Duration())
}

func TestDragClampsWithinDay(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + 2000})
	st, _ := h.ctrl.State()
	assert.Equal(t, time.Date(2026, 1, 7, 23, 0, 0, 0, time.UTC), st.CurrentStart)
	assert.Equal(t, time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), st.CurrentEnd)

	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y - 2000})
	st, _ = h.ctrl.State()
	assert.Equal(t, time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), st.CurrentStart)
}

func TestDragAcrossDays(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: p.X + 200, Y: p.Y})

	st, _ := h.ctrl.State()
	assert.Equal(t, h.days[5], st.CurrentDate)
	assert.Equal(t, time.Date(2026, 1, 9, 9, 0, 0, 0, time.UTC), st.CurrentStart)
}

func TestCommitUsesLiveEvent(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + 60})
	renamed := h.event
	renamed.Title = "Design Sync (moved room)"
	h.ctrl.Sync(Inputs{HourHeight: hourHeight, DayColumnWidth: colWidth, Events: []model.Event{renamed}, Days: h.days})
	h.ctrl.PointerUp()

	require.Len(t, h.rec.changes, 1)
	assert.Equal(t, "Design Sync (moved room)", h.rec.changes[0].Title)
	assert.Equal(t, time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC), h.rec.changes[0].Start)
}

func TestCommitSkippedWhenEventDeleted(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + 60})
	h.ctrl.Sync(Inputs{HourHeight: hourHeight, DayColumnWidth: colWidth, Days: h.days})
	h.ctrl.PointerUp()

	assert.Empty(t, h.rec.changes)
	_, active := h.ctrl.State()
	assert.False(t, active)
}

func TestMissingContainerOnPress(t *testing.T) {
	h := newHarness(t)
	h.vp.setMounted(false)

	h.press()

	assert.Len(t, h.rec.clicks, 1)
	_, active := h.ctrl.State()
	assert.False(t, active)
	listens, _ := h.listener.counts()
	assert.Zero(t, listens)
}

func TestContainerLostMidDrag(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + 30})
	before, _ := h.ctrl.State()

	h.vp.setMounted(false)
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + 120})
	during, active := h.ctrl.State()
	require.True(t, active)
	assert.Equal(t, before.CurrentStart, during.CurrentStart)

	h.vp.setMounted(true)
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + 120})
	after, _ := h.ctrl.State()
	assert.Equal(t, time.Date(2026, 1, 7, 11, 0, 0, 0, time.UTC), after.CurrentStart)
}

func TestSecondPressReleasesFirstDrag(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + 60})
	h.press()

	listens, releases := h.listener.counts()
	assert.Equal(t, 2, listens)
	assert.Equal(t, 1, releases)
	assert.Empty(t, h.rec.changes)
	st, active := h.ctrl.State()
	require.True(t, active)
	assert.False(t, st.IsDragging)
}

func TestNonPrimaryButtonIgnored(t *testing.T) {
	h := newHarness(t)

	h.ctrl.PointerDown(h.event, Point{X: 394, Y: 170}, Rect{Left: 364, Top: 160}, 2)

	assert.Empty(t, h.rec.clicks)
	_, active := h.ctrl.State()
	assert.False(t, active)
}

func TestEdgeNavigationDelayAndRepeat(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	// 10px into the grid: inside the left edge strip.
	h.ctrl.PointerMove(Point{X: axisWidth + 10, Y: p.Y})

	h.clock.Add(499 * time.Millisecond)
	assert.Zero(t, h.rec.navCount())

	h.clock.Add(time.Millisecond)
	require.Eventually(t, func() bool { return h.rec.navCount() == 1 }, time.Second, time.Millisecond)

	// Moving within the same strip does not restart the timer.
	h.ctrl.PointerMove(Point{X: axisWidth + 5, Y: p.Y})
	h.clock.Add(800 * time.Millisecond)
	require.Eventually(t, func() bool { return h.rec.navCount() == 2 }, time.Second, time.Millisecond)

	h.rec.mu.Lock()
	assert.Equal(t, []int{-7, -7}, h.rec.navs)
	h.rec.mu.Unlock()

	// Re-centering cancels.
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y})
	h.clock.Add(3 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 2, h.rec.navCount())
}

func TestEdgeNavigationDirectionChange(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: axisWidth + 10, Y: p.Y})
	h.clock.Add(300 * time.Millisecond)
	// Jump to the right strip before the left one fired.
	h.ctrl.PointerMove(Point{X: axisWidth + 7*colWidth - 10, Y: p.Y})
	h.clock.Add(300 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, h.rec.navCount())

	h.clock.Add(200 * time.Millisecond)
	require.Eventually(t, func() bool { return h.rec.navCount() == 1 }, time.Second, time.Millisecond)
	h.rec.mu.Lock()
	assert.Equal(t, []int{7}, h.rec.navs)
	h.rec.mu.Unlock()
}

func TestEdgeNavigationStopsOnRelease(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: axisWidth + 10, Y: p.Y})
	h.ctrl.PointerUp()

	h.clock.Add(5 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, h.rec.navCount())
}

func TestAutoScrollNearTop(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	// 15px below the container's top edge: speed = -12 * (1 - 15/60) = -9.
	h.ctrl.PointerMove(Point{X: p.X, Y: 115})

	h.clock.Add(16 * time.Millisecond)
	require.Eventually(t, func() bool { return h.vp.scrollCount() == 1 }, time.Second, time.Millisecond)
	h.vp.mu.Lock()
	assert.InDelta(t, -9, h.vp.scrolls[0], 1e-9)
	h.vp.mu.Unlock()

	h.ctrl.PointerMove(Point{X: p.X, Y: 400})
	h.clock.Add(160 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, h.vp.scrollCount())
}

func TestAutoScrollNearBottom(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	// 15px above the container's bottom edge: speed = 12 * (1 - 15/60) = 9.
	h.ctrl.PointerMove(Point{X: p.X, Y: 100 + 600 - 15})

	h.clock.Add(16 * time.Millisecond)
	require.Eventually(t, func() bool { return h.vp.scrollCount() == 1 }, time.Second, time.Millisecond)
	h.vp.mu.Lock()
	assert.InDelta(t, 9, h.vp.scrolls[0], 1e-9)
	h.vp.mu.Unlock()
}

func TestEdgeNavigationCancelledInCentre(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: axisWidth + 16, Y: p.Y})
	h.clock.Add(300 * time.Millisecond)
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y})

	h.clock.Add(2 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, h.rec.navCount())
	_, active := h.ctrl.State()
	assert.True(t, active)
}

func TestNoEdgeNavigationWithoutColumnWidth(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Sync(Inputs{
		HourHeight: hourHeight,
		Events:     []model.Event{h.event},
		Days:       h.days,
	})

	p := h.press()
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + 200})
	assert.True(t, h.ctrl.Dragging())

	h.clock.Add(600 * time.Millisecond)
	h.clock.Add(900 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, h.rec.navCount())

	st, _ := h.ctrl.State()
	assert.Equal(t, h.days[0], st.CurrentDate)
}

func TestAutoScrollStopsOnClose(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: p.X, Y: 100 + 600 - 6})
	h.ctrl.Close()

	h.clock.Add(time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, h.vp.scrollCount())
	_, releases := h.listener.counts()
	assert.Equal(t, 1, releases)

	h.press()
	_, active := h.ctrl.State()
	assert.False(t, active)
}

func TestStateChangeNotifications(t *testing.T) {
	h := newHarness(t)

	p := h.press()
	h.ctrl.PointerMove(Point{X: p.X, Y: p.Y + 15})
	h.ctrl.PointerUp()

	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	require.Len(t, h.rec.states, 3)
	assert.False(t, h.rec.states[0].IsDragging)
	assert.True(t, h.rec.states[1].IsDragging)
	assert.Equal(t, model.DragState{}, h.rec.states[2])
}
