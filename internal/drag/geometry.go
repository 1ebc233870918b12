package drag

import (
	"math"
	"time"

	"weekcal/internal/layout"
)

// Point is a pointer position in viewport (client) pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a client-space box.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport is the scrollable time-grid container.
type Viewport interface {
	// Bounds returns the container's client rect, or false while the
	// container is not mounted.
	Bounds() (Rect, bool)
	ScrollTop() float64
	ScrollBy(dy float64)
}

// Handler receives window-level pointer input for the active drag.
type Handler interface {
	PointerMove(p Point)
	PointerUp()
}

// Listener attaches window-level move/up listeners for one drag. The
// returned release func detaches them and must be safe to call once.
type Listener interface {
	Listen(h Handler) (release func())
}

// snapMinutes rounds minutes to the nearest multiple of step.
func snapMinutes(minutes float64, step time.Duration) float64 {
	s := step.Minutes()
	return math.Round(minutes/s) * s
}

// clampStart keeps an event of the given duration inside one day.
func clampStart(minutes, duration float64) float64 {
	return math.Max(0, math.Min(minutes, layout.MinutesPerDay-duration))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// atMinutes returns day's midnight moved forward by minutes of wall clock.
func atMinutes(day time.Time, minutes float64) time.Time {
	y, m, d := day.Date()
	nsec := int(math.Round(minutes * float64(time.Minute)))
	return time.Date(y, m, d, 0, 0, 0, nsec, day.Location())
}

// scrollSpeed maps the pointer's distance into an auto-scroll strip to a
// per-frame speed: 0 at the strip's inner boundary, max at the edge.
func scrollSpeed(dist, zone, max float64) float64 {
	dist = math.Max(0, math.Min(dist, zone))
	return max * (1 - dist/zone)
}
