package drag

import "time"

// Settings tunes drag thresholds, snapping and the two edge behaviours.
type Settings struct {
	// Threshold is the pointer travel in pixels, on either axis, that turns
	// a press into a drag.
	Threshold float64
	// Snap is the time grid candidate starts are rounded to.
	Snap time.Duration

	// EdgeZone is the width in pixels of the left/right strips of the grid
	// that page the view.
	EdgeZone float64
	// EdgeDelay is how long the pointer must rest in an edge strip before
	// the first page; EdgeRepeat spaces the following ones.
	EdgeDelay  time.Duration
	EdgeRepeat time.Duration
	// NavStep is the number of days paged per edge navigation.
	NavStep int

	// ScrollZone is the height in pixels of the top/bottom strips of the
	// container that auto-scroll.
	ScrollZone float64
	// MaxScrollSpeed is the scroll distance per frame at the very edge.
	MaxScrollSpeed float64
	// Frame is the auto-scroll tick interval.
	Frame time.Duration
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		Threshold:      4,
		Snap:           15 * time.Minute,
		EdgeZone:       40,
		EdgeDelay:      500 * time.Millisecond,
		EdgeRepeat:     800 * time.Millisecond,
		NavStep:        7,
		ScrollZone:     60,
		MaxScrollSpeed: 12,
		Frame:          16 * time.Millisecond,
	}
}

// normalize replaces unusable zero values with the defaults.
func (s Settings) normalize() Settings {
	def := DefaultSettings()
	if s.Threshold <= 0 {
		s.Threshold = def.Threshold
	}
	if s.Snap <= 0 {
		s.Snap = def.Snap
	}
	if s.EdgeZone <= 0 {
		s.EdgeZone = def.EdgeZone
	}
	if s.EdgeDelay <= 0 {
		s.EdgeDelay = def.EdgeDelay
	}
	if s.EdgeRepeat <= 0 {
		s.EdgeRepeat = def.EdgeRepeat
	}
	if s.NavStep == 0 {
		s.NavStep = def.NavStep
	}
	if s.ScrollZone <= 0 {
		s.ScrollZone = def.ScrollZone
	}
	if s.MaxScrollSpeed <= 0 {
		s.MaxScrollSpeed = def.MaxScrollSpeed
	}
	if s.Frame <= 0 {
		s.Frame = def.Frame
	}
	return s
}
