package model

import "time"

// Color is the display color of an event. It has no effect on layout.
type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorGray   Color = "gray"
)

// Colors lists every supported color in display order.
var Colors = []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorGray}

// Valid reports whether c is one of the predefined colors.
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// Event is a single schedulable item shown on the time grid.
//
// Start and End are local wall-clock instants. Timed events must satisfy
// Start < End and stay within one calendar day. All-day events use an
// inclusive date range: End may equal Start for a single-day event.
type Event struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	AllDay     bool      `json:"all_day"`
	Color      Color     `json:"color,omitempty"`
	CalendarID string    `json:"calendar_id,omitempty"`

	// Passive payload; never read by layout or drag logic.
	Location    string          `json:"location,omitempty"`
	Description string          `json:"description,omitempty"`
	Recurrence  string          `json:"recurrence,omitempty"`
	Reminders   []time.Duration `json:"reminders,omitempty"`
	Status      string          `json:"status,omitempty"`
	Visibility  string          `json:"visibility,omitempty"`
}

// Duration returns End - Start.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// PositionedEvent is a timed event placed inside one day column.
// Top/Height are percentages of a 24-hour column; Left/Width are
// percentages of the column width.
type PositionedEvent struct {
	Event        Event   `json:"event"`
	Top          float64 `json:"top"`
	Height       float64 `json:"height"`
	Left         float64 `json:"left"`
	Width        float64 `json:"width"`
	Column       int     `json:"column"`
	TotalColumns int     `json:"total_columns"`
}

// AllDayRow places an all-day event on a banner row spanning the visible
// day columns [StartColumn, EndColumn].
type AllDayRow struct {
	Event       Event `json:"event"`
	StartColumn int   `json:"start_column"`
	EndColumn   int   `json:"end_column"`
	Row         int   `json:"row"`
}

// DragState is the read-only snapshot of an in-progress pointer interaction.
type DragState struct {
	EventID       string    `json:"event_id"`
	Event         Event     `json:"event"`
	OriginalStart time.Time `json:"original_start"`
	OriginalEnd   time.Time `json:"original_end"`
	CurrentStart  time.Time `json:"current_start"`
	CurrentEnd    time.Time `json:"current_end"`
	CurrentDate   time.Time `json:"current_date"`
	IsDragging    bool      `json:"is_dragging"`

	// CursorX/CursorY are relative to the scroll container content with the
	// grab offset removed.
	CursorX float64 `json:"cursor_x"`
	CursorY float64 `json:"cursor_y"`
	// ClientX/ClientY are the viewport position of the floating copy's
	// top-left corner.
	ClientX float64 `json:"client_x"`
	ClientY float64 `json:"client_y"`
}
