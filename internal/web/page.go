package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"weekcal/internal/layout"
	appLog "weekcal/internal/log"
	"weekcal/internal/model"
)

// templates holds the server-rendered week page.
//
//go:embed templates/*.html
var templates embed.FS

var calendarTmpl = template.Must(
	template.New("calendar.html").Funcs(template.FuncMap{
		"pct":   func(v float64) string { return fmt.Sprintf("%.4f%%", v) },
		"px":    func(v float64) string { return fmt.Sprintf("%.0fpx", v) },
		"clock": func(t time.Time) string { return t.Format("15:04") },
		"color": colorCSS,
	}).ParseFS(templates, "templates/calendar.html"),
)

// Banner rows in the all-day strip.
const (
	allDayRowHeight = 22.0
	allDayRowGap    = 2.0
	allDayGapPct    = 0.5
)

type pageEvent struct {
	model.PositionedEvent
	Past bool
}

type pageDay struct {
	Day    model.Day
	Events []pageEvent
}

type pageBanner struct {
	Event model.Event
	Rect  layout.Rect
}

type pageData struct {
	Title        string
	Month        string
	Year         int
	WeekNumber   int
	Days         []pageDay
	Banners      []pageBanner
	AllDayHeight float64
	Hours        []int
	HourHeight   float64
	AxisWidth    float64
	// NowTop is the current-time line in percent of the grid, or -1.
	NowTop float64
}

// handleCalendar renders the week (or day) grid as static HTML. The root
// element carries data-ready="true" once rendered so the capture can wait
// for it.
//
// GET /calendar?date=2026-03-01&days=7
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	from, days, err := s.rangeParams(r, "date")
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	data := s.pageData(from, days)
	var buf bytes.Buffer
	if err := calendarTmpl.Execute(&buf, data); err != nil {
		appLog.Error("calendar template failed", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) pageData(from time.Time, n int) pageData {
	lay := s.buildLayout(from, n)
	now := s.now()

	data := pageData{
		Title:      fmt.Sprintf("%s %d", lay.Header.MonthName, lay.Header.Year),
		Month:      lay.Header.MonthName,
		Year:       lay.Header.Year,
		WeekNumber: lay.Header.WeekNumber,
		HourHeight: s.cfg.View.MinHourHeight,
		AxisWidth:  s.cfg.View.TimeAxisWidth,
		NowTop:     -1,
	}
	for h := 0; h < 24; h++ {
		data.Hours = append(data.Hours, h)
	}
	for _, d := range lay.Days {
		pd := pageDay{Day: d.Day}
		for _, pe := range d.Events {
			pd.Events = append(pd.Events, pageEvent{PositionedEvent: pe, Past: pe.Event.End.Before(now)})
		}
		if d.Day.IsToday {
			data.NowTop = model.MinutesFromMidnight(now) / layout.MinutesPerDay * 100
		}
		data.Days = append(data.Days, pd)
	}
	for _, row := range lay.AllDay {
		data.Banners = append(data.Banners, pageBanner{
			Event: row.Event,
			Rect:  layout.AllDayRect(row, len(lay.Days), allDayGapPct, allDayRowHeight, allDayRowGap),
		})
	}
	if lay.AllDayRows > 0 {
		data.AllDayHeight = float64(lay.AllDayRows)*(allDayRowHeight+allDayRowGap) + allDayRowGap
	}
	return data
}

// colorCSS maps an event color to a CSS color; unknown colors render blue.
func colorCSS(c model.Color) template.CSS {
	switch c {
	case model.ColorRed:
		return "#e5484d"
	case model.ColorOrange:
		return "#f76b15"
	case model.ColorYellow:
		return "#ffc53d"
	case model.ColorGreen:
		return "#30a46c"
	case model.ColorPurple:
		return "#8e4ec6"
	case model.ColorGray:
		return "#8b8d98"
	}
	return "#0090ff"
}
