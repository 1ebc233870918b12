package layout

import (
	"weekcal/internal/model"
)

type span struct{ start, end int }

func (s span) overlaps(o span) bool {
	return !(s.end < o.start || s.start > o.end)
}

// PositionAllDayRows assigns every all-day event touching the visible days
// to the lowest banner row where its column span is free.
//
// Events are placed in start order (longer first on ties). Events that do
// not touch any of days are left out.
func PositionAllDayRows(events []model.Event, days []model.Day) []model.AllDayRow {
	allDay := make([]model.Event, 0)
	for _, ev := range events {
		if ev.AllDay {
			allDay = append(allDay, ev)
		}
	}
	rows := make([]model.AllDayRow, 0, len(allDay))
	if len(allDay) == 0 {
		return rows
	}

	occupied := make(map[int][]span)
	for _, ev := range sortByStart(allDay) {
		sp, ok := columnSpan(ev, days)
		if !ok {
			continue
		}

		row := 0
		for conflicts(occupied[row], sp) {
			row++
		}
		occupied[row] = append(occupied[row], sp)

		rows = append(rows, model.AllDayRow{
			Event:       ev,
			StartColumn: sp.start,
			EndColumn:   sp.end,
			Row:         row,
		})
	}
	return rows
}

// columnSpan finds the first and last visible day columns ev covers.
func columnSpan(ev model.Event, days []model.Day) (span, bool) {
	sp := span{start: -1, end: -1}
	for i, d := range days {
		if !coversDay(ev, model.StartOfDay(d.Date)) {
			continue
		}
		if sp.start == -1 {
			sp.start = i
		}
		sp.end = i
	}
	return sp, sp.start != -1
}

func conflicts(taken []span, sp span) bool {
	for _, t := range taken {
		if t.overlaps(sp) {
			return true
		}
	}
	return false
}

// RowCount returns the number of banner rows used by rows.
func RowCount(rows []model.AllDayRow) int {
	n := 0
	for _, r := range rows {
		if r.Row+1 > n {
			n = r.Row + 1
		}
	}
	return n
}

// Rect is the presentation geometry of an all-day banner: Left and Width are
// percentages of the day-columns strip, Top is in pixels.
type Rect struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
	Top   float64 `json:"top"`
}

// AllDayRect converts a row assignment into banner geometry.
func AllDayRect(r model.AllDayRow, totalDays int, gapPct, rowHeight, gapPx float64) Rect {
	if totalDays <= 0 {
		return Rect{}
	}
	n := float64(totalDays)
	return Rect{
		Left:  float64(r.StartColumn) / n * 100,
		Width: float64(r.EndColumn-r.StartColumn+1)/n*100 - gapPct,
		Top:   float64(r.Row) * (rowHeight + gapPx),
	}
}
