// Package sample provides a fixed demo calendar for running without ICS
// sources.
package sample

import (
	"time"

	"weekcal/internal/model"
)

type entry struct {
	id, title  string
	month, day int
	from, to   [2]int // hour, minute
	color      model.Color
	calendar   string
	allDay     bool
	lastDay    int
	location   string
	desc       string
	recurrence string
}

// anchor is the first day of the demo data (a Sunday).
var anchor = time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

var entries = []entry{
	// Week of Feb 1
	{id: "f01", title: "Team Standup", month: 2, day: 2, from: [2]int{9, 0}, to: [2]int{9, 30}, color: model.ColorBlue, calendar: "work", recurrence: "Weekly on Monday"},
	{id: "f02", title: "Q1 Kickoff", month: 2, day: 2, from: [2]int{10, 0}, to: [2]int{12, 0}, color: model.ColorPurple, calendar: "work", location: "Conference Room A"},
	{id: "f03", title: "Lunch with Sarah", month: 2, day: 3, from: [2]int{12, 0}, to: [2]int{13, 0}, color: model.ColorGreen, calendar: "personal"},
	{id: "f04", title: "Design Review", month: 2, day: 4, from: [2]int{14, 0}, to: [2]int{15, 30}, color: model.ColorOrange, calendar: "work"},
	{id: "f05", title: "Workshop", month: 2, day: 5, from: [2]int{9, 0}, to: [2]int{12, 0}, color: model.ColorGreen, calendar: "work", desc: "React Patterns Workshop", location: "Main Hall"},
	{id: "f06", title: "Gym", month: 2, day: 5, from: [2]int{18, 0}, to: [2]int{19, 30}, color: model.ColorPurple, calendar: "personal"},
	{id: "f07", title: "Team Lunch", month: 2, day: 6, from: [2]int{12, 0}, to: [2]int{13, 30}, color: model.ColorYellow, calendar: "work"},

	// Week of Feb 8
	{id: "f08", title: "Team Standup", month: 2, day: 9, from: [2]int{9, 0}, to: [2]int{9, 30}, color: model.ColorBlue, calendar: "work", recurrence: "Weekly on Monday"},
	{id: "f09", title: "Project Planning", month: 2, day: 9, from: [2]int{10, 0}, to: [2]int{11, 30}, color: model.ColorPurple, calendar: "work"},
	{id: "f10", title: "Client Call", month: 2, day: 10, from: [2]int{14, 30}, to: [2]int{15, 30}, color: model.ColorRed, calendar: "work"},
	{id: "f11", title: "1:1 with Manager", month: 2, day: 11, from: [2]int{15, 0}, to: [2]int{15, 30}, color: model.ColorPurple, calendar: "work"},
	{id: "f12", title: "Sprint Review", month: 2, day: 12, from: [2]int{10, 0}, to: [2]int{11, 0}, color: model.ColorBlue, calendar: "work"},
	{id: "f13", title: "Valentine's Dinner", month: 2, day: 14, from: [2]int{19, 0}, to: [2]int{21, 0}, color: model.ColorRed, calendar: "personal"},
	{id: "f14", title: "Valentine's Day", month: 2, day: 14, color: model.ColorRed, calendar: "personal", allDay: true},

	// Week of Feb 15
	{id: "f15", title: "Team Standup", month: 2, day: 16, from: [2]int{9, 0}, to: [2]int{9, 30}, color: model.ColorBlue, calendar: "work", recurrence: "Weekly on Monday"},
	{id: "f16", title: "Roadmap Sync", month: 2, day: 16, from: [2]int{11, 0}, to: [2]int{12, 0}, color: model.ColorPurple, calendar: "work"},
	{id: "f17", title: "Lunch with Alex", month: 2, day: 17, from: [2]int{12, 0}, to: [2]int{13, 0}, color: model.ColorGreen, calendar: "personal"},
	{id: "f18", title: "Architecture Deep Dive", month: 2, day: 18, from: [2]int{13, 0}, to: [2]int{15, 0}, color: model.ColorPurple, calendar: "work"},
	{id: "f19", title: "Gym", month: 2, day: 19, from: [2]int{18, 0}, to: [2]int{19, 30}, color: model.ColorPurple, calendar: "personal"},
	{id: "f20", title: "Happy Hour", month: 2, day: 20, from: [2]int{17, 0}, to: [2]int{19, 0}, color: model.ColorYellow, calendar: "personal"},
	{id: "f21", title: "Presidents' Day", month: 2, day: 16, color: model.ColorRed, calendar: "work", allDay: true},
	{id: "f22", title: "Brunch", month: 2, day: 21, from: [2]int{11, 0}, to: [2]int{13, 0}, color: model.ColorOrange, calendar: "personal"},
	{id: "f23", title: "Blocked Time", month: 2, day: 18, from: [2]int{10, 0}, to: [2]int{11, 0}, color: model.ColorGray, calendar: "personal"},

	// Week of Feb 22
	{id: "f24", title: "Team Standup", month: 2, day: 23, from: [2]int{9, 0}, to: [2]int{9, 30}, color: model.ColorBlue, calendar: "work", recurrence: "Weekly on Monday"},
	{id: "f25", title: "Sprint Planning", month: 2, day: 23, from: [2]int{10, 0}, to: [2]int{11, 30}, color: model.ColorBlue, calendar: "work"},
	{id: "f26", title: "UX Research Debrief", month: 2, day: 24, from: [2]int{14, 0}, to: [2]int{15, 0}, color: model.ColorOrange, calendar: "work"},
	{id: "f27", title: "Coffee Chat", month: 2, day: 25, from: [2]int{9, 30}, to: [2]int{10, 0}, color: model.ColorGreen, calendar: "personal"},
	{id: "f28", title: "Demo Day", month: 2, day: 26, from: [2]int{14, 0}, to: [2]int{16, 0}, color: model.ColorPurple, calendar: "work", location: "Auditorium"},
	{id: "f29", title: "Retro", month: 2, day: 27, from: [2]int{14, 0}, to: [2]int{15, 0}, color: model.ColorBlue, calendar: "work"},
	{id: "f30", title: "Gym", month: 2, day: 26, from: [2]int{18, 0}, to: [2]int{19, 30}, color: model.ColorPurple, calendar: "personal"},

	// Week of Mar 1
	{id: "m01", title: "Team Standup", month: 3, day: 2, from: [2]int{9, 0}, to: [2]int{9, 30}, color: model.ColorBlue, calendar: "work", recurrence: "Weekly on Monday"},
	{id: "m02", title: "March Priorities", month: 3, day: 2, from: [2]int{10, 0}, to: [2]int{11, 30}, color: model.ColorPurple, calendar: "work"},
	{id: "m03", title: "Vendor Meeting", month: 3, day: 3, from: [2]int{13, 0}, to: [2]int{14, 0}, color: model.ColorOrange, calendar: "work"},
	{id: "m04", title: "Lunch with Sarah", month: 3, day: 4, from: [2]int{12, 0}, to: [2]int{13, 0}, color: model.ColorGreen, calendar: "personal"},
	{id: "m05", title: "Workshop: Testing", month: 3, day: 5, from: [2]int{9, 0}, to: [2]int{12, 0}, color: model.ColorGreen, calendar: "work", desc: "Testing Best Practices"},
	{id: "m06", title: "Gym", month: 3, day: 5, from: [2]int{18, 0}, to: [2]int{19, 30}, color: model.ColorPurple, calendar: "personal"},
	{id: "m07", title: "Game Night", month: 3, day: 6, from: [2]int{19, 0}, to: [2]int{22, 0}, color: model.ColorYellow, calendar: "personal"},

	// Week of Mar 8
	{id: "m08", title: "Team Standup", month: 3, day: 9, from: [2]int{9, 0}, to: [2]int{9, 30}, color: model.ColorBlue, calendar: "work", recurrence: "Weekly on Monday"},
	{id: "m09", title: "OKR Review", month: 3, day: 9, from: [2]int{10, 0}, to: [2]int{11, 30}, color: model.ColorPurple, calendar: "work"},
	{id: "m10", title: "Client Call", month: 3, day: 10, from: [2]int{14, 0}, to: [2]int{15, 0}, color: model.ColorRed, calendar: "work"},
	{id: "m11", title: "1:1 with Manager", month: 3, day: 11, from: [2]int{15, 0}, to: [2]int{15, 30}, color: model.ColorPurple, calendar: "work"},
	{id: "m12", title: "Design Review", month: 3, day: 12, from: [2]int{11, 0}, to: [2]int{12, 30}, color: model.ColorOrange, calendar: "work"},
	{id: "m13", title: "Team Offsite", month: 3, day: 12, lastDay: 13, color: model.ColorPurple, calendar: "work", allDay: true},
	{id: "m14", title: "Happy Hour", month: 3, day: 13, from: [2]int{17, 0}, to: [2]int{19, 0}, color: model.ColorYellow, calendar: "personal"},

	// Week of Mar 15
	{id: "m15", title: "Team Standup", month: 3, day: 16, from: [2]int{9, 0}, to: [2]int{9, 30}, color: model.ColorBlue, calendar: "work", recurrence: "Weekly on Monday"},
	{id: "m16", title: "Sprint Planning", month: 3, day: 16, from: [2]int{10, 0}, to: [2]int{11, 30}, color: model.ColorBlue, calendar: "work"},
	{id: "m17", title: "Lunch with Alex", month: 3, day: 17, from: [2]int{12, 0}, to: [2]int{13, 0}, color: model.ColorGreen, calendar: "personal"},
	{id: "m18", title: "Perf Review Prep", month: 3, day: 18, from: [2]int{14, 0}, to: [2]int{15, 30}, color: model.ColorOrange, calendar: "work"},
	{id: "m19", title: "Blocked Time", month: 3, day: 19, from: [2]int{13, 0}, to: [2]int{14, 0}, color: model.ColorGray, calendar: "personal"},
	{id: "m20", title: "Gym", month: 3, day: 19, from: [2]int{18, 0}, to: [2]int{19, 30}, color: model.ColorPurple, calendar: "personal"},
	{id: "m21", title: "St. Patrick's Day", month: 3, day: 17, color: model.ColorGreen, calendar: "personal", allDay: true},

	// Week of Mar 22
	{id: "m22", title: "Team Standup", month: 3, day: 23, from: [2]int{9, 0}, to: [2]int{9, 30}, color: model.ColorBlue, calendar: "work", recurrence: "Weekly on Monday"},
	{id: "m23", title: "Q1 Wrap-up", month: 3, day: 23, from: [2]int{10, 0}, to: [2]int{12, 0}, color: model.ColorPurple, calendar: "work"},
	{id: "m24", title: "Client Demo", month: 3, day: 24, from: [2]int{14, 0}, to: [2]int{15, 30}, color: model.ColorRed, calendar: "work"},
	{id: "m25", title: "Architecture Review", month: 3, day: 25, from: [2]int{13, 0}, to: [2]int{14, 30}, color: model.ColorPurple, calendar: "work"},
	{id: "m26", title: "Sprint Review", month: 3, day: 26, from: [2]int{10, 0}, to: [2]int{11, 0}, color: model.ColorBlue, calendar: "work"},
	{id: "m27", title: "Retro", month: 3, day: 27, from: [2]int{14, 0}, to: [2]int{15, 0}, color: model.ColorBlue, calendar: "work"},
	{id: "m28", title: "Gym", month: 3, day: 26, from: [2]int{18, 0}, to: [2]int{19, 30}, color: model.ColorPurple, calendar: "personal"},
	{id: "m29", title: "Birthday Party", month: 3, day: 28, from: [2]int{15, 0}, to: [2]int{18, 0}, color: model.ColorRed, calendar: "personal"},
}

// Events returns the demo data on its fixed February and March 2026 dates,
// in loc.
func Events(loc *time.Location) []model.Event {
	if loc == nil {
		loc = time.Local
	}
	out := make([]model.Event, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.event(loc))
	}
	return out
}

// Around returns the demo data shifted by whole weeks so that its first
// week starts on the week containing ref. Weekdays and times are kept.
func Around(ref time.Time, weekStart time.Weekday) []model.Event {
	loc := ref.Location()
	base := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)
	target := model.StartOfWeek(ref, weekStart)
	shift := model.DaysBetween(model.StartOfWeek(base, weekStart), target)

	events := Events(loc)
	for i := range events {
		events[i].Start = model.AddDays(events[i].Start, shift)
		events[i].End = model.AddDays(events[i].End, shift)
	}
	return events
}

func (e entry) event(loc *time.Location) model.Event {
	ev := model.Event{
		ID:          e.id,
		Title:       e.title,
		Color:       e.color,
		CalendarID:  e.calendar,
		AllDay:      e.allDay,
		Location:    e.location,
		Description: e.desc,
		Recurrence:  e.recurrence,
		Status:      "busy",
		Visibility:  "default",
	}
	if e.allDay {
		ev.Start = time.Date(2026, time.Month(e.month), e.day, 0, 0, 0, 0, loc)
		last := e.day
		if e.lastDay > 0 {
			last = e.lastDay
		}
		ev.End = time.Date(2026, time.Month(e.month), last, 0, 0, 0, 0, loc)
		return ev
	}
	ev.Start = time.Date(2026, time.Month(e.month), e.day, e.from[0], e.from[1], 0, 0, loc)
	ev.End = time.Date(2026, time.Month(e.month), e.day, e.to[0], e.to[1], 0, 0, loc)
	if e.calendar == "work" {
		ev.Reminders = []time.Duration{10 * time.Minute}
	}
	return ev
}
