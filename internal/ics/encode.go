package ics

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"weekcal/internal/model"
)

// Encode writes events as a VCALENDAR. Timed events are written in UTC;
// all-day events as DATE values with an exclusive DTEND. stamp fills
// DTSTAMP. The Recurrence display text is not turned back into an RRULE.
func Encode(events []model.Event, stamp time.Time) []byte {
	cal := ical.NewCalendarFor("weekcal")
	cal.SetMethod(ical.MethodPublish)

	for _, ev := range events {
		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(stamp)
		ve.SetSummary(ev.Title)
		if ev.AllDay {
			ve.SetAllDayStartAt(ev.Start)
			ve.SetAllDayEndAt(model.AddDays(model.StartOfDay(ev.End), 1))
		} else {
			ve.SetStartAt(ev.Start)
			ve.SetEndAt(ev.End)
		}
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if ev.Status != "" {
			ve.SetStatus(ical.ObjectStatus(strings.ToUpper(ev.Status)))
		}
		if ev.Visibility != "" {
			ve.SetClass(ical.Classification(strings.ToUpper(ev.Visibility)))
		}
		if ev.Color != "" {
			ve.SetColor(string(ev.Color))
		}
		if ev.CalendarID != "" {
			ve.AddCategory(ev.CalendarID)
		}
		for _, r := range ev.Reminders {
			alarm := ve.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(reminderTrigger(r))
		}
	}
	return []byte(cal.Serialize())
}
