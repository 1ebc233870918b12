// Package ics converts between iCalendar feeds and calendar events.
//
// Recurring events are not expanded: a VEVENT with an RRULE becomes a single
// event at its DTSTART whose Recurrence field carries a readable summary of
// the rule.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	appLog "weekcal/internal/log"
	"weekcal/internal/model"
)

var ErrEmptyBody = errors.New("empty ICS body")

// Parse reads body as a VCALENDAR in the local timezone. See ParseIn.
func Parse(calendarID string, body []byte) ([]model.Event, error) {
	return ParseIn(calendarID, body, time.Local)
}

// ParseIn converts every VEVENT of body into an Event tagged with
// calendarID. Timed events are shown in loc; floating times and all-day
// dates are read as wall clock in loc. A VEVENT that cannot be read is
// logged and skipped.
func ParseIn(calendarID string, body []byte, loc *time.Location) ([]model.Event, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar %s: %w", calendarID, err)
	}

	events := make([]model.Event, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, perr := parseVEvent(ve, loc)
		if perr != nil {
			appLog.Warn("ics vevent skipped", "calendar", calendarID, "reason", perr.Error())
			continue
		}
		ev.CalendarID = calendarID
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "calendar", calendarID, "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (model.Event, error) {
	var out model.Event

	out.ID = propValue(ve, ical.ComponentPropertyUniqueId)
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	// An overridden instance shares its series' UID.
	if rid := ve.GetProperty(ical.ComponentPropertyRecurrenceId); rid != nil && rid.Value != "" {
		out.ID += "@" + rid.Value
	}

	out.Title = propValue(ve, ical.ComponentPropertySummary)
	out.Description = propValue(ve, ical.ComponentPropertyDescription)
	out.Location = propValue(ve, ical.ComponentPropertyLocation)
	out.Status = strings.ToLower(propValue(ve, ical.ComponentPropertyStatus))
	out.Visibility = strings.ToLower(propValue(ve, ical.ComponentPropertyClass))
	if c := model.Color(strings.ToLower(propValue(ve, ical.ComponentPropertyColor))); c.Valid() {
		out.Color = c
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return out, errors.New("missing DTSTART")
	}
	out.AllDay = isDateValue(dtStart)

	if out.AllDay {
		start, err := parseICSTime(dtStart.Value, loc)
		if err != nil {
			return out, fmt.Errorf("DTSTART: %w", err)
		}
		out.Start = model.StartOfDay(start)
		out.End = out.Start
		// DTEND of a date range is exclusive; the model keeps the last day.
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil && dtEnd.Value != "" {
			if end, err := parseICSTime(dtEnd.Value, loc); err == nil {
				last := model.AddDays(model.StartOfDay(end), -1)
				if last.After(out.Start) {
					out.End = last
				}
			}
		}
	} else {
		start, err := timeProp(ve, ical.ComponentPropertyDtStart, loc)
		if err != nil {
			return out, fmt.Errorf("DTSTART: %w", err)
		}
		out.Start = start.In(loc)
		end, err := timeProp(ve, ical.ComponentPropertyDtEnd, loc)
		if err != nil || !end.After(start) {
			// No usable DTEND: fall back to DURATION, then to one hour.
			end = start.Add(eventDuration(ve))
		}
		out.End = end.In(loc)
		// The grid shows one day per timed event; keep the start day.
		if midnight := model.AddDays(model.StartOfDay(out.Start), 1); out.End.After(midnight) {
			appLog.Warn("ics event crosses midnight; clipped to its start day",
				"uid", out.ID, "start", out.Start.Format(time.RFC3339), "end", out.End.Format(time.RFC3339))
			out.End = midnight
		}
	}

	if raw := propValue(ve, ical.ComponentPropertyRrule); raw != "" {
		text, err := DescribeRecurrence(raw)
		if err != nil {
			appLog.Debug("rrule not describable", "uid", out.ID, "rrule", raw)
			text = raw
		}
		out.Recurrence = text
	}

	out.Reminders = alarms(ve)
	return out, nil
}

func propValue(ve *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ve.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}

// timeProp reads a DATE-TIME property. TZID and UTC values go through the
// library; floating values are wall clock in loc.
func timeProp(ve *ical.VEvent, p ical.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := ve.GetProperty(p)
	if prop == nil || prop.Value == "" {
		return time.Time{}, fmt.Errorf("%s missing", p)
	}
	if _, ok := prop.ICalParameters["TZID"]; ok || strings.HasSuffix(prop.Value, "Z") {
		if p == ical.ComponentPropertyDtEnd {
			return ve.GetEndAt()
		}
		return ve.GetStartAt()
	}
	return parseICSTime(prop.Value, loc)
}

// isDateValue reports VALUE=DATE or a date-only value without a time part.
func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func eventDuration(ve *ical.VEvent) time.Duration {
	if raw := propValue(ve, ical.ComponentPropertyDuration); raw != "" {
		if d, err := parseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return time.Hour
}

// alarms collects the lead times of VALARM triggers relative to the start.
// Triggers after the start, absolute triggers and triggers relative to the
// end are ignored.
func alarms(ve *ical.VEvent) []time.Duration {
	var out []time.Duration
	for _, comp := range ve.Components {
		alarm, ok := comp.(*ical.VAlarm)
		if !ok {
			continue
		}
		trig := alarm.GetProperty(ical.ComponentPropertyTrigger)
		if trig == nil {
			continue
		}
		if rel, ok := trig.ICalParameters["RELATED"]; ok && len(rel) > 0 && strings.EqualFold(rel[0], "END") {
			continue
		}
		d, err := parseDuration(trig.Value)
		if err != nil || d > 0 {
			continue
		}
		out = append(out, -d)
	}
	return out
}

// parseICSTime parses a DATE or DATE-TIME value. UTC values keep their
// instant and are converted to loc; the rest are wall clock in loc.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse("20060102T150405Z", v)
		return t.In(loc), err
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

// parseDuration reads an RFC 5545 duration such as "-PT15M", "P1D" or
// "P1W".
func parseDuration(v string) (time.Duration, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	sign := time.Duration(1)
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") || len(s) < 2 {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	s = s[1:]

	var total time.Duration
	inTime := false
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
			continue
		case r == 'T':
			inTime = true
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", v)
		}
		num = ""
		unit := time.Duration(n)
		switch {
		case r == 'W' && !inTime:
			total += unit * 7 * 24 * time.Hour
		case r == 'D' && !inTime:
			total += unit * 24 * time.Hour
		case r == 'H' && inTime:
			total += unit * time.Hour
		case r == 'M' && inTime:
			total += unit * time.Minute
		case r == 'S' && inTime:
			total += unit * time.Second
		default:
			return 0, fmt.Errorf("invalid duration %q", v)
		}
	}
	if num != "" {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return sign * total, nil
}
