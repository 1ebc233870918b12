package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekcal/internal/model"
)

var kst = time.FixedZone("KST", 9*3600)

func calendar(lines ...string) []byte {
	all := append([]string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//test//EN"}, lines...)
	all = append(all, "END:VCALENDAR")
	return []byte(strings.Join(all, "\r\n") + "\r\n")
}

var sampleFeed = calendar(
	"BEGIN:VEVENT",
	"UID:standup-1",
	"DTSTAMP:20260301T000000Z",
	"SUMMARY:Team Standup",
	"DTSTART:20260302T090000",
	"DTEND:20260302T093000",
	"RRULE:FREQ=WEEKLY;BYDAY=MO,WE",
	"LOCATION:Room 1",
	"STATUS:CONFIRMED",
	"CLASS:PRIVATE",
	"BEGIN:VALARM",
	"ACTION:DISPLAY",
	"TRIGGER:-PT15M",
	"END:VALARM",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:offsite",
	"DTSTART;VALUE=DATE:20260312",
	"DTEND;VALUE=DATE:20260314",
	"SUMMARY:Team Offsite",
	"COLOR:purple",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:vendor",
	"DTSTART:20260303T130000Z",
	"DURATION:PT45M",
	"SUMMARY:Vendor Meeting",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:broken",
	"SUMMARY:No start",
	"END:VEVENT",
)

func byID(events []model.Event) map[string]model.Event {
	out := make(map[string]model.Event, len(events))
	for _, ev := range events {
		out[ev.ID] = ev
	}
	return out
}

func TestParseIn(t *testing.T) {
	events, err := ParseIn("work", sampleFeed, kst)
	require.NoError(t, err)
	require.Len(t, events, 3)
	got := byID(events)

	standup := got["standup-1"]
	assert.Equal(t, "Team Standup", standup.Title)
	assert.Equal(t, "work", standup.CalendarID)
	assert.False(t, standup.AllDay)
	assert.True(t, standup.Start.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, kst)))
	assert.True(t, standup.End.Equal(time.Date(2026, 3, 2, 9, 30, 0, 0, kst)))
	assert.Equal(t, "Weekly on Monday, Wednesday", standup.Recurrence)
	assert.Equal(t, []time.Duration{15 * time.Minute}, standup.Reminders)
	assert.Equal(t, "confirmed", standup.Status)
	assert.Equal(t, "private", standup.Visibility)
	assert.Equal(t, "Room 1", standup.Location)

	offsite := got["offsite"]
	assert.True(t, offsite.AllDay)
	assert.Equal(t, model.ColorPurple, offsite.Color)
	// DTEND is exclusive: the last day is the 13th.
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, kst), offsite.Start)
	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, kst), offsite.End)

	vendor := got["vendor"]
	assert.Equal(t, time.Date(2026, 3, 3, 22, 0, 0, 0, kst), vendor.Start)
	assert.Equal(t, 45*time.Minute, vendor.Duration())
}

func TestParseSingleDayAllDay(t *testing.T) {
	events, err := ParseIn("personal", calendar(
		"BEGIN:VEVENT",
		"UID:holiday",
		"DTSTART;VALUE=DATE:20260317",
		"DTEND;VALUE=DATE:20260318",
		"SUMMARY:St. Patrick's Day",
		"END:VEVENT",
	), time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, events[0].Start, events[0].End)
}

func TestParseClipsTimedEventAtMidnight(t *testing.T) {
	body := calendar(
		"BEGIN:VEVENT",
		"UID:late",
		"SUMMARY:Release Night",
		"DTSTART:20260302T220000",
		"DTEND:20260303T020000",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:until-midnight",
		"SUMMARY:Late Shift",
		"DTSTART:20260302T200000",
		"DTEND:20260303T000000",
		"END:VEVENT",
	)
	events, err := ParseIn("work", body, time.UTC)
	require.NoError(t, err)
	got := byID(events)

	late := got["late"]
	assert.Equal(t, time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC), late.Start)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), late.End)

	shift := got["until-midnight"]
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), shift.End)
}

func TestParseMissingUIDGetsOne(t *testing.T) {
	events, err := ParseIn("x", calendar(
		"BEGIN:VEVENT",
		"DTSTART:20260302T090000",
		"SUMMARY:Anonymous",
		"END:VEVENT",
	), time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	// No DTEND or DURATION: one hour.
	assert.Equal(t, time.Hour, events[0].Duration())
}

func TestParseEmptyBody(t *testing.T) {
	_, err := Parse("x", []byte("  \n"))
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"-PT15M":   -15 * time.Minute,
		"PT1H30M":  90 * time.Minute,
		"-P1D":     -24 * time.Hour,
		"P1W":      7 * 24 * time.Hour,
		"+PT0S":    0,
		"P1DT2H":   26 * time.Hour,
		"-PT1H5M":  -65 * time.Minute,
		"pt10m":    10 * time.Minute,
		"-P2DT30M": -(48*time.Hour + 30*time.Minute),
	}
	for in, want := range cases {
		got, err := parseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "15M", "P", "PT5", "P5H"} {
		_, err := parseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	events, err := ParseIn("work", sampleFeed, kst)
	require.NoError(t, err)

	out := Encode(events, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, string(out), "DTSTART;VALUE=DATE:20260312")
	assert.Contains(t, string(out), "DTEND;VALUE=DATE:20260314")
	assert.Contains(t, string(out), "TRIGGER:-PT15M")

	again, err := ParseIn("work", out, kst)
	require.NoError(t, err)
	require.Len(t, again, len(events))
	got := byID(again)
	for _, want := range events {
		ev := got[want.ID]
		assert.Equal(t, want.Title, ev.Title)
		assert.True(t, want.Start.Equal(ev.Start), want.ID)
		assert.True(t, want.End.Equal(ev.End), want.ID)
		assert.Equal(t, want.AllDay, ev.AllDay)
		assert.Equal(t, want.Reminders, ev.Reminders)
		assert.Equal(t, want.Status, ev.Status)
	}
}
