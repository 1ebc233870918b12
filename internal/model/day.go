package model

import "time"

// Day is a calendar date plus derived display fields.
type Day struct {
	Date    time.Time `json:"date"`
	Name    string    `json:"name"`
	Number  int       `json:"number"`
	IsToday bool      `json:"is_today"`
}

// NewDay builds the Day containing t. now decides IsToday.
func NewDay(t, now time.Time) Day {
	date := StartOfDay(t)
	return Day{
		Date:    date,
		Name:    date.Format("Mon"),
		Number:  date.Day(),
		IsToday: SameDate(date, now.In(date.Location())),
	}
}

// DaysFrom returns n consecutive days beginning at start.
func DaysFrom(start time.Time, n int, now time.Time) []Day {
	if n <= 0 {
		return []Day{}
	}
	out := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, NewDay(AddDays(start, i), now))
	}
	return out
}

// Dates extracts the midnight instants of days.
func Dates(days []Day) []time.Time {
	out := make([]time.Time, len(days))
	for i, d := range days {
		out[i] = d.Date
	}
	return out
}

// StartOfDay returns local midnight of t's date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days, keeping the wall clock.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// SameDate reports whether a and b fall on the same calendar date,
// each read in its own location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween counts calendar days from a to b (negative if b is earlier).
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// MinutesFromMidnight returns the wall-clock minutes of t since its date's
// midnight, including fractional seconds.
func MinutesFromMidnight(t time.Time) float64 {
	return t.Sub(StartOfDay(t)).Minutes()
}

// StartOfWeek returns midnight of the first day of t's week.
func StartOfWeek(t time.Time, weekStartsOn time.Weekday) time.Time {
	diff := (int(t.Weekday()) - int(weekStartsOn) + 7) % 7
	return AddDays(StartOfDay(t), -diff)
}
