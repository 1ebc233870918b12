package view

import (
	"time"

	"weekcal/internal/model"
)

// Header is the title shown above the grid.
type Header struct {
	MonthName  string `json:"month_name"`
	Year       int    `json:"year"`
	WeekNumber int    `json:"week_number"`
	DayName    string `json:"day_name"`
	DayNumber  int    `json:"day_number"`
}

// Header describes the first day the user currently sees, following an
// in-progress wheel scroll.
func (c *Calendar) Header() Header {
	c.mu.Lock()
	first := c.visStart
	weekStart := c.opts.WeekStart
	c.mu.Unlock()
	return HeaderFor(first, weekStart)
}

func HeaderFor(date time.Time, weekStart time.Weekday) Header {
	return Header{
		MonthName:  date.Month().String(),
		Year:       date.Year(),
		WeekNumber: WeekNumber(date, weekStart),
		DayName:    date.Weekday().String(),
		DayNumber:  date.Day(),
	}
}

// WeekNumber numbers weeks so that week 1 is the week containing January 1st,
// with weeks beginning on weekStart. Late-December days in the week that
// contains the next January 1st belong to week 1 of the next year.
func WeekNumber(date time.Time, weekStart time.Weekday) int {
	start := model.StartOfWeek(date, weekStart)
	year := date.Year()
	first := firstWeek(year+1, date.Location(), weekStart)
	if !start.Before(first) {
		return 1
	}
	first = firstWeek(year, date.Location(), weekStart)
	return model.DaysBetween(first, start)/7 + 1
}

func firstWeek(year int, loc *time.Location, weekStart time.Weekday) time.Time {
	return model.StartOfWeek(time.Date(year, time.January, 1, 0, 0, 0, 0, loc), weekStart)
}
