package ics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// rrule-go numbers weekdays from Monday.
var rruleDays = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DescribeRecurrence renders an RRULE value as display text, e.g.
// "Weekly on Monday, Wednesday" or "Every 2 days, 5 times". The rule is
// never evaluated.
func DescribeRecurrence(raw string) (string, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "RRULE:")
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return "", fmt.Errorf("parse rrule %q: %w", raw, err)
	}

	var b strings.Builder
	b.WriteString(frequencyText(opt.Freq, opt.Interval))

	switch {
	case len(opt.Byweekday) > 0 && opt.Freq == rrule.MONTHLY && opt.Byweekday[0].N() != 0:
		wd := opt.Byweekday[0]
		fmt.Fprintf(&b, " on the %s %s", ordinal(wd.N()), rruleDays[wd.Day()])
	case len(opt.Byweekday) > 0:
		names := make([]string, 0, len(opt.Byweekday))
		for i := range opt.Byweekday {
			names = append(names, rruleDays[opt.Byweekday[i].Day()])
		}
		b.WriteString(" on " + strings.Join(names, ", "))
	case len(opt.Bymonthday) > 0:
		days := make([]string, 0, len(opt.Bymonthday))
		for _, d := range opt.Bymonthday {
			days = append(days, ordinal(d))
		}
		b.WriteString(" on the " + strings.Join(days, ", "))
	}

	switch {
	case opt.Count == 1:
		b.WriteString(", once")
	case opt.Count > 1:
		fmt.Fprintf(&b, ", %d times", opt.Count)
	case !opt.Until.IsZero():
		b.WriteString(", until " + opt.Until.Format("Jan 2, 2006"))
	}
	return b.String(), nil
}

func frequencyText(f rrule.Frequency, interval int) string {
	var single, unit string
	switch f {
	case rrule.YEARLY:
		single, unit = "Annually", "year"
	case rrule.MONTHLY:
		single, unit = "Monthly", "month"
	case rrule.WEEKLY:
		single, unit = "Weekly", "week"
	case rrule.DAILY:
		single, unit = "Daily", "day"
	case rrule.HOURLY:
		single, unit = "Hourly", "hour"
	case rrule.MINUTELY:
		single, unit = "Every minute", "minute"
	default:
		single, unit = "Every second", "second"
	}
	if interval <= 1 {
		return single
	}
	return fmt.Sprintf("Every %d %ss", interval, unit)
}

// ordinal renders 1 as "1st", -1 as "last" and -2 as "2nd to last".
func ordinal(n int) string {
	switch {
	case n == -1:
		return "last"
	case n < -1:
		return ordinal(-n) + " to last"
	}
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// reminderTrigger formats a lead time as a VALARM trigger such as "-PT15M".
// Sub-second remainders are dropped.
func reminderTrigger(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d <= 0 {
		return "PT0S"
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second

	var b strings.Builder
	b.WriteString("-P")
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if h > 0 || m > 0 || sec > 0 {
		b.WriteString("T")
		if h > 0 {
			fmt.Fprintf(&b, "%dH", h)
		}
		if m > 0 {
			fmt.Fprintf(&b, "%dM", m)
		}
		if sec > 0 {
			fmt.Fprintf(&b, "%dS", sec)
		}
	}
	return b.String()
}
