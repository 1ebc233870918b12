package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeRecurrence(t *testing.T) {
	cases := []struct {
		rule string
		want string
	}{
		{"FREQ=DAILY", "Daily"},
		{"FREQ=DAILY;INTERVAL=2;COUNT=5", "Every 2 days, 5 times"},
		{"RRULE:FREQ=WEEKLY;BYDAY=MO", "Weekly on Monday"},
		{"FREQ=WEEKLY;INTERVAL=2;BYDAY=TU,TH", "Every 2 weeks on Tuesday, Thursday"},
		{"FREQ=MONTHLY;BYMONTHDAY=15", "Monthly on the 15th"},
		{"FREQ=MONTHLY;BYDAY=2TU", "Monthly on the 2nd Tuesday"},
		{"FREQ=MONTHLY;BYDAY=-1FR", "Monthly on the last Friday"},
		{"FREQ=YEARLY;UNTIL=20301231T000000Z", "Annually, until Dec 31, 2030"},
		{"FREQ=WEEKLY;COUNT=1", "Weekly, once"},
	}
	for _, tc := range cases {
		got, err := DescribeRecurrence(tc.rule)
		require.NoError(t, err, tc.rule)
		assert.Equal(t, tc.want, got, tc.rule)
	}
}

func TestDescribeRecurrenceInvalid(t *testing.T) {
	_, err := DescribeRecurrence("FREQ=SOMETIMES")
	assert.Error(t, err)
}

func TestOrdinal(t *testing.T) {
	assert.Equal(t, "1st", ordinal(1))
	assert.Equal(t, "2nd", ordinal(2))
	assert.Equal(t, "3rd", ordinal(3))
	assert.Equal(t, "11th", ordinal(11))
	assert.Equal(t, "22nd", ordinal(22))
	assert.Equal(t, "2nd to last", ordinal(-2))
}

func TestReminderTrigger(t *testing.T) {
	assert.Equal(t, "-PT15M", reminderTrigger(15*time.Minute))
	assert.Equal(t, "-PT1H30M", reminderTrigger(90*time.Minute))
	assert.Equal(t, "-P1D", reminderTrigger(24*time.Hour))
	assert.Equal(t, "PT0S", reminderTrigger(0))
	assert.Equal(t, "PT0S", reminderTrigger(500*time.Millisecond))
	assert.Equal(t, "-PT30S", reminderTrigger(30*time.Second))
	assert.Equal(t, "-PT1M30S", reminderTrigger(90*time.Second))
	assert.Equal(t, "-P1DT5S", reminderTrigger(24*time.Hour+5*time.Second))
}

func TestReminderTriggerParsesBack(t *testing.T) {
	for _, d := range []time.Duration{
		30 * time.Second,
		15 * time.Minute,
		time.Hour + 2*time.Minute + 3*time.Second,
		2*24*time.Hour + 30*time.Minute,
	} {
		got, err := parseDuration(reminderTrigger(d))
		require.NoError(t, err)
		assert.Equal(t, -d, got, reminderTrigger(d))
	}
}
