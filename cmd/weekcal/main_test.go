package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekcal/internal/config"
)

func testConfig() *config.Config {
	conf := config.DefaultConfig()
	conf.Timezone = "UTC"
	conf.Normalize()
	return conf
}

var wednesday = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func TestRunLayoutText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runLayout(&buf, testConfig(), &layoutOptions{}, wednesday))

	out := buf.String()
	assert.Contains(t, out, "DAY")
	assert.Contains(t, out, "Team Standup")
	assert.Contains(t, out, "Mon 03-02")
}

func TestRunLayoutJSONFromICS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.ics")
	body := strings.Join([]string{
		"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//test//EN",
		"BEGIN:VEVENT", "UID:a", "DTSTART:20260302T090000Z", "DTEND:20260302T100000Z", "SUMMARY:A", "END:VEVENT",
		"BEGIN:VEVENT", "UID:b", "DTSTART:20260302T093000Z", "DTEND:20260302T110000Z", "SUMMARY:B", "END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n") + "\r\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	var buf bytes.Buffer
	opts := &layoutOptions{date: "2026-03-02", days: 1, icsFile: path, asJSON: true}
	require.NoError(t, runLayout(&buf, testConfig(), opts, wednesday))

	var out layoutOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Days, 1)
	require.Len(t, out.Days[0].Events, 2)
	assert.Equal(t, 2, out.Days[0].Events[1].TotalColumns)
}

func TestRunLayoutBadDate(t *testing.T) {
	var buf bytes.Buffer
	err := runLayout(&buf, testConfig(), &layoutOptions{date: "tomorrow"}, wednesday)
	assert.Error(t, err)
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "layout", "capture"})
}

func TestLayoutCommandExecutes(t *testing.T) {
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "weekcal.yaml"), "layout", "--date", "2026-03-01", "--json"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), `"days"`)
}
