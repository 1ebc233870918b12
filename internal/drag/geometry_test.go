package drag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapMinutes(t *testing.T) {
	q := 15 * time.Minute
	assert.Equal(t, 570.0, snapMinutes(577, q))
	assert.Equal(t, 585.0, snapMinutes(578, q))
	assert.Equal(t, 0.0, snapMinutes(7, q))
	assert.Equal(t, 60.0, snapMinutes(46, 30*time.Minute))
}

func TestClampStart(t *testing.T) {
	assert.Equal(t, 0.0, clampStart(-30, 60))
	assert.Equal(t, 1380.0, clampStart(1400, 60))
	assert.Equal(t, 600.0, clampStart(600, 60))
}

func TestScrollSpeed(t *testing.T) {
	assert.InDelta(t, 12, scrollSpeed(0, 60, 12), 1e-9)
	assert.InDelta(t, 6, scrollSpeed(30, 60, 12), 1e-9)
	assert.InDelta(t, 0, scrollSpeed(60, 60, 12), 1e-9)
	// Past the edge the speed stays at its maximum.
	assert.InDelta(t, 12, scrollSpeed(-25, 60, 12), 1e-9)
}

func TestAtMinutes(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 13, 45, 0, 0, time.UTC), atMinutes(day, 825))
}

func TestSettingsNormalize(t *testing.T) {
	s := Settings{Snap: 30 * time.Minute, NavStep: -1}.normalize()
	assert.Equal(t, 30*time.Minute, s.Snap)
	assert.Equal(t, -1, s.NavStep)
	assert.Equal(t, 4.0, s.Threshold)
	assert.Equal(t, 500*time.Millisecond, s.EdgeDelay)
}
