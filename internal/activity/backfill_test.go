package activity

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(seed uint64) *Generator {
	gen := NewGenerator(rand.NewPCG(seed, seed+1), time.UTC)
	gen.SetClock(func() time.Time { return testNow })
	return gen
}

func TestGenerate_StaysInsideWindow(t *testing.T) {
	gen := newTestGenerator(1)

	events, err := gen.Generate("user-1", BackfillOptions{DaysBack: 10, MinPerDay: 1, MaxPerDay: 4})
	require.NoError(t, err)

	oldest := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	assert.NotEmpty(t, events)
	for _, e := range events {
		assert.False(t, e.Timestamp.Before(oldest), "event %s before window", e.Timestamp)
		assert.False(t, e.Timestamp.After(testNow), "event %s in the future", e.Timestamp)
		assert.Equal(t, "user-1", e.UserID)
		assert.NotEmpty(t, e.ID)
		assert.Contains(t, []string{models.DeviceMobile, models.DeviceTablet, models.DeviceDesktop}, e.Device)
		assert.NotEmpty(t, e.BrowserAgent)
		assert.NotEmpty(t, e.SourceAddress)
	}
	assert.NoError(t, ValidateEvents(events))
}

func TestGenerate_PerDayCountsWithinRange(t *testing.T) {
	gen := newTestGenerator(2)
	c := NewClassifier(time.UTC, 30)

	events, err := gen.Generate("user-1", BackfillOptions{DaysBack: 30, MinPerDay: 2, MaxPerDay: 5})
	require.NoError(t, err)

	counts := c.DailyCounts(events)
	assert.Len(t, counts, 30)
	for day, n := range counts {
		assert.GreaterOrEqual(t, n, 2, "day %v", day)
		assert.LessOrEqual(t, n, 5, "day %v", day)
	}
}

func TestGenerate_SuspiciousBurstDays(t *testing.T) {
	gen := newTestGenerator(3)
	c := NewClassifier(time.UTC, 30)

	events, err := gen.Generate("user-1", BackfillOptions{DaysBack: 30, MinPerDay: 0, MaxPerDay: 3, SuspiciousPattern: true})
	require.NoError(t, err)

	counts := c.DailyCounts(events)
	for _, offset := range suspiciousDayOffsets {
		d := testNow.AddDate(0, 0, -offset)
		n := counts[Day{Year: d.Year(), Month: d.Month(), Day: d.Day()}]
		assert.GreaterOrEqual(t, n, burstMinPerDay, "offset %d", offset)
		assert.LessOrEqual(t, n, burstMaxPerDay, "offset %d", offset)
	}
	assert.Equal(t, len(suspiciousDayOffsets), c.Evaluate(events).DaysWith10Plus)
}

func TestGenerate_BurstOffsetsOutsideWindowAreSkipped(t *testing.T) {
	gen := newTestGenerator(4)

	events, err := gen.Generate("user-1", BackfillOptions{DaysBack: 5, MinPerDay: 0, MaxPerDay: 3, SuspiciousPattern: true})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(events), 5*3)
}

func TestGenerate_SameSeedSameTimestamps(t *testing.T) {
	opts := BackfillOptions{DaysBack: 14, MinPerDay: 0, MaxPerDay: 6, SuspiciousPattern: true}

	a, err := newTestGenerator(9).Generate("user-1", opts)
	require.NoError(t, err)
	b, err := newTestGenerator(9).Generate("user-1", opts)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.True(t, a[i].Timestamp.Equal(b[i].Timestamp))
		assert.Equal(t, a[i].Device, b[i].Device)
		assert.NotEqual(t, a[i].ID, b[i].ID)
	}
}

func TestGenerate_ZeroPerDay(t *testing.T) {
	gen := newTestGenerator(5)

	events, err := gen.Generate("user-1", BackfillOptions{DaysBack: 7, MinPerDay: 0, MaxPerDay: 0})

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGenerate_InvalidOptions(t *testing.T) {
	gen := newTestGenerator(6)

	tests := []struct {
		name string
		opts BackfillOptions
	}{
		{"zero days back", BackfillOptions{DaysBack: 0, MinPerDay: 0, MaxPerDay: 3}},
		{"negative min", BackfillOptions{DaysBack: 10, MinPerDay: -1, MaxPerDay: 3}},
		{"max below min", BackfillOptions{DaysBack: 10, MinPerDay: 4, MaxPerDay: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := gen.Generate("user-1", tt.opts)
			assert.Nil(t, events)
			assert.True(t, errors.Is(err, models.ErrBadRequest))
		})
	}
}

func TestDefaultBackfillOptions_Valid(t *testing.T) {
	assert.NoError(t, DefaultBackfillOptions().Validate())
}
