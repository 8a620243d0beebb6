package activity

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/google/uuid"
)

// suspiciousDayOffsets are the days back from today that receive a burst
// when the suspicious pattern is requested
var suspiciousDayOffsets = []int{5, 12, 25}

const (
	burstMinPerDay = 12
	burstMaxPerDay = 25
)

var syntheticDevices = []string{
	models.DeviceMobile,
	models.DeviceTablet,
	models.DeviceDesktop,
}

var syntheticBrowserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (iPad; CPU OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36",
}

var syntheticSourceAddresses = []string{
	"192.0.2.14",
	"192.0.2.201",
	"198.51.100.7",
	"198.51.100.58",
	"203.0.113.32",
	"203.0.113.190",
	"2001:db8::1f",
	"2001:db8:85a3::8a2e:370:7334",
}

// BackfillOptions controls synthetic history generation
type BackfillOptions struct {
	DaysBack          int `validate:"gte=1"`
	MinPerDay         int `validate:"gte=0"`
	MaxPerDay         int `validate:"gtefield=MinPerDay"`
	SuspiciousPattern bool
}

// DefaultBackfillOptions returns a 30 day window of 0-3 logins per day
func DefaultBackfillOptions() BackfillOptions {
	return BackfillOptions{
		DaysBack:  30,
		MinPerDay: 0,
		MaxPerDay: 3,
	}
}

// Validate checks option ranges
func (o BackfillOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid backfill options (%v): %w", err, models.ErrBadRequest)
	}
	return nil
}

// Generator fabricates plausible login histories. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	loc *time.Location
	now func() time.Time
}

// NewGenerator creates a Generator drawing from src. Pass a fixed-seed
// source for reproducible output.
func NewGenerator(src rand.Source, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{
		rng: rand.New(src),
		loc: loc,
		now: time.Now,
	}
}

// SetClock overrides the generator's notion of now
func (g *Generator) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// Generate produces events for each of the last DaysBack calendar days,
// today included. Timestamps for today never run past now.
func (g *Generator) Generate(userID string, opts BackfillOptions) ([]*models.LoginEvent, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().In(g.loc)
	y, m, d := now.Date()

	events := make([]*models.LoginEvent, 0, opts.DaysBack*(opts.MaxPerDay+1))

	for i := 0; i < opts.DaysBack; i++ {
		dayStart := time.Date(y, m, d-i, 0, 0, 0, 0, g.loc)
		dayEnd := dayStart.AddDate(0, 0, 1)
		if dayEnd.After(now) {
			dayEnd = now
		}

		count := g.between(opts.MinPerDay, opts.MaxPerDay)
		if opts.SuspiciousPattern && slices.Contains(suspiciousDayOffsets, i) {
			count = g.between(burstMinPerDay, burstMaxPerDay)
		}

		for j := 0; j < count; j++ {
			events = append(events, &models.LoginEvent{
				ID:            uuid.NewString(),
				UserID:        userID,
				Timestamp:     g.instantWithin(dayStart, dayEnd).UTC(),
				Device:        pick(g.rng, syntheticDevices),
				BrowserAgent:  pick(g.rng, syntheticBrowserAgents),
				SourceAddress: pick(g.rng, syntheticSourceAddresses),
			})
		}
	}

	return events, nil
}

// between returns a uniform integer in [lo, hi]
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// instantWithin returns a uniform instant in [start, end)
func (g *Generator) instantWithin(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(g.rng.Int64N(int64(span))))
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
