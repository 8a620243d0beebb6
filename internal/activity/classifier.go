// Package activity turns raw login events into activity summaries and
// suspicion verdicts. Everything here is pure and safe for concurrent use.
package activity

import (
	"slices"
	"time"

	"github.com/BradenHooton/loginwatch/internal/models"
)

const (
	// DefaultNormalizationDays is the divisor used for the average logins per day
	DefaultNormalizationDays = 30

	heavyDayThreshold = 10 // logins on one day that make it a heavy day
	heavyDaysRequired = 3  // heavy days needed for a sustained-use verdict
	spikeDayThreshold = 15 // logins on one day that count as a spike
	lowBaselineMaxAvg = 3  // average per day at or below which a spike is anomalous

	shortWindowDays = 3
	longWindowDays  = 30
)

// Verdict exposes the intermediate numbers behind a suspicion decision
type Verdict struct {
	DaysWith10Plus int
	TotalLogins    int
	AvgPerDay      float64
	SpikeDay       bool
	Suspicious     bool
}

// Classifier computes activity summaries. Day boundaries are taken in
// Location, so the configured zone affects which calendar day an event near
// midnight lands on.
type Classifier struct {
	Location          *time.Location
	NormalizationDays int
}

// NewClassifier creates a Classifier, defaulting to UTC and a 30 day window
func NewClassifier(loc *time.Location, normalizationDays int) *Classifier {
	if loc == nil {
		loc = time.UTC
	}
	if normalizationDays <= 0 {
		normalizationDays = DefaultNormalizationDays
	}
	return &Classifier{Location: loc, NormalizationDays: normalizationDays}
}

func (c *Classifier) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c *Classifier) normalizationDays() int {
	if c.NormalizationDays <= 0 {
		return DefaultNormalizationDays
	}
	return c.NormalizationDays
}

// Summarize builds the ActivitySummary for one account's events as seen at now.
// The input slice is not modified.
func (c *Classifier) Summarize(events []*models.LoginEvent, now time.Time) models.ActivitySummary {
	now = now.In(c.location())
	since3 := now.AddDate(0, 0, -shortWindowDays)
	since30 := now.AddDate(0, 0, -longWindowDays)

	summary := models.ActivitySummary{
		History: make([]*models.LoginEvent, 0, len(events)),
	}

	for _, e := range events {
		ts := e.Timestamp
		if withinWindow(ts, since3, now) {
			summary.LoginsLast3Days++
		}
		if withinWindow(ts, since30, now) {
			summary.LoginsLast30Days++
		}
		if summary.LastActive == nil || ts.After(*summary.LastActive) {
			last := ts
			summary.LastActive = &last
		}
		summary.History = append(summary.History, e)
	}

	slices.SortStableFunc(summary.History, func(a, b *models.LoginEvent) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	summary.Suspicious = c.IsSuspicious(events)
	return summary
}

// IsSuspicious applies the fixed login-frequency rule to an event list.
// The result does not depend on the order of events.
func (c *Classifier) IsSuspicious(events []*models.LoginEvent) bool {
	return c.Evaluate(events).Suspicious
}

// Evaluate groups events by calendar day and applies the suspicion rule:
// at least 3 days with 10+ logins, or a 15+ login day on an account that
// averages 3 or fewer logins per day over the normalization window.
func (c *Classifier) Evaluate(events []*models.LoginEvent) Verdict {
	v := Verdict{TotalLogins: len(events)}

	for _, n := range c.DailyCounts(events) {
		if n >= heavyDayThreshold {
			v.DaysWith10Plus++
		}
		if n >= spikeDayThreshold {
			v.SpikeDay = true
		}
	}

	v.AvgPerDay = float64(v.TotalLogins) / float64(c.normalizationDays())
	v.Suspicious = v.DaysWith10Plus >= heavyDaysRequired ||
		(v.AvgPerDay <= lowBaselineMaxAvg && v.SpikeDay)

	return v
}

// Day identifies a calendar date in the classifier's location
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DailyCounts returns the number of events per calendar day
func (c *Classifier) DailyCounts(events []*models.LoginEvent) map[Day]int {
	loc := c.location()
	counts := make(map[Day]int)
	for _, e := range events {
		y, m, d := e.Timestamp.In(loc).Date()
		counts[Day{Year: y, Month: m, Day: d}]++
	}
	return counts
}

// ClassifyAll summarizes each account independently. Accounts with no
// events get an empty, non-suspicious summary.
func (c *Classifier) ClassifyAll(accounts []*models.Account, eventsByAccount map[string][]*models.LoginEvent, now time.Time) map[string]models.ActivitySummary {
	result := make(map[string]models.ActivitySummary, len(accounts))
	for _, a := range accounts {
		result[a.ID] = c.Summarize(eventsByAccount[a.ID], now)
	}
	return result
}

// withinWindow reports whether ts lies in [since, now]
func withinWindow(ts, since, now time.Time) bool {
	return !ts.Before(since) && !ts.After(now)
}
