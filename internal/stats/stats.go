// Package stats holds the pure derived-state computations over a diary
// snapshot: the rolling 7-day per-subject summary and the consecutive-day
// streak. Both are deterministic, never mutate their input and carry no
// state of their own, so the synchronizer can recompute them on every
// snapshot delivery.
package stats

import (
	"time"

	"github.com/studysync/diary/internal/entry"
)

// streakCeiling the walk never looks back further than one year
const streakCeiling = 365

// WeeklySummary per-subject hours within the trailing 7-day window.
// Subjects without entries in the window are absent from BySubject
type WeeklySummary struct {
	BySubject map[string]float64 `json:"bySubject"`
	Total     float64            `json:"total"`
}

// ComputeWeeklySummary accumulate hours of every entry dated within the
// trailing 168 hours ending at now.
//
// The cutoff is exact calendar subtraction (now minus 7*24h), not a
// truncation to day boundaries; entry dates are interpreted at local
// midnight and an entry exactly on the cutoff is included.
func ComputeWeeklySummary(entries []*entry.EntryModel, now time.Time) WeeklySummary {
	summary := WeeklySummary{BySubject: make(map[string]float64)}
	cutoff := now.Add(-7 * 24 * time.Hour)

	for _, e := range entries {
		day, err := time.ParseInLocation(entry.DateLayout, e.Date, now.Location())
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			continue
		}
		summary.BySubject[e.Subject] += e.Hours
		summary.Total += e.Hours
	}
	return summary
}

// ComputeStreak count consecutive days with at least one entry, walking
// backward from today. Today itself must have an entry for the streak to be
// non-zero; multiple entries on one date count once.
func ComputeStreak(entries []*entry.EntryModel, today time.Time) int {
	if len(entries) == 0 {
		return 0
	}

	dates := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		dates[e.Date] = struct{}{}
	}

	streak := 0
	for i := 0; i < streakCeiling; i++ {
		day := today.AddDate(0, 0, -i).Format(entry.DateLayout)
		if _, ok := dates[day]; !ok {
			break
		}
		streak++
	}
	return streak
}
