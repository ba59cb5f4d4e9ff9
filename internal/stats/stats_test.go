package stats

import (
	"math"
	"testing"
	"time"

	"github.com/studysync/diary/internal/entry"
)

func mkEntry(date, subject string, hours float64) *entry.EntryModel {
	return &entry.EntryModel{
		Date:    date,
		Subject: subject,
		Hours:   hours,
	}
}

func TestComputeWeeklySummary_Empty(t *testing.T) {
	got := ComputeWeeklySummary(nil, time.Now())
	if got.Total != 0 {
		t.Fatalf("expected zero total, got %f", got.Total)
	}
	if len(got.BySubject) != 0 {
		t.Fatalf("expected empty subject map, got %v", got.BySubject)
	}
}

func TestComputeWeeklySummary_AccumulatesWithinWindow(t *testing.T) {
	now := time.Date(2024, 1, 11, 12, 0, 0, 0, time.Local)
	entries := []*entry.EntryModel{
		mkEntry("2024-01-10", "Math", 2),
		mkEntry("2024-01-10", "Math", 1),
		mkEntry("2024-01-03", "Physics", 5), // 8 days back, outside the window
	}

	got := ComputeWeeklySummary(entries, now)
	if got.BySubject["Math"] != 3 {
		t.Fatalf("expected Math=3, got %f", got.BySubject["Math"])
	}
	if _, ok := got.BySubject["Physics"]; ok {
		t.Fatalf("Physics should fall outside the window, got %v", got.BySubject)
	}
	if got.Total != 3 {
		t.Fatalf("expected total=3, got %f", got.Total)
	}
}

func TestComputeWeeklySummary_CutoffIsInclusive(t *testing.T) {
	// entry at local midnight exactly 168h before now
	now := time.Date(2024, 1, 11, 0, 0, 0, 0, time.Local)
	entries := []*entry.EntryModel{mkEntry("2024-01-04", "Math", 2)}

	got := ComputeWeeklySummary(entries, now)
	if got.Total != 2 {
		t.Fatalf("entry on the exact cutoff must count, got total=%f", got.Total)
	}

	// one second later the same entry is out
	got = ComputeWeeklySummary(entries, now.Add(time.Second))
	if got.Total != 0 {
		t.Fatalf("entry one second past the cutoff must not count, got total=%f", got.Total)
	}
}

func TestComputeWeeklySummary_SkipsUnparseableDates(t *testing.T) {
	now := time.Date(2024, 1, 11, 12, 0, 0, 0, time.Local)
	entries := []*entry.EntryModel{
		mkEntry("not-a-date", "Math", 4),
		mkEntry("2024-01-11", "Math", 1),
	}

	got := ComputeWeeklySummary(entries, now)
	if got.Total != 1 {
		t.Fatalf("expected total=1, got %f", got.Total)
	}
}

func TestComputeWeeklySummary_TotalMatchesSubjectSum(t *testing.T) {
	now := time.Date(2024, 1, 11, 12, 0, 0, 0, time.Local)
	entries := []*entry.EntryModel{
		mkEntry("2024-01-11", "Math", 1.5),
		mkEntry("2024-01-10", "Physics", 2.25),
		mkEntry("2024-01-09", "Math", 0.75),
		mkEntry("2024-01-08", "History", 3),
	}

	got := ComputeWeeklySummary(entries, now)
	var sum float64
	for _, hours := range got.BySubject {
		sum += hours
	}
	if math.Abs(sum-got.Total) > 1e-9 {
		t.Fatalf("total %f does not match subject sum %f", got.Total, sum)
	}
}

func TestComputeStreak_Empty(t *testing.T) {
	if got := ComputeStreak(nil, time.Now()); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestComputeStreak_ConsecutiveDays(t *testing.T) {
	today := time.Date(2024, 1, 11, 9, 0, 0, 0, time.Local)
	entries := []*entry.EntryModel{
		mkEntry("2024-01-11", "Math", 1),
		mkEntry("2024-01-10", "Physics", 1),
		mkEntry("2024-01-09", "Math", 1),
		mkEntry("2024-01-08", "Math", 1),
		// gap at 2024-01-07
		mkEntry("2024-01-06", "Math", 1),
	}

	if got := ComputeStreak(entries, today); got != 4 {
		t.Fatalf("expected streak=4, got %d", got)
	}
}

func TestComputeStreak_RequiresEntryToday(t *testing.T) {
	today := time.Date(2024, 1, 11, 9, 0, 0, 0, time.Local)
	entries := []*entry.EntryModel{
		mkEntry("2024-01-10", "Math", 1),
		mkEntry("2024-01-09", "Math", 1),
	}

	if got := ComputeStreak(entries, today); got != 0 {
		t.Fatalf("streak must be 0 without an entry today, got %d", got)
	}
}

func TestComputeStreak_OrderAndDuplicatesDoNotMatter(t *testing.T) {
	today := time.Date(2024, 1, 11, 9, 0, 0, 0, time.Local)
	entries := []*entry.EntryModel{
		mkEntry("2024-01-09", "Math", 1),
		mkEntry("2024-01-11", "Physics", 2),
		mkEntry("2024-01-11", "Math", 1),
		mkEntry("2024-01-10", "Math", 1),
		mkEntry("2024-01-10", "Math", 1),
	}

	if got := ComputeStreak(entries, today); got != 3 {
		t.Fatalf("expected streak=3, got %d", got)
	}
}
