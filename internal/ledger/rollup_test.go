package ledger

import (
	"testing"
	"time"
)

func TestBuildDailyRollup(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	day0 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	day2 := day0.AddDate(0, 0, -2)

	totals := []DayTotal{
		{Day: day0, Income: 100},
		{Day: day2, Expenses: 40},
	}

	rollup := BuildDailyRollup(now, 7, totals)
	if len(rollup) != 7 {
		t.Fatalf("len = %d, want 7", len(rollup))
	}

	if rollup[0].Date != "10-03-2024" {
		t.Errorf("entry 0 date = %q, want 10-03-2024", rollup[0].Date)
	}
	if rollup[0].Income != 100 || rollup[0].Expenses != 0 {
		t.Errorf("entry 0 = %+v, want income 100, expenses 0", rollup[0])
	}
	if rollup[2].Income != 0 || rollup[2].Expenses != 40 {
		t.Errorf("entry 2 = %+v, want income 0, expenses 40", rollup[2])
	}
	for i, entry := range rollup {
		if i == 0 || i == 2 {
			continue
		}
		if entry.Income != 0 || entry.Expenses != 0 {
			t.Errorf("entry %d = %+v, want zero totals", i, entry)
		}
	}
}

func TestBuildDailyRollupEmpty(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	rollup := BuildDailyRollup(now, 7, nil)
	if len(rollup) != 7 {
		t.Fatalf("len = %d, want 7", len(rollup))
	}
	for i, entry := range rollup {
		if entry.Income != 0 || entry.Expenses != 0 {
			t.Errorf("entry %d = %+v, want zeros", i, entry)
		}
	}
	if rollup[6].Date != "04-03-2024" {
		t.Errorf("oldest date = %q, want 04-03-2024", rollup[6].Date)
	}
}

func TestRollupCutoff(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)
	cutoff := RollupCutoff(now, 7)
	want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", cutoff, want)
	}
}
