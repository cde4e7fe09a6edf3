package ledger

import "time"

// DayRollup is one calendar day in the trailing rollup. Date uses the
// dd-mm-yyyy format the mobile client renders directly.
type DayRollup struct {
	Date     string `json:"date"`
	Income   int64  `json:"income"`
	Expenses int64  `json:"expenses"`
}

const rollupDateFormat = "02-01-2006"

// RollupDays is the default trailing window.
const RollupDays = 7

// BuildDailyRollup turns grouped per-day totals into a fixed-length rollup:
// exactly days entries, newest first, starting at now's UTC calendar day,
// with zero totals for days that have no transactions.
func BuildDailyRollup(now time.Time, days int, totals []DayTotal) []DayRollup {
	if days <= 0 {
		days = RollupDays
	}

	byDay := make(map[string]DayTotal, len(totals))
	for _, t := range totals {
		byDay[t.Day.UTC().Format("2006-01-02")] = t
	}

	today := now.UTC()
	out := make([]DayRollup, 0, days)
	for i := 0; i < days; i++ {
		d := today.AddDate(0, 0, -i)
		t := byDay[d.Format("2006-01-02")]
		out = append(out, DayRollup{
			Date:     d.Format(rollupDateFormat),
			Income:   t.Income,
			Expenses: t.Expenses,
		})
	}
	return out
}

// RollupCutoff returns the start of the oldest UTC day covered by a rollup
// of the given width ending at now.
func RollupCutoff(now time.Time, days int) time.Time {
	if days <= 0 {
		days = RollupDays
	}
	day := now.UTC().Truncate(24 * time.Hour)
	return day.AddDate(0, 0, -(days - 1))
}
