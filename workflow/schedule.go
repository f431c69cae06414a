package workflow

import (
	"time"

	"github.com/moneydesk/ledger_backend/models"
)

// NextOccurrence advances exactly one period. Month and year steps
// clamp to the last valid day of the target month instead of letting
// date normalization spill into the next month (Jan 31 + 1 month is
// Feb 29 in a leap year and Feb 28 otherwise, never Mar 2/3).
func NextOccurrence(t time.Time, frequency models.Frequency) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		return addMonthsClamped(t, 1)
	case models.FrequencyYearly:
		return addYearsClamped(t, 1)
	}
	return t
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month())
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func addYearsClamped(t time.Time, years int) time.Time {
	year, month, day := t.Date()
	lastDay := daysInMonth(year+years, month)
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year+years, month, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
