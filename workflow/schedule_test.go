package workflow

import (
	"testing"
	"time"

	"github.com/moneydesk/ledger_backend/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrence_DailyWeekly(t *testing.T) {
	start := date(2026, 3, 30)
	if got := NextOccurrence(start, models.FrequencyDaily); !got.Equal(date(2026, 3, 31)) {
		t.Errorf("daily: got %s", got)
	}
	if got := NextOccurrence(start, models.FrequencyWeekly); !got.Equal(date(2026, 4, 6)) {
		t.Errorf("weekly: got %s", got)
	}
	// Daily across a month boundary.
	if got := NextOccurrence(date(2026, 2, 28), models.FrequencyDaily); !got.Equal(date(2026, 3, 1)) {
		t.Errorf("daily feb: got %s", got)
	}
}

func TestNextOccurrence_MonthlyClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		from time.Time
		want time.Time
	}{
		// Jan 31 + 1 month lands on the last day of February, not
		// March 2/3 via normalization.
		{date(2024, 1, 31), date(2024, 2, 29)},
		{date(2025, 1, 31), date(2025, 2, 28)},
		{date(2026, 3, 31), date(2026, 4, 30)},
		{date(2026, 5, 31), date(2026, 6, 30)},
		{date(2026, 1, 30), date(2026, 2, 28)},
		// Mid-month days are untouched.
		{date(2026, 1, 15), date(2026, 2, 15)},
		// December rolls into the next year.
		{date(2026, 12, 31), date(2027, 1, 31)},
	}
	for _, tc := range cases {
		if got := NextOccurrence(tc.from, models.FrequencyMonthly); !got.Equal(tc.want) {
			t.Errorf("monthly from %s: got %s, want %s",
				tc.from.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

func TestNextOccurrence_YearlyLeapDay(t *testing.T) {
	// Feb 29 + 1 year is Feb 28 when the target year is not a leap year.
	if got := NextOccurrence(date(2024, 2, 29), models.FrequencyYearly); !got.Equal(date(2025, 2, 28)) {
		t.Errorf("yearly from leap day: got %s", got.Format("2006-01-02"))
	}
	if got := NextOccurrence(date(2027, 2, 28), models.FrequencyYearly); !got.Equal(date(2028, 2, 28)) {
		t.Errorf("yearly onto leap year: got %s", got.Format("2006-01-02"))
	}
	if got := NextOccurrence(date(2026, 7, 4), models.FrequencyYearly); !got.Equal(date(2027, 7, 4)) {
		t.Errorf("yearly plain: got %s", got.Format("2006-01-02"))
	}
}

func TestNextOccurrence_PreservesTimeOfDay(t *testing.T) {
	start := time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC)
	got := NextOccurrence(start, models.FrequencyMonthly)
	want := time.Date(2026, 2, 28, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}
