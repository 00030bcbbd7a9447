package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.April, 30},
		{2025, time.February, 28},
		{2024, time.February, 29}, // leap year
		{2000, time.February, 29}, // divisible by 400
		{1900, time.February, 28}, // divisible by 100 but not 400
		{2025, time.December, 31},
	}
	for _, c := range cases {
		if got := DaysInMonth(c.year, c.month); got != c.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", c.year, c.month, got, c.want)
		}
	}
}

func TestClampDay(t *testing.T) {
	if got := ClampDay(2025, time.April, 31); got != 30 {
		t.Errorf("expected 30, got %d", got)
	}
	if got := ClampDay(2025, time.February, 31); got != 28 {
		t.Errorf("expected 28, got %d", got)
	}
	if got := ClampDay(2024, time.February, 30); got != 29 {
		t.Errorf("expected 29, got %d", got)
	}
	if got := ClampDay(2025, time.January, 15); got != 15 {
		t.Errorf("expected 15, got %d", got)
	}
}

func TestOccurrenceInMonth(t *testing.T) {
	if got := OccurrenceInMonth(2025, time.April, 31); !got.Equal(date(2025, time.April, 30)) {
		t.Errorf("expected 2025-04-30, got %s", got)
	}
	if got := OccurrenceInMonth(2024, time.February, 31); !got.Equal(date(2024, time.February, 29)) {
		t.Errorf("expected 2024-02-29, got %s", got)
	}
	if got := OccurrenceInMonth(2025, time.June, 10); !got.Equal(date(2025, time.June, 10)) {
		t.Errorf("expected 2025-06-10, got %s", got)
	}
}

func TestMonthsBetweenInclusive(t *testing.T) {
	cases := []struct {
		a, b time.Time
		want int
	}{
		{date(2025, time.January, 1), date(2025, time.March, 15), 3},
		{date(2025, time.January, 31), date(2025, time.January, 1), 1}, // same month, day ignored
		{date(2024, time.November, 5), date(2025, time.February, 1), 4},
		{date(2025, time.March, 1), date(2025, time.January, 1), 0}, // reversed
		{date(2024, time.January, 1), date(2025, time.December, 31), 24},
	}
	for _, c := range cases {
		if got := MonthsBetweenInclusive(c.a, c.b); got != c.want {
			t.Errorf("MonthsBetweenInclusive(%s, %s) = %d, want %d",
				c.a.Format("2006-01-02"), c.b.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2025, time.July, 4, 13, 45, 12, 999, time.FixedZone("X", 7200))
	got := DateOnly(in)
	if !got.Equal(date(2025, time.July, 4)) {
		t.Errorf("expected 2025-07-04T00:00:00Z, got %s", got)
	}
}
