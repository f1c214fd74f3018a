package kakeibo

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2025-01-15", NewDate(2025, time.January, 15)},
		{"2025-1-2", NewDate(2025, time.January, 2)},
		{"0d", Today()},
		{"-7d", Today().Add(-7)},
		{"+1m", Today().AddMonth(1)},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}

	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("expected an error for garbage input")
	}
}

func TestRangeContains(t *testing.T) {
	from := NewDate(2025, time.January, 1)
	to := NewDate(2025, time.January, 31)
	r := NewRange(from, to)

	if !r.Contains(from) || !r.Contains(to) {
		t.Error("range bounds are inclusive")
	}
	if r.Contains(from.Add(-1)) || r.Contains(to.Add(1)) {
		t.Error("dates outside the range must not be contained")
	}

	// A zero boundary is unbounded on that side.
	open := Range{To: to}
	if !open.Contains(NewDate(1999, time.December, 31)) {
		t.Error("zero From must be unbounded")
	}
}

func TestNewRangeSwapsInverted(t *testing.T) {
	a := NewDate(2025, time.March, 10)
	b := NewDate(2025, time.March, 1)
	r := NewRange(a, b)
	if r.From != b || r.To != a {
		t.Errorf("NewRange must order its bounds, got %s..%s", r.From, r.To)
	}
}

func TestPeriodRange(t *testing.T) {
	on := NewDate(2025, time.February, 14)
	r := Monthly.Range(on)
	if r.From != NewDate(2025, time.February, 1) || r.To != NewDate(2025, time.February, 28) {
		t.Errorf("Monthly.Range = %s..%s", r.From, r.To)
	}
}
