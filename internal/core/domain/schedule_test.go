package domain

import (
	"errors"
	"testing"
	"time"
)

func TestWindowContains(t *testing.T) {
	// 2026-01-05 is a Monday.
	monday := func(hour, minute int) time.Time {
		return time.Date(2026, 1, 5, hour, minute, 0, 0, time.UTC)
	}
	tuesday := func(hour, minute int) time.Time {
		return time.Date(2026, 1, 6, hour, minute, 0, 0, time.UTC)
	}

	business := Window{
		Start: NewTimeOfDay(9, 0),
		End:   NewTimeOfDay(17, 0),
		Days:  Weekdays(0).With(time.Monday).With(time.Tuesday),
	}
	overnight := Window{
		Start: NewTimeOfDay(22, 0),
		End:   NewTimeOfDay(6, 0),
		Days:  Weekdays(0).With(time.Monday),
	}

	cases := []struct {
		name   string
		window Window
		now    time.Time
		want   bool
	}{
		{"inside business hours", business, monday(12, 30), true},
		{"start bound is inclusive", business, monday(9, 0), true},
		{"end bound is inclusive", business, monday(17, 0), true},
		{"just before start", business, monday(8, 59), false},
		{"just after end", business, monday(17, 1), false},
		{"overnight early morning", overnight, monday(2, 0), true},
		{"overnight late evening", overnight, monday(23, 0), true},
		{"overnight gap hours", overnight, monday(7, 0), false},
		{"overnight day not allowed", overnight, tuesday(2, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.window.Contains(tc.now); got != tc.want {
				t.Fatalf("Contains(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestWindowValidate(t *testing.T) {
	valid := Window{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(17, 0), Days: Weekdays(0).With(time.Monday)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}

	noDays := Window{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(17, 0)}
	if err := noDays.Validate(); !errors.Is(err, ErrMalformedWindow) {
		t.Fatalf("empty day set: got %v, want ErrMalformedWindow", err)
	}

	outOfRange := Window{Start: TimeOfDay(1500), End: NewTimeOfDay(6, 0), Days: Weekdays(0).With(time.Monday)}
	if err := outOfRange.Validate(); !errors.Is(err, ErrMalformedWindow) {
		t.Fatalf("out-of-range bound: got %v, want ErrMalformedWindow", err)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("ParseTimeOfDay error: %v", err)
	}
	if got != NewTimeOfDay(9, 30) {
		t.Fatalf("got %d, want %d", got, NewTimeOfDay(9, 30))
	}
	if got.String() != "09:30" {
		t.Fatalf("String() = %q, want %q", got.String(), "09:30")
	}

	if _, err = ParseTimeOfDay("25:00"); !errors.Is(err, ErrMalformedWindow) {
		t.Fatalf("hour out of range: got %v, want ErrMalformedWindow", err)
	}
	if _, err = ParseTimeOfDay("bogus"); err == nil {
		t.Fatal("expected error for unparseable input")
	}
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays("mon, tue,FRI")
	if err != nil {
		t.Fatalf("ParseWeekdays error: %v", err)
	}
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Friday} {
		if !days.Has(d) {
			t.Fatalf("expected %v in set", d)
		}
	}
	if days.Has(time.Sunday) {
		t.Fatal("sunday should not be in set")
	}
	if days.String() != "mon,tue,fri" {
		t.Fatalf("String() = %q, want %q", days.String(), "mon,tue,fri")
	}

	if _, err = ParseWeekdays("mon,funday"); !errors.Is(err, ErrMalformedWindow) {
		t.Fatalf("unknown day: got %v, want ErrMalformedWindow", err)
	}
}
