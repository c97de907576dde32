package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight,
// in the range [0, 1440).
type TimeOfDay int

// minutesPerDay bounds TimeOfDay values.
const minutesPerDay = 24 * 60

// NewTimeOfDay builds a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("parse time of day %q: %w", s, ErrMalformedWindow)
	}
	return NewTimeOfDay(hour, minute), nil
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Weekdays is a set of allowed weekdays, one bit per time.Weekday.
type Weekdays uint8

// Has reports whether d is in the set.
func (w Weekdays) Has(d time.Weekday) bool {
	return w&(1<<uint(d)) != 0
}

// With returns the set with d added.
func (w Weekdays) With(d time.Weekday) Weekdays {
	return w | 1<<uint(d)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseWeekdays parses a comma-separated day list such as "mon,tue,fri".
// Unknown day names are rejected.
func ParseWeekdays(s string) (Weekdays, error) {
	var days Weekdays
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		d, ok := weekdayNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q: %w", name, ErrMalformedWindow)
		}
		days = days.With(d)
	}
	return days, nil
}

// String formats the set back into the comma-separated storage form,
// starting from Monday.
func (w Weekdays) String() string {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	names := map[time.Weekday]string{
		time.Monday: "mon", time.Tuesday: "tue", time.Wednesday: "wed",
		time.Thursday: "thu", time.Friday: "fri", time.Saturday: "sat",
		time.Sunday: "sun",
	}
	parts := make([]string, 0, 7)
	for _, d := range order {
		if w.Has(d) {
			parts = append(parts, names[d])
		}
	}
	return strings.Join(parts, ",")
}

// Window is a dayparting run window: a daily time range restricted to a
// set of weekdays. A window whose start is after its end wraps around
// midnight (e.g. 22:00-06:00). Both bounds are inclusive.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
	Days  Weekdays
}

// Validate rejects windows with no allowed days or out-of-range bounds.
func (w Window) Validate() error {
	if w.Days == 0 {
		return fmt.Errorf("empty day set: %w", ErrMalformedWindow)
	}
	if w.Start < 0 || w.Start >= minutesPerDay || w.End < 0 || w.End >= minutesPerDay {
		return fmt.Errorf("time bounds out of range: %w", ErrMalformedWindow)
	}
	return nil
}

// Contains reports whether now falls inside the window. The weekday of
// now is checked against the allowed set before the time range, so an
// overnight window that runs into the next morning requires that next
// day in the set as well.
func (w Window) Contains(now time.Time) bool {
	if !w.Days.Has(now.Weekday()) {
		return false
	}
	t := NewTimeOfDay(now.Hour(), now.Minute())
	if w.Start <= w.End {
		return w.Start <= t && t <= w.End
	}
	return t >= w.Start || t <= w.End
}

// DaypartingSchedule restricts the hours during which its campaigns run.
// Schedules are shared by zero or more campaigns and are read-only to the
// enforcement engine.
type DaypartingSchedule struct {
	ID     int64
	Window Window
}
