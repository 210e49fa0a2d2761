package types

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock time in the fixed civil zone, without a date.
// The zero value is midnight.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a strict 24-hour "HH:MM" string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day: %s", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in time of day: %s", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in time of day: %s", s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String returns the zero-padded 24-hour form, e.g. "08:05"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Clock12 returns the 12-hour display form, e.g. "8:05 AM"
func (t TimeOfDay) Clock12() string {
	amPm := "AM"
	hour := t.Hour
	if hour >= 12 {
		amPm = "PM"
	}
	switch {
	case hour == 0:
		hour = 12
	case hour > 12:
		hour -= 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, amPm)
}
