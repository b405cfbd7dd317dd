package dateutil

import (
	"fmt"
	"time"
)

// WeekdayOffset returns how many columns wd sits after first in a week row
func WeekdayOffset(wd, first time.Weekday) int {
	return int(floorMod(int64(wd)-int64(first), daysPerWeek))
}

// StartOfWeek returns the day that opens d's week when weeks begin on first
func StartOfWeek(d Date, first time.Weekday) (Date, error) {
	return d.AddDays(-WeekdayOffset(d.Weekday(), first))
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (Date, error) {
	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05-0700",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return FromTime(t), nil
		}
	}

	return Date{}, fmt.Errorf("%w: unrecognised date %q", ErrInvalidDate, dateStr)
}

// Today returns today's date in the local zone
func Today() Date {
	return FromTime(time.Now())
}
