// Package calendar fetches production calendars (which days are working days,
// weekends or public holidays) and turns them into keyboard highlighters.
package calendar

import (
	"context"
	"time"

	"github.com/username/datepicker-bot/pkg/dateutil"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeShortened
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeShortened:
		return "shortened"
	default:
		return "unknown"
	}
}

// ParseDayType is the inverse of DayType.String
func ParseDayType(s string) (DayType, bool) {
	switch s {
	case "workday":
		return DayTypeWorkday, true
	case "weekend":
		return DayTypeWeekend, true
	case "holiday":
		return DayTypeHoliday, true
	case "shortened":
		return DayTypeShortened, true
	default:
		return 0, false
	}
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date dateutil.Date
	Type DayType
	Note string
}

// IsDayOff reports whether nobody works that day
func (d DayInfo) IsDayOff() bool {
	return d.Type == DayTypeWeekend || d.Type == DayTypeHoliday
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year     int
	Month    time.Month
	WorkDays int
	Weekends int
	Holidays int
	Days     []DayInfo
}

// Day looks up d in the month
func (m *MonthInfo) Day(d dateutil.Date) (DayInfo, bool) {
	for _, day := range m.Days {
		if day.Date == d {
			return day, true
		}
	}
	return DayInfo{}, false
}

func (m *MonthInfo) add(day DayInfo) {
	m.Days = append(m.Days, day)
	switch day.Type {
	case DayTypeWorkday, DayTypeShortened:
		m.WorkDays++
	case DayTypeWeekend:
		m.Weekends++
	case DayTypeHoliday:
		m.Holidays++
	}
}

// Source provides calendar data one month at a time
type Source interface {
	MonthInfo(ctx context.Context, year int, month time.Month) (*MonthInfo, error)
}
