package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	// MinYear is the earliest year a Date can hold
	MinYear = -999_999_999
	// MaxYear is the latest year a Date can hold
	MaxYear = 999_999_999

	daysPerWeek = 7
	// 1970-01-01 was a Thursday
	epochWeekday = int64(time.Thursday)
)

var (
	// ErrInvalidDate means the year/month/day triple does not name a real day
	ErrInvalidDate = errors.New("dateutil: invalid date")
	// ErrOutOfRange means an operation left the representable range
	ErrOutOfRange = errors.New("dateutil: date out of range")
)

// MinDate and MaxDate bound every Date value
var (
	MinDate = Date{Year: MinYear, Month: time.January, Day: 1}
	MaxDate = Date{Year: MaxYear, Month: time.December, Day: 31}
)

// DateError reports a failed date construction
type DateError struct {
	Year   int64
	Month  int64
	Day    int64
	Reason string
	Err    error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%v: %d-%02d-%02d: %s", e.Err, e.Year, e.Month, e.Day, e.Reason)
}

func (e *DateError) Unwrap() error {
	return e.Err
}

// Date is a proleptic Gregorian calendar day without time or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates and builds a Date
func NewDate(year int, month time.Month, day int) (Date, error) {
	return newDate(int64(year), int64(month), int64(day))
}

func newDate(year, month, day int64) (Date, error) {
	if year < MinYear || year > MaxYear {
		return Date{}, &DateError{Year: year, Month: month, Day: day,
			Reason: "year out of range", Err: ErrOutOfRange}
	}
	if month < 1 || month > 12 {
		return Date{}, &DateError{Year: year, Month: month, Day: day,
			Reason: "month must be 1-12", Err: ErrInvalidDate}
	}
	if day < 1 || day > int64(DaysIn(int(year), time.Month(month))) {
		return Date{}, &DateError{Year: year, Month: month, Day: day,
			Reason: "day out of range for month", Err: ErrInvalidDate}
	}
	return Date{Year: int(year), Month: time.Month(month), Day: int(day)}, nil
}

// MustDate is NewDate for constants and tests; it panics on invalid input
func MustDate(year int, month time.Month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime returns the calendar day of t in t's location
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight of d in loc
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// IsLeapYear reports whether year has a February 29th
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the month
func DaysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// DaysInMonth returns the length of d's month
func (d Date) DaysInMonth() int {
	return DaysIn(d.Year, d.Month)
}

// FirstOfMonth returns the first day of d's month
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// LastOfMonth returns the last day of d's month
func (d Date) LastOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: d.DaysInMonth()}
}

// Weekday returns the day of the week
func (d Date) Weekday() time.Weekday {
	return time.Weekday(floorMod(d.epochDay()+epochWeekday, daysPerWeek))
}

// AddDays moves d by n days
func (d Date) AddDays(n int) (Date, error) {
	if n == 0 {
		return d, nil
	}
	y, m, day := civilFromDays(d.epochDay() + int64(n))
	return newDate(y, m, day)
}

// AddMonths moves d by n months, clamping the day to the target month's length
func (d Date) AddMonths(n int) (Date, error) {
	if n == 0 {
		return d, nil
	}
	total := int64(d.Year)*12 + int64(d.Month-1) + int64(n)
	year := floorDiv(total, 12)
	month := time.Month(floorMod(total, 12) + 1)
	return clamped(year, month, d.Day)
}

// AddYears moves d by n years; February 29th becomes the 28th in common years
func (d Date) AddYears(n int) (Date, error) {
	if n == 0 {
		return d, nil
	}
	return clamped(int64(d.Year)+int64(n), d.Month, d.Day)
}

func clamped(year int64, month time.Month, day int) (Date, error) {
	if year < MinYear || year > MaxYear {
		return Date{}, &DateError{Year: year, Month: int64(month), Day: int64(day),
			Reason: "year out of range", Err: ErrOutOfRange}
	}
	if last := DaysIn(int(year), month); day > last {
		day = last
	}
	return Date{Year: int(year), Month: month, Day: day}, nil
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d == o }

// String formats d as ISO-8601; years past 9999 carry an explicit sign
func (d Date) String() string {
	var year string
	abs := d.Year
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 1000 && d.Year < 0:
		year = fmt.Sprintf("-%04d", abs)
	case abs < 1000:
		year = fmt.Sprintf("%04d", abs)
	case d.Year > 9999:
		year = "+" + strconv.Itoa(d.Year)
	default:
		year = strconv.Itoa(d.Year)
	}
	return fmt.Sprintf("%s-%02d-%02d", year, int(d.Month), d.Day)
}

// epochDay counts days since 1970-01-01 (Howard Hinnant's days_from_civil)
func (d Date) epochDay() int64 {
	y := int64(d.Year)
	m := int64(d.Month)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + int64(d.Day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func civilFromDays(z int64) (year, month, day int64) {
	z += 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day = doy - (153*mp+2)/5 + 1
	month = mp + 3
	if month > 12 {
		month -= 12
	}
	year = yoe + era*400
	if month <= 2 {
		year++
	}
	return year, month, day
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
