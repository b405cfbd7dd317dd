// Package picker lays out a month as an inline keyboard descriptor: a
// navigation row, a title, a weekday header and one row per week.
package picker

import (
	"errors"
	"fmt"

	"github.com/username/datepicker-bot/internal/callback"
	"github.com/username/datepicker-bot/internal/locale"
	"github.com/username/datepicker-bot/pkg/dateutil"
)

var (
	// ErrInvalidArgument is the parent of every precondition failure in this package
	ErrInvalidArgument = errors.New("picker: invalid argument")
	// ErrNilDate is returned when Layout gets no reference date
	ErrNilDate = fmt.Errorf("%w: reference date is nil", ErrInvalidArgument)
	// ErrNilLocale is returned when Layout gets no locale
	ErrNilLocale = fmt.Errorf("%w: locale is nil", ErrInvalidArgument)
	// ErrInvalidButton is returned by Button.Validate
	ErrInvalidButton = fmt.Errorf("%w: inconsistent button", ErrInvalidArgument)
)

// ButtonKind tells an adapter what pressing the button does
type ButtonKind int

const (
	// Label buttons are decorative and decode to no intent
	Label ButtonKind = iota
	// GotoMonth buttons redraw the keyboard at Button.Date's month
	GotoMonth
	// SelectDate buttons choose Button.Date
	SelectDate
)

func (k ButtonKind) String() string {
	switch k {
	case Label:
		return "label"
	case GotoMonth:
		return "goto_month"
	case SelectDate:
		return "select_date"
	default:
		return fmt.Sprintf("ButtonKind(%d)", int(k))
	}
}

// Button is one keyboard cell. Date is nil exactly when Kind is Label.
type Button struct {
	Label string
	Kind  ButtonKind
	Date  *dateutil.Date
	// Highlighted is set on days the highlight predicate marked
	Highlighted bool
}

// Payload returns the callback string an adapter should attach to the button
func (b Button) Payload(loc *locale.Locale) string {
	if b.Date == nil {
		return callback.EncodeLabel()
	}
	switch b.Kind {
	case GotoMonth:
		return callback.EncodeGotoMonth(*b.Date, loc)
	case SelectDate:
		return callback.EncodeSelectDate(*b.Date, loc)
	default:
		return callback.EncodeLabel()
	}
}

// Validate checks that Date is set for the navigating kinds and only for them
func (b Button) Validate() error {
	switch b.Kind {
	case Label:
		if b.Date != nil {
			return fmt.Errorf("%w: label %q carries a date", ErrInvalidButton, b.Label)
		}
	case GotoMonth, SelectDate:
		if b.Date == nil {
			return fmt.Errorf("%w: %s button %q has no date", ErrInvalidButton, b.Kind, b.Label)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidButton, int(b.Kind))
	}
	return nil
}

// Row is a horizontal run of buttons
type Row []Button

// Keyboard is the rendered month. Rows are always, in order: navigation,
// title, weekday header, then the week rows.
type Keyboard struct {
	Locale *locale.Locale
	Rows   []Row
}

const (
	navigationRow = iota
	titleRow
	headerRow
	firstWeekRow
)

// NavigationRow holds up to four GotoMonth buttons; it may be empty
func (k *Keyboard) NavigationRow() Row {
	return k.row(navigationRow)
}

// TitleRow holds the single "month year" label
func (k *Keyboard) TitleRow() Row {
	return k.row(titleRow)
}

// HeaderRow holds the seven weekday labels
func (k *Keyboard) HeaderRow() Row {
	return k.row(headerRow)
}

// WeekRows returns the calendar weeks of the month
func (k *Keyboard) WeekRows() []Row {
	if len(k.Rows) <= firstWeekRow {
		return nil
	}
	return k.Rows[firstWeekRow:]
}

// Buttons returns every button in row order
func (k *Keyboard) Buttons() []Button {
	var all []Button
	for _, row := range k.Rows {
		all = append(all, row...)
	}
	return all
}

func (k *Keyboard) row(i int) Row {
	if i >= len(k.Rows) {
		return nil
	}
	return k.Rows[i]
}
