package picker

import (
	"fmt"
	"time"

	"github.com/username/datepicker-bot/internal/locale"
	"github.com/username/datepicker-bot/pkg/dateutil"
)

// Highlighter marks days that get the highlight marker. Layout calls it once
// per day of the month and expects no side effects.
type Highlighter func(dateutil.Date) bool

// Layout builds the keyboard for ref's month. A nil highlight marks nothing.
func Layout(ref *dateutil.Date, loc *locale.Locale, highlight Highlighter, opts ...Option) (*Keyboard, error) {
	if ref == nil {
		return nil, ErrNilDate
	}
	if loc == nil {
		return nil, ErrNilLocale
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	nav, err := navigation(*ref)
	if err != nil {
		return nil, err
	}

	title := loc.MonthYear(*ref)
	if o.titleCase {
		title = loc.TitleCase(title)
	}

	rows := []Row{
		nav,
		{{Label: title, Kind: Label}},
		header(loc),
	}
	rows = append(rows, weeks(*ref, loc, highlight, o)...)

	return &Keyboard{Locale: loc, Rows: rows}, nil
}

// LayoutToday lays out the current month in local time
func LayoutToday(loc *locale.Locale, highlight Highlighter, opts ...Option) (*Keyboard, error) {
	today := dateutil.Today()
	return Layout(&today, loc, highlight, opts...)
}

// navigation returns «, ‹, ›, » minus the buttons that would leave the
// representable range
func navigation(ref dateutil.Date) (Row, error) {
	first := ref.FirstOfMonth()
	row := make(Row, 0, 4)

	add := func(label string, target func() (dateutil.Date, error)) error {
		d, err := target()
		if err != nil {
			return fmt.Errorf("failed to compute %s target for %s: %w", label, ref, err)
		}
		row = append(row, Button{Label: label, Kind: GotoMonth, Date: &d})
		return nil
	}

	if ref.Year != dateutil.MinYear {
		if err := add(PrevYearLabel, func() (dateutil.Date, error) { return first.AddYears(-1) }); err != nil {
			return nil, err
		}
	}
	if first != dateutil.MinDate {
		if err := add(PrevMonthLabel, func() (dateutil.Date, error) { return first.AddMonths(-1) }); err != nil {
			return nil, err
		}
	}
	if ref.LastOfMonth().Before(dateutil.MaxDate) {
		if err := add(NextMonthLabel, func() (dateutil.Date, error) { return first.AddMonths(1) }); err != nil {
			return nil, err
		}
	}
	if ref.Year != dateutil.MaxYear {
		if err := add(NextYearLabel, func() (dateutil.Date, error) { return first.AddYears(1) }); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func header(loc *locale.Locale) Row {
	row := make(Row, 7)
	start := loc.FirstWeekday()
	for i := range row {
		wd := time.Weekday((int(start) + i) % 7)
		row[i] = Button{Label: loc.WeekdayShort(wd), Kind: Label}
	}
	return row
}

func weeks(ref dateutil.Date, loc *locale.Locale, highlight Highlighter, o options) []Row {
	first := ref.FirstOfMonth()
	last := ref.LastOfMonth()
	start := loc.FirstWeekday()

	lead := dateutil.WeekdayOffset(first.Weekday(), start)
	trail := (int(start) + 7 - int(last.Weekday()) - 1) % 7
	if trail < 0 {
		trail += 7
	}

	cells := make([]Button, 0, lead+last.Day+trail)
	for i := 0; i < lead; i++ {
		cells = append(cells, Button{Label: o.pad, Kind: Label})
	}
	for day := 1; day <= last.Day; day++ {
		d := first
		d.Day = day

		label := loc.DayNumber(d)
		marked := highlight != nil && highlight(d)
		if marked {
			label += o.marker
		}
		cells = append(cells, Button{Label: label, Kind: SelectDate, Date: &d, Highlighted: marked})
	}
	for i := 0; i < trail; i++ {
		cells = append(cells, Button{Label: o.pad, Kind: Label})
	}

	rows := make([]Row, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		rows = append(rows, Row(cells[i : i+7 : i+7]))
	}
	return rows
}
