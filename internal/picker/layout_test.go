package picker

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/datepicker-bot/internal/locale"
	"github.com/username/datepicker-bot/pkg/dateutil"
)

func labels(row Row) []string {
	out := make([]string, len(row))
	for i, b := range row {
		out[i] = b.Label
	}
	return out
}

func only(target dateutil.Date) Highlighter {
	return func(d dateutil.Date) bool { return d == target }
}

func TestLayout_February2021US(t *testing.T) {
	ref := dateutil.MustDate(2021, time.February, 15)
	kb, err := Layout(&ref, locale.MustParse("en-US"), only(ref))
	require.NoError(t, err)

	assert.Equal(t, []string{"February 2021"}, labels(kb.TitleRow()))
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, labels(kb.HeaderRow()))

	// Feb 1 is a Monday and Feb 28 a Sunday: one leading pad, six trailing
	weeks := kb.WeekRows()
	require.Len(t, weeks, 5)

	assert.Equal(t, Label, weeks[0][0].Kind)
	assert.Equal(t, DefaultPadLabel, weeks[0][0].Label)
	assert.Equal(t, "1", weeks[0][1].Label)
	assert.Equal(t, SelectDate, weeks[0][1].Kind)

	last := weeks[4]
	assert.Equal(t, "28", last[0].Label)
	for i := 1; i < 7; i++ {
		assert.Equal(t, Label, last[i].Kind, "cell %d", i)
		assert.Nil(t, last[i].Date)
	}

	var marked []string
	for _, row := range weeks {
		for _, b := range row {
			if strings.HasSuffix(b.Label, DefaultHighlightMarker) {
				marked = append(marked, b.Label)
			}
		}
	}
	assert.Equal(t, []string{"15" + DefaultHighlightMarker}, marked)
}

func TestLayout_February2021MondayStart(t *testing.T) {
	ref := dateutil.MustDate(2021, time.February, 15)
	kb, err := Layout(&ref, locale.MustParse("en-GB"), nil)
	require.NoError(t, err)

	assert.Equal(t, "Mon", kb.HeaderRow()[0].Label)

	weeks := kb.WeekRows()
	require.Len(t, weeks, 4)
	assert.Equal(t, "1", weeks[0][0].Label)
	assert.Equal(t, "28", weeks[3][6].Label)
}

func TestLayout_SixWeeks(t *testing.T) {
	// May 2021 starts on Saturday and has 31 days
	ref := dateutil.MustDate(2021, time.May, 1)
	kb, err := Layout(&ref, locale.MustParse("en-US"), nil)
	require.NoError(t, err)

	weeks := kb.WeekRows()
	require.Len(t, weeks, 6)
	assert.Equal(t, "1", weeks[0][6].Label)
	assert.Equal(t, "31", weeks[5][1].Label)
}

func TestLayout_Properties(t *testing.T) {
	locales := []string{"en-US", "en-GB", "de-DE", "ar-EG", "dv-MV", "ja-JP"}

	for _, tag := range locales {
		loc := locale.MustParse(tag)
		start := loc.FirstWeekday()

		for year := 2015; year <= 2030; year++ {
			for month := time.January; month <= time.December; month++ {
				ref := dateutil.MustDate(year, month, 10)

				calls := map[dateutil.Date]int{}
				kb, err := Layout(&ref, loc, func(d dateutil.Date) bool {
					calls[d]++
					return false
				})
				require.NoError(t, err)

				days := ref.DaysInMonth()
				lead := dateutil.WeekdayOffset(ref.FirstOfMonth().Weekday(), start)
				trail := ((int(start)+7-int(ref.LastOfMonth().Weekday())-1)%7 + 7) % 7

				weeks := kb.WeekRows()
				assert.Equal(t, (lead+days+trail)/7, len(weeks), "%s %s", tag, ref)
				assert.GreaterOrEqual(t, len(weeks), 4)
				assert.LessOrEqual(t, len(weeks), 6)

				selects := 0
				for _, row := range weeks {
					require.Len(t, row, 7)
					for _, b := range row {
						require.NoError(t, b.Validate())
						if b.Kind == SelectDate {
							selects++
						}
					}
				}
				assert.Equal(t, days, selects)
				assert.Equal(t, days, len(calls))
				for d, n := range calls {
					assert.Equal(t, 1, n, "predicate called %d times for %s", n, d)
				}

				require.Len(t, kb.HeaderRow(), 7)
				assert.Equal(t, loc.WeekdayShort(start), kb.HeaderRow()[0].Label)
				assert.Len(t, kb.NavigationRow(), 4)
			}
		}
	}
}

func TestLayout_Navigation(t *testing.T) {
	loc := locale.MustParse("en-US")

	tests := []struct {
		name    string
		ref     dateutil.Date
		want    []string
		targets []dateutil.Date
	}{
		{
			name:    "interior",
			ref:     dateutil.MustDate(2021, time.February, 15),
			want:    []string{PrevYearLabel, PrevMonthLabel, NextMonthLabel, NextYearLabel},
			targets: []dateutil.Date{dateutil.MustDate(2020, 2, 1), dateutil.MustDate(2021, 1, 1), dateutil.MustDate(2021, 3, 1), dateutil.MustDate(2022, 2, 1)},
		},
		{
			name:    "january crosses year",
			ref:     dateutil.MustDate(2021, time.January, 31),
			want:    []string{PrevYearLabel, PrevMonthLabel, NextMonthLabel, NextYearLabel},
			targets: []dateutil.Date{dateutil.MustDate(2020, 1, 1), dateutil.MustDate(2020, 12, 1), dateutil.MustDate(2021, 2, 1), dateutil.MustDate(2022, 1, 1)},
		},
		{
			name:    "minimum date",
			ref:     dateutil.MinDate,
			want:    []string{NextMonthLabel, NextYearLabel},
			targets: []dateutil.Date{dateutil.MustDate(dateutil.MinYear, 2, 1), dateutil.MustDate(dateutil.MinYear+1, 1, 1)},
		},
		{
			name:    "later in minimum year",
			ref:     dateutil.MustDate(dateutil.MinYear, time.March, 3),
			want:    []string{PrevMonthLabel, NextMonthLabel, NextYearLabel},
			targets: []dateutil.Date{dateutil.MustDate(dateutil.MinYear, 2, 1), dateutil.MustDate(dateutil.MinYear, 4, 1), dateutil.MustDate(dateutil.MinYear+1, 3, 1)},
		},
		{
			name:    "maximum date",
			ref:     dateutil.MaxDate,
			want:    []string{PrevYearLabel, PrevMonthLabel},
			targets: []dateutil.Date{dateutil.MustDate(dateutil.MaxYear-1, 12, 1), dateutil.MustDate(dateutil.MaxYear, 11, 1)},
		},
		{
			name:    "earlier in maximum month",
			ref:     dateutil.MustDate(dateutil.MaxYear, time.December, 1),
			want:    []string{PrevYearLabel, PrevMonthLabel},
			targets: []dateutil.Date{dateutil.MustDate(dateutil.MaxYear-1, 12, 1), dateutil.MustDate(dateutil.MaxYear, 11, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb, err := Layout(&tt.ref, loc, nil)
			require.NoError(t, err)

			nav := kb.NavigationRow()
			assert.Equal(t, tt.want, labels(nav))
			require.Len(t, nav, len(tt.targets))
			for i, b := range nav {
				assert.Equal(t, GotoMonth, b.Kind)
				require.NotNil(t, b.Date)
				assert.Equal(t, tt.targets[i], *b.Date)
			}

			for _, row := range kb.WeekRows() {
				assert.Len(t, row, 7)
			}
		})
	}
}

func TestLayout_InvalidArguments(t *testing.T) {
	ref := dateutil.MustDate(2021, 2, 15)

	kb, err := Layout(nil, locale.MustParse("en-US"), nil)
	assert.Nil(t, kb)
	assert.True(t, errors.Is(err, ErrNilDate))
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	kb, err = Layout(&ref, nil, nil)
	assert.Nil(t, kb)
	assert.True(t, errors.Is(err, ErrNilLocale))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestLayout_Options(t *testing.T) {
	ref := dateutil.MustDate(2021, time.February, 15)
	kb, err := Layout(&ref, locale.MustParse("es-ES"), only(ref),
		WithHighlightMarker("*"),
		WithPadLabel("·"),
		WithTitleCase(true),
	)
	require.NoError(t, err)

	assert.Equal(t, "Febrero de 2021", kb.TitleRow()[0].Label)
	// es-ES starts on Monday, so the month begins without padding; the last
	// week is full as well
	weeks := kb.WeekRows()
	assert.Equal(t, "15*", weeks[2][0].Label)
	for _, row := range weeks {
		for _, b := range row {
			assert.Equal(t, b.Date != nil && *b.Date == ref, b.Highlighted, b.Label)
		}
	}

	ref = dateutil.MustDate(2021, time.March, 1)
	kb, err = Layout(&ref, locale.MustParse("es-ES"), nil, WithPadLabel("·"), WithPadLabel(""))
	require.NoError(t, err)
	last := kb.WeekRows()[len(kb.WeekRows())-1]
	assert.Equal(t, "·", last[6].Label)
}

func TestLayout_Localized(t *testing.T) {
	ref := dateutil.MustDate(2021, time.February, 15)

	tests := []struct {
		tag    string
		title  string
		header string
	}{
		{"de-DE", "Februar 2021", "Mo."},
		{"ru-RU", "февраль 2021", "пн"},
		{"ja-JP", "2021年2月", "日"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			kb, err := Layout(&ref, locale.MustParse(tt.tag), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.title, kb.TitleRow()[0].Label)
			assert.Equal(t, tt.header, kb.HeaderRow()[0].Label)
		})
	}
}

func TestLayoutToday(t *testing.T) {
	kb, err := LayoutToday(locale.MustParse("en-US"), nil)
	require.NoError(t, err)

	today := dateutil.Today()
	assert.Equal(t, locale.MustParse("en-US").MonthYear(today), kb.TitleRow()[0].Label)
}
