// Package callback encodes calendar navigation into callback strings and
// decodes them back. The format is
//
//	ext:datepicker:<year>:<month>|<locale>        go to month
//	ext:datepicker:<year>:<month>:<day>|<locale>  select date
//
// Strings that do not follow it are not ours and decode to no intent.
package callback

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/datepicker-bot/internal/locale"
	"github.com/username/datepicker-bot/pkg/dateutil"
)

const (
	// Prefix marks callback data produced by this package
	Prefix = "ext:datepicker:"

	fieldSep  = ":"
	localeSep = "|"
)

// Kind is the decoded meaning of a callback string
type Kind int

const (
	// GotoMonth redraws the keyboard at another month
	GotoMonth Kind = iota + 1
	// SelectDate reports the chosen day
	SelectDate
)

func (k Kind) String() string {
	switch k {
	case GotoMonth:
		return "goto_month"
	case SelectDate:
		return "select_date"
	default:
		return "unknown"
	}
}

// Intent is a decoded navigation request. For GotoMonth, Date is the first of the month.
type Intent struct {
	Kind   Kind
	Date   dateutil.Date
	Locale *locale.Locale
}

// EncodeGotoMonth encodes a jump to d's month
func EncodeGotoMonth(d dateutil.Date, loc *locale.Locale) string {
	return fmt.Sprintf("%s%d:%d|%s", Prefix, d.Year, int(d.Month), loc.String())
}

// EncodeSelectDate encodes the choice of d
func EncodeSelectDate(d dateutil.Date, loc *locale.Locale) string {
	return fmt.Sprintf("%s%d:%d:%d|%s", Prefix, d.Year, int(d.Month), d.Day, loc.String())
}

// EncodeLabel returns the payload for decorative buttons; Decode always rejects it
func EncodeLabel() string {
	return Prefix
}

// IsDatePicker reports whether data carries this package's prefix
func IsDatePicker(data string) bool {
	return strings.HasPrefix(data, Prefix)
}

// Decode parses a callback string.
//
// Foreign or malformed strings yield (nil, nil). A locale suffix that is not
// a well-formed BCP 47 tag also yields (nil, nil). Strings whose numbers parse
// but do not name a real day yield a *dateutil.DateError.
func Decode(data string) (*Intent, error) {
	payload, ok := strings.CutPrefix(data, Prefix)
	if !ok {
		return nil, nil
	}

	parts := strings.Split(payload, localeSep)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil
	}

	fields := strings.Split(parts[0], fieldSep)
	if len(fields) != 2 && len(fields) != 3 {
		return nil, nil
	}

	values := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseInt(field, 10, 32)
		if err != nil {
			return nil, nil
		}
		values[i] = int(v)
	}

	loc, err := locale.Parse(parts[1])
	if err != nil {
		return nil, nil
	}

	kind, day := GotoMonth, 1
	if len(values) == 3 {
		kind, day = SelectDate, values[2]
	}

	date, err := dateutil.NewDate(values[0], time.Month(values[1]), day)
	if err != nil {
		return nil, err
	}

	return &Intent{Kind: kind, Date: date, Locale: loc}, nil
}
