// Package locale derives the three locale facts a calendar keyboard needs:
// which weekday opens a week, the "month year" title and short weekday names.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/username/datepicker-bot/pkg/dateutil"
)

//go:embed locales/*.yaml
var catalogFS embed.FS

// ErrInvalidLocale is returned for empty or ill-formed language tags
var ErrInvalidLocale = errors.New("locale: invalid language tag")

const (
	msgMonthYear    = "month_year"
	msgMonthPrefix  = "month_"
	msgWeekdayShort = "weekday_short_"
)

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

// Locale is immutable and safe for concurrent use
type Locale struct {
	tag          language.Tag
	localizer    *i18n.Localizer
	firstWeekday time.Weekday
}

// Parse builds a Locale from a BCP 47 tag such as "en-US" or "de_DE"
func Parse(tag string) (*Locale, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty tag", ErrInvalidLocale)
	}

	parsed, err := language.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidLocale, tag, err)
	}

	b, err := catalogs()
	if err != nil {
		return nil, err
	}

	return &Locale{
		tag:          parsed,
		localizer:    i18n.NewLocalizer(b, parsed.String()),
		firstWeekday: firstWeekdayFor(parsed),
	}, nil
}

// MustParse is Parse for package-level values and tests
func MustParse(tag string) *Locale {
	l, err := Parse(tag)
	if err != nil {
		panic(err)
	}
	return l
}

// Tag returns the parsed language tag
func (l *Locale) Tag() language.Tag {
	return l.tag
}

// String returns the canonical BCP 47 form used on the callback wire
func (l *Locale) String() string {
	return l.tag.String()
}

// FirstWeekday returns the weekday shown in the first column
func (l *Locale) FirstWeekday() time.Weekday {
	return l.firstWeekday
}

// MonthYear renders the title for d's month, e.g. "January 2018"
func (l *Locale) MonthYear(d dateutil.Date) string {
	month := l.MonthName(d.Month)
	year := strconv.Itoa(d.Year)

	text, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID: msgMonthYear,
		TemplateData: map[string]string{
			"Month": month,
			"Year":  year,
		},
	})
	if err != nil || text == "" {
		return month + " " + year
	}
	return text
}

// MonthName returns the localized full month name
func (l *Locale) MonthName(m time.Month) string {
	return l.lookup(msgMonthPrefix+strconv.Itoa(int(m)), m.String())
}

// WeekdayShort returns the localized abbreviation, e.g. "Sun"
func (l *Locale) WeekdayShort(w time.Weekday) string {
	return l.lookup(msgWeekdayShort+strconv.Itoa(int(w)), w.String()[:3])
}

// DayNumber renders the day of month
func (l *Locale) DayNumber(d dateutil.Date) string {
	return strconv.Itoa(d.Day)
}

// TitleCase upper-cases the first word using the locale's casing rules
func (l *Locale) TitleCase(s string) string {
	head, tail, found := strings.Cut(s, " ")
	head = cases.Title(l.tag, cases.NoLower).String(head)
	if !found {
		return head
	}
	return head + " " + tail
}

func (l *Locale) lookup(id, fallback string) string {
	text, err := l.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil || text == "" {
		return fallback
	}
	return text
}

// Supported lists the languages that ship with a message catalog
func Supported() []language.Tag {
	b, err := catalogs()
	if err != nil {
		return nil
	}
	return b.LanguageTags()
}

func catalogs() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

		entries, err := catalogFS.ReadDir("locales")
		if err != nil {
			bundleErr = fmt.Errorf("failed to read locale catalogs: %w", err)
			return
		}

		for _, entry := range entries {
			path := "locales/" + entry.Name()
			if _, err := b.LoadMessageFileFS(catalogFS, path); err != nil {
				bundleErr = fmt.Errorf("failed to load locale catalog %s: %w", entry.Name(), err)
				return
			}
		}
		bundle = b
	})
	return bundle, bundleErr
}
