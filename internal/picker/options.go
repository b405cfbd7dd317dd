package picker

const (
	// DefaultHighlightMarker is appended to highlighted day numbers
	DefaultHighlightMarker = "•"
	// DefaultPadLabel fills cells outside the month
	DefaultPadLabel = " "

	// Navigation labels, left to right
	PrevYearLabel  = "\u00ab"
	PrevMonthLabel = "\u2039"
	NextMonthLabel = "\u203a"
	NextYearLabel  = "\u00bb"
)

type options struct {
	marker    string
	pad       string
	titleCase bool
}

func defaultOptions() options {
	return options{
		marker: DefaultHighlightMarker,
		pad:    DefaultPadLabel,
	}
}

// Option tweaks how Layout labels buttons
type Option func(*options)

// WithHighlightMarker replaces the suffix of highlighted days
func WithHighlightMarker(marker string) Option {
	return func(o *options) {
		o.marker = marker
	}
}

// WithPadLabel replaces the label of blank cells. Telegram rejects empty
// button text, so an empty value is ignored.
func WithPadLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.pad = label
		}
	}
}

// WithTitleCase upper-cases the first letter of the title, for locales whose
// month names are lower case ("febrero de 2021")
func WithTitleCase(enabled bool) Option {
	return func(o *options) {
		o.titleCase = enabled
	}
}
