// Package menu keeps the selection state of a datepicker message and turns
// button presses into state changes and redraws.
package menu

import (
	"context"

	"github.com/username/datepicker-bot/internal/callback"
	"github.com/username/datepicker-bot/internal/locale"
	"github.com/username/datepicker-bot/internal/picker"
	"github.com/username/datepicker-bot/pkg/dateutil"
)

// State is what a rendered datepicker message remembers between clicks.
// Callers own it and persist it wherever they keep per-message data.
type State struct {
	Selected *dateutil.Date `json:"selected,omitempty"`
	Month    dateutil.Date  `json:"month"`
}

// NewState opens the picker at d's month with d selected
func NewState(d dateutil.Date) State {
	return State{Selected: &d, Month: d.FirstOfMonth()}
}

// IsSelected reports whether d is the current selection
func (s State) IsSelected(d dateutil.Date) bool {
	return s.Selected != nil && *s.Selected == d
}

// Event is one button press as delivered by a transport
type Event struct {
	// BotID identifies the bot or channel the press came from
	BotID string
	// MessageKey identifies the keyboard message; stores key state by it
	MessageKey string
	// Data is the raw callback string
	Data string
}

// Menu ties the layout engine to selection state and user hooks
type Menu struct {
	Locale  *locale.Locale
	Options []picker.Option

	// Highlight marks extra days besides the selection
	Highlight picker.Highlighter
	// MonthHighlight, when set, replaces Highlight for renders that have a
	// context, so the marks can be loaded per month before layout starts
	MonthHighlight func(ctx context.Context, month dateutil.Date) picker.Highlighter
	// MonthFilter vetoes navigation to a month when it returns false
	MonthFilter func(ctx context.Context, ev Event, month dateutil.Date) bool
	// DateFilter vetoes a selection when it returns false
	DateFilter func(ctx context.Context, ev Event, date dateutil.Date) bool
	// OnSelect runs for every accepted selection, including a repeated one
	OnSelect func(ctx context.Context, ev Event, date dateutil.Date)
}

// New creates a menu rendering in loc
func New(loc *locale.Locale, opts ...picker.Option) *Menu {
	return &Menu{Locale: loc, Options: opts}
}

// Render lays out the state's month in the menu locale
func (m *Menu) Render(s State) (*picker.Keyboard, error) {
	return m.render(s, m.Locale, m.Highlight)
}

// RenderContext is Render with MonthHighlight applied
func (m *Menu) RenderContext(ctx context.Context, s State) (*picker.Keyboard, error) {
	return m.renderIn(ctx, s, m.Locale)
}

func (m *Menu) renderIn(ctx context.Context, s State, loc *locale.Locale) (*picker.Keyboard, error) {
	user := m.Highlight
	if m.MonthHighlight != nil {
		user = m.MonthHighlight(ctx, s.Month)
	}
	return m.render(s, loc, user)
}

func (m *Menu) render(s State, loc *locale.Locale, user picker.Highlighter) (*picker.Keyboard, error) {
	month := s.Month
	return picker.Layout(&month, loc, highlighter(s, user), m.Options...)
}

func highlighter(s State, user picker.Highlighter) picker.Highlighter {
	return func(d dateutil.Date) bool {
		if s.IsSelected(d) {
			return true
		}
		return user != nil && user(d)
	}
}

type applyResult int

const (
	rejected applyResult = iota
	unchanged
	changed
)

// Apply folds a decoded intent into s. The flag is true when the keyboard
// must be redrawn.
func (m *Menu) Apply(ctx context.Context, ev Event, s State, intent *callback.Intent) (State, bool) {
	next, result := m.apply(ctx, ev, s, intent)
	return next, result == changed
}

func (m *Menu) apply(ctx context.Context, ev Event, s State, intent *callback.Intent) (State, applyResult) {
	if intent == nil {
		return s, rejected
	}

	switch intent.Kind {
	case callback.GotoMonth:
		if m.MonthFilter != nil && !m.MonthFilter(ctx, ev, intent.Date) {
			return s, rejected
		}
		target := intent.Date.FirstOfMonth()
		if target == s.Month.FirstOfMonth() {
			return s, unchanged
		}
		s.Month = target
		return s, changed

	case callback.SelectDate:
		if m.DateFilter != nil && !m.DateFilter(ctx, ev, intent.Date) {
			return s, rejected
		}
		if m.OnSelect != nil {
			m.OnSelect(ctx, ev, intent.Date)
		}
		if s.IsSelected(intent.Date) {
			return s, unchanged
		}
		selected := intent.Date
		s.Selected = &selected
		return s, changed
	}

	return s, rejected
}
