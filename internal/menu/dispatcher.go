package menu

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/username/datepicker-bot/internal/callback"
	"github.com/username/datepicker-bot/internal/picker"
	"github.com/username/datepicker-bot/pkg/dateutil"
)

// OutcomeKind says what a transport should do after a press
type OutcomeKind int

const (
	// OutcomeIgnored means the data was foreign or the press changed nothing
	OutcomeIgnored OutcomeKind = iota
	// OutcomeRerender means the month changed and Keyboard must replace the message
	OutcomeRerender
	// OutcomeSelected means a date was picked; Keyboard is set when the highlight moved
	OutcomeSelected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeRerender:
		return "rerender"
	case OutcomeSelected:
		return "selected"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of handling one press
type Outcome struct {
	Kind     OutcomeKind
	State    State
	Keyboard *picker.Keyboard
	Date     dateutil.Date
}

// Dispatcher decodes callback data and drives a Menu
type Dispatcher struct {
	menu   *Menu
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher for m
func NewDispatcher(m *Menu, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		menu:   m,
		logger: logger,
	}
}

// Handle processes one press against the message's current state. A payload
// that parses but names no real day is logged and returned as an error.
func (d *Dispatcher) Handle(ctx context.Context, ev Event, s State) (Outcome, error) {
	ignored := Outcome{Kind: OutcomeIgnored, State: s}

	intent, err := callback.Decode(ev.Data)
	if err != nil {
		var dateErr *dateutil.DateError
		if errors.As(err, &dateErr) {
			d.logger.Warn("Callback carries an invalid date",
				zap.String("bot_id", ev.BotID),
				zap.String("message_key", ev.MessageKey),
				zap.String("data", ev.Data),
				zap.String("reason", dateErr.Reason))
		}
		return ignored, fmt.Errorf("failed to decode callback %q: %w", ev.Data, err)
	}
	if intent == nil {
		d.logger.Debug("Ignoring foreign callback",
			zap.String("message_key", ev.MessageKey),
			zap.String("data", ev.Data))
		return ignored, nil
	}

	next, result := d.menu.apply(ctx, ev, s, intent)
	if result == rejected {
		d.logger.Debug("Press rejected by filter",
			zap.String("message_key", ev.MessageKey),
			zap.Stringer("kind", intent.Kind),
			zap.Stringer("date", intent.Date))
		return ignored, nil
	}

	var kb *picker.Keyboard
	if result == changed {
		kb, err = d.menu.renderIn(ctx, next, intent.Locale)
		if err != nil {
			return ignored, fmt.Errorf("failed to render keyboard: %w", err)
		}
	}

	switch intent.Kind {
	case callback.GotoMonth:
		if kb == nil {
			return Outcome{Kind: OutcomeIgnored, State: next}, nil
		}
		d.logger.Debug("Month changed",
			zap.String("message_key", ev.MessageKey),
			zap.Stringer("month", next.Month))
		return Outcome{Kind: OutcomeRerender, State: next, Keyboard: kb, Date: next.Month}, nil

	case callback.SelectDate:
		d.logger.Info("Date selected",
			zap.String("message_key", ev.MessageKey),
			zap.Stringer("date", intent.Date),
			zap.Bool("changed", kb != nil))
		return Outcome{Kind: OutcomeSelected, State: next, Keyboard: kb, Date: intent.Date}, nil
	}

	return Outcome{Kind: OutcomeIgnored, State: next}, nil
}
