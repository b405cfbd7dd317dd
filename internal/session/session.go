// Package session runs a datepicker in the terminal. Each input line is
// either a command or raw callback data, so payloads copied from a real chat
// can be replayed as is.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/username/datepicker-bot/internal/callback"
	"github.com/username/datepicker-bot/internal/menu"
	"github.com/username/datepicker-bot/internal/picker"
	"github.com/username/datepicker-bot/internal/render"
	"github.com/username/datepicker-bot/internal/state"
	"github.com/username/datepicker-bot/pkg/dateutil"
)

const helpText = `commands:
  <day>               select a day of the shown month
  <  >  <<  >>        previous/next month, previous/next year
  today               jump back to today
  open YYYY-MM-DD     open the picker at a date
  show                redraw the keyboard
  payloads            list every button's callback data
  quit                leave the session
anything else is decoded as callback data`

// Session represents one interactive keyboard message
type Session struct {
	botID  string
	key    string
	store  state.Store
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
	start  dateutil.Date

	mu       sync.Mutex // guards menu, keyboard, current and ctx
	menu     *menu.Menu
	keyboard *picker.Keyboard
	current  menu.State
	ctx      context.Context

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Session
type Option func(*Session)

// WithKey resumes the message stored under key instead of starting a new one
func WithKey(key string) Option {
	return func(s *Session) {
		if key != "" {
			s.key = key
		}
	}
}

// WithStart opens a new message at d instead of today
func WithStart(d dateutil.Date) Option {
	return func(s *Session) {
		s.start = d
	}
}

// WithBotID sets the identifier used for listener registration
func WithBotID(id string) Option {
	return func(s *Session) {
		s.botID = id
	}
}

// New creates a session reading commands from in and writing keyboards to out
func New(m *menu.Menu, store state.Store, in io.Reader, out io.Writer, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		botID:  "console",
		key:    uuid.NewString(),
		store:  store,
		in:     in,
		out:    out,
		logger: logger,
		start:  dateutil.Today(),
		menu:   m,
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the message key under which state is stored
func (s *Session) Key() string {
	return s.key
}

// State returns the current selection state
func (s *Session) State() menu.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetMenu swaps the menu, e.g. after a config reload, and redraws
func (s *Session) SetMenu(m *menu.Menu) {
	s.mu.Lock()
	s.menu = m
	ctx := s.ctx
	s.mu.Unlock()

	s.logger.Info("Menu replaced", zap.String("locale", m.Locale.String()))
	if ctx == nil {
		ctx = context.Background()
	}
	s.redraw(ctx)
}

// Run serves commands until the input ends, quit is typed, ctx is cancelled
// or the process receives SIGINT/SIGTERM
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if !menu.Listeners.Register(s.botID) {
		s.logger.Debug("Listener already registered", zap.String("bot_id", s.botID))
	}

	if err := s.restore(ctx); err != nil {
		return err
	}
	s.redraw(ctx)

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.logger.Info("Session started",
		zap.String("message_key", s.key),
		zap.Stringer("month", s.State().Month))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Session stopped")
			return nil

		case <-s.stop:
			s.logger.Info("Session stopped")
			return nil

		case sig := <-sigChan:
			s.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			return nil

		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			s.logger.Info("Input closed, session finished")
			return nil

		case line := <-lines:
			if !s.handleLine(ctx, strings.TrimSpace(line)) {
				s.logger.Info("Session finished by user")
				return nil
			}
		}
	}
}

// Stop ends the session. Calling it before Run makes Run return right after
// the first keyboard is drawn.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *Session) restore(ctx context.Context) error {
	saved, ok, err := s.store.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok {
		s.current = saved
		s.logger.Info("Resumed saved picker", zap.String("message_key", s.key))
		return nil
	}

	s.current = menu.NewState(s.start)
	return s.store.Save(ctx, s.key, s.current)
}

// handleLine returns false when the session should end
func (s *Session) handleLine(ctx context.Context, line string) bool {
	switch {
	case line == "":
		return true
	case line == "quit" || line == "exit":
		return false
	case line == "help":
		fmt.Fprintln(s.out, helpText)
	case line == "show":
		s.redraw(ctx)
	case line == "payloads":
		s.mu.Lock()
		kb := s.keyboard
		s.mu.Unlock()
		if kb != nil {
			render.WritePayloads(kb, s.out)
		}
	case line == "today":
		s.reset(ctx, dateutil.Today())
	case strings.HasPrefix(line, "open "):
		d, err := dateutil.ParseDate(strings.TrimSpace(strings.TrimPrefix(line, "open ")))
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return true
		}
		s.reset(ctx, d)
	default:
		s.press(ctx, s.resolve(line))
	}
	return true
}

// resolve maps shortcuts to the callback data of the matching button
func (s *Session) resolve(line string) string {
	s.mu.Lock()
	kb := s.keyboard
	s.mu.Unlock()
	if kb == nil {
		return line
	}

	nav := map[string]string{
		"<<": picker.PrevYearLabel,
		"<":  picker.PrevMonthLabel,
		">":  picker.NextMonthLabel,
		">>": picker.NextYearLabel,
	}
	if label, ok := nav[line]; ok {
		for _, b := range kb.NavigationRow() {
			if b.Label == label {
				return b.Payload(kb.Locale)
			}
		}
		// the button is hidden at the range boundary
		return callback.EncodeLabel()
	}

	if day, err := strconv.Atoi(line); err == nil {
		for _, row := range kb.WeekRows() {
			for _, b := range row {
				if b.Kind == picker.SelectDate && b.Date.Day == day {
					return b.Payload(kb.Locale)
				}
			}
		}
	}
	return line
}

func (s *Session) press(ctx context.Context, data string) {
	s.mu.Lock()
	d := menu.NewDispatcher(s.menu, s.logger)
	current := s.current
	s.mu.Unlock()

	out, err := d.Handle(ctx, menu.Event{BotID: s.botID, MessageKey: s.key, Data: data}, current)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	switch out.Kind {
	case menu.OutcomeIgnored:
		fmt.Fprintln(s.out, "(ignored)")
		return
	case menu.OutcomeSelected:
		fmt.Fprintf(s.out, "selected %s\n", out.Date)
	}

	if err := s.commit(ctx, out.State, out.Keyboard); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Session) reset(ctx context.Context, d dateutil.Date) {
	s.mu.Lock()
	next := menu.NewState(d)
	if s.current.Selected != nil {
		next.Selected = s.current.Selected
	}
	s.mu.Unlock()

	if err := s.commit(ctx, next, nil); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.redraw(ctx)
}

// commit saves next and prints kb when it is set
func (s *Session) commit(ctx context.Context, next menu.State, kb *picker.Keyboard) error {
	if err := s.store.Save(ctx, s.key, next); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	s.mu.Lock()
	s.current = next
	if kb != nil {
		s.keyboard = kb
	}
	s.mu.Unlock()

	if kb != nil {
		render.Text(kb, s.out)
	}
	return nil
}

func (s *Session) redraw(ctx context.Context) {
	s.mu.Lock()
	m, current := s.menu, s.current
	s.mu.Unlock()

	kb, err := m.RenderContext(ctx, current)
	if err != nil {
		s.logger.Error("Failed to render keyboard", zap.Error(err))
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	s.mu.Lock()
	s.keyboard = kb
	s.mu.Unlock()

	render.Text(kb, s.out)
}
