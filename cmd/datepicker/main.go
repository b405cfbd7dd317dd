package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/datepicker-bot/internal/calendar"
	"github.com/username/datepicker-bot/internal/callback"
	"github.com/username/datepicker-bot/internal/config"
	"github.com/username/datepicker-bot/internal/locale"
	"github.com/username/datepicker-bot/internal/menu"
	"github.com/username/datepicker-bot/internal/picker"
	"github.com/username/datepicker-bot/internal/render"
	"github.com/username/datepicker-bot/pkg/dateutil"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "datepicker",
		Short: "Inline calendar keyboards for chat bots",
		Long:  "Render datepicker keyboards, decode their callback data and drive an interactive picker from the terminal",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml if present)")

	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(sessionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func renderCmd() *cobra.Command {
	var dateStr string
	var localeTag string
	var highlight bool
	var payloads bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the keyboard for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if localeTag != "" {
				cfg.Picker.Locale = localeTag
			}

			ref := dateutil.Today()
			if dateStr != "" {
				ref, err = dateutil.ParseDate(dateStr)
				if err != nil {
					return fmt.Errorf("invalid date: %w", err)
				}
			}

			m, err := initializeMenu(cfg)
			if err != nil {
				return err
			}
			if !highlight {
				m.MonthHighlight = nil
			}

			kb, err := m.RenderContext(cmd.Context(), menu.State{Month: ref.FirstOfMonth()})
			if err != nil {
				return fmt.Errorf("failed to render keyboard: %w", err)
			}

			if payloads {
				return render.WritePayloads(kb, cmd.OutOrStdout())
			}
			return render.Text(kb, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "Any day of the month to show (default: today)")
	cmd.Flags().StringVarP(&localeTag, "locale", "l", "", "BCP 47 locale, overrides picker.locale")
	cmd.Flags().BoolVar(&highlight, "highlight", true, "Mark days from the configured holiday source")
	cmd.Flags().BoolVar(&payloads, "payloads", false, "Print callback data instead of the grid")

	return cmd
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <callback-data>",
		Short: "Explain a callback string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			intent, err := callback.Decode(args[0])
			if err != nil {
				return fmt.Errorf("failed to decode: %w", err)
			}
			if intent == nil {
				switch {
				case args[0] == callback.EncodeLabel():
					fmt.Fprintln(out, "label button, no action")
				case callback.IsDatePicker(args[0]):
					fmt.Fprintln(out, "malformed datepicker callback")
				default:
					fmt.Fprintln(out, "not a datepicker callback")
				}
				return nil
			}

			fmt.Fprintf(out, "kind:    %s\n", intent.Kind)
			fmt.Fprintf(out, "date:    %s\n", intent.Date)
			fmt.Fprintf(out, "locale:  %s\n", intent.Locale)
			fmt.Fprintf(out, "month:   %s\n", intent.Locale.MonthYear(intent.Date))
			return nil
		},
	}
}

// initializeMenu builds the menu described by cfg, including holiday marks
func initializeMenu(cfg *config.Config) (*menu.Menu, error) {
	loc, err := locale.Parse(cfg.Picker.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale: %w", err)
	}

	m := menu.New(loc,
		picker.WithHighlightMarker(cfg.Picker.HighlightMarker),
		picker.WithPadLabel(cfg.Picker.PadLabel),
		picker.WithTitleCase(cfg.Picker.TitleCase),
	)

	src, err := initializeCalendar(cfg)
	if err != nil {
		return nil, err
	}
	if src != nil {
		m.MonthHighlight = calendar.MonthHighlighter(src, logger, cfg.Holidays.MarkTypes()...)
	}

	m.OnSelect = func(ctx context.Context, ev menu.Event, date dateutil.Date) {
		logger.Info("Picker selection",
			zap.String("bot_id", ev.BotID),
			zap.String("message_key", ev.MessageKey),
			zap.Stringer("date", date))
	}

	return m, nil
}

// initializeCalendar returns the holiday source, or nil when marks are off
func initializeCalendar(cfg *config.Config) (calendar.Source, error) {
	switch cfg.Holidays.Type {
	case "", "none":
		return nil, nil

	case "isdayoff":
		logger.Info("Using isdayoff.ru calendar API")
		return calendar.NewIsDayOffCalendar(
			cfg.Holidays.FallbackURL,
			cfg.Holidays.GetCacheTTL(),
			logger,
		), nil

	case "production-calendar":
		logger.Info("Using production-calendar.ru API")
		return calendar.NewProductionCalendar(
			cfg.Holidays.APIURL,
			cfg.Holidays.APIToken,
			cfg.Holidays.Country,
			cfg.Holidays.GetCacheTTL(),
			logger,
		), nil

	case "file":
		logger.Info("Using holiday file", zap.String("file", cfg.Holidays.File))
		fileCal := calendar.NewFileCalendar(cfg.Holidays.File, logger)
		if err := fileCal.Load(); err != nil {
			return nil, fmt.Errorf("failed to load holiday file: %w", err)
		}
		return fileCal, nil

	case "composite":
		logger.Info("Using isdayoff.ru with holiday file fallback")
		primaryCal := calendar.NewIsDayOffCalendar(
			cfg.Holidays.FallbackURL,
			cfg.Holidays.GetCacheTTL(),
			logger,
		)
		fallbackCal := calendar.NewFileCalendar(cfg.Holidays.File, logger)
		compositeCal := calendar.NewCompositeCalendar(primaryCal, fallbackCal, logger)

		// Load fallback calendar
		if err := compositeCal.LoadFallback(); err != nil {
			logger.Warn("Failed to load fallback calendar, continuing with API only",
				zap.Error(err))
		}
		return compositeCal, nil

	default:
		return nil, fmt.Errorf("unknown holidays type: %s", cfg.Holidays.Type)
	}
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
