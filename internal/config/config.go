package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/username/datepicker-bot/internal/calendar"
	"github.com/username/datepicker-bot/internal/locale"
)

// Config represents application configuration
type Config struct {
	Picker   PickerConfig   `mapstructure:"picker"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	State    StateConfig    `mapstructure:"state"`
	Log      LogConfig      `mapstructure:"log"`
}

// PickerConfig controls how keyboards are drawn
type PickerConfig struct {
	Locale          string `mapstructure:"locale"`
	HighlightMarker string `mapstructure:"highlight_marker"`
	PadLabel        string `mapstructure:"pad_label"`
	TitleCase       bool   `mapstructure:"title_case"`
}

// HolidaysConfig selects the production calendar used to mark days off
type HolidaysConfig struct {
	Type        string   `mapstructure:"type"`         // "none", "isdayoff", "production-calendar", "file" or "composite"
	FallbackURL string   `mapstructure:"fallback_url"` // For isdayoff type (xmlcalendar.ru)
	File        string   `mapstructure:"file"`         // For file and composite types
	CacheTTL    string   `mapstructure:"cache_ttl"`
	Mark        []string `mapstructure:"mark"` // day types to highlight, default holiday

	// production-calendar.ru
	APIURL   string `mapstructure:"api_url"`
	APIToken string `mapstructure:"api_token"`
	Country  string `mapstructure:"country"`
}

// StateConfig represents state storage configuration
type StateConfig struct {
	Backend       string `mapstructure:"backend"` // "memory", "file" or "redis"
	File          string `mapstructure:"file"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	TTL           string `mapstructure:"ttl"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("picker.locale", "en-US")
	v.SetDefault("picker.highlight_marker", "•")
	v.SetDefault("picker.pad_label", " ")
	v.SetDefault("picker.title_case", false)

	v.SetDefault("holidays.type", "none")
	v.SetDefault("holidays.fallback_url", "https://xmlcalendar.ru/data/ru/{year}/calendar.json")
	v.SetDefault("holidays.cache_ttl", "24h")
	v.SetDefault("holidays.file", "")
	v.SetDefault("holidays.mark", []string{"holiday"})
	v.SetDefault("holidays.api_url", "https://production-calendar.ru")
	v.SetDefault("holidays.api_token", "")
	v.SetDefault("holidays.country", "ru")

	v.SetDefault("state.backend", "memory")
	v.SetDefault("state.file", "datepicker_state.json")
	v.SetDefault("state.redis_addr", "127.0.0.1:6379")
	v.SetDefault("state.redis_password", "")
	v.SetDefault("state.redis_db", 0)
	v.SetDefault("state.key_prefix", "datepicker:state:")
	v.SetDefault("state.ttl", "168h")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.datepicker-bot")
		v.AddConfigPath("/etc/datepicker-bot")
	}

	// DATEPICKER_PICKER_LOCALE overrides picker.locale
	v.SetEnvPrefix("datepicker")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load loads configuration from file. Without an explicit path a missing
// config file is not an error and defaults apply.
func Load(configPath string) (*Config, error) {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Watch loads configPath and calls onChange with every later valid revision
// of the file. Invalid revisions are logged and skipped.
func Watch(configPath string, logger *zap.Logger, onChange func(*Config)) (*Config, error) {
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(v)
		if err != nil {
			logger.Warn("Ignoring invalid config change",
				zap.String("file", e.Name),
				zap.Error(err))
			return
		}
		logger.Info("Config reloaded",
			zap.String("file", e.Name),
			zap.String("op", e.Op.String()))
		onChange(next)
	})
	v.WatchConfig()

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := locale.Parse(c.Picker.Locale); err != nil {
		return fmt.Errorf("picker.locale: %w", err)
	}

	switch c.Holidays.Type {
	case "", "none":
	case "isdayoff":
	case "production-calendar":
		if c.Holidays.APIURL == "" {
			return fmt.Errorf("holidays.api_url is required for production-calendar type")
		}
		if c.Holidays.APIToken == "" {
			return fmt.Errorf("holidays.api_token is required for production-calendar type")
		}
		if c.Holidays.Country == "" {
			return fmt.Errorf("holidays.country is required for production-calendar type")
		}
	case "file", "composite":
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for %s type", c.Holidays.Type)
		}
	default:
		return fmt.Errorf("holidays.type must be one of none, isdayoff, production-calendar, file, composite, got '%s'", c.Holidays.Type)
	}
	for _, m := range c.Holidays.Mark {
		if _, ok := calendar.ParseDayType(m); !ok {
			return fmt.Errorf("holidays.mark: unknown day type '%s'", m)
		}
	}

	switch c.State.Backend {
	case "", "memory":
	case "file":
		if c.State.File == "" {
			return fmt.Errorf("state.file is required for file backend")
		}
	case "redis":
		if c.State.RedisAddr == "" {
			return fmt.Errorf("state.redis_addr is required for redis backend")
		}
	default:
		return fmt.Errorf("state.backend must be 'memory', 'file' or 'redis', got '%s'", c.State.Backend)
	}

	return nil
}

// GetCacheTTL returns cache TTL duration
func (c *HolidaysConfig) GetCacheTTL() time.Duration {
	return parseDuration(c.CacheTTL, 24*time.Hour)
}

// MarkTypes returns the day types to highlight
func (c *HolidaysConfig) MarkTypes() []calendar.DayType {
	var types []calendar.DayType
	for _, m := range c.Mark {
		if t, ok := calendar.ParseDayType(m); ok {
			types = append(types, t)
		}
	}
	return types
}

// GetTTL returns how long a keyboard keeps its state in Redis
func (c *StateConfig) GetTTL() time.Duration {
	return parseDuration(c.TTL, 7*24*time.Hour)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	duration, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return duration
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Holidays.APIToken = os.ExpandEnv(c.Holidays.APIToken)
	c.State.RedisPassword = os.ExpandEnv(c.State.RedisPassword)
}
