package main

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/datepicker-bot/internal/config"
	"github.com/username/datepicker-bot/internal/session"
	"github.com/username/datepicker-bot/internal/state"
	"github.com/username/datepicker-bot/pkg/dateutil"
)

func sessionCmd() *cobra.Command {
	var key string
	var dateStr string
	var botID string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Drive a picker interactively, one press per line",
		Long: "Start an interactive picker. Type a day number, < > << >> for navigation, " +
			"or paste raw callback data. State survives restarts when a file or redis backend is configured; " +
			"pass --key to resume a stored keyboard.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Hot reload needs a real file to watch
			reloads := make(chan *config.Config, 1)
			var cfg *config.Config
			var err error
			if configPath != "" {
				cfg, err = config.Watch(configPath, logger, func(next *config.Config) {
					select {
					case reloads <- next:
					default:
					}
				})
			} else {
				cfg, err = config.Load(configPath)
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			m, err := initializeMenu(cfg)
			if err != nil {
				return err
			}

			store, closeStore, err := initializeStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			opts := []session.Option{session.WithKey(key)}
			if botID != "" {
				opts = append(opts, session.WithBotID(botID))
			}
			if dateStr != "" {
				start, err := dateutil.ParseDate(dateStr)
				if err != nil {
					return fmt.Errorf("invalid date: %w", err)
				}
				opts = append(opts, session.WithStart(start))
			}

			s := session.New(m, store, os.Stdin, cmd.OutOrStdout(), logger, opts...)
			fmt.Fprintf(cmd.OutOrStdout(), "message key: %s (type help for commands)\n", s.Key())

			go func() {
				for next := range reloads {
					nextMenu, err := initializeMenu(next)
					if err != nil {
						logger.Warn("Keeping previous menu after reload", zap.Error(err))
						continue
					}
					s.SetMenu(nextMenu)
				}
			}()

			return s.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Resume the keyboard stored under this message key")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "Month to open a new keyboard at (default: today)")
	cmd.Flags().StringVar(&botID, "bot-id", "", "Listener id to register (default: console)")

	return cmd
}

// initializeStore opens the configured state backend
func initializeStore(cfg *config.Config) (state.Store, func(), error) {
	switch cfg.State.Backend {
	case "", "memory":
		logger.Info("Keeping picker state in memory")
		return state.NewMemoryStore(), func() {}, nil

	case "file":
		logger.Info("Keeping picker state in file", zap.String("file", cfg.State.File))
		return state.NewFileStore(cfg.State.File, logger), func() {}, nil

	case "redis":
		logger.Info("Keeping picker state in redis",
			zap.String("addr", cfg.State.RedisAddr),
			zap.Int("db", cfg.State.RedisDB))
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.State.RedisAddr,
			Password: cfg.State.RedisPassword,
			DB:       cfg.State.RedisDB,
		})
		store, err := state.NewRedisStore(state.RedisConfig{
			Client:    client,
			KeyPrefix: cfg.State.KeyPrefix,
			TTL:       cfg.State.GetTTL(),
		})
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to create redis store: %w", err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown state backend: %s", cfg.State.Backend)
	}
}
