package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CompositeCalendar implements Source with fallback strategy
// Primary: an online calendar
// Fallback: FileCalendar (local file)
type CompositeCalendar struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback Source, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// MonthInfo returns calendar info for the entire month
func (cc *CompositeCalendar) MonthInfo(ctx context.Context, year int, month time.Month) (*MonthInfo, error) {
	monthInfo, err := cc.primary.MonthInfo(ctx, year, month)
	if err == nil {
		return monthInfo, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	cc.logger.Warn("Primary calendar failed, falling back to file",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Error(err))

	return cc.fallback.MonthInfo(ctx, year, month)
}

// LoadFallback loads the fallback calendar (if FileCalendar)
func (cc *CompositeCalendar) LoadFallback() error {
	if fc, ok := cc.fallback.(*FileCalendar); ok {
		if err := fc.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cc.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}
