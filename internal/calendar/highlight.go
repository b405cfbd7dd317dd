package calendar

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/username/datepicker-bot/internal/picker"
	"github.com/username/datepicker-bot/pkg/dateutil"
)

// Highlighter fetches ref's month from src and returns a predicate that marks
// days of the given types, public holidays when none are given. The fetch
// happens here so the predicate itself never blocks.
func Highlighter(ctx context.Context, src Source, ref dateutil.Date, types ...DayType) (picker.Highlighter, error) {
	if len(types) == 0 {
		types = []DayType{DayTypeHoliday}
	}
	wanted := make(map[DayType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	info, err := src.MonthInfo(ctx, ref.Year, ref.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar for %d-%02d: %w", ref.Year, ref.Month, err)
	}

	marked := make(map[dateutil.Date]bool)
	for _, day := range info.Days {
		if wanted[day.Type] {
			marked[day.Date] = true
		}
	}

	return func(d dateutil.Date) bool {
		return marked[d]
	}, nil
}

// MonthHighlighter adapts Highlighter to a per-month hook. A month that fails
// to load is logged and drawn without marks.
func MonthHighlighter(src Source, logger *zap.Logger, types ...DayType) func(context.Context, dateutil.Date) picker.Highlighter {
	return func(ctx context.Context, month dateutil.Date) picker.Highlighter {
		h, err := Highlighter(ctx, src, month, types...)
		if err != nil {
			logger.Warn("Calendar unavailable, drawing month without holidays",
				zap.Stringer("month", month),
				zap.Error(err))
			return nil
		}
		return h
	}
}

// Any combines predicates; a nil entry is skipped
func Any(preds ...picker.Highlighter) picker.Highlighter {
	return func(d dateutil.Date) bool {
		for _, p := range preds {
			if p != nil && p(d) {
				return true
			}
		}
		return false
	}
}
