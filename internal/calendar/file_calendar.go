package calendar

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/datepicker-bot/pkg/dateutil"
)

// FileCalendar reads calendar data from a local text file
type FileCalendar struct {
	filePath string
	logger   *zap.Logger

	mu   sync.RWMutex
	data map[string]*MonthInfo // key: "YYYY-MM"
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string]*MonthInfo),
	}
}

// Load loads calendar data from file. Each line reads
//
//	YYYY-MM-DD type [hours] [note]
//
// where type is workday, weekend, holiday or shortened. The optional hours
// column is accepted for older files and ignored.
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	data := make(map[string]*MonthInfo)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Example: 2025-01-01 holiday Новогодние каникулы
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := dateutil.ParseDate(parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		dayType, ok := ParseDayType(parts[1])
		if !ok {
			fc.logger.Warn("Unknown day type", zap.String("type", parts[1]))
			continue
		}

		note := ""
		if len(parts) == 3 {
			note = strings.TrimSpace(parts[2])
			if head, rest, _ := strings.Cut(note, " "); isNumber(head) {
				note = strings.TrimSpace(rest)
			}
		}

		key := monthKey(date.Year, date.Month)
		month, ok := data[key]
		if !ok {
			month = &MonthInfo{Year: date.Year, Month: date.Month}
			data[key] = month
		}
		month.add(DayInfo{Date: date, Type: dayType, Note: note})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	fc.mu.Lock()
	fc.data = data
	fc.mu.Unlock()

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("months", len(data)))

	return nil
}

// MonthInfo returns the days listed for the month. Days missing from the file
// are missing from the result.
func (fc *FileCalendar) MonthInfo(_ context.Context, year int, month time.Month) (*MonthInfo, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	monthInfo, ok := fc.data[monthKey(year, month)]
	if !ok {
		return nil, fmt.Errorf("month not found in calendar: %s", monthKey(year, month))
	}

	return monthInfo, nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
