package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/datepicker-bot/pkg/dateutil"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
)

// IsDayOffCalendar reads isdayoff.ru and falls back to xmlcalendar.ru
type IsDayOffCalendar struct {
	httpClient   *http.Client
	logger       *zap.Logger
	baseURL      string
	fallbackURL  string
	cache        *monthCache
	fallbackMu   sync.RWMutex
	fallbackData map[int]*xmlCalendarYear // year → calendar data
}

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year        int                `json:"year"`
	Months      []xmlCalendarMonth `json:"months"`
	Transitions []xmlTransition    `json:"transitions"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

type xmlTransition struct {
	From string `json:"from"` // "MM.DD"
	To   string `json:"to"`   // "MM.DD"
}

// NewIsDayOffCalendar creates a new IsDayOffCalendar. fallbackURL may contain
// "{year}" and may be empty to disable the fallback.
func NewIsDayOffCalendar(fallbackURL string, cacheTTL time.Duration, logger *zap.Logger) *IsDayOffCalendar {
	return &IsDayOffCalendar{
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:       logger,
		baseURL:      isdayoffBaseURL,
		fallbackURL:  fallbackURL,
		cache:        newMonthCache(cacheTTL),
		fallbackData: make(map[int]*xmlCalendarYear),
	}
}

// MonthInfo returns calendar info for the entire month
func (c *IsDayOffCalendar) MonthInfo(ctx context.Context, year int, month time.Month) (*MonthInfo, error) {
	if cached, ok := c.cache.get(year, month); ok {
		c.logger.Debug("Using cached month info",
			zap.Int("year", year),
			zap.Int("month", int(month)))
		return cached, nil
	}

	// Try API first
	monthInfo, err := c.fetchMonthFromAPI(ctx, year, month)
	if err != nil {
		if c.fallbackURL == "" {
			return nil, err
		}

		c.logger.Warn("Failed to fetch month from API, trying fallback",
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err))

		var fallbackErr error
		monthInfo, fallbackErr = c.fetchMonthFromFallback(ctx, year, month)
		if fallbackErr != nil {
			return nil, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%v", err, fallbackErr)
		}
	}

	c.cache.put(monthInfo)
	return monthInfo, nil
}

// fetchMonthFromAPI fetches entire month from isdayoff.ru bulk API
func (c *IsDayOffCalendar) fetchMonthFromAPI(ctx context.Context, year int, month time.Month) (*MonthInfo, error) {
	// Build URL: https://isdayoff.ru/api/getdata?year=2025&month=11&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&month=%d&pre=1",
		c.baseURL, year, int(month))

	c.logger.Debug("Fetching month from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year),
		zap.Int("month", int(month)))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	monthInfo, err := parseBulkResponse(year, month, strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Month info fetched from API",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("holidays", monthInfo.Holidays))

	return monthInfo, nil
}

func (c *IsDayOffCalendar) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// parseBulkResponse parses isdayoff.ru bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened day
func parseBulkResponse(year int, month time.Month, data string) (*MonthInfo, error) {
	daysInMonth := dateutil.DaysIn(year, month)

	if len(data) != daysInMonth {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInMonth, len(data))
	}

	monthInfo := &MonthInfo{
		Year:  year,
		Month: month,
		Days:  make([]DayInfo, 0, daysInMonth),
	}

	for i, code := range data {
		date := dateutil.Date{Year: year, Month: month, Day: i + 1}

		var dayType DayType
		switch code {
		case '0':
			dayType = DayTypeWorkday
		case '1':
			dayType = offType(date)
		case '2':
			dayType = DayTypeShortened
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}

		monthInfo.add(DayInfo{Date: date, Type: dayType})
	}

	return monthInfo, nil
}

// offType tells a regular weekend from a public holiday
func offType(d dateutil.Date) DayType {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return DayTypeWeekend
	}
	return DayTypeHoliday
}

// fetchMonthFromFallback fetches month from xmlcalendar.ru
func (c *IsDayOffCalendar) fetchMonthFromFallback(ctx context.Context, year int, month time.Month) (*MonthInfo, error) {
	c.fallbackMu.RLock()
	yearData, exists := c.fallbackData[year]
	c.fallbackMu.RUnlock()

	if !exists {
		var err error
		yearData, err = c.downloadFallbackYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to download fallback data: %w", err)
		}

		c.fallbackMu.Lock()
		c.fallbackData[year] = yearData
		c.fallbackMu.Unlock()
	}

	for i := range yearData.Months {
		if yearData.Months[i].Month == int(month) {
			return c.parseXMLCalendarMonth(year, month, &yearData.Months[i])
		}
	}

	return nil, fmt.Errorf("month %d not found in fallback data for year %d", month, year)
}

// downloadFallbackYear downloads entire year from xmlcalendar.ru
func (c *IsDayOffCalendar) downloadFallbackYear(ctx context.Context, year int) (*xmlCalendarYear, error) {
	url := strings.ReplaceAll(c.fallbackURL, "{year}", strconv.Itoa(year))

	c.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fallback data: %w", err)
	}
	defer body.Close()

	var yearData xmlCalendarYear
	if err := json.NewDecoder(body).Decode(&yearData); err != nil {
		return nil, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}

	c.logger.Info("Fallback data downloaded",
		zap.Int("year", year),
		zap.Int("months", len(yearData.Months)))

	return &yearData, nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened day, + = transferred day, others = weekends/holidays
func (c *IsDayOffCalendar) parseXMLCalendarMonth(year int, month time.Month, xmlMonth *xmlCalendarMonth) (*MonthInfo, error) {
	daysInMonth := dateutil.DaysIn(year, month)

	nonWorking := make(map[int]rune) // day → marker (* or + or 0)
	for _, part := range strings.Split(xmlMonth.Days, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		marker := rune(0)
		dayStr := part
		if strings.HasSuffix(part, "*") {
			marker = '*'
			dayStr = strings.TrimSuffix(part, "*")
		} else if strings.HasSuffix(part, "+") {
			marker = '+'
			dayStr = strings.TrimSuffix(part, "+")
		}

		day, err := strconv.Atoi(dayStr)
		if err != nil {
			c.logger.Warn("Failed to parse day number",
				zap.String("part", part),
				zap.Error(err))
			continue
		}

		nonWorking[day] = marker
	}

	monthInfo := &MonthInfo{
		Year:  year,
		Month: month,
		Days:  make([]DayInfo, 0, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		date := dateutil.Date{Year: year, Month: month, Day: day}

		dayType := DayTypeWorkday
		if marker, ok := nonWorking[day]; ok {
			if marker == '*' {
				dayType = DayTypeShortened
			} else {
				dayType = offType(date)
			}
		}

		monthInfo.add(DayInfo{Date: date, Type: dayType})
	}

	return monthInfo, nil
}

// ClearCache clears the cache
func (c *IsDayOffCalendar) ClearCache() {
	c.cache.clear()

	c.fallbackMu.Lock()
	c.fallbackData = make(map[int]*xmlCalendarYear)
	c.fallbackMu.Unlock()

	c.logger.Info("Calendar cache cleared")
}
