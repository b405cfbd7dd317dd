package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/username/datepicker-bot/pkg/dateutil"
)

// ProductionCalendar reads the production-calendar.ru API. It needs an API
// token but, unlike isdayoff.ru, names each holiday.
type ProductionCalendar struct {
	apiURL     string
	apiToken   string
	country    string
	httpClient *http.Client
	logger     *zap.Logger
	cache      *monthCache
}

// productionCalendarResponse represents API response
type productionCalendarResponse struct {
	Status      string          `json:"status"`
	CountryCode string          `json:"country_code"`
	Days        json.RawMessage `json:"days"` // Can be array OR error string (guest token limitation)
}

// calendarDay represents a single day in the calendar
type calendarDay struct {
	Date     string `json:"date"`
	TypeID   int    `json:"type_id"`
	TypeText string `json:"type_text"`
	Note     string `json:"note,omitempty"`
}

// NewProductionCalendar creates a new ProductionCalendar instance
func NewProductionCalendar(apiURL, apiToken, country string, cacheTTL time.Duration, logger *zap.Logger) *ProductionCalendar {
	return &ProductionCalendar{
		apiURL:   apiURL,
		apiToken: apiToken,
		country:  country,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger: logger,
		cache:  newMonthCache(cacheTTL),
	}
}

// MonthInfo returns calendar info for the entire month
func (pc *ProductionCalendar) MonthInfo(ctx context.Context, year int, month time.Month) (*MonthInfo, error) {
	if cached, ok := pc.cache.get(year, month); ok {
		pc.logger.Debug("Using cached month info",
			zap.Int("year", year),
			zap.Int("month", int(month)))
		return cached, nil
	}

	monthInfo, err := pc.fetchMonthInfo(ctx, year, month)
	if err != nil {
		return nil, err
	}

	pc.cache.put(monthInfo)

	pc.logger.Info("Month info fetched and cached",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("holidays", monthInfo.Holidays))

	return monthInfo, nil
}

// fetchMonthInfo fetches month info from API
func (pc *ProductionCalendar) fetchMonthInfo(ctx context.Context, year int, month time.Month) (*MonthInfo, error) {
	// Build URL: https://production-calendar.ru/get-period/{token}/{country}/{MM.YYYY}/json
	period := fmt.Sprintf("%02d.%d", month, year)
	url := fmt.Sprintf("%s/get-period/%s/%s/%s/json",
		pc.apiURL, pc.apiToken, pc.country, period)

	pc.logger.Debug("Fetching calendar data",
		zap.String("country", pc.country),
		zap.String("period", period))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var apiResp productionCalendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	if apiResp.Status != "ok" {
		return nil, fmt.Errorf("API returned status: %s", apiResp.Status)
	}

	var days []calendarDay
	if err := json.Unmarshal(apiResp.Days, &days); err != nil {
		var errorMsg string
		if err2 := json.Unmarshal(apiResp.Days, &errorMsg); err2 == nil {
			return nil, fmt.Errorf("API error: %s", errorMsg)
		}
		return nil, fmt.Errorf("failed to parse days: %w", err)
	}

	monthInfo := &MonthInfo{
		Year:  year,
		Month: month,
		Days:  make([]DayInfo, 0, len(days)),
	}

	for _, apiDay := range days {
		// DD.MM.YYYY
		date, err := dateutil.ParseDate(apiDay.Date)
		if err != nil {
			pc.logger.Warn("Failed to parse date",
				zap.String("date", apiDay.Date),
				zap.Error(err))
			continue
		}

		// type_id follows the same 1..4 numbering as DayType
		dayType := DayType(apiDay.TypeID)
		if dayType < DayTypeWorkday || dayType > DayTypeShortened {
			pc.logger.Warn("Unknown day type",
				zap.String("date", apiDay.Date),
				zap.Int("type_id", apiDay.TypeID))
			continue
		}

		monthInfo.add(DayInfo{Date: date, Type: dayType, Note: apiDay.Note})
	}

	return monthInfo, nil
}

// ClearCache clears the cache
func (pc *ProductionCalendar) ClearCache() {
	pc.cache.clear()
	pc.logger.Info("Calendar cache cleared")
}
