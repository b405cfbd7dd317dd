package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/username/datepicker-bot/pkg/dateutil"
)

func TestParseBulkResponse(t *testing.T) {
	tests := []struct {
		name         string
		year         int
		month        time.Month
		data         string
		wantDays     int
		wantWork     int
		wantHolidays int
	}{
		{
			name:         "November 2025",
			year:         2025,
			month:        time.November,
			data:         "211100011000001100000110000011", // 30 days
			wantDays:     30,
			wantWork:     19, // 18 working + 1 shortened
			wantHolidays: 2,  // Nov 3 and Nov 4
		},
		{
			name:         "July 2025",
			year:         2025,
			month:        time.July,
			data:         "0000110000011000001100000110000", // 31 days
			wantDays:     31,
			wantWork:     23,
			wantHolidays: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monthInfo, err := parseBulkResponse(tt.year, tt.month, tt.data)
			if err != nil {
				t.Fatalf("parseBulkResponse() error = %v", err)
			}

			if len(monthInfo.Days) != tt.wantDays {
				t.Errorf("Days count = %d, want %d", len(monthInfo.Days), tt.wantDays)
			}

			if monthInfo.WorkDays != tt.wantWork {
				t.Errorf("WorkDays = %d, want %d", monthInfo.WorkDays, tt.wantWork)
			}

			if monthInfo.Holidays != tt.wantHolidays {
				t.Errorf("Holidays = %d, want %d", monthInfo.Holidays, tt.wantHolidays)
			}
		})
	}
}

func TestParseBulkResponse_ShortenedDay(t *testing.T) {
	// November 2025: First day (Nov 1) is shortened (code '2')
	monthInfo, err := parseBulkResponse(2025, time.November, "211100011000001100000110000011")
	if err != nil {
		t.Fatalf("parseBulkResponse() error = %v", err)
	}

	nov1 := monthInfo.Days[0]
	if nov1.Type != DayTypeShortened {
		t.Errorf("Nov 1 Type = %v, want shortened", nov1.Type)
	}
	if nov1.IsDayOff() {
		t.Errorf("Nov 1 IsDayOff() = true, want false")
	}

	// Nov 4 is a Tuesday holiday
	nov4, ok := monthInfo.Day(dateutil.MustDate(2025, time.November, 4))
	if !ok || nov4.Type != DayTypeHoliday {
		t.Errorf("Nov 4 = %+v, want holiday", nov4)
	}
}

func TestParseBulkResponse_Invalid(t *testing.T) {
	// November has 30 days, but providing only 29
	if _, err := parseBulkResponse(2025, time.November, "21110001100000110000011000001"); err == nil {
		t.Error("parseBulkResponse() expected error for invalid length, got nil")
	}

	if _, err := parseBulkResponse(2025, time.November, "911100011000001100000110000011"); err == nil {
		t.Error("parseBulkResponse() expected error for unknown code, got nil")
	}
}

func TestIsDayOffCalendar_ParseXMLCalendarMonth(t *testing.T) {
	cal := NewIsDayOffCalendar("", time.Hour, zap.NewNop())

	tests := []struct {
		name         string
		year         int
		month        time.Month
		daysStr      string
		wantWork     int
		wantHolidays int
	}{
		{
			name:         "November 2025",
			year:         2025,
			month:        time.November,
			daysStr:      "1*,2,3+,4,8,9,15,16,22,23,29,30", // 1*=shortened, rest=holidays/weekends
			wantWork:     19,
			wantHolidays: 2,
		},
		{
			name:         "July 2025",
			year:         2025,
			month:        time.July,
			daysStr:      "5,6,12,13,19,20,26,27", // 8 weekends
			wantWork:     23,
			wantHolidays: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xmlMonth := &xmlCalendarMonth{
				Month: int(tt.month),
				Days:  tt.daysStr,
			}

			monthInfo, err := cal.parseXMLCalendarMonth(tt.year, tt.month, xmlMonth)
			if err != nil {
				t.Fatalf("parseXMLCalendarMonth() error = %v", err)
			}

			if monthInfo.WorkDays != tt.wantWork {
				t.Errorf("WorkDays = %d, want %d", monthInfo.WorkDays, tt.wantWork)
			}

			if monthInfo.Holidays != tt.wantHolidays {
				t.Errorf("Holidays = %d, want %d", monthInfo.Holidays, tt.wantHolidays)
			}
		})
	}
}

func TestIsDayOffCalendar_MonthInfo(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/api/getdata" || r.URL.Query().Get("month") != "11" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "211100011000001100000110000011")
	}))
	defer srv.Close()

	cal := NewIsDayOffCalendar("", time.Hour, zap.NewNop())
	cal.baseURL = srv.URL

	ctx := context.Background()
	info, err := cal.MonthInfo(ctx, 2025, time.November)
	if err != nil {
		t.Fatalf("MonthInfo() error = %v", err)
	}
	if info.Holidays != 2 {
		t.Errorf("Holidays = %d, want 2", info.Holidays)
	}

	// second call is served from cache
	if _, err := cal.MonthInfo(ctx, 2025, time.November); err != nil {
		t.Fatalf("MonthInfo() error = %v", err)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}

	if _, err := cal.MonthInfo(ctx, 2025, time.December); err == nil {
		t.Error("MonthInfo() expected error for 404 without fallback")
	}
}

func TestIsDayOffCalendar_Fallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data/ru/2025/calendar.json" {
			fmt.Fprint(w, `{"year":2025,"months":[{"month":11,"days":"1*,2,3+,4,8,9,15,16,22,23,29,30"}]}`)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cal := NewIsDayOffCalendar(srv.URL+"/data/ru/{year}/calendar.json", time.Hour, zap.NewNop())
	cal.baseURL = srv.URL

	info, err := cal.MonthInfo(context.Background(), 2025, time.November)
	if err != nil {
		t.Fatalf("MonthInfo() error = %v", err)
	}
	if info.WorkDays != 19 {
		t.Errorf("WorkDays = %d, want 19", info.WorkDays)
	}

	_, err = cal.MonthInfo(context.Background(), 2025, time.October)
	if err == nil {
		t.Fatal("MonthInfo() expected error for month missing from fallback")
	}
}

func TestIsDayOffCalendar_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "211100011000001100000110000011")
	}))
	defer srv.Close()

	cal := NewIsDayOffCalendar("", time.Hour, zap.NewNop())
	cal.baseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cal.MonthInfo(ctx, 2025, time.November)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("MonthInfo() error = %v, want context.Canceled", err)
	}
}

func TestMonthCache(t *testing.T) {
	cache := newMonthCache(time.Hour)
	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.put(&MonthInfo{Year: 2025, Month: time.November})
	if _, ok := cache.get(2025, time.November); !ok {
		t.Fatal("get() miss right after put")
	}

	now = now.Add(2 * time.Hour)
	if _, ok := cache.get(2025, time.November); ok {
		t.Error("get() hit after TTL expired")
	}

	cache.clear()
	if cache.size() != 0 {
		t.Errorf("size() = %d after clear, want 0", cache.size())
	}
}
