package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name     string
		input    Date
		first    time.Weekday
		expected Date
	}{
		{
			name:     "Wednesday returns Monday",
			input:    MustDate(2025, 1, 15),
			first:    time.Monday,
			expected: MustDate(2025, 1, 13),
		},
		{
			name:     "Monday returns same Monday",
			input:    MustDate(2025, 1, 13),
			first:    time.Monday,
			expected: MustDate(2025, 1, 13),
		},
		{
			name:     "Sunday returns previous Monday",
			input:    MustDate(2025, 1, 19),
			first:    time.Monday,
			expected: MustDate(2025, 1, 13),
		},
		{
			name:     "Sunday-start week",
			input:    MustDate(2025, 1, 15),
			first:    time.Sunday,
			expected: MustDate(2025, 1, 12),
		},
		{
			name:     "Saturday-start week crosses month",
			input:    MustDate(2025, 3, 1),
			first:    time.Saturday,
			expected: MustDate(2025, 3, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := StartOfWeek(tt.input, tt.first)
			if err != nil {
				t.Fatalf("StartOfWeek(%v) error = %v", tt.input, err)
			}

			if result != tt.expected {
				t.Errorf("StartOfWeek(%v, %v) = %v, want %v", tt.input, tt.first, result, tt.expected)
			}
		})
	}
}

func TestWeekdayOffset(t *testing.T) {
	tests := []struct {
		wd    time.Weekday
		first time.Weekday
		want  int
	}{
		{time.Monday, time.Sunday, 1},
		{time.Sunday, time.Monday, 6},
		{time.Saturday, time.Saturday, 0},
		{time.Friday, time.Saturday, 6},
	}

	for _, tt := range tests {
		if got := WeekdayOffset(tt.wd, tt.first); got != tt.want {
			t.Errorf("WeekdayOffset(%v, %v) = %d, want %d", tt.wd, tt.first, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"ISO format YYYY-MM-DD", "2025-01-15", MustDate(2025, 1, 15), false},
		{"Russian format DD.MM.YYYY", "15.01.2025", MustDate(2025, 1, 15), false},
		{"ISO with time", "2025-01-15T10:30:00", MustDate(2025, 1, 15), false},
		{"garbage", "next tuesday", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && result != tt.want {
				t.Errorf("ParseDate(%v) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestParseDate_ErrorIsInvalidDate(t *testing.T) {
	_, err := ParseDate("31/31/31")
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseDate error = %v, want ErrInvalidDate", err)
	}
}
