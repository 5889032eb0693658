package warehouse

import (
	"testing"
	"time"
)

func TestDateFromTime(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want Date
	}{
		{
			name: "monday",
			in:   time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
			want: Date{
				DateID: 20240115, Year: 2024, Month: 1, Day: 15,
				DayOfWeek: 1, DayName: "Mon", WeekOfYear: 3, IsWeekend: false,
			},
		},
		{
			name: "saturday is weekend",
			in:   time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC),
			want: Date{
				DateID: 20240113, Year: 2024, Month: 1, Day: 13,
				DayOfWeek: 6, DayName: "Sat", WeekOfYear: 2, IsWeekend: true,
			},
		},
		{
			name: "sunday maps to seven",
			in:   time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
			want: Date{
				DateID: 20240114, Year: 2024, Month: 1, Day: 14,
				DayOfWeek: 7, DayName: "Sun", WeekOfYear: 2, IsWeekend: true,
			},
		},
		{
			name: "year boundary uses ISO week",
			in:   time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			want: Date{
				DateID: 20241230, Year: 2024, Month: 12, Day: 30,
				DayOfWeek: 1, DayName: "Mon", WeekOfYear: 1, IsWeekend: false,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DateFromTime(tc.in)

			if got.DateID != tc.want.DateID {
				t.Errorf("DateID = %d, want %d", got.DateID, tc.want.DateID)
			}
			if got.Year != tc.want.Year || got.Month != tc.want.Month || got.Day != tc.want.Day {
				t.Errorf("y/m/d = %d/%d/%d, want %d/%d/%d",
					got.Year, got.Month, got.Day, tc.want.Year, tc.want.Month, tc.want.Day)
			}
			if got.DayOfWeek != tc.want.DayOfWeek {
				t.Errorf("DayOfWeek = %d, want %d", got.DayOfWeek, tc.want.DayOfWeek)
			}
			if got.DayName != tc.want.DayName {
				t.Errorf("DayName = %q, want %q", got.DayName, tc.want.DayName)
			}
			if got.WeekOfYear != tc.want.WeekOfYear {
				t.Errorf("WeekOfYear = %d, want %d", got.WeekOfYear, tc.want.WeekOfYear)
			}
			if got.IsWeekend != tc.want.IsWeekend {
				t.Errorf("IsWeekend = %v, want %v", got.IsWeekend, tc.want.IsWeekend)
			}
			if got.FullDate.Hour() != 0 || got.FullDate.Day() != tc.want.Day {
				t.Errorf("FullDate = %v, want midnight on day %d", got.FullDate, tc.want.Day)
			}
		})
	}
}

func TestDelayedFromDeparture(t *testing.T) {
	cases := []struct {
		name  string
		delay *float64
		want  bool
	}{
		{"missing delay", nil, false},
		{"early departure", f64Ptr(-5), false},
		{"under threshold", f64Ptr(14.9), false},
		{"at threshold", f64Ptr(15), true},
		{"over threshold", f64Ptr(120), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DelayedFromDeparture(tc.delay); got != tc.want {
				t.Errorf("DelayedFromDeparture(%v) = %v, want %v", tc.delay, got, tc.want)
			}
		})
	}
}
