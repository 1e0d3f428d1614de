package calendar

import (
	"testing"
	"time"
)

func TestLogicalDay(t *testing.T) {
	cal := New(nil, WithLocation(time.UTC))

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{
			name: "cutoff instant belongs to the same date",
			t:    time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC),
			want: "2024-03-10",
		},
		{
			name: "late evening",
			t:    time.Date(2024, 3, 10, 23, 59, 59, 999_000_000, time.UTC),
			want: "2024-03-10",
		},
		{
			name: "midnight maps to previous day",
			t:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			want: "2024-03-09",
		},
		{
			name: "just before cutoff maps to previous day",
			t:    time.Date(2024, 3, 10, 2, 59, 59, 999_000_000, time.UTC),
			want: "2024-03-09",
		},
		{
			name: "month rollover",
			t:    time.Date(2024, 3, 1, 1, 30, 0, 0, time.UTC),
			want: "2024-02-29",
		},
		{
			name: "year rollover",
			t:    time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
			want: "2023-12-31",
		},
		{
			name: "year rollover at 02:00",
			t:    time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC),
			want: "2024-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.LogicalDay(tt.t); got != tt.want {
				t.Errorf("LogicalDay(%v) = %q, want %q", tt.t, got, tt.want)
			}
		})
	}
}

func TestLogicalDayEveryMinute(t *testing.T) {
	cal := New(nil, WithLocation(time.UTC))
	start := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	for m := 0; m < 24*60; m++ {
		ts := start.Add(time.Duration(m) * time.Minute)
		want := "2024-06-15"
		if ts.Hour() < 3 {
			want = "2024-06-14"
		}
		if got := cal.LogicalDay(ts); got != want {
			t.Fatalf("LogicalDay(%s) = %q, want %q", ts.Format(time.RFC3339), got, want)
		}
	}
}

func TestLogicalDayUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	cal := New(nil, WithLocation(tokyo))

	// 20:00 UTC is 05:00 the next morning in Tokyo.
	ts := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	if got := cal.LogicalDay(ts); got != "2024-05-02" {
		t.Errorf("LogicalDay() = %q, want %q", got, "2024-05-02")
	}
}

func TestToday(t *testing.T) {
	clock := &FixedClock{T: time.Date(2024, 1, 6, 2, 0, 0, 0, time.UTC)}
	cal := New(clock, WithLocation(time.UTC))

	if got := cal.Today(); got != "2024-01-05" {
		t.Errorf("Today() = %q, want %q", got, "2024-01-05")
	}

	clock.Set(time.Date(2024, 1, 6, 3, 0, 0, 0, time.UTC))
	if got := cal.Today(); got != "2024-01-06" {
		t.Errorf("Today() after cutoff = %q, want %q", got, "2024-01-06")
	}
}

func TestWithCutoff(t *testing.T) {
	cal := New(nil, WithLocation(time.UTC), WithCutoff(0))
	ts := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	if got := cal.LogicalDay(ts); got != "2024-01-01" {
		t.Errorf("LogicalDay() with zero cutoff = %q, want %q", got, "2024-01-01")
	}
	if cal.Cutoff() != 0 {
		t.Errorf("Cutoff() = %v, want 0", cal.Cutoff())
	}
}

func TestParseDay(t *testing.T) {
	cal := New(nil, WithLocation(time.UTC))

	got, err := cal.ParseDay("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDay() error = %v", err)
	}
	if !got.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDay() = %v", got)
	}

	if _, err := cal.ParseDay("Mon Jan 01 2024"); err == nil {
		t.Error("ParseDay() should reject non YYYY-MM-DD input")
	}
}

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "UTC", timezone: "UTC"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Error("LoadLocation() returned nil location without error")
			}
		})
	}
}
