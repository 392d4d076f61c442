package schedule

import (
	"testing"
	"time"
)

func at(hhmm string) time.Time {
	t, err := At(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClassify_Arrival(t *testing.T) {
	cases := []struct {
		name      string
		scheduled string
		actual    string
		wantDelay int
		wantFlag  bool
	}{
		{"on time", "09:00", "09:00", 0, false},
		{"early", "09:00", "08:45", -15, false},
		{"within grace", "09:00", "09:10", 10, false},
		{"exactly at grace boundary", "09:00", "09:15", 15, false},
		{"one past grace", "09:00", "09:16", 16, true},
		{"very late", "09:00", "10:30", 90, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(at(c.scheduled), at(c.actual), KindArrival)
			if got.DelayMinutes != c.wantDelay || got.Flagged != c.wantFlag {
				t.Errorf("Classify(%s, %s, arrival) = {%d %v}, want {%d %v}",
					c.scheduled, c.actual, got.DelayMinutes, got.Flagged, c.wantDelay, c.wantFlag)
			}
		})
	}
}

func TestClassify_Departure(t *testing.T) {
	cases := []struct {
		name      string
		scheduled string
		actual    string
		wantDelay int
		wantFlag  bool
	}{
		{"exactly on schedule", "17:00", "17:00", 0, false},
		{"one minute early", "17:00", "16:59", 1, true},
		{"fifteen minutes early", "17:00", "16:45", 15, true},
		{"overtime", "17:00", "17:30", -30, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(at(c.scheduled), at(c.actual), KindDeparture)
			if got.DelayMinutes != c.wantDelay || got.Flagged != c.wantFlag {
				t.Errorf("Classify(%s, %s, departure) = {%d %v}, want {%d %v}",
					c.scheduled, c.actual, got.DelayMinutes, got.Flagged, c.wantDelay, c.wantFlag)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	hour, minute, err := ParseTimeOfDay("08:05")
	if err != nil {
		t.Fatalf("ParseTimeOfDay(08:05) error: %v", err)
	}
	if hour != 8 || minute != 5 {
		t.Errorf("ParseTimeOfDay(08:05) = %d:%d, want 8:5", hour, minute)
	}

	for _, bad := range []string{"25:00", "09:61", "nine", ""} {
		if _, _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("ParseTimeOfDay(%q) succeeded, want error", bad)
		}
	}
}

func TestAt(t *testing.T) {
	date := time.Date(2025, 3, 10, 13, 37, 0, 0, time.UTC)
	got, err := At(date, "09:30")
	if err != nil {
		t.Fatalf("At error: %v", err)
	}
	want := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At = %v, want %v", got, want)
	}
}
