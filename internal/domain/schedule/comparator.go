package schedule

import (
	"fmt"
	"time"
)

// Kind selects which side of the schedule a clock event is compared against.
type Kind string

const (
	KindArrival   Kind = "arrival"
	KindDeparture Kind = "departure"
)

// LateGraceMinutes is the arrival tolerance: up to this many minutes past
// the scheduled start is not flagged. Departures have no grace at all; any
// early exit is flagged.
const LateGraceMinutes = 15

// Classification is the result of comparing an actual clock time against a
// scheduled time-of-day.
type Classification struct {
	// DelayMinutes is signed. For arrivals, positive means late; for
	// departures, positive means leaving early.
	DelayMinutes int
	Flagged      bool
}

// Classify compares the actual timestamp against the scheduled one for the
// same calendar day. Both timestamps must be in the same location; only
// their wall-clock minute of day matters. Overnight shifts are not
// supported.
func Classify(scheduled, actual time.Time, kind Kind) Classification {
	switch kind {
	case KindDeparture:
		delay := minuteOfDay(scheduled) - minuteOfDay(actual)
		return Classification{DelayMinutes: delay, Flagged: delay > 0}
	default:
		delay := minuteOfDay(actual) - minuteOfDay(scheduled)
		return Classification{DelayMinutes: delay, Flagged: delay > LateGraceMinutes}
	}
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// At anchors a "HH:MM" time-of-day on the given date, in the date's
// location.
func At(date time.Time, hhmm string) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}
