// Package schedule resolves a doctor's weekly work schedule into the bookable
// slot labels for a concrete calendar date. It is pure computation over the
// records it is handed: no clock, no storage.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
)

// DateLayout is the naive calendar date format used throughout scheduling.
// Dates carry no time-of-day and no timezone.
const DateLayout = "2006-01-02"

const (
	defaultGridStartMinute = 9 * 60
	defaultGridEndMinute   = 17 * 60
	defaultGridStepMinutes = 30
)

// Normalize strips surrounding whitespace and a trailing AM/PM marker from a
// slot label so that legacy 12-hour-labeled data compares equal to canonical
// 24-hour labels. Normalize(Normalize(x)) == Normalize(x).
func Normalize(label string) string {
	s := strings.TrimSpace(label)
	if len(s) >= 2 {
		suffix := strings.ToUpper(s[len(s)-2:])
		if suffix == "AM" || suffix == "PM" {
			s = strings.TrimSpace(s[:len(s)-2])
		}
	}
	return s
}

// DefaultGrid is the dense fallback grid spanning a standard business day:
// 09:00 through 17:00 in 30-minute steps, both ends included.
func DefaultGrid() []string {
	var slots []string
	for m := defaultGridStartMinute; m <= defaultGridEndMinute; m += defaultGridStepMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// Resolve returns the configured slot labels for doc on date, every label
// normalized, in declared order.
//
// Fallback chain: a weekday that is enabled with a non-empty slot list wins;
// otherwise the doctor's static fallback list; otherwise the default grid.
// An unknown doctor, a missing work schedule, or a date that fails calendar
// parsing all take the same fallback path rather than erroring, so Resolve is
// total: it always produces at least the default grid.
func Resolve(doc *model.Doctor, date string) []string {
	if doc != nil && len(doc.WorkSchedule) > 0 {
		if weekday, ok := weekdayName(date); ok {
			day, found := doc.WorkSchedule[weekday]
			if found && day.Enabled && len(day.Slots) > 0 {
				return normalizeAll(day.Slots)
			}
		}
	}
	if doc != nil && len(doc.FallbackSlots) > 0 {
		return normalizeAll(doc.FallbackSlots)
	}
	return DefaultGrid()
}

func weekdayName(date string) (string, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", false
	}
	return t.Weekday().String(), true
}

func normalizeAll(slots []string) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, Normalize(s))
	}
	return out
}
