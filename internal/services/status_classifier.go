package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"
	"truck-status-service/internal/domain"
	"truck-status-service/internal/ports"
)

var (
	// ErrInvalidTimeFormat is returned when a schedule time is not "HH:MM".
	ErrInvalidTimeFormat = errors.New("invalid time format")
	// ErrNegativeLookahead is returned when the closing-soon window is negative.
	ErrNegativeLookahead = errors.New("lookahead minutes must be non-negative")
)

var timeOfDayPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

const (
	naiveLayout       = "2006-01-02T15:04:05"
	naiveMinuteLayout = "2006-01-02T15:04"
)

// LocalizedNow renders now as a wall-clock timestamp in tz and re-reads it without a zone.
//
// The result carries tz's clock fields on a UTC-located time.Time, so it compares
// field-by-field against schedule times built the same way. It is not a true instant.
// An empty tz means UTC.
func LocalizedNow(now time.Time, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("localized now: load timezone %q: %w", tz, err)
	}

	rendered := now.In(loc).Format(naiveLayout)
	naive, err := time.Parse(naiveLayout, rendered)
	if err != nil {
		return time.Time{}, fmt.Errorf("localized now: reparse %q: %w", rendered, err)
	}

	return naive, nil
}

// Classify computes a truck's status relative to clock.Now() in tz.
func Classify(
	startTime string,
	endTime string,
	selectedDate string,
	lookaheadMinutes int,
	tz string,
	clock ports.Clock,
) (domain.Status, error) {
	if clock == nil {
		clock = ports.SystemClock
	}

	if err := validateTimeOfDay(startTime, endTime); err != nil {
		return "", err
	}
	if lookaheadMinutes < 0 {
		return "", fmt.Errorf("classify: %w: got %d", ErrNegativeLookahead, lookaheadMinutes)
	}

	now, err := LocalizedNow(clock.Now(), tz)
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}

	return ClassifyAt(now, startTime, endTime, selectedDate, lookaheadMinutes)
}

// ClassifyAt classifies against an already localized "now".
//
// Decision order (first match wins):
//   - now in [start, end]: closing_soon once now >= end-lookahead, else open
//   - now > end: closed
//   - now < start: opening_soon
//   - otherwise unknown
//
// When end <= start the window is empty and the same comparisons apply: such a
// schedule is never open. Schedules crossing midnight are not supported.
func ClassifyAt(
	now time.Time,
	startTime string,
	endTime string,
	selectedDate string,
	lookaheadMinutes int,
) (domain.Status, error) {
	if err := validateTimeOfDay(startTime, endTime); err != nil {
		return "", err
	}
	if lookaheadMinutes < 0 {
		return "", fmt.Errorf("classify: %w: got %d", ErrNegativeLookahead, lookaheadMinutes)
	}

	// Out-of-range fields ("25:61") or a malformed date cannot be placed on a
	// clock; none of the comparisons can hold, so they fall through to unknown.
	start, startErr := time.Parse(naiveMinuteLayout, selectedDate+"T"+startTime)
	end, endErr := time.Parse(naiveMinuteLayout, selectedDate+"T"+endTime)
	if startErr != nil || endErr != nil {
		return domain.StatusUnknown, nil
	}

	if !now.Before(start) && !now.After(end) {
		threshold := end.Add(-time.Duration(lookaheadMinutes) * time.Minute)
		if !now.Before(threshold) {
			return domain.StatusClosingSoon, nil
		}
		return domain.StatusOpen, nil
	}

	if now.After(end) {
		return domain.StatusClosed, nil
	}
	if now.Before(start) {
		return domain.StatusOpeningSoon, nil
	}

	return domain.StatusUnknown, nil
}

func validateTimeOfDay(startTime, endTime string) error {
	if !timeOfDayPattern.MatchString(startTime) {
		return fmt.Errorf("classify: start time %q: %w", startTime, ErrInvalidTimeFormat)
	}
	if !timeOfDayPattern.MatchString(endTime) {
		return fmt.Errorf("classify: end time %q: %w", endTime, ErrInvalidTimeFormat)
	}
	return nil
}
