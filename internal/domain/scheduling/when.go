package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ParseWhen resolves a natural-language phrase relative to base.
func ParseWhen(phrase string, base time.Time) (time.Time, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(phrase, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", phrase, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognisedWhen, phrase)
	}
	return r.Time, nil
}

// resolveStart turns a booking request into an absolute start time.
func resolveStart(req BookingRequest, now time.Time) (time.Time, error) {
	if phrase := strings.TrimSpace(req.When); phrase != "" {
		return ParseWhen(phrase, now)
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		return time.Time{}, fmt.Errorf("date or when is required")
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t, nil
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be RFC 3339 or YYYY-MM-DD")
	}
	clock := strings.TrimSpace(req.Time)
	if clock == "" {
		return time.Time{}, fmt.Errorf("time is required when date has no clock")
	}
	tod, err := time.Parse(timeLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("time must be HH:MM")
	}
	return day.Add(time.Duration(tod.Hour())*time.Hour + time.Duration(tod.Minute())*time.Minute), nil
}
