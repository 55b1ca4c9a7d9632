// Package pricing computes rental duration and cost for a booking.
package pricing

import (
	"fmt"
	"time"

	"github.com/ukydev/luxedrive/internal/models"
)

// DateLayout is the calendar-date format bookings are stored with.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Quote is the priced rental period.
type Quote struct {
	Days  int     `json:"days"`
	Total float64 `json:"total"`
}

// ParseDate accepts a calendar date in DateLayout only.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", models.ErrValidation, s)
	}
	return t, nil
}

// Days returns the number of calendar days from start to end. The time of day
// is ignored; both instants are reduced to their UTC date first.
func Days(start, end time.Time) int {
	return int(dayNumber(end) - dayNumber(start))
}

// dayNumber counts days since the Unix epoch. Midnight timestamps are exact
// multiples of secondsPerDay, so the division never truncates.
func dayNumber(t time.Time) int64 {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// Calculate prices the period [start, end) at pricePerDay.
func Calculate(start, end time.Time, pricePerDay float64) (Quote, error) {
	days := Days(start, end)
	if days <= 0 {
		return Quote{}, models.ErrInvalidRange
	}
	if pricePerDay <= 0 {
		return Quote{}, fmt.Errorf("%w: pricePerDay must be positive", models.ErrValidation)
	}
	return Quote{Days: days, Total: float64(days) * pricePerDay}, nil
}

// CalculateDates parses both dates and prices the period.
func CalculateDates(start, end string, pricePerDay float64) (Quote, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Quote{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Quote{}, err
	}
	return Calculate(s, e, pricePerDay)
}
