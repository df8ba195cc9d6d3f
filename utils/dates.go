// Package utils holds date and numeric helpers shared across the pipeline.
package utils

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the 8-digit boundary format for all external dates.
const DateLayout = "20060102"

// ParseDate converts a YYYYMMDD string to time.Time (UTC, midnight).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: invalid date %q (want YYYYMMDD): %w", s, err)
	}
	return t, nil
}

// FormatDate renders t in the YYYYMMDD boundary format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TimeToExpiry returns whole days and the ACT/365 year fraction between two
// YYYYMMDD dates.
func TimeToExpiry(start, expiry string) (days int, years float64, err error) {
	s, err := ParseDate(start)
	if err != nil {
		return 0, 0, fmt.Errorf("TimeToExpiry: start: %w", err)
	}
	e, err := ParseDate(expiry)
	if err != nil {
		return 0, 0, fmt.Errorf("TimeToExpiry: expiry: %w", err)
	}
	return TimeToExpiryDates(s, e)
}

// TimeToExpiryDates is TimeToExpiry for already-parsed dates.
func TimeToExpiryDates(start, expiry time.Time) (days int, years float64, err error) {
	days = int(expiry.Sub(start).Hours() / 24)
	return days, float64(days) / 365.0, nil
}

// Days returns the day count between two dates.
func Days(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// RoundTo rounds a float to the specified decimal places.
func RoundTo(val float64, decimals uint32) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
