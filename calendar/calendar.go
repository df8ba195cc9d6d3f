// Package calendar provides holiday calendars and business-day rolling for
// the markets whose STIR contracts the toolkit covers.
package calendar

import (
	"fmt"
	"time"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	US     CalendarID = "US"     // SOFR / Federal Reserve
	TARGET CalendarID = "TARGET" // EURIBOR / ECB
	UK     CalendarID = "UK"     // SONIA / Bank of England
)

// maxRollDays bounds the business-day roll loop. No supported jurisdiction
// strings together more than a handful of consecutive non-business days;
// a long Easter or year-end cluster tops out well below this.
const maxRollDays = 30

var usHolidays = map[string]struct{}{}
var targetHolidays = map[string]struct{}{}
var ukHolidays = map[string]struct{}{}

func init() {
	usHolidays = make(map[string]struct{}, len(usHolidayList))
	for _, h := range usHolidayList {
		usHolidays[h] = struct{}{}
	}
	targetHolidays = make(map[string]struct{}, len(targetHolidayList))
	for _, h := range targetHolidayList {
		targetHolidays[h] = struct{}{}
	}
	ukHolidays = make(map[string]struct{}, len(ukHolidayList))
	for _, h := range ukHolidayList {
		ukHolidays[h] = struct{}{}
	}
}

// ForCurrency maps a currency code to its holiday calendar.
func ForCurrency(currency string) (CalendarID, error) {
	switch currency {
	case "USD":
		return US, nil
	case "EUR":
		return TARGET, nil
	case "GBP":
		return UK, nil
	default:
		return "", fmt.Errorf("calendar.ForCurrency: unsupported currency %q", currency)
	}
}

func isHoliday(cal CalendarID, t time.Time) bool {
	key := t.Format("2006-01-02")
	switch cal {
	case US:
		_, ok := usHolidays[key]
		return ok
	case TARGET:
		_, ok := targetHolidays[key]
		return ok
	case UK:
		_, ok := ukHolidays[key]
		return ok
	default:
		return false
	}
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Roll advances t to the next business day: Saturday steps two days,
// Sunday one, a weekday holiday one, repeated until a business day is hit.
// Already-good dates pass through unchanged.
func Roll(cal CalendarID, t time.Time) time.Time {
	for i := 0; i < maxRollDays; i++ {
		switch {
		case t.Weekday() == time.Saturday:
			t = t.AddDate(0, 0, 2)
		case t.Weekday() == time.Sunday:
			t = t.AddDate(0, 0, 1)
		case isHoliday(cal, t):
			t = t.AddDate(0, 0, 1)
		default:
			return t
		}
	}
	// Unreachable with sane holiday data; return the best candidate found.
	return t
}

// AddWeeks adds n calendar weeks then rolls to a business day.
func AddWeeks(cal CalendarID, t time.Time, n int) time.Time {
	return Roll(cal, t.AddDate(0, 0, 7*n))
}

// AddMonths adds n calendar months EDATE-style then rolls to a business day.
// Month-end overflow clamps to the last day of the target month instead of
// spilling into the next one.
func AddMonths(cal CalendarID, t time.Time, n int) time.Time {
	return Roll(cal, addMonthsEDATE(t, n))
}

func addMonthsEDATE(t time.Time, months int) time.Time {
	d := t.AddDate(0, months, 0)
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if d.Month() == firstOfTarget.Month() {
		return d
	}
	// Overflowed, walk back to the end of the intended month.
	for d.Month() != firstOfTarget.Month() {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
