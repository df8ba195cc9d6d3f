// Package meetings counts scheduled central-bank policy meetings inside a
// date range, reading from a tabular source (CSV file or sqlite store).
package meetings

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gchatrian/stir-macro-analyst/utils"
)

// ErrUnsupportedCurrency is returned for currencies with no meeting
// calendar.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// storedDateLayout is how sources store meeting dates.
const storedDateLayout = "2006-01-02"

// bankInfo labels each currency's policy-decision body.
type bankInfo struct {
	centralBank string
	meetingType string
}

var banks = map[string]bankInfo{
	"USD": {"Federal Reserve", "FOMC"},
	"EUR": {"European Central Bank", "ECB Governing Council"},
	"GBP": {"Bank of England", "MPC"},
}

// Source yields all known meeting dates for a currency, unordered.
type Source interface {
	MeetingDates(currency string) ([]time.Time, error)
}

// RangeCount is the result of a CountInRange call.
type RangeCount struct {
	Currency    string
	StartDate   string // YYYYMMDD, as given
	EndDate     string
	NumMeetings int
	CentralBank string
	MeetingType string
	Meetings    []string // ISO dates, ascending
}

// CountInRange counts the currency's policy meetings between two YYYYMMDD
// dates inclusive. Input errors (unknown currency, malformed dates,
// start after end) fail immediately with the offending value named.
func CountInRange(src Source, currency, startDate, endDate string) (RangeCount, error) {
	info, ok := banks[currency]
	if !ok {
		return RangeCount{}, fmt.Errorf("meetings.CountInRange: currency %q (supported: USD, EUR, GBP): %w", currency, ErrUnsupportedCurrency)
	}

	start, err := utils.ParseDate(startDate)
	if err != nil {
		return RangeCount{}, fmt.Errorf("meetings.CountInRange: start: %w", err)
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return RangeCount{}, fmt.Errorf("meetings.CountInRange: end: %w", err)
	}
	if start.After(end) {
		return RangeCount{}, fmt.Errorf("meetings.CountInRange: start date %s after end date %s", startDate, endDate)
	}

	dates, err := src.MeetingDates(currency)
	if err != nil {
		return RangeCount{}, fmt.Errorf("meetings.CountInRange: %w", err)
	}

	var inRange []string
	for _, d := range dates {
		if !d.Before(start) && !d.After(end) {
			inRange = append(inRange, d.Format(storedDateLayout))
		}
	}
	sort.Strings(inRange)

	return RangeCount{
		Currency:    currency,
		StartDate:   startDate,
		EndDate:     endDate,
		NumMeetings: len(inRange),
		CentralBank: info.centralBank,
		MeetingType: info.meetingType,
		Meetings:    inRange,
	}, nil
}
