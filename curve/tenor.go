package curve

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gchatrian/stir-macro-analyst/calendar"
)

// curveTickerSuffix is the quote-source suffix every curve ticker carries.
const curveTickerSuffix = " BGN CURNCY"

type tenorOffset struct {
	weeks  int
	months int
}

// Tenor codes as they appear at the end of OIS curve tickers
// (e.g. USOSFR1F -> 18 months).
var tenorCodes = map[string]tenorOffset{
	"1Z": {weeks: 1},
	"2Z": {weeks: 2},
	"3Z": {weeks: 3},
	"A":  {months: 1},
	"B":  {months: 2},
	"C":  {months: 3},
	"D":  {months: 4},
	"E":  {months: 5},
	"F":  {months: 6},
	"G":  {months: 7},
	"H":  {months: 8},
	"I":  {months: 9},
	"J":  {months: 10},
	"K":  {months: 11},
	"1":  {months: 12},
	"1F": {months: 18},
	"2":  {months: 24},
	"3":  {months: 36},
}

// TenorDate resolves a curve ticker's tenor code to its business-day-rolled
// tenor date, counted from ref on the currency's calendar. Codes are matched
// longest-first so "1F" is never shadowed by "F".
func TenorDate(currency, curveTicker string, ref time.Time) (time.Time, error) {
	cal, err := calendar.ForCurrency(currency)
	if err != nil {
		return time.Time{}, fmt.Errorf("curve.TenorDate: %w", err)
	}

	t := strings.ToUpper(strings.TrimSpace(curveTicker))
	if !strings.HasSuffix(t, curveTickerSuffix) {
		return time.Time{}, fmt.Errorf("curve.TenorDate: cannot parse tenor from %q", curveTicker)
	}
	base := strings.TrimSuffix(t, curveTickerSuffix)

	codes := make([]string, 0, len(tenorCodes))
	for c := range tenorCodes {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		if len(codes[i]) != len(codes[j]) {
			return len(codes[i]) > len(codes[j])
		}
		return codes[i] < codes[j]
	})

	for _, code := range codes {
		if strings.HasSuffix(base, code) {
			off := tenorCodes[code]
			if off.weeks > 0 {
				return calendar.AddWeeks(cal, ref, off.weeks), nil
			}
			return calendar.AddMonths(cal, ref, off.months), nil
		}
	}
	return time.Time{}, fmt.Errorf("curve.TenorDate: cannot parse tenor from %q", curveTicker)
}
