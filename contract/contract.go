// Package contract decodes STIR futures tickers: exchange normalization,
// currency inference and contract month/year codes.
package contract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedTicker is returned when a ticker prefix does not map to a
// supported currency family.
var ErrUnsupportedTicker = errors.New("unsupported ticker")

// DefaultDecadeBase anchors single-digit contract year codes. A trailing "6"
// under base 2020 decodes to 2026. Contracts further than a decade out are
// ambiguous by construction; pass the correct base to ParseContractCodeIn.
const DefaultDecadeBase = 2020

var monthCodes = map[byte]string{
	'F': "January",
	'G': "February",
	'H': "March",
	'J': "April",
	'K': "May",
	'M': "June",
	'N': "July",
	'Q': "August",
	'U': "September",
	'V': "October",
	'X': "November",
	'Z': "December",
}

// NormalizeTicker uppercases, trims and appends the exchange suffix when the
// ticker carries none. Already-normalized input passes through unchanged.
func NormalizeTicker(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if !strings.Contains(t, "COMDTY") && !strings.Contains(t, "COMB") {
		return t + " Comdty"
	}
	return t
}

// InferCurrency maps a ticker prefix to its currency. Three contract
// families are supported: SOFR (SFR*), EURIBOR (ER*) and SONIA (SFI*).
// SFI must match before SFR: both families share the "SF" stem.
func InferCurrency(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	switch {
	case strings.HasPrefix(t, "SFI"):
		return "GBP", nil
	case strings.HasPrefix(t, "SFR"):
		return "USD", nil
	case strings.HasPrefix(t, "ER"):
		return "EUR", nil
	default:
		return "", fmt.Errorf("InferCurrency: cannot infer currency from ticker %q: %w", ticker, ErrUnsupportedTicker)
	}
}

// ParseContractCode decodes the month letter and year digit of a futures
// ticker under the default decade base. Tickers shorter than five characters
// yield ("Unknown", "Unknown") rather than an error.
func ParseContractCode(ticker string) (month, year string) {
	return ParseContractCodeIn(ticker, DefaultDecadeBase)
}

// ParseContractCodeIn decodes the contract month and year with an explicit
// decade base, e.g. ("SFRZ6", 2020) -> ("December", "2026").
func ParseContractCodeIn(ticker string, decadeBase int) (month, year string) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if len(t) < 5 {
		return "Unknown", "Unknown"
	}

	monthCode := t[3]
	yearDigit := t[4]

	name, ok := monthCodes[monthCode]
	if !ok {
		name = "Unknown"
	}
	if yearDigit < '0' || yearDigit > '9' {
		return name, "Unknown"
	}
	return name, fmt.Sprintf("%d", decadeBase+int(yearDigit-'0'))
}
