package terminal

import (
	"context"
	"fmt"

	"github.com/gchatrian/stir-macro-analyst/stir"
)

// PolicyRate is an official central-bank rate observation.
type PolicyRate struct {
	Currency    string
	Date        string // YYYYMMDD
	Rate        float64
	Ticker      string
	RateName    string
	CentralBank string
}

// PolicyRate fetches the policy rate for a currency on a date using the
// configured policy-rate ticker mapping.
func (c *Client) PolicyRate(ctx context.Context, currency, date string) (PolicyRate, error) {
	info, ok := c.policyRates[currency]
	if !ok {
		return PolicyRate{}, fmt.Errorf("terminal: no policy rate configured for currency %q", currency)
	}

	rows, err := c.historical(ctx, info.Ticker, fieldLast, date, date)
	if err != nil {
		return PolicyRate{}, err
	}
	if len(rows) == 0 {
		return PolicyRate{}, fmt.Errorf("terminal: no policy rate data for %s on %s: %w", currency, date, stir.ErrNoMarketData)
	}

	return PolicyRate{
		Currency:    currency,
		Date:        date,
		Rate:        rows[0].Value,
		Ticker:      info.Ticker,
		RateName:    info.Name,
		CentralBank: info.CentralBank,
	}, nil
}
