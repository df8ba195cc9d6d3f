package stir

import (
	"context"
	"time"

	"github.com/gchatrian/stir-macro-analyst/black"
	"github.com/gchatrian/stir-macro-analyst/curve"
)

// FuturesSettlement is one futures settlement observation.
type FuturesSettlement struct {
	Ticker      string
	Date        string // YYYYMMDD
	Settlement  float64
	ImpliedRate float64 // 100 - settlement
}

// OptionQuote is one option settlement row.
type OptionQuote struct {
	Ticker     string
	Strike     float64
	Type       black.OptionType
	Settlement float64
}

// MarketData is the consumed collaborator contract: everything the
// orchestrator needs from a market-data vendor, and nothing else. All
// implementations live outside the numeric core (see marketdata/terminal).
type MarketData interface {
	// FuturesSettlement fetches the settlement for ticker on date and fails
	// when no data exists for that date.
	FuturesSettlement(ctx context.Context, ticker, date string) (FuturesSettlement, error)

	// OptionChain returns OTM option tickers only: puts struck at or below
	// the futures settlement, calls above, pre-filtered to the given
	// minimum settlement price.
	OptionChain(ctx context.Context, futuresTicker string, settlement, minSettlement float64) ([]string, error)

	// OptionSettlements fetches settlement rows for the given option
	// tickers on date. Tickers without data for the date are omitted.
	OptionSettlements(ctx context.Context, tickers []string, date string) ([]OptionQuote, error)

	// DiscountCurve returns raw curve points for the currency on date.
	// Rows may be unsorted, duplicated or carry NaN rates; the core cleans
	// them before fitting.
	DiscountCurve(ctx context.Context, currency, date string) ([]curve.Point, error)

	// OptionExpiry resolves the expiry date of any option in the chain.
	OptionExpiry(ctx context.Context, optionTicker string) (time.Time, error)
}
