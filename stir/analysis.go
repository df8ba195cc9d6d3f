// Package stir composes the contract decoding, curve, implied-vol, SABR,
// density and scenario stages into one end-to-end analysis of a STIR
// futures contract.
package stir

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gchatrian/stir-macro-analyst/black"
	"github.com/gchatrian/stir-macro-analyst/contract"
	"github.com/gchatrian/stir-macro-analyst/curve"
	"github.com/gchatrian/stir-macro-analyst/rnd"
	"github.com/gchatrian/stir-macro-analyst/sabr"
	"github.com/gchatrian/stir-macro-analyst/scenario"
	"github.com/gchatrian/stir-macro-analyst/utils"
)

var (
	// ErrNoMarketData is returned when the vendor has nothing for the
	// requested contract/date.
	ErrNoMarketData = errors.New("no market data")

	// ErrInsufficientMarketData is returned when too few usable option
	// quotes survive filtering, before or after implied-vol inversion.
	ErrInsufficientMarketData = errors.New("insufficient market data")
)

// minUsableQuotes is required both before and after implied-vol inversion;
// below it the smile fit is dominated by noise.
const minUsableQuotes = 5

// Options tune an Analyzer. The zero value is not usable; use
// DefaultOptions.
type Options struct {
	// MinSettlement excludes illiquid option quotes below this settlement
	// price, applied both to chain retrieval and to settlement rows.
	MinSettlement float64
	// GridPoints is the RND strike grid resolution.
	GridPoints int
	// Beta is the fixed SABR exponent.
	Beta float64
}

// DefaultOptions mirrors the conventional settings: a 2-cent settlement
// floor, a 500-point grid and beta 0.5.
func DefaultOptions() Options {
	return Options{
		MinSettlement: 0.02,
		GridPoints:    rnd.DefaultGridPoints,
		Beta:          0.5,
	}
}

// Result is the full bundle produced by one (contract, date) analysis.
// Immutable after return; the core keeps no reference to it.
type Result struct {
	Contract          string
	Currency          string
	Date              string
	FuturesSettlement float64
	ForwardRate       float64 // 100 - settlement, percentage points
	SABR              sabr.Parameters
	RND               rnd.Curve // rate space, strictly increasing strikes
	Scenarios         scenario.Set
	Probabilities     map[string]float64 // 0..1
	ProbabilitiesPct  map[string]float64 // 0..100
	OptionsUsed       int
}

// Analyzer runs the pipeline against an injected market-data collaborator.
// It holds no per-call state; one Analyzer may serve concurrent analyses.
type Analyzer struct {
	md   MarketData
	opts Options
}

// NewAnalyzer wires an Analyzer to its market-data source.
func NewAnalyzer(md MarketData, opts Options) *Analyzer {
	if opts.GridPoints <= 0 {
		opts.GridPoints = rnd.DefaultGridPoints
	}
	if opts.Beta <= 0 || opts.Beta > 1 {
		opts.Beta = 0.5
	}
	return &Analyzer{md: md, opts: opts}
}

// Analyze calibrates SABR to the contract's option smile on the given date,
// extracts the risk-neutral density and integrates it over each scenario.
// date is YYYYMMDD; scenario rates are percentage points.
func (a *Analyzer) Analyze(ctx context.Context, contractTicker, date string, scenarios scenario.Set) (*Result, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, fmt.Errorf("stir.Analyze: %w", err)
	}
	minRate, maxRate, err := scenario.Bounds(scenarios)
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: %w", err)
	}

	ticker := contract.NormalizeTicker(contractTicker)
	currency, err := contract.InferCurrency(ticker)
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: %w", err)
	}

	fut, err := a.md.FuturesSettlement(ctx, ticker, date)
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: futures settlement: %w", err)
	}
	forwardRate := 100 - fut.Settlement

	chain, err := a.md.OptionChain(ctx, ticker, fut.Settlement, a.opts.MinSettlement)
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: option chain: %w", err)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("stir.Analyze: no options found for %s on %s: %w", ticker, date, ErrNoMarketData)
	}

	quotes, err := a.md.OptionSettlements(ctx, chain, date)
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: option settlements: %w", err)
	}
	quotes = filterBySettlement(quotes, a.opts.MinSettlement)
	if len(quotes) < minUsableQuotes {
		return nil, fmt.Errorf("stir.Analyze: %d options with settlement >= %g, need %d: %w",
			len(quotes), a.opts.MinSettlement, minUsableQuotes, ErrInsufficientMarketData)
	}

	curvePoints, err := a.md.DiscountCurve(ctx, currency, date)
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: discount curve: %w", err)
	}

	expiry, err := a.md.OptionExpiry(ctx, chain[0])
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: option expiry: %w", err)
	}
	analysisDate, _ := utils.ParseDate(date)
	days, tau, err := utils.TimeToExpiryDates(analysisDate, expiry)
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: %w", err)
	}
	if tau <= 0 {
		return nil, fmt.Errorf("stir.Analyze: option expiry %s not after analysis date %s", utils.FormatDate(expiry), date)
	}

	ratePct, err := curve.InterpolateRate(curvePoints, days)
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: %w", err)
	}
	rfr := ratePct / 100

	strikes, vols := a.impliedSmile(quotes, fut.Settlement, tau, rfr)
	if len(strikes) < minUsableQuotes {
		return nil, fmt.Errorf("stir.Analyze: %d options after implied-vol inversion, need %d: %w",
			len(strikes), minUsableQuotes, ErrInsufficientMarketData)
	}

	params, err := sabr.Calibrate(fut.Settlement, strikes, vols, tau, rfr, a.opts.Beta)
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: %w", err)
	}

	// Price-space bounds chosen so the density covers every scenario.
	priceCurve, err := rnd.Generate(params, 100-maxRate, 100-minRate, a.opts.GridPoints)
	if err != nil {
		return nil, fmt.Errorf("stir.Analyze: %w", err)
	}
	rateCurve := rnd.ToRateSpace(priceCurve)

	probs := scenario.Probabilities(rateCurve.Strikes, rateCurve.Density, scenarios)
	probsPct := make(map[string]float64, len(probs))
	for name, p := range probs {
		probsPct[name] = p * 100
	}

	return &Result{
		Contract:          ticker,
		Currency:          currency,
		Date:              date,
		FuturesSettlement: fut.Settlement,
		ForwardRate:       forwardRate,
		SABR:              params,
		RND:               rateCurve,
		Scenarios:         scenarios,
		Probabilities:     probs,
		ProbabilitiesPct:  probsPct,
		OptionsUsed:       len(strikes),
	}, nil
}

// impliedSmile inverts each quote to an implied vol (percent) and drops
// quotes whose inversion failed, sorted by strike for the calibrator.
func (a *Analyzer) impliedSmile(quotes []OptionQuote, futSettlement, tau, rfr float64) (strikes, vols []float64) {
	type kv struct{ k, v float64 }
	var smile []kv
	for _, q := range quotes {
		vol, ok := black.ImpliedVol(q.Settlement, futSettlement, q.Strike, tau, rfr, q.Type)
		if !ok || vol <= 0 {
			continue
		}
		smile = append(smile, kv{q.Strike, vol})
	}
	sort.Slice(smile, func(i, j int) bool { return smile[i].k < smile[j].k })

	strikes = make([]float64, len(smile))
	vols = make([]float64, len(smile))
	for i, p := range smile {
		strikes[i] = p.k
		vols[i] = p.v
	}
	return strikes, vols
}

func filterBySettlement(quotes []OptionQuote, floor float64) []OptionQuote {
	kept := quotes[:0:0]
	for _, q := range quotes {
		if q.Settlement >= floor {
			kept = append(kept, q)
		}
	}
	return kept
}
