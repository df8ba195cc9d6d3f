package stir

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gchatrian/stir-macro-analyst/scenario"
)

// Comparison holds the two analyses of one contract on two dates and the
// per-scenario probability shifts between them.
type Comparison struct {
	From   *Result
	To     *Result
	Shifts map[string]float64 // signed change, percentage points
}

// Compare runs the same analysis on two dates and reports how each
// scenario's probability moved. The two runs share no state, so they
// execute concurrently; the first failure cancels the other.
func (a *Analyzer) Compare(ctx context.Context, contractTicker, dateFrom, dateTo string, scenarios scenario.Set) (*Comparison, error) {
	var from, to *Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := a.Analyze(gctx, contractTicker, dateFrom, scenarios)
		if err != nil {
			return fmt.Errorf("date %s: %w", dateFrom, err)
		}
		from = r
		return nil
	})
	g.Go(func() error {
		r, err := a.Analyze(gctx, contractTicker, dateTo, scenarios)
		if err != nil {
			return fmt.Errorf("date %s: %w", dateTo, err)
		}
		to = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stir.Compare: %w", err)
	}

	return &Comparison{
		From:   from,
		To:     to,
		Shifts: ShiftPct(from, to),
	}, nil
}

// ShiftPct returns b-a per scenario in percentage points for two completed
// results. Scenarios missing from either side are skipped.
func ShiftPct(a, b *Result) map[string]float64 {
	return scenario.Shift(a.ProbabilitiesPct, b.ProbabilitiesPct)
}
