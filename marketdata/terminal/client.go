// Package terminal implements the stir.MarketData contract against a
// terminal gateway: a local HTTP bridge in front of the vendor terminal
// exposing historical, reference and option-chain endpoints as JSON.
package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gchatrian/stir-macro-analyst/black"
	"github.com/gchatrian/stir-macro-analyst/config"
	"github.com/gchatrian/stir-macro-analyst/curve"
	"github.com/gchatrian/stir-macro-analyst/stir"
	"github.com/gchatrian/stir-macro-analyst/utils"
)

const (
	fieldSettle     = "PX_SETTLE"
	fieldLast       = "PX_LAST"
	fieldOptExpire  = "OPT_EXPIRE_DT"
	refExpiryLayout = "2006-01-02"
)

// Client talks to the terminal gateway. It implements stir.MarketData.
// All endpoint and ticker mappings come from the injected config; the
// client keeps no ambient state.
type Client struct {
	http        *http.Client
	base        string
	curves      map[string][]string
	policyRates map[string]config.PolicyTicker
	log         *slog.Logger
}

// NewClient builds a gateway client from config.
func NewClient(cfg *config.Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout()},
		base:        fmt.Sprintf("http://%s:%d", cfg.Terminal.Host, cfg.Terminal.Port),
		curves:      cfg.Curves,
		policyRates: cfg.PolicyRates,
		log:         log,
	}
}

type historicalRow struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// historical fetches one field for one ticker over [start, end] (YYYYMMDD).
func (c *Client) historical(ctx context.Context, ticker, field, start, end string) ([]historicalRow, error) {
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("field", field)
	q.Set("start", start)
	q.Set("end", end)
	q.Set("periodicity", "DAILY")

	var rows []historicalRow
	if err := c.get(ctx, "/historical?"+q.Encode(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("terminal: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("terminal: %s returned %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("terminal: decode %s: %w", path, err)
	}
	return nil
}

// FuturesSettlement implements stir.MarketData.
func (c *Client) FuturesSettlement(ctx context.Context, ticker, date string) (stir.FuturesSettlement, error) {
	rows, err := c.historical(ctx, ticker, fieldSettle, date, date)
	if err != nil {
		return stir.FuturesSettlement{}, err
	}
	if len(rows) == 0 {
		return stir.FuturesSettlement{}, fmt.Errorf("terminal: no settlement data for %s on %s: %w", ticker, date, stir.ErrNoMarketData)
	}
	settle := rows[0].Value
	return stir.FuturesSettlement{
		Ticker:      ticker,
		Date:        date,
		Settlement:  settle,
		ImpliedRate: 100 - settle,
	}, nil
}

// OptionChain implements stir.MarketData: it pulls the raw chain and keeps
// only the OTM side of each strike: puts at or below the futures
// settlement, calls above.
func (c *Client) OptionChain(ctx context.Context, futuresTicker string, settlement, minSettlement float64) ([]string, error) {
	q := url.Values{}
	q.Set("ticker", futuresTicker)
	q.Set("min_settlement", strconv.FormatFloat(minSettlement, 'f', -1, 64))

	var raw []string
	if err := c.get(ctx, "/chain?"+q.Encode(), &raw); err != nil {
		return nil, err
	}

	parts := strings.Fields(futuresTicker)
	fcode := parts[0]
	assetClass := "Comdty"
	if len(parts) > 1 {
		assetClass = parts[len(parts)-1]
	}

	strikes := chainStrikes(raw)
	tickers := make([]string, 0, len(strikes))
	for _, strike := range strikes {
		side := "C"
		if settlement >= strike {
			side = "P"
		}
		tickers = append(tickers, fmt.Sprintf("%s%s %s COMB %s", fcode, side, formatStrike(strike), assetClass))
	}
	c.log.Debug("option chain assembled", "futures", futuresTicker, "strikes", len(tickers))
	return tickers, nil
}

// OptionSettlements implements stir.MarketData. Tickers with no data for
// the date are silently omitted; the orchestrator enforces quote minimums.
func (c *Client) OptionSettlements(ctx context.Context, tickers []string, date string) ([]stir.OptionQuote, error) {
	quotes := make([]stir.OptionQuote, 0, len(tickers))
	for _, ticker := range tickers {
		rows, err := c.historical(ctx, ticker, fieldSettle, date, date)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}
		strike, typ, err := parseOptionTicker(ticker)
		if err != nil {
			c.log.Warn("skipping unparseable option ticker", "ticker", ticker, "err", err)
			continue
		}
		quotes = append(quotes, stir.OptionQuote{
			Ticker:     ticker,
			Strike:     strike,
			Type:       typ,
			Settlement: rows[0].Value,
		})
	}
	return quotes, nil
}

// DiscountCurve implements stir.MarketData: one PX_LAST per configured
// curve ticker, with days-to-tenor computed through the currency calendar.
func (c *Client) DiscountCurve(ctx context.Context, currency, date string) ([]curve.Point, error) {
	tickers, ok := c.curves[currency]
	if !ok {
		return nil, fmt.Errorf("terminal: no curve configured for currency %q", currency)
	}
	ref, err := utils.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}

	points := make([]curve.Point, 0, len(tickers))
	for _, ticker := range tickers {
		rows, err := c.historical(ctx, ticker, fieldLast, date, date)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}
		tenorDate, err := curve.TenorDate(currency, ticker, ref)
		if err != nil {
			return nil, fmt.Errorf("terminal: %w", err)
		}
		points = append(points, curve.Point{
			Days: utils.Days(ref, tenorDate),
			Rate: rows[0].Value,
		})
	}
	return points, nil
}

// OptionExpiry implements stir.MarketData via the reference-data endpoint.
func (c *Client) OptionExpiry(ctx context.Context, optionTicker string) (time.Time, error) {
	q := url.Values{}
	q.Set("ticker", optionTicker)
	q.Set("field", fieldOptExpire)

	var ref struct {
		Value string `json:"value"`
	}
	if err := c.get(ctx, "/refdata?"+q.Encode(), &ref); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(refExpiryLayout, ref.Value)
	if err != nil {
		return time.Time{}, fmt.Errorf("terminal: parse expiry %q for %s: %w", ref.Value, optionTicker, err)
	}
	return t, nil
}

// chainStrikes extracts the sorted, deduplicated strike levels from raw
// chain tickers of the form "<code> <strike> ...".
func chainStrikes(raw []string) []float64 {
	seen := make(map[float64]struct{})
	for _, opt := range raw {
		parts := strings.Fields(opt)
		if len(parts) < 2 {
			continue
		}
		strike, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}
		seen[strike] = struct{}{}
	}
	strikes := make([]float64, 0, len(seen))
	for s := range seen {
		strikes = append(strikes, s)
	}
	sort.Float64s(strikes)
	return strikes
}

// parseOptionTicker recovers strike and type from a chain ticker built by
// OptionChain ("<code><C|P> <strike> COMB <class>").
func parseOptionTicker(ticker string) (float64, black.OptionType, error) {
	parts := strings.Fields(ticker)
	if len(parts) < 2 {
		return 0, "", fmt.Errorf("malformed option ticker %q", ticker)
	}
	strike, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed strike in %q", ticker)
	}
	code := parts[0]
	switch code[len(code)-1] {
	case 'C':
		return strike, black.Call, nil
	case 'P':
		return strike, black.Put, nil
	default:
		return 0, "", fmt.Errorf("no option side in %q", ticker)
	}
}

func formatStrike(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
