// Command stirscan runs a STIR scenario analysis for one futures contract:
// it calibrates SABR to the option smile, extracts the risk-neutral density
// and prints the probability each rate scenario carries. With -compare it
// runs two dates and reports the shift.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"

	"github.com/gchatrian/stir-macro-analyst/config"
	"github.com/gchatrian/stir-macro-analyst/contract"
	"github.com/gchatrian/stir-macro-analyst/marketdata/terminal"
	"github.com/gchatrian/stir-macro-analyst/meetings"
	"github.com/gchatrian/stir-macro-analyst/scenario"
	"github.com/gchatrian/stir-macro-analyst/stir"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	contractFlag := flag.String("contract", "", "futures ticker, e.g. SFRZ6")
	dateFlag := flag.String("date", "", "analysis date, YYYYMMDD")
	compareFlag := flag.String("compare", "", "optional second date for a shift comparison, YYYYMMDD")
	scenariosFlag := flag.String("scenarios", "Low=0:3.5,Mid=3.5:4.5,High=4.5:8", "scenario set as name=min:max,...")
	meetingsFlag := flag.Bool("meetings", false, "also count policy meetings between -date and -compare")
	validateFlag := flag.Bool("validate", false, "require contiguous, non-overlapping scenarios")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	if *contractFlag == "" || *dateFlag == "" {
		fmt.Fprintln(os.Stderr, "Usage: stirscan -contract SFRZ6 -date 20250613 [-compare 20250620] [-scenarios name=min:max,...]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	scenarios, err := parseScenarios(*scenariosFlag)
	if err != nil {
		slog.Error("bad -scenarios flag", "err", err)
		os.Exit(2)
	}
	if *validateFlag {
		if err := scenario.ValidateSet(scenarios); err != nil {
			slog.Error("scenario set failed validation", "err", err)
			os.Exit(2)
		}
	}

	month, year := contract.ParseContractCodeIn(*contractFlag, cfg.Analysis.DecadeBase)
	slog.Info("stirscan starting",
		"contract", *contractFlag,
		"expiry", fmt.Sprintf("%s %s", month, year),
		"date", *dateFlag,
		"compare", *compareFlag,
	)

	client := terminal.NewClient(cfg, slog.Default())
	analyzer := stir.NewAnalyzer(client, stir.Options{
		MinSettlement: cfg.Analysis.MinSettlement,
		GridPoints:    cfg.Analysis.GridPoints,
		Beta:          cfg.Analysis.Beta,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *compareFlag == "" {
		result, err := analyzer.Analyze(ctx, *contractFlag, *dateFlag, scenarios)
		if err != nil {
			slog.Error("analysis failed", "err", err)
			os.Exit(1)
		}
		printResult(result)
		return
	}

	comparison, err := analyzer.Compare(ctx, *contractFlag, *dateFlag, *compareFlag, scenarios)
	if err != nil {
		slog.Error("comparison failed", "err", err)
		os.Exit(1)
	}
	printComparison(comparison)

	if *meetingsFlag {
		printMeetings(cfg, comparison.From.Currency, *dateFlag, *compareFlag)
	}
}

// parseScenarios decodes "name=min:max,name=min:max,...".
func parseScenarios(s string) (scenario.Set, error) {
	set := make(scenario.Set)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, bounds, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("scenario %q: want name=min:max", part)
		}
		lo, hi, ok := strings.Cut(bounds, ":")
		if !ok {
			return nil, fmt.Errorf("scenario %q: want name=min:max", part)
		}
		minRate, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: bad min %q", part, lo)
		}
		maxRate, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: bad max %q", part, hi)
		}
		set[strings.TrimSpace(name)] = scenario.Range{Min: minRate, Max: maxRate}
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no scenarios in %q", s)
	}
	return set, nil
}

func printResult(r *stir.Result) {
	fmt.Printf("\n%s  %s  (%s)\n", r.Contract, r.Date, r.Currency)
	fmt.Printf("Settlement %.4f | forward rate %.4f%% | options used %d\n",
		r.FuturesSettlement, r.ForwardRate, r.OptionsUsed)
	fmt.Printf("SABR alpha=%.4f rho=%.4f volvol=%.4f beta=%.2f atm_n=%.4f tau=%.4f\n\n",
		r.SABR.Alpha, r.SABR.Rho, r.SABR.Volvol, r.SABR.Beta, r.SABR.ATMNormalVol, r.SABR.Tau)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Scenario", "Range (%)", "Probability")
	for _, name := range sortedNames(r.Probabilities) {
		rng := r.Scenarios[name]
		table.Append(name,
			fmt.Sprintf("%.2f - %.2f", rng.Min, rng.Max),
			fmt.Sprintf("%6.2f%%", r.ProbabilitiesPct[name]),
		)
	}
	table.Render()
}

func printComparison(c *stir.Comparison) {
	printResult(c.From)
	printResult(c.To)

	fmt.Printf("\nShift %s -> %s\n", c.From.Date, c.To.Date)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Scenario", c.From.Date, c.To.Date, "Shift (pp)")
	for _, name := range sortedNames(c.Shifts) {
		table.Append(name,
			fmt.Sprintf("%6.2f%%", c.From.ProbabilitiesPct[name]),
			fmt.Sprintf("%6.2f%%", c.To.ProbabilitiesPct[name]),
			fmt.Sprintf("%+6.2f", c.Shifts[name]),
		)
	}
	table.Render()
}

func printMeetings(cfg *config.Config, currency, start, end string) {
	var src meetings.Source
	switch cfg.Meetings.Source {
	case "sqlite":
		store, err := meetings.OpenSQLite(cfg.Meetings.DSN)
		if err != nil {
			slog.Error("failed to open meeting store", "err", err)
			return
		}
		defer store.Close()
		src = store
	default:
		src = meetings.NewCSVSource(cfg.Meetings.Files)
	}

	count, err := meetings.CountInRange(src, currency, start, end)
	if err != nil {
		slog.Error("meeting count failed", "err", err)
		return
	}
	fmt.Printf("\n%d %s meetings (%s) between %s and %s: %s\n",
		count.NumMeetings, count.MeetingType, count.CentralBank,
		start, end, strings.Join(count.Meetings, ", "))
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
