package render

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/STTM-NSU/portfolio-tracker/internal/tools"
	"github.com/shopspring/decimal"
)

// Money formats amount in currency with the currency's own symbol, separators
// and number of minor digits.
func Money(amount float64, currency string) string {
	cur := money.New(0, currency).Currency()
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

func signed(amount float64, currency string) string {
	if amount > 0 {
		return "+" + Money(amount, currency)
	}
	return Money(amount, currency)
}

func percent(v float64) string {
	return tools.Amount(v, tools.PercentPlaces) + "%"
}

func quantity(v float64) string {
	return tools.Amount(v, tools.QuantityPlaces)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func Positions(w io.Writer, r model.Report) error {
	tw := newTable(w)

	fmt.Fprintf(tw, "TICKER\tTYPE\tQUANTITY\tAVG COST\tPRICE\tMARKET VALUE\tGAIN/LOSS\t%%\n")
	fmt.Fprintf(tw, "──────\t────\t────────\t────────\t─────\t────────────\t─────────\t─\n")
	for _, p := range r.Positions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Ticker,
			p.AssetType,
			quantity(p.Quantity),
			Money(p.AvgCostInBase, r.BaseCurrency),
			Money(p.CurrentPrice, p.CurrentPriceCurrency),
			Money(p.MarketValueInBase, r.BaseCurrency),
			signed(p.GainLossInBase, r.BaseCurrency),
			percent(p.GainLossPercent),
		)
	}

	return tw.Flush()
}

func Totals(w io.Writer, r model.Report) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Invested:\t%s\n", Money(r.Totals.TotalInvested, r.BaseCurrency))
	fmt.Fprintf(tw, "Market value:\t%s\n", Money(r.Totals.TotalMarketValue, r.BaseCurrency))
	fmt.Fprintf(tw, "Gain/loss:\t%s (%s)\n", signed(r.Totals.TotalGainLoss, r.BaseCurrency), percent(r.Totals.TotalGainLossPercent))
	return tw.Flush()
}

func RealizedGains(w io.Writer, r model.Report) error {
	rg := r.RealizedGains
	tw := newTable(w)
	fmt.Fprintf(tw, "Closed trades:\t%d\n", rg.TotalClosedTrades)
	fmt.Fprintf(tw, "Winning / losing:\t%d / %d\n", rg.WinningTrades, rg.LosingTrades)
	fmt.Fprintf(tw, "Win ratio:\t%s\n", percent(rg.WinRatio))
	fmt.Fprintf(tw, "Realized profit:\t%s\n", signed(rg.RealizedProfit, r.BaseCurrency))
	return tw.Flush()
}

// Allocation lists asset types by market value, largest first.
func Allocation(w io.Writer, r model.Report) error {
	entries := slices.Clone(r.Allocation)
	slices.SortStableFunc(entries, func(a, b model.AllocationEntry) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		default:
			return 0
		}
	})

	tw := newTable(w)
	fmt.Fprintf(tw, "TYPE\tVALUE\tSHARE\n")
	fmt.Fprintf(tw, "────\t─────\t─────\n")
	for _, a := range entries {
		var share float64
		if r.Totals.TotalMarketValue > 0 {
			share = a.Value / r.Totals.TotalMarketValue * 100
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Name, Money(a.Value, r.BaseCurrency), percent(share))
	}
	return tw.Flush()
}

func History(w io.Writer, entries []model.HistoryEntry) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "DATE\tTYPE\tTICKER\tQUANTITY\tPRICE\tFEE\tTOTAL\tBROKER\n")
	fmt.Fprintf(tw, "────\t────\t──────\t────────\t─────\t───\t─────\t──────\n")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Date.Format("2006-01-02"),
			e.Type,
			e.Ticker,
			quantity(e.Quantity),
			Money(e.Price, e.Currency),
			Money(e.Fee, e.Currency),
			Money(e.Total, e.Currency),
			e.Broker,
		)
	}
	return tw.Flush()
}

// Performance prints one column per benchmark, in the order the benchmarks
// are listed.
func Performance(w io.Writer, points []model.PerformancePoint, benchmarks []model.Benchmark) error {
	tw := newTable(w)

	fmt.Fprint(tw, "PERIOD\tPORTFOLIO")
	for _, b := range benchmarks {
		fmt.Fprintf(tw, "\t%s", b.Name)
	}
	fmt.Fprintln(tw)

	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%.2f", p.Label, p.Portfolio)
		for _, b := range benchmarks {
			if v, ok := p.Benchmarks[b.Name]; ok {
				fmt.Fprintf(tw, "\t%.2f", v)
			} else {
				fmt.Fprint(tw, "\t-")
			}
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

// Report prints every section of r separated by blank lines.
func Report(w io.Writer, r model.Report) error {
	sections := []func(io.Writer, model.Report) error{Totals, Positions, Allocation, RealizedGains}
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := section(w, r); err != nil {
			return err
		}
	}
	return nil
}
