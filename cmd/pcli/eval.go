package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/market"
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/STTM-NSU/portfolio-tracker/internal/portfolio"
	"github.com/STTM-NSU/portfolio-tracker/internal/render"
	"github.com/STTM-NSU/portfolio-tracker/internal/store"
	"github.com/STTM-NSU/portfolio-tracker/internal/tracker"
	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

var _offlineBook = model.BookKey{UserID: "local", Book: "eval"}

type evalCmd struct {
	snapshot string
	base     string
	policy   string
}

func (*evalCmd) Name() string     { return "eval" }
func (*evalCmd) Synopsis() string { return "evaluate a transaction file against a snapshot file, no server" }
func (*evalCmd) Usage() string {
	return `pcli eval [-snapshot <file>] [-base <currency>] [-policy <lenient|clamp|reject>] <transactions.yaml>

  Reads a YAML list of transactions (date, type, ticker, asset_type, broker,
  quantity, price, currency, fee), validates every entry the way the tracker
  does and prints the resulting report and benchmark comparison.
`
}

func (c *evalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.snapshot, "snapshot", "./configs/snapshot.yaml", "market snapshot file")
	f.StringVar(&c.base, "base", "ARS", "reporting currency")
	f.StringVar(&c.policy, "policy", "lenient", "what to do with sells larger than the holding")
}

func (c *evalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	policy, err := portfolio.ParseOversellPolicy(c.policy)
	if err != nil {
		return fail(err)
	}
	snapshot, err := market.LoadSnapshot(c.snapshot)
	if err != nil {
		return fail(err)
	}
	records, err := loadRecords(f.Arg(0))
	if err != nil {
		return fail(err)
	}

	report, points, err := evaluate(ctx, portfolio.Config{BaseCurrency: c.base, OversellPolicy: policy}, snapshot, records)
	if err != nil {
		return fail(err)
	}

	if *jsonOutput {
		err = printJSON(os.Stdout, struct {
			Report      model.Report             `json:"report"`
			Performance []model.PerformancePoint `json:"performance"`
		}{report, points})
	} else {
		err = render.Report(os.Stdout, report)
		if err == nil && len(points) > 0 {
			fmt.Println()
			err = render.Performance(os.Stdout, points, snapshot.Benchmarks)
		}
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

func loadRecords(filename string) ([]model.TransactionRecord, error) {
	input, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: can't read file", err)
	}

	var records []model.TransactionRecord
	if err := yaml.Unmarshal(input, &records); err != nil {
		return nil, fmt.Errorf("%w: can't unmarshal transactions", err)
	}
	return records, nil
}

// evaluate runs records through the same append path the server uses, backed
// by an in-memory store.
func evaluate(
	ctx context.Context,
	cfg portfolio.Config,
	snapshot model.Snapshot,
	records []model.TransactionRecord,
) (model.Report, []model.PerformancePoint, error) {
	t, err := tracker.New(tracker.Config{Evaluation: cfg}, store.NewMemory(),
		market.NewStaticSource(snapshot), logger.NewNopLogger())
	if err != nil {
		return model.Report{}, nil, err
	}

	for i, rec := range records {
		if _, err := t.RecordTransaction(ctx, _offlineBook, rec); err != nil {
			return model.Report{}, nil, fmt.Errorf("%w: transaction #%d", err, i+1)
		}
	}

	report, err := t.Report(ctx, _offlineBook)
	if err != nil {
		return model.Report{}, nil, err
	}
	points, err := t.Performance(ctx, _offlineBook)
	if err != nil {
		return model.Report{}, nil, err
	}

	return report, points, nil
}
