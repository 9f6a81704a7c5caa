package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/STTM-NSU/portfolio-tracker/internal/render"
	"github.com/google/subcommands"
)

type recordCmd struct {
	date      string
	assetType string
	broker    string
	currency  string
	fee       float64
}

func (*recordCmd) Name() string     { return "record" }
func (*recordCmd) Synopsis() string { return "record a buy or sell in a book" }
func (*recordCmd) Usage() string {
	return `pcli [-user <id>] [-book <name>] record [-d <date>] [-type <asset type>] [-c <currency>] [-fee <fee>] [-broker <name>] <buy|sell> <ticker> <quantity> <price>

  Appends a transaction to the book. The tracker validates it and the new
  transaction shows up in reports once it has been stored.
`
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "trade date (YYYY-MM-DD), defaults to now")
	f.StringVar(&c.assetType, "type", "", "asset type (share, cedear, future, fund, bond, etf, dollars, pesos)")
	f.StringVar(&c.broker, "broker", "", "broker the trade went through")
	f.StringVar(&c.currency, "c", "", "currency of price and fee, defaults to the reporting currency")
	f.Float64Var(&c.fee, "fee", 0, "commission paid, in the trade currency")
}

func (c *recordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 4 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	key, err := bookKey()
	if err != nil {
		return fail(err)
	}

	var quantity, price float64
	if _, err := fmt.Sscan(f.Arg(2), &quantity); err != nil {
		return fail(fmt.Errorf("%w: invalid quantity %q", err, f.Arg(2)))
	}
	if _, err := fmt.Sscan(f.Arg(3), &price); err != nil {
		return fail(fmt.Errorf("%w: invalid price %q", err, f.Arg(3)))
	}

	rec := model.TransactionRecord{
		Type:      f.Arg(0),
		Ticker:    f.Arg(1),
		AssetType: c.assetType,
		Broker:    c.broker,
		Quantity:  &quantity,
		Price:     &price,
		Currency:  c.currency,
		Fee:       &c.fee,
	}
	if c.date != "" {
		date, err := time.Parse(time.DateOnly, c.date)
		if err != nil {
			return fail(fmt.Errorf("%w: invalid date", err))
		}
		rec.Date = &date
	}

	tx, err := newClient().Record(ctx, key, rec)
	if err != nil {
		return fail(err)
	}

	if *jsonOutput {
		if err := printJSON(os.Stdout, tx); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}
	fmt.Printf("recorded %s %g %s @ %s as %s\n", tx.Type, tx.Quantity, tx.Ticker, render.Money(tx.Price, tx.Currency), tx.ID)
	return subcommands.ExitSuccess
}

type reportCmd struct{}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "show positions, totals, allocation and realized gains" }
func (*reportCmd) Usage() string {
	return `pcli [-user <id>] [-book <name>] report
`
}
func (*reportCmd) SetFlags(*flag.FlagSet) {}

func (*reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key, err := bookKey()
	if err != nil {
		return fail(err)
	}

	report, err := newClient().Report(ctx, key)
	if err != nil {
		return fail(err)
	}

	if *jsonOutput {
		err = printJSON(os.Stdout, report)
	} else {
		err = render.Report(os.Stdout, report)
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list the transactions of a book, newest first" }
func (*historyCmd) Usage() string {
	return `pcli [-user <id>] [-book <name>] history
`
}
func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key, err := bookKey()
	if err != nil {
		return fail(err)
	}

	history, err := newClient().History(ctx, key)
	if err != nil {
		return fail(err)
	}

	if *jsonOutput {
		err = printJSON(os.Stdout, history)
	} else {
		err = render.History(os.Stdout, history)
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type performanceCmd struct{}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "compare the book's return with the market benchmarks" }
func (*performanceCmd) Usage() string {
	return `pcli [-user <id>] [-book <name>] performance
`
}
func (*performanceCmd) SetFlags(*flag.FlagSet) {}

func (*performanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key, err := bookKey()
	if err != nil {
		return fail(err)
	}

	c := newClient()
	points, err := c.Performance(ctx, key)
	if err != nil {
		return fail(err)
	}

	if *jsonOutput {
		if err := printJSON(os.Stdout, points); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}

	snapshot, err := c.Snapshot(ctx)
	if err != nil {
		return fail(err)
	}
	if err := render.Performance(os.Stdout, points, snapshot.Benchmarks); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type booksCmd struct{}

func (*booksCmd) Name() string     { return "books" }
func (*booksCmd) Synopsis() string { return "list the books (profiles) a user has transactions in" }
func (*booksCmd) Usage() string {
	return `pcli [-user <id>] books
`
}
func (*booksCmd) SetFlags(*flag.FlagSet) {}

func (*booksCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key, err := bookKey()
	if err != nil {
		return fail(err)
	}

	books, err := newClient().Books(ctx, key.UserID)
	if err != nil {
		return fail(err)
	}

	if *jsonOutput {
		if err := printJSON(os.Stdout, books); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}
	for _, b := range books {
		marker := " "
		if b == key.Book {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, b)
	}
	return subcommands.ExitSuccess
}
