package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/STTM-NSU/portfolio-tracker/internal/client"
	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/bytedance/sonic"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

const _addressDefault = "http://localhost:8080"

var (
	address    = flag.String("addr", "", "tracker address, defaults to $PORTFOLIO_ADDR or "+_addressDefault)
	user       = flag.String("user", "", "user id, defaults to $PORTFOLIO_USER")
	book       = flag.String("book", "personal", "book (profile) name")
	jsonOutput = flag.Bool("json", false, "print raw json instead of tables")
	verbose    = flag.Bool("v", false, "log http requests")
)

func main() {
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&recordCmd{}, "server")
	commander.Register(&reportCmd{}, "server")
	commander.Register(&historyCmd{}, "server")
	commander.Register(&performanceCmd{}, "server")
	commander.Register(&booksCmd{}, "server")
	commander.Register(&evalCmd{}, "offline")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func newClient() *client.Client {
	var l logger.Logger = logger.NewNopLogger()
	if *verbose {
		zapLogger, _, err := logger.NewZapLogger(logger.Debug)
		if err == nil {
			l = zapLogger
		}
	}
	return client.New(cmp.Or(*address, os.Getenv("PORTFOLIO_ADDR"), _addressDefault), l)
}

func bookKey() (model.BookKey, error) {
	key := model.BookKey{UserID: cmp.Or(*user, os.Getenv("PORTFOLIO_USER")), Book: *book}
	if !key.Valid() {
		return key, fmt.Errorf("invalid book %q, set -user and -book", key)
	}
	return key, nil
}

func printJSON(w io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: can't encode output", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
