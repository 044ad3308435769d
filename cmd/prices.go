package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tally/pricedb"
	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
)

// pricesCmd holds the flags for the 'prices' subcommand.
type pricesCmd struct {
	db     string
	seed   bool
	ticker string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "list the stocks and prices of the price database" }
func (*pricesCmd) Usage() string {
	return `tly prices [-db <dsn>] [-seed] [-t <ticker>]

  Lists the stocks of the price database, or the daily prices of one of them.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.db, "db", "", "price database DSN (default from the configuration)")
	f.BoolVar(&c.seed, "seed", false, "seed the price database first")
	f.StringVar(&c.ticker, "t", "", "list the prices of this ticker")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	dsn := cfg.Prices
	if c.db != "" {
		dsn = c.db
	}

	store, err := openPrices(ctx, dsn, cfg.Currency, c.seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	var out string
	if c.ticker == "" {
		out, err = stocksMarkdown(ctx, store)
	} else {
		out, err = pricesMarkdown(ctx, store, c.ticker)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading price database: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(out)
	return subcommands.ExitSuccess
}

func stocksMarkdown(ctx context.Context, store *pricedb.Store) (string, error) {
	stocks, err := store.Stocks(ctx)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf).H1("Stocks")
	if len(stocks) == 0 {
		return doc.PlainText("No stocks.").String(), nil
	}
	return doc.BulletList(stocks...).String(), nil
}

func pricesMarkdown(ctx context.Context, store *pricedb.Store, ticker string) (string, error) {
	prices, err := store.Prices(ctx, ticker)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf).H1(ticker)
	if len(prices) == 0 {
		return doc.PlainText("No prices.").String(), nil
	}
	rows := make([][]string, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, []string{
			p.Date.String(),
			p.Open.String(),
			p.High.String(),
			p.Low.String(),
			p.Close.String(),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Date", "Open", "High", "Low", "Close"},
		Rows:   rows,
	})
	return doc.String(), nil
}
