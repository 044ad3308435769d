package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tally"
	"github.com/etnz/tally/pricedb"
	"github.com/etnz/tally/renderer"
	"github.com/google/subcommands"
)

type ordersCmd struct{}

func (*ordersCmd) Name() string     { return "orders" }
func (*ordersCmd) Synopsis() string { return "display every order and its buys" }
func (*ordersCmd) Usage() string {
	return `tly orders

  Displays the orders of the working file, newest first, with their IDs,
  buys and totals.
`
}

func (c *ordersCmd) SetFlags(f *flag.FlagSet) {}

func (c *ordersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.OrdersMarkdown(book))
	return subcommands.ExitSuccess
}

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	prices string
	seed   bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the buys aggregated by ticker" }
func (*positionsCmd) Usage() string {
	return `tly positions [-prices <dsn>] [-seed]

  Displays the portfolio: for every ticker, the number of shares, the cost and
  the lots they were bought in. Market prices are zero unless a price database
  is given.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.prices, "prices", "", "price database DSN (sqlite) to read market prices from")
	f.BoolVar(&c.seed, "seed", false, "seed the price database before reading it")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	var prices tally.Prices = tally.NoPrices{}
	if c.prices != "" {
		store, err := openPrices(ctx, c.prices, book.Currency(), c.seed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening price database: %v\n", err)
			return subcommands.ExitFailure
		}
		defer store.Close()
		prices = store
	}

	positions, err := tally.Positions(ctx, book, prices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing positions: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PositionsMarkdown(positions))
	return subcommands.ExitSuccess
}

// openPrices opens the price database, seeded when asked to.
func openPrices(ctx context.Context, dsn, currency string, seed bool) (*pricedb.Store, error) {
	store, err := pricedb.Open(ctx, dsn, currency)
	if err != nil {
		return nil, err
	}
	if seed {
		if err := store.Seed(ctx, today()); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}
