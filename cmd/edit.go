package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tally"
	"github.com/etnz/tally/date"
	"github.com/google/subcommands"
)

// today is the default date of new orders.
var today = date.Today

// buyFlags are the buy fields shared by the commands that create or change a buy.
type buyFlags struct {
	ticker   string
	quantity string
	price    string
}

func (b *buyFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&b.ticker, "t", "", "ticker symbol of the security")
	f.StringVar(&b.quantity, "q", "", "quantity bought, like 1,000")
	f.StringVar(&b.price, "p", "", "price per share, like 12.50")
}

// update returns the fields explicitly set on the command line.
func (b *buyFlags) update(f *flag.FlagSet) tally.BuyUpdate {
	var u tally.BuyUpdate
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "t":
			u.Ticker = &b.ticker
		case "q":
			u.Quantity = &b.quantity
		case "p":
			u.Price = &b.price
		}
	})
	return u
}

func (b *buyFlags) isSet(f *flag.FlagSet) bool {
	u := b.update(f)
	return u.Ticker != nil || u.Quantity != nil || u.Price != nil
}

// addOrderCmd holds the flags for the 'add-order' subcommand.
type addOrderCmd struct {
	date string
	buyFlags
}

func (*addOrderCmd) Name() string     { return "add-order" }
func (*addOrderCmd) Synopsis() string { return "create an order holding one buy" }
func (*addOrderCmd) Usage() string {
	return `tly add-order [-d <date>] [-t <ticker>] [-q <quantity>] [-p <price>]

  Creates a new order on top of the others, holding one buy. The buy fields
  are empty unless given.
`
}

func (c *addOrderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "order date (default today). See the user manual for supported date formats.")
	c.buyFlags.SetFlags(f)
}

func (c *addOrderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on := today()
	if c.date != "" {
		var err error
		on, err = date.Parse(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}
	o := book.CreateOrder(on)
	if c.buyFlags.isSet(f) {
		buy := o.Buys()[0]
		if _, err := book.ChangeBuy(o.ID(), buy.ID, c.buyFlags.update(f)); err != nil {
			fmt.Fprintf(os.Stderr, "Error changing buy: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return saveBook(book)
}

// editOrderCmd holds the flags for the 'edit-order' subcommand.
type editOrderCmd struct {
	order int
	date  string
}

func (*editOrderCmd) Name() string     { return "edit-order" }
func (*editOrderCmd) Synopsis() string { return "change the date of an order" }
func (*editOrderCmd) Usage() string {
	return `tly edit-order -o <order> -d <date>

  Changes the date of an order. Orders are listed newest first when the file is
  read again.
`
}

func (c *editOrderCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.order, "o", -1, "order ID, as displayed by 'tly orders'")
	f.StringVar(&c.date, "d", "", "new order date")
}

func (c *editOrderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.order < 0 || c.date == "" {
		fmt.Fprintln(os.Stderr, "Error: -o and -d are required")
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := book.ChangeOrder(c.order, tally.OrderUpdate{Date: &on}); err != nil {
		fmt.Fprintf(os.Stderr, "Error changing order: %v\n", err)
		return subcommands.ExitFailure
	}
	return saveBook(book)
}

// rmOrderCmd holds the flags for the 'rm-order' subcommand.
type rmOrderCmd struct {
	order int
}

func (*rmOrderCmd) Name() string     { return "rm-order" }
func (*rmOrderCmd) Synopsis() string { return "delete an order and all its buys" }
func (*rmOrderCmd) Usage() string {
	return `tly rm-order -o <order>

  Deletes an order and all its buys.
`
}

func (c *rmOrderCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.order, "o", -1, "order ID, as displayed by 'tly orders'")
}

func (c *rmOrderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.order < 0 {
		fmt.Fprintln(os.Stderr, "Error: -o is required")
		return subcommands.ExitUsageError
	}
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := book.DeleteOrder(c.order); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting order: %v\n", err)
		return subcommands.ExitFailure
	}
	return saveBook(book)
}

// addBuyCmd holds the flags for the 'add-buy' subcommand.
type addBuyCmd struct {
	order int
	buyFlags
}

func (*addBuyCmd) Name() string     { return "add-buy" }
func (*addBuyCmd) Synopsis() string { return "append a buy to an order" }
func (*addBuyCmd) Usage() string {
	return `tly add-buy -o <order> [-t <ticker>] [-q <quantity>] [-p <price>]

  Appends a buy to an order. Fields not given are left empty.
`
}

func (c *addBuyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.order, "o", -1, "order ID, as displayed by 'tly orders'")
	c.buyFlags.SetFlags(f)
}

func (c *addBuyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.order < 0 {
		fmt.Fprintln(os.Stderr, "Error: -o is required")
		return subcommands.ExitUsageError
	}
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}
	buy, err := book.CreateBuy(c.order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding buy: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := book.ChangeBuy(c.order, buy.ID, c.buyFlags.update(f)); err != nil {
		fmt.Fprintf(os.Stderr, "Error changing buy: %v\n", err)
		return subcommands.ExitFailure
	}
	return saveBook(book)
}

// editBuyCmd holds the flags for the 'edit-buy' subcommand.
type editBuyCmd struct {
	order int
	buy   int
	buyFlags
}

func (*editBuyCmd) Name() string     { return "edit-buy" }
func (*editBuyCmd) Synopsis() string { return "change the fields of a buy" }
func (*editBuyCmd) Usage() string {
	return `tly edit-buy -o <order> -b <buy> [-t <ticker>] [-q <quantity>] [-p <price>]

  Changes the fields of a buy. Quantity and price are read leniently: commas
  are ignored and unreadable numbers count as zero.
`
}

func (c *editBuyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.order, "o", -1, "order ID, as displayed by 'tly orders'")
	f.IntVar(&c.buy, "b", -1, "buy ID within the order")
	c.buyFlags.SetFlags(f)
}

func (c *editBuyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.order < 0 || c.buy < 0 {
		fmt.Fprintln(os.Stderr, "Error: -o and -b are required")
		return subcommands.ExitUsageError
	}
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := book.ChangeBuy(c.order, c.buy, c.buyFlags.update(f)); err != nil {
		fmt.Fprintf(os.Stderr, "Error changing buy: %v\n", err)
		return subcommands.ExitFailure
	}
	return saveBook(book)
}

// rmBuyCmd holds the flags for the 'rm-buy' subcommand.
type rmBuyCmd struct {
	order int
	buy   int
}

func (*rmBuyCmd) Name() string     { return "rm-buy" }
func (*rmBuyCmd) Synopsis() string { return "delete a buy from an order" }
func (*rmBuyCmd) Usage() string {
	return `tly rm-buy -o <order> -b <buy>

  Deletes a buy from an order. An order left without buys is not written to
  the working file.
`
}

func (c *rmBuyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.order, "o", -1, "order ID, as displayed by 'tly orders'")
	f.IntVar(&c.buy, "b", -1, "buy ID within the order")
}

func (c *rmBuyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.order < 0 || c.buy < 0 {
		fmt.Fprintln(os.Stderr, "Error: -o and -b are required")
		return subcommands.ExitUsageError
	}
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := book.DeleteBuy(c.order, c.buy); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting buy: %v\n", err)
		return subcommands.ExitFailure
	}
	return saveBook(book)
}
