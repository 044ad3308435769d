package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/tally"
)

// OrdersMarkdown renders the orders view: the book total then every order with
// its buys and total.
func OrdersMarkdown(b *tally.Book) string {
	var w strings.Builder

	fmt.Fprint(&w, "# Orders\n\n")
	fmt.Fprintf(&w, "**Total**: %s\n\n", b.Total())

	for o := range b.Orders() {
		fmt.Fprintf(&w, "## %s (#%d)\n\n", o.Date().LongString(), o.ID())
		fmt.Fprintln(&w, "| # | Ticker | Quantity | Price | Total |")
		fmt.Fprintln(&w, "|---:|:---|---:|---:|---:|")
		for _, buy := range o.Buys() {
			fmt.Fprintf(&w, "| %d | %s | %s | %s | %s |\n",
				buy.ID,
				ticker(buy.Ticker),
				buy.Quantity.Grouped(),
				buy.Price,
				buy.Total(),
			)
		}
		fmt.Fprintf(&w, "\n**Total**: %s\n\n", o.Total())
	}
	return w.String()
}

// ticker escapes a ticker for a table cell.
func ticker(t string) string {
	if t == "" {
		return "-"
	}
	return strings.ReplaceAll(t, "|", `\|`)
}
