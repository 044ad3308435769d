package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/tally"
	md "github.com/nao1215/markdown"
)

// PositionsMarkdown renders the portfolio view: for every ticker, the total
// count at the market price and the lots it was bought in.
func PositionsMarkdown(positions []tally.Position) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio")
	if len(positions) == 0 {
		doc.PlainText("No positions.")
		return doc.String()
	}

	for _, p := range positions {
		doc.H2(ticker(p.Ticker))
		doc.PlainText(fmt.Sprintf("%s x %s = %s (%s)",
			p.Count.Grouped(), p.MarketPrice, p.MarketValue, p.Gain))
		doc.PlainText(fmt.Sprintf("Cost: %s, average price: %s", p.Cost, p.AveragePrice))

		rows := make([][]string, 0, len(p.Lots))
		for _, l := range p.Lots {
			rows = append(rows, []string{
				l.Date.LongString(),
				l.Quantity.Grouped(),
				l.Price.String(),
				l.Value.String(),
				l.Gain.String(),
				l.Dividends.String(),
				l.DividendYield.String(),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Date", "Quantity", "Price", "Value", "Gain", "Dividends", "Yield"},
			Rows:   rows,
		})
	}
	return doc.String()
}
