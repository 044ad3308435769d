package tally

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/tally/date"
)

// Prices provides the market price of a ticker.
type Prices interface {
	Price(ctx context.Context, ticker string) (Money, error)
}

// NoPrices is the placeholder price source: every ticker is worth zero.
type NoPrices struct{}

func (NoPrices) Price(context.Context, string) (Money, error) { return Money{}, nil }

// Lot is one buy seen from the position of its ticker.
type Lot struct {
	Date     date.Date `json:"date"`
	Quantity Quantity  `json:"quantity"`
	Price    Money     `json:"price"`
	Cost     Money     `json:"cost"`
	// Market and performance fields are placeholders, always zero.
	Value         Money   `json:"value"`
	Gain          Percent `json:"gain"`
	Dividends     Money   `json:"dividends"`
	DividendYield Percent `json:"dividendYield"`
}

// Position aggregates every buy of a ticker.
type Position struct {
	Ticker       string   `json:"ticker"`
	Count        Quantity `json:"count"`
	Cost         Money    `json:"cost"`
	AveragePrice Money    `json:"averagePrice"`
	MarketPrice  Money    `json:"marketPrice"`
	MarketValue  Money    `json:"marketValue"`
	Gain         Percent  `json:"gain"` // placeholder, always zero.
	Lots         []Lot    `json:"lots"`
}

// Positions groups the buys of every order by ticker. Lots keep the book
// order, positions are sorted by ticker.
//
// Market prices are read from 'prices', a nil source means NoPrices.
func Positions(ctx context.Context, b *Book, prices Prices) ([]Position, error) {
	if prices == nil {
		prices = NoPrices{}
	}
	zero := M(0, b.currency)

	index := make(map[string]*Position)
	for o := range b.Orders() {
		for _, buy := range o.buys {
			p, ok := index[buy.Ticker]
			if !ok {
				p = &Position{Ticker: buy.Ticker, Count: Q(0), Cost: zero}
				index[buy.Ticker] = p
			}
			p.Lots = append(p.Lots, Lot{
				Date:      o.date,
				Quantity:  buy.Quantity,
				Price:     buy.Price,
				Cost:      buy.Total(),
				Value:     zero,
				Dividends: zero,
			})
			p.Count = p.Count.Add(buy.Quantity)
			p.Cost = p.Cost.Add(buy.Total())
		}
	}

	positions := make([]Position, 0, len(index))
	for _, p := range index {
		p.AveragePrice = zero
		if !p.Count.IsZero() {
			p.AveragePrice = p.Cost.Div(p.Count)
		}

		price, err := prices.Price(ctx, p.Ticker)
		if err != nil {
			return nil, fmt.Errorf("cannot get price of %q: %w", p.Ticker, err)
		}
		if price.cur != "" && price.cur != b.currency {
			return nil, fmt.Errorf("price of %q is in %s, want %s", p.Ticker, price.cur, b.currency)
		}
		p.MarketPrice = M(price.value, b.currency)
		p.MarketValue = p.MarketPrice.Mul(p.Count)
		positions = append(positions, *p)
	}
	slices.SortFunc(positions, func(a, b Position) int { return strings.Compare(a.Ticker, b.Ticker) })
	return positions, nil
}
