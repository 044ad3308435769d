package tally

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/tally/date"
)

// fixedPrices is a price source for tests.
type fixedPrices map[string]Money

func (f fixedPrices) Price(_ context.Context, ticker string) (Money, error) {
	if p, ok := f[ticker]; ok {
		return p, nil
	}
	return Money{}, nil
}

type failingPrices struct{}

func (failingPrices) Price(context.Context, string) (Money, error) {
	return Money{}, errors.New("no market")
}

const positionsSample = `
Date,Quantity,Symbol,Price,Currency
3/4/2024,2,MSFT,110,USD
1/2/2024,10,MSFT,100,USD
1/2/2024,5,AAPL,20,USD
`

func TestPositions(t *testing.T) {
	b := mustImport(t, positionsSample)

	positions, err := Positions(context.Background(), b, nil)
	if err != nil {
		t.Fatalf("Positions() error = %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("len(Positions()) = %d, want 2", len(positions))
	}

	aapl, msft := positions[0], positions[1]
	if aapl.Ticker != "AAPL" || msft.Ticker != "MSFT" {
		t.Fatalf("tickers = %q, %q, want sorted AAPL, MSFT", aapl.Ticker, msft.Ticker)
	}

	if !aapl.Count.Equal(Q(5)) || !aapl.Cost.Equal(USD(100)) || !aapl.AveragePrice.Equal(USD(20)) {
		t.Errorf("AAPL = %v x avg %v = %v, want 5 x 20 = 100", aapl.Count, aapl.AveragePrice, aapl.Cost)
	}
	if !msft.Count.Equal(Q(12)) || !msft.Cost.Equal(USD(1220)) {
		t.Errorf("MSFT = %v for %v, want 12 for 1220", msft.Count, msft.Cost)
	}

	// lots follow the book order.
	if len(msft.Lots) != 2 {
		t.Fatalf("len(MSFT.Lots) = %d, want 2", len(msft.Lots))
	}
	first, second := msft.Lots[0], msft.Lots[1]
	if first.Date != date.New(2024, time.March, 4) || !first.Quantity.Equal(Q(2)) || !first.Price.Equal(USD(110)) || !first.Cost.Equal(USD(220)) {
		t.Errorf("MSFT.Lots[0] = %+v, want 2 @ 110 on 2024-03-04", first)
	}
	if second.Date != date.New(2024, time.January, 2) || !second.Quantity.Equal(Q(10)) {
		t.Errorf("MSFT.Lots[1] = %+v, want 10 on 2024-01-02", second)
	}

	// market and performance fields are placeholders.
	for _, p := range positions {
		if !p.MarketPrice.IsZero() || !p.MarketValue.IsZero() || !p.Gain.Equal(0) {
			t.Errorf("%s market fields = %v, %v, %v, want zeros", p.Ticker, p.MarketPrice, p.MarketValue, p.Gain)
		}
		for _, l := range p.Lots {
			if !l.Value.IsZero() || !l.Gain.Equal(0) || !l.Dividends.IsZero() || !l.DividendYield.Equal(0) {
				t.Errorf("%s lot %v placeholders are not zero: %+v", p.Ticker, l.Date, l)
			}
		}
	}
}

func TestPositions_Prices(t *testing.T) {
	b := mustImport(t, positionsSample)

	positions, err := Positions(context.Background(), b, fixedPrices{"MSFT": USD(120)})
	if err != nil {
		t.Fatalf("Positions() error = %v", err)
	}
	msft := positions[1]
	if !msft.MarketPrice.Equal(USD(120)) || !msft.MarketValue.Equal(USD(1440)) {
		t.Errorf("MSFT market = %v / %v, want 120 / 1440", msft.MarketPrice, msft.MarketValue)
	}
	if aapl := positions[0]; !aapl.MarketValue.Equal(USD(0)) {
		t.Errorf("AAPL MarketValue = %v, want 0", aapl.MarketValue)
	}

	if _, err := Positions(context.Background(), b, fixedPrices{"MSFT": M(120, "EUR")}); err == nil {
		t.Errorf("Positions() expected a currency mismatch error")
	}
	if _, err := Positions(context.Background(), b, failingPrices{}); err == nil {
		t.Errorf("Positions() expected the price source error")
	}
}

func TestPositions_EmptyBuys(t *testing.T) {
	b := NewPlaceholderBook("USD", date.New(2025, time.July, 1))
	positions, err := Positions(context.Background(), b, NoPrices{})
	if err != nil {
		t.Fatalf("Positions() error = %v", err)
	}
	if len(positions) != 1 || positions[0].Ticker != "" || !positions[0].AveragePrice.IsZero() {
		t.Errorf("Positions() = %+v, want a single empty ticker position", positions)
	}
}
