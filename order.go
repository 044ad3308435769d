package tally

import (
	"slices"

	"github.com/etnz/tally/date"
)

// Buy is one purchase record: a quantity of a ticker bought at a price.
type Buy struct {
	ID       int
	Ticker   string
	Quantity Quantity
	Price    Money
}

// Total returns the cost of the buy: quantity times price.
func (b Buy) Total() Money { return b.Price.Mul(b.Quantity) }

func (b Buy) MarshalJSON() ([]byte, error) {
	return fields{
		{key: "id", value: b.ID},
		{key: "ticker", value: b.Ticker},
		{key: "quantity", value: b.Quantity},
		{key: "price", value: b.Price},
		{key: "total", value: b.Total()},
	}.MarshalJSON()
}

// Order is a dated group of buys.
//
// Buy IDs are allocated from a counter owned by the order and never reused.
type Order struct {
	id        int
	date      date.Date
	buys      []Buy
	nextBuyID int
	currency  string
}

func (o *Order) ID() int          { return o.id }
func (o *Order) Date() date.Date  { return o.date }
func (o *Order) Currency() string { return o.currency }
func (o *Order) Len() int         { return len(o.buys) }

// Buys returns a copy of the order's buys in display order.
func (o *Order) Buys() []Buy { return slices.Clone(o.buys) }

// Buy returns the buy with this id.
func (o *Order) Buy(id int) (Buy, bool) {
	i := o.index(id)
	if i < 0 {
		return Buy{}, false
	}
	return o.buys[i], true
}

// Total returns the sum of all buy totals.
func (o *Order) Total() Money {
	total := M(0, o.currency)
	for _, b := range o.buys {
		total = total.Add(b.Total())
	}
	return total
}

// appendBuy adds a buy with the next buy id and returns it.
func (o *Order) appendBuy(ticker string, quantity Quantity, price Money) Buy {
	b := Buy{ID: o.nextBuyID, Ticker: ticker, Quantity: quantity, Price: price}
	o.nextBuyID++
	o.buys = append(o.buys, b)
	return b
}

// appendEmptyBuy adds a buy with no ticker, and zero quantity and price.
func (o *Order) appendEmptyBuy() Buy { return o.appendBuy("", Q(0), M(0, o.currency)) }

func (o *Order) index(buyID int) int {
	return slices.IndexFunc(o.buys, func(b Buy) bool { return b.ID == buyID })
}

func (o *Order) MarshalJSON() ([]byte, error) {
	buys := o.buys
	if buys == nil {
		buys = []Buy{}
	}
	return fields{
		{key: "id", value: o.id},
		{key: "date", value: o.date},
		{key: "total", value: o.Total()},
		{key: "buys", value: buys},
	}.MarshalJSON()
}
