package tally

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/tally/date"
)

var (
	// ErrOrderNotFound is returned when no order has the requested id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrBuyNotFound is returned when an order has no buy with the requested id.
	ErrBuyNotFound = errors.New("buy not found")
)

// Book is the collection of orders of a session, in display order.
//
// Order IDs are allocated from a counter owned by the book and never reused.
// All amounts in a book share the book currency.
type Book struct {
	orders      []*Order
	nextOrderID int
	currency    string
}

// NewBook creates an empty book. An empty currency means DefaultCurrency.
func NewBook(currency string) *Book {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Book{currency: currency}
}

// NewPlaceholderBook creates the book of a fresh session: a single order dated
// 'on' holding a single empty buy.
func NewPlaceholderBook(currency string, on date.Date) *Book {
	b := NewBook(currency)
	b.CreateOrder(on)
	return b
}

// Currency returns the currency of every amount in the book.
func (b *Book) Currency() string { return b.currency }

// Len returns the number of orders.
func (b *Book) Len() int { return len(b.orders) }

// Orders iterates over the orders in display order.
func (b *Book) Orders() iter.Seq[*Order] { return slices.Values(b.orders) }

// Order returns the order with this id.
func (b *Book) Order(id int) (*Order, error) {
	i := b.index(id)
	if i < 0 {
		return nil, fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
	}
	return b.orders[i], nil
}

// Total returns the sum of every buy of every order.
func (b *Book) Total() Money {
	total := M(0, b.currency)
	for _, o := range b.orders {
		total = total.Add(o.Total())
	}
	return total
}

// CreateOrder adds a new order dated 'on', in front of the others, holding a
// single empty buy.
func (b *Book) CreateOrder(on date.Date) *Order {
	o := b.newOrder(on)
	o.appendEmptyBuy()
	b.orders = slices.Insert(b.orders, 0, o)
	return o
}

// DeleteOrder removes the order with this id.
func (b *Book) DeleteOrder(id int) error {
	i := b.index(id)
	if i < 0 {
		return fmt.Errorf("cannot delete order %d: %w", id, ErrOrderNotFound)
	}
	b.orders = slices.Delete(b.orders, i, i+1)
	return nil
}

// OrderUpdate holds the order fields to change, nil fields are left untouched.
type OrderUpdate struct {
	Date *date.Date
}

// ChangeOrder applies the update to the order with this id.
func (b *Book) ChangeOrder(id int, update OrderUpdate) error {
	o, err := b.Order(id)
	if err != nil {
		return err
	}
	if update.Date != nil {
		o.date = *update.Date
	}
	return nil
}

// CreateBuy appends an empty buy to the order with this id.
func (b *Book) CreateBuy(orderID int) (Buy, error) {
	o, err := b.Order(orderID)
	if err != nil {
		return Buy{}, err
	}
	return o.appendEmptyBuy(), nil
}

// DeleteBuy removes a buy from an order.
func (b *Book) DeleteBuy(orderID, buyID int) error {
	o, err := b.Order(orderID)
	if err != nil {
		return err
	}
	i := o.index(buyID)
	if i < 0 {
		return fmt.Errorf("cannot delete buy %d of order %d: %w", buyID, orderID, ErrBuyNotFound)
	}
	o.buys = slices.Delete(o.buys, i, i+1)
	return nil
}

// BuyUpdate holds the buy fields to change as typed by a user, nil fields are
// left untouched. Quantity and Price are coerced with ParseAmount.
type BuyUpdate struct {
	Ticker   *string
	Quantity *string
	Price    *string
}

// ChangeBuy applies the update to a buy of an order and returns the changed buy.
func (b *Book) ChangeBuy(orderID, buyID int, update BuyUpdate) (Buy, error) {
	o, err := b.Order(orderID)
	if err != nil {
		return Buy{}, err
	}
	i := o.index(buyID)
	if i < 0 {
		return Buy{}, fmt.Errorf("cannot change buy %d of order %d: %w", buyID, orderID, ErrBuyNotFound)
	}
	buy := &o.buys[i]
	if update.Ticker != nil {
		buy.Ticker = *update.Ticker
	}
	if update.Quantity != nil {
		buy.Quantity = Q(ParseAmount(*update.Quantity))
	}
	if update.Price != nil {
		buy.Price = M(ParseAmount(*update.Price), b.currency)
	}
	return *buy, nil
}

// newOrder allocates an empty order with the next order id, it is not added
// to the book.
func (b *Book) newOrder(on date.Date) *Order {
	o := &Order{id: b.nextOrderID, date: on, currency: b.currency}
	b.nextOrderID++
	return o
}

func (b *Book) index(id int) int {
	return slices.IndexFunc(b.orders, func(o *Order) bool { return o.id == id })
}

func (b *Book) MarshalJSON() ([]byte, error) {
	orders := b.orders
	if orders == nil {
		orders = []*Order{}
	}
	return fields{
		{key: "currency", value: b.currency},
		{key: "total", value: b.Total()},
		{key: "orders", value: orders},
	}.MarshalJSON()
}
