// Package pricedb stores stocks and their daily prices in a SQL database.
//
// It is the market data placeholder of tally: prices are only written by
// hand or by Seed, nothing fetches them.
package pricedb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/etnz/tally"
	"github.com/etnz/tally/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// DefaultDSN opens a private in-memory database.
const DefaultDSN = ":memory:"

// SeedTicker is the stock inserted by Seed.
const SeedTicker = "MSFT"

const schema = `
CREATE TABLE IF NOT EXISTS stocks (
	ticker TEXT,
	UNIQUE(ticker));
CREATE TABLE IF NOT EXISTS stock_prices (
	ticker TEXT,
	date TEXT,
	open NUMBER,
	close NUMBER,
	high NUMBER,
	low NUMBER,
	UNIQUE(ticker, date));
`

// Price is one day of prices for a stock.
type Price struct {
	ID     int64 // row id, set when read.
	Ticker string
	Date   date.Date
	Open   decimal.Decimal
	Close  decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
}

// Store is a SQL backed table of stocks and prices, all in one currency.
type Store struct {
	db       *sql.DB
	currency string
}

// Open opens the database at dsn (DefaultDSN when empty) and creates the
// tables if needed. Prices are in 'currency', tally.DefaultCurrency when empty.
func Open(ctx context.Context, dsn, currency string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	if currency == "" {
		currency = tally.DefaultCurrency
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open price database %q", dsn)
	}
	// every connection to ":memory:" is a different database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create price tables")
	}
	return &Store{db: db, currency: currency}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Currency returns the currency of every price.
func (s *Store) Currency() string { return s.currency }

// AddStock declares a stock, it does nothing if it already exists.
func (s *Store) AddStock(ctx context.Context, ticker string) error {
	if ticker == "" {
		return fmt.Errorf("stock ticker is required")
	}
	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO stocks VALUES (?)`, ticker); err != nil {
		return errors.Wrapf(err, "insert stock %q", ticker)
	}
	return nil
}

// AddPrice records the prices of a stock for a day. The first prices recorded
// for a day are kept, later ones are ignored.
func (s *Store) AddPrice(ctx context.Context, p Price) error {
	if p.Ticker == "" {
		return fmt.Errorf("price ticker is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO stock_prices VALUES (?, ?, ?, ?, ?, ?)`,
		p.Ticker, p.Date.String(), p.Open, p.Close, p.High, p.Low)
	if err != nil {
		return errors.Wrapf(err, "insert %s price on %s", p.Ticker, p.Date)
	}
	return nil
}

// Seed declares SeedTicker with zero prices on day 'on'.
func (s *Store) Seed(ctx context.Context, on date.Date) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin seed")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO stocks VALUES (?)`, SeedTicker); err != nil {
		return errors.Wrap(err, "seed stocks")
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO stock_prices VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare seed prices")
	}
	defer stmt.Close()
	// the second row is a duplicate and is ignored.
	for range 2 {
		if _, err := stmt.ExecContext(ctx, SeedTicker, on.String(), 0, 0, 0, 0); err != nil {
			return errors.Wrap(err, "seed prices")
		}
	}
	return errors.Wrap(tx.Commit(), "commit seed")
}

// Stocks lists the declared tickers in alphabetical order.
func (s *Store) Stocks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticker FROM stocks ORDER BY ticker`)
	if err != nil {
		return nil, errors.Wrap(err, "query stocks")
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, errors.Wrap(err, "scan stock")
		}
		tickers = append(tickers, ticker)
	}
	return tickers, errors.Wrap(rows.Err(), "read stocks")
}

// Prices lists the prices of a ticker, or of every ticker when empty, in
// insertion order.
func (s *Store) Prices(ctx context.Context, ticker string) ([]Price, error) {
	query := `SELECT rowid, ticker, date, open, close, high, low FROM stock_prices`
	var args []any
	if ticker != "" {
		query += ` WHERE ticker = ?`
		args = append(args, ticker)
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query prices")
	}
	defer rows.Close()

	var prices []Price
	for rows.Next() {
		var p Price
		var day string
		if err := rows.Scan(&p.ID, &p.Ticker, &day, &p.Open, &p.Close, &p.High, &p.Low); err != nil {
			return nil, errors.Wrap(err, "scan price")
		}
		if p.Date, err = date.Parse(day); err != nil {
			return nil, errors.Wrapf(err, "price row %d", p.ID)
		}
		prices = append(prices, p)
	}
	return prices, errors.Wrap(rows.Err(), "read prices")
}

// Price returns the latest close of a ticker, zero if there is none. It makes
// Store a tally.Prices source.
func (s *Store) Price(ctx context.Context, ticker string) (tally.Money, error) {
	var closing decimal.Decimal
	err := s.db.QueryRowContext(ctx,
		`SELECT close FROM stock_prices WHERE ticker = ? ORDER BY date DESC LIMIT 1`,
		strings.TrimSpace(ticker)).Scan(&closing)
	if errors.Is(err, sql.ErrNoRows) {
		return tally.M(0, s.currency), nil
	}
	if err != nil {
		return tally.Money{}, errors.Wrapf(err, "query %s close", ticker)
	}
	return tally.M(closing, s.currency), nil
}

var _ tally.Prices = (*Store)(nil)
