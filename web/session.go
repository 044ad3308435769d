package web

import (
	"sync"

	"github.com/etnz/tally"
)

// Session is the book edited through the server. It lives as long as the
// process, handlers access it concurrently.
type Session struct {
	mu     sync.RWMutex
	book   *tally.Book
	prices tally.Prices
}

// NewSession creates a session editing 'book', with market prices read from
// 'prices' (nil means no prices).
func NewSession(book *tally.Book, prices tally.Prices) *Session {
	if prices == nil {
		prices = tally.NoPrices{}
	}
	return &Session{book: book, prices: prices}
}

// View calls f with the book for reading.
func (s *Session) View(f func(*tally.Book) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f(s.book)
}

// Update calls f with the book for editing.
func (s *Session) Update(f func(*tally.Book) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f(s.book)
}

// Replace swaps the edited book, typically after an import.
func (s *Session) Replace(book *tally.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.book = book
}

// Currency returns the currency of the edited book.
func (s *Session) Currency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Currency()
}
