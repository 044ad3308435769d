package tally

import (
	"strings"
	"testing"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// mustImport imports a CSV sample for tests.
func mustImport(t *testing.T, sample string) *Book {
	t.Helper()
	b, err := ImportCSV(strings.NewReader(strings.TrimLeft(sample, "\n")), "USD")
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	return b
}

// orderIDs returns the ids of the orders in display order.
func orderIDs(b *Book) []int {
	var ids []int
	for o := range b.Orders() {
		ids = append(ids, o.ID())
	}
	return ids
}
