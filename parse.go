package tally

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numeric fields typed by users or read from files are coerced rather than
// validated: thousand separators are dropped, the longest numeric prefix is
// used and anything unreadable counts as zero. Values are read as float64, so
// numbers out of its range count as zero too and exponents stay bounded.

var (
	amountPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	countPrefix  = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseAmount reads a decimal number from s, zero if s holds none.
// "1,234.5" is 1234.5, "12abc" is 12 and "abc" is 0.
func ParseAmount(s string) decimal.Decimal {
	return coerce(amountPrefix, s)
}

// ParseCount reads a whole number from s, zero if s holds none.
// Decimals are truncated: "12.9" is 12.
func ParseCount(s string) decimal.Decimal {
	return coerce(countPrefix, s)
}

func coerce(prefix *regexp.Regexp, s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	num := prefix.FindString(s)
	if num == "" {
		return decimal.Zero
	}
	num = strings.TrimSuffix(strings.TrimPrefix(num, "+"), ".")
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// groupThousands inserts a comma every three digits of the integer part of a
// formatted number: "-1234567.50" becomes "-1,234,567.50".
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	return sign + groupDigits(s, ",", ".")
}

// groupDigits formats an unsigned "1234.50" number with the thousand and
// decimal separators given.
func groupDigits(s, thousand, dec string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], dec+s[i+1:]
	}
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thousand)
		}
		b.WriteRune(c)
	}
	return b.String() + frac
}
