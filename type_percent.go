package tally

import (
	"fmt"
	"math"
)

type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// String formats the percentage with one decimal, like "12.5%".
func (p Percent) String() string {
	return fmt.Sprintf("%.1f%%", float64(p))
}

// Class returns "gain", "loss" or "neutral" depending on the sign of the
// percentage as displayed.
func (p Percent) Class() string {
	shown := math.Round(float64(p)*10) / 10
	switch {
	case shown == 0:
		return "neutral"
	case shown < 0:
		return "loss"
	default:
		return "gain"
	}
}
