package game

import (
	"fmt"
	"math"
	"strconv"
)

// FormatNumber renders a magnitude the way the HUD shows it: billions and
// millions with two decimals, thousands with one, anything smaller as a
// floored integer.
func FormatNumber(n float64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.2fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.2fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fk", n/1e3)
	default:
		return strconv.FormatInt(int64(math.Floor(n)), 10)
	}
}
