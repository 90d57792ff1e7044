package contract

import (
	"slices"
	"sort"
)

// ChainInfo is the option chain definition for one exchange venue and trading
// class: the expirations and strikes that can be traded there. The gateway
// streams one part per venue; parts for the same venue are merged.
type ChainInfo struct {
	Exchange     string    `json:"exchange"`
	TradingClass string    `json:"trading_class"`
	Multiplier   string    `json:"multiplier"`
	Expirations  []string  `json:"expirations"`
	Strikes      []float64 `json:"strikes"`
}

// Merge folds another part for the same venue into this one, keeping
// expirations and strikes sorted and de-duplicated.
func (c *ChainInfo) Merge(other ChainInfo) {
	c.Expirations = mergeSorted(c.Expirations, other.Expirations)
	c.Strikes = mergeSorted(c.Strikes, other.Strikes)
}

func mergeSorted[T string | float64](a, b []T) []T {
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}

// NearestStrikes returns up to n strikes centered on the middle of the chain,
// sorted ascending. Used for automatic strike selection.
func (c ChainInfo) NearestStrikes(n int) []float64 {
	strikes := slices.Clone(c.Strikes)
	sort.Float64s(strikes)
	if len(strikes) <= n {
		return strikes
	}
	mid := len(strikes) / 2
	lo := mid - n/2
	if lo < 0 {
		lo = 0
	}
	hi := lo + n
	if hi > len(strikes) {
		hi = len(strikes)
		lo = hi - n
	}
	return strikes[lo:hi]
}
