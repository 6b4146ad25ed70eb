// Package priority implements the age-weighted priority score and the two
// comparator modes the selector's heap is built over (spec.md §4.1),
// grounded on decred/dcrd's mining.go txPrioItem/CalcPriority and kaspad's
// pattern of injecting a replaceable less-func into a priority queue rather
// than branching on a boolean at every comparison.
package priority

import "github.com/UserR256/PRCYCoin/internal/mining/chain"

// Item is a transaction plus the metadata the selector's heap orders by.
// It mirrors decred's txPrioItem, generalized to the PRCYCoin fee-rate
// field name used throughout spec.md.
type Item struct {
	Tx       *chain.Tx
	Fee      chain.Amount
	SigOps   int
	Priority float64
	FeeRate  float64 // fee per 1000 bytes
}

// Mode selects which field the comparator orders by first. Modeled as a
// tagged discriminator per spec.md §9's design note, rather than a bool
// threaded through every comparison.
type Mode int

// Mode values.
const (
	ModePriority Mode = iota
	ModeFee
)

// LessFunc reports whether a should be popped before b by a max-heap over
// Item (i.e. a ranks higher than b).
type LessFunc func(a, b *Item) bool

// ByPriorityThenFee orders by priority descending, ties broken by fee-rate
// descending — "priority mode" in spec.md §4.1.
func ByPriorityThenFee(a, b *Item) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.FeeRate > b.FeeRate
}

// ByFeeThenPriority orders by fee-rate descending, ties broken by priority
// descending — "fee mode" in spec.md §4.1.
func ByFeeThenPriority(a, b *Item) bool {
	if a.FeeRate != b.FeeRate {
		return a.FeeRate > b.FeeRate
	}
	return a.Priority > b.Priority
}

// LessFuncFor returns the comparator for the given mode.
func LessFuncFor(mode Mode) LessFunc {
	if mode == ModeFee {
		return ByFeeThenPriority
	}
	return ByPriorityThenFee
}

// InputValueAge is one input's value and the number of confirmations of the
// output it spends, as seen by the chain view at the height a template is
// being built for.
type InputValueAge struct {
	Value         chain.Amount
	Confirmations int64
}

// CalcPriority computes sum(value_in_i * confirmations_i) / modifiedTxSize,
// per spec.md §4.1. modifiedTxSize must already reflect any mempool
// priority-size deltas; CalcPriority applies none of its own. A coinbase
// (no real inputs) or a transaction with a non-positive modified size has
// priority 0.
func CalcPriority(inputs []InputValueAge, modifiedTxSize int64) float64 {
	if modifiedTxSize <= 0 || len(inputs) == 0 {
		return 0
	}
	var sum float64
	for _, in := range inputs {
		sum += float64(in.Value) * float64(in.Confirmations)
	}
	return sum / float64(modifiedTxSize)
}

// FeeRate computes fee per 1000 bytes of the given size.
func FeeRate(fee chain.Amount, size int64) float64 {
	if size <= 0 {
		return 0
	}
	return float64(fee) * 1000 / float64(size)
}
