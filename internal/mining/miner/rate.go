package miner

import (
	"sync"
	"time"
)

// RateEstimator is the hashes-per-second counter spec.md §5 calls for:
// "dHashesPerSec, nHPSTimerStart, nHashCounter guarded by the
// rate-estimator mutex". Lifted from kaspad's cmd/kaspaminer/mineloop.go
// hashesTried/logHashRate pair, generalized from a package global to a
// field so every worker in a pool shares one estimator under one lock
// (spec.md §5's "single-writer via a mutex", extended here to multi-writer
// single-reader since more than one PoW worker may contribute hashes).
type RateEstimator struct {
	mu          sync.Mutex
	hashes      uint64
	windowStart time.Time
}

// NewRateEstimator returns an estimator with its window starting now.
func NewRateEstimator() *RateEstimator {
	return &RateEstimator{windowStart: time.Now()}
}

// AddHashes records n more nonces tried since the last sample.
func (r *RateEstimator) AddHashes(n uint64) {
	r.mu.Lock()
	r.hashes += n
	r.mu.Unlock()
}

// SampleAndReset returns the hash rate (hashes/second) since the previous
// sample and resets the window, matching logHashRate's drain-on-sample
// idiom.
func (r *RateEstimator) SampleAndReset() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(r.windowStart).Seconds()
	r.windowStart = now
	if elapsed <= 0 {
		return 0
	}
	rate := float64(r.hashes) / elapsed
	r.hashes = 0
	return rate
}
