package chain

import "sync"

// Locks bundles the three locks the mining core coordinates with, in their
// single canonical acquisition order: Main before Mempool; BestBlock is
// never held across Main. Every helper that needs more than one lock
// acquires them in that order and releases with defer immediately after
// acquiring, so release is guaranteed on every exit path including a
// cancelled context.
type Locks struct {
	Main      sync.RWMutex
	Mempool   sync.RWMutex
	BestBlock sync.Mutex
}

// WithChainAndMempool runs fn while holding Main and Mempool for reading, in
// that order, and releases both on return.
func (l *Locks) WithChainAndMempool(fn func()) {
	l.Main.RLock()
	defer l.Main.RUnlock()
	l.Mempool.RLock()
	defer l.Mempool.RUnlock()
	fn()
}

// WithChain runs fn while holding Main for reading.
func (l *Locks) WithChain(fn func()) {
	l.Main.RLock()
	defer l.Main.RUnlock()
	fn()
}

// WithBestBlock runs fn while holding BestBlock. It must never be called
// from within WithChain/WithChainAndMempool.
func (l *Locks) WithBestBlock(fn func()) {
	l.BestBlock.Lock()
	defer l.BestBlock.Unlock()
	fn()
}
