// Package miner implements the worker state machine (C5) and the
// supervisor that owns a worker group (C6), grounded on kaspad's
// cmd/kaspaminer mineloop.go shape (spawn, heartbeat ticker, atomic hash
// counter, periodic rate logger) fused with the cooperative-cancellation
// token DESIGN NOTES §9 calls for, since this module has no interruption-
// point primitive to borrow.
package miner

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/UserR256/PRCYCoin/config"
	"github.com/UserR256/PRCYCoin/internal/mining/blocktemplate"
	"github.com/UserR256/PRCYCoin/internal/mining/chain"
	"github.com/UserR256/PRCYCoin/internal/mining/chainsvc"
)

const (
	gateSleep          = 5 * time.Second
	mintablePollLong   = 5 * time.Minute
	mintablePollShort  = 1 * time.Minute
	minRehashInterval  = 1 * time.Second
	nonceHeartbeat     = 256
	maxNonce           = 0xffff0000
	mempoolStaleWindow = 60 * time.Second
	rateLogInterval    = 30 * time.Minute
	powAbortMargin     = 6

	// minimumReserveBalance is the PoS gate's reserved-floor check.
	// spec.md §4.5 leaves the exact figure to wallet policy (out of
	// scope); this is a conservative placeholder so the gate has a
	// concrete threshold to test against.
	minimumReserveBalance chain.Amount = chain.COIN
)

// Worker runs one mining thread's state machine: gate, build, work,
// submit, repeat.
type Worker struct {
	ID          int
	Builder     *blocktemplate.Builder
	Chain       chainsvc.ChainView
	Mempool     chainsvc.MempoolView
	Wallet      chainsvc.Wallet
	Network     chainsvc.NetworkView
	Time        chainsvc.ConsensusTime
	Processor   chainsvc.ChainProcessor
	Locks       *chain.Locks
	Params      *config.ConsensusParams
	PayToScript []byte
	Rate        *RateEstimator
	State       *State

	// ForcePoS fixes this worker to PoS mode regardless of tip height,
	// the dedicated stake minter's equivalent of the original's
	// ThreadStakeMinter calling BitcoinMiner(pwallet, true).
	ForcePoS bool

	lastMintableCheck time.Time
	lastMintableOK    bool
	lastRateLog       time.Time
}

// Run drives the state machine until ctx is cancelled or the worker's mode
// is permanently retired (the PoW-only abort gate).
func (w *Worker) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		proofOfStake, ok := w.gate(ctx)
		if !ok {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Infof("worker %d: retiring, PoW mining window closed", w.ID)
			return nil
		}

		template, err := w.build(ctx, proofOfStake)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Debugf("worker %d: no template: %s", w.ID, err)
			continue
		}
		if template == nil {
			continue
		}

		var solved *chain.Block
		if proofOfStake {
			solved, err = w.workPoS(template)
		} else {
			solved, err = w.workPoW(ctx, template)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Warnf("worker %d: work failed: %s", w.ID, err)
			continue
		}
		if solved == nil {
			continue
		}

		if err := w.submit(ctx, solved); err != nil {
			if errors.Is(err, ErrSubmitStale) {
				log.Debugf("worker %d: %s", w.ID, err)
			} else {
				log.Warnf("worker %d: %s", w.ID, err)
			}
		}
	}
}

// gate implements §4.5's gating rules, re-checking every gateSleep until
// the worker is clear to build.
func (w *Worker) gate(ctx context.Context) (proofOfStake bool, ok bool) {
	for {
		if ctx.Err() != nil {
			return false, false
		}

		tip := w.Chain.Tip()
		forcedPoS := w.ForcePoS || tip.Height() >= w.Params.LastPoWBlock
		if !forcedPoS && tip.Height()-powAbortMargin > w.Params.LastPoWBlock {
			return false, false
		}

		if forcedPoS && !w.gatePoS() {
			if !sleepCtx(ctx, gateSleep) {
				return false, false
			}
			continue
		}

		if w.State.RecentlyHashed(tip.Height(), time.Now().UnixNano(), minRehashInterval.Nanoseconds()) {
			if !sleepCtx(ctx, gateSleep) {
				return false, false
			}
			continue
		}

		return forcedPoS, true
	}
}

func (w *Worker) gatePoS() bool {
	if w.Network.PeerCount() == 0 {
		return false
	}
	if w.Wallet.IsLocked() {
		return false
	}
	if !w.pollMintable() {
		return false
	}
	if w.Wallet.GetBalance() <= minimumReserveBalance {
		return false
	}
	return w.Network.IsSynced()
}

// pollMintable re-asks the wallet for mintable coins at most every
// mintablePollLong, or mintablePollShort if the last answer was false.
func (w *Worker) pollMintable() bool {
	now := time.Now()
	interval := mintablePollLong
	if !w.lastMintableOK {
		interval = mintablePollShort
	}
	if !w.lastMintableCheck.IsZero() && now.Sub(w.lastMintableCheck) < interval {
		return w.lastMintableOK
	}
	w.lastMintableOK = w.Wallet.MintableCoins()
	w.lastMintableCheck = now
	return w.lastMintableOK
}

// build generates a fresh ephemeral keypair and runs §4.3. A
// *blocktemplate.BuildError is non-fatal to the worker: it loops.
func (w *Worker) build(ctx context.Context, proofOfStake bool) (*chain.BlockTemplate, error) {
	_, txPub, txPriv, err := w.Wallet.GenerateAddress()
	if err != nil {
		return nil, err
	}
	template, err := w.Builder.Build(ctx, w.PayToScript, txPub, txPriv, proofOfStake)
	if err != nil {
		var buildErr *blocktemplate.BuildError
		if errors.As(err, &buildErr) {
			return nil, nil
		}
		return nil, err
	}
	return template, nil
}

// workPoW runs the nonce-search loop of §4.5, checking termination
// conditions every nonceHeartbeat iterations.
func (w *Worker) workPoW(ctx context.Context, template *chain.BlockTemplate) (*chain.Block, error) {
	block := template.Block
	target := decodeCompact(block.Header.Bits)
	startTime := time.Now()
	startCounter := w.Mempool.TransactionsUpdatedCounter()
	startPrevBlock := block.Header.HashPrevBlock

	var nonce uint32
	for {
		for i := uint32(0); i < nonceHeartbeat; i++ {
			block.Header.Nonce = nonce
			h := w.Time.ComputeProofOfWorkHash(&block.Header)
			nonce++
			if hashMeetsTarget(h, target) {
				w.Rate.AddHashes(uint64(i + 1))
				return block, nil
			}
			if nonce >= maxNonce {
				w.Rate.AddHashes(uint64(i + 1))
				return nil, nil
			}
		}
		w.Rate.AddHashes(nonceHeartbeat)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if w.Network.PeerCount() == 0 {
			return nil, nil
		}
		if w.Mempool.TransactionsUpdatedCounter() != startCounter && time.Since(startTime) > mempoolStaleWindow {
			return nil, nil
		}
		if w.Chain.Tip().Hash() != startPrevBlock {
			return nil, nil
		}
		if time.Since(w.lastRateLog) > rateLogInterval {
			log.Infof("worker %d: hash rate %.2f H/s", w.ID, w.Rate.SampleAndReset())
			w.lastRateLog = time.Now()
		}
	}
}

// workPoS has nothing left to search: the solution is already embedded
// (and signed) by the builder's §4.3 step 10.
func (w *Worker) workPoS(template *chain.BlockTemplate) (*chain.Block, error) {
	return template.Block, nil
}

// submit implements ProcessBlockFound: verify freshness under the
// best-block lock, then hand off to the chain processor and broadcast.
func (w *Worker) submit(ctx context.Context, block *chain.Block) error {
	var stale bool
	w.Locks.WithBestBlock(func() {
		if block.Header.HashPrevBlock != w.Chain.BestBlockHash() {
			stale = true
		}
	})
	if stale {
		return ErrSubmitStale
	}

	hash, err := w.Processor.ProcessNewBlock(ctx, "miner", block)
	if err != nil {
		return errors.Wrap(ErrSubmitRejected, err.Error())
	}
	w.Network.BroadcastBlockHash(hash)
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
