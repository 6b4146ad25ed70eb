package miner

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/UserR256/PRCYCoin/internal/mining/blocktemplate"
	"github.com/UserR256/PRCYCoin/internal/mining/chainsvc"
	"github.com/UserR256/PRCYCoin/util/panics"
)

// spawn starts f in a new goroutine with panic recovery wired to the
// package logger, so a panic in one worker is caught and logged with its
// stack traces (spec.md §7); the handler then shuts the process down with
// exit status 1.
var spawn = panics.GoroutineWrapperFunc(log)

// group is a cancelable set of workers sharing one WaitGroup, the unit
// SetGenerate/StartPoA/StartStakeMinter each replace wholesale.
type group struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (g *group) stop() {
	if g == nil {
		return
	}
	g.cancel()
	g.wg.Wait()
}

// Supervisor owns at most one PoW/PoS worker group, one PoA ticker worker
// and one stake-minter worker per process, generalized from kaspad's
// cmd/kaspaminer/templatemanager singleton-with-mutex shape into a type so
// a process can host more than one mining subsystem without package
// globals.
type Supervisor struct {
	mu sync.Mutex

	generate *group
	poa      *group
	stake    *group

	newWorker func(id int) *Worker
}

// NewSupervisor returns a Supervisor whose workers are built by newWorker,
// which the caller supplies pre-wired with the shared Builder/collaborators.
func NewSupervisor(newWorker func(id int) *Worker) *Supervisor {
	return &Supervisor{newWorker: newWorker}
}

// SetGenerate starts or stops the PoW/PoS worker pool. nThreads < 0 spawns
// runtime.NumCPU() workers.
func (s *Supervisor) SetGenerate(enabled bool, nThreads int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generate.stop()
	s.generate = nil

	if !enabled || nThreads == 0 {
		return
	}
	if nThreads < 0 {
		nThreads = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &group{cancel: cancel}
	for i := 0; i < nThreads; i++ {
		w := s.newWorker(i)
		g.wg.Add(1)
		spawn(func() {
			defer g.wg.Done()
			if err := w.Run(ctx); err != nil {
				log.Debugf("generate worker exited: %s", err)
			}
		})
	}
	s.generate = g
}

// StartPoA spawns a single worker that sleeps period (default 180s if 0)
// and invokes §4.4 on each wake. Idempotent: a prior PoA worker is
// replaced.
func (s *Supervisor) StartPoA(builder *blocktemplate.Builder, payToScript []byte, processor chainsvc.ChainProcessor, period time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.poa.stop()

	if period <= 0 {
		period = 180 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &group{cancel: cancel}
	g.wg.Add(1)
	spawn(func() {
		defer g.wg.Done()
		runPoALoop(ctx, builder, payToScript, processor, period)
	})
	s.poa = g
}

func runPoALoop(ctx context.Context, builder *blocktemplate.Builder, payToScript []byte, processor chainsvc.ChainProcessor, period time.Duration) {
	for {
		if !sleepCtx(ctx, period) {
			return
		}
		template, err := builder.BuildPoA(payToScript)
		if err != nil {
			log.Debugf("PoA worker: no template: %s", err)
			continue
		}
		if _, err := processor.ProcessNewBlock(ctx, "poa-miner", template.Block); err != nil {
			log.Warnf("PoA worker: block rejected: %s", err)
		}
	}
}

// StartStakeMinter spawns one worker fixed to PoS mode from the start
// (w.ForcePoS=true), matching the original's ThreadStakeMinter calling
// BitcoinMiner(pwallet, true) rather than waiting on the tip to reach
// LastPoWBlock.
func (s *Supervisor) StartStakeMinter(w *Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.ForcePoS = true
	s.stake.stop()

	ctx, cancel := context.WithCancel(context.Background())
	g := &group{cancel: cancel}
	g.wg.Add(1)
	spawn(func() {
		defer g.wg.Done()
		if err := w.Run(ctx); err != nil {
			log.Debugf("stake minter exited: %s", err)
		}
	})
	s.stake = g
}

// Stop cancels and joins every worker group the supervisor owns.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generate.stop()
	s.poa.stop()
	s.stake.stop()
	s.generate, s.poa, s.stake = nil, nil, nil
}
