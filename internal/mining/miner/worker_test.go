package miner

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/UserR256/PRCYCoin/config"
	"github.com/UserR256/PRCYCoin/internal/mining/chain"
)

func TestGate_ReturnsFalseWhenContextAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &Worker{
		Chain:  &fakeChainView{tipHeight: 10},
		Params: &config.ConsensusParams{LastPoWBlock: 1000},
		State:  NewState(),
	}
	_, ok := w.gate(ctx)
	if ok {
		t.Error("expected gate to report not-ok on an already-cancelled context")
	}
}

func TestGate_AllowsPoWBeforeLastBlock(t *testing.T) {
	w := &Worker{
		Chain:  &fakeChainView{tipHeight: 10},
		Params: &config.ConsensusParams{LastPoWBlock: 1000},
		State:  NewState(),
	}
	proofOfStake, ok := w.gate(context.Background())
	if !ok || proofOfStake {
		t.Errorf("gate() = (%v, %v), want (false, true)", proofOfStake, ok)
	}
}

func TestGate_ForcesPoSAtOrAboveLastPoWBlock(t *testing.T) {
	w := &Worker{
		Chain:   &fakeChainView{tipHeight: 1000},
		Params:  &config.ConsensusParams{LastPoWBlock: 1000},
		State:   NewState(),
		Network: &fakeNetwork{peers: 1, synced: true},
		Wallet:  fakeWallet{balance: 10 * chain.COIN, mintable: true},
	}
	proofOfStake, ok := w.gate(context.Background())
	if !ok || !proofOfStake {
		t.Errorf("gate() = (%v, %v), want (true, true)", proofOfStake, ok)
	}
}

func TestGatePoS(t *testing.T) {
	base := func() *Worker {
		return &Worker{
			Network: &fakeNetwork{peers: 1, synced: true},
			Wallet:  fakeWallet{balance: 10 * chain.COIN, mintable: true},
		}
	}
	tests := []struct {
		name   string
		modify func(w *Worker)
		want   bool
	}{
		{"baseline passes", func(w *Worker) {}, true},
		{"no peers", func(w *Worker) { w.Network = &fakeNetwork{peers: 0, synced: true} }, false},
		{"wallet locked", func(w *Worker) { w.Wallet = fakeWallet{locked: true, balance: 10 * chain.COIN, mintable: true} }, false},
		{"no mintable coins", func(w *Worker) { w.Wallet = fakeWallet{balance: 10 * chain.COIN, mintable: false} }, false},
		{"balance at floor", func(w *Worker) { w.Wallet = fakeWallet{balance: minimumReserveBalance, mintable: true} }, false},
		{"not synced", func(w *Worker) { w.Network = &fakeNetwork{peers: 1, synced: false} }, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := base()
			test.modify(w)
			if got := w.gatePoS(); got != test.want {
				t.Errorf("gatePoS() = %v, want %v", got, test.want)
			}
		})
	}
}

func newTestWorker(hashFunc func() chain.Hash) *Worker {
	return &Worker{
		ID:      1,
		Chain:   &fakeChainView{tipHash: chain.Hash{0x01}},
		Mempool: &fakeMempoolView{},
		Network: &fakeNetwork{peers: 1},
		Time:    fakeConsensusTime{hashFunc: hashFunc},
		Rate:    NewRateEstimator(),
	}
}

func TestWorkPoW_SolvesImmediately(t *testing.T) {
	w := newTestWorker(func() chain.Hash { return chain.Hash{} })
	template := &chain.BlockTemplate{Block: &chain.Block{Header: chain.BlockHeader{
		Bits:          0x1d00ffff,
		HashPrevBlock: chain.Hash{0x01},
	}}}
	block, err := w.workPoW(context.Background(), template)
	if err != nil {
		t.Fatalf("workPoW() error = %v", err)
	}
	if block == nil {
		t.Fatal("expected a solved block")
	}
}

func TestWorkPoW_ReturnsNilWhenPeersDrop(t *testing.T) {
	var maxHash chain.Hash
	for i := range maxHash {
		maxHash[i] = 0xff
	}
	w := newTestWorker(func() chain.Hash { return maxHash })
	w.Network = &fakeNetwork{peers: 0}
	template := &chain.BlockTemplate{Block: &chain.Block{Header: chain.BlockHeader{
		Bits:          0x1d00ffff,
		HashPrevBlock: chain.Hash{0x01},
	}}}
	block, err := w.workPoW(context.Background(), template)
	if err != nil {
		t.Fatalf("workPoW() error = %v", err)
	}
	if block != nil {
		t.Error("expected no solution once the peer count drops to zero")
	}
}

func TestWorkPoW_RespectsContextCancellation(t *testing.T) {
	var maxHash chain.Hash
	for i := range maxHash {
		maxHash[i] = 0xff
	}
	w := newTestWorker(func() chain.Hash { return maxHash })
	w.Network = &fakeNetwork{peers: 1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	template := &chain.BlockTemplate{Block: &chain.Block{Header: chain.BlockHeader{
		Bits:          0x1d00ffff,
		HashPrevBlock: chain.Hash{0x01},
	}}}
	_, err := w.workPoW(ctx, template)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWorkPoS_PassesTemplateThrough(t *testing.T) {
	w := &Worker{}
	template := &chain.BlockTemplate{Block: &chain.Block{}}
	block, err := w.workPoS(template)
	if err != nil || block != template.Block {
		t.Errorf("workPoS() = (%v, %v), want (template.Block, nil)", block, err)
	}
}

func TestSubmit_StaleReturnsErrSubmitStale(t *testing.T) {
	w := &Worker{
		Chain: &fakeChainView{tipHash: chain.Hash{0x02}},
		Locks: &chain.Locks{},
	}
	block := &chain.Block{Header: chain.BlockHeader{HashPrevBlock: chain.Hash{0x01}}}
	err := w.submit(context.Background(), block)
	if !errors.Is(err, ErrSubmitStale) {
		t.Errorf("err = %v, want ErrSubmitStale", err)
	}
}

func TestSubmit_Success(t *testing.T) {
	network := &fakeNetwork{}
	processor := &fakeProcessor{accepted: chain.Hash{0x09}}
	w := &Worker{
		Chain:     &fakeChainView{tipHash: chain.Hash{0x01}},
		Locks:     &chain.Locks{},
		Network:   network,
		Processor: processor,
	}
	block := &chain.Block{Header: chain.BlockHeader{HashPrevBlock: chain.Hash{0x01}}}
	if err := w.submit(context.Background(), block); err != nil {
		t.Fatalf("submit() error = %v", err)
	}
	if len(network.broadcast) != 1 || network.broadcast[0] != (chain.Hash{0x09}) {
		t.Errorf("broadcast = %v, want [{0x09}]", network.broadcast)
	}
}

func TestSubmit_RejectedWrapsError(t *testing.T) {
	processor := &fakeProcessor{err: errors.New("bad block")}
	w := &Worker{
		Chain:     &fakeChainView{tipHash: chain.Hash{0x01}},
		Locks:     &chain.Locks{},
		Network:   &fakeNetwork{},
		Processor: processor,
	}
	block := &chain.Block{Header: chain.BlockHeader{HashPrevBlock: chain.Hash{0x01}}}
	err := w.submit(context.Background(), block)
	if errors.Cause(err) != ErrSubmitRejected {
		t.Errorf("Cause(err) = %v, want ErrSubmitRejected", errors.Cause(err))
	}
}

func TestSleepCtx_ReturnsFalseOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleepCtx(ctx, time.Second) {
		t.Error("expected sleepCtx to return false on an already-cancelled context")
	}
}

func TestSleepCtx_ReturnsTrueOnElapse(t *testing.T) {
	if !sleepCtx(context.Background(), time.Millisecond) {
		t.Error("expected sleepCtx to return true once the duration elapses")
	}
}
