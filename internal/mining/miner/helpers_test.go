package miner

import (
	"context"

	"github.com/UserR256/PRCYCoin/internal/mining/chain"
	"github.com/UserR256/PRCYCoin/internal/mining/chainsvc"
)

type fakeBlockIndex struct {
	height int32
	hash   chain.Hash
}

func (f fakeBlockIndex) Height() int32    { return f.height }
func (f fakeBlockIndex) Hash() chain.Hash { return f.hash }

type fakeChainView struct {
	tipHeight int32
	tipHash   chain.Hash
}

func (f *fakeChainView) Tip() chainsvc.BlockIndex { return fakeBlockIndex{height: f.tipHeight, hash: f.tipHash} }
func (f *fakeChainView) IndexAt(height int32) (chainsvc.BlockIndex, error) {
	return fakeBlockIndex{height: height}, nil
}
func (f *fakeChainView) BlockHashAt(int32) (chain.Hash, error)                    { return chain.Hash{}, nil }
func (f *fakeChainView) ReadBlock(chainsvc.BlockIndex) (*chain.Block, error)      { return nil, nil }
func (f *fakeChainView) MedianTimePast(chainsvc.BlockIndex) uint32                { return 0 }
func (f *fakeChainView) BestBlockHash() chain.Hash                                { return f.tipHash }
func (f *fakeChainView) IsSpentKeyImage(chain.KeyImage, chainsvc.BlockIndex) bool { return false }
func (f *fakeChainView) NewUTXOView() chainsvc.UTXOView                           { return nil }

type fakeMempoolView struct {
	counter uint64
}

func (f *fakeMempoolView) Snapshot() chain.Snapshot                       { return chain.Snapshot{} }
func (f *fakeMempoolView) ApplyDeltas(chain.Hash) (float64, chain.Amount) { return 0, 0 }
func (f *fakeMempoolView) TransactionsUpdatedCounter() uint64             { return f.counter }

type fakeConsensusTime struct {
	hashFunc func() chain.Hash
}

func (fakeConsensusTime) AdjustedTime() uint32 { return 0 }
func (fakeConsensusTime) GetNextWorkRequired(chainsvc.BlockIndex, *chain.BlockHeader) uint32 {
	return 0
}
func (fakeConsensusTime) GetBlockValue(int32) chain.Amount     { return 0 }
func (fakeConsensusTime) IsFinalTx(*chain.Tx, int32) bool      { return true }
func (fakeConsensusTime) AllowFree(float64) bool               { return true }
func (fakeConsensusTime) GetPriority(*chain.Tx, int32) float64 { return 0 }
func (fakeConsensusTime) GetLegacySigOpCount(*chain.Tx) int    { return 0 }
func (f fakeConsensusTime) ComputeProofOfWorkHash(*chain.BlockHeader) chain.Hash {
	if f.hashFunc != nil {
		return f.hashFunc()
	}
	return chain.Hash{}
}

type fakeNetwork struct {
	peers     int
	synced    bool
	broadcast []chain.Hash
}

func (f *fakeNetwork) PeerCount() int                  { return f.peers }
func (f *fakeNetwork) BroadcastBlockHash(h chain.Hash) { f.broadcast = append(f.broadcast, h) }
func (f *fakeNetwork) IsSynced() bool                  { return f.synced }

type fakeProcessor struct {
	accepted chain.Hash
	err      error
}

func (f *fakeProcessor) ProcessNewBlock(context.Context, string, *chain.Block) (chain.Hash, error) {
	return f.accepted, f.err
}

type fakeWallet struct {
	locked   bool
	mintable bool
	balance  chain.Amount
}

func (fakeWallet) GenerateAddress() ([]byte, []byte, []byte, error) { return nil, nil, nil, nil }
func (fakeWallet) CreateCoinStake(context.Context, uint32, int64) (*chainsvc.StakeResult, bool) {
	return nil, false
}
func (w fakeWallet) MintableCoins() bool                                      { return w.mintable }
func (w fakeWallet) IsLocked() bool                                           { return w.locked }
func (w fakeWallet) GetBalance() chain.Amount                                 { return w.balance }
func (fakeWallet) EncodeTxOutAmount(*chain.TxOut, chain.Amount, []byte) error { return nil }
func (fakeWallet) CreateCommitment([]byte, chain.Amount) ([]byte, error)      { return nil, nil }
func (fakeWallet) MakeSchnorrSignature(*chain.Tx) ([]byte, error)             { return nil, nil }
func (fakeWallet) VerifySchnorrKeyImage(*chain.Tx, []byte) bool               { return true }
func (fakeWallet) AddComputedPrivateKey(*chain.TxOut) ([]byte, error)         { return nil, nil }
func (fakeWallet) SignBlock(*chain.Block, []byte) error                      { return nil }
func (fakeWallet) IsTransactionForMe(*chain.Tx) bool                          { return false }
