package blocktemplate

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

type fakeUTXOView struct{}

func (fakeUTXOView) HaveInputs(*chain.Tx) bool                             { return true }
func (fakeUTXOView) CheckInputs(*chain.Tx, chainsvc.ScriptFlags) error     { return nil }
func (fakeUTXOView) UpdateCoins(*chain.Tx, int32) error                    { return nil }
func (fakeUTXOView) ValueAndAge(chain.OutPoint) (chain.Amount, int64, bool) { return 0, 0, false }

// fakeChainView serves a fixed height and a settable block-by-height map
// for PoA's backward scan.
type fakeChainView struct {
	tipHeight int32
	tipHash   chain.Hash
	blocks    map[int32]*chain.Block
}

func (f *fakeChainView) Tip() chainsvc.BlockIndex { return fakeBlockIndex{height: f.tipHeight, hash: f.tipHash} }
func (f *fakeChainView) IndexAt(height int32) (chainsvc.BlockIndex, error) {
	var h chain.Hash
	h[0] = byte(height)
	return fakeBlockIndex{height: height, hash: h}, nil
}
func (f *fakeChainView) BlockHashAt(height int32) (chain.Hash, error) {
	idx, err := f.IndexAt(height)
	return idx.Hash(), err
}
func (f *fakeChainView) ReadBlock(index chainsvc.BlockIndex) (*chain.Block, error) {
	if b, ok := f.blocks[index.Height()]; ok {
		return b, nil
	}
	return &chain.Block{Header: chain.BlockHeader{}, Vtx: []*chain.Tx{{Type: chain.TxCoinbase}}}, nil
}
func (f *fakeChainView) MedianTimePast(chainsvc.BlockIndex) uint32                { return 1000 }
func (f *fakeChainView) BestBlockHash() chain.Hash                                { return f.tipHash }
func (f *fakeChainView) IsSpentKeyImage(chain.KeyImage, chainsvc.BlockIndex) bool { return false }
func (f *fakeChainView) NewUTXOView() chainsvc.UTXOView                           { return fakeUTXOView{} }

type fakeMempoolView struct{}

func (fakeMempoolView) Snapshot() chain.Snapshot                       { return chain.Snapshot{} }
func (fakeMempoolView) ApplyDeltas(chain.Hash) (float64, chain.Amount) { return 0, 0 }
func (fakeMempoolView) TransactionsUpdatedCounter() uint64             { return 0 }

type fakeConsensusTime struct {
	reverifyOK bool
}

func (fakeConsensusTime) AdjustedTime() uint32 { return 2000 }
func (fakeConsensusTime) GetNextWorkRequired(chainsvc.BlockIndex, *chain.BlockHeader) uint32 {
	return 0x1d00ffff
}
func (fakeConsensusTime) GetBlockValue(int32) chain.Amount                     { return 50 * chain.COIN }
func (fakeConsensusTime) IsFinalTx(*chain.Tx, int32) bool                      { return true }
func (fakeConsensusTime) AllowFree(float64) bool                               { return true }
func (fakeConsensusTime) GetPriority(*chain.Tx, int32) float64                 { return 0 }
func (fakeConsensusTime) GetLegacySigOpCount(*chain.Tx) int                    { return 1 }
func (fakeConsensusTime) ComputeProofOfWorkHash(*chain.BlockHeader) chain.Hash { return chain.Hash{} }

type fakeInvalidOutputs struct{}

func (fakeInvalidOutputs) ContainsOutpoint(chain.OutPoint) bool { return false }

type fakeWallet struct {
	createStakeOK   bool
	signBlockFails  bool
	verifySchnorrOK bool
	// verifySchnorrFunc, when set, overrides verifySchnorrOK so a single
	// fake can answer differently per tx (e.g. by tx.LockTime marker).
	verifySchnorrFunc func(*chain.Tx) bool
}

func (fakeWallet) GenerateAddress() ([]byte, []byte, []byte, error) {
	return []byte("pub"), []byte("txpub"), []byte("txpriv"), nil
}
func (w fakeWallet) CreateCoinStake(ctx context.Context, nBits uint32, searchWindow int64) (*chainsvc.StakeResult, bool) {
	if !w.createStakeOK {
		return nil, false
	}
	return &chainsvc.StakeResult{
		Tx: &chain.Tx{
			Type: chain.TxCoinstake,
			Ins:  []chain.TxIn{{}},
			// vout[0] is the empty PoS marker, vout[1] the payment output,
			// vout[2] the reward output merged into vout[1] during Build.
			Outs: []chain.TxOut{{Value: 0}, {Value: 0}, {Value: 10 * chain.COIN}},
		},
		Time: 2001,
	}, true
}
func (fakeWallet) MintableCoins() bool                                        { return true }
func (fakeWallet) IsLocked() bool                                             { return false }
func (fakeWallet) GetBalance() chain.Amount                                   { return 100 * chain.COIN }
func (fakeWallet) EncodeTxOutAmount(*chain.TxOut, chain.Amount, []byte) error { return nil }
func (fakeWallet) CreateCommitment([]byte, chain.Amount) ([]byte, error) {
	return []byte("commitment"), nil
}
func (fakeWallet) MakeSchnorrSignature(*chain.Tx) ([]byte, error) { return []byte("sig"), nil }
func (w fakeWallet) VerifySchnorrKeyImage(tx *chain.Tx, _ []byte) bool {
	if w.verifySchnorrFunc != nil {
		return w.verifySchnorrFunc(tx)
	}
	return w.verifySchnorrOK
}
func (fakeWallet) AddComputedPrivateKey(*chain.TxOut) ([]byte, error) {
	return []byte("fallback"), nil
}
func (w fakeWallet) SignBlock(*chain.Block, []byte) error {
	if w.signBlockFails {
		return errSignFailed
	}
	return nil
}
func (fakeWallet) IsTransactionForMe(*chain.Tx) bool { return false }

type fakeMasternodePayments struct {
	payeeScript []byte
}

func (f fakeMasternodePayments) FillPayee(*chain.Tx, int32) []byte { return f.payeeScript }

var errSignFailed = &testErr{"sign failed"}

type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }
