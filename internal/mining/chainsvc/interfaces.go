// Package chainsvc declares the external collaborators the mining core
// consumes: the chain view, UTXO view, mempool, wallet, consensus/time
// helpers, the chain processor and the network and invalid-output-set
// views. Each is a narrow interface scoped to its consumer, following
// kaspad's practice of defining consumer-side interfaces
// (domain/miningmanager/model) next to the code that uses them rather than
// one monolithic node interface. None of these are implemented by this
// module — spec.md §1 explicitly treats them as out of scope.
package chainsvc

import (
	"context"

	"github.com/UserR256/PRCYCoin/internal/mining/chain"
)

// BlockIndex is an opaque handle to a block's position in the chain, as
// returned by ChainView.Tip/IndexAt and consumed by MedianTimePast and
// ReadBlock.
type BlockIndex interface {
	Height() int32
	Hash() chain.Hash
}

// ChainView is the read side of the active chain.
type ChainView interface {
	Tip() BlockIndex
	IndexAt(height int32) (BlockIndex, error)
	BlockHashAt(height int32) (chain.Hash, error)
	ReadBlock(index BlockIndex) (*chain.Block, error)
	MedianTimePast(index BlockIndex) uint32
	// BestBlockHash must be called under the caller's own lock
	// (chain.Locks.BestBlock), never cs_main.
	BestBlockHash() chain.Hash
	IsSpentKeyImage(keyImage chain.KeyImage, context BlockIndex) bool
	// NewUTXOView returns a fresh, point-in-time UTXO view derived from the
	// coins tip, scoped to one template build (spec.md §4.3 step 4).
	NewUTXOView() UTXOView
}

// UTXOView is a point-in-time view of the unspent output set, scoped to one
// template build.
type UTXOView interface {
	HaveInputs(tx *chain.Tx) bool
	CheckInputs(tx *chain.Tx, flags ScriptFlags) error
	UpdateCoins(tx *chain.Tx, height int32) error
	// ValueAndAge returns the referenced output's value and the number of
	// confirmations it has at the height this view was built for, feeding
	// priority.CalcPriority. ok is false if op isn't in the view.
	ValueAndAge(op chain.OutPoint) (value chain.Amount, confirmations int64, ok bool)
}

// ScriptFlags are the mandatory script verification flags consulted by
// UTXOView.CheckInputs.
type ScriptFlags uint32

// MempoolView is the selector's read side of the shared mempool.
type MempoolView interface {
	Snapshot() chain.Snapshot
	ApplyDeltas(hash chain.Hash) (priorityDelta float64, feeDelta chain.Amount)
	TransactionsUpdatedCounter() uint64
}

// StakeResult is what Wallet.CreateCoinStake returns on success.
type StakeResult struct {
	Tx   *chain.Tx
	Time uint32
}

// Wallet is the set of wallet operations the template builder and miner
// worker need. Key generation, commitment creation and signing themselves
// are out of scope (spec.md §1); only the call shape is defined here.
type Wallet interface {
	GenerateAddress() (pubKey, txPub, txPriv []byte, err error)
	CreateCoinStake(ctx context.Context, nBits uint32, searchWindow int64) (*StakeResult, bool)
	MintableCoins() bool
	IsLocked() bool
	GetBalance() chain.Amount
	EncodeTxOutAmount(out *chain.TxOut, amount chain.Amount, sharedSecret []byte) error
	CreateCommitment(blind []byte, value chain.Amount) ([]byte, error)
	MakeSchnorrSignature(tx *chain.Tx) ([]byte, error)
	VerifySchnorrKeyImage(tx *chain.Tx, signature []byte) bool
	AddComputedPrivateKey(out *chain.TxOut) ([]byte, error)
	SignBlock(block *chain.Block, privKey []byte) error
	IsTransactionForMe(tx *chain.Tx) bool
}

// ConsensusTime is the time/consensus-parameter surface the builder and
// selector depend on.
type ConsensusTime interface {
	AdjustedTime() uint32
	GetNextWorkRequired(prev BlockIndex, header *chain.BlockHeader) uint32
	GetBlockValue(height int32) chain.Amount
	IsFinalTx(tx *chain.Tx, height int32) bool
	AllowFree(priority float64) bool
	GetPriority(tx *chain.Tx, height int32) float64
	GetLegacySigOpCount(tx *chain.Tx) int
	// ComputeProofOfWorkHash hashes header with the network's PoW
	// algorithm. The algorithm itself is a cryptographic primitive out of
	// scope for this module; only the nonce-search loop that calls it is
	// ours.
	ComputeProofOfWorkHash(header *chain.BlockHeader) chain.Hash
}

// ChainProcessor hands a solved block off to validation/chain-activation,
// returning the accepted block's hash for the worker to broadcast.
type ChainProcessor interface {
	ProcessNewBlock(ctx context.Context, source string, block *chain.Block) (chain.Hash, error)
}

// NetworkView exposes the peer set, inventory broadcast and sync status.
type NetworkView interface {
	PeerCount() int
	BroadcastBlockHash(hash chain.Hash)
	IsSynced() bool
}

// InvalidOutputSet is the blacklist of outpoints the selector must reject
// even if they are otherwise unspent.
type InvalidOutputSet interface {
	ContainsOutpoint(op chain.OutPoint) bool
}

// MasternodePayments fills masternode/budget payee outputs on a PoW
// coinbase, per spec.md §4.3 step 5.
type MasternodePayments interface {
	// FillPayee appends a payee output to coinbase if one is due for
	// height, returning the payee script that was used, or nil if none was
	// due.
	FillPayee(coinbase *chain.Tx, height int32) (payeeScript []byte)
}
