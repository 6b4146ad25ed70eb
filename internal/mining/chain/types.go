// Package chain defines the data model the mining core operates on: hashes,
// transactions, blocks and block templates. It owns no behavior beyond
// simple accessors — selection, template assembly and mining live in the
// sibling mining packages.
package chain

import (
	"encoding/hex"

	"github.com/btcsuite/btcutil"
)

// HashSize is the size, in bytes, of a Hash or KeyImage.
const HashSize = 32

// Hash is a 256-bit identifier: a transaction hash, block hash or Merkle
// root. It is a fixed-size array rather than a slice so it can be used as a
// map key and compared with ==, matching chainhash.Hash in the wider
// btcsuite/kaspad family.
type Hash [HashSize]byte

// String returns the hash as a big-endian hex string.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero hash, used as PRCYCoin's "no
// value" sentinel (e.g. the genesis PoA block's HashPrevPoABlock).
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// KeyImage is the per-input, globally-unique value that identifies a spent
// output in the ring-signature model. It is a distinct type from Hash so
// that a hash accidentally passed where a key image is expected (or vice
// versa) is a compile error.
type KeyImage [HashSize]byte

// String returns the key image as a big-endian hex string.
func (k KeyImage) String() string {
	return hex.EncodeToString(k[:])
}

// Amount is a quantity of PRCY denominated in the smallest unit; COIN of
// them make one whole coin. btcutil.Amount supplies the formatting helpers
// so the module doesn't reinvent fixed-point-to-string conversion.
type Amount = btcutil.Amount

// COIN is the number of Amount units in one whole coin.
const COIN Amount = 1e8

// OutPoint identifies a single output of a prior transaction.
type OutPoint struct {
	Hash  Hash
	Index uint32
}

// TxIn is a transaction input: a reference to a prior output plus the key
// image that proves (and uniquely tags) the spend. ScriptSig is only ever
// populated on vtx[0]'s sole input (the coinbase), carrying the
// height-commitment and extra-nonce bytes §4.3.1 rewrites on every
// IncrementExtraNonce call.
type TxIn struct {
	PrevOut   OutPoint
	KeyImage  KeyImage
	ScriptSig []byte
}

// TxOut is a transaction output. Value is the cleartext amount where known
// (e.g. before a Pedersen commitment has replaced it); Commitment and
// EphemeralPubKey carry the value-hiding and stealth-addressing material the
// wallet collaborator computes.
type TxOut struct {
	Value           Amount
	Commitment      []byte
	EphemeralPubKey []byte
	ScriptPubKey    []byte
}

// TxType tags the structural role of a transaction.
type TxType int

// TxType values.
const (
	TxRevealAmount TxType = iota
	TxStandard
	TxCoinbase
	TxCoinstake
)

func (t TxType) String() string {
	switch t {
	case TxRevealAmount:
		return "RevealAmount"
	case TxStandard:
		return "Standard"
	case TxCoinbase:
		return "Coinbase"
	case TxCoinstake:
		return "Coinstake"
	default:
		return "Unknown"
	}
}

// Tx is a transaction record. Selection never mutates a Tx. Template
// assembly mutates only the coinbase it creates and the coinstake the
// wallet hands it (crediting, merging and zeroing coinstake outputs in
// place); mempool transactions are left untouched.
type Tx struct {
	Hash     Hash
	Version  uint32
	Type     TxType
	LockTime uint32
	Ins      []TxIn
	Outs     []TxOut
	Fee      Amount

	// SerializedSize is the tx's size on the wire. The selector and
	// template builders only ever need the size, not the raw bytes, so the
	// serializer (out of scope, §6) is expected to have filled this in
	// before the tx reaches the mempool.
	SerializedSize int64
	// SigOpCount is the legacy signature-operation count, likewise filled
	// in by an external collaborator (GetLegacySigOpCount).
	SigOpCount int
}

// TxID returns the transaction's hash. It exists so *Tx satisfies any
// "has a hash" duck-typed interface used by the priority/selector packages.
func (tx *Tx) TxID() Hash {
	return tx.Hash
}

// MempoolEntry is one pool entry: the transaction plus the priority/fee
// deltas the mempool collaborator tracks for it (bumps applied verbatim by
// the priority model).
type MempoolEntry struct {
	Tx            *Tx
	PriorityDelta float64
	FeeDelta      Amount
}

// Snapshot is a read-only view over the mempool for the duration of one
// template build.
type Snapshot map[Hash]*MempoolEntry

// BlockHeader is the fixed-size portion of a block.
type BlockHeader struct {
	Version               int32
	HashPrevBlock         Hash
	HashMerkleRoot        Hash
	Time                  uint32
	Bits                  uint32
	Nonce                 uint32
	AccumulatorCheckpoint Hash
}

// PoSBlockSummary records one PoS block audited by a PoA block. Time == 0
// signals that re-verification of the referenced PoS block failed; the
// audit still records the entry.
type PoSBlockSummary struct {
	Hash   Hash
	Height uint32
	Time   uint32
}

// PoAData is the PoA-specific payload attached to a Block. It is nil for
// PoW and PoS blocks.
type PoAData struct {
	PosBlocksAudited []PoSBlockSummary
	HashPrevPoABlock Hash
	PoAMerkleRoot    Hash
	MinedHash        Hash
}

// Block is a header, its transaction list, and — for PoA blocks — the audit
// payload.
type Block struct {
	Header BlockHeader
	Vtx    []*Tx
	// Payee carries the script of an extra masternode/budget payee output
	// split out of the coinbase by the PoW payment collaborator, so the
	// chain processor can verify it without re-deriving it from vtx[0].
	Payee []byte
	PoA   *PoAData
}

// IsProofOfStake reports whether this block carries a coinstake as vtx[1].
func (b *Block) IsProofOfStake() bool {
	return len(b.Vtx) > 1 && b.Vtx[1].Type == TxCoinstake
}

// BlockTemplate owns a Block plus parallel, vtx-index-aligned fee and
// sig-op vectors. Index 0 is always the coinbase; index 1, in PoS
// templates, is the coinstake.
type BlockTemplate struct {
	Block  *Block
	Fees   []Amount
	SigOps []int
}

// TotalFees sums every non-coinbase, non-coinstake fee recorded in the
// template.
func (t *BlockTemplate) TotalFees() Amount {
	var total Amount
	start := 1
	if t.Block.IsProofOfStake() {
		start = 2
	}
	for i := start; i < len(t.Fees); i++ {
		total += t.Fees[i]
	}
	return total
}
