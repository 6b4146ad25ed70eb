package blocktemplate

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"

	"github.com/UserR256/PRCYCoin/internal/mining/chain"
)

// coinbaseFlags is appended to every rewritten coinbase scriptSig, mirroring
// original_source/src/miner.cpp's COINBASE_FLAGS build tag.
var coinbaseFlags = []byte("/PRCYCoin/")

// maxCoinbaseScriptSigLen is the §4.3.1 ceiling on the rewritten scriptSig.
const maxCoinbaseScriptSigLen = 100

// extraNonceState is the single-writer-per-process {lastPrevBlock,
// extraNonce} pair DESIGN NOTES §9 calls for: a mutex-guarded record owned
// by the builder instead of a package global.
type extraNonceState struct {
	mu            sync.Mutex
	lastPrevBlock chain.Hash
	extraNonce    uint32
}

// increment implements §4.3.1: reset on a new tip, bump the counter,
// rewrite vtx[0]'s sole scriptSig, and recompute the merkle root over the
// transactions' Hash fields. The coinbase's Hash field is not recomputed
// here, so the root reflects whatever hash it already carries.
func (s *extraNonceState) increment(block *chain.Block, height int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if block.Header.HashPrevBlock != s.lastPrevBlock {
		s.extraNonce = 0
		s.lastPrevBlock = block.Header.HashPrevBlock
	}
	s.extraNonce++

	scriptSig := encodeHeightScript(height)
	var nonceBuf [4]byte
	binary.LittleEndian.PutUint32(nonceBuf[:], s.extraNonce)
	scriptSig = append(scriptSig, nonceBuf[:]...)
	scriptSig = append(scriptSig, coinbaseFlags...)
	if len(scriptSig) > maxCoinbaseScriptSigLen {
		return errors.Errorf("coinbase scriptSig length %d exceeds %d", len(scriptSig), maxCoinbaseScriptSigLen)
	}

	coinbase := block.Vtx[0]
	coinbase.Ins[0].ScriptSig = scriptSig

	hashes := make([]chain.Hash, len(block.Vtx))
	for i, tx := range block.Vtx {
		hashes[i] = tx.Hash
	}
	block.Header.HashMerkleRoot = calcMerkleRoot(hashes)
	return nil
}

// encodeHeightScript is the minimal "<height>" push that starts the
// coinbase scriptSig in both §4.3 step 6 and §4.3.1, using the same
// little-endian minimal encoding as a standard CScript height push. It
// emits the height push only; callers append whatever follows it.
func encodeHeightScript(height int32) []byte {
	if height == 0 {
		return []byte{0x00}
	}
	var buf []byte
	v := height
	negative := v < 0
	if negative {
		v = -v
	}
	for v > 0 {
		buf = append(buf, byte(v&0xff))
		v >>= 8
	}
	if buf[len(buf)-1]&0x80 != 0 {
		if negative {
			buf = append(buf, 0x80)
		} else {
			buf = append(buf, 0x00)
		}
	} else if negative {
		buf[len(buf)-1] |= 0x80
	}
	return append([]byte{byte(len(buf))}, buf...)
}
