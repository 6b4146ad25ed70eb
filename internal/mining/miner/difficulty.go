package miner

import (
	"math/big"

	"github.com/UserR256/PRCYCoin/internal/mining/chain"
)

// decodeCompact expands the condensed "nBits" difficulty encoding into its
// full target, the same mantissa/exponent layout Bitcoin-family chains use
// for block headers. Neither this module's declared dependencies nor the
// rest of the retrieved pack carry a standalone implementation of this
// (it normally ships bundled inside a full chain-validation package we
// didn't adopt as the teacher), so it is implemented directly against
// math/big.
func decodeCompact(bits uint32) *big.Int {
	mantissa := bits & 0x007fffff
	exponent := bits >> 24

	target := new(big.Int).SetUint64(uint64(mantissa))
	if exponent <= 3 {
		target.Rsh(target, uint(8*(3-exponent)))
		return target
	}
	target.Lsh(target, uint(8*(exponent-3)))
	return target
}

// hashMeetsTarget reports whether h, read as a little-endian integer (h[0]
// is the least significant byte), is at or below target — the nonce-search
// loop's win condition.
func hashMeetsTarget(h chain.Hash, target *big.Int) bool {
	reversed := make([]byte, len(h))
	for i, b := range h {
		reversed[len(h)-1-i] = b
	}
	hashInt := new(big.Int).SetBytes(reversed)
	return hashInt.Cmp(target) <= 0
}
