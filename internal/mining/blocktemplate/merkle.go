package blocktemplate

import (
	"crypto/sha256"

	"github.com/UserR256/PRCYCoin/internal/mining/chain"
)

// calcMerkleRoot builds the classic binary merkle tree as a linear array
// (padding to the next power of two and duplicating a lone left child up
// the tree) and returns its root, grounded on the BuildMerkleTreeStore
// shape used throughout the btcsuite/jaxnetd family. The double-SHA256
// used at each level has no third-party home in the pack distinct from a
// whole coin-specific hash-type package, so it is the one piece of this
// builder implemented directly against crypto/sha256.
func calcMerkleRoot(hashes []chain.Hash) chain.Hash {
	if len(hashes) == 0 {
		return chain.Hash{}
	}
	if len(hashes) == 1 {
		return hashes[0]
	}

	nextPoT := nextPowerOfTwo(len(hashes))
	arraySize := nextPoT*2 - 1
	nodes := make([]*chain.Hash, arraySize)
	for i := range hashes {
		nodes[i] = &hashes[i]
	}

	offset := nextPoT
	for i := 0; i < arraySize-1; i += 2 {
		switch {
		case nodes[i] == nil:
			nodes[offset] = nil
		case nodes[i+1] == nil:
			combined := hashPair(*nodes[i], *nodes[i])
			nodes[offset] = &combined
		default:
			combined := hashPair(*nodes[i], *nodes[i+1])
			nodes[offset] = &combined
		}
		offset++
	}

	return *nodes[len(nodes)-1]
}

func hashPair(left, right chain.Hash) chain.Hash {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	first := sha256.Sum256(buf[:])
	second := sha256.Sum256(first[:])
	return chain.Hash(second)
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
