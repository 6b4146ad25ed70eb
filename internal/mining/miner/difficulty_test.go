package miner

import (
	"math/big"
	"testing"

	"github.com/UserR256/PRCYCoin/internal/mining/chain"
)

func TestDecodeCompact(t *testing.T) {
	tests := []struct {
		name string
		bits uint32
		want *big.Int
	}{
		{"exponent below 3 shifts right", 0x02008000, big.NewInt(0x80)},
		{"exponent of 3 is the mantissa itself", 0x03123456, big.NewInt(0x123456)},
		{"exponent above 3 shifts left", 0x04123456, new(big.Int).Lsh(big.NewInt(0x123456), 8)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := decodeCompact(test.bits)
			if got.Cmp(test.want) != 0 {
				t.Errorf("decodeCompact(0x%08x) = %v, want %v", test.bits, got, test.want)
			}
		})
	}
}

func TestHashMeetsTarget(t *testing.T) {
	var zero chain.Hash
	if !hashMeetsTarget(zero, big.NewInt(0)) {
		t.Error("the zero hash should meet a zero target")
	}

	var max chain.Hash
	for i := range max {
		max[i] = 0xff
	}
	if hashMeetsTarget(max, big.NewInt(1)) {
		t.Error("an all-0xff hash should not meet a tiny target")
	}
	if !hashMeetsTarget(max, new(big.Int).Lsh(big.NewInt(1), 256)) {
		t.Error("an all-0xff hash should meet an enormous target")
	}
}
