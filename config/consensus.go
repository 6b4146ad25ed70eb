package config

// ConsensusParams are the network-wide constants that gate PoS/PoA
// activation and audit sizing, grounded the same way kaspad's
// dagconfig.Params carries network-tier constants alongside the runtime
// MiningPolicy flags.
type ConsensusParams struct {
	// LastPoWBlock is the height of the last block mined under pure PoW;
	// at or above it, the miner worker forces PoS mode (spec.md §4.5).
	LastPoWBlock int32
	// StartPoABlock is the minimum tip height for which a PoA template can
	// be built (spec.md §4.4).
	StartPoABlock int32
	// MaxPoSBlocksAudited bounds the number of PoS summaries one PoA block
	// may carry.
	MaxPoSBlocksAudited int
	// PoAHardforkHeight is the height at which the PoA coinbase reward per
	// audited block drops from 0.5 COIN to 0.25 COIN.
	PoAHardforkHeight int32
}

// MainNetParams are PRCYCoin's production consensus constants.
var MainNetParams = &ConsensusParams{
	LastPoWBlock:        200,
	StartPoABlock:       1,
	MaxPoSBlocksAudited: 59,
	PoAHardforkHeight:   1_000_000,
}
