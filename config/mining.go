// Package config holds the mining core's runtime options, parsed with
// github.com/jessevdk/go-flags the way kaspad's infrastructure/config
// parses its NetworkFlags: one struct, one `long`/`description` tag per
// field, defaults applied by DefaultMiningPolicy and then clamped once by
// Normalize rather than re-validated at every call site.
package config

import "github.com/jessevdk/go-flags"

// Network-tier constants. MinRelayFee is not configurable per call — it is
// a constant of the protocol tier, per spec.md §4.2.
const (
	NetworkMaxBlockSize = 2_000_000
	MinRelayFee         = 5000
	DefaultBlockVersion = 5
)

// MiningPolicy is the set of options spec.md §6 lists as persisted via the
// host's argument store.
type MiningPolicy struct {
	BlockMaxSize      uint32 `long:"blockmaxsize" description:"Upper bound on template size" default:"750000"`
	BlockPrioritySize uint32 `long:"blockprioritysize" description:"Bytes reserved for the priority-mode area" default:"50000"`
	BlockMinSize      uint32 `long:"blockminsize" description:"Floor below which free txs are still admitted" default:"0"`
	PrintPriority     bool   `long:"printpriority" description:"Emit per-tx priority/fee log lines"`
	BlockVersion      int32  `long:"blockversion" description:"Override header version (regtest only)" default:"5"`
}

// DefaultMiningPolicy returns the network-default policy.
func DefaultMiningPolicy() *MiningPolicy {
	return &MiningPolicy{
		BlockMaxSize:      750_000,
		BlockPrioritySize: 50_000,
		BlockMinSize:      0,
		PrintPriority:     false,
		BlockVersion:      DefaultBlockVersion,
	}
}

// ParseMiningPolicy parses args (os.Args[1:] from the caller) into a
// MiningPolicy seeded with DefaultMiningPolicy, then Normalizes it, mirroring
// the flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag) shape kaspad's
// own config.Parse functions use.
func ParseMiningPolicy(args []string) (*MiningPolicy, error) {
	policy := DefaultMiningPolicy()
	parser := flags.NewParser(policy, flags.PrintErrors|flags.HelpFlag)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	policy.Normalize()
	return policy, nil
}

// Normalize clamps BlockMaxSize, BlockPrioritySize and BlockMinSize into the
// ranges spec.md §4.2 requires:
//
//	1000 <= BlockMaxSize <= NetworkMaxBlockSize-1000
//	BlockPrioritySize <= BlockMaxSize
//	BlockMinSize <= BlockMaxSize
//
// It is called once after flags are parsed; nothing downstream re-validates.
func (p *MiningPolicy) Normalize() {
	if p.BlockMaxSize < 1000 {
		p.BlockMaxSize = 1000
	}
	if p.BlockMaxSize > NetworkMaxBlockSize-1000 {
		p.BlockMaxSize = NetworkMaxBlockSize - 1000
	}
	if p.BlockPrioritySize > p.BlockMaxSize {
		p.BlockPrioritySize = p.BlockMaxSize
	}
	if p.BlockMinSize > p.BlockMaxSize {
		p.BlockMinSize = p.BlockMaxSize
	}
}
