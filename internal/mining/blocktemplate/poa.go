package blocktemplate

import (
	"github.com/UserR256/PRCYCoin/internal/mining/chain"
	"github.com/UserR256/PRCYCoin/internal/mining/chainsvc"
)

// PoA rewards per audited block, switched at PoAHardforkHeight, spec.md
// §4.4's finalization rule: |audited| * 0.25 COIN post-hardfork, * 0.5 COIN pre-hardfork.
const (
	poaRewardPreHardfork  = chain.COIN / 2
	poaRewardPostHardfork = chain.COIN / 4
)

// priorPoA is the handle BuildPoA needs to resume audit-list construction
// from an existing PoA chain, grounded on spec.md §4.4's "prior PoA exists
// at height P" case.
type priorPoA struct {
	hash        chain.Hash
	lastAudited uint32
}

// BuildPoA implements §4.4: scan for the previous PoA block (or apply the
// genesis rule), enumerate the audit list via GetListOfPoSInfo, then
// finalize a PoA block. payToScript pays the miner's PoA reward output.
func (b *Builder) BuildPoA(payToScript []byte) (*chain.BlockTemplate, error) {
	tip := b.Chain.Tip()
	if tip == nil {
		return nil, ErrNoTip
	}
	if tip.Height() < b.Params.StartPoABlock {
		return nil, ErrStaleTip
	}

	prior, err := b.findPriorPoA(tip)
	if err != nil {
		return nil, newBuildError(KindReadBlockFailed, err)
	}

	audited, err := b.getListOfPoSInfo(tip, prior)
	if err != nil {
		return nil, newBuildError(KindReadBlockFailed, err)
	}
	if len(audited) == 0 {
		return nil, ErrEmptyAuditList
	}

	height := tip.Height() + 1
	reward := poaRewardPreHardfork
	if height >= b.Params.PoAHardforkHeight {
		reward = poaRewardPostHardfork
	}
	coinbase := &chain.Tx{
		Type: chain.TxCoinbase,
		Ins:  []chain.TxIn{{ScriptSig: encodeHeightScript(height)}},
		Outs: []chain.TxOut{{Value: reward * chain.Amount(len(audited)), ScriptPubKey: payToScript}},
	}

	var prevPoAHash chain.Hash
	if prior != nil {
		prevPoAHash = prior.hash
	}

	poaData := &chain.PoAData{
		PosBlocksAudited: audited,
		HashPrevPoABlock: prevPoAHash,
		PoAMerkleRoot:    calcAuditMerkleRoot(audited),
	}

	header := chain.BlockHeader{
		Version:       b.Policy.BlockVersion,
		HashPrevBlock: tip.Hash(),
		Time:          b.Time.AdjustedTime(),
		Bits:          b.Time.GetNextWorkRequired(tip, &chain.BlockHeader{}),
	}

	block := &chain.Block{Header: header, Vtx: []*chain.Tx{coinbase}, PoA: poaData}

	hashes := []chain.Hash{coinbase.Hash}
	block.Header.HashMerkleRoot = calcMerkleRoot(hashes)
	poaData.MinedHash = calcPoAMinedHash(block.Header.HashMerkleRoot, poaData.PoAMerkleRoot)

	return &chain.BlockTemplate{Block: block, Fees: []chain.Amount{0}, SigOps: []int{b.Time.GetLegacySigOpCount(coinbase)}}, nil
}

// findPriorPoA scans backward from the tip looking for the most recent PoA
// block. It returns nil, nil if none is found before StartPoABlock.
func (b *Builder) findPriorPoA(tip chainsvc.BlockIndex) (*priorPoA, error) {
	for h := tip.Height(); h >= b.Params.StartPoABlock; h-- {
		idx, err := b.Chain.IndexAt(h)
		if err != nil {
			return nil, err
		}
		block, err := b.Chain.ReadBlock(idx)
		if err != nil {
			return nil, err
		}
		if block.PoA != nil {
			lastAudited := uint32(0)
			if n := len(block.PoA.PosBlocksAudited); n > 0 {
				lastAudited = block.PoA.PosBlocksAudited[n-1].Height
			}
			return &priorPoA{hash: idx.Hash(), lastAudited: lastAudited}, nil
		}
	}
	return nil, nil
}

// getListOfPoSInfo implements both enumeration cases of §4.4: the genesis
// case audits a fixed consecutive window unconditionally, the continuation
// case resumes after a prior PoA block and must skip non-PoS blocks it
// crosses (chiefly the prior PoA block itself).
func (b *Builder) getListOfPoSInfo(tip chainsvc.BlockIndex, prior *priorPoA) ([]chain.PoSBlockSummary, error) {
	if prior == nil {
		return b.auditConsecutiveFromGenesis(tip)
	}
	return b.auditContinuationFromPrior(tip, prior)
}

// auditConsecutiveFromGenesis audits up to MaxPoSBlocksAudited consecutive
// heights starting right after LastPoWBlock, unconditionally: consensus
// guarantees every block in that window is already PoS (no PoA block can
// exist yet), so unlike the continuation case there is nothing to skip.
func (b *Builder) auditConsecutiveFromGenesis(tip chainsvc.BlockIndex) ([]chain.PoSBlockSummary, error) {
	startHeight := b.Params.LastPoWBlock + 1
	endHeight := startHeight + int32(b.Params.MaxPoSBlocksAudited) - 1
	if endHeight > tip.Height() {
		endHeight = tip.Height()
	}

	var audited []chain.PoSBlockSummary
	for h := startHeight; h <= endHeight; h++ {
		idx, err := b.Chain.IndexAt(h)
		if err != nil {
			return nil, err
		}
		block, err := b.Chain.ReadBlock(idx)
		if err != nil {
			return nil, err
		}
		audited = append(audited, b.summarizePoSBlock(idx, h, block))
	}
	return audited, nil
}

// auditContinuationFromPrior resumes right after the prior PoA block's last
// audited height, skipping any non-PoS block the scan crosses, until
// MaxPoSBlocksAudited fresh entries are collected or the tip is reached.
func (b *Builder) auditContinuationFromPrior(tip chainsvc.BlockIndex, prior *priorPoA) ([]chain.PoSBlockSummary, error) {
	startHeight := int32(prior.lastAudited) + 1

	var audited []chain.PoSBlockSummary
	for h := startHeight; h <= tip.Height() && len(audited) < b.Params.MaxPoSBlocksAudited; h++ {
		idx, err := b.Chain.IndexAt(h)
		if err != nil {
			return nil, err
		}
		block, err := b.Chain.ReadBlock(idx)
		if err != nil {
			return nil, err
		}
		if !block.IsProofOfStake() {
			continue
		}
		audited = append(audited, b.summarizePoSBlock(idx, h, block))
	}
	return audited, nil
}

// summarizePoSBlock records the audited block's own header time — spec.md
// §3's PoSBlockSummary.Time is "the referenced PoS block's time" — zeroed
// only when the coinstake signature fails re-verification.
func (b *Builder) summarizePoSBlock(idx chainsvc.BlockIndex, height int32, block *chain.Block) chain.PoSBlockSummary {
	summaryTime := block.Header.Time
	if !b.reverifyPoS(block) {
		summaryTime = 0
	}
	return chain.PoSBlockSummary{Hash: idx.Hash(), Height: uint32(height), Time: summaryTime}
}

// reverifyPoS re-checks the coinstake signature of an already-accepted PoS
// block for audit purposes; failure does not exclude the block from the
// audit, only zeroes its recorded time.
func (b *Builder) reverifyPoS(block *chain.Block) bool {
	if !block.IsProofOfStake() {
		return false
	}
	return b.Wallet.VerifySchnorrKeyImage(block.Vtx[1], nil)
}

func calcAuditMerkleRoot(audited []chain.PoSBlockSummary) chain.Hash {
	hashes := make([]chain.Hash, len(audited))
	for i, s := range audited {
		hashes[i] = s.Hash
	}
	return calcMerkleRoot(hashes)
}

func calcPoAMinedHash(txMerkleRoot, poaMerkleRoot chain.Hash) chain.Hash {
	return hashPair(txMerkleRoot, poaMerkleRoot)
}
