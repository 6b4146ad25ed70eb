// Package blocktemplate assembles a candidate block — the standard
// PoW/PoS builder (spec.md §4.3) and the PoA builder (§4.4) — grounded on
// kaspad's domain/consensus/processes/blockbuilder/block_builder.go shape:
// a struct of injected collaborator interfaces with one method assembling
// the whole candidate block, fused with the PoW/PoS branching preserved from
// original_source/src/miner.cpp's CreateNewBlock.
package blocktemplate

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/UserR256/PRCYCoin/config"
	"github.com/UserR256/PRCYCoin/internal/mining/chain"
	"github.com/UserR256/PRCYCoin/internal/mining/chainsvc"
	"github.com/UserR256/PRCYCoin/internal/mining/selector"
)

// Builder owns the collaborators and the single-writer state (extra-nonce,
// coinstake search timers) spec.md §5 assigns to the template builder.
type Builder struct {
	Chain          chainsvc.ChainView
	Mempool        chainsvc.MempoolView
	Time           chainsvc.ConsensusTime
	InvalidOutputs chainsvc.InvalidOutputSet
	Wallet         chainsvc.Wallet
	Payments       chainsvc.MasternodePayments
	Locks          *chain.Locks
	Policy         *config.MiningPolicy
	Params         *config.ConsensusParams

	extraNonce extraNonceState

	// lastCoinStakeSearchTime/Interval back spec.md §5's single-writer
	// nLastCoinStakeSearchTime/Interval counters.
	lastCoinStakeSearchTime int64
	lastCoinStakeInterval   int64
}

// LastCoinStakeInterval returns the most recently recorded gap between
// coinstake search attempts. The Worker in this module does not read it.
func (b *Builder) LastCoinStakeInterval() int64 {
	return atomic.LoadInt64(&b.lastCoinStakeInterval)
}

// Build runs the §4.3 ordered steps and returns a template, ErrNoTip if
// the chain view has no tip, or a *BuildError if any step failed. payToScript is the miner's payout
// script; txPub/txPriv is the ephemeral transaction-level keypair the
// caller generated for this attempt.
func (b *Builder) Build(ctx context.Context, payToScript, txPub, txPriv []byte, proofOfStake bool) (*chain.BlockTemplate, error) {
	if len(payToScript) == 0 {
		return nil, newBuildError(KindNoAddress, errors.New("empty pay-to script"))
	}

	tip := b.Chain.Tip()
	if tip == nil {
		return nil, ErrNoTip
	}
	height := tip.Height() + 1

	header := chain.BlockHeader{
		Version:       b.Policy.BlockVersion,
		HashPrevBlock: tip.Hash(),
	}

	// Step 2: coinbase.
	coinbase := &chain.Tx{
		Type:    chain.TxCoinbase,
		Ins:     []chain.TxIn{{}},
		Outs:    []chain.TxOut{{Value: b.Time.GetBlockValue(tip.Height()), ScriptPubKey: payToScript, EphemeralPubKey: txPub}},
		Version: 1,
	}
	vtx := []*chain.Tx{coinbase}

	var stakeTx *chain.Tx

	// Step 3: PoS coinstake.
	if proofOfStake {
		now := int64(b.Time.AdjustedTime())
		nBits := b.Time.GetNextWorkRequired(tip, &header)
		searchWindow := now - atomic.LoadInt64(&b.lastCoinStakeSearchTime)

		result, ok := b.Wallet.CreateCoinStake(ctx, nBits, searchWindow)
		if !ok {
			atomic.StoreInt64(&b.lastCoinStakeSearchTime, now)
			return nil, newBuildError(KindNoStake, nil)
		}
		atomic.StoreInt64(&b.lastCoinStakeInterval, now-atomic.LoadInt64(&b.lastCoinStakeSearchTime))
		atomic.StoreInt64(&b.lastCoinStakeSearchTime, now)

		header.Time = result.Time
		header.Bits = nBits
		coinbase.Outs[0].Value = 0
		stakeTx = result.Tx
		vtx = append(vtx, stakeTx)
	}

	// Step 4: selector, under the combined chain+mempool lock.
	var results []selector.Result
	b.Locks.WithChainAndMempool(func() {
		snapshot := b.Mempool.Snapshot()
		utxoView := b.Chain.NewUTXOView()
		budgets := selector.Budgets{
			MaxSize:      b.Policy.BlockMaxSize,
			PrioritySize: b.Policy.BlockPrioritySize,
			MinSize:      b.Policy.BlockMinSize,
		}
		results = selector.Select(snapshot, selector.Deps{
			UTXO:           utxoView,
			ChainView:      b.Chain,
			Time:           b.Time,
			InvalidOutputs: b.InvalidOutputs,
			PrintPriority:  b.Policy.PrintPriority,
		}, height, budgets)
	})

	fees := make([]chain.Amount, 1, len(results)+2)
	sigOps := make([]int, 1, len(results)+2)
	if proofOfStake {
		fees = append(fees, 0)
		sigOps = append(sigOps, 0)
	}
	var totalFees chain.Amount
	for _, r := range results {
		vtx = append(vtx, r.Tx)
		fees = append(fees, r.Fee)
		sigOps = append(sigOps, r.SigOps)
		totalFees += r.Fee
	}

	// Step 5: fee settlement. PoW splits totalFees between the coinbase
	// and a masternode/budget payee; PoS credits totalFees onto the
	// coinstake's reward output, matching miner.cpp's
	// vtx[1].vout[2].nValue += nFees.
	var payeeScript []byte
	if proofOfStake {
		if len(stakeTx.Outs) < 3 {
			return nil, newBuildError(KindCommitmentFailed, errors.New("coinstake has no reward output to credit"))
		}
		stakeTx.Outs[2].Value += totalFees
	} else {
		payeeScript = b.Payments.FillPayee(coinbase, height)
		if payeeScript == nil {
			coinbase.Outs[0].Value += totalFees
		}
	}
	fees[0] = totalFees

	// Step 6: finalize coinbase scriptSig as "<height> OP_0" and the tx
	// type. For PoS, step 10's extra-nonce rewrite replaces this scriptSig;
	// for PoW it is kept as is, since no extra-nonce rewrite runs on the
	// PoW path.
	coinbase.Ins[0].ScriptSig = append(encodeHeightScript(height), 0x00)
	coinbase.Type = chain.TxRevealAmount

	// Step 7: value-hiding commitment on the paying output. vout[0] is the
	// empty PoS marker and stays untouched; the reward (vout[2]) merges
	// into the payment output (vout[1]), which becomes the sole paying
	// output of the coinstake.
	targetOut := &coinbase.Outs[0]
	if proofOfStake {
		stakeTx.Outs[1].Value += stakeTx.Outs[2].Value
		stakeTx.Outs[2].Value = 0
		targetOut = &stakeTx.Outs[1]
	}
	if err := b.Wallet.EncodeTxOutAmount(targetOut, targetOut.Value, txPriv); err != nil {
		return nil, newBuildError(KindCommitmentFailed, err)
	}
	commitment, err := b.Wallet.CreateCommitment(nil, targetOut.Value)
	if err != nil {
		return nil, newBuildError(KindCommitmentFailed, err)
	}
	targetOut.Commitment = commitment

	// Step 8: PoS coinstake signature, verified before the template leaves
	// this function.
	if proofOfStake {
		sig, err := b.Wallet.MakeSchnorrSignature(stakeTx)
		if err != nil {
			return nil, newBuildError(KindSignatureFailed, err)
		}
		if !b.Wallet.VerifySchnorrKeyImage(stakeTx, sig) {
			return nil, newBuildError(KindVerifyFailed, nil)
		}
	}

	// Step 9: finalize header.
	if !proofOfStake {
		now := b.Time.AdjustedTime()
		medianPast := b.Chain.MedianTimePast(tip)
		if now <= medianPast {
			now = medianPast + 1
		}
		header.Time = now
		header.Bits = b.Time.GetNextWorkRequired(tip, &header)
	}
	header.Nonce = 0
	header.AccumulatorCheckpoint = chain.Hash{}
	sigOps[0] = b.Time.GetLegacySigOpCount(coinbase)

	block := &chain.Block{Header: header, Vtx: vtx, Payee: payeeScript}

	// Step 10: PoS extranonce + block signature, with a fallback-key retry.
	if proofOfStake {
		if err := b.extraNonce.increment(block, height); err != nil {
			return nil, newBuildError(KindSignatureFailed, err)
		}
		if err := b.Wallet.SignBlock(block, nil); err != nil {
			fallbackKey, ferr := b.Wallet.AddComputedPrivateKey(&stakeTx.Outs[1])
			if ferr != nil {
				return nil, newBuildError(KindSignatureFailed, ferr)
			}
			if err2 := b.Wallet.SignBlock(block, fallbackKey); err2 != nil {
				return nil, newBuildError(KindSignatureFailed, err2)
			}
		}
	} else {
		hashes := make([]chain.Hash, len(block.Vtx))
		for i, tx := range block.Vtx {
			hashes[i] = tx.Hash
		}
		block.Header.HashMerkleRoot = calcMerkleRoot(hashes)
	}

	return &chain.BlockTemplate{Block: block, Fees: fees, SigOps: sigOps}, nil
}
