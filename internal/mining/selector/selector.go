// Package selector implements the transaction-selection policy (spec.md
// §4.2): a two-phase priority/fee heap with orphan-dependency propagation
// and duplicate-key-image filtering. It is grounded on decred/dcrd's
// CreateNewBlock loop (container/heap over txPrioItem, mode switch on
// BlockPrioritySize/MinHighPriority) fused with kaspad's orphansPool
// dependency bookkeeping.
package selector

import (
	"github.com/UserR256/PRCYCoin/config"
	"github.com/UserR256/PRCYCoin/internal/mining/chain"
	"github.com/UserR256/PRCYCoin/internal/mining/chainsvc"
	"github.com/UserR256/PRCYCoin/internal/mining/priority"
)

// startingBlockSize and startingSigOps account for the block header and
// coinbase overhead before any mempool transaction is considered, per
// spec.md §4.2 ("Initial running size is 1000 ... running sig-ops is
// 100").
const (
	startingBlockSize = 1000
	startingSigOps    = 100
)

// mandatoryScriptFlags are the flags passed to UTXOView.CheckInputs. The
// script engine itself is out of scope (spec.md §1); this is a placeholder
// the real collaborator is expected to interpret.
const mandatoryScriptFlags chainsvc.ScriptFlags = 1

// Budgets are the size constraints a Select call is bound by, matching
// spec.md §4.2's {maxSize, prioritySize, minSize} with the same ordering
// constraints: 1000 <= maxSize, prioritySize <= maxSize, minSize <= maxSize.
type Budgets struct {
	MaxSize      uint32
	PrioritySize uint32
	MinSize      uint32
}

// Result is one selected transaction ready to splice into a template after
// the coinbase (and coinstake, if any).
type Result struct {
	Tx     *chain.Tx
	Fee    chain.Amount
	SigOps int
}

// Deps bundles the external collaborators Select consults.
type Deps struct {
	UTXO           chainsvc.UTXOView
	ChainView      chainsvc.ChainView
	Time           chainsvc.ConsensusTime
	InvalidOutputs chainsvc.InvalidOutputSet
	PrintPriority  bool
}

// Select runs the §4.2 selection policy over snapshot and returns an
// ordered list of transactions to include, their fees and their sig-op
// counts. height is the height of the block being built (tip.height+1).
func Select(snapshot chain.Snapshot, deps Deps, height int32, budgets Budgets) []Result {
	tip := deps.ChainView.Tip()

	mode := priority.ModePriority
	if budgets.PrioritySize == 0 {
		mode = priority.ModeFee
	}

	h := newTxHeap(len(snapshot), priority.LessFuncFor(mode))
	orphans := newOrphanPool()

	for hash, entry := range snapshot {
		tx := entry.Tx
		if tx.Type == chain.TxCoinbase || tx.Type == chain.TxCoinstake {
			continue
		}
		if !deps.Time.IsFinalTx(tx, height) {
			log.Tracef("skipping non-final tx %s", hash)
			continue
		}

		rejected := false
		pendingAncestors := make(map[chain.Hash]struct{})
		var valueAges []priority.InputValueAge
		for _, in := range tx.Ins {
			if deps.ChainView.IsSpentKeyImage(in.KeyImage, tip) {
				log.Tracef("skipping tx %s: key image %s already spent", hash, in.KeyImage)
				rejected = true
				break
			}
			if deps.InvalidOutputs.ContainsOutpoint(in.PrevOut) {
				log.Tracef("skipping tx %s: spends blacklisted outpoint", hash)
				rejected = true
				break
			}

			value, confirmations, ok := deps.UTXO.ValueAndAge(in.PrevOut)
			if ok {
				valueAges = append(valueAges, priority.InputValueAge{Value: value, Confirmations: confirmations})
				continue
			}
			if ancestor, inMempool := snapshot[in.PrevOut.Hash]; inMempool {
				pendingAncestors[in.PrevOut.Hash] = struct{}{}
				valueAges = append(valueAges, priority.InputValueAge{Value: ancestor.Tx.Outs[in.PrevOut.Index].Value, Confirmations: 0})
				continue
			}
			log.Tracef("skipping tx %s: input %s not in UTXO view or mempool", hash, in.PrevOut.Hash)
			rejected = true
			break
		}
		if rejected {
			continue
		}

		item := &priority.Item{
			Tx:       tx,
			Fee:      tx.Fee + entry.FeeDelta,
			SigOps:   tx.SigOpCount,
			Priority: priority.CalcPriority(valueAges, tx.SerializedSize) + entry.PriorityDelta,
			FeeRate:  priority.FeeRate(tx.Fee+entry.FeeDelta, tx.SerializedSize),
		}

		if orphans.add(item, pendingAncestors) {
			h.PushItem(item)
		}
	}

	var (
		results       []Result
		runningSize   = int64(startingBlockSize)
		runningSigOps = startingSigOps
		usedKeyImages = make(map[chain.KeyImage]chain.Hash)
	)

nextItem:
	for h.Len() > 0 {
		item := h.PopItem()
		tx := item.Tx
		txSize := tx.SerializedSize

		if runningSize+txSize >= int64(budgets.MaxSize) {
			log.Tracef("skipping tx %s: would exceed max block size", tx.Hash)
			continue
		}

		if mode == priority.ModeFee && item.FeeRate < float64(config.MinRelayFee) &&
			runningSize+txSize >= int64(budgets.MinSize) {
			log.Tracef("skipping tx %s: below free-tx floor", tx.Hash)
			continue
		}

		if mode == priority.ModePriority &&
			(runningSize+txSize >= int64(budgets.PrioritySize) || !deps.Time.AllowFree(item.Priority)) {
			mode = priority.ModeFee
			h.SetLessFunc(priority.LessFuncFor(mode))
			h.PushItem(item)
			continue
		}

		if !deps.UTXO.HaveInputs(tx) {
			log.Tracef("skipping tx %s: inputs not yet available", tx.Hash)
			continue
		}
		if err := deps.UTXO.CheckInputs(tx, mandatoryScriptFlags); err != nil {
			log.Tracef("skipping tx %s: script verification failed: %s", tx.Hash, err)
			continue
		}

		for _, in := range tx.Ins {
			if _, dup := usedKeyImages[in.KeyImage]; dup {
				log.Tracef("skipping tx %s: duplicate key image within build", tx.Hash)
				continue nextItem
			}
		}

		for _, in := range tx.Ins {
			usedKeyImages[in.KeyImage] = tx.Hash
		}
		if err := deps.UTXO.UpdateCoins(tx, height); err != nil {
			log.Tracef("skipping tx %s: failed to update coins view: %s", tx.Hash, err)
			continue
		}

		results = append(results, Result{Tx: tx, Fee: item.Fee, SigOps: item.SigOps})
		runningSize += txSize
		runningSigOps += item.SigOps

		if deps.PrintPriority {
			log.Infof("priority %.2f feeRate %.2f txid %s", item.Priority, item.FeeRate, tx.Hash)
		}

		for _, woken := range orphans.wake(tx.Hash) {
			h.PushItem(woken)
		}
	}

	return results
}
