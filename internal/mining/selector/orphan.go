package selector

import (
	"github.com/UserR256/PRCYCoin/internal/mining/chain"
	"github.com/UserR256/PRCYCoin/internal/mining/priority"
)

// orphan is a transaction whose mempool ancestors have not yet been
// admitted to the current template build (spec.md §3). It lives only for
// one Select call.
type orphan struct {
	item    *priority.Item
	pending map[chain.Hash]struct{}
	woken   bool
}

// orphanPool tracks orphans as an arena (a vector, never compacted during a
// build) plus an ancestor-hash -> dependent-index map, per spec.md §9's
// "arena + indices" design note. Using indices instead of pointers-in-a-map
// avoids reference cycles and makes "wake up this orphan" an O(1) lookup
// plus an O(children) scan instead of a graph walk.
type orphanPool struct {
	orphans   []*orphan
	dependers map[chain.Hash][]int
}

func newOrphanPool() *orphanPool {
	return &orphanPool{dependers: make(map[chain.Hash][]int)}
}

// add records tx as waiting on pendingAncestors and returns true if it has
// no pending ancestors at all (i.e. it's immediately ready).
func (p *orphanPool) add(item *priority.Item, pendingAncestors map[chain.Hash]struct{}) bool {
	if len(pendingAncestors) == 0 {
		return true
	}
	idx := len(p.orphans)
	p.orphans = append(p.orphans, &orphan{item: item, pending: pendingAncestors})
	for ancestor := range pendingAncestors {
		p.dependers[ancestor] = append(p.dependers[ancestor], idx)
	}
	return false
}

// wake removes admittedHash from the pending set of every orphan depending
// on it, and returns the items of orphans that have just become fully
// ready (every ancestor now admitted). Each orphan is returned at most once
// across the lifetime of the pool.
func (p *orphanPool) wake(admittedHash chain.Hash) []*priority.Item {
	var ready []*priority.Item
	for _, idx := range p.dependers[admittedHash] {
		o := p.orphans[idx]
		delete(o.pending, admittedHash)
		if len(o.pending) == 0 && !o.woken {
			o.woken = true
			ready = append(ready, o.item)
		}
	}
	delete(p.dependers, admittedHash)
	return ready
}
