package selector

import (
	"container/heap"

	"github.com/UserR256/PRCYCoin/internal/mining/priority"
)

// txHeap implements a priority queue of *priority.Item ordered by an
// arbitrary, swappable less-func, grounded on decred/dcrd's
// txPriorityQueue. Rebuilding on a mode transition (heap.Init after
// SetLessFunc) is spec.md §9's "rebuild the heap on transition" design
// note, rather than re-sorting or threading a boolean through every pop.
type txHeap struct {
	less  priority.LessFunc
	items []*priority.Item
}

func newTxHeap(reserve int, less priority.LessFunc) *txHeap {
	h := &txHeap{items: make([]*priority.Item, 0, reserve)}
	h.SetLessFunc(less)
	return h
}

// SetLessFunc swaps the comparator and re-establishes the heap invariant
// over the current items.
func (h *txHeap) SetLessFunc(less priority.LessFunc) {
	h.less = less
	heap.Init(h)
}

func (h *txHeap) Len() int { return len(h.items) }

func (h *txHeap) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }

func (h *txHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *txHeap) Push(x interface{}) {
	h.items = append(h.items, x.(*priority.Item))
}

func (h *txHeap) Pop() interface{} {
	n := len(h.items)
	item := h.items[n-1]
	h.items[n-1] = nil
	h.items = h.items[:n-1]
	return item
}

func (h *txHeap) PushItem(item *priority.Item) { heap.Push(h, item) }

func (h *txHeap) PopItem() *priority.Item { return heap.Pop(h).(*priority.Item) }
