// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package binning implements agglomerative context binning (spec.md §4.4):
// reducing a potentially huge multiset of (ContextSpec, Context) pairs into
// a compact ContextTree that can be traversed to any desired number of
// merged ComplexContexts.
//
// Grounded on original_source/idencomp/src/context_binning.rs. The tree is
// represented as a flat slice of nodes addressed by index (spec.md §9,
// "owning tree of nodes by index"); agglomeration still uses a priority
// queue of candidate merges with lazy deletion, matching the Rust source's
// BinaryHeap<QueuedNode>.
package binning

import (
	"container/heap"
	"math"
	"sort"

	"code.hybscloud.com/idencomp/context"
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/model"
)

// ProgressSink receives binning progress notifications (spec.md §6.4).
type ProgressSink interface {
	SetIterNum(total uint64)
	IncIter()
}

type nopProgressSink struct{}

func (nopProgressSink) SetIterNum(uint64) {}
func (nopProgressSink) IncIter()          {}

// Options configures bin_contexts_with_keys/bin_contexts_with_model.
type Options struct {
	// PreBinningNum caps the number of leaves fed to agglomeration; extra
	// low-probability contexts are pre-merged into one leaf first. Zero
	// (the Options zero value) is treated as "no pre-binning"; use
	// math.MaxInt explicitly if that distinction matters.
	PreBinningNum int
	Progress      ProgressSink
}

// DefaultOptions returns binning options with no pre-binning and a no-op
// progress sink.
func DefaultOptions() Options {
	return Options{PreBinningNum: math.MaxInt, Progress: nopProgressSink{}}
}

func (o Options) progress() ProgressSink {
	if o.Progress == nil {
		return nopProgressSink{}
	}
	return o.Progress
}

// ContextTree is the output of agglomeration: 2n-1 nodes (or fewer with
// pre-binning), with the root at the last index.
type ContextTree struct {
	nodes []context.ContextNode
}

// NewContextTree wraps an already-built node slice.
func NewContextTree(nodes []context.ContextNode) ContextTree {
	if len(nodes) == 0 {
		panic("binning: empty context tree")
	}
	return ContextTree{nodes: nodes}
}

// Size returns the number of nodes in the tree.
func (t ContextTree) Size() int { return len(t.nodes) }

// Nodes exposes the tree's flat node slice.
func (t ContextTree) Nodes() []context.ContextNode { return t.nodes }

// queueEntry is one candidate merge in the agglomeration priority queue.
type queueEntry struct {
	mergeCost         context.MergeCost
	leftIdx, rightIdx int
}

func mergeEntry(nodes []context.ContextNode, left, right int) queueEntry {
	merged := context.NewNodeFromMerge(nodes[left].Context(), nodes[right].Context(), left, right)
	return queueEntry{mergeCost: merged.MergeCost(), leftIdx: left, rightIdx: right}
}

// mergeHeap is a min-heap over merge cost (cheapest merge pops first), used
// during agglomeration (spec.md §4.4 step 2-3).
type mergeHeap []queueEntry

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if !h[i].mergeCost.Equal(h[j].mergeCost) {
		return h[i].mergeCost < h[j].mergeCost
	}
	if h[i].leftIdx != h[j].leftIdx {
		return h[i].leftIdx < h[j].leftIdx
	}
	return h[i].rightIdx < h[j].rightIdx
}
func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)   { *h = append(*h, x.(queueEntry)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// BinContextsWithKeys bins an arbitrary multiset of (spec, context) pairs.
func BinContextsWithKeys(pairs []struct {
	Spec    contextspec.Spec
	Context context.Context
}, opts Options) ContextTree {
	specs := make([]contextspec.Spec, len(pairs))
	ctxs := make([]context.Context, len(pairs))
	for i, p := range pairs {
		specs[i] = p.Spec
		ctxs[i] = p.Context
	}
	return binContextsWithKeys(specs, ctxs, opts)
}

// BinContextsWithModel bins the single-spec ComplexContexts carried by a
// Model (spec.md §4.4's typical entry point: pre-binning a model's full
// context set before model clustering).
func BinContextsWithModel(m model.Model, opts Options) ContextTree {
	complexContexts := m.AsComplexContexts()
	specs := make([]contextspec.Spec, len(complexContexts))
	ctxs := make([]context.Context, len(complexContexts))
	for i, cc := range complexContexts {
		if len(cc.Specs) != 1 {
			panic("binning: model context maps to more than one spec")
		}
		specs[i] = cc.Specs[0]
		ctxs[i] = cc.Context
	}
	return binContextsWithKeys(specs, ctxs, opts)
}

func binContextsWithKeys(specs []contextspec.Spec, ctxs []context.Context, opts Options) ContextTree {
	type kv struct {
		spec contextspec.Spec
		ctx  context.Context
	}
	pairs := make([]kv, len(specs))
	for i := range specs {
		pairs[i] = kv{spec: specs[i], ctx: ctxs[i]}
	}

	preBinningNum := opts.PreBinningNum
	if preBinningNum == 0 {
		preBinningNum = math.MaxInt
	}

	var preBinned *context.ContextNode
	if preBinningNum < len(pairs) {
		sort.Slice(pairs, func(i, j int) bool {
			// Descending by context_prob, so the lowest-probability
			// contexts sit at the tail, ready to be popped first.
			return pairs[j].ctx.ContextProb.Less(pairs[i].ctx.ContextProb)
		})

		last := pairs[len(pairs)-1]
		pairs = pairs[:len(pairs)-1]
		specsBinned := []contextspec.Spec{last.spec}
		ctxBinned := last.ctx

		for preBinningNum < len(pairs)+1 {
			next := pairs[len(pairs)-1]
			pairs = pairs[:len(pairs)-1]
			specsBinned = append(specsBinned, next.spec)
			ctxBinned = ctxBinned.MergeWith(next.ctx)
		}

		node := context.NewLeafMulti(specsBinned, ctxBinned)
		preBinned = &node
	}

	nodes := make([]context.ContextNode, 0, len(pairs)+1)
	for _, p := range pairs {
		nodes = append(nodes, context.NewLeaf(p.spec, p.ctx))
	}
	if preBinned != nil {
		nodes = append(nodes, *preBinned)
	}

	return binContextsNodes(nodes, opts)
}

func binContextsNodes(nodes []context.ContextNode, opts Options) ContextTree {
	inputLength := len(nodes)
	if inputLength == 0 {
		panic("binning: no contexts to bin")
	}

	available := make([]bool, inputLength)
	for i := range available {
		available[i] = true
	}

	h := &mergeHeap{}
	for i := 0; i < inputLength; i++ {
		for j := i + 1; j < inputLength; j++ {
			heap.Push(h, mergeEntry(nodes, i, j))
		}
	}
	heap.Init(h)

	progress := opts.progress()
	progress.SetIterNum(uint64(inputLength - 1))

	for i := 1; i < inputLength; i++ {
		var current queueEntry
		for {
			current = heap.Pop(h).(queueEntry)
			if available[current.leftIdx] && available[current.rightIdx] {
				break
			}
		}

		available[current.leftIdx] = false
		available[current.rightIdx] = false

		merged := context.NewNodeFromMerge(nodes[current.leftIdx].Context(), nodes[current.rightIdx].Context(), current.leftIdx, current.rightIdx)
		nodes = append(nodes, merged)
		currentIndex := len(nodes) - 1

		for idx, ok := range available {
			if ok {
				heap.Push(h, mergeEntry(nodes, idx, currentIndex))
			}
		}
		available = append(available, true)

		progress.IncIter()
	}

	return NewContextTree(nodes)
}

// traverseEntry orders open tree nodes by merge cost for the traversal
// priority queue.
type traverseEntry struct {
	index     int
	mergeCost context.MergeCost
}

type traverseHeap []traverseEntry

func (h traverseHeap) Len() int { return len(h) }
func (h traverseHeap) Less(i, j int) bool {
	// Max-heap on merge cost: largest-cost node expands first (spec.md
	// §4.4 step 4 — "expanding the node with the largest merge cost
	// first, so cheapest merges stay merged").
	if !h[i].mergeCost.Equal(h[j].mergeCost) {
		return h[i].mergeCost > h[j].mergeCost
	}
	return h[i].index > h[j].index
}
func (h traverseHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *traverseHeap) Push(x any)   { *h = append(*h, x.(traverseEntry)) }
func (h *traverseHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Traverse walks the tree from the root, expanding the largest-merge-cost
// open node first, stopping once the open set plus finalized leaves reaches
// numContexts (or the tree is exhausted), then finalizes every remaining
// open node into a single ComplexContext each (spec.md §4.4 step 4,
// Testable Property 6).
func (t ContextTree) Traverse(numContexts int) []context.ComplexContext {
	if numContexts <= 0 {
		return nil
	}

	h := &traverseHeap{}
	heap.Push(h, traverseEntry{index: len(t.nodes) - 1, mergeCost: t.nodes[len(t.nodes)-1].MergeCost()})

	var result []context.ComplexContext
	for h.Len() > 0 && len(result)+h.Len() < numContexts {
		entry := heap.Pop(h).(traverseEntry)
		node := t.nodes[entry.index]
		if node.IsLeaf() {
			result = append(result, t.combineContexts(entry.index))
			continue
		}
		left, right := node.Children()
		heap.Push(h, traverseEntry{index: left, mergeCost: t.nodes[left].MergeCost()})
		heap.Push(h, traverseEntry{index: right, mergeCost: t.nodes[right].MergeCost()})
	}

	for h.Len() > 0 {
		entry := heap.Pop(h).(traverseEntry)
		result = append(result, t.combineContexts(entry.index))
	}

	return result
}

func (t ContextTree) combineContexts(index int) context.ComplexContext {
	var specs []contextspec.Spec
	t.traverseAndCombine(index, &specs)
	return context.NewComplexContext(t.nodes[index].Context(), specs)
}

func (t ContextTree) traverseAndCombine(index int, specs *[]contextspec.Spec) {
	node := t.nodes[index]
	if node.IsLeaf() {
		*specs = append(*specs, node.Specs()...)
		return
	}
	left, right := node.Children()
	t.traverseAndCombine(left, specs)
	t.traverseAndCombine(right, specs)
}
