// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package context implements Context, the per-specifier symbol probability
// distribution that backs both the agglomerative binning tree (package
// binning) and the rANS coding tables (package rans).
//
// Grounded on original_source/idencomp/src/context.rs.
package context

import (
	"cmp"
	"fmt"
	"math"
	"sort"

	"code.hybscloud.com/idencomp/contextspec"
)

const eqThreshold = 1e-6
const zeroThreshold = 1e-6

// Probability is a float between 0.0 and 1.0, compared with a small epsilon
// tolerance to absorb floating-point merge error (context.rs Probability).
type Probability float32

const (
	ProbabilityZero Probability = 0.0
	ProbabilityHalf Probability = 0.5
	ProbabilityOne  Probability = 1.0
)

// NewProbability validates and constructs a Probability.
func NewProbability(v float32) Probability {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		panic("context: non-finite probability")
	}
	if v < 0 || v > 1 {
		panic("context: probability out of range")
	}
	return Probability(v)
}

// Get returns the raw float value.
func (p Probability) Get() float32 { return float32(p) }

// Equal compares two probabilities within the epsilon tolerance used
// throughout the Rust source's PartialEq impl.
func (p Probability) Equal(o Probability) bool {
	return math.Abs(float64(p)-float64(o)) <= eqThreshold
}

// Less imposes a total order (mirrors Rust's f32::total_cmp, used so
// Probability can sit in an Ord-bound priority queue).
func (p Probability) Less(o Probability) bool { return p < o }

// Entropy is a non-negative number of bits.
type Entropy float32

// NewEntropy validates and constructs an Entropy.
func NewEntropy(v float32) Entropy {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		panic("context: non-finite entropy")
	}
	if v < 0 {
		panic("context: negative entropy")
	}
	return Entropy(v)
}

// Add combines two entropies (context.rs's Add impl).
func (e Entropy) Add(o Entropy) Entropy { return NewEntropy(float32(e) + float32(o)) }

// MergeCost is the (possibly negative) bit cost of merging two contexts; it
// is not itself an Entropy because it can go negative when merging reduces
// total entropy.
type MergeCost float32

// MergeCostZero is the merge cost of a leaf node (never merged).
const MergeCostZero MergeCost = 0.0

// NewMergeCost validates and constructs a MergeCost.
func NewMergeCost(v float32) MergeCost {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		panic("context: non-finite merge cost")
	}
	return MergeCost(v)
}

// Equal compares two merge costs within the epsilon tolerance.
func (m MergeCost) Equal(o MergeCost) bool {
	return math.Abs(float64(m)-float64(o)) <= eqThreshold
}

func (m MergeCost) String() string { return fmt.Sprintf("%v", float32(m)) }

// Context is a symbol probability distribution together with the
// probability that this context occurs at all, and its cached entropy.
type Context struct {
	ContextProb Probability
	SymbolProb  []Probability

	entropy Entropy
}

// New constructs a Context, computing its entropy eagerly.
func New(contextProb Probability, symbolProb []Probability) Context {
	cp := make([]Probability, len(symbolProb))
	copy(cp, symbolProb)
	return Context{
		ContextProb: contextProb,
		SymbolProb:  cp,
		entropy:     calcEntropy(cp),
	}
}

// NewFromFloats constructs a Context from raw float32s, validating each via
// NewProbability (mirrors Context::new_from's generic Into<Probability>).
func NewFromFloats(contextProb float32, symbolProb []float32) Context {
	sp := make([]Probability, len(symbolProb))
	for i, v := range symbolProb {
		sp[i] = NewProbability(v)
	}
	return New(NewProbability(contextProb), sp)
}

// Dummy is the uniform, always-occurring context placed at index 0 of every
// model's rANS encoder/decoder tables (spec.md §4.3): every symbol equally
// likely.
func Dummy(numSymbols int) Context {
	sp := make([]Probability, numSymbols)
	uniform := Probability(1.0 / float32(numSymbols))
	for i := range sp {
		sp[i] = uniform
	}
	return New(ProbabilityOne, sp)
}

// SymbolNum reports the alphabet size this context distributes over.
func (c Context) SymbolNum() int { return len(c.SymbolProb) }

// Entropy returns the cached Shannon entropy of this context's symbol
// distribution, in bits.
func (c Context) Entropy() Entropy { return c.entropy }

// MergeWith combines two contexts weighted by their occurrence probability,
// matching Context::merge_with exactly (including its NaN-to-zero guard for
// the 0/0 case when both inputs have zero context probability).
func (c Context) MergeWith(o Context) Context {
	if c.SymbolNum() != o.SymbolNum() {
		panic("context: merge_with on contexts of differing symbol count")
	}

	sum := c.ContextProb.Get() + o.ContextProb.Get()
	mergedProb := NewProbability(minF32(sum, 1.0))

	sp := make([]Probability, c.SymbolNum())
	for i := range sp {
		x := c.SymbolProb[i].Get()
		y := o.SymbolProb[i].Get()
		prob := (c.ContextProb.Get()*x + o.ContextProb.Get()*y) / mergedProb.Get()
		if math.IsNaN(float64(prob)) {
			sp[i] = ProbabilityZero
		} else {
			sp[i] = NewProbability(minF32(prob, 1.0))
		}
	}

	return New(mergedProb, sp)
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func calcEntropy(symbolProb []Probability) Entropy {
	var total Entropy
	for _, p := range symbolProb {
		if p.Get() < zeroThreshold {
			continue
		}
		v := p.Get()
		total = total.Add(NewEntropy(-v * log2(v)))
	}
	return total
}

func log2(v float32) float32 { return float32(math.Log2(float64(v))) }

// MergeCostOf computes the bit-cost delta of merging left and right into
// merged, matching Context::merge_cost.
func MergeCostOf(merged, left, right Context) MergeCost {
	cost := merged.ContextProb.Get()*float32(merged.Entropy()) -
		(left.ContextProb.Get()*float32(left.Entropy()) + right.ContextProb.Get()*float32(right.Entropy()))
	return NewMergeCost(cost)
}

// AsIntegerCumFreqs quantizes this context's symbol probabilities into
// rANS-ready cumulative frequencies summing to 1<<scaleBits, with every
// symbol guaranteed a nonzero frequency (fix_zero_freqs) so it remains
// encodable even at vanishing probability.
func (c Context) AsIntegerCumFreqs(scaleBits uint8) []uint32 {
	symbolsNum := c.SymbolNum()
	total := uint32(1) << scaleBits
	if total <= uint32(symbolsNum) {
		panic("context: scale_bits too small for symbol count")
	}

	result := make([]uint32, symbolsNum)
	var acc float32
	for i, p := range c.SymbolProb {
		val := acc
		acc += p.Get() * float32(total)
		result[i] = uint32(math.Round(float64(val)))
	}

	cumFreqToFreq(result, total)
	fixZeroFreqs(result)
	freqToCumFreq(result)

	return result
}

// fixZeroFreqs bumps every zero frequency up to 1, then removes the excess
// total by stealing one unit at a time, round-robin, from any slot that can
// spare it — mirrors Context::fix_zero_freqs exactly, including iteration
// order (this determinism matters: encoder and decoder must agree).
func fixZeroFreqs(freq []uint32) {
	zeroCount := 0
	for i, f := range freq {
		if f == 0 {
			freq[i] = 1
			zeroCount++
		}
	}

	i := 0
	for zeroCount > 0 {
		if freq[i] > 1 {
			freq[i]--
			zeroCount--
		}
		i++
		if i >= len(freq) {
			i = 0
		}
	}
}

func cumFreqToFreq(cumFreq []uint32, total uint32) {
	for i := 0; i < len(cumFreq)-1; i++ {
		cumFreq[i] = cumFreq[i+1] - cumFreq[i]
	}
	last := len(cumFreq) - 1
	cumFreq[last] = total - cumFreq[last]
}

func freqToCumFreq(freq []uint32) {
	var acc uint32
	for i, v := range freq {
		freq[i] = acc
		acc += v
	}
}

// ComplexContext pairs a Context with the sorted, deduplicated list of
// ContextSpec values that map onto it — the leaf payload of the binning
// tree once contexts have been assigned back to their originating specs.
type ComplexContext struct {
	Context Context
	Specs   []contextspec.Spec
}

// NewComplexContext sorts and deduplicates specs before storing them, so
// two ComplexContexts built from the same set compare equal regardless of
// construction order.
func NewComplexContext(ctx Context, specs []contextspec.Spec) ComplexContext {
	cp := make([]contextspec.Spec, len(specs))
	copy(cp, specs)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	cp = dedupSorted(cp)
	return ComplexContext{Context: ctx, Specs: cp}
}

func dedupSorted(s []contextspec.Spec) []contextspec.Spec {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// ContextNode is one node of the binning tree: either a leaf holding the
// original specs that produced a context, or an internal node recording
// the merge cost and the indices (into the owning ContextTree's node
// slice) of its two children.
//
// Grounded on context.rs's ContextNode enum; Go models the tree as a flat
// slice of nodes addressed by index (spec.md §9, "owning tree of nodes by
// index") rather than Rust's Box<ContextNode> recursive enum, since Go has
// no tagged-union sum type with embedded recursive ownership.
type ContextNode struct {
	context Context

	isLeaf bool

	// Leaf fields.
	specs []contextspec.Spec

	// Node fields.
	mergeCost            MergeCost
	leftChild, rightChild int
}

// NewLeaf builds a leaf node from a single spec.
func NewLeaf(spec contextspec.Spec, ctx Context) ContextNode {
	return ContextNode{isLeaf: true, specs: []contextspec.Spec{spec}, context: ctx}
}

// NewLeafMulti builds a leaf node from several specs sharing one context.
func NewLeafMulti(specs []contextspec.Spec, ctx Context) ContextNode {
	cp := make([]contextspec.Spec, len(specs))
	copy(cp, specs)
	return ContextNode{isLeaf: true, specs: cp, context: ctx}
}

// NewNodeFromMerge merges left and right's contexts and records the
// resulting internal node, including its computed merge cost.
func NewNodeFromMerge(left, right Context, leftIndex, rightIndex int) ContextNode {
	merged := left.MergeWith(right)
	cost := MergeCostOf(merged, left, right)
	return ContextNode{
		isLeaf:      false,
		context:     merged,
		mergeCost:   cost,
		leftChild:   leftIndex,
		rightChild:  rightIndex,
	}
}

// IsLeaf reports whether this node is a leaf.
func (n ContextNode) IsLeaf() bool { return n.isLeaf }

// IsNode reports whether this node is an internal (merged) node.
func (n ContextNode) IsNode() bool { return !n.isLeaf }

// Context returns this node's probability distribution.
func (n ContextNode) Context() Context { return n.context }

// Specs returns this leaf's originating specs; panics on an internal node.
func (n ContextNode) Specs() []contextspec.Spec {
	if !n.isLeaf {
		panic("context: Specs() called on an internal node")
	}
	return n.specs
}

// MergeCost returns the bit cost this node's merge incurred, or
// MergeCostZero for a leaf.
func (n ContextNode) MergeCost() MergeCost {
	if n.isLeaf {
		return MergeCostZero
	}
	return n.mergeCost
}

// Children returns the indices of this node's two children; panics on a
// leaf.
func (n ContextNode) Children() (int, int) {
	if n.isLeaf {
		panic("context: Children() called on a leaf")
	}
	return n.leftChild, n.rightChild
}

// CompareMergeCost orders nodes by merge cost; ties break by comparing
// context probability so the ordering is still total.
func CompareMergeCost(a, b ContextNode) int {
	if c := cmp.Compare(float32(a.MergeCost()), float32(b.MergeCost())); c != 0 {
		return c
	}
	return cmp.Compare(a.context.ContextProb.Get(), b.context.ContextProb.Get())
}
