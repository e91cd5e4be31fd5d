// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package context

import (
	"math"
	"testing"
)

func approxEq(t *testing.T, got, want float32) {
	t.Helper()
	if math.Abs(float64(got)-float64(want)) > 1e-4 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeContextsWithProb1(t *testing.T) {
	ctx1 := NewFromFloats(1.0, []float32{0.0, 0.5, 0.3, 0.2})
	ctx2 := NewFromFloats(0.0, []float32{0.5, 0.1, 0.1, 0.3})

	merged := ctx1.MergeWith(ctx2)

	approxEq(t, merged.ContextProb.Get(), 1.0)
	approxEq(t, merged.SymbolProb[0].Get(), 0.0)
	approxEq(t, merged.SymbolProb[1].Get(), 0.5)
	approxEq(t, merged.SymbolProb[2].Get(), 0.3)
	approxEq(t, merged.SymbolProb[3].Get(), 0.2)
}

func TestMergeContextsWithProb0(t *testing.T) {
	ctx1 := NewFromFloats(0.0, []float32{0.0, 0.5, 0.3, 0.2})
	ctx2 := NewFromFloats(0.0, []float32{0.5, 0.1, 0.1, 0.3})

	merged := ctx1.MergeWith(ctx2)

	approxEq(t, merged.ContextProb.Get(), 0.0)
	for i := range merged.SymbolProb {
		approxEq(t, merged.SymbolProb[i].Get(), 0.0)
	}
}

func TestMergeIdenticalContexts(t *testing.T) {
	ctx1 := NewFromFloats(0.25, []float32{0.0, 0.5, 0.3, 0.2})
	ctx2 := ctx1

	merged := ctx1.MergeWith(ctx2)

	approxEq(t, merged.ContextProb.Get(), 0.5)
	approxEq(t, merged.SymbolProb[0].Get(), 0.0)
	approxEq(t, merged.SymbolProb[1].Get(), 0.5)
	approxEq(t, merged.SymbolProb[2].Get(), 0.3)
	approxEq(t, merged.SymbolProb[3].Get(), 0.2)
}

func TestMergeDistinctContexts(t *testing.T) {
	ctx1 := NewFromFloats(0.75, []float32{0.0, 0.5, 0.3, 0.2})
	ctx2 := NewFromFloats(0.25, []float32{0.5, 0.1, 0.1, 0.3})

	merged := ctx1.MergeWith(ctx2)

	approxEq(t, merged.ContextProb.Get(), 1.0)
	approxEq(t, merged.SymbolProb[0].Get(), 0.125)
	approxEq(t, merged.SymbolProb[1].Get(), 0.4)
	approxEq(t, merged.SymbolProb[2].Get(), 0.25)
	approxEq(t, merged.SymbolProb[3].Get(), 0.225)
}

func TestEntropyZero(t *testing.T) {
	ctx := New(ProbabilityOne, []Probability{ProbabilityZero, ProbabilityOne})
	approxEq(t, float32(ctx.Entropy()), 0.0)
}

func TestEntropyOneBit(t *testing.T) {
	ctx := New(ProbabilityOne, []Probability{ProbabilityHalf, ProbabilityHalf})
	approxEq(t, float32(ctx.Entropy()), 1.0)
}

func TestEntropyBiggerContext(t *testing.T) {
	ctx := NewFromFloats(1.0, []float32{0.25, 0.25, 0.125, 0.375})
	approxEq(t, float32(ctx.Entropy()), 1.905639)
}

func TestCumFreqSimple(t *testing.T) {
	ctx := NewFromFloats(1.0, []float32{0.25, 0.25, 0.25, 0.25})
	got := ctx.AsIntegerCumFreqs(4)
	want := []uint32{0, 4, 8, 12}
	assertUint32Slice(t, got, want)
}

func TestCumFreqBigger(t *testing.T) {
	ctx := NewFromFloats(1.0, []float32{0.05, 0.10, 0.125, 0.125, 0.30, 0.03, 0.07, 0.05, 0.12, 0.03})
	got := ctx.AsIntegerCumFreqs(10)
	want := []uint32{0, 51, 154, 282, 410, 717, 748, 819, 870, 993}
	assertUint32Slice(t, got, want)
}

func TestCumFreqLowFreq(t *testing.T) {
	ctx := NewFromFloats(1.0, []float32{0.01, 0.01, 0.49, 0.49})
	got := ctx.AsIntegerCumFreqs(4)
	want := []uint32{0, 1, 2, 9}
	assertUint32Slice(t, got, want)
}

func assertUint32Slice(t *testing.T, got, want []uint32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("[%d] = %d, want %d (%v vs %v)", i, got[i], want[i], got, want)
		}
	}
}
