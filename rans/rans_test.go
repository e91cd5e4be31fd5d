// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rans

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/idencomp/context"
)

func TestEncDecContextFromContext(t *testing.T) {
	ctx := context.NewFromFloats(1.0, []float32{0.05, 0.10, 0.125, 0.125, 0.30, 0.03, 0.07, 0.05, 0.12, 0.03})

	enc := NewEncContext(ctx, 10)
	require.Len(t, enc.symbols, 10)

	dec := NewDecContext(ctx, 10)
	require.Len(t, dec.symbols, 10)

	var total uint32
	for _, s := range dec.symbols {
		total += s.freq
	}
	assert.Equal(t, uint32(1<<10), total)
}

func TestRoundTripSameContextBothStreams(t *testing.T) {
	ctx := context.NewFromFloats(1.0, []float32{0.25, 0.25, 0.25, 0.25})
	enc := NewEncContext(ctx, 6)
	dec := NewDecContext(ctx, 6)

	syms := []int{0, 1, 2, 3, 3, 2, 1, 0}

	c := NewCompressor()
	for i := len(syms) - 1; i >= 0; i-- {
		c.Put(&enc, syms[i], &enc, syms[i])
	}
	c.Flush()
	data := append([]byte(nil), c.Data()...)

	d := NewDecompressor(data)
	for _, want := range syms {
		got1, got2 := d.Get(&dec, &dec)
		assert.Equal(t, want, got1)
		assert.Equal(t, want, got2)
	}
}

func TestRoundTripTwoStreams(t *testing.T) {
	ctx1 := context.NewFromFloats(1.0, []float32{0.25, 0.25, 0.25, 0.25})
	ctx2 := context.NewFromFloats(1.0, []float32{0.125, 0.125, 0.125, 0.125, 0.125, 0.125, 0.125, 0.125})
	enc1 := NewEncContext(ctx1, 6)
	enc2 := NewEncContext(ctx2, 6)
	dec1 := NewDecContext(ctx1, 6)
	dec2 := NewDecContext(ctx2, 6)

	type pair struct{ a, b int }
	seq := []pair{{0, 1}, {1, 3}, {2, 5}, {3, 7}}

	c := NewCompressor()
	for i := len(seq) - 1; i >= 0; i-- {
		c.Put(&enc1, seq[i].a, &enc2, seq[i].b)
	}
	c.Flush()
	data := append([]byte(nil), c.Data()...)

	d := NewDecompressor(data)
	for _, want := range seq {
		a, b := d.Get(&dec1, &dec2)
		assert.Equal(t, want.a, a)
		assert.Equal(t, want.b, b)
	}
}

func TestRoundTripRandom(t *testing.T) {
	contexts := make([]context.Context, 10)
	for i := range contexts {
		probs := make([]float32, 10)
		var sum float32
		for j := range probs {
			probs[j] = float32(rand.IntN(100) + 1)
			sum += probs[j]
		}
		for j := range probs {
			probs[j] /= sum
		}
		contexts[i] = context.NewFromFloats(0.1, probs)
	}

	const scaleBits = 8
	encs := make([]EncContext, len(contexts))
	decs := make([]DecContext, len(contexts))
	for i, c := range contexts {
		encs[i] = NewEncContext(c, scaleBits)
		decs[i] = NewDecContext(c, scaleBits)
	}

	type event struct {
		ctxIdx int
		sym    int
	}
	events := make([]event, 2048)
	for i := range events {
		events[i] = event{ctxIdx: rand.IntN(10), sym: rand.IntN(10)}
	}

	c := NewCompressor()
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		c.Put(&encs[e.ctxIdx], e.sym, &encs[e.ctxIdx], e.sym)
	}
	c.Flush()
	data := append([]byte(nil), c.Data()...)

	d := NewDecompressor(data)
	for _, e := range events {
		got1, got2 := d.Get(&decs[e.ctxIdx], &decs[e.ctxIdx])
		assert.Equal(t, e.sym, got1)
		assert.Equal(t, e.sym, got2)
	}
}
