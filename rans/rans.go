// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rans implements the two-stream byte-oriented rANS coder that
// drives sequence compression (spec.md §4.7). Contexts are integerized into
// cumulative-frequency tables scaled to 1<<ScaleBits and then coded with a
// classic renormalizing rANS state machine, one independent state per
// stream, sharing a single output byte buffer.
//
// Grounded on original_source/idencomp/src/compressor.rs, reimplemented
// directly on the renormalizing-rANS algorithm (Giesen, "rANS notes") rather
// than wrapping the Rust `rans` crate's byte-multi-stream machinery — this
// module owns its own wire bytes, so no cross-language bit-identical output
// is required, only internal round-trip correctness.
package rans

import (
	"code.hybscloud.com/idencomp/context"
)

// ScaleBits is the fixed scale-bits parameter S used throughout this
// module (spec.md §4.7 fixes S=14).
const ScaleBits uint8 = 14

// MaxBlockSize bounds the per-encoder-instance internal buffer (spec.md
// §4.7, §5): 32 MiB.
const MaxBlockSize = 32 * 1024 * 1024

// MaxContexts is the per-model context cap enforced at table-build time
// (spec.md §4.7, §5).
const MaxContexts = 10_000

const ransByteL = uint32(1) << 23

// encSymbol is a precomputed per-symbol encoder table entry.
type encSymbol struct {
	cumFreq uint32
	freq    uint32
}

// EncContext is the per-context encoder table: one encSymbol per alphabet
// symbol, all frequencies scaled to 1<<ScaleBits.
type EncContext struct {
	symbols []encSymbol
}

// NewEncContext builds an encoder table from ctx, scaled to 1<<scaleBits.
func NewEncContext(ctx context.Context, scaleBits uint8) EncContext {
	cumFreqs := ctx.AsIntegerCumFreqs(scaleBits)
	total := uint32(1) << scaleBits

	symbols := make([]encSymbol, len(cumFreqs))
	for i := range cumFreqs {
		var freq uint32
		if i+1 < len(cumFreqs) {
			freq = cumFreqs[i+1] - cumFreqs[i]
		} else {
			freq = total - cumFreqs[i]
		}
		symbols[i] = encSymbol{cumFreq: cumFreqs[i], freq: freq}
	}
	return EncContext{symbols: symbols}
}

// decSymbol is a precomputed per-symbol decoder table entry.
type decSymbol struct {
	cumFreq uint32
	freq    uint32
}

// DecContext is the per-context decoder table: per-symbol (cumFreq, freq)
// plus a total-sized cumFreq→symbol lookup (spec.md §4.7).
type DecContext struct {
	symbols      []decSymbol
	freqToSymbol []uint16
	scaleBits    uint8
}

// NewDecContext builds a decoder table from ctx, scaled to 1<<scaleBits.
func NewDecContext(ctx context.Context, scaleBits uint8) DecContext {
	cumFreqs := ctx.AsIntegerCumFreqs(scaleBits)
	total := uint32(1) << scaleBits

	symbols := make([]decSymbol, len(cumFreqs))
	freqToSymbol := make([]uint16, total)
	for i := range cumFreqs {
		var freq uint32
		if i+1 < len(cumFreqs) {
			freq = cumFreqs[i+1] - cumFreqs[i]
		} else {
			freq = total - cumFreqs[i]
		}
		symbols[i] = decSymbol{cumFreq: cumFreqs[i], freq: freq}
		for f := cumFreqs[i]; f < cumFreqs[i]+freq; f++ {
			freqToSymbol[f] = uint16(i)
		}
	}
	return DecContext{symbols: symbols, freqToSymbol: freqToSymbol, scaleBits: scaleBits}
}

// SymbolIndexFor resolves which symbol a cumulative frequency slot belongs
// to: an O(1) lookup via the precomputed freq→symbol table.
func (d DecContext) SymbolIndexFor(cumFreq uint32) int {
	return int(d.freqToSymbol[cumFreq])
}

// Compressor is a two-stream rANS encoder. Streams are coded independently
// but share one output byte buffer built back-to-front (classic
// renormalizing-rANS construction): symbols must be fed in the reverse of
// their intended decode order.
type Compressor struct {
	state  [2]uint32
	buf    []byte
	cursor int
}

// NewCompressor allocates a fresh two-stream encoder with a MaxBlockSize
// internal buffer.
func NewCompressor() *Compressor {
	c := &Compressor{buf: make([]byte, MaxBlockSize)}
	c.Reset()
	return c
}

// Reset rewinds the encoder to an empty state, ready for a new sequence.
func (c *Compressor) Reset() {
	c.state[0] = ransByteL
	c.state[1] = ransByteL
	c.cursor = len(c.buf)
}

func (c *Compressor) pushByte(b byte) {
	c.cursor--
	c.buf[c.cursor] = b
}

func (c *Compressor) putAt(stream int, sym encSymbol, scaleBits uint8) {
	x := c.state[stream]
	xMax := ((ransByteL >> scaleBits) << 8) * sym.freq
	for x >= xMax {
		c.pushByte(byte(x & 0xff))
		x >>= 8
	}
	c.state[stream] = ((x / sym.freq) << scaleBits) + (x % sym.freq) + sym.cumFreq
}

// Put encodes one symbol into each stream: sym1 into stream 0, sym2 into
// stream 1, matching RansCompressor<2>::put's (acid, q_score) argument
// order used throughout the block pipeline.
func (c *Compressor) Put(ctx1 *EncContext, sym1 int, ctx2 *EncContext, sym2 int) {
	c.putAt(0, ctx1.symbols[sym1], ScaleBits)
	c.putAt(1, ctx2.symbols[sym2], ScaleBits)
}

// Flush finalizes the stream, writing both final states so the decoder can
// recover them. Must be called exactly once, after all Put calls for this
// sequence (processed in reverse of their intended output order).
func (c *Compressor) Flush() {
	c.writeState(1)
	c.writeState(0)
}

func (c *Compressor) writeState(stream int) {
	x := c.state[stream]
	c.pushByte(byte(x))
	c.pushByte(byte(x >> 8))
	c.pushByte(byte(x >> 16))
	c.pushByte(byte(x >> 24))
}

// Data returns the encoded bytes produced since the last Reset.
func (c *Compressor) Data() []byte {
	return c.buf[c.cursor:]
}

// SingleCompressor is a single-stream rANS encoder used where only one
// symbol is coded per position, e.g. model_chooser's size-estimation pass
// (original_source idn/model_chooser.rs, ModelTester using
// RansCompressor<1>).
type SingleCompressor struct {
	state  uint32
	buf    []byte
	cursor int
}

// NewSingleCompressor allocates a fresh single-stream encoder with a
// MaxBlockSize internal buffer.
func NewSingleCompressor() *SingleCompressor {
	c := &SingleCompressor{buf: make([]byte, MaxBlockSize)}
	c.Reset()
	return c
}

// Reset rewinds the encoder to an empty state, ready for a new sequence.
func (c *SingleCompressor) Reset() {
	c.state = ransByteL
	c.cursor = len(c.buf)
}

func (c *SingleCompressor) pushByte(b byte) {
	c.cursor--
	c.buf[c.cursor] = b
}

// Put encodes one symbol.
func (c *SingleCompressor) Put(ctx *EncContext, sym int) {
	s := ctx.symbols[sym]
	x := c.state
	xMax := ((ransByteL >> ScaleBits) << 8) * s.freq
	for x >= xMax {
		c.pushByte(byte(x & 0xff))
		x >>= 8
	}
	c.state = ((x / s.freq) << ScaleBits) + (x % s.freq) + s.cumFreq
}

// Flush finalizes the stream, writing the final state so a decoder could
// recover it. Must be called exactly once, after all Put calls (processed
// in reverse of their intended output order).
func (c *SingleCompressor) Flush() {
	x := c.state
	c.pushByte(byte(x >> 24))
	c.pushByte(byte(x >> 16))
	c.pushByte(byte(x >> 8))
	c.pushByte(byte(x))
}

// Data returns the encoded bytes produced since the last Reset.
func (c *SingleCompressor) Data() []byte {
	return c.buf[c.cursor:]
}

// Decompressor is the two-stream rANS decoder counterpart to Compressor.
type Decompressor struct {
	state [2]uint32
	data  []byte
	pos   int
}

// NewDecompressor initializes a decoder over data, reading both streams'
// initial states from its front.
func NewDecompressor(data []byte) *Decompressor {
	d := &Decompressor{data: data}
	d.state[0] = d.readState()
	d.state[1] = d.readState()
	return d
}

func (d *Decompressor) readByte() byte {
	b := d.data[d.pos]
	d.pos++
	return b
}

func (d *Decompressor) readState() uint32 {
	var x uint32
	x |= uint32(d.readByte()) << 24
	x |= uint32(d.readByte()) << 16
	x |= uint32(d.readByte()) << 8
	x |= uint32(d.readByte())
	return x
}

func (d *Decompressor) getAt(stream int, ctx *DecContext) int {
	x := d.state[stream]
	cumFreq := x & ((uint32(1) << ctx.scaleBits) - 1)
	symIdx := ctx.SymbolIndexFor(cumFreq)
	sym := ctx.symbols[symIdx]
	x = sym.freq*(x>>ctx.scaleBits) + cumFreq - sym.cumFreq
	for x < ransByteL {
		x = (x << 8) | uint32(d.readByte())
	}
	d.state[stream] = x
	return symIdx
}

// Get decodes one symbol from each stream, returning (sym1, sym2) in the
// same (ctx1, ctx2) argument order used by the matching Put call. Streams
// are internally consumed in the reverse of Put's write order (stream 1
// then stream 0), mirroring the LIFO structure of the shared byte buffer.
func (d *Decompressor) Get(ctx1 *DecContext, ctx2 *DecContext) (int, int) {
	sym2 := d.getAt(1, ctx2)
	sym1 := d.getAt(0, ctx1)
	return sym1, sym2
}
