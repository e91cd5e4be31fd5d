// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package contextspec implements ContextSpec, the closed enumeration of
// ContextSpecType generator variants, and the Generic/Light generators that
// turn a rolling window of acids and quality scores into a ContextSpec.
//
// Grounded on original_source/idencomp/src/context_spec.rs. The Rust source
// selects among many GenericContextSpecGenerator/LightContextSpecGenerator
// instantiations via a macro-generated table of trait objects; per spec.md
// §9 ("Dynamic-dispatch context generators") this package instead uses a
// closed, tagged-variant Type plus a single Generator implementation
// parameterized by runtime fields, avoiding per-sequence heap allocation and
// Go's lack of const generics.
package contextspec

import (
	"fmt"

	"code.hybscloud.com/idencomp/internal/intqueue"
	"code.hybscloud.com/idencomp/sequence"
)

// Spec is an opaque 32-bit fingerprint of a local situation.
type Spec uint32

// String renders the spec as 8 uppercase hex digits, matching the Rust
// Display impl ("{:08X}").
func (s Spec) String() string {
	return fmt.Sprintf("%08X", uint32(s))
}

// Family distinguishes the two generator shapes.
type Family int

const (
	FamilyDummy Family = iota
	FamilyGeneric
	FamilyLight
)

// Params describes one ContextSpecType variant: its family and the
// parameters that would have been const generics in the original.
type Params struct {
	Family       Family
	AcidOrder    int
	QScoreOrder  int
	PositionBits int
	QScoreMax    int // Light family only; 0 for Generic/Dummy
}

// Name returns the stable textual name used in model identifiers and
// serialized models, per spec.md §6.3: "generic_ao{A}_qo{Q}_pb{P}" and
// "light_ao{A}_qo{Q}_pb{P}_qm{M}".
func (p Params) Name() string {
	switch p.Family {
	case FamilyDummy:
		return "dummy"
	case FamilyGeneric:
		return fmt.Sprintf("generic_ao%d_qo%d_pb%d", p.AcidOrder, p.QScoreOrder, p.PositionBits)
	case FamilyLight:
		return fmt.Sprintf("light_ao%d_qo%d_pb%d_qm%d", p.AcidOrder, p.QScoreOrder, p.PositionBits, p.QScoreMax)
	default:
		return "unknown"
	}
}

const (
	genericAcidDomain  = 5
	genericQScoreDomain = 94
	lightAcidDomain    = 4
)

// acidBits/qScoreBits/positionBits/totalBits/SpecNum implement the same bit
// accounting as GenericContextSpecGenerator/LightContextSpecGenerator's
// const fns in the Rust source.
func (p Params) acidBits() uint32 {
	switch p.Family {
	case FamilyGeneric:
		return intqueue.NumBits(genericAcidDomain, uint32(p.AcidOrder))
	case FamilyLight:
		return intqueue.NumBits(lightAcidDomain, uint32(p.AcidOrder))
	default:
		return 0
	}
}

func (p Params) qScoreBits() uint32 {
	switch p.Family {
	case FamilyGeneric:
		return intqueue.NumBits(genericQScoreDomain, uint32(p.QScoreOrder))
	case FamilyLight:
		return intqueue.NumBits(uint32(p.QScoreMax), uint32(p.QScoreOrder))
	default:
		return 0
	}
}

func (p Params) positionBitsCount() uint32 {
	return uint32(p.PositionBits)
}

func (p Params) totalBits() uint32 {
	return p.acidBits() + p.qScoreBits() + p.positionBitsCount()
}

// SpecNum is the upper bound of specifier values this variant can emit:
// 1 << total_bits.
func (p Params) SpecNum() uint32 {
	if p.Family == FamilyDummy {
		return 1
	}
	return uint32(1) << p.totalBits()
}

// Generator produces a deterministic ContextSpec stream from a sequence of
// (acid, q_score) updates.
type Generator struct {
	params Params

	acidCtx intqueue.Queue
	qCtx    intqueue.Queue

	position int
	length   int
}

// NewGenerator constructs a Generator for the given variant over a sequence
// of the declared length.
func NewGenerator(p Params, length int) *Generator {
	g := &Generator{params: p, length: length}
	switch p.Family {
	case FamilyDummy:
		// No state: spec is always 0.
	case FamilyGeneric:
		g.acidCtx = intqueue.New(genericAcidDomain, uint32(p.AcidOrder), uint32(sequence.AcidN))
		g.qCtx = intqueue.New(genericQScoreDomain, uint32(p.QScoreOrder), uint32(sequence.QualityScoreZero))
	case FamilyLight:
		g.acidCtx = intqueue.New(lightAcidDomain, uint32(p.AcidOrder), 0)
		g.qCtx = intqueue.New(uint32(p.QScoreMax), uint32(p.QScoreOrder), 0)
	}
	return g
}

func (g *Generator) maxPositionValue() uint32 {
	return uint32(1) << uint32(g.params.PositionBits)
}

func (g *Generator) positionBucket() uint32 {
	if g.length == 0 {
		return 0
	}
	return uint32(g.position) * g.maxPositionValue() / uint32(g.length)
}

// CurrentContext returns the ContextSpec for the generator's current state.
func (g *Generator) CurrentContext() Spec {
	if g.params.Family == FamilyDummy {
		return 0
	}
	val := g.qCtx.Get()
	val = (val << g.params.acidBits()) | g.acidCtx.Get()
	val = (val << uint32(g.params.PositionBits)) | g.positionBucket()
	return Spec(val)
}

// Update pushes the newly observed acid and quality score and advances the
// position counter.
func (g *Generator) Update(acid sequence.Acid, qScore sequence.QualityScore) {
	switch g.params.Family {
	case FamilyDummy:
	case FamilyGeneric:
		g.acidCtx = g.acidCtx.WithPushedBack(uint32(acid))
		g.qCtx = g.qCtx.WithPushedBack(uint32(qScore.Get()))
	case FamilyLight:
		var a, q uint32
		if acid == sequence.AcidN || qScore == sequence.QualityScoreZero {
			a, q = 0, 0
		} else {
			a = uint32(acid) - 1
			q = uint32(qScore.Get()) * uint32(g.params.QScoreMax) / sequence.QualityScoreSize
		}
		g.acidCtx = g.acidCtx.WithPushedBack(a)
		g.qCtx = g.qCtx.WithPushedBack(q)
	}
	g.position++
}
