// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package contextspec

import (
	"code.hybscloud.com/idencomp/internal/intqueue"
	"code.hybscloud.com/idencomp/sequence"
)

// GenericSpec is the decomposed, human-inspectable form of a Generic
// variant's ContextSpec: the acid history, quality-score history, and raw
// position value. Used for debugging and for Testable Property 7's
// round-trip check.
type GenericSpec struct {
	Params   Params
	Acids    []sequence.Acid
	QScores  []sequence.QualityScore
	Position uint8
}

// ToSpec converts a GenericSpec into its packed ContextSpec, mirroring
// GenericContextSpecGenerator::from_spec(...).current_context().
func (g GenericSpec) ToSpec() Spec {
	gen := NewGenerator(g.Params, int(1)<<uint(g.Params.PositionBits))
	for _, a := range g.Acids {
		gen.acidCtx = gen.acidCtx.WithPushedBack(uint32(a))
	}
	for _, q := range g.QScores {
		gen.qCtx = gen.qCtx.WithPushedBack(uint32(q.Get()))
	}
	gen.position = int(g.Position)
	return gen.CurrentContext()
}

// SpecToGeneric decodes a packed ContextSpec back into a GenericSpec for the
// given Generic variant, mirroring GenericContextSpecGenerator::spec_to_repr.
func SpecToGeneric(p Params, spec Spec) GenericSpec {
	maxPos := uint32(1) << uint32(p.PositionBits)
	val := uint32(spec)

	position := val & (maxPos - 1)
	val >>= p.PositionBits

	acidBits := p.acidBits()
	acidMask := intqueue.Mask(genericAcidDomain, uint32(p.AcidOrder))
	acidState := val & acidMask
	val >>= acidBits

	qMask := intqueue.Mask(genericQScoreDomain, uint32(p.QScoreOrder))
	qState := val & qMask

	acidQ := acidState
	qQ := qState

	acids := make([]sequence.Acid, p.AcidOrder)
	qScores := make([]sequence.QualityScore, p.QScoreOrder)

	for i := p.AcidOrder - 1; i >= 0; i-- {
		acids[i] = sequence.Acid(acidQ % genericAcidDomain)
		acidQ /= genericAcidDomain
	}
	for i := p.QScoreOrder - 1; i >= 0; i-- {
		qScores[i] = sequence.NewQualityScore(uint8(qQ % genericQScoreDomain))
		qQ /= genericQScoreDomain
	}

	return GenericSpec{Params: p, Acids: acids, QScores: qScores, Position: uint8(position)}
}
