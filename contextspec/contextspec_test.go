// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package contextspec

import (
	"testing"

	"code.hybscloud.com/idencomp/sequence"
)

func TestSpecDisplay(t *testing.T) {
	spec := Spec(21_374_269)
	if got := spec.String(); got != "0146253D" {
		t.Fatalf("String() = %q, want %q", got, "0146253D")
	}
}

func TestGenericSpecRoundTrip(t *testing.T) {
	p := Params{Family: FamilyGeneric, AcidOrder: 4, QScoreOrder: 2, PositionBits: 0}
	g1 := GenericSpec{
		Params:  p,
		Acids:   []sequence.Acid{sequence.AcidC, sequence.AcidG, sequence.AcidA, sequence.AcidT},
		QScores: []sequence.QualityScore{sequence.NewQualityScore(35), sequence.NewQualityScore(42)},
	}
	spec := g1.ToSpec()
	g2 := SpecToGeneric(p, spec)

	if len(g2.Acids) != len(g1.Acids) {
		t.Fatalf("acid length mismatch: %d vs %d", len(g2.Acids), len(g1.Acids))
	}
	for i := range g1.Acids {
		if g1.Acids[i] != g2.Acids[i] {
			t.Fatalf("acid[%d] = %v, want %v", i, g2.Acids[i], g1.Acids[i])
		}
	}
	for i := range g1.QScores {
		if g1.QScores[i] != g2.QScores[i] {
			t.Fatalf("qscore[%d] = %v, want %v", i, g2.QScores[i], g1.QScores[i])
		}
	}
}

func TestGenericSpecNoPos(t *testing.T) {
	p := Params{Family: FamilyGeneric, AcidOrder: 2, QScoreOrder: 1, PositionBits: 0}
	g := GenericSpec{
		Params:  p,
		Acids:   []sequence.Acid{sequence.AcidC, sequence.AcidG},
		QScores: []sequence.QualityScore{sequence.NewQualityScore(92)},
	}
	if got := g.ToSpec(); got != Spec(0xB8E) {
		t.Fatalf("ToSpec() = %#x, want 0xB8E", uint32(got))
	}
}

func TestGenericSpecWithPos(t *testing.T) {
	p := Params{Family: FamilyGeneric, AcidOrder: 2, QScoreOrder: 1, PositionBits: 3}
	g := GenericSpec{
		Params:   p,
		Acids:    []sequence.Acid{sequence.AcidC, sequence.AcidG},
		QScores:  []sequence.QualityScore{sequence.NewQualityScore(92)},
		Position: 5,
	}
	if got := g.ToSpec(); got != Spec(0x5C75) {
		t.Fatalf("ToSpec() = %#x, want 0x5C75", uint32(got))
	}
}

func TestGenericGeneratorPosition(t *testing.T) {
	p := Params{Family: FamilyGeneric, AcidOrder: 0, QScoreOrder: 0, PositionBits: 2}
	gen := NewGenerator(p, 7)

	want := []Spec{0, 0, 1, 1, 2, 2, 3}
	if got := gen.CurrentContext(); got != want[0] {
		t.Fatalf("context[0] = %v, want %v", got, want[0])
	}
	for i := 1; i < len(want); i++ {
		gen.Update(sequence.AcidN, sequence.NewQualityScore(0))
		if got := gen.CurrentContext(); got != want[i] {
			t.Fatalf("context[%d] = %v, want %v", i, got, want[i])
		}
	}
}

func TestGenericSpecNum(t *testing.T) {
	p := Params{Family: FamilyGeneric, AcidOrder: 1, QScoreOrder: 0, PositionBits: 0}
	if got := p.SpecNum(); got != 8 {
		t.Fatalf("SpecNum() = %d, want 8", got)
	}
}

func TestLightGenerator(t *testing.T) {
	p := Params{Family: FamilyLight, AcidOrder: 2, QScoreOrder: 2, PositionBits: 4, QScoreMax: 16}
	gen := NewGenerator(p, 8)

	check := func(want uint32) {
		t.Helper()
		if got := gen.CurrentContext(); uint32(got) != want {
			t.Fatalf("context = %#x, want %#x", uint32(got), want)
		}
	}
	check(0x00000000)

	gen.Update(sequence.AcidA, sequence.NewQualityScore(0))
	check(0x00000002)

	gen.Update(sequence.AcidN, sequence.NewQualityScore(0))
	check(0x00000004)

	gen.Update(sequence.AcidA, sequence.NewQualityScore(93))
	check(0x00000F06)

	gen.Update(sequence.AcidA, sequence.NewQualityScore(93))
	check(0x0000FF08)

	gen.Update(sequence.AcidC, sequence.NewQualityScore(93))
	check(0x0000FF1A)

	gen.Update(sequence.AcidC, sequence.NewQualityScore(93))
	check(0x0000FF5C)
}

func TestTypesNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, ty := range Types {
		if seen[ty.Name()] {
			t.Fatalf("duplicate type name %q", ty.Name())
		}
		seen[ty.Name()] = true
	}
	if len(Types) != 1+23+26 {
		t.Fatalf("Types has %d entries, want %d", len(Types), 1+23+26)
	}
}

func TestByName(t *testing.T) {
	ty, ok := ByName("generic_ao4_qo1_pb2")
	if !ok {
		t.Fatal("ByName did not find generic_ao4_qo1_pb2")
	}
	if ty.Params.AcidOrder != 4 || ty.Params.QScoreOrder != 1 || ty.Params.PositionBits != 2 {
		t.Fatalf("unexpected params: %+v", ty.Params)
	}
}
