// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package contextspec

// Type names one ContextSpecType variant. It wraps Params with the stable
// name used in model identifiers and serialized models (spec.md §6.3); the
// name is precomputed so it need not be recomputed on every hash.
type Type struct {
	Params Params
	name   string
}

// Name returns the stable textual name for this variant.
func (t Type) Name() string { return t.name }

// SpecNum is the upper bound of specifier values this variant emits.
func (t Type) SpecNum() uint32 { return t.Params.SpecNum() }

// NewGenerator builds a fresh Generator for a sequence of the given length.
func (t Type) NewGenerator(length int) *Generator {
	return NewGenerator(t.Params, length)
}

func generic(a, q, p int) Type {
	params := Params{Family: FamilyGeneric, AcidOrder: a, QScoreOrder: q, PositionBits: p}
	return Type{Params: params, name: params.Name()}
}

func light(a, q, p, m int) Type {
	params := Params{Family: FamilyLight, AcidOrder: a, QScoreOrder: q, PositionBits: p, QScoreMax: m}
	return Type{Params: params, name: params.Name()}
}

// Dummy is the always-zero variant: every position maps to spec 0. It is
// the spec type of empty models (model.Empty).
var Dummy = Type{Params: Params{Family: FamilyDummy}, name: "dummy"}

// Types is the closed, ordered list of required ContextSpecType variants
// from spec.md §6.3, reproduced exactly (not reordered, not filtered) so
// that indices and names stay stable for serialized models.
var Types = []Type{
	Dummy,

	// Generic / Acids
	generic(1, 0, 0),
	generic(2, 0, 0),
	generic(4, 0, 0),
	generic(8, 0, 0),
	// Generic / Quality Scores
	generic(0, 1, 0),
	generic(0, 2, 0),
	generic(0, 3, 0),
	// Generic / Positions
	generic(0, 0, 2),
	generic(0, 0, 4),
	generic(0, 0, 8),
	// Generic / Middle
	generic(4, 1, 2),
	generic(1, 3, 2),
	generic(2, 1, 6),
	// Generic / Acids & Quality Scores
	generic(6, 2, 0),
	generic(3, 3, 0),
	// Generic / Acids & Positions
	generic(8, 0, 4),
	generic(4, 0, 3),
	generic(4, 0, 6),
	// Generic / Quality Scores & Positions
	generic(0, 2, 6),
	generic(0, 3, 3),
	// Generic / Big
	generic(4, 2, 6),
	generic(5, 2, 4),
	generic(3, 3, 4),

	// Light / Acids
	light(4, 1, 2, 16),
	light(8, 1, 2, 16),
	light(8, 0, 0, 1),
	// Light / Quality Scores
	light(0, 3, 3, 8),
	light(0, 3, 3, 16),
	light(0, 4, 3, 8),
	light(0, 4, 3, 16),
	light(0, 4, 0, 8),
	light(0, 4, 0, 16),
	light(3, 3, 0, 8),
	light(3, 3, 0, 16),
	light(2, 3, 2, 8),
	light(0, 4, 2, 8),
	light(2, 3, 2, 16),
	light(0, 4, 2, 16),
	// Light / Middle
	light(2, 4, 2, 8),
	light(4, 3, 4, 16),
	light(4, 3, 2, 8),
	// Light / Different Q Score precision
	light(0, 3, 0, 4),
	light(0, 3, 0, 8),
	light(0, 3, 0, 16),
	light(0, 3, 0, 32),
	// Light / Big
	light(4, 4, 4, 8),
	light(4, 4, 4, 16),
	light(5, 4, 4, 16),
	light(3, 5, 4, 16),
}

// ByName looks up a Type by its stable textual name, used when
// deserializing a Model that records its ContextSpecType by name.
func ByName(name string) (Type, bool) {
	for _, t := range Types {
		if t.name == name {
			return t, true
		}
	}
	return Type{}, false
}
