// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package model implements Model and ModelIdentifier: a typed table from
// ContextSpec to Context, and the deterministic SHA-3 identifier that names
// it (spec.md §3, §4.3).
//
// Grounded on original_source/idencomp/src/model.rs.
package model

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"golang.org/x/crypto/sha3"

	"code.hybscloud.com/idencomp/context"
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/sequence"
)

// Type distinguishes the alphabet a Model compresses: acids or quality
// scores.
type Type uint8

const (
	Acids Type = iota
	QualityScores
)

func (t Type) String() string {
	switch t {
	case Acids:
		return "Acids"
	case QualityScores:
		return "QualityScores"
	default:
		return "Unknown"
	}
}

// SymbolsNum returns the alphabet size for this model type.
func (t Type) SymbolsNum() int {
	switch t {
	case Acids:
		return sequence.AcidSize
	case QualityScores:
		return sequence.QualityScoreSize
	default:
		panic("model: unknown model type")
	}
}

// eqThreshold matches CompressionRate's tolerance in the Rust source.
const eqThreshold = 1e-6

// CompressionRate is bits-per-value (bpv), non-negative and finite.
type CompressionRate float32

// RateZero is the compression rate of an empty model.
const RateZero CompressionRate = 0.0

// NewCompressionRate validates and constructs a CompressionRate.
func NewCompressionRate(v float32) CompressionRate {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		panic("model: non-finite compression rate")
	}
	if v < 0 {
		panic("model: negative compression rate")
	}
	return CompressionRate(v)
}

// Equal compares two rates within the epsilon tolerance.
func (r CompressionRate) Equal(o CompressionRate) bool {
	d := float64(r) - float64(o)
	if d < 0 {
		d = -d
	}
	return d <= eqThreshold
}

// Get returns the raw float32 value.
func (r CompressionRate) Get() float32 { return float32(r) }

func (r CompressionRate) String() string { return fmt.Sprintf("%.4fbpv", float32(r)) }

// Quality is the 1..9 compression-quality dial (spec.md §6.4's
// `--quality`), shared by the model chooser and the block/idn pipeline so
// neither needs to import the other (original_source idn/compressor.rs
// CompressionQuality).
type Quality uint8

// DefaultQuality matches the CLI's default (spec.md §6.4).
const DefaultQuality Quality = 7

// NewQuality validates and constructs a Quality, panicking outside 1..9.
func NewQuality(v uint8) Quality {
	if v < 1 || v > 9 {
		panic("model: quality out of range 1..9")
	}
	return Quality(v)
}

// Get returns the raw quality level.
func (q Quality) Get() uint8 { return uint8(q) }

// ClusteringThreshold is the minimum quality at which the model chooser
// uses clustering rather than per-sequence ranking (spec.md §4.6).
const ClusteringThreshold Quality = 2

// UseClustering reports whether q selects clustering-based model subset
// selection.
func (q Quality) UseClustering() bool { return q >= ClusteringThreshold }

// Identifier is a SHA-3/256 digest that names a Model deterministically, as
// a function of its content (spec.md §3's "ModelIdentifier").
type Identifier [32]byte

func (id Identifier) String() string {
	return fmt.Sprintf("%02x%02x%02x%02x", id[0], id[1], id[2], id[3])
}

// Bytes returns the raw 32-byte digest, as stored in the IDN Models
// metadata item (spec.md §6.1).
func (id Identifier) Bytes() [32]byte { return [32]byte(id) }

// Model is a typed table from ContextSpec to Context (spec.md §3).
type Model struct {
	identifier Identifier
	modelType  Type
	specType   contextspec.Type
	contexts   []context.Context
	specMap    map[contextspec.Spec]int
}

// Empty constructs a Model with no contexts, backed by the Dummy spec type.
func Empty(modelType Type) Model {
	return newModel(modelType, contextspec.Dummy, nil, map[contextspec.Spec]int{})
}

// WithModelAndSpecType builds a Model from a multiset of ComplexContexts.
// Contexts are sorted by their spec list before indices are assigned, so
// the resulting identifier is independent of input order (spec.md §4.3,
// Testable Property 5).
func WithModelAndSpecType(modelType Type, specType contextspec.Type, contexts []context.ComplexContext) Model {
	sorted := make([]context.ComplexContext, len(contexts))
	copy(sorted, contexts)
	sort.Slice(sorted, func(i, j int) bool {
		return lessSpecs(sorted[i].Specs, sorted[j].Specs)
	})

	contextVec := make([]context.Context, 0, len(sorted))
	specMap := make(map[contextspec.Spec]int, len(sorted))
	for _, cc := range sorted {
		if cc.Context.SymbolNum() != modelType.SymbolsNum() {
			panic("model: context symbol count does not match model type alphabet")
		}
		index := len(contextVec)
		contextVec = append(contextVec, cc.Context)
		for _, spec := range cc.Specs {
			specMap[spec] = index
		}
	}

	return newModel(modelType, specType, contextVec, specMap)
}

func lessSpecs(a, b []contextspec.Spec) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func newModel(modelType Type, specType contextspec.Type, contexts []context.Context, specMap map[contextspec.Spec]int) Model {
	m := Model{
		modelType: modelType,
		specType:  specType,
		contexts:  contexts,
		specMap:   specMap,
	}
	m.identifier = makeIdentifier(modelType, specType, contexts, specMap)
	return m
}

// Len reports the number of contexts in this model.
func (m Model) Len() int { return len(m.contexts) }

// IsEmpty reports whether this model has no contexts.
func (m Model) IsEmpty() bool { return len(m.contexts) == 0 }

// Identifier returns the model's deterministic identifier.
func (m Model) Identifier() Identifier { return m.identifier }

// ModelType returns the alphabet this model compresses.
func (m Model) ModelType() Type { return m.modelType }

// ContextSpecType returns the generator variant this model's specs came
// from.
func (m Model) ContextSpecType() contextspec.Type { return m.specType }

// Contexts returns the model's contexts; spec map values index directly
// into this slice (package rans shifts them by one, since index 0 of its
// tables is reserved for the dummy context).
func (m Model) Contexts() []context.Context { return m.contexts }

// SpecIndex looks up the context index for spec, if mapped.
func (m Model) SpecIndex(spec contextspec.Spec) (int, bool) {
	idx, ok := m.specMap[spec]
	return idx, ok
}

// Map exposes the full spec-to-index map, e.g. for rANS table construction.
func (m Model) Map() map[contextspec.Spec]int { return m.specMap }

// AsComplexContexts reconstructs the ComplexContext multiset this model was
// built from.
func (m Model) AsComplexContexts() []context.ComplexContext {
	specsByIndex := make([][]contextspec.Spec, len(m.contexts))
	for spec, idx := range m.specMap {
		specsByIndex[idx] = append(specsByIndex[idx], spec)
	}
	out := make([]context.ComplexContext, len(m.contexts))
	for i, ctx := range m.contexts {
		out[i] = context.NewComplexContext(ctx, specsByIndex[i])
	}
	return out
}

// Rate computes this model's overall compression rate: the probability-
// weighted sum of each context's entropy.
func (m Model) Rate() CompressionRate {
	var total float32
	for _, ctx := range m.contexts {
		total += ctx.ContextProb.Get() * float32(ctx.Entropy())
	}
	return NewCompressionRate(total)
}

// makeIdentifier computes the SHA-3/256 digest over model_type, spec_type
// name, each context's symbol probabilities (big-endian f32), and the
// spec-to-index map sorted ascending by spec (spec.md §3).
func makeIdentifier(modelType Type, specType contextspec.Type, contexts []context.Context, specMap map[contextspec.Spec]int) Identifier {
	h := sha3.New256()

	h.Write([]byte{byte(modelType)})
	h.Write([]byte(specType.Name()))

	var buf [4]byte
	for _, ctx := range contexts {
		for _, p := range ctx.SymbolProb {
			binary.BigEndian.PutUint32(buf[:], math.Float32bits(p.Get()))
			h.Write(buf[:])
		}
	}

	specs := make([]contextspec.Spec, 0, len(specMap))
	for spec := range specMap {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i] < specs[j] })
	for _, spec := range specs {
		binary.BigEndian.PutUint32(buf[:], uint32(spec))
		h.Write(buf[:])
		binary.BigEndian.PutUint32(buf[:], uint32(specMap[spec]))
		h.Write(buf[:])
	}

	var out Identifier
	h.Sum(out[:0])
	return out
}
