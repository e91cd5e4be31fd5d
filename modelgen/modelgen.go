// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package modelgen builds a Model from statistics gathered over a corpus of
// FastqSequence values, for a single ContextSpecType at a time (spec.md
// §6.2's `generate-model`/`generate-model-all` commands).
//
// Grounded on original_source/idencomp/src/model_generator.rs's
// ModelGenerator<T>/ContextCounter<T>: this package counts symbol
// occurrences per ContextSpec as it replays each sequence through the spec
// type's Generator, then turns each spec's counts into a Context the same
// way (context_prob = spec's share of all observed positions, symbol_prob =
// per-symbol share within that spec).
package modelgen

import (
	"fmt"

	"code.hybscloud.com/idencomp/context"
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/sequence"
)

// ErrContextLimit reports that the number of distinct ContextSpec values
// encountered exceeded the caller's configured limit (spec.md §6.2
// `generate-model --limit`), mirroring the CLI's abort-on-size-blowup
// behavior for the Generic family's higher-order variants.
type ErrContextLimit struct {
	Limit int
}

func (e ErrContextLimit) Error() string {
	return fmt.Sprintf("modelgen: distinct context limit exceeded (%d)", e.Limit)
}

type specCounter struct {
	symbolCounts []int
	total        int
}

// Builder accumulates per-spec symbol counts for one (modelType, specType)
// pair across any number of sequences, then yields a Model.
type Builder struct {
	modelType  model.Type
	specType   contextspec.Type
	numSymbols int
	limit      int

	counts map[contextspec.Spec]*specCounter
	total  int
}

// New constructs a Builder for modelType under specType. limit caps the
// number of distinct ContextSpec values this builder will track; 0 means
// unlimited.
func New(modelType model.Type, specType contextspec.Type, limit int) *Builder {
	return &Builder{
		modelType:  modelType,
		specType:   specType,
		numSymbols: modelType.SymbolsNum(),
		limit:      limit,
		counts:     make(map[contextspec.Spec]*specCounter),
	}
}

// Add replays one sequence through a fresh generator for this builder's
// spec type, feeding each position's (spec, symbol) pair into the counters.
func (b *Builder) Add(seq sequence.FastqSequence) error {
	gen := b.specType.NewGenerator(seq.Len())
	for i := 0; i < seq.Len(); i++ {
		spec := gen.CurrentContext()
		if err := b.addOne(spec, seq.Acids[i], seq.QualityScores[i]); err != nil {
			return err
		}
		gen.Update(seq.Acids[i], seq.QualityScores[i])
	}
	return nil
}

func (b *Builder) addOne(spec contextspec.Spec, acid sequence.Acid, qScore sequence.QualityScore) error {
	c, ok := b.counts[spec]
	if !ok {
		if b.limit > 0 && len(b.counts) >= b.limit {
			return ErrContextLimit{Limit: b.limit}
		}
		c = &specCounter{symbolCounts: make([]int, b.numSymbols)}
		b.counts[spec] = c
	}

	var symbol int
	switch b.modelType {
	case model.Acids:
		symbol = int(acid)
	case model.QualityScores:
		symbol = int(qScore.Get())
	default:
		panic("modelgen: unknown model type")
	}
	c.symbolCounts[symbol]++
	c.total++
	b.total++
	return nil
}

// Len reports the number of distinct ContextSpec values counted so far.
func (b *Builder) Len() int { return len(b.counts) }

// IsEmpty reports whether nothing has been added yet.
func (b *Builder) IsEmpty() bool { return len(b.counts) == 0 }

// ComplexContexts turns the accumulated counts into single-spec
// ComplexContexts, ready for model.WithModelAndSpecType or package binning.
func (b *Builder) ComplexContexts() []context.ComplexContext {
	out := make([]context.ComplexContext, 0, len(b.counts))
	for spec, c := range b.counts {
		symbolProb := make([]float32, b.numSymbols)
		if c.total > 0 {
			for i, n := range c.symbolCounts {
				symbolProb[i] = float32(n) / float32(c.total)
			}
		}
		var contextProb float32
		if b.total > 0 {
			contextProb = float32(c.total) / float32(b.total)
		}
		ctx := context.NewFromFloats(contextProb, symbolProb)
		out = append(out, context.NewComplexContext(ctx, []contextspec.Spec{spec}))
	}
	return out
}

// Model builds the final Model from everything accumulated so far.
func (b *Builder) Model() model.Model {
	return model.WithModelAndSpecType(b.modelType, b.specType, b.ComplexContexts())
}
