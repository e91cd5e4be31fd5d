// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package modelchooser selects, from a registered pool of candidate models,
// the small per-file subset an encoder carries forward and, within that
// subset, the single best model for each sequence (spec.md §4.6).
//
// Grounded on original_source/idencomp/src/idn/model_chooser.rs. The
// measurement pass ("how many bytes would this sequence cost under this
// model?") is done with the package rans SingleCompressor, exactly as the
// Rust ModelTester wraps RansCompressor<1>.
package modelchooser

import (
	"sort"

	"code.hybscloud.com/idencomp/clustering"
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/rans"
	"code.hybscloud.com/idencomp/sequence"
)

// EncModel is the subset of rans.EncModel's surface the chooser needs:
// satisfied by *rans.EncModel.
type EncModel interface {
	Identifier() model.Identifier
	ContextSpecType() contextspec.Type
	ContextFor(spec contextspec.Spec) *rans.EncContext
}

// symbolNumFor resolves the integer symbol for a position in modelType's
// alphabet (spec.md §4.2, §4.7): acid code for Acids models, raw score for
// QualityScores models.
func symbolNumFor(modelType model.Type, acid sequence.Acid, qScore sequence.QualityScore) int {
	switch modelType {
	case model.Acids:
		return int(acid)
	case model.QualityScores:
		return int(qScore.Get())
	default:
		panic("modelchooser: unknown model type")
	}
}

// modelTester measures the compressed size a sequence would take under a
// candidate model, reusing one SingleCompressor across calls.
type modelTester struct {
	compressor *rans.SingleCompressor
	modelType  model.Type
}

func newModelTester(modelType model.Type) *modelTester {
	return &modelTester{compressor: rans.NewSingleCompressor(), modelType: modelType}
}

func (t *modelTester) computeSize(seq sequence.FastqSequence, m EncModel) int {
	t.compressor.Reset()

	gen := m.ContextSpecType().NewGenerator(seq.Len())
	for i := 0; i < seq.Len(); i++ {
		acid := seq.Acids[i]
		qScore := seq.QualityScores[i]

		spec := gen.CurrentContext()
		symbolNum := symbolNumFor(t.modelType, acid, qScore)
		t.compressor.Put(m.ContextFor(spec), symbolNum)
		gen.Update(acid, qScore)
	}
	t.compressor.Flush()

	return len(t.compressor.Data())
}

// clusterCostCalculator adapts modelTester to clustering.CostCalculator.
type clusterCostCalculator struct {
	tester *modelTester
}

func (c clusterCostCalculator) CostFor(value sequence.FastqSequence, centroid EncModel) uint32 {
	return uint32(c.tester.computeSize(value, centroid))
}

// Chooser selects per-file model subsets and per-sequence best models
// (spec.md §4.6). Not safe for concurrent use — callers run one Chooser per
// worker, matching the Rust ModelChooser's &mut self methods.
type Chooser struct {
	acidTester   *modelTester
	qScoreTester *modelTester
}

// New constructs a Chooser with fresh internal measurement state.
func New() *Chooser {
	return &Chooser{
		acidTester:   newModelTester(model.Acids),
		qScoreTester: newModelTester(model.QualityScores),
	}
}

// switchModelPenalty is added to a candidate model's measured size when it
// differs from the sequence's current model, discouraging needless
// model-switch slices (spec.md §4.6).
const switchModelPenalty = 2

// BestModelsSubset returns up to modelNum model identifiers from models,
// the models that best cover sequences as a set (spec.md §4.6 step 1):
// clustering when useClustering, else per-sequence ranking aggregated
// across the whole file.
func BestModelsSubset(models []EncModel, sequences []sequence.FastqSequence, modelNum int, useClustering bool, modelType model.Type) []model.Identifier {
	if len(models) == 0 {
		panic("modelchooser: no models registered")
	}
	if len(models) == 1 {
		return []model.Identifier{models[0].Identifier()}
	}

	tester := newModelTester(modelType)
	if useClustering {
		return clusterModels(tester, models, sequences, modelNum)
	}
	return rankModels(tester, models, sequences, modelNum)
}

func clusterModels(tester *modelTester, models []EncModel, sequences []sequence.FastqSequence, modelNum int) []model.Identifier {
	clusters := clustering.MakeClusters[sequence.FastqSequence, EncModel](clusterCostCalculator{tester: tester}, models, sequences, modelNum)

	out := make([]model.Identifier, len(clusters))
	for i, c := range clusters {
		out[i] = models[c.Centroid].Identifier()
	}
	return out
}

func rankModels(tester *modelTester, models []EncModel, sequences []sequence.FastqSequence, modelNum int) []model.Identifier {
	scores := make([]uint32, len(models))

	type scored struct {
		modelIndex int
		size       int
	}
	ranking := make([]scored, len(models))

	for _, seq := range sequences {
		for i, m := range models {
			ranking[i] = scored{modelIndex: i, size: tester.computeSize(seq, m)}
		}
		sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].size < ranking[j].size })
		for place, r := range ranking {
			scores[r.modelIndex] += uint32(place + 1)
		}
	}

	type rankedModel struct {
		modelIndex int
		score      uint32
	}
	byScore := make([]rankedModel, len(models))
	for i, s := range scores {
		byScore[i] = rankedModel{modelIndex: i, score: s}
	}
	sort.SliceStable(byScore, func(i, j int) bool { return byScore[i].score < byScore[j].score })

	if modelNum > len(byScore) {
		modelNum = len(byScore)
	}
	out := make([]model.Identifier, modelNum)
	for i := 0; i < modelNum; i++ {
		out[i] = models[byScore[i].modelIndex].Identifier()
	}
	return out
}

// BestModelFor picks, out of models (typically the per-file subset), the
// single cheapest model for seq, applying switchModelPenalty against any
// model other than currentIdentifier (spec.md §4.6 step 2). Returns the
// chosen model's index into models and the model itself.
func (c *Chooser) BestModelFor(seq sequence.FastqSequence, models []EncModel, currentIdentifier *model.Identifier, modelType model.Type) (int, EncModel) {
	var tester *modelTester
	switch modelType {
	case model.Acids:
		tester = c.acidTester
	case model.QualityScores:
		tester = c.qScoreTester
	default:
		panic("modelchooser: unknown model type")
	}

	if len(models) == 0 {
		panic("modelchooser: no models provided")
	}

	bestIndex := -1
	var bestLen int
	for i, m := range models {
		size := tester.computeSize(seq, m)
		penalty := 0
		if currentIdentifier == nil || m.Identifier() != *currentIdentifier {
			penalty = switchModelPenalty
		}
		total := size + penalty
		if bestIndex == -1 || total < bestLen {
			bestIndex = i
			bestLen = total
		}
	}
	return bestIndex, models[bestIndex]
}
