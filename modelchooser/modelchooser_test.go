// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modelchooser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/idencomp/context"
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/rans"
	"code.hybscloud.com/idencomp/sequence"
)

func acidModel(probs []float32) model.Model {
	ctx := context.NewFromFloats(1.0, probs)
	return model.WithModelAndSpecType(model.Acids, contextspec.Dummy, []context.ComplexContext{
		context.NewComplexContext(ctx, []contextspec.Spec{0}),
	})
}

func acidEncModel(t *testing.T, probs []float32) *rans.EncModel {
	m, err := rans.NewEncModel(acidModel(probs), sequence.AcidSize, rans.ScaleBits)
	require.NoError(t, err)
	return m
}

func seq(acids ...sequence.Acid) sequence.FastqSequence {
	qScores := make([]sequence.QualityScore, len(acids))
	return sequence.New("", acids, qScores)
}

func TestBestModelsSubsetSingleModel(t *testing.T) {
	m := acidEncModel(t, []float32{0.2, 0.2, 0.2, 0.2, 0.2})
	result := BestModelsSubset([]EncModel{m}, []sequence.FastqSequence{seq(sequence.AcidA)}, 3, true, model.Acids)
	require.Len(t, result, 1)
	assert.Equal(t, m.Identifier(), result[0])
}

func TestBestModelsSubsetRanking(t *testing.T) {
	// Model A strongly favors AcidA, model B strongly favors AcidG.
	mA := acidEncModel(t, []float32{0.01, 0.96, 0.01, 0.01, 0.01})
	mB := acidEncModel(t, []float32{0.01, 0.01, 0.01, 0.01, 0.96})

	sequences := []sequence.FastqSequence{
		seq(sequence.AcidA, sequence.AcidA, sequence.AcidA, sequence.AcidA),
		seq(sequence.AcidA, sequence.AcidA, sequence.AcidA, sequence.AcidA),
		seq(sequence.AcidG, sequence.AcidG, sequence.AcidG, sequence.AcidG),
	}

	result := BestModelsSubset([]EncModel{mA, mB}, sequences, 1, false, model.Acids)
	require.Len(t, result, 1)
	assert.Equal(t, mA.Identifier(), result[0], "model A should rank best: 2 of 3 sequences favor it")
}

func TestBestModelsSubsetClustering(t *testing.T) {
	mA := acidEncModel(t, []float32{0.01, 0.96, 0.01, 0.01, 0.01})
	mB := acidEncModel(t, []float32{0.01, 0.01, 0.01, 0.01, 0.96})

	sequences := []sequence.FastqSequence{
		seq(sequence.AcidA, sequence.AcidA, sequence.AcidA, sequence.AcidA),
		seq(sequence.AcidG, sequence.AcidG, sequence.AcidG, sequence.AcidG),
	}

	result := BestModelsSubset([]EncModel{mA, mB}, sequences, 2, true, model.Acids)
	assert.Len(t, result, 2)
}

func TestChooserBestModelForAppliesSwitchPenalty(t *testing.T) {
	mA := acidEncModel(t, []float32{0.01, 0.96, 0.01, 0.01, 0.01})
	mB := acidEncModel(t, []float32{0.20, 0.20, 0.20, 0.20, 0.20})

	// A single acid costs exactly the 4-byte flushed rANS state under either
	// model, so raw sizes tie and only the switch penalty separates them.
	s := seq(sequence.AcidA)
	c := New()

	// No current model: both candidates pay the penalty; the tie keeps the
	// first candidate.
	idxNoCurrent, chosen := c.BestModelFor(s, []EncModel{mB, mA}, nil, model.Acids)
	assert.Equal(t, 0, idxNoCurrent)
	assert.Equal(t, mB.Identifier(), chosen.Identifier())

	// mA current: only mB pays the penalty, so mA wins.
	currentID := mA.Identifier()
	idxWithCurrent, chosenWithCurrent := c.BestModelFor(s, []EncModel{mB, mA}, &currentID, model.Acids)
	assert.Equal(t, 1, idxWithCurrent)
	assert.Equal(t, mA.Identifier(), chosenWithCurrent.Identifier())
}
