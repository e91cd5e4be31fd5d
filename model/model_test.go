// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/idencomp/context"
	"code.hybscloud.com/idencomp/contextspec"
)

func TestEmptyModel(t *testing.T) {
	m := Empty(Acids)

	assert.Equal(t, Acids, m.ModelType())
	assert.Equal(t, contextspec.Dummy, m.ContextSpecType())
	assert.True(t, m.IsEmpty())
	assert.Empty(t, m.AsComplexContexts())
	assert.True(t, m.Rate().Equal(RateZero))
}

func acidGeneric100() contextspec.Type {
	for _, ty := range contextspec.Types {
		if ty.Name() == "generic_ao1_qo0_pb0" {
			return ty
		}
	}
	panic("not found")
}

func TestNewModel(t *testing.T) {
	ctx1 := context.NewFromFloats(0.25, []float32{0.80, 0.10, 0.05, 0.05, 0.00})
	ctx2 := context.NewFromFloats(0.25, []float32{0.25, 0.50, 0.15, 0.10, 0.00})
	spec1 := contextspec.Spec(1)
	spec2 := contextspec.Spec(2)

	contexts := []context.ComplexContext{
		context.NewComplexContext(ctx1, []contextspec.Spec{spec1}),
		context.NewComplexContext(ctx2, []contextspec.Spec{spec2}),
	}

	specType := acidGeneric100()
	m := WithModelAndSpecType(Acids, specType, contexts)

	assert.Equal(t, Acids, m.ModelType())
	assert.Equal(t, specType, m.ContextSpecType())
	require.Len(t, m.Contexts(), 2)
	idx1, ok1 := m.SpecIndex(spec1)
	require.True(t, ok1)
	idx2, ok2 := m.SpecIndex(spec2)
	require.True(t, ok2)
	assert.Equal(t, ctx1, m.Contexts()[idx1])
	assert.Equal(t, ctx2, m.Contexts()[idx2])
}

func TestModelIdentifierOrderIndependent(t *testing.T) {
	ctx1 := context.NewFromFloats(0.25, []float32{0.80, 0.10, 0.05, 0.05, 0.00})
	ctx2 := context.NewFromFloats(0.25, []float32{0.25, 0.50, 0.15, 0.10, 0.00})
	spec1 := contextspec.Spec(1)
	spec2 := contextspec.Spec(2)
	specType := acidGeneric100()

	m1 := WithModelAndSpecType(Acids, specType, []context.ComplexContext{
		context.NewComplexContext(ctx1, []contextspec.Spec{spec1}),
		context.NewComplexContext(ctx2, []contextspec.Spec{spec2}),
	})
	m2 := WithModelAndSpecType(Acids, specType, []context.ComplexContext{
		context.NewComplexContext(ctx2, []contextspec.Spec{spec2}),
		context.NewComplexContext(ctx1, []contextspec.Spec{spec1}),
	})

	assert.Equal(t, m1.Identifier(), m2.Identifier())
}

func TestModelIdentifierUnique(t *testing.T) {
	ids := map[Identifier]bool{}
	models := []Model{
		Empty(Acids),
		Empty(QualityScores),
	}
	for _, m := range models {
		assert.False(t, ids[m.Identifier()], "duplicate identifier")
		ids[m.Identifier()] = true
	}
}

func TestCompressionRateString(t *testing.T) {
	assert.Equal(t, "0.0000bpv", NewCompressionRate(0.0).String())
	assert.Equal(t, "1.2345bpv", NewCompressionRate(1.2345).String())
}

func TestQualityUseClustering(t *testing.T) {
	assert.False(t, NewQuality(1).UseClustering())
	assert.True(t, NewQuality(2).UseClustering())
	assert.True(t, DefaultQuality.UseClustering())
}

func TestQualityOutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { NewQuality(0) })
	assert.Panics(t, func() { NewQuality(10) })
}
