// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modelgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/sequence"
)

func dummyType() contextspec.Type { return contextspec.Dummy }

func TestBuilderSingleSpec(t *testing.T) {
	b := New(model.Acids, dummyType(), 0)
	seq := sequence.New("", []sequence.Acid{sequence.AcidA, sequence.AcidA, sequence.AcidC}, []sequence.QualityScore{0, 0, 0})
	require.NoError(t, b.Add(seq))

	assert.Equal(t, 1, b.Len())
	contexts := b.ComplexContexts()
	require.Len(t, contexts, 1)
	assert.InDelta(t, 1.0, contexts[0].Context.ContextProb.Get(), 1e-6)
	assert.InDelta(t, 2.0/3.0, contexts[0].Context.SymbolProb[sequence.AcidA].Get(), 1e-6)
	assert.InDelta(t, 1.0/3.0, contexts[0].Context.SymbolProb[sequence.AcidC].Get(), 1e-6)
}

func TestBuilderDistinctSpecs(t *testing.T) {
	specType, ok := contextspec.ByName("generic_ao1_qo0_pb0")
	require.True(t, ok)

	b := New(model.Acids, specType, 0)
	seq := sequence.New("", []sequence.Acid{sequence.AcidA, sequence.AcidC, sequence.AcidG}, []sequence.QualityScore{0, 0, 0})
	require.NoError(t, b.Add(seq))

	assert.Equal(t, 3, b.Len())
	m := b.Model()
	assert.Equal(t, specType, m.ContextSpecType())
	assert.Equal(t, model.Acids, m.ModelType())
}

func TestBuilderRespectsLimit(t *testing.T) {
	specType, ok := contextspec.ByName("generic_ao1_qo0_pb0")
	require.True(t, ok)

	b := New(model.Acids, specType, 2)
	seq := sequence.New("", []sequence.Acid{sequence.AcidA, sequence.AcidC, sequence.AcidG}, []sequence.QualityScore{0, 0, 0})
	err := b.Add(seq)
	assert.ErrorAs(t, err, &ErrContextLimit{})
}
