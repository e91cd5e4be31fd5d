// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modelstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/idencomp/context"
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/model"
)

func acidGeneric100() contextspec.Type {
	ty, ok := contextspec.ByName("generic_ao1_qo0_pb0")
	if !ok {
		panic("not found")
	}
	return ty
}

func sampleAcidModel() model.Model {
	ctx1 := context.NewFromFloats(0.25, []float32{0.80, 0.10, 0.05, 0.05, 0.00})
	ctx2 := context.NewFromFloats(0.75, []float32{0.25, 0.50, 0.15, 0.10, 0.00})
	contexts := []context.ComplexContext{
		context.NewComplexContext(ctx1, []contextspec.Spec{1}),
		context.NewComplexContext(ctx2, []contextspec.Spec{2, 3}),
	}
	return model.WithModelAndSpecType(model.Acids, acidGeneric100(), contexts)
}

func TestWriteReadModelRoundTrip(t *testing.T) {
	m := sampleAcidModel()

	var buf bytes.Buffer
	require.NoError(t, WriteModel(&buf, m))

	got, err := ReadModel(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Identifier(), got.Identifier())
	assert.Equal(t, m.ModelType(), got.ModelType())
	assert.Equal(t, m.ContextSpecType(), got.ContextSpecType())
	assert.Equal(t, m.AsComplexContexts(), got.AsComplexContexts())
}

func TestWriteReadEmptyModel(t *testing.T) {
	m := model.Empty(model.QualityScores)

	var buf bytes.Buffer
	require.NoError(t, WriteModel(&buf, m))

	got, err := ReadModel(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Identifier(), got.Identifier())
}

func TestFromDirectoryLoadsAllModels(t *testing.T) {
	dir := t.TempDir()

	acidModel := sampleAcidModel()
	qScoreModel := model.Empty(model.QualityScores)

	writeModelFile(t, filepath.Join(dir, "acid.model"), acidModel)
	writeModelFile(t, filepath.Join(dir, "qscore.model"), qScoreModel)

	store, err := FromDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
	assert.Len(t, store.AcidModels(), 1)
	assert.Len(t, store.QualityScoreModels(), 1)

	got, ok := store.ByIdentifier(acidModel.Identifier())
	require.True(t, ok)
	assert.Equal(t, acidModel.ModelType(), got.ModelType())
}

func TestFromDirectoryRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.model"), []byte("not a model"), 0o644))

	_, err := FromDirectory(dir)
	assert.Error(t, err)
}

func writeModelFile(t *testing.T, path string, m model.Model) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, WriteModel(f, m))
}
