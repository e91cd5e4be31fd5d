// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/idencomp/context"
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/rans"
	"code.hybscloud.com/idencomp/sequence"
)

type testPool struct {
	types      []model.Type
	acidDecs   map[int]*rans.DecModel
	qScoreDecs map[int]*rans.DecModel
}

func (p testPool) Len() int                              { return len(p.types) }
func (p testPool) TypeAt(i int) model.Type                { return p.types[i] }
func (p testPool) AcidDecModelAt(i int) *rans.DecModel   { return p.acidDecs[i] }
func (p testPool) QScoreDecModelAt(i int) *rans.DecModel { return p.qScoreDecs[i] }

func flatModel(t model.Type, probs []float32) model.Model {
	ctx := context.NewFromFloats(1.0, probs)
	return model.WithModelAndSpecType(t, contextspec.Dummy, []context.ComplexContext{
		context.NewComplexContext(ctx, []contextspec.Spec{0}),
	})
}

func TestBlockRoundTrip(t *testing.T) {
	acidModel := flatModel(model.Acids, []float32{0.2, 0.2, 0.2, 0.2, 0.2})
	qScoreModel := flatModel(model.QualityScores, makeUniformQScoreProbs())

	acidEnc, err := rans.NewEncModel(acidModel, sequence.AcidSize, rans.ScaleBits)
	require.NoError(t, err)
	qScoreEnc, err := rans.NewEncModel(qScoreModel, sequence.QualityScoreSize, rans.ScaleBits)
	require.NoError(t, err)
	acidDec, err := rans.NewDecModel(acidModel, sequence.AcidSize, rans.ScaleBits)
	require.NoError(t, err)
	qScoreDec, err := rans.NewDecModel(qScoreModel, sequence.QualityScoreSize, rans.ScaleBits)
	require.NoError(t, err)

	seq1 := sequence.New("read1", []sequence.Acid{sequence.AcidA, sequence.AcidC, sequence.AcidT, sequence.AcidG}, []sequence.QualityScore{
		sequence.NewQualityScore(10), sequence.NewQualityScore(20), sequence.NewQualityScore(30), sequence.NewQualityScore(40),
	})
	seq2 := sequence.New("read2", []sequence.Acid{sequence.AcidG, sequence.AcidG}, []sequence.QualityScore{
		sequence.NewQualityScore(5), sequence.NewQualityScore(6),
	})

	idCompression, idData, err := CompressIdentifiers([]sequence.FastqSequence{seq1, seq2}, model.NewQuality(9))
	require.NoError(t, err)

	seqCompressor := NewSequenceCompressor()

	w := NewWriter()
	require.NoError(t, w.WriteIdentifiers(idCompression, idData))
	require.NoError(t, w.WriteSwitchModel(0))
	require.NoError(t, w.WriteSwitchModel(1))

	data1 := append([]byte(nil), seqCompressor.Compress(seq1, acidEnc, qScoreEnc)...)
	require.NoError(t, w.WriteSequence(seq1, data1))

	data2 := append([]byte(nil), seqCompressor.Compress(seq2, acidEnc, qScoreEnc)...)
	require.NoError(t, w.WriteSequence(seq2, data2))

	var framed bytes.Buffer
	require.NoError(t, w.Finish(&framed, 0))

	header, err := ReadHeader(&framed)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), header.BlockNum)
	assert.NotZero(t, header.Length)

	payload := make([]byte, header.Length)
	_, err = framed.Read(payload)
	require.NoError(t, err)

	pool := testPool{
		types:      []model.Type{model.Acids, model.QualityScores},
		acidDecs:   map[int]*rans.DecModel{0: acidDec},
		qScoreDecs: map[int]*rans.DecModel{1: qScoreDec},
	}

	decoded, err := DecompressBlock(payload, header.SeqChecksum, pool)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, seq1.Identifier, decoded[0].Identifier)
	assert.Equal(t, seq1.Acids, decoded[0].Acids)
	assert.Equal(t, seq1.QualityScores, decoded[0].QualityScores)
	assert.Equal(t, seq2.Identifier, decoded[1].Identifier)
	assert.Equal(t, seq2.Acids, decoded[1].Acids)
	assert.Equal(t, seq2.QualityScores, decoded[1].QualityScores)
}

func TestBlockChecksumMismatch(t *testing.T) {
	acidModel := flatModel(model.Acids, []float32{0.2, 0.2, 0.2, 0.2, 0.2})
	qScoreModel := flatModel(model.QualityScores, makeUniformQScoreProbs())
	acidDec, _ := rans.NewDecModel(acidModel, sequence.AcidSize, rans.ScaleBits)
	qScoreDec, _ := rans.NewDecModel(qScoreModel, sequence.QualityScoreSize, rans.ScaleBits)

	pool := testPool{
		types:      []model.Type{model.Acids, model.QualityScores},
		acidDecs:   map[int]*rans.DecModel{0: acidDec},
		qScoreDecs: map[int]*rans.DecModel{1: qScoreDec},
	}

	var payload bytes.Buffer
	require.NoError(t, WriteSwitchModelSlice(&payload, 0))
	require.NoError(t, WriteSwitchModelSlice(&payload, 1))

	_, err := DecompressBlock(payload.Bytes(), 0xdeadbeef, pool)
	require.Error(t, err)
	var mismatch ErrChecksumMismatch
	assert.ErrorAs(t, err, &mismatch)
	assert.Equal(t, uint32(0xdeadbeef), mismatch.Expected)
}

func makeUniformQScoreProbs() []float32 {
	probs := make([]float32, sequence.QualityScoreSize)
	for i := range probs {
		probs[i] = 1.0 / float32(sequence.QualityScoreSize)
	}
	return probs
}
