// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package block

import (
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/rans"
	"code.hybscloud.com/idencomp/sequence"
)

// SequenceCompressor encodes a FastqSequence's acids and quality scores
// through the two-stream rANS coder, one model pair at a time. Grounded on
// original_source/idencomp/src/sequence_compressor.rs SequenceCompressor.
type SequenceCompressor struct {
	compressor *rans.Compressor
}

// NewSequenceCompressor allocates a fresh sequence compressor.
func NewSequenceCompressor() *SequenceCompressor {
	return &SequenceCompressor{compressor: rans.NewCompressor()}
}

// Compress encodes seq under acidModel/qScoreModel and returns the encoded
// bytes, valid until the next Compress call.
func (c *SequenceCompressor) Compress(seq sequence.FastqSequence, acidModel, qScoreModel *rans.EncModel) []byte {
	c.compressor.Reset()

	n := seq.Len()
	acidSpecs := make([]contextspec.Spec, n)
	qScoreSpecs := make([]contextspec.Spec, n)

	acidGen := acidModel.ContextSpecType().NewGenerator(n)
	qScoreGen := qScoreModel.ContextSpecType().NewGenerator(n)
	for i := 0; i < n; i++ {
		acidSpecs[i] = acidGen.CurrentContext()
		qScoreSpecs[i] = qScoreGen.CurrentContext()
		acidGen.Update(seq.Acids[i], seq.QualityScores[i])
		qScoreGen.Update(seq.Acids[i], seq.QualityScores[i])
	}

	for i := n - 1; i >= 0; i-- {
		acidCtx := acidModel.ContextFor(acidSpecs[i])
		qScoreCtx := qScoreModel.ContextFor(qScoreSpecs[i])
		c.compressor.Put(acidCtx, int(seq.Acids[i]), qScoreCtx, int(seq.QualityScores[i].Get()))
	}
	c.compressor.Flush()

	return c.compressor.Data()
}

// SequenceDecompressor is the decode-side counterpart to SequenceCompressor.
type SequenceDecompressor struct{}

// NewSequenceDecompressor constructs a decompressor.
func NewSequenceDecompressor() *SequenceDecompressor {
	return &SequenceDecompressor{}
}

// Decompress reads seqLen symbol pairs from data and reconstructs a
// FastqSequence with an empty identifier (the caller fills it in from the
// identifiers slice, if any).
func (d *SequenceDecompressor) Decompress(data []byte, seqLen int, acidModel, qScoreModel *rans.DecModel) sequence.FastqSequence {
	acidGen := acidModel.ContextSpecType().NewGenerator(seqLen)
	qScoreGen := qScoreModel.ContextSpecType().NewGenerator(seqLen)

	decompressor := rans.NewDecompressor(data)

	acids := make([]sequence.Acid, seqLen)
	qScores := make([]sequence.QualityScore, seqLen)
	for i := 0; i < seqLen; i++ {
		acidSpec := acidGen.CurrentContext()
		qScoreSpec := qScoreGen.CurrentContext()

		acidSym, qScoreSym := decompressor.Get(acidModel.ContextFor(acidSpec), qScoreModel.ContextFor(qScoreSpec))

		acid := sequence.FromUsize(acidSym)
		qScore := sequence.NewQualityScore(uint8(qScoreSym))
		acids[i] = acid
		qScores[i] = qScore

		acidGen.Update(acid, qScore)
		qScoreGen.Update(acid, qScore)
	}

	return sequence.New("", acids, qScores)
}
