// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package idn

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/idencomp/block"
	"code.hybscloud.com/idencomp/context"
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/sequence"
)

func preferModel(t model.Type, size int, favored int) model.Model {
	probs := make([]float32, size)
	for i := range probs {
		probs[i] = 0.01 / float32(size-1)
	}
	probs[favored] = 0.99
	ctx := context.NewFromFloats(1.0, probs)
	return model.WithModelAndSpecType(t, contextspec.Dummy, []context.ComplexContext{
		context.NewComplexContext(ctx, []contextspec.Spec{0}),
	})
}

func defaultModels(t *testing.T) *Models {
	m, err := NewModels(nil, nil)
	require.NoError(t, err)
	return m
}

func seqAt(identifier string, acids []sequence.Acid, q []sequence.QualityScore) sequence.FastqSequence {
	return sequence.New(identifier, acids, q)
}

// Scenario A (spec.md §8): minimal round trip with the default (empty)
// model provider at quality 7.
func TestScenarioA_MinimalRoundTrip(t *testing.T) {
	seq := seqAt("", []sequence.Acid{sequence.AcidA, sequence.AcidC, sequence.AcidT, sequence.AcidG},
		[]sequence.QualityScore{sequence.NewQualityScore(0), sequence.NewQualityScore(1), sequence.NewQualityScore(13), sequence.NewQualityScore(50)})

	var buf bytes.Buffer
	c, err := NewCompressor(&buf, defaultModels(t), NewCompressorOptions().Quality(7))
	require.NoError(t, err)
	require.NoError(t, c.Submit(seq))
	require.NoError(t, c.Close())

	d, err := NewDecompressor(&buf, defaultModels(t), NewDecompressorOptions())
	require.NoError(t, err)
	got, ok, err := d.NextSequence()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(seq))

	_, ok, err = d.NextSequence()
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, d.Close())
}

// Scenario B (spec.md §8): a sequence longer than the configured block
// limit is rejected, and the compressor can still be closed cleanly.
func TestScenarioB_SequenceTooLong(t *testing.T) {
	seq := seqAt("", []sequence.Acid{sequence.AcidA, sequence.AcidC, sequence.AcidT, sequence.AcidG},
		[]sequence.QualityScore{sequence.NewQualityScore(0), sequence.NewQualityScore(1), sequence.NewQualityScore(13), sequence.NewQualityScore(50)})

	var buf bytes.Buffer
	c, err := NewCompressor(&buf, defaultModels(t), NewCompressorOptions().BlockLength(1))
	require.NoError(t, err)

	err = c.Submit(seq)
	require.Error(t, err)
	var tooLong ErrSequenceTooLong
	require.ErrorAs(t, err, &tooLong)
	assert.Equal(t, 4, tooLong.Actual)
	assert.Equal(t, 0, tooLong.Limit)

	require.NoError(t, c.Close())
}

// Scenario C (spec.md §8): identifiers discarded when include_identifiers
// is false.
func TestScenarioC_IdentifierDiscarded(t *testing.T) {
	seq := seqAt("SEQ_ID", []sequence.Acid{sequence.AcidA, sequence.AcidC, sequence.AcidT, sequence.AcidG},
		[]sequence.QualityScore{sequence.NewQualityScore(0), sequence.NewQualityScore(1), sequence.NewQualityScore(13), sequence.NewQualityScore(50)})

	var buf bytes.Buffer
	c, err := NewCompressor(&buf, defaultModels(t), NewCompressorOptions().NoIdentifiers())
	require.NoError(t, err)
	require.NoError(t, c.Submit(seq))
	require.NoError(t, c.Close())

	d, err := NewDecompressor(&buf, defaultModels(t), NewDecompressorOptions())
	require.NoError(t, err)
	got, ok, err := d.NextSequence()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", got.Identifier)
	assert.Equal(t, seq.Acids, got.Acids)
	assert.Equal(t, seq.QualityScores, got.QualityScores)
	require.NoError(t, d.Close())
}

// Scenario D (spec.md §8): a model provider with two favored acid models
// and an empty q-score model; two 100-acid sequences (all-A, all-C) round
// trip, exercising the per-sequence model-switching path in encodeBlock.
func TestScenarioD_MultiModelSwitching(t *testing.T) {
	preferA := preferModel(model.Acids, sequence.AcidSize, int(sequence.AcidA))
	preferC := preferModel(model.Acids, sequence.AcidSize, int(sequence.AcidC))

	models, err := NewModels([]model.Model{preferA, preferC}, nil)
	require.NoError(t, err)

	allA := make([]sequence.Acid, 100)
	allC := make([]sequence.Acid, 100)
	q := make([]sequence.QualityScore, 100)
	for i := range allA {
		allA[i] = sequence.AcidA
		allC[i] = sequence.AcidC
		q[i] = sequence.NewQualityScore(30)
	}
	seq1 := seqAt("s1", allA, q)
	seq2 := seqAt("s2", allC, q)

	var buf bytes.Buffer
	c, err := NewCompressor(&buf, models, NewCompressorOptions().Quality(9))
	require.NoError(t, err)
	require.NoError(t, c.Submit(seq1))
	require.NoError(t, c.Submit(seq2))
	require.NoError(t, c.Close())

	decodeModels, err := NewModels([]model.Model{preferA, preferC}, nil)
	require.NoError(t, err)
	d, err := NewDecompressor(&buf, decodeModels, NewDecompressorOptions())
	require.NoError(t, err)

	got1, ok, err := d.NextSequence()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got1.Equal(seq1))

	got2, ok, err := d.NextSequence()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got2.Equal(seq2))

	_, ok, err = d.NextSequence()
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, d.Close())
}

// Scenario E (spec.md §8): flipping one byte inside a sequence slice (not
// the header) causes a checksum-mismatch error on that block.
func TestScenarioE_ChecksumTamper(t *testing.T) {
	seq := seqAt("", []sequence.Acid{sequence.AcidA, sequence.AcidC, sequence.AcidT, sequence.AcidG},
		[]sequence.QualityScore{sequence.NewQualityScore(0), sequence.NewQualityScore(1), sequence.NewQualityScore(13), sequence.NewQualityScore(50)})

	var buf bytes.Buffer
	c, err := NewCompressor(&buf, defaultModels(t), NewCompressorOptions())
	require.NoError(t, err)
	require.NoError(t, c.Submit(seq))
	require.NoError(t, c.Close())

	raw := buf.Bytes()
	// Header is 8(magic)+1(version), metadata is 1(item count)+1(item
	// tag)+1(num models)+32 per identifier; the 12-byte block header
	// follows, then the payload: the Identifiers slice (tag, u32 length,
	// compression tag, data), two 2-byte SwitchModel slices, then the
	// Sequence slice (tag, u32 length, u32 seq_len, rANS data). Flip the
	// first rANS data byte so the tamper lands inside the sequence slice.
	headerLen := len(Magic) + 1
	metaLen := 1 + 1 + 1 + 32*len(combinedIdentifiers(t, defaultModels(t)))
	payloadStart := headerLen + metaLen + 12
	idLen := int(binary.BigEndian.Uint32(raw[payloadStart+1 : payloadStart+5]))
	seqSliceStart := payloadStart + 6 + idLen + 2*2
	tamperIdx := seqSliceStart + 1 + 4 + 4
	require.Greater(t, len(raw), tamperIdx)
	raw[tamperIdx] ^= 0xFF

	d, err := NewDecompressor(bytes.NewReader(raw), defaultModels(t), NewDecompressorOptions())
	require.NoError(t, err)
	_, _, err = d.NextSequence()
	require.Error(t, err)
	var mismatch block.ErrChecksumMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.NotEqual(t, mismatch.Computed, mismatch.Expected)
}

func combinedIdentifiers(t *testing.T, m *Models) []model.Identifier {
	t.Helper()
	return []model.Identifier{m.acid[0].Identifier(), m.qScore[0].Identifier()}
}

// Scenario F (spec.md §8): 1,000 distinct short sequences through small
// blocks and a threaded worker pool round-trip in exact order.
func TestScenarioF_ThreadedSmallBlocks(t *testing.T) {
	const n = 1000
	seqs := make([]sequence.FastqSequence, n)
	for i := 0; i < n; i++ {
		acids := []sequence.Acid{sequence.Acid(i%4 + 1), sequence.AcidG, sequence.AcidA}
		q := []sequence.QualityScore{sequence.NewQualityScore(uint8(i % 94)), sequence.NewQualityScore(10), sequence.NewQualityScore(20)}
		seqs[i] = seqAt("r", acids, q)
	}

	var buf bytes.Buffer
	c, err := NewCompressor(&buf, defaultModels(t), NewCompressorOptions().BlockLength(200).Threads(8))
	require.NoError(t, err)
	for _, s := range seqs {
		require.NoError(t, c.Submit(s))
	}
	require.NoError(t, c.Close())

	d, err := NewDecompressor(&buf, defaultModels(t), NewDecompressorOptions().Threads(8))
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		got, ok, err := d.NextSequence()
		require.NoError(t, err)
		require.True(t, ok, "sequence %d", i)
		assert.Truef(t, got.Acids[0] == seqs[i].Acids[0] && got.QualityScores[0] == seqs[i].QualityScores[0], "sequence %d mismatched", i)
	}
	_, ok, err := d.NextSequence()
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, d.Close())
}

// TestCloseWithoutSubmit verifies a Compressor that never receives a
// Submit still emits a structurally valid, empty file.
func TestCloseWithoutSubmit(t *testing.T) {
	var buf bytes.Buffer
	c, err := NewCompressor(&buf, defaultModels(t), NewCompressorOptions())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	d, err := NewDecompressor(&buf, defaultModels(t), NewDecompressorOptions())
	require.NoError(t, err)
	_, ok, err := d.NextSequence()
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, d.Close())
}
