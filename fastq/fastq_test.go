// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fastq

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/idencomp/sequence"
)

func TestReaderReadsSimpleSequence(t *testing.T) {
	r := NewReader(strings.NewReader("@seq1\nACTG\n+\n!#IJ\n"))

	seq, err := r.ReadSequence()
	require.NoError(t, err)
	assert.Equal(t, "seq1", seq.Identifier)
	assert.Equal(t, []sequence.Acid{sequence.AcidA, sequence.AcidC, sequence.AcidT, sequence.AcidG}, seq.Acids)
	require.Len(t, seq.QualityScores, 4)
	assert.Equal(t, byte('!'), seq.QualityScores[0].Phred33Byte())

	_, err = r.ReadSequence()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderSkipsLeadingBlankLines(t *testing.T) {
	r := NewReader(strings.NewReader("\n\n@seq1\nA\n+\n!\n"))

	seq, err := r.ReadSequence()
	require.NoError(t, err)
	assert.Equal(t, "seq1", seq.Identifier)
}

func TestReaderEmptyFileReturnsEOF(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.ReadSequence()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderBlankOnlyFileReturnsEOF(t *testing.T) {
	r := NewReader(strings.NewReader("\n"))
	_, err := r.ReadSequence()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderInvalidAcid(t *testing.T) {
	r := NewReader(strings.NewReader("@seq\nX\n+\n!\n"))
	_, err := r.ReadSequence()
	var invalid ErrInvalidAcid
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, byte('X'), invalid.Byte)
}

func TestReaderInvalidQualityScore(t *testing.T) {
	r := NewReader(strings.NewReader("@seq\nA\n+\n\x07\n"))
	_, err := r.ReadSequence()
	var invalid ErrInvalidQualityScore
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, byte(0x07), invalid.Byte)
}

func TestReaderLengthMismatch(t *testing.T) {
	r := NewReader(strings.NewReader("@seq\nA\n+\n!!\n"))
	_, err := r.ReadSequence()
	var mismatch ErrLengthMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.AcidsLen)
	assert.Equal(t, 2, mismatch.QualityScoresLen)
}

func TestReaderMissingTitlePrefix(t *testing.T) {
	r := NewReader(strings.NewReader("seq\nA\n+\n!\n"))
	_, err := r.ReadSequence()
	var invalid ErrInvalidFormat
	require.ErrorAs(t, err, &invalid)
}

func TestReaderIteratesMultipleRecords(t *testing.T) {
	r := NewReader(strings.NewReader("@a\nAC\n+\n!!\n@b\nGT\n+\n##\n"))

	var ids []string
	for {
		seq, err := r.ReadSequence()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ids = append(ids, seq.Identifier)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestWriterRoundTripsReaderOutput(t *testing.T) {
	seq := sequence.New("roundtrip", []sequence.Acid{sequence.AcidA, sequence.AcidN, sequence.AcidG},
		[]sequence.QualityScore{sequence.NewQualityScore(0), sequence.NewQualityScore(40), sequence.NewQualityScore(93)})

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteSequence(seq))
	require.NoError(t, w.Flush())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	got, err := r.ReadSequence()
	require.NoError(t, err)
	assert.True(t, seq.Equal(got))
}

func TestWriterEmptySequence(t *testing.T) {
	seq := sequence.New("empty", nil, nil)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteSequence(seq))
	require.NoError(t, w.Flush())

	assert.Equal(t, "@empty\n\n+\n\n", buf.String())
}
