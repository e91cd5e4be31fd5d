// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fastq

import (
	"bufio"
	"io"

	"code.hybscloud.com/idencomp/sequence"
)

// Writer serializes FastqSequence values back into FASTQ text.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w in a buffered FASTQ serializer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 4096)}
}

// WriteSequence writes one FASTQ record: title line, acid line, separator
// line, quality-score line.
func (wr *Writer) WriteSequence(seq sequence.FastqSequence) error {
	if _, err := wr.w.WriteString("@" + seq.Identifier + "\n"); err != nil {
		return err
	}

	acidBytes := make([]byte, len(seq.Acids))
	for i, a := range seq.Acids {
		acidBytes[i] = a.Byte()
	}
	if _, err := wr.w.Write(acidBytes); err != nil {
		return err
	}
	if err := wr.w.WriteByte('\n'); err != nil {
		return err
	}

	if _, err := wr.w.WriteString("+\n"); err != nil {
		return err
	}

	qualityBytes := make([]byte, len(seq.QualityScores))
	for i, q := range seq.QualityScores {
		qualityBytes[i] = q.Phred33Byte()
	}
	if _, err := wr.w.Write(qualityBytes); err != nil {
		return err
	}
	return wr.w.WriteByte('\n')
}

// Flush flushes any buffered output to the underlying writer.
func (wr *Writer) Flush() error { return wr.w.Flush() }
