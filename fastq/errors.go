// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fastq

import "fmt"

// ErrInvalidFormat reports a structurally malformed FASTQ record: a missing
// title prefix or a missing acid/quality-score separator.
type ErrInvalidFormat struct {
	Reason string
}

func (e ErrInvalidFormat) Error() string { return "fastq: invalid format: " + e.Reason }

// ErrInvalidAcid reports an acid line byte outside {A,C,T,G,N} (uppercase
// only; lowercase letters are rejected).
type ErrInvalidAcid struct {
	Byte byte
}

func (e ErrInvalidAcid) Error() string { return fmt.Sprintf("fastq: invalid acid %q", e.Byte) }

// ErrInvalidQualityScore reports a quality-score line byte outside the
// Phred+33 printable range ('!'..'~').
type ErrInvalidQualityScore struct {
	Byte byte
}

func (e ErrInvalidQualityScore) Error() string {
	return fmt.Sprintf("fastq: invalid quality score %q", e.Byte)
}

// ErrLengthMismatch reports an acid line and quality-score line of unequal
// length within the same record.
type ErrLengthMismatch struct {
	AcidsLen, QualityScoresLen int
}

func (e ErrLengthMismatch) Error() string {
	return fmt.Sprintf("fastq: acid/quality-score length mismatch (%d vs %d)", e.AcidsLen, e.QualityScoresLen)
}
