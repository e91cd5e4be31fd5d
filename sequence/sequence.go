// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sequence defines the domain value types shared by the rest of the
// pipeline: the nucleic-acid and quality-score alphabets and the
// FastqSequence record that flows from the FASTQ reader through compression
// and back out through the FASTQ writer.
package sequence

import "fmt"

// Acid is one of the five nucleic-acid symbols. N is the numeric zero slot
// so that an unseen/zero-valued acid queue naturally means "N, N, N...".
type Acid uint8

const (
	AcidN Acid = iota
	AcidA
	AcidC
	AcidT
	AcidG
)

// AcidSize is the alphabet size for acids.
const AcidSize = 5

var acidLetters = [AcidSize]byte{'N', 'A', 'C', 'T', 'G'}

// String renders the acid as its single-letter FASTQ representation.
func (a Acid) String() string {
	if int(a) >= AcidSize {
		return "?"
	}
	return string(acidLetters[a])
}

// FromByte parses a single FASTQ acid letter.
func FromByte(b byte) (Acid, error) {
	switch b {
	case 'N', 'n':
		return AcidN, nil
	case 'A', 'a':
		return AcidA, nil
	case 'C', 'c':
		return AcidC, nil
	case 'T', 't':
		return AcidT, nil
	case 'G', 'g':
		return AcidG, nil
	default:
		return 0, fmt.Errorf("sequence: unrecognized acid byte %q", b)
	}
}

// FromUsize converts a raw symbol index back into an Acid, mirroring the
// original's Acid::from_usize used by the rANS decode path.
func FromUsize(v int) Acid {
	return Acid(v)
}

// Byte returns the FASTQ single-letter byte for this acid.
func (a Acid) Byte() byte {
	if int(a) >= AcidSize {
		return '?'
	}
	return acidLetters[a]
}

// QualityScore is a single FASTQ quality score, 0..93 inclusive.
type QualityScore uint8

// QualityScoreSize is the alphabet size for quality scores.
const QualityScoreSize = 94

// QualityScoreZero is the lowest-confidence quality score; the Light
// context-spec generator treats it the same way it treats an N acid.
const QualityScoreZero QualityScore = 0

// NewQualityScore constructs a QualityScore, clamping to the valid domain.
func NewQualityScore(v uint8) QualityScore {
	if int(v) >= QualityScoreSize {
		v = QualityScoreSize - 1
	}
	return QualityScore(v)
}

// Get returns the raw integer value.
func (q QualityScore) Get() uint8 {
	return uint8(q)
}

// Phred33Byte returns the Phred+33 ASCII encoding used by FASTQ files.
func (q QualityScore) Phred33Byte() byte {
	return byte(q) + 33
}

// QualityScoreFromPhred33 decodes a Phred+33 ASCII quality byte.
func QualityScoreFromPhred33(b byte) QualityScore {
	if b < 33 {
		return 0
	}
	return NewQualityScore(b - 33)
}

// String renders the quality score as its Phred+33 ASCII character.
func (q QualityScore) String() string {
	return string(q.Phred33Byte())
}

// FastqSequence is one FASTQ record: identifier, acids, and quality scores
// of equal length, plus an approximate byte size used purely for progress
// accounting.
type FastqSequence struct {
	Identifier        string
	Acids             []Acid
	QualityScores     []QualityScore
	ApproximateSizeBytes int
}

// New constructs a FastqSequence, computing ApproximateSizeBytes from the
// identifier and the two symbol arrays (roughly mirroring on-disk size: one
// byte per acid, one byte per quality score, plus the identifier and FASTQ
// framing characters).
func New(identifier string, acids []Acid, qualityScores []QualityScore) FastqSequence {
	size := len(identifier) + len(acids) + len(qualityScores) + 6
	return FastqSequence{
		Identifier:            identifier,
		Acids:                 acids,
		QualityScores:         qualityScores,
		ApproximateSizeBytes: size,
	}
}

// Len returns the number of acid/quality-score positions in the sequence.
func (s FastqSequence) Len() int {
	return len(s.Acids)
}

// WithIdentifierDiscarded returns a copy of s with an empty identifier,
// mirroring the Rust test helper of the same name.
func (s FastqSequence) WithIdentifierDiscarded() FastqSequence {
	s.Identifier = ""
	return s
}

// Equal reports whether two sequences carry identical identifier, acids and
// quality scores.
func (s FastqSequence) Equal(other FastqSequence) bool {
	if s.Identifier != other.Identifier || len(s.Acids) != len(other.Acids) || len(s.QualityScores) != len(other.QualityScores) {
		return false
	}
	for i := range s.Acids {
		if s.Acids[i] != other.Acids[i] {
			return false
		}
	}
	for i := range s.QualityScores {
		if s.QualityScores[i] != other.QualityScores[i] {
			return false
		}
	}
	return true
}
