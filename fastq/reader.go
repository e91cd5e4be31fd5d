// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fastq is the external-collaborator FASTQ reader/writer (spec.md
// §6.4): a lazy, fallible sequence of sequence.FastqSequence on read, and a
// flushable serializer on write. Neither depends on package idn; both sit
// upstream and downstream of it in cmd/idencomp.
//
// Grounded on original_source/idencomp/src/fastq/{reader,writer,consts}.rs.
package fastq

import (
	"bufio"
	"io"
	"strings"

	"code.hybscloud.com/idencomp/sequence"
)

const (
	titlePrefix           = '@'
	qualityScoreSeparator = '+'
)

var validAcidByte [256]bool
var byteToAcid [256]sequence.Acid

func init() {
	for _, b := range []byte{'A', 'T', 'C', 'G', 'N'} {
		validAcidByte[b] = true
	}
	byteToAcid['A'] = sequence.AcidA
	byteToAcid['T'] = sequence.AcidT
	byteToAcid['C'] = sequence.AcidC
	byteToAcid['G'] = sequence.AcidG
	byteToAcid['N'] = sequence.AcidN
}

// Reader parses FASTQ records from an underlying byte stream, one record at
// a time.
type Reader struct {
	r         *bufio.Reader
	bytesRead int
}

// NewReader wraps r in a buffered FASTQ parser.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 4096)}
}

// ReadSequence reads and parses the next FASTQ record. It returns io.EOF,
// and no other error, once the stream is exhausted on a record boundary.
func (rd *Reader) ReadSequence() (sequence.FastqSequence, error) {
	rd.bytesRead = 0

	title, err := rd.parseTitle()
	if err != nil {
		return sequence.FastqSequence{}, err
	}
	acids, err := rd.parseAcids()
	if err != nil {
		return sequence.FastqSequence{}, err
	}
	if err := rd.parseSeparator(); err != nil {
		return sequence.FastqSequence{}, err
	}
	qualityScores, err := rd.parseQualityScores()
	if err != nil {
		return sequence.FastqSequence{}, err
	}
	if len(acids) != len(qualityScores) {
		return sequence.FastqSequence{}, ErrLengthMismatch{AcidsLen: len(acids), QualityScoresLen: len(qualityScores)}
	}

	seq := sequence.New(title, acids, qualityScores)
	seq.ApproximateSizeBytes = rd.bytesRead
	return seq, nil
}

func (rd *Reader) parseTitle() (string, error) {
	for {
		line, err := rd.readLine()
		if err != nil {
			return "", err
		}
		trimmed := strings.TrimSpace(string(line))
		if trimmed == "" {
			continue
		}
		if trimmed[0] != titlePrefix {
			return "", ErrInvalidFormat{Reason: "missing '@' title prefix"}
		}
		return strings.TrimSpace(trimmed[1:]), nil
	}
}

func (rd *Reader) parseAcids() ([]sequence.Acid, error) {
	line, err := rd.readLine()
	if err != nil {
		return nil, err
	}
	acids := make([]sequence.Acid, 0, len(line))
	for _, b := range line {
		if !validAcidByte[b] {
			return nil, ErrInvalidAcid{Byte: b}
		}
		acids = append(acids, byteToAcid[b])
	}
	return acids, nil
}

func (rd *Reader) parseSeparator() error {
	line, err := rd.readLine()
	if err != nil {
		return err
	}
	if len(line) == 0 || line[0] != qualityScoreSeparator {
		return ErrInvalidFormat{Reason: "missing '+' separator"}
	}
	return nil
}

func (rd *Reader) parseQualityScores() ([]sequence.QualityScore, error) {
	line, err := rd.readLine()
	if err != nil {
		return nil, err
	}
	scores := make([]sequence.QualityScore, 0, len(line))
	for _, b := range line {
		if b < '!' || b > '~' {
			return nil, ErrInvalidQualityScore{Byte: b}
		}
		scores = append(scores, sequence.QualityScoreFromPhred33(b))
	}
	return scores, nil
}

// readLine reads up to and including the next '\n', stripping the trailing
// newline/carriage-return. A final line lacking a trailing delimiter is
// still returned once, with io.EOF deferred to the following call.
func (rd *Reader) readLine() ([]byte, error) {
	line, err := rd.r.ReadBytes('\n')
	rd.bytesRead += len(line)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(line) == 0 {
		return nil, io.EOF
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}
