// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package block

import (
	"bytes"
	"io"

	"github.com/klauspost/crc32"

	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/rans"
	"code.hybscloud.com/idencomp/sequence"
)

// ModelPool resolves SwitchModel slice indices to decoder-side rANS model
// tables, abstracting over whatever registry the caller (package idn)
// maintains. Grounded on original_source/idencomp/src/idn/model_provider.rs
// (decompressor_models()/as_acid()/as_quality_score()).
type ModelPool interface {
	Len() int
	TypeAt(index int) model.Type
	AcidDecModelAt(index int) *rans.DecModel
	QScoreDecModelAt(index int) *rans.DecModel
}

// DecompressBlock parses a full block payload (everything after the block
// header) into its constituent sequences, verifying the running CRC-32
// against expectedChecksum once the payload is exhausted (spec.md §4.8
// step 3 mirrored on read; original_source idn/decompressor_block.rs).
func DecompressBlock(payload []byte, expectedChecksum uint32, pool ModelPool) ([]sequence.FastqSequence, error) {
	r := bytes.NewReader(payload)
	hasher := crc32.NewIEEE()

	var identifiers []string
	identifierPos := 0
	currentAcidIdx, currentQScoreIdx := -1, -1

	decoder := NewSequenceDecompressor()
	var sequences []sequence.FastqSequence

	for r.Len() > 0 {
		header, err := ReadSliceHeader(r)
		if err != nil {
			return nil, err
		}

		switch header.Tag {
		case SliceIdentifiers:
			data := make([]byte, header.IdentifiersLength)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, err
			}
			ids, err := DecompressIdentifiers(header.IdentifiersCompression, data)
			if err != nil {
				return nil, err
			}
			identifiers = ids
			identifierPos = 0

		case SliceSwitchModel:
			idx := int(header.ModelIndex)
			if idx >= pool.Len() {
				return nil, ErrInvalidModelIndex{Index: idx, NumModels: pool.Len()}
			}
			switch pool.TypeAt(idx) {
			case model.Acids:
				currentAcidIdx = idx
			case model.QualityScores:
				currentQScoreIdx = idx
			}

		case SliceSequence:
			if currentAcidIdx < 0 {
				return nil, ErrNoActiveModel{ModelType: model.Acids}
			}
			if currentQScoreIdx < 0 {
				return nil, ErrNoActiveModel{ModelType: model.QualityScores}
			}

			data := make([]byte, header.SequenceLength)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, err
			}

			seq := decoder.Decompress(data, int(header.SeqLen), pool.AcidDecModelAt(currentAcidIdx), pool.QScoreDecModelAt(currentQScoreIdx))
			if identifierPos < len(identifiers) {
				seq.Identifier = identifiers[identifierPos]
				identifierPos++
			}

			hasher.Write(canonicalBytes(seq))
			sequences = append(sequences, seq)
		}
	}

	if computed := hasher.Sum32(); computed != expectedChecksum {
		return nil, ErrChecksumMismatch{Computed: computed, Expected: expectedChecksum}
	}

	return sequences, nil
}

// Header is one block's (length, seq_checksum, block_num) framing
// (spec.md §6.1). A zero length indicates the terminal ZeroBlock.
type Header struct {
	Length      uint32
	SeqChecksum uint32
	BlockNum    uint32
}

// ReadHeader reads a Header from r.
func ReadHeader(r io.Reader) (Header, error) {
	length, err := readU32(r)
	if err != nil {
		return Header{}, err
	}
	checksum, err := readU32(r)
	if err != nil {
		return Header{}, err
	}
	blockNum, err := readU32(r)
	if err != nil {
		return Header{}, err
	}
	return Header{Length: length, SeqChecksum: checksum, BlockNum: blockNum}, nil
}

// WriteZeroBlock writes the terminal zero-length block (spec.md §6.1
// ZeroBlock), using blockNum as its index.
func WriteZeroBlock(w io.Writer, blockNum uint32) error {
	if err := writeU32(w, 0); err != nil {
		return err
	}
	if err := writeU32(w, 0); err != nil {
		return err
	}
	return writeU32(w, blockNum)
}
