// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package block implements the IDN container's block-level wire format and
// the per-block compressor/decompressor pipelines that produce and consume
// it (spec.md §6.1): slice framing (Identifiers/SwitchModel/Sequence), the
// per-block CRC-32 checksum, and the sequence rANS codec.
//
// Grounded on original_source/idencomp/src/idn/data.rs,
// sequence_compressor.rs, idn/compressor_block.rs and
// idn/decompressor_block.rs. The Rust source derives its wire structs with
// the `binrw` macro; no library in the retrieved example pack offers an
// equivalent declarative binary-struct derive for Go, so this package reads
// and writes the fixed big-endian layouts directly with encoding/binary.
package block

import (
	"encoding/binary"
	"fmt"
	"io"
)

// SliceTag identifies which kind of slice follows in a block payload
// (spec.md §6.1).
type SliceTag uint8

const (
	SliceIdentifiers SliceTag = 0
	SliceSwitchModel SliceTag = 1
	SliceSequence    SliceTag = 2
)

// IdentifierCompression names the algorithm used to compress the
// Identifiers slice payload (spec.md §6.1).
type IdentifierCompression uint8

const (
	CompressionBrotli  IdentifierCompression = 0
	CompressionDeflate IdentifierCompression = 1
)

// BrotliThreshold is the minimum quality at which identifiers are Brotli-
// compressed rather than Deflate-compressed (spec.md §4.8 step 1).
const BrotliThreshold = 8

// ErrFormat reports a structurally invalid slice or block (spec.md §7,
// "Format/decode").
type ErrFormat struct {
	Reason string
}

func (e ErrFormat) Error() string { return fmt.Sprintf("block: format error: %s", e.Reason) }

func writeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// WriteIdentifiersSlice writes an Identifiers slice header plus its already-
// compressed payload.
func WriteIdentifiersSlice(w io.Writer, compression IdentifierCompression, data []byte) error {
	if err := writeU8(w, uint8(SliceIdentifiers)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(data))); err != nil {
		return err
	}
	if err := writeU8(w, uint8(compression)); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// WriteSwitchModelSlice writes a SwitchModel slice.
func WriteSwitchModelSlice(w io.Writer, modelIndex uint8) error {
	if err := writeU8(w, uint8(SliceSwitchModel)); err != nil {
		return err
	}
	return writeU8(w, modelIndex)
}

// WriteSequenceSlice writes a Sequence slice header plus its already-
// encoded rANS payload.
func WriteSequenceSlice(w io.Writer, seqLen uint32, data []byte) error {
	if err := writeU8(w, uint8(SliceSequence)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(data))); err != nil {
		return err
	}
	if err := writeU32(w, seqLen); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// SliceHeader is the decoded form of whichever slice tag was read.
type SliceHeader struct {
	Tag SliceTag

	// Identifiers
	IdentifiersLength      uint32
	IdentifiersCompression IdentifierCompression

	// SwitchModel
	ModelIndex uint8

	// Sequence
	SequenceLength uint32
	SeqLen         uint32
}

// ReadSliceHeader reads one slice header's tag and fixed fields (not the
// variable-length payload, which the caller reads separately based on the
// reported length).
func ReadSliceHeader(r io.Reader) (SliceHeader, error) {
	tag, err := readU8(r)
	if err != nil {
		return SliceHeader{}, err
	}

	switch SliceTag(tag) {
	case SliceIdentifiers:
		length, err := readU32(r)
		if err != nil {
			return SliceHeader{}, err
		}
		compression, err := readU8(r)
		if err != nil {
			return SliceHeader{}, err
		}
		if compression != uint8(CompressionBrotli) && compression != uint8(CompressionDeflate) {
			return SliceHeader{}, ErrFormat{Reason: fmt.Sprintf("unknown identifier compression tag %d", compression)}
		}
		return SliceHeader{Tag: SliceIdentifiers, IdentifiersLength: length, IdentifiersCompression: IdentifierCompression(compression)}, nil

	case SliceSwitchModel:
		modelIndex, err := readU8(r)
		if err != nil {
			return SliceHeader{}, err
		}
		return SliceHeader{Tag: SliceSwitchModel, ModelIndex: modelIndex}, nil

	case SliceSequence:
		length, err := readU32(r)
		if err != nil {
			return SliceHeader{}, err
		}
		seqLen, err := readU32(r)
		if err != nil {
			return SliceHeader{}, err
		}
		return SliceHeader{Tag: SliceSequence, SequenceLength: length, SeqLen: seqLen}, nil

	default:
		return SliceHeader{}, ErrFormat{Reason: fmt.Sprintf("unknown slice tag %d", tag)}
	}
}
