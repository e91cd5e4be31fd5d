// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package idn owns the IDN container's file-level framing — magic header,
// metadata item list, and the block/zero-block stream — and wires the
// statistical model pipeline, the rANS block codec (package block), and a
// bounded worker pool (package internal/lfq) into Compressor/Decompressor
// front ends that read and write a stream of sequence.FastqSequence values
// (spec.md §4.10, §6.1).
//
// Grounded on original_source/idencomp/src/idn/{writer_idn,no_seek,common,
// compressor,decompressor,model_provider}.rs.
package idn

import (
	"fmt"
	"io"

	"code.hybscloud.com/idencomp/model"
)

// Magic is the IDN container's 8-byte magic prefix (spec.md §6.1).
var Magic = [8]byte{'I', 'D', 'E', 'N', 'C', 'O', 'M', 'P'}

// FormatVersion is the only supported container version.
const FormatVersion uint8 = 1

// metadataItemModels is the single defined Metadata item tag (spec.md §6.1);
// other tag values are reserved for future use.
const metadataItemModels uint8 = 0x00

func writeHeader(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	_, err := w.Write([]byte{FormatVersion})
	return err
}

func readHeader(r io.Reader) error {
	var buf [9]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	if [8]byte(buf[:8]) != Magic {
		return ErrFormat{Reason: "bad magic"}
	}
	if buf[8] != FormatVersion {
		return ErrFormat{Reason: fmt.Sprintf("unsupported version %d", buf[8])}
	}
	return nil
}

// writeMetadata writes the single-item Metadata block carrying the model
// identifiers this file's SwitchModel slices index into, in combined
// acid-then-quality-score order (spec.md §6.1 Models).
func writeMetadata(w io.Writer, identifiers []model.Identifier) error {
	if len(identifiers) > 255 {
		return ErrModelState{Reason: fmt.Sprintf("too many models for metadata (%d > 255)", len(identifiers))}
	}
	if _, err := w.Write([]byte{1, metadataItemModels, byte(len(identifiers))}); err != nil {
		return err
	}
	for _, id := range identifiers {
		b := id.Bytes()
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// readMetadata reads the Metadata block and returns the registered model
// identifiers in the order the file's SwitchModel indices reference.
func readMetadata(r io.Reader) ([]model.Identifier, error) {
	var itemCount [1]byte
	if _, err := io.ReadFull(r, itemCount[:]); err != nil {
		return nil, err
	}

	var identifiers []model.Identifier
	for i := 0; i < int(itemCount[0]); i++ {
		var tag [1]byte
		if _, err := io.ReadFull(r, tag[:]); err != nil {
			return nil, err
		}
		switch tag[0] {
		case metadataItemModels:
			var numModels [1]byte
			if _, err := io.ReadFull(r, numModels[:]); err != nil {
				return nil, err
			}
			identifiers = make([]model.Identifier, numModels[0])
			for j := range identifiers {
				var raw [32]byte
				if _, err := io.ReadFull(r, raw[:]); err != nil {
					return nil, err
				}
				identifiers[j] = raw
			}
		default:
			return nil, ErrFormat{Reason: fmt.Sprintf("unknown metadata item tag %d", tag[0])}
		}
	}
	return identifiers, nil
}

// blockHeaderSize is the wire size of a Block/ZeroBlock header (length,
// seq_checksum, block_num), each a u32.
const blockHeaderSize = 3 * 4
