// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package block

import (
	"bytes"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/crc32"

	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/rans"
	"code.hybscloud.com/idencomp/sequence"
)

// ErrChecksumMismatch reports a CRC-32 mismatch between a block's recorded
// and computed sequence checksum (spec.md §7, "Checksum mismatch").
type ErrChecksumMismatch struct {
	Computed, Expected uint32
}

func (e ErrChecksumMismatch) Error() string {
	return fmt.Sprintf("block: checksum mismatch: computed %08x, expected %08x", e.Computed, e.Expected)
}

// ErrNoActiveModel reports a Sequence slice with no preceding SwitchModel
// slice for its model type (spec.md §7, "Model-state").
type ErrNoActiveModel struct {
	ModelType model.Type
}

func (e ErrNoActiveModel) Error() string {
	return fmt.Sprintf("block: no active %s model", e.ModelType)
}

// ErrInvalidModelIndex reports a SwitchModel slice referencing an index
// outside the registered model pool (spec.md §7, "Model-state").
type ErrInvalidModelIndex struct {
	Index, NumModels int
}

func (e ErrInvalidModelIndex) Error() string {
	return fmt.Sprintf("block: invalid model index %d (have %d models)", e.Index, e.NumModels)
}

// canonicalBytes renders seq as "identifier UTF-8 ‖ acid-byte-vector ‖
// q-score-byte-vector" for CRC-32 accumulation (spec.md §4.8 step 3).
func canonicalBytes(seq sequence.FastqSequence) []byte {
	buf := make([]byte, 0, len(seq.Identifier)+2*len(seq.Acids))
	buf = append(buf, seq.Identifier...)
	for _, a := range seq.Acids {
		buf = append(buf, byte(a))
	}
	for _, q := range seq.QualityScores {
		buf = append(buf, q.Get())
	}
	return buf
}

// Writer assembles one block's slices and final framed bytes. Grounded on
// original_source/idencomp/src/idn/writer_block.rs BlockWriter.
type Writer struct {
	payload   bytes.Buffer
	hasher    hash.Hash32
	slicesNum uint32
}

// NewWriter allocates an empty block writer.
func NewWriter() *Writer {
	return &Writer{hasher: crc32.NewIEEE()}
}

// WriteIdentifiers appends an Identifiers slice.
func (w *Writer) WriteIdentifiers(compression IdentifierCompression, data []byte) error {
	w.slicesNum++
	return WriteIdentifiersSlice(&w.payload, compression, data)
}

// WriteSwitchModel appends a SwitchModel slice.
func (w *Writer) WriteSwitchModel(modelIndex uint8) error {
	w.slicesNum++
	return WriteSwitchModelSlice(&w.payload, modelIndex)
}

// WriteSequence appends a Sequence slice and folds seq's canonical bytes
// into the running block checksum.
func (w *Writer) WriteSequence(seq sequence.FastqSequence, data []byte) error {
	w.slicesNum++
	w.hasher.Write(canonicalBytes(seq))
	return WriteSequenceSlice(&w.payload, uint32(seq.Len()), data)
}

// Finish writes the full framed block — (length, seq_checksum, block_num)
// followed by the accumulated payload — to w, using blockNum as the
// strictly-increasing block index (spec.md §6.1, Testable Property 3).
func (w *Writer) Finish(out io.Writer, blockNum uint32) error {
	data := w.payload.Bytes()
	checksum := w.hasher.Sum32()

	if err := writeU32(out, uint32(len(data))); err != nil {
		return err
	}
	if err := writeU32(out, checksum); err != nil {
		return err
	}
	if err := writeU32(out, blockNum); err != nil {
		return err
	}
	_, err := out.Write(data)
	return err
}

// CompressIdentifiers joins sequences' identifiers with "\n" and compresses
// them with Brotli (quality 11, window 20) when quality is at least
// BrotliThreshold, else Deflate at the default level (spec.md §4.8 step 1).
func CompressIdentifiers(sequences []sequence.FastqSequence, quality model.Quality) (IdentifierCompression, []byte, error) {
	lines := make([]string, len(sequences))
	for i, s := range sequences {
		lines[i] = s.Identifier
	}
	joined := strings.Join(lines, "\n")

	if quality.Get() >= BrotliThreshold {
		var buf bytes.Buffer
		w := brotli.NewWriterOptions(&buf, brotli.WriterOptions{Quality: 11, LGWin: 20})
		if _, err := w.Write([]byte(joined)); err != nil {
			return 0, nil, err
		}
		if err := w.Close(); err != nil {
			return 0, nil, err
		}
		return CompressionBrotli, buf.Bytes(), nil
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return 0, nil, err
	}
	if _, err := w.Write([]byte(joined)); err != nil {
		return 0, nil, err
	}
	if err := w.Close(); err != nil {
		return 0, nil, err
	}
	return CompressionDeflate, buf.Bytes(), nil
}

// DecompressIdentifiers reverses CompressIdentifiers, returning identifiers
// in file (forward) order.
func DecompressIdentifiers(compression IdentifierCompression, data []byte) ([]string, error) {
	var out []byte
	switch compression {
	case CompressionBrotli:
		r := brotli.NewReader(bytes.NewReader(data))
		var err error
		out, err = io.ReadAll(r)
		if err != nil {
			return nil, err
		}
	case CompressionDeflate:
		r := flate.NewReader(bytes.NewReader(data))
		defer r.Close()
		var err error
		out, err = io.ReadAll(r)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrFormat{Reason: fmt.Sprintf("unknown identifier compression tag %d", compression)}
	}

	if len(out) == 0 {
		return nil, nil
	}
	return strings.Split(string(out), "\n"), nil
}
