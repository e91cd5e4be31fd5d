// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package idn

import (
	"fmt"

	"go.uber.org/zap"

	"code.hybscloud.com/idencomp/model"
)

// DefaultMaxBlockTotalLen is the default bound on a block's total acid
// count (spec.md §4.10): 4 MiB.
const DefaultMaxBlockTotalLen = 4 * 1024 * 1024

// CompressorOptions configures a Compressor, built with the same chained-
// Builder discipline as the teacher's lfq.Builder (spec.md §9, "Configuration").
type CompressorOptions struct {
	threads            int
	maxBlockTotalLen   int
	quality            model.Quality
	fast               bool
	includeIdentifiers bool
	progress           ProgressSink
	logger             *zap.Logger
}

// NewCompressorOptions returns options set to the CLI's documented defaults
// (spec.md §6.2): quality 7, identifiers included, foreground (0 threads).
func NewCompressorOptions() *CompressorOptions {
	return &CompressorOptions{
		maxBlockTotalLen:   DefaultMaxBlockTotalLen,
		quality:            model.DefaultQuality,
		includeIdentifiers: true,
		progress:           NopProgressSink,
		logger:             zap.NewNop(),
	}
}

// Threads sets the worker pool size; 0 means synchronous, foreground
// execution (spec.md §5).
func (o *CompressorOptions) Threads(n int) *CompressorOptions {
	o.threads = n
	return o
}

// BlockLength sets the maximum total acid count per block.
func (o *CompressorOptions) BlockLength(n int) *CompressorOptions {
	o.maxBlockTotalLen = n
	return o
}

// Quality sets the 1..9 compression-quality dial.
func (o *CompressorOptions) Quality(q uint8) *CompressorOptions {
	o.quality = model.NewQuality(q)
	return o
}

// Fast forces quality to 1 and selects the fast per-block encoding path
// (spec.md §4.8 step 2).
func (o *CompressorOptions) Fast() *CompressorOptions {
	o.fast = true
	o.quality = model.NewQuality(1)
	return o
}

// NoIdentifiers discards sequence identifiers on compress.
func (o *CompressorOptions) NoIdentifiers() *CompressorOptions {
	o.includeIdentifiers = false
	return o
}

// Progress installs a progress sink.
func (o *CompressorOptions) Progress(p ProgressSink) *CompressorOptions {
	o.progress = p
	return o
}

// Logger installs a structured logger (defaults to zap.NewNop()).
func (o *CompressorOptions) Logger(l *zap.Logger) *CompressorOptions {
	o.logger = l
	return o
}

func (o *CompressorOptions) validate() error {
	if o.threads < 0 {
		return fmt.Errorf("idn: negative thread count")
	}
	if o.maxBlockTotalLen <= 0 {
		return fmt.Errorf("idn: non-positive block length")
	}
	return nil
}

// DecompressorOptions configures a Decompressor.
type DecompressorOptions struct {
	threads  int
	progress ProgressSink
	logger   *zap.Logger
}

// NewDecompressorOptions returns default decompressor options (foreground,
// no progress sink, no-op logger).
func NewDecompressorOptions() *DecompressorOptions {
	return &DecompressorOptions{progress: NopProgressSink, logger: zap.NewNop()}
}

// Threads sets the worker pool size; 0 means synchronous, foreground
// execution (spec.md §5).
func (o *DecompressorOptions) Threads(n int) *DecompressorOptions {
	o.threads = n
	return o
}

// Progress installs a progress sink.
func (o *DecompressorOptions) Progress(p ProgressSink) *DecompressorOptions {
	o.progress = p
	return o
}

// Logger installs a structured logger.
func (o *DecompressorOptions) Logger(l *zap.Logger) *DecompressorOptions {
	o.logger = l
	return o
}

func (o *DecompressorOptions) validate() error {
	if o.threads < 0 {
		return fmt.Errorf("idn: negative thread count")
	}
	return nil
}
