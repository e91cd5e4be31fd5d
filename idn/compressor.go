// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package idn

import (
	"io"

	"code.hybscloud.com/idencomp/block"
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/modelchooser"
	"code.hybscloud.com/idencomp/rans"
	"code.hybscloud.com/idencomp/sequence"
)

// bestModelsSubsetNum is the "up to three" acid/quality-score models a
// Compressor carries forward after the first-block bootstrap (spec.md
// §4.6 step 1).
const bestModelsSubsetNum = 3

// Compressor is the IDN container's write-side front end: it batches
// submitted sequences into bounded blocks, performs the one-time first-
// block model-subset bootstrap, and dispatches each block to the worker
// pool for two-stream rANS encoding, with output serialized in submission
// order (spec.md §4.10). Not safe for concurrent Submit/Close calls — one
// Compressor is driven by a single front-end goroutine, matching the
// original's &mut self API.
//
// Grounded on original_source/idencomp/src/idn/compressor.rs.
type Compressor struct {
	w      io.Writer
	opts   *CompressorOptions
	models *Models
	pool   *ThreadPool
	order  *orderingLock

	pending      []sequence.FastqSequence
	pendingLen   int
	nextBlockNum uint32
	bootstrapped bool
	acidSubset   []*rans.EncModel
	qScoreSubset []*rans.EncModel

	closed bool
}

// NewCompressor constructs a Compressor writing the IDN header immediately
// to w and drawing candidate models from models.
func NewCompressor(w io.Writer, models *Models, opts *CompressorOptions) (*Compressor, error) {
	if opts == nil {
		opts = NewCompressorOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := writeHeader(w); err != nil {
		return nil, err
	}

	c := &Compressor{
		w:      w,
		opts:   opts,
		models: models,
		order:  newOrderingLock(),
	}
	if opts.threads > 0 {
		c.pool = NewThreadPool(opts.threads, opts.threads*2+2)
	}
	return c, nil
}

func (c *Compressor) poolError() error {
	if c.pool == nil {
		return nil
	}
	return c.pool.FirstError()
}

// Submit batches seq into the current block, flushing and dispatching the
// previous block first if seq would push the block over its configured
// acid-count limit (spec.md §4.10). Returns ErrSequenceTooLong if seq alone
// exceeds half the configured block length (spec.md §5, Scenario B).
func (c *Compressor) Submit(seq sequence.FastqSequence) error {
	if c.closed {
		return ErrClosed{}
	}
	if err := c.poolError(); err != nil {
		return err
	}

	limit := c.opts.maxBlockTotalLen / 2
	if seq.Len() > limit {
		return ErrSequenceTooLong{Actual: seq.Len(), Limit: limit}
	}

	if len(c.pending) > 0 && c.pendingLen+seq.Len() > c.opts.maxBlockTotalLen {
		if err := c.flush(); err != nil {
			return err
		}
	}

	c.pending = append(c.pending, seq)
	c.pendingLen += seq.Len()
	c.opts.progress.ProcessedBytes(seq.ApproximateSizeBytes)
	return nil
}

// flush dispatches the current pending block, if non-empty, running the
// first-block bootstrap first if it hasn't run yet.
func (c *Compressor) flush() error {
	if len(c.pending) == 0 {
		return nil
	}
	if err := c.ensureBootstrap(); err != nil {
		return err
	}

	seqs := c.pending
	c.pending = nil
	c.pendingLen = 0

	blockNum := c.nextBlockNum
	c.nextBlockNum++

	acidSubset, qScoreSubset := c.acidSubset, c.qScoreSubset
	fast, quality, includeIdentifiers := c.opts.fast, c.opts.quality, c.opts.includeIdentifiers
	w, order := c.w, c.order

	job := func() error {
		return encodeBlock(w, order, blockNum, seqs, acidSubset, qScoreSubset, fast, quality, includeIdentifiers)
	}

	if c.pool == nil {
		return job()
	}
	return c.pool.Execute(job)
}

// ensureBootstrap performs the first-block model-subset selection (spec.md
// §4.6 step 1) and writes the Metadata block, exactly once per Compressor.
func (c *Compressor) ensureBootstrap() error {
	if c.bootstrapped {
		return nil
	}

	var acidIDs, qScoreIDs []model.Identifier
	if c.opts.fast || len(c.pending) == 0 {
		acidIDs = []model.Identifier{c.models.acid[0].Identifier()}
		qScoreIDs = []model.Identifier{c.models.qScore[0].Identifier()}
	} else {
		useClustering := c.opts.quality.UseClustering()
		acidIDs = modelchooser.BestModelsSubset(c.models.acidChooserModels(), c.pending, bestModelsSubsetNum, useClustering, model.Acids)
		qScoreIDs = modelchooser.BestModelsSubset(c.models.qScoreChooserModels(), c.pending, bestModelsSubsetNum, useClustering, model.QualityScores)
	}

	acidEnc := make([]*rans.EncModel, len(acidIDs))
	for i, id := range acidIDs {
		e, err := c.models.encModelByIdentifier(id, model.Acids)
		if err != nil {
			return err
		}
		acidEnc[i] = e
	}
	qScoreEnc := make([]*rans.EncModel, len(qScoreIDs))
	for i, id := range qScoreIDs {
		e, err := c.models.encModelByIdentifier(id, model.QualityScores)
		if err != nil {
			return err
		}
		qScoreEnc[i] = e
	}

	combined := make([]model.Identifier, 0, len(acidIDs)+len(qScoreIDs))
	combined = append(combined, acidIDs...)
	combined = append(combined, qScoreIDs...)
	if err := writeMetadata(c.w, combined); err != nil {
		return err
	}

	c.acidSubset, c.qScoreSubset = acidEnc, qScoreEnc
	c.bootstrapped = true
	return nil
}

// Close flushes any pending block, drains the worker pool, writes the
// terminal ZeroBlock, and surfaces the first error any worker recorded
// (spec.md §4.10, §5, §7 "Worker propagation"). Close is idempotent.
func (c *Compressor) Close() error {
	if c.closed {
		return nil
	}

	flushErr := c.flush()
	if !c.bootstrapped {
		if err := c.ensureBootstrap(); err != nil && flushErr == nil {
			flushErr = err
		}
	}

	if c.pool != nil {
		c.pool.Shutdown()
	}
	if flushErr == nil {
		flushErr = c.poolError()
	}

	blockNum := c.nextBlockNum
	c.order.Acquire(blockNum)
	zeroErr := block.WriteZeroBlock(c.w, blockNum)
	c.order.Release(blockNum)

	c.closed = true
	if flushErr != nil {
		return flushErr
	}
	return zeroErr
}

// encodeBlock runs in a worker goroutine (or synchronously when no pool is
// configured): it owns seqs and the model subsets by value/reference, never
// sharing mutable state with other concurrently running blocks other than
// the read-only rANS tables and the ordering lock (spec.md §9, "Thread-pool
// lifetime borrow" — jobs own their captures rather than borrowing).
func encodeBlock(w io.Writer, order *orderingLock, blockNum uint32, seqs []sequence.FastqSequence, acidModels, qScoreModels []*rans.EncModel, fast bool, quality model.Quality, includeIdentifiers bool) error {
	writer := block.NewWriter()

	if includeIdentifiers {
		comp, data, err := block.CompressIdentifiers(seqs, quality)
		if err != nil {
			return err
		}
		if err := writer.WriteIdentifiers(comp, data); err != nil {
			return err
		}
	}

	seqComp := block.NewSequenceCompressor()

	if fast {
		if err := writer.WriteSwitchModel(0); err != nil {
			return err
		}
		if err := writer.WriteSwitchModel(uint8(len(acidModels))); err != nil {
			return err
		}
		acidModel, qScoreModel := acidModels[0], qScoreModels[0]
		for _, seq := range seqs {
			data := seqComp.Compress(seq, acidModel, qScoreModel)
			if err := writer.WriteSequence(seq, data); err != nil {
				return err
			}
		}
	} else {
		chooser := modelchooser.New()
		acidChooser := asChooserModels(acidModels)
		qScoreChooser := asChooserModels(qScoreModels)

		var currentAcid, currentQScore *model.Identifier
		for _, seq := range seqs {
			acidIdx, acidM := chooser.BestModelFor(seq, acidChooser, currentAcid, model.Acids)
			if currentAcid == nil || acidM.Identifier() != *currentAcid {
				if err := writer.WriteSwitchModel(uint8(acidIdx)); err != nil {
					return err
				}
				id := acidM.Identifier()
				currentAcid = &id
			}

			qIdx, qM := chooser.BestModelFor(seq, qScoreChooser, currentQScore, model.QualityScores)
			if currentQScore == nil || qM.Identifier() != *currentQScore {
				if err := writer.WriteSwitchModel(uint8(len(acidModels) + qIdx)); err != nil {
					return err
				}
				id := qM.Identifier()
				currentQScore = &id
			}

			data := seqComp.Compress(seq, acidModels[acidIdx], qScoreModels[qIdx])
			if err := writer.WriteSequence(seq, data); err != nil {
				return err
			}
		}
	}

	order.Acquire(blockNum)
	err := writer.Finish(w, blockNum)
	order.Release(blockNum)
	return err
}

func asChooserModels(models []*rans.EncModel) []modelchooser.EncModel {
	out := make([]modelchooser.EncModel, len(models))
	for i, m := range models {
		out[i] = m
	}
	return out
}
