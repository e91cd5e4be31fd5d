// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package idn

import (
	"fmt"
	"io"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/idencomp/block"
	"code.hybscloud.com/idencomp/internal/lfq"
	"code.hybscloud.com/idencomp/sequence"
	"code.hybscloud.com/iox"
)

// decodeOutQueueCapacity bounds how many reconstructed sequences may sit
// between the background pump and NextSequence before the pump blocks,
// rounded up to a power of two by lfq.NewSPSC.
const decodeOutQueueCapacity = 1024

// Decompressor is the IDN container's read-side front end: it reads the
// header and metadata synchronously at construction time, then pumps
// blocks from the stream in a background goroutine, dispatching each to
// the worker pool for parsing and rANS decode while preserving global
// sequence order through the same ordering-lock discipline the Compressor
// uses on write (spec.md §4.10, §5).
//
// Grounded on original_source/idencomp/src/idn/decompressor.rs. The pump-
// to-NextSequence handoff is a single-producer/single-consumer pipeline
// stage — the ordering lock already serializes every call into the
// producer side to one goroutine at a time, and NextSequence/Close are
// driven by one caller goroutine — so it is built on internal/lfq's
// SPSC queue instead of a hand-rolled mutex+condvar+slice, the same way
// internal/lfq's own doc comment models a "Pipeline Stage (SPSC)".
type Decompressor struct {
	r         io.Reader
	opts      *DecompressorOptions
	models    *Models
	modelPool *decodeModelPool
	pool      *ThreadPool
	order     *orderingLock

	startOnce sync.Once

	outQ         *lfq.SPSC[sequence.FastqSequence]
	producerDone atomix.Bool

	errOnce sync.Once
	errVal  error

	closed bool
}

// NewDecompressor reads r's header and metadata, resolves the registered
// model identifiers against models, and prepares (but does not yet start)
// the background block pump.
func NewDecompressor(r io.Reader, models *Models, opts *DecompressorOptions) (*Decompressor, error) {
	if opts == nil {
		opts = NewDecompressorOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := readHeader(r); err != nil {
		return nil, err
	}
	identifiers, err := readMetadata(r)
	if err != nil {
		return nil, err
	}
	modelPool, err := newDecodeModelPool(models, identifiers)
	if err != nil {
		return nil, err
	}

	d := &Decompressor{
		r:         r,
		opts:      opts,
		models:    models,
		modelPool: modelPool,
		order:     newOrderingLock(),
		outQ:      lfq.NewSPSC[sequence.FastqSequence](decodeOutQueueCapacity),
	}
	if opts.threads > 0 {
		d.pool = NewThreadPool(opts.threads, opts.threads*2+2)
	}
	return d, nil
}

func (d *Decompressor) start() {
	d.startOnce.Do(func() { go d.pump() })
}

// pump is the sole reader of d.r: it reads block frames sequentially (I/O
// cannot itself be parallelized) and dispatches each block's parse/decode
// work to the worker pool, which feeds decoded sequences into the ordered
// output queue under the ordering lock (spec.md §5, "Ordered parallel
// output"). pump is the SPSC queue's single producer; the ordering lock
// ensures only one worker goroutine is ever inside the Enqueue section at
// a time, in block order, satisfying SPSC's single-producer contract even
// though multiple workers may run DecompressBlock concurrently.
func (d *Decompressor) pump() {
	var expectedBlockNum uint32
	for {
		if d.pool != nil {
			if err := d.pool.FirstError(); err != nil {
				d.recordErr(err)
				break
			}
		}

		header, err := block.ReadHeader(d.r)
		if err != nil {
			d.recordErr(err)
			break
		}
		if header.Length == 0 {
			break
		}
		// Open Question resolution (spec.md §9): the reader enforces
		// strictly increasing block_num, catching reordered/tampered
		// streams (Testable Property 3).
		if header.BlockNum != expectedBlockNum {
			d.recordErr(ErrFormat{Reason: fmt.Sprintf("out-of-order block_num %d, expected %d", header.BlockNum, expectedBlockNum)})
			break
		}
		expectedBlockNum++

		payload := make([]byte, header.Length)
		if _, err := io.ReadFull(d.r, payload); err != nil {
			d.recordErr(err)
			break
		}

		blockNum, checksum := header.BlockNum, header.SeqChecksum
		job := func() error {
			seqs, decodeErr := block.DecompressBlock(payload, checksum, d.modelPool)
			d.order.Acquire(blockNum)
			if decodeErr == nil {
				decodeErr = d.pushSequences(seqs)
			}
			d.order.Release(blockNum)
			return decodeErr
		}

		if d.pool == nil {
			if err := job(); err != nil {
				d.recordErr(err)
				break
			}
			continue
		}
		if err := d.pool.Execute(job); err != nil {
			d.recordErr(err)
			break
		}
	}

	if d.pool != nil {
		d.pool.Shutdown()
		if err := d.pool.FirstError(); err != nil {
			d.recordErr(err)
		}
	}

	d.producerDone.StoreRelease(true)
}

// pushSequences enqueues seqs one at a time, backing off on ErrWouldBlock
// until NextSequence drains space (bounded memory, spec.md §5
// backpressure). Must only be called from within the block's ordering-lock
// section, which is what makes this a single logical producer.
func (d *Decompressor) pushSequences(seqs []sequence.FastqSequence) error {
	backoff := iox.Backoff{}
	for i := range seqs {
		for {
			err := d.outQ.Enqueue(&seqs[i])
			if err == nil {
				backoff.Reset()
				break
			}
			if !iox.IsWouldBlock(err) {
				return err
			}
			backoff.Wait()
		}
	}
	return nil
}

func (d *Decompressor) recordErr(err error) {
	if !isFatal(err) {
		return
	}
	d.errOnce.Do(func() {
		d.errVal = err
	})
}

// NextSequence blocks until a reconstructed sequence is available, the
// stream is exhausted (ok=false, err=nil), or a fatal error is recorded.
// Sequences from blocks preceding a failing block are still delivered in
// order before the error surfaces (spec.md §7, "Worker propagation").
func (d *Decompressor) NextSequence() (sequence.FastqSequence, bool, error) {
	if d.closed {
		return sequence.FastqSequence{}, false, ErrClosed{}
	}
	d.start()

	backoff := iox.Backoff{}
	for {
		seq, err := d.outQ.Dequeue()
		if err == nil {
			return seq, true, nil
		}

		if d.producerDone.LoadAcquire() {
			// The pump may have enqueued one last item between our failed
			// Dequeue above and observing producerDone; try once more.
			if seq, err := d.outQ.Dequeue(); err == nil {
				return seq, true, nil
			}
			return sequence.FastqSequence{}, false, d.errVal
		}

		backoff.Wait()
	}
}

// Close waits for the background pump to finish and surfaces its first
// recorded error, if any. Close is idempotent.
func (d *Decompressor) Close() error {
	if d.closed {
		return nil
	}
	d.start()

	backoff := iox.Backoff{}
	for !d.producerDone.LoadAcquire() {
		backoff.Wait()
	}
	err := d.errVal

	d.closed = true
	return err
}
