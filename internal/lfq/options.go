// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "unsafe"

// Options configures queue creation and algorithm selection.
type Options struct {
	// Producer/Consumer constraints (determines queue type)
	singleProducer bool
	singleConsumer bool

	// Performance hints
	compact bool // Effort to save slots

	// Capacity (rounds up to next power of 2)
	capacity int
}

// Builder creates queues with fluent configuration.
//
// Builder provides a fluent API for configuring and creating queues.
// The builder automatically selects the algorithm based on
// producer/consumer constraints and performance hints.
//
// Example:
//
//	// SPSC queue (optimal for single producer/consumer)
//	q := lfq.BuildSPSC[Event](lfq.New(1024).SingleProducer().SingleConsumer())
//
//	// MPMC queue (default, general purpose)
//	q := lfq.BuildMPMC[Request](lfq.New(4096))
//
//	// SPSC queue of uintptr values
//	q := lfq.New(8192).SingleProducer().SingleConsumer().BuildIndirectSPSC()
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
//
// Capacity rounds up to the next power of 2.
// For example, capacity=4 results in actual capacity=4, capacity=1000 results
// in actual capacity=1024.
//
// Panics if capacity < 2.
//
// Example:
//
//	// Create builder, then configure and build
//	b := lfq.New(1024)
//	q := lfq.BuildSPSC[int](b.SingleProducer().SingleConsumer())
//
//	// Or chain directly
//	q := lfq.BuildMPMC[int](lfq.New(1024))
func New(capacity int) *Builder {
	if capacity < 2 {
		panic("lfq: capacity must be >= 2")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// SingleProducer declares that only one goroutine will enqueue.
// Combined with SingleConsumer, selects the SPSC algorithm.
func (b *Builder) SingleProducer() *Builder {
	b.opts.singleProducer = true
	return b
}

// SingleConsumer declares that only one goroutine will dequeue.
// Combined with SingleProducer, selects the SPSC algorithm.
func (b *Builder) SingleConsumer() *Builder {
	b.opts.singleConsumer = true
	return b
}

// Compact records a hint for CAS-based algorithms with n physical slots.
// This build has no CAS-based variants, so every builder ignores it: MPMC
// keeps its FAA algorithm with 2n slots, and SPSC uses n slots (Lamport
// ring buffer) regardless.
func (b *Builder) Compact() *Builder {
	b.opts.compact = true
	return b
}

// Build creates a Queue[T] with automatic algorithm selection.
//
// Algorithm selection:
//
//	SingleProducer + SingleConsumer → SPSC (Lamport ring buffer)
//	Otherwise                       → MPMC (FAA, 2n physical slots)
//
// Compact() has no effect on the selection.
//
// This build only selects between SPSC and MPMC; see BuildSPSC/BuildMPMC
// for type-safe concrete returns. The MPSC/SPMC variants were dropped from
// this build (see DESIGN.md) since nothing in this module's worker pool or
// pipeline stages needs them once Decompressor's output handoff moved to
// SPSC and ThreadPool's job queue stayed MPMC.
func Build[T any](b *Builder) Queue[T] {
	switch {
	case b.opts.singleProducer && b.opts.singleConsumer:
		return NewSPSC[T](b.opts.capacity)
	default:
		return NewMPMC[T](b.opts.capacity)
	}
}

// BuildSPSC creates an SPSC queue with compile-time type safety.
// Panics if builder is not configured with SingleProducer().SingleConsumer().
func BuildSPSC[T any](b *Builder) *SPSC[T] {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("lfq: BuildSPSC requires SingleProducer().SingleConsumer()")
	}
	return NewSPSC[T](b.opts.capacity)
}

// BuildMPMC creates an MPMC queue with compile-time type safety.
// Panics if builder has any constraints set.
func BuildMPMC[T any](b *Builder) Queue[T] {
	if b.opts.singleProducer || b.opts.singleConsumer {
		panic("lfq: BuildMPMC requires no constraints")
	}
	return NewMPMC[T](b.opts.capacity)
}

// BuildIndirect creates a QueueIndirect for uintptr values.
//
// Only the SPSC path (SingleProducer + SingleConsumer, Lamport ring buffer)
// is implemented; any other configuration panics. This package no longer
// carries the CAS-based Compact()/Indirect variants (see DESIGN.md).
func (b *Builder) BuildIndirect() QueueIndirect {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("lfq: BuildIndirect only supports SingleProducer().SingleConsumer() in this build")
	}
	return NewSPSCIndirect(b.opts.capacity)
}

// BuildIndirectSPSC creates an SPSC queue for uintptr values.
func (b *Builder) BuildIndirectSPSC() *SPSCIndirect {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("lfq: BuildIndirectSPSC requires SingleProducer().SingleConsumer()")
	}
	return NewSPSCIndirect(b.opts.capacity)
}

// BuildPtr creates a QueuePtr for unsafe.Pointer values.
//
// Only the SPSC path is implemented; this package no longer carries the
// CAS-based Compact()/Ptr variants for MPSC/SPMC/MPMC (see DESIGN.md).
func (b *Builder) BuildPtr() QueuePtr {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("lfq: BuildPtr only supports SingleProducer().SingleConsumer() in this build")
	}
	return NewSPSCPtr(b.opts.capacity)
}

// BuildPtrSPSC creates an SPSC queue for unsafe.Pointer values.
// Panics if builder is not configured with SingleProducer().SingleConsumer().
func (b *Builder) BuildPtrSPSC() *SPSCPtr {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("lfq: BuildPtrSPSC requires SingleProducer().SingleConsumer()")
	}
	return NewSPSCPtr(b.opts.capacity)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte

// padPtr is padding to fill cache line after pointer-sized field.
type padPtr [64 - ptrSize]byte
