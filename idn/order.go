// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package idn

import "sync"

// orderingLock serializes access to the shared output stream so that blocks
// are emitted in submission order regardless of which worker finishes first
// (spec.md §5: "a monotonic counter current_block protected by a condition
// variable"). Grounded on original_source/idencomp/src/idn/writer_idn.rs's
// ordering primitive; Go's sync.Cond is the direct idiomatic equivalent of a
// condvar-guarded counter.
type orderingLock struct {
	mu      sync.Mutex
	cond    *sync.Cond
	current uint32
}

func newOrderingLock() *orderingLock {
	l := &orderingLock{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Acquire blocks until blockNum is the next block due to be written, then
// returns holding the lock; the caller must call Release(blockNum) after
// writing to advance the counter and wake other waiters.
func (l *orderingLock) Acquire(blockNum uint32) {
	l.mu.Lock()
	for l.current != blockNum {
		l.cond.Wait()
	}
}

// Release advances the counter past blockNum and wakes all waiters. Must be
// called while still holding the lock from a matching Acquire.
func (l *orderingLock) Release(blockNum uint32) {
	l.current = blockNum + 1
	l.mu.Unlock()
	l.cond.Broadcast()
}
