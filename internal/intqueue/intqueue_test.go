// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package intqueue

import "testing"

func TestNewFillsAllSlots(t *testing.T) {
	q := New(5, 3, 2)
	if got := q.Back(); got != 2 {
		t.Fatalf("Back() = %d, want 2", got)
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	q := New(5, 3, 0)
	q = q.WithPushedBack(1)
	q = q.WithPushedBack(2)
	q = q.WithPushedBack(3)
	if got := q.Back(); got != 3 {
		t.Fatalf("Back() = %d, want 3", got)
	}
	q = q.WithPoppedBack()
	if got := q.Back(); got != 2 {
		t.Fatalf("after pop Back() = %d, want 2", got)
	}
}

func TestNumBitsAndMask(t *testing.T) {
	// domain=5, length=3 -> max value 124 -> needs 7 bits (0..127)
	if got := NumBits(5, 3); got != 7 {
		t.Fatalf("NumBits(5,3) = %d, want 7", got)
	}
	if got := Mask(5, 3); got != 127 {
		t.Fatalf("Mask(5,3) = %d, want 127", got)
	}
	if got := NumBits(2, 0); got != 0 {
		t.Fatalf("NumBits(2,0) = %d, want 0", got)
	}
}

func TestZeroLengthIsNoOp(t *testing.T) {
	q := New(5, 0, 9)
	if got := q.Get(); got != 0 {
		t.Fatalf("Get() = %d, want 0", got)
	}
	q = q.WithPushedBack(3)
	if got := q.Get(); got != 0 {
		t.Fatalf("after push Get() = %d, want 0", got)
	}
	if got := q.Back(); got != 0 {
		t.Fatalf("Back() = %d, want 0", got)
	}
}
