// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package idn

import (
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrFormat reports a structurally invalid container: bad magic, unknown
// version, or a block whose framing cannot be parsed (spec.md §7,
// "Format/decode").
type ErrFormat struct {
	Reason string
}

func (e ErrFormat) Error() string { return fmt.Sprintf("idn: format error: %s", e.Reason) }

// ErrModelState reports an unknown model identifier or too many models for
// the metadata (spec.md §7, "Model-state"). A missing active model, an
// invalid model index and a model exceeding the size cap are reported as
// block.ErrNoActiveModel, block.ErrInvalidModelIndex and
// rans.ErrModelTooLarge.
type ErrModelState struct {
	Reason string
}

func (e ErrModelState) Error() string { return fmt.Sprintf("idn: model state error: %s", e.Reason) }

// ErrSequenceTooLong reports a sequence exceeding half the configured
// per-block acid-count limit (spec.md §5, Scenario B).
type ErrSequenceTooLong struct {
	Actual, Limit int
}

func (e ErrSequenceTooLong) Error() string {
	return fmt.Sprintf("sequence too long (actual %d, limit %d)", e.Actual, e.Limit)
}

// ErrClosed is returned by Submit/NextSequence once the compressor or
// decompressor has been closed.
type ErrClosed struct{}

func (ErrClosed) Error() string { return "idn: already closed" }

// isFatal reports whether err is a genuine failure rather than a semantic
// control-flow signal (internal/lfq's ErrWouldBlock and its iox.ErrWouldBlock
// root), the same distinction internal/lfq itself draws between "try again"
// and "stop" via iox.IsSemantic. Used to guard Decompressor's stream-level
// error slot against ever latching a queue backpressure signal as a fatal
// stream error.
func isFatal(err error) bool {
	return err != nil && !iox.IsSemantic(err)
}
