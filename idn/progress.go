// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package idn

// ProgressSink receives progress notifications from a Compressor/
// Decompressor run (spec.md §6.4). The zero value of nopProgressSink
// satisfies this with no-ops, so callers that don't care about progress
// needn't implement anything (spec.md §9, "global singletons" — progress is
// an injected collaborator, never reached for globally).
type ProgressSink interface {
	ProcessedBytes(n int)
	SetIterNum(total uint64)
	IncIter()
}

type nopProgressSink struct{}

func (nopProgressSink) ProcessedBytes(int) {}
func (nopProgressSink) SetIterNum(uint64)  {}
func (nopProgressSink) IncIter()           {}

// NopProgressSink is the default no-op ProgressSink.
var NopProgressSink ProgressSink = nopProgressSink{}
