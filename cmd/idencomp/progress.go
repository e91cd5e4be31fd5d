// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"code.hybscloud.com/idencomp/idn"
)

// idnProgressSink adapts a progressReporter to idn.ProgressSink (spec.md
// §6.4's "processed_bytes/set_iter_num/inc_iter" progress-sink contract).
type idnProgressSink struct {
	r progressReporter
}

func newIdnProgressSink(r progressReporter) idn.ProgressSink { return idnProgressSink{r: r} }

func (s idnProgressSink) ProcessedBytes(n int) { s.r.Add(n) }
func (s idnProgressSink) SetIterNum(uint64)    {}
func (s idnProgressSink) IncIter()             {}

// binningProgressSink adapts a progressReporter to package binning's
// narrower ProgressSink (iteration count only, no byte accounting).
type binningProgressSink struct {
	r progressReporter
}

func (s binningProgressSink) SetIterNum(uint64) {}
func (s binningProgressSink) IncIter()          { s.r.Add(1) }
