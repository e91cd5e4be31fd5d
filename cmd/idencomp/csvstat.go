// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"os"
	"sync"
)

// csvStatOutput writes one CSV row per generated/binned model to stdout
// when --csv was passed, grounded on original_source/idencomp-cli/src/
// csv_stat.rs's CsvStatOutput (header written once, rows appended as they
// complete from concurrent workers).
type csvStatOutput struct {
	enabled bool

	mu     sync.Mutex
	w      *csv.Writer
	header bool
}

func newCsvStatOutput(enabled bool) *csvStatOutput {
	if !enabled {
		return &csvStatOutput{enabled: false}
	}
	return &csvStatOutput{enabled: true, w: csv.NewWriter(os.Stdout)}
}

func (c *csvStatOutput) writeRow(header, row []string) error {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.header {
		if err := c.w.Write(header); err != nil {
			return err
		}
		c.header = true
	}
	if err := c.w.Write(row); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}
