// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
)

// openInput resolves "-" to stdin and any other path to a regular file
// (spec.md §6.2: "`-` denotes stdin/stdout").
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// createOutput resolves "-" (or an empty path) to stdout and any other path
// to a newly created file.
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// inputSize returns path's size in bytes for progress-bar sizing, or 0 if
// it cannot be determined (e.g. path is stdin).
func inputSize(path string) int64 {
	if path == "" || path == "-" {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
