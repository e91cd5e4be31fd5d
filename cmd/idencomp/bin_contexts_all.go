// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"code.hybscloud.com/idencomp/binning"
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/modelstore"
)

func newBinContextsAllCmd() *cobra.Command {
	var maxNum int
	var preBin int
	var csvOut bool

	cmd := &cobra.Command{
		Use:   "bin-contexts-all <input> <output-dir> <name>",
		Short: "Generate all possible binned variants for a model",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, dir, name := args[0], args[1], args[2]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			in, err := openInput(input)
			if err != nil {
				return err
			}
			m, err := modelstore.ReadModel(bufio.NewReader(in))
			in.Close()
			if err != nil {
				return fmt.Errorf("could not read the model: %w", err)
			}
			globalLogger.Sugar().Infow("binning model", "model_type", m.ModelType(), "spec_type", m.ContextSpecType().Name(), "rate", m.Rate(), "context_num", m.Len())

			modelSize := m.Len()
			if preBin > 0 && preBin < modelSize {
				modelSize = preBin
			}

			opts := binning.DefaultOptions()
			if preBin > 0 {
				opts.PreBinningNum = preBin
			}
			tree := binning.BinContextsWithModel(m, opts)

			steps := steps(1, modelSize, effectiveMax(maxNum, modelSize))

			stat := newCsvStatOutput(csvOut)
			bar := newProgressBar(int64(len(steps)), "bin-contexts-all")
			defer bar.Finish()

			sem := make(chan struct{}, runtime.NumCPU())
			var wg sync.WaitGroup
			errs := make([]error, len(steps))

			for i, numContexts := range steps {
				wg.Add(1)
				sem <- struct{}{}
				go func(i, numContexts int) {
					defer wg.Done()
					defer func() { <-sem }()

					binned := model.WithModelAndSpecType(m.ModelType(), m.ContextSpecType(), tree.Traverse(numContexts))
					path := filepath.Join(dir, fmt.Sprintf("%s_%d.model", name, numContexts))
					f, err := os.Create(path)
					if err != nil {
						errs[i] = err
						return
					}
					defer f.Close()
					if err := modelstore.WriteModel(f, binned); err != nil {
						errs[i] = err
						return
					}
					_ = stat.writeRow(
						[]string{"filename", "context number", "rate"},
						[]string{path, fmt.Sprint(binned.Len()), fmt.Sprintf("%v", binned.Rate())},
					)
					bar.Add(1)
				}(i, numContexts)
			}
			wg.Wait()

			for _, err := range errs {
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&maxNum, "num", "n", 0, "maximum number of models to generate")
	cmd.Flags().IntVar(&preBin, "pre-bin", 0, "pre-bin all but this many of the least probable contexts first")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "output stats about generated models as CSV to stdout")
	return cmd
}

func effectiveMax(maxNum, modelSize int) int {
	if maxNum > 0 {
		return maxNum
	}
	if modelSize > 0 {
		return modelSize - 1
	}
	return 0
}

// steps reproduces original_source/idencomp-cli/src/cmd/bin_contexts_all.rs's
// steps_iter: either every integer in [start,end) or, when max_items caps
// that range, an evenly spaced subsample of it.
func steps(start, end, maxItems int) []int {
	maxValue := end - start
	if maxValue <= 0 {
		return nil
	}
	if maxItems >= maxValue {
		out := make([]int, 0, maxValue)
		for v := start; v < end; v++ {
			out = append(out, v)
		}
		return out
	}
	out := make([]int, 0, maxItems)
	for v := 0; v < maxItems; v++ {
		out = append(out, v*maxValue/maxItems+start)
	}
	return out
}
