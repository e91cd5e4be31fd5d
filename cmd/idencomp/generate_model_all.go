// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/modelgen"
	"code.hybscloud.com/idencomp/modelstore"
)

// modelTooBigRate is the CLI's explicit sentinel for "model exceeded the
// context limit" in statistics output (spec.md §9, REDESIGN FLAGS — the
// rewrite names this instead of reusing a magic float for the real rate).
const modelTooBigRate = "model too big"

func newGenerateModelAllCmd() *cobra.Command {
	var csvOut bool
	var limit int

	cmd := &cobra.Command{
		Use:   "generate-model-all <input> <output-dir> <name>",
		Short: "Generate all possible models for a FASTQ file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, dir, name := args[0], args[1], args[2]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			stat := newCsvStatOutput(csvOut)

			type job struct {
				mode     generateModelMode
				specType contextspec.Type
			}
			var jobs []job
			for _, mode := range []generateModelMode{modeAcids, modeQScores} {
				for _, st := range contextspec.Types {
					jobs = append(jobs, job{mode: mode, specType: st})
				}
			}

			bar := newProgressBar(inputSize(input)*int64(len(jobs)), "generate-model-all")
			defer bar.Finish()

			sem := make(chan struct{}, runtime.NumCPU())
			var wg sync.WaitGroup
			errs := make([]error, len(jobs))

			for i, j := range jobs {
				wg.Add(1)
				sem <- struct{}{}
				go func(i int, j job) {
					defer wg.Done()
					defer func() { <-sem }()

					f, err := os.Open(input)
					if err != nil {
						errs[i] = err
						return
					}
					defer f.Close()

					m, err := buildModel(j.mode.modelType(), j.specType, f, input, limit)
					var limErr modelgen.ErrContextLimit
					if errors.As(err, &limErr) {
						_ = stat.writeRow(
							[]string{"model type", "spec type", "rate", "context num"},
							[]string{j.mode.modelType().String(), j.specType.Name(), modelTooBigRate, fmt.Sprint(limit)},
						)
						globalLogger.Sugar().Infow("model too big", "model_type", j.mode.modelType(), "spec_type", j.specType.Name())
						return
					}
					if err != nil {
						errs[i] = err
						return
					}

					out, err := os.Create(modelOutputPath(dir, name, j.mode, j.specType))
					if err != nil {
						errs[i] = err
						return
					}
					defer out.Close()
					if err := modelstore.WriteModel(out, m); err != nil {
						errs[i] = err
						return
					}

					_ = stat.writeRow(
						[]string{"model type", "spec type", "rate", "context num"},
						[]string{m.ModelType().String(), j.specType.Name(), fmt.Sprintf("%v", m.Rate()), fmt.Sprint(m.Len())},
					)
					bar.Add(int(inputSize(input)))
				}(i, j)
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

	cmd.Flags().BoolVar(&csvOut, "csv", false, "output stats about generated models as CSV to stdout")
	cmd.Flags().IntVar(&limit, "limit", 500_000, "abort generating model at this many unique contexts")
	return cmd
}
