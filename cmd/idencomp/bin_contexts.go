// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"code.hybscloud.com/idencomp/binning"
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/modelstore"
)

func newBinContextsCmd() *cobra.Command {
	var output string
	var numContexts int
	var preBin int

	cmd := &cobra.Command{
		Use:   "bin-contexts [input]",
		Short: "Make a model more compact by combining multiple contexts into one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			in, err := openInput(input)
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := createOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()

			m, err := modelstore.ReadModel(bufio.NewReader(in))
			if err != nil {
				return fmt.Errorf("could not read the model: %w", err)
			}

			bar := newProgressBar(int64(m.Len()), "bin-contexts")
			defer bar.Finish()

			opts := binning.DefaultOptions()
			opts.Progress = binningProgressSink{r: bar}
			if preBin > 0 {
				opts.PreBinningNum = preBin
			}
			tree := binning.BinContextsWithModel(m, opts)

			binned := model.WithModelAndSpecType(m.ModelType(), m.ContextSpecType(), tree.Traverse(numContexts))
			globalLogger.Sugar().Infow("generated binned model", "contexts", binned.Len(), "rate", binned.Rate())
			return modelstore.WriteModel(out, binned)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file path; - is the standard output")
	cmd.Flags().IntVarP(&numContexts, "contexts", "c", 0, "number of distinct contexts to generate")
	cmd.Flags().IntVar(&preBin, "pre-bin", 0, "pre-bin all but this many of the least probable contexts first")
	_ = cmd.MarkFlagRequired("contexts")
	return cmd
}
