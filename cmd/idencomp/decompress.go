// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"

	"github.com/spf13/cobra"

	"code.hybscloud.com/idencomp/fastq"
	"code.hybscloud.com/idencomp/idn"
)

func newDecompressCmd() *cobra.Command {
	var output string
	var threads int
	var modelsDir string

	cmd := &cobra.Command{
		Use:   "decompress [input]",
		Short: "Decompress an IDN file to a FASTQ file",
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

			models, err := loadModels(modelsDir)
			if err != nil {
				return err
			}

			bar := newProgressBar(inputSize(input), "decompress")
			defer bar.Finish()

			opts := idn.NewDecompressorOptions().
				Threads(threads).
				Progress(newIdnProgressSink(bar)).
				Logger(globalLogger)

			d, err := idn.NewDecompressor(bufio.NewReader(in), models, opts)
			if err != nil {
				return err
			}

			w := fastq.NewWriter(out)
			for {
				seq, ok, err := d.NextSequence()
				if err != nil {
					_ = d.Close()
					return err
				}
				if !ok {
					break
				}
				if err := w.WriteSequence(seq); err != nil {
					_ = d.Close()
					return err
				}
			}
			if err := d.Close(); err != nil {
				return err
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output FASTQ file path; - is the standard output")
	cmd.Flags().IntVar(&threads, "threads", 0, "number of additional threads to spawn")
	cmd.Flags().StringVar(&modelsDir, "models-dir", "", "directory of model files matching those used at compress time")
	return cmd
}
