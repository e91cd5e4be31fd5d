// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"code.hybscloud.com/idencomp/fastq"
	"code.hybscloud.com/idencomp/idn"
	"code.hybscloud.com/idencomp/modelstore"
)

func loadModels(dir string) (*idn.Models, error) {
	if dir == "" {
		return idn.NewModels(nil, nil)
	}
	store, err := modelstore.FromDirectory(dir)
	if err != nil {
		return nil, err
	}
	return idn.NewModels(store.AcidModels(), store.QualityScoreModels())
}

func newCompressCmd() *cobra.Command {
	var output string
	var threads int
	var blockLength int
	var noIdentifiers bool
	var quality uint8
	var fast bool
	var modelsDir string

	cmd := &cobra.Command{
		Use:   "compress [input]",
		Short: "Compress a FASTQ file",
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

			bar := newProgressBar(inputSize(input), "compress")
			defer bar.Finish()

			opts := idn.NewCompressorOptions().
				Threads(threads).
				Quality(quality).
				Progress(newIdnProgressSink(bar)).
				Logger(globalLogger)
			if noIdentifiers {
				opts = opts.NoIdentifiers()
			}
			if blockLength > 0 {
				opts = opts.BlockLength(blockLength)
			}
			if fast {
				opts = opts.Fast()
			}

			bw := bufio.NewWriter(out)
			c, err := idn.NewCompressor(bw, models, opts)
			if err != nil {
				return err
			}

			rd := fastq.NewReader(bufio.NewReader(in))
			for {
				seq, err := rd.ReadSequence()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					_ = c.Close()
					return err
				}
				if err := c.Submit(seq); err != nil {
					_ = c.Close()
					return err
				}
			}
			if err := c.Close(); err != nil {
				return err
			}
			return bw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output IDN file path; - is the standard output")
	cmd.Flags().IntVar(&threads, "threads", 0, "number of additional threads to spawn")
	cmd.Flags().IntVar(&blockLength, "block-length", 0, "maximum single block length (acid count)")
	cmd.Flags().BoolVar(&noIdentifiers, "no-identifiers", false, "do not include sequence identifiers")
	cmd.Flags().Uint8Var(&quality, "quality", 7, "compression quality (1 - fast, 9 - best)")
	cmd.Flags().BoolVar(&fast, "fast", false, "compress as fast as possible; implies --quality=1")
	cmd.Flags().StringVar(&modelsDir, "models-dir", "", "directory of model files to load as compression candidates")
	return cmd
}
