// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/fastq"
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/modelgen"
	"code.hybscloud.com/idencomp/modelstore"
)

// generateModelMode mirrors original_source/idencomp-cli/src/cmd/
// generate_model.rs's GenerateModelMode: which alphabet to count statistics
// for.
type generateModelMode string

const (
	modeAcids   generateModelMode = "acids"
	modeQScores generateModelMode = "q_scores"
)

func (m generateModelMode) modelType() model.Type {
	if m == modeAcids {
		return model.Acids
	}
	return model.QualityScores
}

func newGenerateModelCmd() *cobra.Command {
	var output string
	var limit int

	cmd := &cobra.Command{
		Use:   "generate-model {acids|q_scores} <context-spec-type> [input]",
		Short: "Generate a new model using statistics from a FASTQ file",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := generateModelMode(args[0])
			if mode != modeAcids && mode != modeQScores {
				return fmt.Errorf("mode must be %q or %q", modeAcids, modeQScores)
			}
			specType, ok := contextspec.ByName(args[1])
			if !ok {
				return fmt.Errorf("unknown context spec type %q", args[1])
			}
			input := ""
			if len(args) == 3 {
				input = args[2]
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

			m, err := buildModel(mode.modelType(), specType, in, input, limit)
			if err != nil {
				return err
			}
			globalLogger.Sugar().Infow("generated model", "model_type", m.ModelType(), "spec_type", m.ContextSpecType().Name(), "rate", m.Rate(), "context_num", m.Len())
			return modelstore.WriteModel(out, m)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file path; - is the standard output")
	cmd.Flags().IntVar(&limit, "limit", 10_000_000, "abort generating model at this many unique contexts")
	return cmd
}

// buildModel replays input through a modelgen.Builder for one (modelType,
// specType) pair. Hitting the context limit returns an empty model together
// with the modelgen.ErrContextLimit value itself, which generate-model-all
// detects with errors.As to record the CLI's "model too big" row (spec.md §9, CompressionRate sentinel; see original
// generate_model.rs's save_contexts branch on None).
func buildModel(modelType model.Type, specType contextspec.Type, r io.Reader, inputPath string, limit int) (model.Model, error) {
	bar := newProgressBar(inputSize(inputPath), "generate-model")
	defer bar.Finish()

	rd := fastq.NewReader(bufio.NewReader(r))
	b := modelgen.New(modelType, specType, limit)
	for {
		seq, err := rd.ReadSequence()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Model{}, err
		}
		if err := b.Add(seq); err != nil {
			var limErr modelgen.ErrContextLimit
			if errors.As(err, &limErr) {
				return model.Model{}, limErr
			}
			return model.Model{}, err
		}
		bar.Add(seq.ApproximateSizeBytes)
	}
	return b.Model(), nil
}

func modelOutputPath(dir, name string, mode generateModelMode, specType contextspec.Type) string {
	return filepath.Join(dir, fmt.Sprintf("%s__%s__%s.model", name, mode, specType.Name()))
}
