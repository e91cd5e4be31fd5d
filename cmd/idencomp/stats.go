// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"code.hybscloud.com/idencomp/fastq"
	"code.hybscloud.com/idencomp/sequence"
)

// fastqStats accumulates acid/quality-score byte frequencies over an entire
// FASTQ file, grounded on original_source/idencomp-cli/src/cmd/stats.rs's
// FastqStats (itself built on model_generator.rs's ContextCounter).
type fastqStats struct {
	acidCounts  [sequence.AcidSize]int
	qScoreCounts [sequence.QualityScoreSize]int
	acidTotal   int
	qScoreTotal int
}

func (s *fastqStats) add(seq sequence.FastqSequence) {
	for _, a := range seq.Acids {
		s.acidCounts[a]++
		s.acidTotal++
	}
	for _, q := range seq.QualityScores {
		s.qScoreCounts[q.Get()]++
		s.qScoreTotal++
	}
}

func (s *fastqStats) printTo(w io.Writer) {
	fmt.Fprintln(w, "Acids:")
	for a := sequence.Acid(0); int(a) < sequence.AcidSize; a++ {
		fmt.Fprintf(w, "  %s: %.4f%%\n", a, pct(s.acidCounts[a], s.acidTotal))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Quality Scores:")
	for q := 0; q < sequence.QualityScoreSize; q++ {
		fmt.Fprintf(w, "  %d: %.4f%%\n", q, pct(s.qScoreCounts[q], s.qScoreTotal))
	}
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [input]",
		Short: "Print statistics about a FASTQ file",
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

			bar := newProgressBar(inputSize(input), "stats")
			defer bar.Finish()

			rd := fastq.NewReader(bufio.NewReader(in))
			var stats fastqStats
			for {
				seq, err := rd.ReadSequence()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("could not parse a sequence from the FASTQ file: %w", err)
				}
				stats.add(seq)
				bar.Add(seq.ApproximateSizeBytes)
			}

			stats.printTo(os.Stderr)
			return nil
		},
	}
	return cmd
}
