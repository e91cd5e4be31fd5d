// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command idencomp is the CLI surface spec.md §6.2 treats as an external
// collaborator of the core library: command-line parsing, progress
// rendering and logging live here, never inside the idn/block/modelchooser
// packages themselves (spec.md §9, "Global singletons" — the core never
// reaches out to process-wide state).
//
// Grounded on original_source/idencomp-cli/src/{cli,main}.rs; built with
// github.com/spf13/cobra (the pack's closest Rust-clap analogue) and
// go.uber.org/zap for logging (SPEC_FULL.md §A.2).
package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagVerbose     bool
	flagNoProgress  bool
	globalLogger    *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "idencomp",
		Short:         "Domain-specific compressor for FASTQ nucleotide-sequence files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			globalLogger = buildLogger(flagVerbose)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if globalLogger != nil {
				_ = globalLogger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&flagNoProgress, "no-progress", false, "don't display a progress bar")

	root.AddCommand(
		newGenerateModelCmd(),
		newGenerateModelAllCmd(),
		newBinContextsCmd(),
		newBinContextsAllCmd(),
		newCompressCmd(),
		newDecompressCmd(),
		newStatsCmd(),
	)
	return root
}

func buildLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newProgressBar builds a byte-denominated progress bar, or a no-op
// reporter when --no-progress was passed (spec.md §6.2).
func newProgressBar(total int64, description string) progressReporter {
	if flagNoProgress {
		return nopProgress{}
	}
	return &barProgress{bar: progressbar.DefaultBytes(total, description)}
}

// progressReporter is the minimal surface this CLI needs from a progress
// sink, implemented both by a real progressbar.ProgressBar wrapper and a
// no-op for --no-progress / piped output.
type progressReporter interface {
	Add(n int)
	Finish()
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Add(n int) { _ = p.bar.Add(n) }
func (p *barProgress) Finish()   { _ = p.bar.Finish() }

type nopProgress struct{}

func (nopProgress) Add(int) {}
func (nopProgress) Finish() {}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "idencomp:", err)
		os.Exit(1)
	}
}
