// Command lico is the reference CLI front end for this module: it
// feeds JSON-encoded fixture trees (internal/fixture) to an
// interp.Interpreter rather than a textual surface syntax, since
// lexing/parsing a surface language is out of this module's scope
// (SPEC_FULL.md §1).
//
// # File Index
//
// Entry Point & Global State:
//   - main.go      - entry point, rootCmd, global flags, logger lifecycle
//
// Commands:
//   - cmd_run.go    - runCmd: evaluate one fixture file
//   - cmd_batch.go  - batchCmd: evaluate N fixture files concurrently
//   - cmd_repl.go   - replCmd: interactive read-eval-print loop
//   - cmd_disasm.go - disasmCmd: dump a compiled fixture's ICode stream
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose   bool
	traceExec bool
	disableGC bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lico",
	Short: "lico runs and inspects compiled Language fixture trees",
	Long: `lico is the reference host for this module's lower -> capture ->
codegen -> vm pipeline.

It does not parse surface source text (that stage is out of scope for
this module); instead it reads JSON fixture trees shaped like
internal/ast's node types and hands them directly to the interpreter.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&traceExec, "trace-exec", false, "trace every Call/CallMethod dispatch and raised exception")
	rootCmd.PersistentFlags().BoolVar(&disableGC, "disable-gc", false, "skip the post-execution cycle collection pass")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(disasmCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
