package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ryota2357/lico-sub000/internal/capture"
	"github.com/ryota2357/lico-sub000/internal/codegen"
	"github.com/ryota2357/lico-sub000/internal/fixture"
	"github.com/ryota2357/lico-sub000/internal/lower"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <fixture.json>",
	Short: "Lower, analyze and compile a fixture, printing its ICode stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		block, err := fixture.DecodeBlock(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", args[0], err)
		}

		mod, diags := lower.Lower(block)
		if len(diags) > 0 {
			for _, d := range diags {
				fmt.Fprintln(os.Stderr, d.Error())
			}
			return fmt.Errorf("%d lowering errors", len(diags))
		}

		captures, diags := capture.Analyze(mod, nil)
		if len(diags) > 0 {
			for _, d := range diags {
				fmt.Fprintln(os.Stderr, d.Error())
			}
			return fmt.Errorf("%d capture-analysis errors", len(diags))
		}

		code := codegen.Compile(mod, captures)
		for pc, inst := range code {
			fmt.Printf("%4d  %T %+v\n", pc, inst, inst)
		}
		return nil
	},
}
