package main

import (
	"github.com/spf13/cobra"

	"github.com/ryota2357/lico-sub000/internal/ast"
	"github.com/ryota2357/lico-sub000/internal/fixture"
	"github.com/ryota2357/lico-sub000/interp"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Each line read is decoded as a single JSON fixture document
(internal/fixture) and evaluated; this module has no surface-syntax
lexer, so a REPL line is a compact JSON expression/statement tree, not
free-form source text.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		i := interp.New(interp.Options{
			TraceExec: traceExec,
			DisableGC: disableGC,
			Logger:    logger,
			Parse: func(src string) (ast.Block, error) {
				return fixture.DecodeBlock([]byte(src))
			},
		})
		_, err := i.REPL()
		return err
	},
}
