package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ryota2357/lico-sub000/internal/fixture"
	"github.com/ryota2357/lico-sub000/internal/object"
	"github.com/ryota2357/lico-sub000/interp"
)

var runCmd = &cobra.Command{
	Use:   "run <fixture.json>",
	Short: "Evaluate one JSON fixture file and print its result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runFixtureFile(args[0])
		if err != nil {
			return err
		}
		if result != nil {
			fmt.Println(result.String())
		}
		return nil
	},
}

func runFixtureFile(path string) (object.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	block, err := fixture.DecodeBlock(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	i := interp.New(interp.Options{
		TraceExec: traceExec,
		DisableGC: disableGC,
		Logger:    logger,
	})
	result, err := i.Eval(block)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", path, err)
	}
	return result, nil
}
