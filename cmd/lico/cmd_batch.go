package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <fixture.json>...",
	Short: "Evaluate many fixture files concurrently, collecting every error",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := make([]string, len(args))

		g := new(errgroup.Group)
		g.SetLimit(batchConcurrency)
		for i, path := range args {
			i, path := i, path
			g.Go(func() error {
				result, err := runFixtureFile(path)
				if err != nil {
					results[i] = fmt.Sprintf("%s: error: %v", path, err)
					return err
				}
				if result != nil {
					results[i] = fmt.Sprintf("%s: %s", path, result.String())
				} else {
					results[i] = fmt.Sprintf("%s: (no value)", path)
				}
				return nil
			})
		}
		runErr := g.Wait()

		for _, line := range results {
			fmt.Println(line)
		}
		return runErr
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "maximum number of fixture files evaluated at once")
}
