package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show the most frequently sighted skills",
	Args:  cobra.NoArgs,
	RunE:  runTrending,
}

var trendingTop int

func init() {
	trendingCmd.Flags().IntVarP(&trendingTop, "top", "n", 20, "number of skills to show (0 for all)")

	rootCmd.AddCommand(trendingCmd)
}

func runTrending(cmd *cobra.Command, _ []string) error {
	if trendingTop < 0 {
		return fmt.Errorf("--top must be non-negative")
	}

	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.close()

	records := a.vocab.Trending(trendingTop)
	return a.output(records, func() { a.printer.PrintTrending(records) })
}
