package main

import (
	"github.com/spf13/cobra"

	"resumeparse/internal/extract"
)

var (
	outputFormat string
	minTextChars int
)

var rootCmd = &cobra.Command{
	Use:   "resumectl",
	Short: "Parse résumé documents into structured, confidence-scored fields",
	Long: `resumectl runs the résumé parser locally without the review server.

  parse   parse one or more documents and print the result
  watch   parse every document dropped into a directory`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "format", "f", "json", "output format: json or yaml",
	)
	rootCmd.PersistentFlags().IntVar(
		&minTextChars, "min-text-chars", extract.DefaultMinTextChars, "minimum extracted text length",
	)

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(watchCmd)
}
