package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"resumeparse/internal/domain"
	"resumeparse/internal/extract"
	"resumeparse/internal/resume"
)

var concurrency int

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Parse résumé documents and print their fields",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs := make([]domain.RawDocument, 0, len(args))
		var readErrs []documentResult
		for _, path := range args {
			b, err := os.ReadFile(path)
			if err != nil {
				readErrs = append(readErrs, newDocumentResult(path, nil, err))
				continue
			}
			docs = append(docs, domain.RawDocument{Bytes: b, FileName: filepath.Base(path)})
		}

		pipeline := resume.NewPipeline(extract.NewExtractor(extract.Config{MinTextChars: minTextChars}))
		batch := pipeline.ParseBatch(cmd.Context(), docs, concurrency)

		results := make([]documentResult, 0, len(args))
		failed := len(readErrs)
		for _, r := range batch {
			if r.Err != nil {
				failed++
			}
			results = append(results, newDocumentResult(r.FileName, r.Data, r.Err))
		}
		results = append(results, readErrs...)

		if err := writeResults(cmd.OutOrStdout(), outputFormat, results); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "maximum documents parsed at once")
}
