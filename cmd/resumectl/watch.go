package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"resumeparse/internal/domain"
	"resumeparse/internal/extract"
	"resumeparse/internal/inbox"
	"resumeparse/internal/resume"
)

var (
	watchDebounce time.Duration
	watchExisting bool
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Parse every résumé written into a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		paths, err := inbox.Watch(ctx, inbox.Config{
			Dir:         args[0],
			InitialScan: watchExisting,
			Debounce:    watchDebounce,
		})
		if err != nil {
			return err
		}

		pipeline := resume.NewPipeline(extract.NewExtractor(extract.Config{MinTextChars: minTextChars}))
		log.Printf("resumectl.watch: watching %s", args[0])
		for path := range paths {
			b, err := os.ReadFile(path)
			if err != nil {
				log.Printf("resumectl.watch: reading %s: %v", path, err)
				continue
			}
			data, err := pipeline.Parse(domain.RawDocument{Bytes: b, FileName: filepath.Base(path)})
			if err != nil {
				log.Printf("resumectl.watch: parsing %s: %v", path, err)
			}
			if err := writeResults(cmd.OutOrStdout(), outputFormat, []documentResult{newDocumentResult(path, data, err)}); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", inbox.DefaultDebounce, "quiet period before a written file is parsed")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also parse documents already in the directory")
}
