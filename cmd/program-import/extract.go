package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ripixel/fitglue-importer/pkg/extraction"
)

var (
	extractWeeks int
	extractDir   string
)

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract week JSON files from a program document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newService(ctx)
		if err != nil {
			return err
		}
		extractor, err := newExtractor(ctx, svc)
		if err != nil {
			return err
		}
		doc, err := extraction.ReadDocument(args[0])
		if err != nil {
			return err
		}

		weeks := extractWeeks
		if weeks <= 0 {
			if weeks, err = extractor.Duration(ctx, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workout duration: %d weeks\n", weeks)
		}
		if err := os.MkdirAll(extractDir, 0o755); err != nil {
			return err
		}

		for week := 1; week <= weeks; week++ {
			start := time.Now()
			_, raw, err := extractor.ExtractWeek(ctx, doc, week)
			if err != nil {
				return fmt.Errorf("week %d: %w", week, err)
			}
			path := filepath.Join(extractDir, fmt.Sprintf("result-%d.json", week))
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Week %d processed in %.2f seconds -> %s\n", week, time.Since(start).Seconds(), path)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().IntVarP(&extractWeeks, "weeks", "w", 0, "number of weeks to extract (0 detects the duration)")
	extractCmd.Flags().StringVarP(&extractDir, "dir", "d", ".", "directory for result-{n}.json files")
	rootCmd.AddCommand(extractCmd)
}
