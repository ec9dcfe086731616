package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ripixel/fitglue-importer/pkg/domain/file_generators"
	"github.com/ripixel/fitglue-importer/pkg/importer"
	"github.com/ripixel/fitglue-importer/pkg/mapper"
)

var mapOut string

var mapCmd = &cobra.Command{
	Use:   "map <week.json>",
	Short: "Reconcile a week JSON file into day workout payloads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newService(ctx)
		if err != nil {
			return err
		}
		engine, _, err := svc.NewEngine(ctx)
		if err != nil {
			return err
		}
		payloads, err := mapper.NewMapper(engine, svc.Config.WorkerCount).ReadWorkoutJSON(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(mapOut, payloads)
	},
}

var (
	matchTop int
)

var matchCmd = &cobra.Command{
	Use:   "match <exercise name>",
	Short: "Show how one exercise name is reconciled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newService(ctx)
		if err != nil {
			return err
		}
		engine, _, err := svc.NewEngine(ctx)
		if err != nil {
			return err
		}
		d, err := engine.Explain(ctx, args[0], matchTop)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Input:      %s\n", d.Input)
		fmt.Fprintf(out, "Normalized: %s\n", d.Primary)
		fmt.Fprintf(out, "Alias:      %s -> %s (score %d, used %t)\n", d.Alias.Key, d.Alias.Value, d.Alias.Score, d.UsedAlias)
		fmt.Fprintf(out, "Query:      %s\n\n", d.QueryText)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tSCORE\tID\tNAME")
		for i, c := range d.Candidates {
			fmt.Fprintf(w, "%d\t%.4f\t%s\t%s\n", i+1, c.Score, c.Entry.ID, c.Entry.Name)
		}
		return w.Flush()
	},
}

var fitDir string

var fitCmd = &cobra.Command{
	Use:   "fit <week.json>",
	Short: "Write one FIT workout file per day of a week JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newService(ctx)
		if err != nil {
			return err
		}
		engine, _, err := svc.NewEngine(ctx)
		if err != nil {
			return err
		}
		payloads, err := mapper.NewMapper(engine, svc.Config.WorkerCount).ReadWorkoutJSON(ctx, args[0])
		if err != nil {
			return err
		}
		if err := os.MkdirAll(fitDir, 0o755); err != nil {
			return err
		}
		for _, p := range payloads {
			data, err := file_generators.GenerateWorkoutFile(p, time.Now())
			if err != nil {
				return err
			}
			path := filepath.Join(fitDir, importer.FileName(p.Workout.Title)+".fit")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(data))
		}
		return nil
	},
}

func init() {
	mapCmd.Flags().StringVarP(&mapOut, "output", "o", "-", "output file for the payload JSON")
	matchCmd.Flags().IntVarP(&matchTop, "top", "n", 5, "number of semantic candidates to show")
	fitCmd.Flags().StringVarP(&fitDir, "dir", "d", ".", "directory for the FIT files")
	rootCmd.AddCommand(mapCmd, matchCmd, fitCmd)
}
