package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ripixel/fitglue-importer/pkg/importer"
	"github.com/ripixel/fitglue-importer/pkg/mapper"
)

var (
	importWeeks  int
	importDryRun bool
	importFIT    bool
	importOut    string
)

var importCmd = &cobra.Command{
	Use:   "import <document>",
	Short: "Run the full pipeline for a program document",
	Long: `Extract, reconcile and upload every week of a program. Stored week JSON
artifacts (result-{n}.json) are reused instead of calling the LLM again.`,
	Example: `  # Detect the duration and import everything
  program-import import plan.xlsx

  # Map the first four weeks without uploading, writing FIT workouts
  program-import import plan.xlsx --weeks 4 --dry-run --fit`,
	Args: cobra.ExactArgs(1),
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
		extractor, err := newExtractor(ctx, svc)
		if err != nil {
			return err
		}

		deps := importer.Dependencies{
			Extractor: extractor,
			Mapper:    mapper.NewMapper(engine, svc.Config.WorkerCount),
			Store:     svc.Store,
			Objects:   svc.Objects,
			Pub:       svc.Pub,
			DB:        svc.DB,
		}
		if !importDryRun {
			deps.Platform = svc.NewLyftaClient()
		}

		imp := importer.New(deps, importer.Options{
			ArtifactBucket: svc.Config.GCSArtifactBucket,
			Workers:        svc.Config.WorkerCount,
			ExportFIT:      importFIT,
			Publish:        svc.Config.EnablePublish,
			DryRun:         importDryRun,
		})
		results, err := imp.Run(ctx, args[0], importWeeks, "cli")
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "Week %d: %d workouts (%s)\n", r.Week, len(r.Workouts), r.Source)
		}
		if importOut != "" {
			return writeJSON(importOut, results)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().IntVarP(&importWeeks, "weeks", "w", 0, "number of weeks to import (0 detects the duration)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "map weeks without uploading")
	importCmd.Flags().BoolVar(&importFIT, "fit", false, "also write a FIT workout file per day")
	importCmd.Flags().StringVarP(&importOut, "output", "o", "", "write the week results as JSON to this file")
	rootCmd.AddCommand(importCmd)
}
