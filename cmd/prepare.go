package cmd

import (
	"fmt"

	"github.com/RyanBlaney/mapdata/logging"
	"github.com/RyanBlaney/mapdata/pipeline"
	"github.com/RyanBlaney/mapdata/transcode"
	"github.com/spf13/cobra"
)

var (
	mapList   string
	outputDir string
	workers   int
	skipCheck bool
)

func init() {
	addPrepareFlags(prepareCmd)
	rootCmd.AddCommand(prepareCmd)
}

func addPrepareFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&mapList, "map-list", "m", "maplist.txt", "file listing one beatmap path per line")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "mapdata", "directory for <index>.npz archives")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "beatmaps processed concurrently")
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "do not probe node and ffmpeg first")
}

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Builds training archives for every map in the map list",
	Long: `Reads the map list, removes old .npz files from the output directory and writes
one <index>.npz archive per beatmap. Beatmaps that fail are logged and skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrepare(cmd)
	},
}

func runPrepare(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	decoder := transcode.NewDecoder(cfg.Decoder)
	if !skipCheck {
		if err := pipeline.CheckDependencies(ctx, cfg.Converter, decoder); err != nil {
			return err
		}
	}

	paths, err := pipeline.ReadMapList(cfg.MapList)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessor(cfg, nil, decoder)
	summary, err := pipeline.NewBatch(processor, cfg.OutputDir, cfg.Workers).Run(ctx, paths)
	if err != nil {
		return err
	}

	for _, f := range summary.Failures {
		logging.Debug("Failed beatmap", logging.Fields{
			"run_id":    summary.RunID,
			"map_index": f.Index,
			"map_path":  f.Path,
			"kind":      f.Kind,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d maps saved to %s (run %s)\n",
		summary.Succeeded, summary.Total, cfg.OutputDir, summary.RunID)
	return nil
}
