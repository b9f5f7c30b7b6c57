package cmd

import (
	"fmt"

	"github.com/RyanBlaney/mapdata/dataset"
	"github.com/RyanBlaney/mapdata/pipeline"
	"github.com/spf13/cobra"
)

var timestampsOut string

func init() {
	timestampsCmd.Flags().StringVarP(&timestampsOut, "out", "o", "saved_ts.json", "output JSON file")
	rootCmd.AddCommand(timestampsCmd)
}

var timestampsCmd = &cobra.Command{
	Use:   "timestamps <beatmap>",
	Short: "Dumps the tick timestamps of one beatmap as JSON",
	Long:  `Dumps the timestamps of the ticks that carry note rows. Used for debugging.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ts, err := pipeline.NewProcessor(cfg, nil, nil).Timestamps(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := dataset.SaveTimestamps(timestampsOut, ts); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d timestamps written to %s\n", len(ts), timestampsOut)
		return nil
	},
}
