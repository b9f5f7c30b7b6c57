package cmd

import (
	"fmt"

	"github.com/RyanBlaney/mapdata/pipeline"
	"github.com/spf13/cobra"
)

var testerOut string

func init() {
	testerCmd.Flags().StringVarP(&testerOut, "out", "o", "mapthis.npz", "output archive")
	rootCmd.AddCommand(testerCmd)
}

var testerCmd = &cobra.Command{
	Use:   "tester <beatmap>",
	Short: "Builds the inference archive of one beatmap",
	Long: `Builds an archive with ticks, timestamps, spectra and per-tick tempo for a beatmap
whose notes are to be generated. The ticks cover the whole audio track.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		processor := pipeline.NewProcessor(cfg, nil, nil)
		arrays, err := processor.Tester(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := processor.SaveTester(arrays, testerOut); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d ticks written to %s\n", arrays.Grid.Len(), testerOut)
		return nil
	},
}
