package cmd

import (
	"fmt"

	"github.com/RyanBlaney/mapdata/pipeline"
	"github.com/RyanBlaney/mapdata/transcode"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks that node, ffmpeg and ffprobe can run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if err := pipeline.CheckDependencies(cmd.Context(), cfg.Converter, transcode.NewDecoder(cfg.Decoder)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "node: %s\nffmpeg: %s\nffprobe: %s\n",
			cfg.Converter.NodePath, cfg.Decoder.FFmpegPath, cfg.Decoder.FFprobePath)
		return nil
	},
}
