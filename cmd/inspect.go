package cmd

import (
	"fmt"

	"github.com/RyanBlaney/mapdata/dataset"
	"github.com/spf13/cobra"
)

var inspectRows int

func init() {
	inspectCmd.Flags().IntVar(&inspectRows, "rows", 0, "also print the first N rows of every 2-D array")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <archive.npz>",
	Short: "Prints the arrays of an archive",
	Long:  `Prints name, dtype and shape of every array in an .npz archive`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := dataset.Load(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range archive.Names() {
			arr, _ := archive.Get(name)
			fmt.Fprintf(out, "%-12s %s %v\n", name, arr.Descr, arr.Shape)
			if inspectRows <= 0 || len(arr.Shape) != 2 {
				continue
			}

			rows, err := arr.Rows()
			if err != nil {
				return fmt.Errorf("failed to read rows of %s: %w", name, err)
			}
			for i, row := range rows[:min(inspectRows, len(rows))] {
				fmt.Fprintf(out, "  %4d %v\n", i, row)
			}
		}
		return nil
	},
}
