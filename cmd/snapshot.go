package cmd

import (
	"fmt"
	"os"

	"micromouse/geometry"
	"micromouse/robot"
	"micromouse/snapshot"
	"micromouse/viewer"

	"github.com/spf13/cobra"
)

var (
	snapshotMaze    string
	snapshotResults string
	snapshotScrub   float64
	snapshotOut     string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render a maze and robot frame to png",
	Long: `Draws the maze, and the robot at the scrub position of a result sequence if
one is given, to a png file laid out as in the viewer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(snapshotMaze)
		if err != nil {
			return err
		}

		var results robot.Results
		if snapshotResults != "" {
			data, err := os.ReadFile(snapshotResults)
			if err != nil {
				return err
			}
			if results, err = robot.DecodeResults(data); err != nil {
				return fmt.Errorf("decode %s: %w", snapshotResults, err)
			}
		}

		snap := viewer.Still(string(text), results, snapshotScrub, geometry.DefaultOptions())
		out, err := os.Create(snapshotOut)
		if err != nil {
			return err
		}
		if err := snapshot.Render(out, snap); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", snapshotOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVar(&snapshotMaze, "maze", "", "Maze text file")
	snapshotCmd.Flags().StringVar(&snapshotResults, "results", "", "Result sequence json file")
	snapshotCmd.Flags().Float64Var(&snapshotScrub, "scrub", 0, "Playback position in [0, 100]")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "output", "o", "snapshot.png", "Output png file")
	_ = snapshotCmd.MarkFlagRequired("maze")
}
