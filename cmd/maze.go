package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"micromouse/maze"

	"github.com/spf13/cobra"
)

var (
	padSize int
)

var decodeCmd = &cobra.Command{
	Use:   "decode <maze.txt>",
	Short: "Print a maze text file as json",
	Long:  `Decodes a maze text file and prints its width and walls as json.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := readMaze(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <maze.json>",
	Short: "Print a json maze as canonical maze text",
	Long: `Reads a maze as json, as printed by decode, and prints its canonical text.
Walls outside the maze are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		m := maze.Maze{Walls: maze.NewWallSet()}
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("decode %s: %w", args[0], err)
		}
		if m.Width <= 0 {
			return fmt.Errorf("decode %s: width must be positive", args[0])
		}
		m.Walls = m.Walls.Within(m.Width)
		_, err = fmt.Fprintln(cmd.OutOrStdout(), m.String())
		return err
	},
}

var padCmd = &cobra.Command{
	Use:   "pad <maze.txt>",
	Short: "Pad a maze to a larger square",
	Long: `Places the maze at the bottom-left of a size x size maze whose other cells
are fully walled, as the simulator does for small mazes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if padSize <= 0 {
			return fmt.Errorf("pad: size must be positive, got %d", padSize)
		}
		text, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), maze.Pad(string(text), padSize))
		return err
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd, encodeCmd, padCmd)
	padCmd.Flags().IntVar(&padSize, "size", 16, "Cells per side of the padded maze")
}

func readMaze(path string) (maze.Maze, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return maze.Maze{}, err
	}
	return maze.Parse(string(text)), nil
}
