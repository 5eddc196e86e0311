package cmd

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"micromouse/maze"

	. "github.com/smartystreets/goconvey/convey"
)

func execute(args ...string) (string, error) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMazeCommands(t *testing.T) {
	Convey("When decoding a maze file", t, func() {
		out, err := execute("decode", "testdata/maze.txt")
		So(err, ShouldBeNil)

		var m maze.Maze
		So(json.Unmarshal([]byte(out), &m), ShouldBeNil)
		So(m.Width, ShouldEqual, 2)
		So(m.Walls.Walls(), ShouldResemble, []maze.Wall{
			{X: 0, Y: 0, Dir: maze.Right},
			{X: 1, Y: 0, Dir: maze.Right},
			{X: 0, Y: 1, Dir: maze.Up},
			{X: 1, Y: 1, Dir: maze.Up},
			{X: 1, Y: 1, Dir: maze.Right},
		})
	})

	Convey("When encoding a json maze, walls outside it are dropped", t, func() {
		out, err := execute("encode", "testdata/maze.json")
		So(err, ShouldBeNil)
		m := maze.Parse(out)
		So(m.Width, ShouldEqual, 2)
		So(m.Walls.Walls(), ShouldResemble, []maze.Wall{{X: 0, Y: 0, Dir: maze.Up}})
	})

	Convey("When padding a maze", t, func() {
		out, err := execute("pad", "testdata/maze.txt", "--size", "4")
		So(err, ShouldBeNil)
		m := maze.Parse(out)
		So(m.Width, ShouldEqual, 4)
		So(m.Walls.Has(maze.Wall{X: 0, Y: 1, Dir: maze.Up}), ShouldBeTrue)
		So(m.Walls.Has(maze.Wall{X: 3, Y: 3, Dir: maze.Right}), ShouldBeTrue)
	})

	Convey("When arguments are missing or wrong, the commands fail", t, func() {
		_, err := execute("decode")
		So(err, ShouldNotBeNil)
		_, err = execute("decode", "testdata/missing.txt")
		So(err, ShouldNotBeNil)
		_, err = execute("encode", "testdata/maze.txt")
		So(err, ShouldNotBeNil)
		_, err = execute("pad", "testdata/maze.txt", "--size", "0")
		So(err, ShouldNotBeNil)
	})
}

func TestSnapshotCommand(t *testing.T) {
	Convey("When rendering a snapshot", t, func() {
		output := filepath.Join(t.TempDir(), "frame.png")
		out, err := execute("snapshot",
			"--maze", "testdata/maze.txt",
			"--results", "testdata/results.json",
			"--scrub", "50",
			"-o", output)
		So(err, ShouldBeNil)
		So(out, ShouldContainSubstring, output)

		f, err := os.Open(output)
		So(err, ShouldBeNil)
		defer f.Close()
		img, err := png.Decode(f)
		So(err, ShouldBeNil)
		So(img.Bounds().Dx(), ShouldEqual, 700)
		So(img.Bounds().Dy(), ShouldEqual, 300)
	})

	Convey("When the results are malformed, nothing is written", t, func() {
		output := filepath.Join(t.TempDir(), "frame.png")
		_, err := execute("snapshot",
			"--maze", "testdata/maze.txt",
			"--results", "testdata/maze.json",
			"--scrub", "0",
			"-o", output)
		So(err, ShouldNotBeNil)
		_, statErr := os.Stat(output)
		So(os.IsNotExist(statErr), ShouldBeTrue)
	})
}
