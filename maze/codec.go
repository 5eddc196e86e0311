package maze

import (
	"strings"
)

// The maze text is a grid of 4-column cells. Even lines are horizontal-wall rows
// ("+---+   +"), odd lines are vertical-wall rows ("|   |    |"). Line 0 is the
// northmost row; the final line is the closing southern border.
const (
	period  = 4
	hMarker = '-'
	vMarker = '|'

	hWall   = "+---"
	hOpen   = "+   "
	vWall   = "   |"
	vOpen   = "    "
	hCorner = "+"
	vBorder = "|"
)

// Decode extracts the walls and width of a maze text. The width is half the line
// count, rounded down. Rows at or beyond index 2*width only close the text visually
// and are ignored. Decode never fails: characters that do not sit on a wall position
// or do not carry a wall marker simply contribute no wall.
func Decode(text string) (walls WallSet, width int) {
	lines := strings.Split(text, "\n")
	width = len(lines) / 2
	walls = NewWallSet()

	for i, line := range lines {
		if 2*width <= i {
			break
		}
		y := width - i/2 - 1
		for j := 0; j < len(line); j++ {
			if i%2 == 0 {
				if j%period == 1 && line[j] == hMarker {
					walls.Add(Wall{X: j / period, Y: y, Dir: Up})
				}
			} else if j > 0 && j%period == 0 && line[j] == vMarker {
				walls.Add(Wall{X: j/period - 1, Y: y, Dir: Right})
			}
		}
	}
	return
}

// Encode writes the canonical text of a width x width maze. Walls outside the maze are
// dropped. The western and southern borders are always drawn.
func Encode(walls WallSet, width int) string {
	if width < 0 {
		width = 0
	}

	type cellWalls struct{ up, right bool }
	grid := make([][]cellWalls, width)
	for x := range grid {
		grid[x] = make([]cellWalls, width)
	}
	for _, w := range walls.Walls() {
		if !w.InBounds(width) {
			continue
		}
		switch w.Dir {
		case Up:
			grid[w.X][w.Y].up = true
		case Right:
			grid[w.X][w.Y].right = true
		}
	}

	var sb strings.Builder
	sb.Grow((2*width + 1) * (period*width + 2))
	for y := width - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			if grid[x][y].up {
				sb.WriteString(hWall)
			} else {
				sb.WriteString(hOpen)
			}
		}
		sb.WriteString(hCorner + "\n")

		sb.WriteString(vBorder)
		for x := 0; x < width; x++ {
			if grid[x][y].right {
				sb.WriteString(vWall)
			} else {
				sb.WriteString(vOpen)
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat(hWall, width) + hCorner)
	return sb.String()
}

// Maze is a square maze: its width in cells and the walls it holds.
type Maze struct {
	Width int     `json:"width"`
	Walls WallSet `json:"walls"`
}

// New returns an empty maze of the given width.
func New(width int) Maze {
	return Maze{Width: width, Walls: NewWallSet()}
}

// Parse decodes maze text coming from users or files. Trailing line breaks and carriage
// returns are removed first, since a trailing newline would otherwise count as a line
// and widen the maze by one cell.
func Parse(text string) Maze {
	text = strings.ReplaceAll(text, "\r", "")
	walls, width := Decode(strings.TrimRight(text, "\n"))
	return Maze{Width: width, Walls: walls}
}

// String returns the canonical text of the maze.
func (m Maze) String() string {
	return Encode(m.Walls, m.Width)
}

// Pad places the maze at the bottom-left corner of an n x n maze. Cells added by the
// padding are fully walled. Texts already spanning n cells are returned as-is.
func Pad(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	total := 2*n + 1
	if len(lines) >= total {
		return text
	}

	offset := total - len(lines)
	extension := n - len(lines)/2
	padded := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if i < offset {
			if i%2 == 0 {
				padded = append(padded, strings.Repeat(hWall, n)+hCorner)
			} else {
				padded = append(padded, strings.Repeat(vBorder+vOpen[1:], n)+vBorder)
			}
			continue
		}
		idx := i - offset
		if idx%2 == 0 {
			padded = append(padded, lines[idx]+strings.Repeat(hWall[1:]+hCorner, extension))
		} else {
			padded = append(padded, lines[idx]+strings.Repeat(vWall, extension))
		}
	}
	return strings.Join(padded, "\n")
}
