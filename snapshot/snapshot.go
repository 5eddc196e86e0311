// snapshot renders a viewer snapshot to a PNG image.
package snapshot

import (
	"fmt"
	"image/color"
	"io"

	"micromouse/geometry"
	"micromouse/viewer"

	"github.com/fogleman/gg"
)

const (
	wallLineWidth  = 3.0
	robotLineWidth = 1.5
)

var (
	background = color.White
	wallColor  = color.Black
	robotFill  = color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}
	robotLine  = color.RGBA{R: 0x0d, G: 0x47, B: 0xa1, A: 0xff}
	textColor  = color.Gray{Y: 0x40}
)

// Draw paints the maze walls and, when there is a current frame, the robot.
func Draw(dc *gg.Context, snap viewer.Snapshot) {
	dc.SetColor(background)
	dc.Clear()

	dc.SetLineWidth(wallLineWidth)
	dc.SetLineCapSquare()
	dc.SetColor(wallColor)
	for _, s := range snap.WallSegments() {
		dc.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
	}
	dc.Stroke()

	if snap.HasFrame && len(snap.Robot) > 0 {
		drawOutline(dc, snap.Robot)
	}

	dc.SetColor(textColor)
	dc.DrawString(caption(snap), 10, 20)
}

func drawOutline(dc *gg.Context, outline []geometry.Segment) {
	dc.SetLineWidth(robotLineWidth)
	dc.MoveTo(outline[0].X1, outline[0].Y1)
	for _, s := range outline {
		dc.LineTo(s.X2, s.Y2)
	}
	dc.ClosePath()
	dc.SetColor(robotFill)
	dc.FillPreserve()
	dc.SetColor(robotLine)
	dc.Stroke()
}

func caption(snap viewer.Snapshot) string {
	if !snap.HasFrame {
		return fmt.Sprintf("%dx%d maze, %d frames", snap.Width, snap.Width, snap.FrameCount)
	}
	return fmt.Sprintf("%dx%d maze, frame %d/%d", snap.Width, snap.Width, snap.Frame+1, snap.FrameCount)
}

// Render writes snap as a PNG sized to the grid and its margins.
func Render(w io.Writer, snap viewer.Snapshot) error {
	width, height := snap.Grid.CanvasSize()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render: empty canvas %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	Draw(dc, snap)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
