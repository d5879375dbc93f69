package render

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/mat"
)

// Painter draws a single frame.
type Painter interface {
	Paint(m mat.Matrix, title string, scale Scale) *image.RGBA
}

const (
	captionHeight = 20
	margin        = 6
	barWidth      = 12
	labelWidth    = 7 * 6
)

var (
	background = color.RGBA{255, 255, 255, 255}
	ink        = color.RGBA{0, 0, 0, 255}
)

// Heatmap paints a matrix as a grid of colored cells
// of CellSize pixels. Row 0 is drawn at the bottom.
// A caption with the title is drawn above the grid,
// a colorbar with the scale bounds on its right.
type Heatmap struct {
	Colormap Colormap
	CellSize int
}

// Bounds returns the size of the images painted
// for a rows x cols matrix.
func (h Heatmap) Bounds(rows, cols int) image.Rectangle {
	w := margin + cols*h.CellSize + margin + barWidth + margin + labelWidth
	ht := captionHeight + rows*h.CellSize + margin
	if least := captionHeight + 2*13 + margin; ht < least {
		ht = least
	}
	return image.Rect(0, 0, w, ht)
}

// Paint implements Painter.
func (h Heatmap) Paint(m mat.Matrix, title string, scale Scale) *image.RGBA {
	rows, cols := m.Dims()
	img := image.NewRGBA(h.Bounds(rows, cols))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	cs := h.CellSize
	for r := 0; r < rows; r++ {
		y0 := captionHeight + (rows-1-r)*cs
		for c := 0; c < cols; c++ {
			x0 := margin + c*cs
			col := h.Colormap.At(scale.Normalize(m.At(r, c)))
			draw.Draw(img, image.Rect(x0, y0, x0+cs, y0+cs), &image.Uniform{col}, image.Point{}, draw.Src)
		}
	}

	addLabel(img, margin, 14, title)
	h.colorbar(img, margin+cols*cs+margin, captionHeight, img.Bounds().Dy()-captionHeight-margin, scale)
	return img
}

func (h Heatmap) colorbar(img *image.RGBA, x, y, height int, scale Scale) {
	for i := 0; i < height; i++ {
		t := 1 - float64(i)/float64(height-1)
		col := h.Colormap.At(t)
		draw.Draw(img, image.Rect(x, y+i, x+barWidth, y+i+1), &image.Uniform{col}, image.Point{}, draw.Src)
	}
	lx := x + barWidth + 2
	addLabel(img, lx, y+10, strconv.FormatFloat(scale.Max, 'g', 3, 64))
	addLabel(img, lx, y+height, strconv.FormatFloat(scale.Min, 'g', 3, 64))
}

// addLabel draws `label` with its baseline at `y`.
func addLabel(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(y),
		},
	}
	d.DrawString(label)
}
