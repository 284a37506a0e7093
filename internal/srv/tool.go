package srv

import (
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// bitmapfont.Face glyph cell for halfwidth characters.
const glyphWidth = 6
const glyphHeight = 12

func newFrame(width, height int, background color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)
	return img
}

// AddLabel draws label with its baseline at y.
func AddLabel(img *image.RGBA, x, y int, label string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: bitmapfont.Face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(label)
}

func AddCenteredLabel(img *image.RGBA, y int, label string, col color.RGBA) {
	AddLabelCenteredAt(img, img.Bounds().Dx()/2, y, label, col)
}

func AddLabelCenteredAt(img *image.RGBA, cx, y int, label string, col color.RGBA) {
	AddLabel(img, cx-labelWidth(label)/2, y, label, col)
}

// AddScaledLabel draws label magnified by an integer factor, top-left corner
// at (x, y). bitmapfont has a single size, so big digits are nearest-neighbor
// upscales of the 6x12 glyphs.
func AddScaledLabel(img *image.RGBA, x, y, scale int, label string, col color.RGBA) {
	w := labelWidth(label) + 2
	h := glyphHeight + 2
	tmp := image.NewRGBA(image.Rect(0, 0, w, h))
	AddLabel(tmp, 1, glyphHeight-1, label, col)
	draw.NearestNeighbor.Scale(img, image.Rect(x, y, x+w*scale, y+h*scale), tmp, tmp.Bounds(), draw.Over, nil)
}

func AddCenteredScaledLabel(img *image.RGBA, y, scale int, label string, col color.RGBA) {
	AddScaledLabel(img, (img.Bounds().Dx()-(labelWidth(label)+2)*scale)/2, y, scale, label, col)
}

func labelWidth(label string) int {
	return utf8.RuneCountInString(label) * glyphWidth
}

func FillRect(img *image.RGBA, rect image.Rectangle, col color.RGBA) {
	draw.Draw(img, rect, &image.Uniform{col}, image.Point{}, draw.Src)
}

func FillCircle(img *image.RGBA, cx, cy, r int, col color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(cx+dx, cy+dy, col)
			}
		}
	}
}
