package editor

import (
	"image"
	"math"

	"github.com/soocke/boxlabel/domain/annotation"
)

// rect is a float rectangle with Min at the top-left. Zero-area is allowed.
type rect struct {
	x0, y0, x1, y1 float64
}

// spanRect builds a normalized rect from two arbitrary corners.
func spanRect(ax, ay, bx, by float64) rect {
	return rect{math.Min(ax, bx), math.Min(ay, by), math.Max(ax, bx), math.Max(ay, by)}
}

func (r rect) contains(x, y float64) bool {
	return x >= r.x0 && x <= r.x1 && y >= r.y0 && y <= r.y1
}

func (r rect) width() float64  { return r.x1 - r.x0 }
func (r rect) height() float64 { return r.y1 - r.y0 }

func (r rect) toImage() image.Rectangle {
	return image.Rect(round(r.x0), round(r.y0), round(r.x1), round(r.y1))
}

func round(v float64) int { return int(math.Round(v)) }

// floorDiv2 halves v rounding towards negative infinity so clipped images
// keep a consistent offset.
func floorDiv2(v int) int {
	if v < 0 {
		return -((-v + 1) / 2)
	}
	return v / 2
}

// centerOffset returns the canvas position of the image origin when an image
// of size img is centered on a canvas of size canvas. Negative when the image
// is larger than the canvas.
func centerOffset(canvas, img image.Point) image.Point {
	return image.Pt(floorDiv2(canvas.X-img.X), floorDiv2(canvas.Y-img.Y))
}

// boxToCanvas converts an image-space box to canvas space.
func boxToCanvas(b annotation.Box, off image.Point) rect {
	x, y := b.X+float64(off.X), b.Y+float64(off.Y)
	return rect{x, y, x + b.W, y + b.H}
}

// canvasToBox converts a canvas-space rect back to image space keeping class.
func canvasToBox(r rect, off image.Point, class int) annotation.Box {
	return annotation.Box{
		X:       r.x0 - float64(off.X),
		Y:       r.y0 - float64(off.Y),
		W:       r.width(),
		H:       r.height(),
		ClassID: class,
	}
}

// clipBox intersects b with an image of size img. A box entirely outside
// comes back with a non-positive side. A zero img leaves b unchanged.
func clipBox(b annotation.Box, img image.Point) annotation.Box {
	if img.X <= 0 || img.Y <= 0 {
		return b
	}
	x0, y0 := math.Max(b.X, 0), math.Max(b.Y, 0)
	x1, y1 := math.Min(b.X+b.W, float64(img.X)), math.Min(b.Y+b.H, float64(img.Y))
	return annotation.Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0, ClassID: b.ClassID}
}

// nearCorner reports whether p lies inside the handle square of side size
// centered on (cx, cy).
func nearCorner(px, py, cx, cy float64, size int) bool {
	half := float64(size) / 2
	return math.Abs(px-cx) <= half && math.Abs(py-cy) <= half
}

// handleRect is the drawn square of side size centered on (cx, cy).
func handleRect(cx, cy float64, size int) image.Rectangle {
	x0 := round(cx) - size/2
	y0 := round(cy) - size/2
	return image.Rect(x0, y0, x0+size, y0+size)
}
