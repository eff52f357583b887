package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/soocke/boxlabel/domain/editor"
)

// OutlineWidth is the stroke width of box outlines in canvas pixels.
const OutlineWidth = 2

// Palette holds the colours used to paint a frame.
type Palette struct {
	Background color.NRGBA
	Unselected color.NRGBA
	Selected   color.NRGBA
	Handle     color.NRGBA
}

// DefaultPalette paints unselected boxes green, the selection red and
// handles blue.
func DefaultPalette() Palette {
	return Palette{
		Background: color.NRGBA{0x33, 0x33, 0x33, 0xff},
		Unselected: color.NRGBA{0x00, 0xc0, 0x00, 0xff},
		Selected:   color.NRGBA{0xff, 0x00, 0x00, 0xff},
		Handle:     color.NRGBA{0x00, 0x00, 0xff, 0xff},
	}
}

func (p Palette) color(s editor.Style) color.NRGBA {
	switch s {
	case editor.StyleSelected:
		return p.Selected
	case editor.StyleHandle:
		return p.Handle
	default:
		return p.Unselected
	}
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// ComposeFrame renders the canvas: img pasted at offset (clipped, never
// scaled) with the primitives painted on top in order.
func ComposeFrame(canvas image.Point, img image.Image, offset image.Point, prims []editor.Primitive, pal Palette) *image.NRGBA {
	if canvas.X < 1 {
		canvas.X = 1
	}
	if canvas.Y < 1 {
		canvas.Y = 1
	}
	dst := imaging.New(canvas.X, canvas.Y, pal.Background)
	if img != nil {
		dst = imaging.Paste(dst, img, offset)
	}
	paintPrimitives(dst, prims, pal)
	return dst
}

func paintPrimitives(dst draw.Image, prims []editor.Primitive, pal Palette) {
	for _, p := range prims {
		c := image.NewUniform(pal.color(p.Style))
		switch p.Kind {
		case editor.KindHandle:
			draw.Draw(dst, p.Rect, c, image.Point{}, draw.Src)
		default:
			strokeRect(dst, p.Rect, c, OutlineWidth)
		}
	}
}

// strokeRect draws the border of r, width pixels wide, inside r.
func strokeRect(dst draw.Image, r image.Rectangle, c image.Image, width int) {
	r = r.Canon()
	if r.Dx() <= 2*width || r.Dy() <= 2*width {
		draw.Draw(dst, r, c, image.Point{}, draw.Src)
		return
	}
	for _, side := range [...]image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, side, c, image.Point{}, draw.Src)
	}
}

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
