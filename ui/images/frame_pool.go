package images

import (
	"image"
	"sync"

	"github.com/soocke/boxlabel/domain/editor"
)

// Compositor renders editor frames with less heap churn than ComposeFrame.
// The background with the pasted image only changes when the image, offset
// or canvas changes, so it is cached; each frame copies the cached base into
// a pooled buffer and paints the primitives on top.
//
// A frame returned by Compose should be handed back with Recycle once the
// caller has encoded it. Frames that are never recycled are simply collected.
type Compositor struct {
	pal Palette

	base       *image.NRGBA
	baseImg    image.Image
	baseOffset image.Point

	pool sync.Pool // stores *image.NRGBA
}

func NewCompositor(pal Palette) *Compositor {
	return &Compositor{pal: pal}
}

// Compose returns the frame for img at offset with prims on top.
func (c *Compositor) Compose(canvas image.Point, img image.Image, offset image.Point, prims []editor.Primitive) *image.NRGBA {
	if canvas.X < 1 {
		canvas.X = 1
	}
	if canvas.Y < 1 {
		canvas.Y = 1
	}
	if c.base == nil || c.base.Rect.Size() != canvas || c.baseImg != img || c.baseOffset != offset {
		c.base = ComposeFrame(canvas, img, offset, nil, c.pal)
		c.baseImg, c.baseOffset = img, offset
	}
	dst := c.acquire(c.base.Rect)
	copy(dst.Pix, c.base.Pix)
	paintPrimitives(dst, prims, c.pal)
	return dst
}

// acquire returns a reusable NRGBA image sized to rect with Stride width*4.
func (c *Compositor) acquire(rect image.Rectangle) *image.NRGBA {
	needed := rect.Dx() * rect.Dy() * 4
	var img *image.NRGBA
	if v := c.pool.Get(); v != nil {
		img = v.(*image.NRGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		return &image.NRGBA{Pix: make([]byte, needed), Stride: rect.Dx() * 4, Rect: rect}
	}
	img.Stride = rect.Dx() * 4
	img.Rect = rect
	img.Pix = img.Pix[:needed]
	return img
}

// Recycle returns a frame to the pool. The frame must no longer be accessed
// by the caller afterwards.
func (c *Compositor) Recycle(img *image.NRGBA) {
	if c == nil || img == nil || img.Pix == nil {
		return
	}
	c.pool.Put(img)
}

// Reset drops the cached base, e.g. after the displayed image changed in place.
func (c *Compositor) Reset() {
	if c != nil {
		c.base, c.baseImg = nil, nil
	}
}
