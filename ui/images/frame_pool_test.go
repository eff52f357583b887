package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/soocke/boxlabel/domain/editor"
)

func TestCompositor_MatchesComposeFrame(t *testing.T) {
	pal := DefaultPalette()
	src := imaging.New(30, 20, color.NRGBA{200, 10, 10, 255})
	canvas := image.Pt(60, 40)
	off := image.Pt(15, 10)
	prims := []editor.Primitive{{Kind: editor.KindOutline, Style: editor.StyleUnselected, Rect: image.Rect(20, 15, 35, 30)}}

	c := NewCompositor(pal)
	want := ComposeFrame(canvas, src, off, prims, pal)
	for i := 0; i < 3; i++ {
		got := c.Compose(canvas, src, off, prims)
		if got.Rect != want.Rect {
			t.Fatalf("bounds %v vs %v", got.Rect, want.Rect)
		}
		for j := range want.Pix {
			if got.Pix[j] != want.Pix[j] {
				t.Fatalf("pass %d: pixel byte %d differs", i, j)
			}
		}
		c.Recycle(got)
	}
}

func TestCompositor_RecycledFrameIsRepainted(t *testing.T) {
	pal := DefaultPalette()
	c := NewCompositor(pal)
	canvas := image.Pt(20, 20)
	first := c.Compose(canvas, nil, image.Point{}, []editor.Primitive{
		{Kind: editor.KindHandle, Style: editor.StyleHandle, Rect: image.Rect(0, 0, 5, 5)},
	})
	c.Recycle(first)
	second := c.Compose(canvas, nil, image.Point{}, nil)
	if got := second.NRGBAAt(2, 2); got != pal.Background {
		t.Fatalf("stale primitive survived recycling: %v", got)
	}
}

func TestCompositor_RebuildsBaseOnChange(t *testing.T) {
	pal := DefaultPalette()
	c := NewCompositor(pal)
	a := imaging.New(10, 10, color.NRGBA{255, 255, 255, 255})
	b := imaging.New(10, 10, color.NRGBA{0, 0, 0, 255})
	canvas := image.Pt(10, 10)
	if got := c.Compose(canvas, a, image.Point{}, nil).NRGBAAt(5, 5); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Fatalf("expected white, got %v", got)
	}
	if got := c.Compose(canvas, b, image.Point{}, nil).NRGBAAt(5, 5); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Fatalf("expected black after image change, got %v", got)
	}
	if got := c.Compose(image.Pt(12, 12), b, image.Point{}, nil).Rect; got != image.Rect(0, 0, 12, 12) {
		t.Fatalf("expected resized canvas, got %v", got)
	}
}
