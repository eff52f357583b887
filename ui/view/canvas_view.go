package view

import (
	"image"

	"github.com/soocke/boxlabel/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CanvasView shows the composed editor frame and a thumbnail of the selected
// box. Pointer events on the frame label are reported in canvas coordinates.
type CanvasView interface {
	ShowFrame(img image.Image)
	ShowSelection(img image.Image)
}

// PointerHandlers receives button-1 events on the canvas.
type PointerHandlers struct {
	Down func(x, y int)
	Move func(x, y int)
	Up   func(x, y int)
}

type canvasView struct {
	frameLabel   *LabelWidget
	previewLabel *LabelWidget
	prevFrame    *Img // last Tk photo image instance for the frame
	prevPreview  *Img // last Tk photo image instance for the selection
	previewEmpty bool
}

const previewPlaceholder = 160

// NewCanvasView creates the frame and preview labels, grids them at row and
// binds the pointer handlers. The frame label has no border so event
// coordinates match frame pixels.
func NewCanvasView(row int, canvas image.Point, bg image.Image, h PointerHandlers) CanvasView {
	if bg == nil {
		bg = image.NewNRGBA(image.Rect(0, 0, canvas.X, canvas.Y))
	}
	framePhoto := NewPhoto(Data(images.EncodePNG(bg)))
	previewPhoto := NewPhoto(Data(images.EncodePNG(image.NewNRGBA(image.Rect(0, 0, previewPlaceholder, previewPlaceholder)))))
	frame := Label(Image(framePhoto), Borderwidth(0), Padx(0), Pady(0))
	preview := Label(Image(previewPhoto), Borderwidth(1), Relief("sunken"))
	Grid(frame, Row(row), Column(0), Columnspan(4), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	Grid(preview, Row(row), Column(4), Sticky("n"), Padx("0.4m"), Pady("0.4m"))

	call := func(fn func(x, y int)) func(e *Event) {
		return func(e *Event) {
			if fn != nil && e != nil {
				fn(e.X, e.Y)
			}
		}
	}
	Bind(frame, "<ButtonPress-1>", Command(call(h.Down)))
	Bind(frame, "<B1-Motion>", Command(call(h.Move)))
	Bind(frame, "<ButtonRelease-1>", Command(call(h.Up)))
	return &canvasView{frameLabel: frame, previewLabel: preview, prevFrame: framePhoto, prevPreview: previewPhoto, previewEmpty: true}
}

func (v *canvasView) ShowFrame(img image.Image) {
	if v == nil || v.frameLabel == nil || img == nil {
		return
	}
	// Replace previous photo to avoid retaining obsolete pixel buffers.
	if v.prevFrame != nil {
		v.prevFrame.Delete()
	}
	v.prevFrame = NewPhoto(Data(images.EncodePNG(img)))
	v.frameLabel.Configure(Image(v.prevFrame))
}

// ShowSelection displays img; nil restores the empty placeholder.
func (v *canvasView) ShowSelection(img image.Image) {
	if v == nil || v.previewLabel == nil {
		return
	}
	empty := img == nil
	if empty {
		if v.previewEmpty {
			return
		}
		img = image.NewNRGBA(image.Rect(0, 0, previewPlaceholder, previewPlaceholder))
	}
	v.previewEmpty = empty
	if v.prevPreview != nil {
		v.prevPreview.Delete()
	}
	v.prevPreview = NewPhoto(Data(images.EncodePNG(img)))
	v.previewLabel.Configure(Image(v.prevPreview))
}
