package editor

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/boxlabel/domain/annotation"
)

var ErrUnknownClass = errors.New("unknown class")

// Editor owns the boxes of the displayed image and the pointer interaction
// state. Pointer positions are in canvas space; boxes are stored in image
// space. It is not safe for concurrent use: events are expected one at a time
// from the UI loop.
type Editor struct {
	logger  *slog.Logger
	classes Classes
	limits  Limits

	canvas image.Point
	img    image.Point

	boxes    []annotation.Box
	selected int
	state    State
	corner   Corner

	// Creating: draft spans dragFrom..dragTo. Resizing: anchor is the fixed
	// corner opposite the grabbed handle.
	dragFrom, dragTo image.Point
	anchorX, anchorY float64

	listeners []Listener
}

// New returns an idle editor with no boxes.
func New(classes Classes, limits Limits, logger *slog.Logger) *Editor {
	return &Editor{logger: logger, classes: classes, limits: limits.withDefaults(), selected: -1}
}

func (l Limits) withDefaults() Limits {
	if l.SizeMin <= 0 {
		l.SizeMin = DefaultLimits().SizeMin
	}
	if l.HandleSize <= 0 {
		l.HandleSize = DefaultLimits().HandleSize
	}
	return l
}

// AddListener registers l to be called after each visible change.
func (e *Editor) AddListener(l Listener) {
	if l != nil {
		e.listeners = append(e.listeners, l)
	}
}

func (e *Editor) Limits() Limits { return e.limits }

// SetLimits replaces the size minimum and handle size. Existing boxes are kept
// even if they fall below the new minimum; the check applies to later edits.
func (e *Editor) SetLimits(l Limits) {
	e.limits = l.withDefaults()
	e.notify()
}

// SetCanvasSize sets the size of the drawing surface.
func (e *Editor) SetCanvasSize(w, h int) {
	e.canvas = image.Pt(w, h)
	e.notify()
}

// SetImageSize sets the pixel size of the displayed image.
func (e *Editor) SetImageSize(w, h int) {
	e.img = image.Pt(w, h)
	e.notify()
}

// Offset is the canvas position of the image's top-left pixel.
func (e *Editor) Offset() image.Point { return centerOffset(e.canvas, e.img) }

// SetBoxes replaces the box list and resets selection and drag state.
func (e *Editor) SetBoxes(boxes []annotation.Box) {
	e.boxes = append([]annotation.Box(nil), boxes...)
	e.selected = -1
	e.corner = CornerNone
	e.transition(StateIdle)
	e.notify()
}

// Boxes returns a copy of the committed boxes in creation order.
func (e *Editor) Boxes() []annotation.Box {
	return append([]annotation.Box(nil), e.boxes...)
}

func (e *Editor) State() State   { return e.state }
func (e *Editor) Corner() Corner { return e.corner }

// Selected returns the selected index, if any.
func (e *Editor) Selected() (int, bool) {
	if e.selected < 0 {
		return 0, false
	}
	return e.selected, true
}

// SelectedClassID returns the class of the selected box, if any.
func (e *Editor) SelectedClassID() (int, bool) {
	if e.selected < 0 {
		return 0, false
	}
	return e.boxes[e.selected].ClassID, true
}

// SetSelectedClass reassigns the class of the selected box. Without a
// selection it does nothing.
func (e *Editor) SetSelectedClass(id int) error {
	if e.selected < 0 {
		return nil
	}
	if e.classes != nil && !e.classes.Valid(id) {
		return fmt.Errorf("class %d: %w", id, ErrUnknownClass)
	}
	if e.boxes[e.selected].ClassID == id {
		return nil
	}
	e.boxes[e.selected].ClassID = id
	e.notify()
	return nil
}

// PointerDown starts an interaction at canvas position p.
func (e *Editor) PointerDown(p image.Point) {
	if e.state == StateCreating || e.state == StateResizing {
		// A lost release; finish the pending drag where it stands.
		e.PointerUp(e.dragTo)
	}
	off := e.Offset()
	px, py := float64(p.X), float64(p.Y)
	for i, b := range e.boxes {
		r := boxToCanvas(b, off)
		if !r.contains(px, py) {
			continue
		}
		e.selected = i
		e.corner = CornerNone
		hs := e.limits.HandleSize
		switch {
		case nearCorner(px, py, r.x1, r.y1, hs):
			e.corner = CornerBottomRight
			e.anchorX, e.anchorY = r.x0, r.y0
		case nearCorner(px, py, r.x0, r.y0, hs):
			e.corner = CornerTopLeft
			e.anchorX, e.anchorY = r.x1, r.y1
		}
		if e.corner != CornerNone {
			e.transition(StateResizing)
		} else {
			e.transition(StateSelected)
		}
		e.notify()
		return
	}
	e.selected = -1
	e.corner = CornerNone
	e.dragFrom, e.dragTo = p, p
	e.transition(StateCreating)
	e.notify()
}

// PointerMove updates the active drag, if any.
func (e *Editor) PointerMove(p image.Point) {
	switch e.state {
	case StateCreating:
		if p == e.dragTo {
			return
		}
		e.dragTo = p
	case StateResizing:
		r := spanRect(e.anchorX, e.anchorY, float64(p.X), float64(p.Y))
		b := &e.boxes[e.selected]
		*b = canvasToBox(r, e.Offset(), b.ClassID)
	default:
		return
	}
	e.notify()
}

// PointerUp commits the active drag. The committed box is clipped to the
// image and dropped if the clipped box falls below the size minimum.
func (e *Editor) PointerUp(p image.Point) {
	switch e.state {
	case StateCreating:
		e.dragTo = p
		r := spanRect(float64(e.dragFrom.X), float64(e.dragFrom.Y), float64(p.X), float64(p.Y))
		class := 0
		if e.classes != nil {
			class = e.classes.Default()
		}
		b := clipBox(canvasToBox(r, e.Offset(), class), e.img)
		if annotation.MeetsMin(b, e.limits.SizeMin) {
			e.boxes = append(e.boxes, b)
			e.debug("box created", "index", len(e.boxes)-1, "w", b.W, "h", b.H)
		}
		e.transition(StateIdle)
	case StateResizing:
		e.corner = CornerNone
		b := clipBox(e.boxes[e.selected], e.img)
		e.boxes[e.selected] = b
		if annotation.MeetsMin(b, e.limits.SizeMin) {
			e.transition(StateSelected)
			break
		}
		e.debug("box removed below minimum", "index", e.selected, "w", b.W, "h", b.H)
		e.remove(e.selected)
		e.transition(StateIdle)
	default:
		return
	}
	e.notify()
}

// DeleteKey removes the selected box. Without a selection it does nothing.
func (e *Editor) DeleteKey() {
	if e.selected < 0 {
		return
	}
	e.remove(e.selected)
	e.corner = CornerNone
	e.transition(StateIdle)
	e.notify()
}

func (e *Editor) remove(i int) {
	e.boxes = append(e.boxes[:i], e.boxes[i+1:]...)
	e.selected = -1
}

// Render describes the current state as canvas-space primitives: per box an
// outline and two handles, then the draft rectangle while creating.
func (e *Editor) Render() []Primitive {
	off := e.Offset()
	hs := e.limits.HandleSize
	prims := make([]Primitive, 0, len(e.boxes)*3+1)
	for i, b := range e.boxes {
		r := boxToCanvas(b, off)
		style := StyleUnselected
		if i == e.selected {
			style = StyleSelected
		}
		prims = append(prims,
			Primitive{Kind: KindOutline, Style: style, Rect: r.toImage(), Index: i},
			Primitive{Kind: KindHandle, Style: StyleHandle, Rect: handleRect(r.x0, r.y0, hs), Index: i},
			Primitive{Kind: KindHandle, Style: StyleHandle, Rect: handleRect(r.x1, r.y1, hs), Index: i},
		)
	}
	if e.state == StateCreating {
		prims = append(prims, Primitive{Kind: KindOutline, Style: StyleUnselected, Rect: image.Rectangle{Min: e.dragFrom, Max: e.dragTo}.Canon(), Index: -1})
	}
	return prims
}

func (e *Editor) transition(next State) {
	prev := e.state
	if prev == next {
		return
	}
	e.state = next
	e.debug("editor state transition", "from", prev.String(), "to", next.String(), "corner", e.corner.String())
}

func (e *Editor) notify() {
	for _, l := range e.listeners {
		l()
	}
}

func (e *Editor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
