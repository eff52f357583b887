package editor

import (
	"errors"
	"image"
	"log/slog"
	"testing"

	"github.com/soocke/boxlabel/domain/annotation"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type testClasses int

func (n testClasses) Valid(id int) bool { return id >= 0 && id < int(n) }
func (n testClasses) Default() int      { return 0 }

// newTestEditor returns an editor whose canvas matches the image, so canvas
// and image coordinates coincide.
func newTestEditor() *Editor {
	e := New(testClasses(3), DefaultLimits(), discardLogger)
	e.SetCanvasSize(200, 200)
	e.SetImageSize(200, 200)
	return e
}

func drag(e *Editor, from, to image.Point) {
	e.PointerDown(from)
	e.PointerMove(to)
	e.PointerUp(to)
}

func TestEditor_CreateRespectsMinimumSize(t *testing.T) {
	e := newTestEditor()
	drag(e, image.Pt(10, 10), image.Pt(19, 60))
	if n := len(e.Boxes()); n != 0 {
		t.Fatalf("9x50 drag should not create a box, got %d", n)
	}
	if e.State() != StateIdle {
		t.Fatalf("expected idle after discarded draft, got %v", e.State())
	}
	drag(e, image.Pt(10, 10), image.Pt(20, 20))
	boxes := e.Boxes()
	if len(boxes) != 1 {
		t.Fatalf("10x10 drag should create one box, got %d", len(boxes))
	}
	want := annotation.Box{X: 10, Y: 10, W: 10, H: 10, ClassID: 0}
	if boxes[0] != want {
		t.Fatalf("got %+v want %+v", boxes[0], want)
	}
	if _, ok := e.Selected(); ok {
		t.Fatalf("new box should not be selected")
	}
}

func TestEditor_CreateNormalizesReverseDrag(t *testing.T) {
	e := newTestEditor()
	drag(e, image.Pt(80, 90), image.Pt(30, 40))
	boxes := e.Boxes()
	if len(boxes) != 1 {
		t.Fatalf("expected one box, got %d", len(boxes))
	}
	if b := boxes[0]; b.X != 30 || b.Y != 40 || b.W != 50 || b.H != 50 {
		t.Fatalf("unexpected box %+v", b)
	}
}

func TestEditor_CreateConvertsCanvasToImageSpace(t *testing.T) {
	e := New(testClasses(3), DefaultLimits(), discardLogger)
	e.SetCanvasSize(300, 200)
	e.SetImageSize(100, 100) // offset (100, 50)
	if off := e.Offset(); off != image.Pt(100, 50) {
		t.Fatalf("unexpected offset %v", off)
	}
	drag(e, image.Pt(110, 60), image.Pt(140, 90))
	b := e.Boxes()[0]
	if b.X != 10 || b.Y != 10 || b.W != 30 || b.H != 30 {
		t.Fatalf("unexpected image-space box %+v", b)
	}
	prims := e.Render()
	if prims[0].Rect != image.Rect(110, 60, 140, 90) {
		t.Fatalf("outline not mapped back to canvas: %v", prims[0].Rect)
	}
}

func TestEditor_OffsetNegativeWhenImageLarger(t *testing.T) {
	e := New(testClasses(1), DefaultLimits(), nil)
	e.SetCanvasSize(100, 100)
	e.SetImageSize(203, 100)
	if off := e.Offset(); off != image.Pt(-52, 0) {
		t.Fatalf("unexpected offset %v", off)
	}
}

func TestEditor_SelectionPrefersEarliestBox(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{
		{X: 0, Y: 0, W: 100, H: 100, ClassID: 1},
		{X: 50, Y: 50, W: 100, H: 100, ClassID: 2},
	})
	e.PointerDown(image.Pt(75, 75))
	e.PointerUp(image.Pt(75, 75))
	if i, ok := e.Selected(); !ok || i != 0 {
		t.Fatalf("expected box 0 selected, got %d,%v", i, ok)
	}
	if e.State() != StateSelected {
		t.Fatalf("expected selected state, got %v", e.State())
	}
	if id, ok := e.SelectedClassID(); !ok || id != 1 {
		t.Fatalf("expected class 1, got %d,%v", id, ok)
	}
}

func TestEditor_PressOutsideClearsSelection(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{{X: 0, Y: 0, W: 50, H: 50}})
	e.PointerDown(image.Pt(25, 25))
	e.PointerUp(image.Pt(25, 25))
	e.PointerDown(image.Pt(150, 150))
	if _, ok := e.Selected(); ok {
		t.Fatalf("selection should be cleared on press outside")
	}
	if e.State() != StateCreating {
		t.Fatalf("expected creating, got %v", e.State())
	}
	e.PointerUp(image.Pt(150, 150))
	if len(e.Boxes()) != 1 {
		t.Fatalf("zero-size draft must not create a box")
	}
}

func TestEditor_ResizeToInvalidDeletes(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{{X: 0, Y: 0, W: 40, H: 40}})
	e.PointerDown(image.Pt(40, 40))
	if e.State() != StateResizing || e.Corner() != CornerBottomRight {
		t.Fatalf("expected bottom-right resize, got %v/%v", e.State(), e.Corner())
	}
	e.PointerMove(image.Pt(5, 40))
	if b := e.Boxes()[0]; b.W != 5 || b.H != 40 {
		t.Fatalf("resize not applied during drag: %+v", b)
	}
	e.PointerUp(image.Pt(5, 40))
	if n := len(e.Boxes()); n != 0 {
		t.Fatalf("undersized box should be deleted, %d remain", n)
	}
	if _, ok := e.Selected(); ok || e.State() != StateIdle {
		t.Fatalf("selection should be cleared, state=%v", e.State())
	}
}

func TestEditor_ResizeTopLeftCommits(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{{X: 50, Y: 50, W: 40, H: 40, ClassID: 2}})
	e.PointerDown(image.Pt(52, 51))
	if e.Corner() != CornerTopLeft {
		t.Fatalf("expected top-left handle, got %v", e.Corner())
	}
	e.PointerMove(image.Pt(30, 20))
	e.PointerUp(image.Pt(30, 20))
	b := e.Boxes()[0]
	if b.X != 30 || b.Y != 20 || b.W != 60 || b.H != 70 || b.ClassID != 2 {
		t.Fatalf("unexpected resized box %+v", b)
	}
	if i, ok := e.Selected(); !ok || i != 0 || e.State() != StateSelected {
		t.Fatalf("resized box should stay selected (state %v)", e.State())
	}
}

func TestEditor_ResizeCrossingOppositeEdgeNormalizes(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{{X: 50, Y: 50, W: 40, H: 40}})
	e.PointerDown(image.Pt(90, 90))
	e.PointerMove(image.Pt(20, 30))
	b := e.Boxes()[0]
	if b.X != 20 || b.Y != 30 || b.W != 30 || b.H != 20 {
		t.Fatalf("expected normalized rect, got %+v", b)
	}
	e.PointerUp(image.Pt(20, 30))
	if len(e.Boxes()) != 1 {
		t.Fatalf("valid crossed resize should be kept")
	}
}

func TestEditor_OnlyTwoCornersAreHandles(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{{X: 50, Y: 50, W: 40, H: 40}})
	e.PointerDown(image.Pt(90, 50)) // top-right corner
	if e.State() != StateSelected || e.Corner() != CornerNone {
		t.Fatalf("top-right corner must only select, got %v/%v", e.State(), e.Corner())
	}
	e.PointerUp(image.Pt(90, 50))
	e.PointerDown(image.Pt(50, 90)) // bottom-left corner
	if e.State() != StateSelected {
		t.Fatalf("bottom-left corner must only select, got %v", e.State())
	}
}

func TestEditor_HandleToleranceIsCentered(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{{X: 50, Y: 50, W: 40, H: 40}})
	e.PointerDown(image.Pt(86, 86)) // 4 units from bottom-right corner
	if e.State() != StateResizing {
		t.Fatalf("press within half handle size should resize, got %v", e.State())
	}
	e.PointerUp(image.Pt(90, 90))
	e.PointerDown(image.Pt(85, 85)) // 5 units away
	if e.State() != StateSelected {
		t.Fatalf("press beyond tolerance should only select, got %v", e.State())
	}
}

func TestEditor_DeleteShiftsIndices(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{
		{X: 0, Y: 0, W: 20, H: 20, ClassID: 0},
		{X: 50, Y: 50, W: 20, H: 20, ClassID: 1},
		{X: 100, Y: 100, W: 20, H: 20, ClassID: 2},
	})
	e.PointerDown(image.Pt(60, 60))
	e.PointerUp(image.Pt(60, 60))
	e.DeleteKey()
	boxes := e.Boxes()
	if len(boxes) != 2 || boxes[0].ClassID != 0 || boxes[1].ClassID != 2 {
		t.Fatalf("unexpected boxes after delete: %+v", boxes)
	}
	if _, ok := e.Selected(); ok || e.State() != StateIdle {
		t.Fatalf("selection should be cleared after delete")
	}
	// Deleting again without a selection is a no-op.
	e.DeleteKey()
	if len(e.Boxes()) != 2 {
		t.Fatalf("delete without selection removed a box")
	}
}

func TestEditor_SetSelectedClass(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{{X: 0, Y: 0, W: 20, H: 20}})
	if err := e.SetSelectedClass(2); err != nil {
		t.Fatalf("no-selection class change should be a no-op, got %v", err)
	}
	if e.Boxes()[0].ClassID != 0 {
		t.Fatalf("class changed without a selection")
	}
	e.PointerDown(image.Pt(10, 10))
	e.PointerUp(image.Pt(10, 10))
	renders := 0
	e.AddListener(func() { renders++ })
	if err := e.SetSelectedClass(2); err != nil {
		t.Fatal(err)
	}
	if e.Boxes()[0].ClassID != 2 || renders != 1 {
		t.Fatalf("class=%d renders=%d", e.Boxes()[0].ClassID, renders)
	}
	if err := e.SetSelectedClass(7); !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("expected ErrUnknownClass, got %v", err)
	}
}

func TestEditor_SetBoxesResetsState(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{{X: 0, Y: 0, W: 20, H: 20}})
	e.PointerDown(image.Pt(10, 10))
	in := []annotation.Box{{X: 5, Y: 5, W: 30, H: 30}}
	e.SetBoxes(in)
	in[0].X = 99
	if _, ok := e.Selected(); ok || e.State() != StateIdle {
		t.Fatalf("SetBoxes should clear selection")
	}
	if e.Boxes()[0].X != 5 {
		t.Fatalf("editor aliased the caller's slice")
	}
	out := e.Boxes()
	out[0].X = 42
	if e.Boxes()[0].X != 5 {
		t.Fatalf("Boxes() exposed internal state")
	}
}

func TestEditor_RenderPrimitives(t *testing.T) {
	e := newTestEditor()
	e.SetBoxes([]annotation.Box{{X: 10, Y: 10, W: 20, H: 20}, {X: 100, Y: 100, W: 20, H: 20}})
	e.PointerDown(image.Pt(110, 110))
	e.PointerUp(image.Pt(110, 110))
	e.PointerDown(image.Pt(150, 150))
	e.PointerMove(image.Pt(180, 170))
	// Draft in progress: selection was cleared by the press outside.
	prims := e.Render()
	if len(prims) != 7 {
		t.Fatalf("expected 7 primitives, got %d", len(prims))
	}
	if prims[0].Style != StyleUnselected || prims[3].Style != StyleUnselected {
		t.Fatalf("no box should be selected while creating")
	}
	if prims[1].Kind != KindHandle || prims[1].Rect != image.Rect(6, 6, 14, 14) {
		t.Fatalf("unexpected top-left handle %+v", prims[1])
	}
	if prims[2].Rect != image.Rect(26, 26, 34, 34) {
		t.Fatalf("unexpected bottom-right handle %v", prims[2].Rect)
	}
	draft := prims[6]
	if draft.Index != -1 || draft.Kind != KindOutline || draft.Rect != image.Rect(150, 150, 180, 170) {
		t.Fatalf("unexpected draft %+v", draft)
	}
	e.PointerUp(image.Pt(180, 170))
	e.PointerDown(image.Pt(15, 20))
	prims = e.Render()
	if prims[0].Style != StyleSelected {
		t.Fatalf("selected box should use selected style")
	}
}

func TestEditor_MovesIgnoredWhenIdle(t *testing.T) {
	e := newTestEditor()
	calls := 0
	e.AddListener(func() { calls++ })
	e.PointerMove(image.Pt(10, 10))
	e.PointerUp(image.Pt(10, 10))
	if calls != 0 || e.State() != StateIdle {
		t.Fatalf("idle move/up should not change state (calls=%d)", calls)
	}
}

func TestEditor_LostReleaseCommitsDraft(t *testing.T) {
	e := newTestEditor()
	e.PointerDown(image.Pt(10, 10))
	e.PointerMove(image.Pt(50, 50))
	// Release never arrived; the next press commits the draft first.
	e.PointerDown(image.Pt(150, 150))
	boxes := e.Boxes()
	if len(boxes) != 1 || boxes[0].W != 40 || boxes[0].H != 40 {
		t.Fatalf("expected committed 40x40 draft, got %+v", boxes)
	}
	if e.State() != StateCreating {
		t.Fatalf("expected a new draft, got %v", e.State())
	}
}

func TestEditor_SetLimits(t *testing.T) {
	e := newTestEditor()
	notified := 0
	e.AddListener(func() { notified++ })
	e.SetLimits(Limits{SizeMin: 30})
	if l := e.Limits(); l.SizeMin != 30 || l.HandleSize != DefaultLimits().HandleSize {
		t.Fatalf("unexpected limits %+v", l)
	}
	if notified != 1 {
		t.Fatalf("expected one notification, got %d", notified)
	}
	drag(e, image.Pt(10, 10), image.Pt(30, 30))
	if len(e.Boxes()) != 0 {
		t.Fatalf("20x20 box should be rejected under a 30px minimum")
	}
}

func TestEditor_CreateClipsToImage(t *testing.T) {
	e := New(testClasses(3), DefaultLimits(), discardLogger)
	e.SetCanvasSize(200, 200)
	e.SetImageSize(100, 100) // offset (50, 50)
	drag(e, image.Pt(140, 60), image.Pt(175, 90))
	boxes := e.Boxes()
	if len(boxes) != 1 {
		t.Fatalf("expected one box, got %d", len(boxes))
	}
	want := annotation.Box{X: 90, Y: 10, W: 10, H: 30}
	if boxes[0] != want {
		t.Fatalf("box crossing the right edge: got %+v want %+v", boxes[0], want)
	}
	rec, err := annotation.Encode("a.jpg", boxes[0], 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("clipped box should encode in range: %v", err)
	}

	// Mostly outside: the clipped part is below the minimum.
	drag(e, image.Pt(145, 20), image.Pt(190, 80))
	if n := len(e.Boxes()); n != 1 {
		t.Fatalf("5px-wide clipped box should be discarded, have %d boxes", n)
	}
	drag(e, image.Pt(0, 0), image.Pt(30, 30))
	if n := len(e.Boxes()); n != 1 {
		t.Fatalf("box entirely in the margin should be discarded, have %d boxes", n)
	}
}

func TestEditor_ResizeClipsToImage(t *testing.T) {
	e := New(testClasses(3), DefaultLimits(), discardLogger)
	e.SetCanvasSize(200, 200)
	e.SetImageSize(100, 100)
	e.SetBoxes([]annotation.Box{{X: 10, Y: 10, W: 40, H: 40, ClassID: 1}})
	e.PointerDown(image.Pt(60, 60)) // top-left handle
	if e.Corner() != CornerTopLeft {
		t.Fatalf("expected top-left handle, got %v", e.Corner())
	}
	e.PointerMove(image.Pt(20, 30))
	e.PointerUp(image.Pt(20, 30))
	want := annotation.Box{X: 0, Y: 0, W: 50, H: 50, ClassID: 1}
	if b := e.Boxes()[0]; b != want {
		t.Fatalf("resize past the corner: got %+v want %+v", b, want)
	}
	if e.State() != StateSelected {
		t.Fatalf("clipped resize should stay selected, got %v", e.State())
	}
}
