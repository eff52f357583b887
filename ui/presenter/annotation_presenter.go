package presenter

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/boxlabel/domain/annotation"
	"github.com/soocke/boxlabel/domain/editor"
	"github.com/soocke/boxlabel/domain/sequence"
	"github.com/soocke/boxlabel/ui/images"
	"github.com/soocke/boxlabel/ui/model"
)

// ImageSource is the navigable image list.
type ImageSource interface {
	Len() int
	Index() int
	Entry(i int) (sequence.Entry, error)
	Seek(i int) error
	NextIndex() int
	PrevIndex() int
}

// ImageDecoder loads the pixels of an image file.
type ImageDecoder func(path string) (image.Image, error)

// KeyLister is implemented by stores able to list annotated images.
type KeyLister interface {
	Keys() ([]string, error)
}

// AnnotationView describes the UI surface updated by the presenter.
type AnnotationView interface {
	ShowFrame(img image.Image) // img is reused after the call returns
	ShowSelection(img image.Image) // nil clears the preview
	SetClass(id int, ok bool)
	SetStatus(text string)
	ShowError(err error)
}

const selectionPreviewSize = 160

// AnnotationPresenter drives the editor for the displayed image and persists
// boxes on every image switch. The outgoing image is always saved before the
// incoming image is loaded; a failed save keeps the current image open.
type AnnotationPresenter struct {
	editor *editor.Editor
	store  annotation.Store
	source ImageSource
	decode ImageDecoder
	view   AnnotationView
	nav    *model.NavigationModel
	frames *images.Compositor
	canvas image.Point
	logger *slog.Logger

	img   image.Image
	dirty bool // set by editor changes, cleared by Redraw
}

// NewAnnotationPresenter wires the editor to the store, images and view and
// registers itself as the editor's change listener. Editor changes only mark
// the frame dirty; Flush (driven by the update loop) repaints it.
func NewAnnotationPresenter(ed *editor.Editor, store annotation.Store, source ImageSource, decode ImageDecoder, view AnnotationView, nav *model.NavigationModel, canvas image.Point, palette images.Palette, logger *slog.Logger) *AnnotationPresenter {
	if decode == nil {
		decode = sequence.Decode
	}
	if nav == nil {
		nav = model.NewNavigationModel()
	}
	p := &AnnotationPresenter{
		editor: ed,
		store:  store,
		source: source,
		decode: decode,
		view:   view,
		nav:    nav,
		frames: images.NewCompositor(palette),
		canvas: canvas,
		logger: logger,
	}
	ed.SetCanvasSize(canvas.X, canvas.Y)
	ed.AddListener(p.invalidate)
	return p
}

// Open saves the current image, then shows image i with its stored boxes.
func (p *AnnotationPresenter) Open(i int) error {
	if p == nil || p.source == nil {
		return nil
	}
	entry, err := p.source.Entry(i)
	if err != nil {
		p.fail("image lookup failed", err)
		return err
	}
	if err := p.saveCurrent(); err != nil {
		return err
	}
	img, err := p.decode(entry.Path)
	if err != nil {
		p.fail("image decode failed", err)
		return err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	boxes, err := p.store.Load(entry.Key, w, h)
	if err != nil {
		p.fail("annotation load failed", err)
		return err
	}
	if err := p.source.Seek(i); err != nil {
		p.fail("image seek failed", err)
		return err
	}
	p.img = img
	p.nav.Open(entry.Key, w, h)
	p.editor.SetImageSize(w, h)
	p.editor.SetBoxes(boxes)
	p.refreshAnnotated()
	if p.logger != nil {
		p.logger.Info("image opened", "key", entry.Key, "width", w, "height", h, "boxes", len(boxes))
	}
	p.syncClass()
	p.Redraw()
	return nil
}

// Next opens the following image, wrapping to the first.
func (p *AnnotationPresenter) Next() error {
	if p == nil || p.source == nil || p.source.Len() == 0 {
		return nil
	}
	return p.Open(p.source.NextIndex())
}

// Prev opens the preceding image, wrapping to the last.
func (p *AnnotationPresenter) Prev() error {
	if p == nil || p.source == nil || p.source.Len() == 0 {
		return nil
	}
	return p.Open(p.source.PrevIndex())
}

// Save persists the boxes of the displayed image.
func (p *AnnotationPresenter) Save() error {
	if p == nil {
		return nil
	}
	if err := p.saveCurrent(); err != nil {
		return err
	}
	p.refreshAnnotated()
	p.updateStatus()
	return nil
}

func (p *AnnotationPresenter) saveCurrent() error {
	key, w, h, ok := p.nav.Current()
	if !ok {
		return nil
	}
	boxes := p.editor.Boxes()
	if err := p.store.Save(key, boxes, w, h); err != nil {
		err = fmt.Errorf("save %s: %w", key, err)
		p.fail("annotation save failed", err)
		return err
	}
	if p.logger != nil {
		p.logger.Info("annotations saved", "key", key, "boxes", len(boxes))
	}
	return nil
}

// PointerDown forwards a press in canvas coordinates.
func (p *AnnotationPresenter) PointerDown(x, y int) {
	if !p.active() {
		return
	}
	p.editor.PointerDown(image.Pt(x, y))
	p.syncClass()
}

func (p *AnnotationPresenter) PointerMove(x, y int) {
	if !p.active() {
		return
	}
	p.editor.PointerMove(image.Pt(x, y))
}

func (p *AnnotationPresenter) PointerUp(x, y int) {
	if !p.active() {
		return
	}
	p.editor.PointerUp(image.Pt(x, y))
	p.syncClass()
}

// DeleteKey removes the selected box, if any.
func (p *AnnotationPresenter) DeleteKey() {
	if !p.active() {
		return
	}
	p.editor.DeleteKey()
	p.syncClass()
}

// SelectClass assigns class id to the selected box. Without a selection the
// picker change is ignored.
func (p *AnnotationPresenter) SelectClass(id int) {
	if !p.active() {
		return
	}
	if err := p.editor.SetSelectedClass(id); err != nil {
		p.fail("class change rejected", err)
	}
}

func (p *AnnotationPresenter) invalidate() { p.dirty = true }

// Dirty reports whether the editor changed since the last redraw.
func (p *AnnotationPresenter) Dirty() bool { return p != nil && p.dirty }

// Flush redraws when the editor changed since the last redraw.
func (p *AnnotationPresenter) Flush() {
	if p.Dirty() {
		p.Redraw()
	}
}

// Redraw composes the current frame and pushes it to the view.
func (p *AnnotationPresenter) Redraw() {
	if p == nil || p.view == nil {
		return
	}
	p.dirty = false
	frame := p.frames.Compose(p.canvas, p.img, p.editor.Offset(), p.editor.Render())
	p.view.ShowFrame(frame)
	p.frames.Recycle(frame)
	var preview image.Image
	if i, ok := p.editor.Selected(); ok {
		if crop, ok := images.CropBox(p.img, p.editor.Boxes()[i]); ok {
			preview = images.Thumbnail(crop, selectionPreviewSize, selectionPreviewSize)
		}
	}
	p.view.ShowSelection(preview)
	p.updateStatus()
}

// CurrentKey returns the key of the displayed image.
func (p *AnnotationPresenter) CurrentKey() (string, bool) {
	if p == nil {
		return "", false
	}
	key, _, _, ok := p.nav.Current()
	return key, ok
}

func (p *AnnotationPresenter) active() bool {
	if p == nil || p.editor == nil {
		return false
	}
	_, _, _, ok := p.nav.Current()
	return ok
}

func (p *AnnotationPresenter) syncClass() {
	if p.view == nil {
		return
	}
	id, ok := p.editor.SelectedClassID()
	p.view.SetClass(id, ok)
}

func (p *AnnotationPresenter) refreshAnnotated() {
	kl, ok := p.store.(KeyLister)
	if !ok {
		return
	}
	keys, err := kl.Keys()
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("annotation keys unavailable", "error", err)
		}
		return
	}
	p.nav.SetAnnotated(len(keys))
}

func (p *AnnotationPresenter) updateStatus() {
	if p.view == nil || p.source == nil {
		return
	}
	key, _, _, ok := p.nav.Current()
	if !ok {
		p.view.SetStatus("No image")
		return
	}
	p.view.SetStatus(fmt.Sprintf("%d/%d  %s  boxes: %d  annotated: %d",
		p.source.Index()+1, p.source.Len(), key, len(p.editor.Boxes()), p.nav.Annotated()))
}

func (p *AnnotationPresenter) fail(msg string, err error) {
	if p.logger != nil {
		p.logger.Error(msg, "error", err)
	}
	if p.view != nil {
		p.view.ShowError(err)
	}
}
