package view

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"

	"github.com/soocke/boxlabel/config"
	"github.com/soocke/boxlabel/ui/model"
	"github.com/soocke/boxlabel/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the user actions the root view forwards to presenters.
type Handlers struct {
	Pointer     PointerHandlers
	Delete      func()
	Next        func()
	Prev        func()
	Save        func()
	Exit        func()
	ClassPicked func(id int)
}

// RootView composes the top-level application layout and wires UI callbacks.
// It implements the annotation presenter's view contract.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Canvas      CanvasView
	Status      StatusBar
	ConfigPanel ConfigPanel

	// Widgets
	ClassSelect *TComboboxWidget
	classes     []string
	keys        model.KeyGate
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. classes lists the class names in id order.
func (rv *RootView) Build(classes []string, canvas image.Point, h Handlers) {
	if rv == nil {
		return
	}
	rv.classes = append([]string(nil), classes...)

	// Row 0: navigation buttons and class picker
	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(0), Columnspan(5), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	prevBtn := TButton(Txt("< Prev"), Style(theme.StylePrimaryButton), Command(orNop(h.Prev)))
	Grid(prevBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	nextBtn := TButton(Txt("Next >"), Style(theme.StylePrimaryButton), Command(orNop(h.Next)))
	Grid(nextBtn, In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	saveBtn := TButton(Txt("Save"), Style(theme.StylePrimaryButton), Command(orNop(h.Save)))
	Grid(saveBtn, In(btnFrame), Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.ClassSelect = TCombobox(Values(rv.classes), Width(20), State("readonly"))
	Grid(rv.ClassSelect, In(btnFrame), Row(0), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(rv.ClassSelect, "<<ComboboxSelected>>", Command(func() {
		if rv.ClassSelect == nil || h.ClassPicked == nil {
			return
		}
		idxStr := rv.ClassSelect.Current(nil)
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 || idx >= len(rv.classes) {
			if rv.logger != nil {
				rv.logger.Error("class selection parse error", "value", idxStr, "error", err)
			}
			return
		}
		h.ClassPicked(idx)
	}))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(orNop(h.Exit)))
	Grid(exitBtn, In(btnFrame), Row(0), Column(4), Sticky("e"), Padx("0.2m"), Pady("0.2m"))

	// Row 1: canvas and selection preview
	rv.Canvas = NewCanvasView(1, canvas, nil, h.Pointer)

	// Row 2: status
	rv.Status = NewStatusBar(2)

	// Rows 3+: settings applied on next launch
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger)
	rv.ConfigPanel.Build(3)

	// Keyboard shortcuts. Arrow and delete keys belong to the class picker
	// while it has focus.
	Bind(rv.ClassSelect, "<FocusIn>", Command(rv.keys.Hold))
	Bind(rv.ClassSelect, "<FocusOut>", Command(rv.keys.Release))
	Bind(App, "<Delete>", Command(rv.keys.Wrap(h.Delete)))
	Bind(App, "<BackSpace>", Command(rv.keys.Wrap(h.Delete)))
	Bind(App, "<Right>", Command(rv.keys.Wrap(h.Next)))
	Bind(App, "<Left>", Command(rv.keys.Wrap(h.Prev)))
	Bind(App, "<Control-s>", Command(orNop(h.Save)))
	for i := 0; i < len(rv.classes) && i < 9; i++ {
		id := i
		Bind(App, fmt.Sprintf("<KeyPress-%d>", i+1), Command(func() {
			if h.ClassPicked != nil {
				h.ClassPicked(id)
			}
		}))
	}
}

func orNop(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return fn
}

// ShowFrame proxies to the canvas view.
func (rv *RootView) ShowFrame(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.ShowFrame(img)
	}
}

func (rv *RootView) ShowSelection(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.ShowSelection(img)
	}
}

// SetClass reflects the selected box's class in the picker. Without a
// selection the picker keeps its last value.
func (rv *RootView) SetClass(id int, ok bool) {
	if rv == nil || rv.ClassSelect == nil || !ok || id < 0 || id >= len(rv.classes) {
		return
	}
	rv.ClassSelect.Current(id)
}

// SetStatus updates the status line.
func (rv *RootView) SetStatus(text string) {
	if rv == nil || rv.Status == nil {
		return
	}
	rv.Status.SetStatus(text)
}

func (rv *RootView) ShowError(err error) {
	if rv == nil || rv.Status == nil || err == nil {
		return
	}
	rv.Status.SetError("Error: " + err.Error())
}

// ClearError removes the last error message.
func (rv *RootView) ClearError() {
	if rv != nil && rv.Status != nil {
		rv.Status.SetError("")
	}
}
