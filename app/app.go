package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/boxlabel/debug"
	"github.com/soocke/boxlabel/ui/presenter"
	"github.com/soocke/boxlabel/ui/theme"
	"github.com/soocke/boxlabel/ui/view"
)

const (
	tick = 30 * time.Millisecond
)

type app struct {
	title   string
	width   int
	height  int
	c       *AppContainer
	logger  *slog.Logger
	afterID string
	cancel  context.CancelFunc
}

// NewApp prepares the main window for the given container.
func NewApp(title string, c *AppContainer) *app {
	a := &app{title: title, c: c, logger: c.Logger}
	// Room for the button row, status bar, settings button and preview column.
	a.width = c.Config.CanvasWidth + 200
	a.height = c.Config.CanvasHeight + 120

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", a.width, a.height))
	return a
}

// Start builds the UI, opens the first image and enters the Tk event loop.
func (a *app) Start() {
	theme.InitStyles()
	p := a.c.Annotation
	a.c.RootView.Build(a.c.Classes.Names(), a.c.Canvas(), view.Handlers{
		Pointer: view.PointerHandlers{
			Down: p.PointerDown,
			Move: p.PointerMove,
			Up:   p.PointerUp,
		},
		Delete:      p.DeleteKey,
		Next:        a.navigate(p.Next),
		Prev:        a.navigate(p.Prev),
		Save:        a.navigate(p.Save),
		Exit:        a.exitHandler,
		ClassPicked: p.SelectClass,
	})

	if a.c.Config.Debug {
		var ctx context.Context
		ctx, a.cancel = context.WithCancel(context.Background())
		debug.StartMemLogger(ctx, 10*time.Second, a.logger)
	}

	if a.c.Images.Len() == 0 {
		p.Redraw()
		a.c.RootView.SetStatus(fmt.Sprintf("No images in %s", a.c.Config.ImageDir))
	} else if err := p.Open(0); err != nil {
		a.logger.Error("first image could not be opened", "error", err)
	}

	a.c.Loop = presenter.NewLoop(a.scheduleUpdate, p)
	a.scheduleUpdate()

	App.Wait()
}

// navigate clears the previous error before running a navigation action.
// A failing action has already reported its error to the view.
func (a *app) navigate(fn func() error) func() {
	return func() {
		a.c.RootView.ClearError()
		_ = fn()
	}
}

// exitHandler saves the displayed image and closes the window. A failed save
// keeps the window open so no edits are lost.
func (a *app) exitHandler() {
	if err := a.c.Annotation.Save(); err != nil {
		a.logger.Error("exit aborted: annotations not saved", "error", err)
		return
	}
	a.c.Loop.Stop()
	if a.cancel != nil {
		a.cancel()
	}
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.logger.Info("exiting")
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}
