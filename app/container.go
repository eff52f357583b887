package app

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/boxlabel/config"
	"github.com/soocke/boxlabel/domain/annotation"
	"github.com/soocke/boxlabel/domain/editor"
	"github.com/soocke/boxlabel/domain/labels"
	"github.com/soocke/boxlabel/domain/sequence"
	"github.com/soocke/boxlabel/ui/model"
	"github.com/soocke/boxlabel/ui/presenter"
	"github.com/soocke/boxlabel/ui/theme"
	"github.com/soocke/boxlabel/ui/view"
)

// AppContainer assembles domain services, models, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Classes    *labels.Registry
	Store      *annotation.FileStore
	Editor     *editor.Editor
	Images     *sequence.Sequence
	Navigation *model.NavigationModel
	RootView   *view.RootView

	// Presenters
	Annotation *presenter.AnnotationPresenter
	Loop       *presenter.Loop
}

// BuildContainer constructs all components. Side-effects limited to scanning
// the image directory; widgets are created later by the app on the Tk thread.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}
	classes, err := labels.New(cfg.Classes)
	if err != nil {
		return nil, fmt.Errorf("classes: %w", err)
	}
	c.Classes = classes
	limits := editor.Limits{SizeMin: float64(cfg.SizeMin), HandleSize: cfg.HandleSize}
	c.Store = annotation.NewFileStore(cfg.AnnotationFile, logger,
		annotation.WithClasses(classes),
		annotation.WithMinSize(limits.SizeMin),
	)
	c.Editor = editor.New(classes, limits, logger)
	c.Images, err = sequence.Scan(cfg.ImageDir, cfg.ImageExts, logger)
	if err != nil {
		return nil, err
	}
	c.Navigation = model.NewNavigationModel()
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	canvas := image.Pt(cfg.CanvasWidth, cfg.CanvasHeight)
	c.Annotation = presenter.NewAnnotationPresenter(c.Editor, c.Store, c.Images, sequence.Decode,
		c.RootView, c.Navigation, canvas, theme.CanvasPalette(), logger)
	return c, nil
}

// Canvas returns the configured drawing surface size.
func (c *AppContainer) Canvas() image.Point {
	return image.Pt(c.Config.CanvasWidth, c.Config.CanvasHeight)
}
