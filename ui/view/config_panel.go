package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/boxlabel/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel is the settings window. It edits a copy of *config.Config and
// persists it on Apply; changes take effect on the next launch.
type ConfigPanel interface {
	Build(row int) // places the "Settings" button at row
	OpenOrFocus()
	ApplyChanges() error
}

type configPanel struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	win     *ToplevelWidget
	status  *LabelWidget
	widgets map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(row int) {
	btn := Button(Txt("Settings"), Command(v.OpenOrFocus))
	Grid(btn, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
}

func (v *configPanel) OpenOrFocus() {
	if v.cfg == nil {
		return
	}
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2))
	win.WmTitle("Settings")
	v.win = win
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.destroy)

	c := v.cfg
	row := 0
	makeRow := func(id, label, value string) {
		lbl := win.Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := win.Text(Height(1), Width(32))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("sizeMin", "Minimum Box Size (px)", strconv.Itoa(c.SizeMin))
	makeRow("handleSize", "Handle Size (px)", strconv.Itoa(c.HandleSize))
	makeRow("classes", "Classes (comma separated)", strings.Join(c.Classes, ", "))
	makeRow("annotationFile", "Annotation File", c.AnnotationFile)
	makeRow("imageDir", "Image Directory", c.ImageDir)

	v.status = win.Label(Txt("Changes apply on next launch."), Anchor("w"))
	Grid(v.status, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	row++
	apply := win.Button(Txt("Apply"), Command(func() { _ = v.ApplyChanges() }))
	Grid(apply, Row(row), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	closeBtn := win.Button(Txt("Close"), Command(v.destroy))
	Grid(closeBtn, Row(row), Column(1), Sticky("e"), Padx("0.4m"), Pady("0.3m"))
	Bind(win, "<Escape>", Command(v.destroy))
}

func (v *configPanel) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
		v.status = nil
		v.widgets = make(map[string]*TextWidget)
	}
}

func (v *configPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *configPanel) ApplyChanges() error {
	if v.cfg == nil {
		return nil
	}
	cfg := *v.cfg // copy
	cfg.Classes = append([]string(nil), v.cfg.Classes...)
	if s, ok := v.text("sizeMin"); ok {
		if i, err := strconv.Atoi(s); err == nil {
			cfg.SizeMin = i
		}
	}
	if s, ok := v.text("handleSize"); ok {
		if i, err := strconv.Atoi(s); err == nil {
			cfg.HandleSize = i
		}
	}
	if s, ok := v.text("classes"); ok {
		cfg.Classes = strings.Split(s, ",")
	}
	if s, ok := v.text("annotationFile"); ok && s != "" {
		cfg.AnnotationFile = s
	}
	if s, ok := v.text("imageDir"); ok && s != "" {
		cfg.ImageDir = s
	}
	if err := cfg.Validate(); err != nil {
		v.report(fmt.Sprintf("Invalid: %v", err))
		return err
	}
	if err := cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		v.report(fmt.Sprintf("Save failed: %v", err))
		return err
	}
	*v.cfg = cfg
	if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	v.report("Saved. Changes apply on next launch.")
	return nil
}

func (v *configPanel) report(msg string) {
	if v.status != nil {
		v.status.Configure(Txt(msg))
	}
}
