package view

import (
	"github.com/soocke/boxlabel/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// StatusBar shows the navigation summary and the last error.
type StatusBar interface {
	SetStatus(text string)
	SetError(text string)
}

type statusBar struct {
	statusLbl *TLabelWidget
	errorLbl  *TLabelWidget
}

// NewStatusBar creates the status and error labels on row. The error label
// spans the remaining columns.
func NewStatusBar(row int) StatusBar {
	s := &statusBar{
		statusLbl: TLabel(Style(theme.StyleStatusLabel), Anchor("w")),
		errorLbl:  TLabel(Style(theme.StyleErrorLabel), Anchor("w")),
	}
	Grid(s.statusLbl, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"))
	Grid(s.errorLbl, Row(row), Column(2), Columnspan(3), Sticky("we"), Padx("0.2m"))
	s.statusLbl.Configure(Txt("No image"))
	return s
}

func (s *statusBar) SetStatus(text string) {
	if s == nil || s.statusLbl == nil {
		return
	}
	s.statusLbl.Configure(Txt(text))
}

// SetError shows text until the next call; "" clears it.
func (s *statusBar) SetError(text string) {
	if s == nil || s.errorLbl == nil {
		return
	}
	s.errorLbl.Configure(Txt(text))
}
