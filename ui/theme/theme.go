package theme

// Centralized theming for the annotation editor: window styles plus the
// colors used when painting boxes onto the canvas frame.

import (
	"github.com/soocke/boxlabel/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff"
	ColorPrimary   = "#2563eb"
	ColorDanger    = "#dc2626"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"

	// Canvas colors. Selected boxes are red, others green, handles blue.
	ColorCanvas     = "#333333"
	ColorUnselected = "#00c000"
	ColorSelected   = "#ff0000"
	ColorHandle     = "#0000ff"
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStatusLabel   = "status.TLabel"
	StyleErrorLabel    = "error.TLabel"
)

// CanvasPalette resolves the canvas colors for the frame renderer. Any color
// that fails to parse falls back to the renderer default.
func CanvasPalette() images.Palette {
	pal := images.DefaultPalette()
	if c, err := images.ParseHex(ColorCanvas); err == nil {
		pal.Background = c
	}
	if c, err := images.ParseHex(ColorUnselected); err == nil {
		pal.Unselected = c
	}
	if c, err := images.ParseHex(ColorSelected); err == nil {
		pal.Selected = c
	}
	if c, err := images.ParseHex(ColorHandle); err == nil {
		pal.Handle = c
	}
	return pal
}

// InitStyles activates the base theme and configures semantic widget styles.
func InitStyles() {
	_ = ActivateTheme("azure light") // baseline metrics
	App.Configure(Background(ColorBg))

	StyleConfigure(StylePrimaryButton,
		Background(ColorPrimary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(ColorDanger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStatusLabel,
		Foreground(ColorText),
		Background(ColorSurface),
		Padding("4p 2p"),
	)
	StyleConfigure(StyleErrorLabel,
		Foreground(ColorDanger),
		Background(ColorSurface),
		Padding("4p 2p"),
	)
}
