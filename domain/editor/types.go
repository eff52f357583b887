package editor

import "image"

// State enumerates the interaction states of the editor. Exactly one
// interaction is active at a time.
type State int

const (
	StateIdle State = iota
	StateCreating
	StateSelected
	StateResizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCreating:
		return "creating"
	case StateSelected:
		return "selected"
	case StateResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Corner identifies a resize handle. Only two corners carry handles.
type Corner int

const (
	CornerNone Corner = iota
	CornerTopLeft
	CornerBottomRight
)

func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerBottomRight:
		return "bottom-right"
	default:
		return "none"
	}
}

// Style selects how a primitive is painted.
type Style int

const (
	StyleUnselected Style = iota
	StyleSelected
	StyleHandle
)

// PrimitiveKind distinguishes stroked outlines from filled squares.
type PrimitiveKind int

const (
	KindOutline PrimitiveKind = iota
	KindHandle
)

// Primitive is one drawable element in canvas space. Index is the box index
// it belongs to, or -1 for the draft rectangle.
type Primitive struct {
	Kind  PrimitiveKind
	Style Style
	Rect  image.Rectangle
	Index int
}

// Classes is the subset of the class registry used by the editor.
type Classes interface {
	Valid(id int) bool
	Default() int
}

// Limits holds the geometric tolerances of the editor.
type Limits struct {
	SizeMin    float64 // minimum accepted box side in image pixels
	HandleSize int     // side of the square hit region centered on a handle corner
}

// DefaultLimits mirrors the configuration defaults.
func DefaultLimits() Limits { return Limits{SizeMin: 10, HandleSize: 8} }

// Listener is notified after every visible change of editor state.
type Listener func()
