package model

// KeyGate suppresses window-wide shortcuts while a widget that uses the same
// keys has focus. The zero value is open.
type KeyGate struct {
	held bool
}

// Hold blocks wrapped shortcuts until Release.
func (g *KeyGate) Hold() {
	if g != nil {
		g.held = true
	}
}

func (g *KeyGate) Release() {
	if g != nil {
		g.held = false
	}
}

// Open reports whether shortcuts may run.
func (g *KeyGate) Open() bool { return g == nil || !g.held }

// Wrap returns fn guarded by the gate. A nil fn yields a no-op.
func (g *KeyGate) Wrap(fn func()) func() {
	return func() {
		if fn != nil && g.Open() {
			fn()
		}
	}
}
