package model

// NavigationModel tracks which image is displayed and how many images carry
// annotations. It is decoupled from the UI; presenters read Current() before
// saving. The zero value has no open image and is ready to use.
type NavigationModel struct {
	open      bool
	key       string
	width     int
	height    int
	annotated int
}

// NewNavigationModel returns a pointer to a ready-to-use NavigationModel.
func NewNavigationModel() *NavigationModel { return &NavigationModel{} }

// Open records the displayed image and its pixel size.
func (m *NavigationModel) Open(key string, width, height int) {
	if m == nil {
		return
	}
	m.open = true
	m.key = key
	m.width, m.height = width, height
}

// Close forgets the displayed image.
func (m *NavigationModel) Close() {
	if m == nil {
		return
	}
	*m = NavigationModel{annotated: m.annotated}
}

// Current returns the displayed image key and size. ok is false before the
// first image is opened.
func (m *NavigationModel) Current() (key string, width, height int, ok bool) {
	if m == nil || !m.open {
		return "", 0, 0, false
	}
	return m.key, m.width, m.height, true
}

// SetAnnotated stores the number of images with at least one record.
func (m *NavigationModel) SetAnnotated(n int) {
	if m == nil || n < 0 {
		return
	}
	m.annotated = n
}

func (m *NavigationModel) Annotated() int {
	if m == nil {
		return 0
	}
	return m.annotated
}
