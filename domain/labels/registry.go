package labels

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoClasses      = errors.New("at least one class is required")
	ErrBlankClass     = errors.New("class name is blank")
	ErrDuplicateClass = errors.New("duplicate class name")
)

// Registry maps class names to stable ids. Ids follow registration order and
// never change after construction. The zero value has no classes.
type Registry struct {
	names []string
	ids   map[string]int
}

// New builds a registry from an ordered list of class names.
func New(names []string) (*Registry, error) {
	if len(names) == 0 {
		return nil, ErrNoClasses
	}
	r := &Registry{names: make([]string, 0, len(names)), ids: make(map[string]int, len(names))}
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, fmt.Errorf("class %d: %w", i, ErrBlankClass)
		}
		if _, dup := r.ids[n]; dup {
			return nil, fmt.Errorf("class %q: %w", n, ErrDuplicateClass)
		}
		r.ids[n] = len(r.names)
		r.names = append(r.names, n)
	}
	return r, nil
}

// Names returns the class names ordered by id.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

func (r *Registry) IDOf(name string) (int, bool) {
	if r == nil {
		return 0, false
	}
	id, ok := r.ids[strings.TrimSpace(name)]
	return id, ok
}

func (r *Registry) NameOf(id int) (string, bool) {
	if !r.Valid(id) {
		return "", false
	}
	return r.names[id], true
}

// Valid reports whether id names a registered class.
func (r *Registry) Valid(id int) bool {
	return r != nil && id >= 0 && id < len(r.names)
}

// Default is the class assigned to freshly drawn boxes.
func (r *Registry) Default() int { return 0 }
