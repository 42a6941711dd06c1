package teams

import "slices"

// Expansion tracks which branch teams show their children.
// Absent entries are collapsed.
type Expansion struct {
	open map[int64]bool
}

// NewExpansion returns an empty store with every team collapsed.
func NewExpansion() *Expansion {
	return &Expansion{open: make(map[int64]bool)}
}

// IsExpanded reports whether id is expanded.
func (e *Expansion) IsExpanded(id int64) bool {
	return e.open[id]
}

// SetExpanded sets the flag for id.
func (e *Expansion) SetExpanded(id int64, expanded bool) {
	if expanded {
		e.open[id] = true
		return
	}
	delete(e.open, id)
}

// Toggle flips id and returns the new value.
func (e *Expansion) Toggle(id int64) bool {
	next := !e.open[id]
	e.SetExpanded(id, next)
	return next
}

// Expanded returns the expanded ids in ascending order.
func (e *Expansion) Expanded() []int64 {
	out := make([]int64, 0, len(e.open))
	for id := range e.open {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
