// Package teams holds the team hierarchy model behind the team selector:
// the relation index built from the flat team list, per-widget expansion
// state, search filtering and the shared fetch cache.
package teams

import (
	"github.com/gravitrone/teamselect/internal/api"
)

// Tree is the relation index over an immutable flat team list.
//
// Parent references must point at teams in the list and must not form a
// cycle. Neither is checked.
type Tree struct {
	order    []int64
	byID     map[int64]api.Team
	children map[int64][]int64
	root     int64
}

// Build indexes the flat list in a single pass. Child order follows source order.
// If several teams lack a parent the first one is the root.
func Build(list []api.Team) (*Tree, error) {
	t := &Tree{
		order:    make([]int64, 0, len(list)),
		byID:     make(map[int64]api.Team, len(list)),
		children: make(map[int64][]int64),
	}
	haveRoot := false
	for _, team := range list {
		t.order = append(t.order, team.ID)
		t.byID[team.ID] = team
		if team.ParentID == nil {
			if !haveRoot {
				t.root = team.ID
				haveRoot = true
			}
			continue
		}
		parent := *team.ParentID
		t.children[parent] = append(t.children[parent], team.ID)
	}
	if !haveRoot {
		return nil, ErrNoRootTeam
	}
	return t, nil
}

// Root returns the root team.
func (t *Tree) Root() api.Team {
	return t.byID[t.root]
}

// RootID returns the id of the root team.
func (t *Tree) RootID() int64 {
	return t.root
}

// Len returns the number of teams.
func (t *Tree) Len() int {
	return len(t.order)
}

// Has reports whether id is a known team.
func (t *Tree) Has(id int64) bool {
	_, ok := t.byID[id]
	return ok
}

// Team looks up a team by id.
func (t *Tree) Team(id int64) (api.Team, bool) {
	team, ok := t.byID[id]
	return team, ok
}

// Name returns the team name, or "" for unknown ids.
func (t *Tree) Name(id int64) string {
	return t.byID[id].Name
}

// Teams returns every team in source order.
func (t *Tree) Teams() []api.Team {
	out := make([]api.Team, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// ChildrenOf returns the immediate children of id in source order.
// The returned slice is shared and must not be modified.
func (t *Tree) ChildrenOf(id int64) []int64 {
	return t.children[id]
}

// HasChildren reports whether id has at least one child.
func (t *Tree) HasChildren(id int64) bool {
	return len(t.children[id]) > 0
}

// ParentOf returns the parent id of id, if any.
func (t *Tree) ParentOf(id int64) (int64, bool) {
	team, ok := t.byID[id]
	if !ok || team.ParentID == nil {
		return 0, false
	}
	return *team.ParentID, true
}

// AncestorsOf walks parent links from id up to the root, nearest first.
// The team itself is excluded; the root yields an empty slice.
func (t *Tree) AncestorsOf(id int64) []int64 {
	var out []int64
	cur := id
	for range t.order {
		parent, ok := t.ParentOf(cur)
		if !ok {
			break
		}
		out = append(out, parent)
		cur = parent
	}
	return out
}

// Depth is the number of ancestors of id.
func (t *Tree) Depth(id int64) int {
	return len(t.AncestorsOf(id))
}

// IsWithin reports whether id is ancestor itself or one of its descendants.
func (t *Tree) IsWithin(id, ancestor int64) bool {
	if id == ancestor {
		return true
	}
	for _, a := range t.AncestorsOf(id) {
		if a == ancestor {
			return true
		}
	}
	return false
}

// Walk visits the hierarchy depth-first in pre-order starting at the root,
// children in source order. Returning false from fn skips that team's subtree.
func (t *Tree) Walk(fn func(id int64, depth int) bool) {
	t.walkFrom(t.root, 0, fn)
}

// WalkFrom is Walk rooted at id.
func (t *Tree) WalkFrom(id int64, depth int, fn func(id int64, depth int) bool) {
	t.walkFrom(id, depth, fn)
}

func (t *Tree) walkFrom(id int64, depth int, fn func(id int64, depth int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, child := range t.children[id] {
		t.walkFrom(child, depth+1, fn)
	}
}
