package ui

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gravitrone/teamselect/internal/api"
	"github.com/gravitrone/teamselect/internal/config"
	"github.com/gravitrone/teamselect/internal/teams"
)

type stubSource struct {
	mu    sync.Mutex
	teams []api.Team
	err   error
	calls int
}

func (s *stubSource) ListTeams(string) ([]api.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.teams, s.err
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func team(id int64, name string, parent ...int64) api.Team {
	t := api.Team{ID: id, Name: name}
	if len(parent) > 0 {
		p := parent[0]
		t.ParentID = &p
	}
	return t
}

func int64Ptr(v int64) *int64 {
	return &v
}

// orgPayroll is the Org > Finance > Payroll chain.
func orgPayroll() []api.Team {
	return []api.Team{
		team(1, "Org"),
		team(2, "Finance", 1),
		team(3, "Payroll", 2),
	}
}

func sampleTeams() []api.Team {
	return []api.Team{
		team(1, "Department for Business"),
		team(2, "Corporate Finance", 1),
		team(3, "Payroll", 2),
		team(4, "Digital", 1),
		team(5, "New Corporate Tools", 4),
		team(6, "Refinance Unit", 4),
		team(7, "Finance Operations", 2),
	}
}

func testOptions() SelectorOptions {
	return SelectorOptions{
		Mode:    teams.MatchWordPrefix,
		VimKeys: true,
		Logger:  zap.NewNop(),
	}
}

// loadSelector attaches a selector and delivers the fetch result.
func loadSelector(t *testing.T, field config.Field, src teams.Source, opts SelectorOptions) Selector {
	t.Helper()
	s := NewSelector(0, field, teams.NewCache(src), opts)
	s, cmd := s.Update(s.Init()())
	require.Equal(t, selectorLoading, s.state)
	require.NotNil(t, cmd)
	s, _ = s.Update(cmd())
	return s
}

func press(s Selector, keys ...tea.KeyMsg) (Selector, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		s, cmd = s.Update(k)
	}
	return s, cmd
}

func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyEsc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEsc} }
func keyUp() tea.KeyMsg    { return tea.KeyMsg{Type: tea.KeyUp} }
func keyDown() tea.KeyMsg  { return tea.KeyMsg{Type: tea.KeyDown} }
func keyLeft() tea.KeyMsg  { return tea.KeyMsg{Type: tea.KeyLeft} }
func keyRight() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRight} }
func keySpace() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeySpace} }

// typeQuery focuses the search field and types q, returning the selector
// before any debounce tick has been delivered.
func typeQuery(s Selector, q string) Selector {
	s, _ = s.Update(runeKey('/'))
	for _, r := range q {
		s, _ = s.Update(runeKey(r))
	}
	return s
}

// settle delivers the pending debounce tick for the latest query.
func settle(s Selector) Selector {
	s, _ = s.Update(searchDebounceMsg{selector: s.id, version: s.searchVersion})
	return s
}

func rowIDs(s Selector) []int64 {
	out := make([]int64, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row.id)
	}
	return out
}
