package ui

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/gravitrone/teamselect/internal/api"
	"github.com/gravitrone/teamselect/internal/config"
	"github.com/gravitrone/teamselect/internal/logger"
	"github.com/gravitrone/teamselect/internal/teams"
	"github.com/gravitrone/teamselect/internal/ui/components"
)

type selectorState int

const (
	selectorUninitialized selectorState = iota
	selectorLoading
	selectorDisplay
	selectorEditing
	selectorFailed
)

func (s selectorState) String() string {
	switch s {
	case selectorLoading:
		return "loading"
	case selectorDisplay:
		return "display"
	case selectorEditing:
		return "editing"
	case selectorFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// --- Messages ---

type selectorAttachMsg struct{ selector int }

type teamsLoadedMsg struct {
	selector int
	teams    []api.Team
	err      error
}

type searchDebounceMsg struct {
	selector int
	version  int
}

// SelectionChangedMsg is emitted when the user picks a different team.
type SelectionChangedMsg struct {
	Field    string
	TeamID   int64
	TeamName string
}

// --- Rows ---

type rowKind int

const (
	rowTeam rowKind = iota
	rowNavUp
	rowNavDown
)

type treeRow struct {
	kind  rowKind
	id    int64
	depth int
}

// SelectorOptions are shared by every selector of a form.
type SelectorOptions struct {
	Path     string
	Mode     teams.MatchMode
	Debounce time.Duration
	VimKeys  bool
	Logger   *zap.Logger
}

// Selector is the team picker for one form field.
type Selector struct {
	id    int
	field config.Field
	cache *teams.Cache
	opts  SelectorOptions
	log   *zap.Logger

	state selectorState
	err   error

	tree      *teams.Tree
	expansion *teams.Expansion
	filter    teams.FilterResult

	initialID  int64
	selectedID int64
	currentID  int64
	hasCurrent bool

	search        textinput.Model
	searchFocused bool
	searchVersion int

	// drill layout only
	focusID int64

	rows []treeRow
	list *components.List

	focused bool
	width   int
	height  int
}

// NewSelector builds the selector for field. id routes the selector's
// messages and must be unique within a program.
func NewSelector(id int, field config.Field, cache *teams.Cache, opts SelectorOptions) Selector {
	if opts.Path == "" {
		opts.Path = api.DefaultTeamsPath
	}
	if opts.Mode == "" {
		opts.Mode = teams.MatchWordPrefix
	}
	if field.Layout == "" {
		field.Layout = config.LayoutTree
	}
	log := opts.Logger
	if log == nil {
		log = logger.WithModule("selector")
	}

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "New Corporate Tools"
	search.CharLimit = 128

	return Selector{
		id:        id,
		field:     field,
		cache:     cache,
		opts:      opts,
		log:       log.With(zap.String("field", field.Name)),
		expansion: teams.NewExpansion(),
		search:    search,
		list:      components.NewList(12),
	}
}

func (m Selector) Init() tea.Cmd {
	id := m.id
	return func() tea.Msg {
		return selectorAttachMsg{selector: id}
	}
}

func (m Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	switch msg := msg.(type) {
	case selectorAttachMsg:
		if msg.selector != m.id || m.state != selectorUninitialized {
			return m, nil
		}
		m.state = selectorLoading
		return m, m.loadTeams()
	case teamsLoadedMsg:
		if msg.selector != m.id || m.state != selectorLoading {
			return m, nil
		}
		m.applyTeams(msg.teams, msg.err)
		return m, nil
	case searchDebounceMsg:
		if msg.selector != m.id || msg.version != m.searchVersion || m.state != selectorEditing {
			return m, nil
		}
		m.applyFilter()
		return m, nil
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch m.state {
		case selectorDisplay:
			if isEnter(msg) || isKey(msg, "c") {
				m.startEditing()
			}
			return m, nil
		case selectorEditing:
			if m.searchFocused {
				return m.handleSearchKeys(msg)
			}
			if m.field.Layout == config.LayoutDrill {
				return m.handleDrillKeys(msg)
			}
			return m.handleTreeKeys(msg)
		}
	}
	return m, nil
}

func (m Selector) loadTeams() tea.Cmd {
	cache, path, id, log := m.cache, m.opts.Path, m.id, m.log
	return func() tea.Msg {
		log.Debug("loading teams", zap.String("path", path), zap.Bool("cached", cache.Cached(path)))
		list, err := cache.Get(context.Background(), path)
		return teamsLoadedMsg{selector: id, teams: list, err: err}
	}
}

func (m *Selector) applyTeams(list []api.Team, err error) {
	if err == nil {
		m.tree, err = teams.Build(list)
	}
	if err != nil {
		m.state = selectorFailed
		m.err = err
		m.log.Error("load teams failed", zap.String("path", m.opts.Path), zap.Error(err))
		return
	}

	m.selectedID = m.tree.RootID()
	if id := m.field.SelectedTeamID; id != nil && m.tree.Has(*id) {
		m.selectedID = *id
	}
	m.initialID = m.selectedID
	if id := m.field.CurrentTeamID; id != nil && m.tree.Has(*id) {
		m.currentID = *id
		m.hasCurrent = true
	}
	m.focusID = m.drillFocusFor(m.selectedID)
	m.log.Debug("teams loaded", zap.Int("count", m.tree.Len()), zap.Int64("selected", m.selectedID))

	m.state = selectorDisplay
	if m.field.Editing {
		m.startEditing()
	}
}

func (m *Selector) startEditing() {
	m.state = selectorEditing
	if m.field.Layout == config.LayoutDrill {
		m.focusID = m.drillFocusFor(m.selectedID)
	} else {
		for _, a := range m.tree.AncestorsOf(m.selectedID) {
			m.expansion.SetExpanded(a, true)
		}
	}
	m.rebuildRows()
	m.moveCursorTo(m.selectedID)
}

// --- Tree layout ---

func (m Selector) handleTreeKeys(msg tea.KeyMsg) (Selector, tea.Cmd) {
	vim := m.opts.VimKeys
	switch {
	case isUp(msg, vim):
		m.list.Up()
	case isDown(msg, vim):
		m.list.Down()
	case isRight(msg, vim):
		if row, ok := m.cursorRow(); ok && m.tree.HasChildren(row.id) && !m.expansion.IsExpanded(row.id) {
			m.toggleAt(m.list.Selected())
		}
	case isLeft(msg, vim):
		row, ok := m.cursorRow()
		if !ok {
			break
		}
		if m.expansion.IsExpanded(row.id) && m.tree.HasChildren(row.id) {
			m.toggleAt(m.list.Selected())
			break
		}
		if parent, ok := m.tree.ParentOf(row.id); ok {
			m.moveCursorTo(parent)
		}
	case isSpace(msg):
		m.toggleAt(m.list.Selected())
	case isEnter(msg):
		if row, ok := m.cursorRow(); ok {
			return m, m.selectTeam(row.id)
		}
	case isKey(msg, "/"):
		m.searchFocused = true
		return m, m.search.Focus()
	case isBack(msg):
		if m.filter.Active() {
			m.clearFilter()
		}
	}
	return m, nil
}

func (m Selector) handleSearchKeys(msg tea.KeyMsg) (Selector, tea.Cmd) {
	if isEnter(msg) || isBack(msg) || isKey(msg, "down") {
		m.searchFocused = false
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.searchVersion++
	return m, tea.Batch(cmd, m.debounce(m.searchVersion))
}

func (m Selector) debounce(version int) tea.Cmd {
	id := m.id
	fire := func(time.Time) tea.Msg {
		return searchDebounceMsg{selector: id, version: version}
	}
	if m.opts.Debounce <= 0 {
		return func() tea.Msg { return fire(time.Time{}) }
	}
	return tea.Tick(m.opts.Debounce, fire)
}

func (m *Selector) applyFilter() {
	cursorID, hadCursor := m.cursorID()
	m.filter = teams.Filter(m.tree, m.search.Value(), m.opts.Mode, m.expansion)
	m.rebuildRows()
	m.log.Debug("filter applied",
		zap.String("query", m.filter.Query),
		zap.Int("matches", len(m.filter.Matches)),
		zap.Int64s("expanded", m.expansion.Expanded()))
	if hadCursor && m.rowIndex(cursorID) >= 0 {
		m.moveCursorTo(cursorID)
		return
	}
	for i, row := range m.rows {
		if m.filter.IsMatch(row.id) {
			m.list.SetCursor(i)
			return
		}
	}
	m.list.SetCursor(0)
}

func (m *Selector) clearFilter() {
	cursorID, hadCursor := m.cursorID()
	m.search.SetValue("")
	m.searchVersion++
	m.filter = teams.FilterResult{}
	m.rebuildRows()
	if hadCursor {
		m.moveCursorTo(cursorID)
	}
}

// toggleAt flips the expansion of the row at idx and patches only the rows
// below it.
func (m *Selector) toggleAt(idx int) {
	if idx < 0 || idx >= len(m.rows) {
		return
	}
	row := m.rows[idx]
	if row.kind != rowTeam || !m.tree.HasChildren(row.id) {
		return
	}
	if m.expansion.Toggle(row.id) {
		var sub []treeRow
		for _, child := range m.tree.ChildrenOf(row.id) {
			sub = m.appendVisible(sub, child, row.depth+1)
		}
		m.rows = slices.Insert(m.rows, idx+1, sub...)
	} else {
		end := idx + 1
		for end < len(m.rows) && m.rows[end].depth > row.depth {
			end++
		}
		m.rows = slices.Delete(m.rows, idx+1, end)
	}
	m.syncList()
}

func (m Selector) buildTreeRows() []treeRow {
	return m.appendVisible(nil, m.tree.RootID(), 0)
}

func (m Selector) appendVisible(rows []treeRow, id int64, depth int) []treeRow {
	m.tree.WalkFrom(id, depth, func(team int64, level int) bool {
		if !m.filter.Visible(m.tree, team) {
			return false
		}
		rows = append(rows, treeRow{kind: rowTeam, id: team, depth: level})
		return m.expansion.IsExpanded(team)
	})
	return rows
}

// --- Drill layout ---

func (m Selector) handleDrillKeys(msg tea.KeyMsg) (Selector, tea.Cmd) {
	vim := m.opts.VimKeys
	switch {
	case isUp(msg, vim):
		m.list.Up()
	case isDown(msg, vim):
		m.list.Down()
	case isLeft(msg, vim):
		if parent, ok := m.tree.ParentOf(m.focusID); ok {
			m.drillTo(parent)
		}
	case isRight(msg, vim):
		if row, ok := m.cursorRow(); ok && row.kind == rowNavDown {
			m.drillTo(row.id)
		}
	case isEnter(msg):
		row, ok := m.cursorRow()
		if !ok {
			break
		}
		if row.kind == rowTeam {
			return m, m.selectTeam(row.id)
		}
		m.drillTo(row.id)
	}
	return m, nil
}

func (m *Selector) drillTo(id int64) {
	m.focusID = id
	m.rebuildRows()
	m.moveCursorTo(id)
}

// drillFocusFor picks the team whose level shows id as selectable: a branch
// is focused itself, a leaf through its parent.
func (m Selector) drillFocusFor(id int64) int64 {
	if m.tree.HasChildren(id) {
		return id
	}
	if parent, ok := m.tree.ParentOf(id); ok {
		return parent
	}
	return id
}

func (m Selector) buildDrillRows() []treeRow {
	var rows []treeRow
	if parent, ok := m.tree.ParentOf(m.focusID); ok {
		rows = append(rows, treeRow{kind: rowNavUp, id: parent})
	}
	rows = append(rows, treeRow{kind: rowTeam, id: m.focusID})
	for _, child := range m.tree.ChildrenOf(m.focusID) {
		kind := rowTeam
		if m.tree.HasChildren(child) {
			kind = rowNavDown
		}
		rows = append(rows, treeRow{kind: kind, id: child, depth: 1})
	}
	return rows
}

// --- Selection ---

func (m *Selector) selectTeam(id int64) tea.Cmd {
	if m.isDisabled(id) {
		m.log.Debug("disabled team ignored", zap.Int64("team_id", id))
		return nil
	}
	if id == m.selectedID {
		return nil
	}
	m.selectedID = id
	name := m.tree.Name(id)
	m.log.Debug("team selected", zap.Int64("team_id", id), zap.String("team_name", name))

	field := m.field.Name
	return func() tea.Msg {
		return SelectionChangedMsg{Field: field, TeamID: id, TeamName: name}
	}
}

func (m Selector) isDisabled(id int64) bool {
	return m.field.DisableCurrentTeam && m.hasCurrent && m.tree.IsWithin(id, m.currentID)
}

// --- Row helpers ---

func (m *Selector) rebuildRows() {
	if m.field.Layout == config.LayoutDrill {
		m.rows = m.buildDrillRows()
	} else {
		m.rows = m.buildTreeRows()
	}
	m.syncList()
}

func (m *Selector) syncList() {
	items := make([]string, len(m.rows))
	for i, row := range m.rows {
		items[i] = m.tree.Name(row.id)
	}
	m.list.Replace(items)
}

func (m Selector) rowIndex(id int64) int {
	for i, row := range m.rows {
		if row.id == id {
			return i
		}
	}
	return -1
}

func (m *Selector) moveCursorTo(id int64) {
	if idx := m.rowIndex(id); idx >= 0 {
		m.list.SetCursor(idx)
	}
}

func (m Selector) cursorRow() (treeRow, bool) {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.rows) {
		return treeRow{}, false
	}
	return m.rows[idx], true
}

func (m Selector) cursorID() (int64, bool) {
	row, ok := m.cursorRow()
	return row.id, ok
}

func (m *Selector) setSize(width, height int) {
	m.width = width
	m.height = height
	page := height - 8
	if page < 3 {
		page = 3
	}
	m.list.SetPageSize(page)
}

// --- Accessors ---

// Field returns the form field name.
func (m Selector) Field() string {
	return m.field.Name
}

// Loaded reports whether the team list is available.
func (m Selector) Loaded() bool {
	return m.state == selectorDisplay || m.state == selectorEditing
}

// SelectedTeam returns the selected team once loaded.
func (m Selector) SelectedTeam() (api.Team, bool) {
	if !m.Loaded() {
		return api.Team{}, false
	}
	return m.tree.Team(m.selectedID)
}

// FormValue returns the field name and the selected team id as submitted by
// the host form.
func (m Selector) FormValue() (string, string, bool) {
	if !m.Loaded() {
		return m.field.Name, "", false
	}
	return m.field.Name, strconv.FormatInt(m.selectedID, 10), true
}

// Changed reports whether the selection differs from the initial one.
func (m Selector) Changed() bool {
	return m.Loaded() && m.selectedID != m.initialID
}

// CapturingInput reports whether keys are going to the search field.
func (m Selector) CapturingInput() bool {
	return m.state == selectorEditing && m.searchFocused
}
