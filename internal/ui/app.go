package ui

import (
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/gravitrone/teamselect/internal/config"
	"github.com/gravitrone/teamselect/internal/logger"
	"github.com/gravitrone/teamselect/internal/teams"
	"github.com/gravitrone/teamselect/internal/ui/components"
)

// --- App Model ---

// App is the root TUI model: a form with one team selector per field.
type App struct {
	selectors   []Selector
	focus       int
	width       int
	height      int
	quitConfirm bool
	submitted   bool
	status      string
	log         *zap.Logger
}

// NewApp creates the form for cfg. All selectors share cache, so the team
// list is fetched once.
func NewApp(cache *teams.Cache, cfg *config.Config) App {
	opts := SelectorOptions{
		Path:     cfg.TeamsPath,
		Mode:     cfg.MatchMode(),
		Debounce: cfg.Debounce(),
		VimKeys:  cfg.VimKeys,
	}
	return newApp(cache, cfg.Fields, opts)
}

func newApp(cache *teams.Cache, fields []config.Field, opts SelectorOptions) App {
	a := App{
		selectors: make([]Selector, 0, len(fields)),
		log:       logger.WithModule("app"),
	}
	for i, field := range fields {
		a.selectors = append(a.selectors, NewSelector(i, field, cache, opts))
	}
	if len(a.selectors) > 0 {
		a.selectors[0].focused = true
	}
	return a
}

func (a App) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.selectors))
	for _, s := range a.selectors {
		cmds = append(cmds, s.Init())
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for i := range a.selectors {
			a.selectors[i].setSize(msg.Width, a.selectorHeight())
		}
		return a, nil
	case selectorAttachMsg:
		return a.route(msg.selector, msg)
	case teamsLoadedMsg:
		return a.route(msg.selector, msg)
	case searchDebounceMsg:
		return a.route(msg.selector, msg)
	case SelectionChangedMsg:
		a.status = fmt.Sprintf("%s: %s", msg.Field, msg.TeamName)
		a.log.Info("selection changed", zap.String("field", msg.Field), zap.Int64("team_id", msg.TeamID))
		return a, nil
	case tea.KeyMsg:
		return a.handleKeys(msg)
	}
	return a, nil
}

func (a App) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.quitConfirm {
		switch {
		case isKey(msg, "y"):
			return a, tea.Quit
		case isKey(msg, "n"), isBack(msg):
			a.quitConfirm = false
		}
		return a, nil
	}

	if isSubmit(msg) {
		a.submitted = true
		a.log.Info("form submitted", zap.String("values", a.FormValues().Encode()))
		return a, tea.Quit
	}

	capturing := a.focusedCapturing()
	if isKey(msg, "ctrl+c") || (!capturing && isQuit(msg)) {
		if a.Changed() {
			a.quitConfirm = true
			return a, nil
		}
		return a, tea.Quit
	}
	if !capturing {
		switch {
		case isNextField(msg):
			a.moveFocus(1)
			return a, nil
		case isPrevField(msg):
			a.moveFocus(-1)
			return a, nil
		}
	}

	if len(a.selectors) == 0 {
		return a, nil
	}
	var cmd tea.Cmd
	a.selectors[a.focus], cmd = a.selectors[a.focus].Update(msg)
	return a, cmd
}

func (a App) route(id int, msg tea.Msg) (tea.Model, tea.Cmd) {
	if id < 0 || id >= len(a.selectors) {
		return a, nil
	}
	var cmd tea.Cmd
	a.selectors[id], cmd = a.selectors[id].Update(msg)
	return a, cmd
}

func (a *App) moveFocus(delta int) {
	n := len(a.selectors)
	if n < 2 {
		return
	}
	a.selectors[a.focus].focused = false
	a.focus = (a.focus + delta + n) % n
	a.selectors[a.focus].focused = true
}

func (a App) focusedCapturing() bool {
	if len(a.selectors) == 0 {
		return false
	}
	return a.selectors[a.focus].CapturingInput()
}

func (a App) selectorHeight() int {
	if len(a.selectors) == 0 {
		return a.height
	}
	// banner and status bar take roughly ten lines
	return a.height - 10 - 4*(len(a.selectors)-1)
}

// Changed reports whether any field differs from its initial selection.
func (a App) Changed() bool {
	for _, s := range a.selectors {
		if s.Changed() {
			return true
		}
	}
	return false
}

// Submitted reports whether the form was submitted rather than abandoned.
func (a App) Submitted() bool {
	return a.submitted
}

// FormValues returns the loaded fields as form values.
func (a App) FormValues() url.Values {
	values := url.Values{}
	for _, s := range a.selectors {
		if name, value, ok := s.FormValue(); ok {
			values.Set(name, value)
		}
	}
	return values
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)

	var content string
	if a.quitConfirm {
		content = centerBlockUniform(a.renderQuitConfirm(), a.width)
	} else {
		parts := make([]string, 0, len(a.selectors))
		for _, s := range a.selectors {
			parts = append(parts, s.View())
		}
		content = centerBlockUniform(strings.Join(parts, "\n"), a.width)
	}

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.status != "" && !a.quitConfirm {
		feedback = "\n\n" + centerBlock(SuccessStyle.Render(components.SanitizeOneLine(a.status)), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s%s", banner, content, hints, feedback)
}

func (a App) statusHints() []string {
	if a.quitConfirm {
		return []string{
			components.Hint("y", "Confirm"),
			components.Hint("n", "Cancel"),
		}
	}
	var hints []string
	if len(a.selectors) > 0 {
		hints = append(hints, a.selectors[a.focus].statusHints()...)
	}
	if len(a.selectors) > 1 {
		hints = append(hints, components.Hint("tab", "Next field"))
	}
	return append(hints,
		components.Hint("ctrl+s", "Submit"),
		components.Hint("q", "Quit"),
	)
}

func (a App) renderQuitConfirm() string {
	body := "Your team selection has not been submitted. Quit anyway?"
	return components.Indent(components.ConfirmDialog("Quit", body), 1)
}

func centerBlock(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lineWidth := lipgloss.Width(line)
		if lineWidth >= width {
			continue
		}
		pad := (width - lineWidth) / 2
		lines[i] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(lines, "\n")
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth >= width {
		return s
	}
	pad := strings.Repeat(" ", (width-maxWidth)/2)
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
