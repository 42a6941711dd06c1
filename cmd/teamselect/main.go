package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/teamselect/internal/cmd"
	"github.com/gravitrone/teamselect/internal/config"
	"github.com/gravitrone/teamselect/internal/logger"
	"github.com/gravitrone/teamselect/internal/teams"
	"github.com/gravitrone/teamselect/internal/ui"
)

// fieldFlags describe a single form field on the command line.
type fieldFlags struct {
	name               string
	selected           int64
	current            int64
	editing            bool
	disableCurrentTeam bool
	layout             string

	baseURL    string
	teamsPath  string
	debounceMS int
	searchMode string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRootCmd() *cobra.Command {
	var flags fieldFlags
	root := &cobra.Command{
		Use:   "teamselect",
		Short: "teamselect - pick People Finder teams",
		Long:  "teamselect loads the People Finder team hierarchy and lets you choose a team for each form field. On submit the chosen ids are printed as form values.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			if err := applyFlags(c, &flags, cfg); err != nil {
				return err
			}
			return runTUI(cfg, c.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	bindFlags(root, &flags)
	root.AddCommand(cmd.TreeCmd())
	root.AddCommand(cmd.RolesCmd())
	root.AddCommand(cmd.ConfigureCmd())
	return root
}

func bindFlags(c *cobra.Command, flags *fieldFlags) {
	f := c.Flags()
	f.StringVar(&flags.name, "name", "", "form field name; replaces the configured fields with one field")
	f.Int64Var(&flags.selected, "selected", 0, "initially selected team id")
	f.Int64Var(&flags.current, "current", 0, "id of the team being edited")
	f.BoolVar(&flags.editing, "editing", false, "start with the team tree open")
	f.BoolVar(&flags.disableCurrentTeam, "disable-current-team", false, "prevent choosing the current team or any team below it")
	f.StringVar(&flags.layout, "layout", "", "tree or drill")
	f.StringVar(&flags.baseURL, "url", "", "People Finder base URL")
	f.StringVar(&flags.teamsPath, "teams-path", "", "team list endpoint path")
	f.IntVar(&flags.debounceMS, "debounce", 0, "search debounce in milliseconds")
	f.StringVar(&flags.searchMode, "search-mode", "", "matching rule: word-prefix or substring")
}

// applyFlags overlays explicitly set flags on cfg. Any field flag collapses
// the form to a single field based on the first configured one.
func applyFlags(c *cobra.Command, flags *fieldFlags, cfg *config.Config) error {
	changed := c.Flags().Changed

	if changed("url") {
		cfg.BaseURL = flags.baseURL
	}
	if changed("teams-path") {
		cfg.TeamsPath = flags.teamsPath
	}
	if changed("debounce") {
		cfg.DebounceMS = &flags.debounceMS
	}
	if changed("search-mode") {
		cfg.SearchMode = flags.searchMode
	}

	fieldChanged := false
	for _, name := range []string{"name", "selected", "current", "editing", "disable-current-team", "layout"} {
		fieldChanged = fieldChanged || changed(name)
	}
	if fieldChanged {
		field := config.Field{Name: "team"}
		if len(cfg.Fields) > 0 {
			field = cfg.Fields[0]
		}
		if changed("name") {
			field.Name = flags.name
		}
		if changed("selected") {
			id := flags.selected
			field.SelectedTeamID = &id
		}
		if changed("current") {
			id := flags.current
			field.CurrentTeamID = &id
		}
		if changed("editing") {
			field.Editing = flags.editing
		}
		if changed("disable-current-team") {
			field.DisableCurrentTeam = flags.disableCurrentTeam
		}
		if changed("layout") {
			field.Layout = flags.layout
		}
		cfg.Fields = []config.Field{field}
	}

	cfg.ApplyDefaults()
	return cfg.Validate()
}

func runTUI(cfg *config.Config, out io.Writer) error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return fmt.Errorf("teamselect needs an interactive terminal; use 'teamselect tree' in scripts")
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := cmd.NewClient(cfg)
	logger.Info("starting", zap.String("base_url", client.BaseURL()), zap.Int("fields", len(cfg.Fields)))
	if cfg.APIKey == "" {
		logger.Warn("no api key configured, requests are unauthenticated")
	}
	app := ui.NewApp(teams.NewCache(client), cfg)

	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		logger.Error("tui exited with error", zap.Error(err))
		return fmt.Errorf("tui error: %w", err)
	}
	done, ok := final.(ui.App)
	if !ok || !done.Submitted() {
		logger.Debug("form closed without submit")
		return nil
	}
	fmt.Fprintln(out, done.FormValues().Encode())
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
