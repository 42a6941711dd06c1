package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gravitrone/teamselect/internal/api"
	"github.com/gravitrone/teamselect/internal/teams"
)

// Selector layouts.
const (
	LayoutTree  = "tree"
	LayoutDrill = "drill"
)

const defaultDebounceMS = 300

// Field describes one team-select form field, mirroring the attributes the
// host page puts on the widget.
type Field struct {
	Name               string `yaml:"name"`
	SelectedTeamID     *int64 `yaml:"selected_team_id,omitempty"`
	CurrentTeamID      *int64 `yaml:"current_team_id,omitempty"`
	Editing            bool   `yaml:"editing,omitempty"`
	DisableCurrentTeam bool   `yaml:"disable_current_team,omitempty"`
	Layout             string `yaml:"layout,omitempty"`
}

// Config holds CLI configuration stored at ~/.teamselect/config.
// A nil DebounceMS means unset; zero applies every keystroke at once.
type Config struct {
	BaseURL    string  `yaml:"base_url,omitempty"`
	APIKey     string  `yaml:"api_key,omitempty"`
	TeamsPath  string  `yaml:"teams_path,omitempty"`
	DebounceMS *int    `yaml:"debounce_ms,omitempty"`
	TimeoutSec int     `yaml:"timeout_seconds,omitempty"`
	SearchMode string  `yaml:"search_mode,omitempty"`
	VimKeys    bool    `yaml:"vim_keys"`
	LogLevel   string  `yaml:"log_level,omitempty"`
	LogFile    string  `yaml:"log_file,omitempty"`
	Fields     []Field `yaml:"fields,omitempty"`
}

// Dir returns the config directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".teamselect")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Default returns a config with every default applied and a single "team" field.
func Default() *Config {
	cfg := &Config{VimKeys: true}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads, defaults and validates the config file. Returns an error
// wrapping os.ErrNotExist if it is missing, or if it is readable by others.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{VimKeys: true}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}

// ApplyDefaults fills every unset value.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = api.DefaultBaseURL
	}
	if strings.TrimSpace(c.TeamsPath) == "" {
		c.TeamsPath = api.DefaultTeamsPath
	}
	if c.DebounceMS == nil {
		ms := defaultDebounceMS
		c.DebounceMS = &ms
	}
	if c.SearchMode == "" {
		c.SearchMode = string(teams.MatchWordPrefix)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(Dir(), "teamselect.log")
	}
	if len(c.Fields) == 0 {
		c.Fields = []Field{{Name: "team"}}
	}
	for i := range c.Fields {
		if c.Fields[i].Layout == "" {
			c.Fields[i].Layout = LayoutTree
		}
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.DebounceMS != nil && *c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative")
	}
	if c.TimeoutSec < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if _, err := teams.ParseMatchMode(c.SearchMode); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Fields))
	for i, f := range c.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("fields[%d]: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("fields[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
		switch f.Layout {
		case "", LayoutTree, LayoutDrill:
		default:
			return fmt.Errorf("fields[%d]: unknown layout %q", i, f.Layout)
		}
	}
	return nil
}

// Debounce returns the search quiet period.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMS == nil {
		return defaultDebounceMS * time.Millisecond
	}
	return time.Duration(*c.DebounceMS) * time.Millisecond
}

// Timeout returns the HTTP timeout, zero meaning the client default.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// MatchMode returns the parsed search mode, falling back to word-prefix.
func (c *Config) MatchMode() teams.MatchMode {
	mode, err := teams.ParseMatchMode(c.SearchMode)
	if err != nil {
		return teams.MatchWordPrefix
	}
	return mode
}
