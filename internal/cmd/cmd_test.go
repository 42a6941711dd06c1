package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/teamselect/internal/api"
	"github.com/gravitrone/teamselect/internal/config"
	"github.com/gravitrone/teamselect/internal/teams"
)

func teamsPayload() []map[string]any {
	return []map[string]any{
		{"team_id": 1, "team_name": "Department for Business", "parent_id": nil, "parent_name": nil},
		{"team_id": 2, "team_name": "Corporate Finance", "parent_id": 1, "parent_name": "Department for Business"},
		{"team_id": 3, "team_name": "Payroll", "parent_id": 2, "parent_name": "Corporate Finance"},
		{"team_id": 4, "team_name": "Digital", "parent_id": 1, "parent_name": "Department for Business"},
	}
}

// configuredServer starts handler and points a fresh HOME config at it.
func configuredServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.APIKey = "pf_testkey"
	require.NoError(t, cfg.Save())
	return srv
}

func teamsHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != api.DefaultTeamsPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "Bearer pf_testkey", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(teamsPayload())
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, []config.Field{{Name: "team", Layout: config.LayoutTree}}, cfg.Fields)
}

func TestLoadConfigSurfacesInvalidFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.MkdirAll(config.Dir(), 0700))
	require.NoError(t, os.WriteFile(config.Path(), []byte("search_mode: fuzzy\n"), 0600))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestTreeCmdPrintsHierarchy(t *testing.T) {
	configuredServer(t, teamsHandler(t))

	var out bytes.Buffer
	cmd := TreeCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, strings.Join([]string{
		"Department for Business (1)",
		"  Corporate Finance (2)",
		"    Payroll (3)",
		"  Digital (4)",
		"",
	}, "\n"), out.String())
}

func TestTreeCmdQueryMarksMatches(t *testing.T) {
	configuredServer(t, teamsHandler(t))

	var out bytes.Buffer
	cmd := TreeCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--query", "fin"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, strings.Join([]string{
		"Department for Business (1)",
		"  Corporate Finance (2) *",
		"    Payroll (3)",
		"",
	}, "\n"), out.String())
}

func TestTreeCmdSearchModeFlag(t *testing.T) {
	configuredServer(t, teamsHandler(t))

	var out bytes.Buffer
	cmd := TreeCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--query", "roll", "--search-mode", "substring"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Payroll (3) *")

	out.Reset()
	cmd = TreeCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--query", "roll"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "no teams match \"roll\"\n", out.String())

	cmd = TreeCmd()
	cmd.SetArgs([]string{"--search-mode", "fuzzy"})
	assert.Error(t, cmd.Execute())
}

func TestTreeCmdFetchFailure(t *testing.T) {
	configuredServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"maintenance"}`))
	})

	cmd := TreeCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, teams.ErrFetchFailed)
	assert.Contains(t, err.Error(), "maintenance")
}

func TestTreeCmdFlatListsSourceOrderWithDepth(t *testing.T) {
	configuredServer(t, teamsHandler(t))

	var out bytes.Buffer
	cmd := TreeCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--flat"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, strings.Join([]string{
		"1\t\t0\tDepartment for Business",
		"2\t1\t1\tCorporate Finance",
		"3\t2\t2\tPayroll",
		"4\t1\t1\tDigital",
		"",
	}, "\n"), out.String())

	out.Reset()
	cmd = TreeCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--flat", "--query", "digital"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "1\t\t0\tDepartment for Business\n4\t1\t1\tDigital\n", out.String())
}

func TestRenderTreeWithoutFilterPrintsAll(t *testing.T) {
	parent := int64(1)
	tree, err := teams.Build([]api.Team{
		{ID: 1, Name: "Org"},
		{ID: 2, Name: "Finance", ParentID: &parent},
		{ID: 3, Name: "Finance", ParentID: &parent},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, RenderTree(&out, tree, teams.FilterResult{}))
	assert.Equal(t, "Org (1)\n  Finance (2)\n  Finance (3)\n", out.String())
}

func TestRolesCmdListsRoles(t *testing.T) {
	configuredServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content/get-user-roles/42/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"person_roles":[{"pk":7,"label":"Head of Payroll"},{"pk":9,"label":"Digital lead"}]}`))
	})

	var out bytes.Buffer
	cmd := RolesCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"42"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "  7  Head of Payroll\n  9  Digital lead\n", out.String())
}

func TestRolesCmdEmpty(t *testing.T) {
	configuredServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"person_roles":[]}`))
	})

	var out bytes.Buffer
	cmd := RolesCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"42"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "no roles found\n", out.String())
}

func TestRolesCmdRequiresPersonID(t *testing.T) {
	cmd := RolesCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}

func TestConfigureCmdSavesURLAndToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := ConfigureCmd()
	cmd.SetIn(strings.NewReader("https://peoplefinder.example.gov.uk/\npf_secret\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "config saved to "+config.Path())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://peoplefinder.example.gov.uk", cfg.BaseURL)
	assert.Equal(t, "pf_secret", cfg.APIKey)
}

func TestConfigureBlankAnswersKeepValues(t *testing.T) {
	configuredServer(t, teamsHandler(t))
	before, err := config.Load()
	require.NoError(t, err)

	require.NoError(t, RunConfigure(strings.NewReader("\n\n"), &bytes.Buffer{}))

	after, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, before.BaseURL, after.BaseURL)
	assert.Equal(t, "pf_testkey", after.APIKey)
}

func TestConfigureRejectsBadURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := RunConfigure(strings.NewReader("peoplefinder\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http://")
}
