package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/teamselect/internal/config"
)

// RunConfigure prompts for the API base URL and token and persists them.
// Blank answers keep the current values.
func RunConfigure(in io.Reader, out io.Writer) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "base url [%s]: ", cfg.BaseURL)
	baseURL, _ := reader.ReadString('\n')
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			return fmt.Errorf("base url must start with http:// or https://")
		}
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	fmt.Fprint(out, "api token (blank to keep): ")
	token, _ := reader.ReadString('\n')
	if token = strings.TrimSpace(token); token != "" {
		cfg.APIKey = token
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// ConfigureCmd returns the `teamselect configure` command.
func ConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Set the People Finder URL and API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunConfigure(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
