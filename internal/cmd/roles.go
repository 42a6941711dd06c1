package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RolesCmd returns the `teamselect roles` command.
func RolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles <person-id>",
		Short: "List the roles a person holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			roles, err := NewClient(cfg).GetPersonRoles(args[0])
			if err != nil {
				return fmt.Errorf("get roles: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(roles) == 0 {
				fmt.Fprintln(out, "no roles found")
				return nil
			}
			for _, r := range roles {
				fmt.Fprintf(out, "  %d  %s\n", r.PK, r.Label)
			}
			return nil
		},
	}
}
