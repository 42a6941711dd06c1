package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/teamselect/internal/teams"
)

// TreeCmd returns the `teamselect tree` command.
func TreeCmd() *cobra.Command {
	var query, mode string
	var flat bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the team hierarchy",
		Long:  "Fetch the team list and print it as an indented hierarchy. With --query only matching teams, their ancestors and their subtrees are printed; matches are marked with *. With --flat each team is printed in source order as tab-separated id, parent id, depth and name.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			matchMode := cfg.MatchMode()
			if cmd.Flags().Changed("search-mode") {
				if matchMode, err = teams.ParseMatchMode(mode); err != nil {
					return err
				}
			}

			list, err := teams.NewCache(NewClient(cfg)).Get(cmd.Context(), cfg.TeamsPath)
			if err != nil {
				return fmt.Errorf("load teams: %w", err)
			}
			tree, err := teams.Build(list)
			if err != nil {
				return err
			}
			res := teams.Filter(tree, query, matchMode, nil)
			if res.Active() && len(res.Matches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no teams match %q\n", query)
				return nil
			}
			if flat {
				return RenderFlat(cmd.OutOrStdout(), tree, res)
			}
			return RenderTree(cmd.OutOrStdout(), tree, res)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only show teams matching this search")
	cmd.Flags().StringVar(&mode, "search-mode", "", "matching rule: word-prefix or substring")
	cmd.Flags().BoolVar(&flat, "flat", false, "print tab-separated rows in source order")
	return cmd
}

// RenderTree writes one line per team, indented by depth, children in source
// order. Teams hidden by an active filter are skipped.
func RenderTree(w io.Writer, tree *teams.Tree, res teams.FilterResult) error {
	var err error
	tree.Walk(func(id int64, depth int) bool {
		if err != nil || !res.Visible(tree, id) {
			return false
		}
		mark := ""
		if res.IsMatch(id) {
			mark = " *"
		}
		_, err = fmt.Fprintf(w, "%s%s (%d)%s\n", strings.Repeat("  ", depth), tree.Name(id), id, mark)
		return true
	})
	return err
}

// RenderFlat writes one tab-separated row per visible team in source order:
// id, parent id (empty for the root), depth, name.
func RenderFlat(w io.Writer, tree *teams.Tree, res teams.FilterResult) error {
	for _, t := range tree.Teams() {
		if !res.Visible(tree, t.ID) {
			continue
		}
		parent := ""
		if t.ParentID != nil {
			parent = strconv.FormatInt(*t.ParentID, 10)
		}
		name := strings.ReplaceAll(t.Name, "\t", " ")
		if _, err := fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", t.ID, parent, tree.Depth(t.ID), name); err != nil {
			return err
		}
	}
	return nil
}
