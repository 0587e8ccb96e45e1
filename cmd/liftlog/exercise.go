package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/catalog"
)

var (
	exerciseQuery  string
	exerciseRecent bool
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage exercises of the session and the catalog",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add an exercise to the active session",
	Long: `Add an exercise to the active session before recording sets.

NAME may be a preset in either language (e.g. "Deadlift" or "硬舉") or any
custom name. Missing catalog entries are created.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.loadActive(ctx); err != nil {
			return err
		}
		e, err := app.resolveExercise(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := app.saveSession(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s", exerciseName(e, app.lang))
		if last := app.mgr.LastTime(e.ID); last != "" {
			faint.Fprintf(cmd.OutOrStdout(), "  last time %s", last)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var exerciseRemoveCmd = &cobra.Command{
	Use:     "remove BLOCK",
	Aliases: []string{"rm"},
	Short:   "Remove an exercise that has no sets yet",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.loadActive(cmd.Context()); err != nil {
			return err
		}
		e, ok := blockExercise(app.mgr.View(), args[0])
		if !ok {
			return fmt.Errorf("block %s does not exist", args[0])
		}
		if !app.mgr.RemoveExercise(e.ID) {
			return fmt.Errorf("%s already has sets; delete them first", exerciseName(e, app.lang))
		}
		if err := app.saveSession(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", exerciseName(e, app.lang))
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog exercises",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := app.picker(cmd.Context())
		if err != nil {
			return err
		}
		list := p.Search(exerciseQuery)
		if exerciseRecent {
			list = catalog.Recent(list, catalog.RecentLimit)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No exercises found.")
			return nil
		}
		for _, e := range list {
			used := "never"
			if e.LastUsedAt != nil {
				used = e.LastUsedAt.Local().Format("2006-01-02")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-40s %s\n", faint.Sprint(e.ID), exerciseName(e, app.lang), faint.Sprint(used))
		}
		return nil
	},
}

var exercisePresetsCmd = &cobra.Command{
	Use:   "presets [CATEGORY]",
	Short: "Show preset exercises by muscle group",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang := catalog.Lang(langFlag)
		cats := catalog.Categories
		if len(args) == 1 {
			c, ok := catalog.FindCategory(args[0])
			if !ok {
				return fmt.Errorf("unknown category %q", args[0])
			}
			cats = []catalog.Category{c}
		}
		for _, c := range cats {
			fmt.Fprintln(cmd.OutOrStdout(), bold.Sprint(c.Label.DisplayName(lang)))
			for _, it := range c.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", it.DisplayName(lang))
			}
		}
		return nil
	},
}

func init() {
	exerciseListCmd.Flags().StringVarP(&exerciseQuery, "query", "q", "", "filter by name")
	exerciseListCmd.Flags().BoolVar(&exerciseRecent, "recent", false, "only the most recently used")
	exerciseCmd.AddCommand(exerciseAddCmd, exerciseRemoveCmd, exerciseListCmd, exercisePresetsCmd)
	rootCmd.AddCommand(exerciseCmd)
}
