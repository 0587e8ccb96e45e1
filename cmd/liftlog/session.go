package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/tracker"
)

var finishYes bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a session, or resume the active one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		err := app.loadActive(ctx)
		switch {
		case err == nil:
			fmt.Fprintln(cmd.OutOrStdout(), "Resuming active session.")
		case errors.Is(err, tracker.ErrNoActiveSession):
			s, err := app.mgr.Start(ctx)
			if err != nil {
				return err
			}
			if err := app.saveSession(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s session %s started\n", color.GreenString("✓"), s.ID)
		default:
			return err
		}
		renderView(cmd.OutOrStdout(), app.mgr.View(), app.lang)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show the active session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.loadActive(cmd.Context()); err != nil {
			return err
		}
		renderView(cmd.OutOrStdout(), app.mgr.View(), app.lang)
		return nil
	},
}

var finishCmd = &cobra.Command{
	Use:   "finish",
	Short: "End the active session",
	Long: `End the active session. A session without sets does not appear in
history; finishing one requires --yes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.loadActive(ctx); err != nil {
			return err
		}
		if app.mgr.NeedsEmptyConfirmation() && !finishYes {
			return fmt.Errorf("this workout has no sets and will not be saved to history; rerun with --yes to finish anyway")
		}
		if err := app.mgr.Finish(ctx); err != nil {
			return err
		}
		if err := app.saveSession(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s workout finished\n", color.GreenString("✓"))
		return nil
	},
}

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Delete the active session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.loadActive(ctx); err != nil {
			return err
		}
		if err := app.mgr.Discard(ctx); err != nil {
			return err
		}
		if err := app.saveSession(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session discarded.")
		return nil
	},
}

func init() {
	finishCmd.Flags().BoolVarP(&finishYes, "yes", "y", false, "finish even when the session has no sets")
	rootCmd.AddCommand(startCmd, statusCmd, finishCmd, discardCmd)
}
