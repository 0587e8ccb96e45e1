package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	editWeight float64
	editReps   int
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Record and change sets",
}

var setAddCmd = &cobra.Command{
	Use:   "add EXERCISE [WEIGHT REPS]",
	Short: "Record a set",
	Long: `Record a set for EXERCISE, given as a block number from status or a
name. Without WEIGHT and REPS the last set of the exercise in this session
is repeated with its values, or 0 × 0 for the first set.

EXAMPLES:

  liftlog set add "bench press" 60 8
  liftlog set add 1 62.5 6
  liftlog set add 1`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("expected EXERCISE or EXERCISE WEIGHT REPS, got %d arguments", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.loadActive(ctx); err != nil {
			return err
		}
		e, err := app.resolveExercise(ctx, args[0])
		if err != nil {
			return err
		}

		weight, reps := app.mgr.DefaultsForNewSet(e.ID)
		if len(args) == 3 {
			if weight, reps, err = parseWeightReps(args[1], args[2]); err != nil {
				return err
			}
		}

		s, err := app.mgr.CreateSet(ctx, e.ID, weight, reps)
		if saveErr := app.saveSession(); saveErr != nil {
			app.log.Warn("saving session state failed", "error", saveErr)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s set %d: %s\n", exerciseName(e, app.lang), s.OrderInExercise, formatSet(s))
		return nil
	},
}

var setCopyCmd = &cobra.Command{
	Use:   "copy EXERCISE",
	Short: "Repeat the last set of an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.loadActive(ctx); err != nil {
			return err
		}
		e, err := app.resolveExercise(ctx, args[0])
		if err != nil {
			return err
		}
		s, err := app.mgr.CopyLastSet(ctx, e.ID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%s has no set to copy yet", exerciseName(e, app.lang))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s set %d: %s\n", exerciseName(e, app.lang), s.OrderInExercise, formatSet(*s))
		return nil
	},
}

var setEditCmd = &cobra.Command{
	Use:   "edit BLOCK.SET",
	Short: "Change a set's weight or reps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ref, err := parseSetRef(args[0])
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("weight") && !cmd.Flags().Changed("reps") {
			return fmt.Errorf("nothing to change; pass --weight and/or --reps")
		}
		if err := app.loadActive(ctx); err != nil {
			return err
		}
		s, err := ref.lookup(app.mgr.View())
		if err != nil {
			return err
		}

		weight, reps := s.Weight, s.Reps
		if cmd.Flags().Changed("weight") {
			weight = editWeight
		}
		if cmd.Flags().Changed("reps") {
			reps = editReps
		}
		if err := app.mgr.EditSet(ctx, s.ID, weight, reps); err != nil {
			return err
		}
		s.Weight, s.Reps = weight, reps
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s is now %s\n", args[0], formatSet(s))
		return nil
	},
}

var setRemoveCmd = &cobra.Command{
	Use:     "rm BLOCK.SET",
	Aliases: []string{"delete"},
	Short:   "Delete a set",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ref, err := parseSetRef(args[0])
		if err != nil {
			return err
		}
		if err := app.loadActive(ctx); err != nil {
			return err
		}
		s, err := ref.lookup(app.mgr.View())
		if err != nil {
			return err
		}
		if err := app.mgr.DeleteSet(ctx, s.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted set %s (%s)\n", args[0], formatSet(s))
		return nil
	},
}

// parseWeightReps accepts a decimal comma in the weight, e.g. "62,5".
func parseWeightReps(w, r string) (float64, int, error) {
	weight, err := strconv.ParseFloat(strings.Replace(w, ",", ".", 1), 64)
	if err != nil || weight < 0 {
		return 0, 0, fmt.Errorf("invalid weight %q", w)
	}
	reps, err := strconv.Atoi(r)
	if err != nil || reps < 0 {
		return 0, 0, fmt.Errorf("invalid reps %q", r)
	}
	return weight, reps, nil
}

func init() {
	setEditCmd.Flags().Float64VarP(&editWeight, "weight", "w", 0, "new weight in kg")
	setEditCmd.Flags().IntVarP(&editReps, "reps", "r", 0, "new reps")
	setCmd.AddCommand(setAddCmd, setCopyCmd, setEditCmd, setRemoveCmd)
	rootCmd.AddCommand(setCmd)
}
