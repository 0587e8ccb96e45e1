package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/tracker"
)

var (
	faint  = color.New(color.Faint)
	bold   = color.New(color.Bold)
	accent = color.New(color.FgCyan, color.Bold)
	warn   = color.New(color.FgYellow)
)

func formatSet(s models.WorkoutSet) string {
	return strconv.FormatFloat(s.Weight, 'f', -1, 64) + "kg × " + strconv.Itoa(s.Reps)
}

// exerciseName shows presets in the preferred language and custom names
// unchanged.
func exerciseName(e models.Exercise, lang catalog.Lang) string {
	if item, ok := catalog.Lookup(e.Name); ok {
		return item.DisplayName(lang)
	}
	return e.Name
}

func renderView(w io.Writer, v tracker.View, lang catalog.Lang) {
	if v.Session != nil {
		fmt.Fprintf(w, "%s %s\n", accent.Sprint("Session"), faint.Sprintf("%s started %s",
			v.Session.ID, v.Session.StartAt.Local().Format("2006-01-02 15:04")))
	}
	if len(v.Blocks) == 0 {
		warn.Fprintln(w, "No exercises yet. This workout will not be saved to history unless you add at least one set.")
		return
	}
	for i, b := range v.Blocks {
		header := fmt.Sprintf("%d. %s", i+1, exerciseName(b.Exercise, lang))
		if b.LastTime != "" {
			header += faint.Sprintf("  last time %s", b.LastTime)
		}
		fmt.Fprintln(w, bold.Sprint(header))
		if len(b.Sets) == 0 {
			faint.Fprintln(w, "   no sets")
		}
		for j, s := range b.Sets {
			id := ""
			if tracker.IsTemp(s.ID) {
				id = faint.Sprint(" (saving)")
			}
			fmt.Fprintf(w, "   %d.%d  %s%s\n", i+1, j+1, formatSet(s), id)
		}
	}
}

func renderSessions(w io.Writer, sessions []models.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No completed sessions.")
		return
	}
	for _, s := range sessions {
		duration := ""
		if s.EndAt != nil {
			duration = s.EndAt.Sub(s.StartAt).Round(time.Minute).String()
		}
		note := ""
		if s.Note != nil && *s.Note != "" {
			note = faint.Sprintf("  %s", *s.Note)
		}
		fmt.Fprintf(w, "%s  %s  %s%s\n",
			faint.Sprint(s.ID),
			s.StartAt.Local().Format("2006-01-02 15:04"),
			duration,
			note)
	}
}

func renderSummary(w io.Writer, periods []models.TrainingPeriod) {
	if len(periods) == 0 {
		fmt.Fprintln(w, "No training in this range.")
		return
	}
	fmt.Fprintln(w, bold.Sprintf("%-12s %8s %6s %6s %12s", "PERIOD", "SESSIONS", "SETS", "REPS", "TONNAGE"))
	for _, p := range periods {
		fmt.Fprintf(w, "%-12s %8d %6d %6d %10.0fkg\n", p.Period, p.Sessions, p.Sets, p.TotalReps, p.TonnageKg)
	}
}
