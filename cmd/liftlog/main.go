package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/meltforce/liftlog/internal/client"
	"github.com/meltforce/liftlog/internal/tracker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), describe(err))
		os.Exit(1)
	}
}

// describe adds a hint for errors the user can act on.
func describe(err error) string {
	switch {
	case client.IsAuthError(err):
		return err.Error() + " (run 'liftlog login')"
	case errors.Is(err, tracker.ErrNoActiveSession):
		return err.Error() + " (run 'liftlog start')"
	default:
		return err.Error()
	}
}
