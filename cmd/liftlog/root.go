package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/auth"
	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/client"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/localstate"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/tracker"
)

var (
	configPath string
	langFlag   string
)

// app is built once per invocation by the root command's pre-run hook.
var app *App

// App wires the CLI's state to the remote store.
type App struct {
	cfg    *config.ClientConfig
	log    *slog.Logger
	state  *localstate.DB
	gate   *auth.Gate
	client *client.Client
	mgr    *tracker.Manager
	lang   catalog.Lang
}

var rootCmd = &cobra.Command{
	Use:           "liftlog",
	Short:         "Record strength workouts",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `liftlog records a workout as exercises with ordered weight × reps sets.

QUICK START:

  $ liftlog login ana                     # store credentials
  $ liftlog start                         # begin (or resume) a session
  $ liftlog set add "bench press" 60 8    # record a set
  $ liftlog set copy 1                    # repeat the last set of block 1
  $ liftlog status                        # show the session
  $ liftlog finish                        # end the session

Sets are referenced as BLOCK.SET, e.g. 1.2 is the second set of the first
exercise shown by 'liftlog status'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "presets" {
			return nil
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app != nil {
			return app.state.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultClientPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", string(catalog.LangEN), "language shown first for preset exercises (en, tw)")
}

func newApp() (*App, error) {
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	state, err := localstate.Open(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	gate := auth.New()
	if err := state.Bind(gate, func(err error) {
		log.Warn("persisting login failed", "error", err)
	}); err != nil {
		state.Close()
		return nil, err
	}

	c := client.New(cfg.ServerURL, gate, log)
	lang := catalog.LangEN
	if langFlag == string(catalog.LangTW) {
		lang = catalog.LangTW
	}

	return &App{
		cfg:    cfg,
		log:    log,
		state:  state,
		gate:   gate,
		client: c,
		mgr:    tracker.NewManager(c, log),
		lang:   lang,
	}, nil
}

// loadActive loads the stored active session into the manager and re-adds
// exercises that had no sets yet.
func (a *App) loadActive(ctx context.Context) error {
	if !a.gate.Authenticated() {
		return fmt.Errorf("not logged in: %w", models.ErrUnauthorized)
	}
	id, err := a.state.ActiveSession()
	if err != nil {
		return err
	}
	if id == "" {
		return tracker.ErrNoActiveSession
	}

	if err := a.mgr.Load(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			a.log.Warn("active session no longer exists at the store", "session", id)
			if err := a.state.ClearSession(); err != nil {
				return err
			}
			return tracker.ErrNoActiveSession
		}
		return err
	}
	return a.restoreManual(ctx)
}

func (a *App) restoreManual(ctx context.Context) error {
	ids, err := a.state.Manual()
	if err != nil || len(ids) == 0 {
		return err
	}
	known := a.mgr.Snapshot().Exercises

	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	all, err := a.client.ListExercises(ctx, "")
	if err != nil {
		return fmt.Errorf("restoring exercises: %w", err)
	}
	for _, e := range all {
		if slices.Contains(missing, e.ID) {
			if err := a.mgr.AddExercise(ctx, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// saveSession persists the manager's active session id and manual list.
func (a *App) saveSession() error {
	snap := a.mgr.Snapshot()
	if !snap.Active() {
		return a.state.ClearSession()
	}
	if err := a.state.SetActiveSession(snap.Session.ID); err != nil {
		return err
	}
	return a.state.SetManual(snap.Manual)
}

func (a *App) picker(ctx context.Context) (*catalog.Picker, error) {
	return catalog.NewPicker(ctx, a.client)
}
