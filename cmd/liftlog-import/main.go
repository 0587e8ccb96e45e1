package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	csvPath := flag.String("file", "", "path to an Alpha Progression CSV export (required)")
	user := flag.String("user", "", "login the sessions belong to (required)")
	warmups := flag.Bool("warmups", false, "import warmup sets as well")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *csvPath == "" || *user == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import -config config.yaml -user NAME -file export.csv [-warmups]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Error("import needs a persistent database", "driver", cfg.Database.Driver)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureUser(ctx, *user); err != nil {
		log.Error("failed to ensure user", "user", *user, "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("failed to open export", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	res, err := alpha.NewImporter(db, log).Import(ctx, f, *user, *warmups)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	log.Info("import complete",
		"sessions", res.Sessions,
		"sets", res.Sets,
		"exercises_created", res.ExercisesCreated,
		"warmups_skipped", res.WarmupsSkipped,
	)
}
