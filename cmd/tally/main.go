package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avoronova/tally/internal/cli"
	"github.com/avoronova/tally/internal/db"
	"github.com/avoronova/tally/internal/importer"
	"github.com/avoronova/tally/internal/repository"
	"github.com/avoronova/tally/internal/service"
	"github.com/avoronova/tally/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := store.LoadConfig()
	rules := importer.LoadRules()

	var (
		records   store.RecordStore
		directory store.DirectoryProvider
	)

	if cfg.Endpoint != "" {
		remote := store.NewRemoteStore(cfg)
		records = remote
		directory = remote
	} else {
		// No remote endpoint configured: keep records in a local sqlite
		// file. Groups come from a JSON file if one is pointed at.
		dbPath := os.Getenv("TALLY_DB")
		if dbPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("finding home directory: %w", err)
			}
			dbPath = filepath.Join(home, ".tally", "tally.db")
		}

		database, err := db.OpenDB(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		records = repository.NewSQLiteRecordStore(database)
		if groupsFile := os.Getenv("TALLY_GROUPS_FILE"); groupsFile != "" {
			directory = store.FileDirectory{Path: groupsFile}
		}
	}

	poller := service.NewPoller(records, cfg.PollAttempts, time.Duration(cfg.PollIntervalMs)*time.Millisecond)

	var observers []service.StageObserver
	if os.Getenv("TALLY_LOG") == "1" {
		observers = append(observers, service.NewLogStageObserver(os.Stderr))
	}

	app := &cli.App{
		Upload:    service.NewUploadService(records, directory, rules, poller, observers...),
		Directory: directory,
		Poller:    poller,
	}

	// Detect interactive terminal for prompts and the progress view.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
