// Package ui implements the awase command line.
package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/awase/internal/config"
	"github.com/javiermolinar/awase/internal/db"
	"github.com/javiermolinar/awase/internal/event"
	"github.com/javiermolinar/awase/internal/logger"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   event.Repository
	store  *db.SQLite // opened lazily when repo is nil
	svc    *event.Service
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging
	now    func() time.Time
}

// NewApp creates a new CLI application. A nil repo opens the configured
// SQLite database on first use.
func NewApp(repo event.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "awase",
		Short: "Find a time that works for everyone",
		Long: `Awase is a no-login scheduling tool.

An organizer creates an event with candidate dates and time ranges and
shares its link. Participants paint the 30-minute slots they are free,
and awase shows where availability overlaps.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := logger.Init(logger.Config{Debug: a.debug, Dir: config.DataDir()}); err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			logger.Debug("starting", "version", Version, "db", a.config.Storage.DBPath)
			return nil
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (also writes to stderr)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.createCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.respondCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.deleteResponseCmd())
	a.root.AddCommand(a.updateEventCmd())
	a.root.AddCommand(a.resultCmd())
	a.root.AddCommand(a.shareCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "awase %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureRepo opens the database and builds the service on first use.
func (a *App) ensureRepo() error {
	if a.svc != nil {
		return nil
	}
	if a.repo == nil {
		store, err := db.New(a.config.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		a.store = store
		a.repo = store
	}
	a.svc = event.NewService(a.repo,
		event.WithNow(a.now),
		event.WithExpiry(time.Duration(a.config.Event.ExpiryDays)*24*time.Hour),
	)
	return nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database and log file.
func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	errs = append(errs, logger.Close())
	return errors.Join(errs...)
}
