package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/freetogether/internal/app"
	"github.com/javiermolinar/freetogether/internal/config"
	"github.com/javiermolinar/freetogether/internal/db"
	"github.com/javiermolinar/freetogether/internal/event"
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
	closer io.Closer // set when the App opened the repository itself
	svc    *app.Service
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging
}

// NewApp creates a new CLI application. A nil repo is opened lazily from
// the configured database path by the commands that need it.
func NewApp(repo event.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}
	if repo != nil {
		a.svc = app.New(repo)
	}

	a.root = &cobra.Command{
		Use:   "freetogether",
		Short: "Find a time that works for everyone",
		Long: `FreeTogether collects everyone's availability on a day by hour grid
and shows where it overlaps.

Create an event, invite people, let them paint the hours they are free
and read the group heatmap to pick a time.

Run without a command to list your events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listEvents(cmd.OutOrStdout())
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging of the TUI (freetogether-debug.log)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.eventCmd())
	a.root.AddCommand(a.respondCmd())
	a.root.AddCommand(a.heatmapCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "freetogether %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database if the App opened it.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// ensureRepo opens the configured database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	store, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = store
	a.closer = store
	a.svc = app.New(store)
	return nil
}

// session returns the service and the configured user, for commands that
// act on behalf of someone.
func (a *App) session() (*app.Service, string, error) {
	email, err := a.config.Identity()
	if err != nil {
		return nil, "", err
	}
	if err := a.ensureRepo(); err != nil {
		return nil, "", err
	}
	return a.svc, email, nil
}

// storeContext bounds a store call by the configured timeout.
func (a *App) storeContext() (context.Context, context.CancelFunc) {
	timeout, err := a.config.Storage.TimeoutDuration()
	if err != nil || timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
