package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studytrack/internal/config"
	"github.com/balkashynov/studytrack/internal/db"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries the persistent flags shared by every command.
type app struct {
	cfgFile string
	dbPath  string
}

// NewRootCmd builds the studytrack command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "studytrack",
		Short: "A study time tracker",
		Long: `studytrack records the time you spend studying, per project.
Clock in and out from the terminal, log past sessions, or run the HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to the SQLite database (overrides config)")

	rootCmd.AddCommand(
		a.serveCmd(),
		a.projectCmd(),
		a.startCmd(),
		a.stopCmd(),
		a.statusCmd(),
		a.logCmd(),
		a.addCmd(),
		a.editCmd(),
		a.removeCmd(),
		helpCmd(),
		versionCmd(),
	)
	return rootCmd
}

// config loads the configuration and applies the --db flag on top.
func (a *app) config() (*config.Config, error) {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return nil, err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	return cfg, nil
}

// openStore opens the database cfg points at.
func openStore(cfg *config.Config) (*db.Store, error) {
	return db.Open(db.Options{
		Path:         cfg.Database.Path,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		LogQueries:   cfg.Database.LogQueries,
	})
}

// withStore wraps a command function to open the database first and close
// it afterwards.
func (a *app) withStore(fn func(cmd *cobra.Command, args []string, store *db.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := a.config()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return fn(cmd, args, store)
	}
}

// parseID parses a numeric id argument.
func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID '%s'", kind, raw)
	}
	return id, nil
}

// projectName looks up a project's name for display.
func projectName(ctx context.Context, store *db.Store, id int64) string {
	project, err := store.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Sprintf("project #%d", id)
		}
		return "?"
	}
	return project.Name
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "studytrack %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
