package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joaoVitorVallim/ToDoList/internal/clock"
	"github.com/joaoVitorVallim/ToDoList/internal/config"
	"github.com/joaoVitorVallim/ToDoList/internal/logging"
	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/storage"
	"github.com/joaoVitorVallim/ToDoList/internal/tasks"
)

var errNoUser = errors.New("no user selected: pass --user or set default_user")

type rootOptions struct {
	configPath string
	dbPath     string
	user       string
}

// app is the state shared by every subcommand once the root pre-run has
// loaded config and opened the database.
type app struct {
	opts   rootOptions
	cfg    config.RuntimeConfig
	logger *slog.Logger
	clock  clock.Clock
	repo   *storage.SQLiteRepository
	svc    *tasks.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "todolist",
		Short:         "todolist - dated tasks with reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/todolist/config.yaml)")
	root.PersistentFlags().StringVar(&a.opts.dbPath, "db", "", "SQLite database path")
	root.PersistentFlags().StringVar(&a.opts.user, "user", "", "user id or email")

	root.AddCommand(
		newMigrateCmd(a),
		newUserCmd(a),
		newTaskCmd(a),
		newNotifyCmd(a),
		newTUICmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "todolist: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}
	if a.opts.dbPath != "" {
		cfg.DBPath = a.opts.dbPath
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	a.clock = clock.System{Location: loc}
	a.repo = repo
	a.svc = tasks.NewService(repo, a.clock, tasks.WithLogger(logger))
	logger.Debug("database ready", "path", cfg.DBPath, "timezone", loc.String())
	return nil
}

func (a *app) close() error {
	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	return err
}

// owner resolves --user, falling back to the configured default user.
func (a *app) owner(ctx context.Context) (model.User, error) {
	ref := strings.TrimSpace(a.opts.user)
	if ref == "" {
		ref = strings.TrimSpace(a.cfg.DefaultUser)
	}
	if ref == "" {
		return model.User{}, errNoUser
	}
	return a.svc.ResolveUser(ctx, ref)
}
