// Package main is the entry point for the planner TUI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/nhle/planner/internal/app"
	"github.com/nhle/planner/internal/exitcode"
	"github.com/nhle/planner/internal/logging"
	"github.com/nhle/planner/internal/model"
	"github.com/nhle/planner/internal/store"
	"github.com/nhle/planner/internal/todolist"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// options are the parsed command-line flags.
type options struct {
	configPath string
	initConfig bool
	version    bool
	flags      *pflag.FlagSet
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := pflag.NewFlagSet("planner", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{flags: fs}
	fs.StringVarP(&opts.configPath, "config", "c", model.DefaultConfigPath(), "path to the YAML config file")
	fs.String("db", "", "SQLite database path (overrides storage.db_path)")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&opts.initConfig, "init-config", false, "write a default config file and exit")
	fs.BoolVarP(&opts.version, "version", "v", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// run wires config, logging and storage, then runs the TUI. It returns the
// process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitcode.Success
		}
		return exitcode.UserError
	}

	if opts.version {
		fmt.Fprintf(stdout, "planner %s\n", Version)
		return exitcode.Success
	}

	if opts.initConfig {
		if err := model.SaveConfig(opts.configPath, model.DefaultAppConfig()); err != nil {
			fmt.Fprintf(stderr, "planner: %v\n", err)
			return exitcode.UserError
		}
		fmt.Fprintf(stdout, "wrote %s\n", opts.configPath)
		return exitcode.Success
	}

	cfg, err := model.LoadConfig(opts.configPath, opts.flags)
	if err != nil {
		fmt.Fprintf(stderr, "planner: %v\n", err)
		return exitcode.UserError
	}

	logOpts := logging.DefaultOptions()
	logOpts.Level = logging.ParseLevel(cfg.Log.Level)
	logger, closer, err := logging.OpenFile(cfg.Log.File, logOpts)
	if err != nil {
		fmt.Fprintf(stderr, "planner: %v\n", err)
		return exitcode.UserError
	}
	defer closer.Close()

	s, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		logger.Error("opening database", "path", cfg.Storage.DBPath, "err", err)
		fmt.Fprintf(stderr, "planner: %v\n", err)
		return exitcode.StorageError
	}
	defer s.Close()

	mgr := todolist.New()
	if cfg.Storage.PersistTasks {
		if err := loadTasks(ctx, s, mgr, logger); err != nil {
			fmt.Fprintf(stderr, "planner: %v\n", err)
			return exitcode.StorageError
		}
	}

	logger.Info("starting", "version", Version, "db", cfg.Storage.DBPath, "tasks", mgr.Len())

	m := app.New(app.Options{
		Store:   s,
		Manager: mgr,
		Config:  cfg,
		Logger:  logger,

		ConfigPath: opts.configPath,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(stderr, "planner: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

func loadTasks(ctx context.Context, s store.Store, mgr *todolist.Manager, logger *log.Logger) error {
	tasks, err := s.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	mgr.Load(tasks)
	logger.Debug("loaded tasks", "count", len(tasks))
	return nil
}
