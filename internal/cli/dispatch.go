// Package cli parses the command line, opens the configured task store and
// dispatches to the registered commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/store"
	"todo/internal/store/drivestore"
	"todo/internal/store/filestore"
	"todo/internal/store/sqlitestore"
	"todo/internal/task"
)

// StoreFactory opens the storage backend selected by cfg.
// Used to inject the backend during dispatch.
type StoreFactory func(ctx context.Context, cfg *config.Config) (store.Store, error)

// OpenStore is the default StoreFactory.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		s, err := sqlitestore.New(cfg.StoragePath())
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendDrive:
		s, err := drivestore.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := filestore.New(cfg.StoragePath())
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
}

// NewDispatcher creates a new dispatcher with the given registry and store factory.
// A nil factory means OpenStore.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	if factory == nil {
		factory = OpenStore
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Look up command
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Parse flags
	remaining := args[1:]
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	// Parse flags
	if err := fs.Parse(args); err != nil {
		// Handle specific error types
		errStr := err.Error()

		// Check for missing flag value
		if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
			// Extract flag name
			parts := strings.Split(errStr, ":")
			if len(parts) > 0 {
				flagPart := strings.TrimSpace(parts[0])
				flagPart = strings.TrimPrefix(flagPart, "flag ")
				fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
				return exitcode.UserError
			}
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return exitcode.UserError
		}

		// Generic error handling for bad flag values
		if strings.Contains(errStr, "invalid value") {
			fmt.Fprintf(errOut, "error: %s\n", errStr)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log := logging.New(errOut, debug)

	if !cmd.NeedsStore() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	if err := cfg.Load(); err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.AuthError
	}

	// Drive needs credentials before anything can be opened
	if cfg.Storage.Backend == config.BackendDrive {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintf(errOut, "error: not logged in (run: todo login)\n")
			return exitcode.AuthError
		}
	}

	st, err := d.factory(ctx, cfg)
	if err != nil {
		if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "oauth") {
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: storage error: %s\n", err)
		return exitcode.StorageError
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("closing storage: %v", err)
		}
	}()
	log.Debugf("storage: %s %s (key %s)", cfg.Storage.Backend, cfg.StoragePath(), cfg.Storage.Key)

	tasks := task.Open(ctx, store.Entry{Store: st, Key: cfg.Storage.Key}, task.WithLogger(log))

	return cmd.Run(ctx, cfg, tasks, positionalArgs, out, errOut)
}
