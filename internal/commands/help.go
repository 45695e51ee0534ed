package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/task"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, tasks *task.Manager, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                       List all tasks
  todo list [common flags] [--search <term>] List tasks, optionally filtered
  todo add [common flags] <text...>
  todo done [common flags] <n>               Toggle completion (alias: toggle)
  todo edit [common flags] <n> <text...>
  todo rm [common flags] <n>...
  todo clear [common flags] [--force]
  todo tui [common flags]                    Interactive mode
  todo config show|path [common flags]
  todo login [common flags]
  todo logout [common flags]
  todo help
  todo version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Storage (config.yaml or TODO_STORAGE_* environment variables):
  storage.backend  file (default), sqlite or drive
  storage.key      name the list is stored under (default: todos)
  storage.path     data directory or database file
`
