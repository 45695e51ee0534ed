package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/task"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todo add <text...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, tasks *task.Manager, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	// Whitespace-only text is ignored, same as an empty submit in the TUI.
	if _, err := tasks.Add(ctx, strings.Join(args, " ")); err != nil {
		if errors.Is(err, task.ErrEmptyText) {
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
