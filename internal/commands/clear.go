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
	Register(&ClearCmd{})
}

// ClearCmd implements the clear command.
type ClearCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *ClearCmd) SetForce(force bool) {
	c.force = force
}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete every task" }
func (c *ClearCmd) Usage() string     { return "todo clear [--force]" }
func (c *ClearCmd) NeedsStore() bool  { return true }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
	fs.BoolVar(&c.force, "f", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, tasks *task.Manager, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Nothing to confirm on an empty list
	if tasks.Len() > 0 && !c.force {
		fmt.Fprintln(errOut, "error: list not empty (use --force)")
		return exitcode.UserError
	}

	tasks.Clear(ctx)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
