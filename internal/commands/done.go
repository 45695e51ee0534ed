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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. Running it on a completed task
// reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "todo done <n>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, tasks *task.Manager, args []string, out, errOut io.Writer) int {
	num, rest, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintln(errOut, refError(err))
		return exitcode.UserError
	}
	if len(rest) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", rest[0])
		return exitcode.UserError
	}

	t, err := findTaskByNumber(tasks, num)
	if err != nil {
		fmt.Fprintln(errOut, refError(err))
		return exitcode.UserError
	}

	if err := tasks.Toggle(ctx, t.ID); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
