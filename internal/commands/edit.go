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
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"rename"} }
func (c *EditCmd) Synopsis() string  { return "Replace a task's text" }
func (c *EditCmd) Usage() string     { return "todo edit <n> <text...>" }
func (c *EditCmd) NeedsStore() bool  { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, tasks *task.Manager, args []string, out, errOut io.Writer) int {
	num, rest, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintln(errOut, refError(err))
		return exitcode.UserError
	}

	t, err := findTaskByNumber(tasks, num)
	if err != nil {
		fmt.Fprintln(errOut, refError(err))
		return exitcode.UserError
	}

	if err := tasks.StartEdit(t.ID); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	tasks.SetEditText(strings.Join(rest, " "))

	if err := tasks.CommitEdit(ctx); err != nil {
		tasks.CancelEdit()
		if errors.Is(err, task.ErrEmptyText) {
			fmt.Fprintln(errOut, "error: text required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
