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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete tasks" }
func (c *RmCmd) Usage() string     { return "todo rm <n>..." }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, tasks *task.Manager, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, refError(ErrTaskRefRequired))
		return exitcode.UserError
	}

	// Resolve every number against the same view before deleting anything.
	var targets []task.Task
	seen := make(map[int64]bool)
	for rest := args; len(rest) > 0; {
		var num int
		var err error
		num, rest, err = ParseTaskRef(rest)
		if err != nil {
			fmt.Fprintln(errOut, refError(err))
			return exitcode.UserError
		}
		t, err := findTaskByNumber(tasks, num)
		if err != nil {
			fmt.Fprintln(errOut, refError(err))
			return exitcode.UserError
		}
		if !seen[t.ID] {
			seen[t.ID] = true
			targets = append(targets, t)
		}
	}

	for _, t := range targets {
		if err := tasks.Delete(ctx, t.ID); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
