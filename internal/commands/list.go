package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/task"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list [--search <term>]`.
type ListCmd struct {
	search string
}

// SetSearch sets the search term (for testing).
func (c *ListCmd) SetSearch(term string) {
	c.search = term
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "todo list [--search <term>]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, tasks *task.Manager, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Numbers always refer to the unfiltered order so they can be passed
	// to done, edit and rm while a search is active.
	nums := make(map[int64]int)
	for i, t := range numbered(tasks) {
		nums[t.ID] = i + 1
	}

	tasks.SetSearch(c.search)
	view := tasks.View()
	if len(view) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for _, t := range view {
		output.FormatTask(out, nums[t.ID], t)
	}
	return exitcode.Success
}
