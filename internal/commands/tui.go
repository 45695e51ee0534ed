package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/task"
	"todo/internal/tui"
)

func init() {
	Register(&TUICmd{})
}

// TUICmd implements the tui command.
type TUICmd struct{}

func (c *TUICmd) Name() string      { return "tui" }
func (c *TUICmd) Aliases() []string { return []string{"ui"} }
func (c *TUICmd) Synopsis() string  { return "Interactive mode" }
func (c *TUICmd) Usage() string     { return "todo tui [common flags]" }
func (c *TUICmd) NeedsStore() bool  { return true }

func (c *TUICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TUICmd) Run(ctx context.Context, cfg *config.Config, tasks *task.Manager, args []string, out, errOut io.Writer) int {
	if err := tui.Run(ctx, tasks, tea.WithOutput(out)); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
