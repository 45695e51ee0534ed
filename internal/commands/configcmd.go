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
	Register(&ConfigCmd{})
}

// ConfigCmd implements the config command.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string      { return "config" }
func (c *ConfigCmd) Aliases() []string { return nil }
func (c *ConfigCmd) Synopsis() string  { return "Show configuration" }
func (c *ConfigCmd) Usage() string     { return "todo config show|path" }
func (c *ConfigCmd) NeedsStore() bool  { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, tasks *task.Manager, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: subcommand required: show or path")
		return exitcode.UserError
	}

	switch args[0] {
	case "path":
		fmt.Fprintln(out, cfg.ConfigPath())
		return exitcode.Success

	case "show":
		if err := cfg.Load(); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		data, err := cfg.YAML()
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		out.Write(data)
		fmt.Fprintf(out, "# data: %s\n", cfg.StoragePath())
		return exitcode.Success

	default:
		fmt.Fprintf(errOut, "error: unknown subcommand: %s\n", args[0])
		return exitcode.UserError
	}
}
