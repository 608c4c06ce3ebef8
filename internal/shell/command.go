package shell

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Invocation is what a command handler receives for one dispatch.
type Invocation struct {
	// Name is the name or alias the user typed.
	Name  string
	Args  []string
	Flags *pflag.FlagSet
}

// Command is a named action the shell can dispatch to. Names and aliases
// may span several words ("add card").
type Command struct {
	Name    string
	Aliases []string
	// Use is the usage line after the name, e.g. "<name> [--top]".
	Use   string
	Short string
	Args  cobra.PositionalArgs
	Flags func(*pflag.FlagSet)
	Run   func(ctx context.Context, inv Invocation) error
}

// Invocations returns the name followed by the aliases.
func (c Command) Invocations() []string {
	return append([]string{c.Name}, c.Aliases...)
}

// cobraCommand builds a fresh cobra command so flag state never leaks
// between runs.
func (c Command) cobraCommand(invoked string) *cobra.Command {
	use := invoked
	if c.Use != "" {
		use += " " + c.Use
	}
	cmd := &cobra.Command{
		Use:           use,
		Short:         c.Short,
		Args:          c.Args,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Run == nil {
				return nil
			}
			return c.Run(cmd.Context(), Invocation{Name: invoked, Args: args, Flags: cmd.Flags()})
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	if len(c.Aliases) > 0 && invoked == c.Name {
		cmd.Aliases = c.Aliases
	}
	if c.Flags != nil {
		c.Flags(cmd.Flags())
	}
	return cmd
}
