package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func exitCommand() Command {
	return Command{
		Name:    "exit",
		Aliases: []string{"quit"},
		Short:   "Leave the shell",
		Args:    cobra.NoArgs,
		Run: func(context.Context, Invocation) error {
			return ErrExit
		},
	}
}

func (s *Shell) helpCommand() Command {
	return Command{
		Name:    "help",
		Aliases: []string{"?"},
		Use:     "[command]",
		Short:   "List commands or show one command's usage",
		Run: func(_ context.Context, inv Invocation) error {
			if len(inv.Args) > 0 {
				return s.usage(inv.Args)
			}
			s.listCommands()
			return nil
		},
	}
}

func (s *Shell) listCommands() {
	width := 0
	for _, name := range s.Names() {
		width = max(width, len(name))
	}
	for _, name := range s.Names() {
		cmd := s.commands[name]
		line := fmt.Sprintf("  %-*s  %s", width, name, cmd.Short)
		if len(cmd.Aliases) > 0 {
			line += fmt.Sprintf(" (aka %s)", strings.Join(cmd.Aliases, ", "))
		}
		fmt.Fprintln(s.out, strings.TrimRight(line, " "))
	}
}

func (s *Shell) usage(words []string) error {
	cmd, invoked, _, ok := s.match(words)
	if !ok {
		return fmt.Errorf("%q: %w", strings.Join(words, " "), ErrUnknownCommand)
	}
	fmt.Fprint(s.out, cmd.cobraCommand(invoked).UsageString())
	return nil
}
