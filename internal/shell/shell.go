// Package shell is the interactive command loop: it reads lines, finds the
// live command they name and runs it.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ErrExit stops Run without an error.
var ErrExit = errors.New("exit")

// ErrUnknownCommand is returned by Dispatch when no live command matches.
var ErrUnknownCommand = errors.New("invalid command")

// ErrConflict is returned by Bind when a name or alias is already taken.
var ErrConflict = errors.New("command name already bound")

// Shell dispatches input lines to bound commands.
type Shell struct {
	commands map[string]*Command // by name
	index    map[string]string   // name or alias -> name
	builtins map[string]bool
	maxWords int

	reader   LineReader
	out      io.Writer
	prompt   string
	fatal    func(error) bool
	errorFmt func(error) string
	logger   *slog.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithReader sets the line source.
func WithReader(reader LineReader) Option {
	return func(s *Shell) {
		s.reader = reader
	}
}

// WithOutput sets where command output and errors are written.
func WithOutput(out io.Writer) Option {
	return func(s *Shell) {
		s.out = out
	}
}

// WithFatal makes Run return handler errors matching fatal instead of
// printing them.
func WithFatal(fatal func(error) bool) Option {
	return func(s *Shell) {
		s.fatal = fatal
	}
}

// WithErrorFormatter controls how handler errors are printed.
func WithErrorFormatter(format func(error) string) Option {
	return func(s *Shell) {
		s.errorFmt = format
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

// New creates a shell with the help and exit built-ins bound.
func New(opts ...Option) *Shell {
	s := &Shell{
		commands: map[string]*Command{},
		index:    map[string]string{},
		builtins: map[string]bool{},
		out:      os.Stdout,
		prompt:   "> ",
		errorFmt: func(err error) string { return "error: " + err.Error() },
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reader == nil {
		s.reader = NewScanReader(os.Stdin, s.out)
	}

	for _, builtin := range []Command{s.helpCommand(), exitCommand()} {
		if err := s.Bind(builtin); err != nil {
			panic(err)
		}
		for _, name := range builtin.Invocations() {
			s.builtins[name] = true
		}
	}
	return s
}

// SetPrompt changes the prompt shown before each line.
func (s *Shell) SetPrompt(prompt string) {
	s.prompt = prompt
}

// Prompt returns the current prompt.
func (s *Shell) Prompt() string {
	return s.prompt
}

// Bind makes cmd dispatchable. Every name and alias must be free.
func (s *Shell) Bind(cmd Command) error {
	cmd.Name = normalize(cmd.Name)
	if cmd.Name == "" {
		return fmt.Errorf("bind: empty command name")
	}
	aliases := make([]string, 0, len(cmd.Aliases))
	for _, alias := range cmd.Aliases {
		if alias = normalize(alias); alias != "" && alias != cmd.Name {
			aliases = append(aliases, alias)
		}
	}
	cmd.Aliases = aliases

	for _, name := range cmd.Invocations() {
		if _, taken := s.index[name]; taken {
			return fmt.Errorf("bind %q: %w", name, ErrConflict)
		}
	}

	s.commands[cmd.Name] = &cmd
	for _, name := range cmd.Invocations() {
		s.index[name] = cmd.Name
		if words := len(strings.Fields(name)); words > s.maxWords {
			s.maxWords = words
		}
	}
	return nil
}

// Unbind removes the command with the given name. Built-ins cannot be
// removed. It reports whether a command was removed.
func (s *Shell) Unbind(name string) bool {
	name = normalize(name)
	cmd, ok := s.commands[name]
	if !ok || s.builtins[name] {
		return false
	}
	for _, invocation := range cmd.Invocations() {
		delete(s.index, invocation)
	}
	delete(s.commands, name)
	return true
}

// Lookup returns the bound command for a name or alias.
func (s *Shell) Lookup(name string) (Command, bool) {
	target, ok := s.index[normalize(name)]
	if !ok {
		return Command{}, false
	}
	return *s.commands[target], true
}

// Names returns the bound command names, built-ins included, sorted.
func (s *Shell) Names() []string {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Completions returns every name and alias, sorted.
func (s *Shell) Completions() []string {
	completions := make([]string, 0, len(s.index))
	for invocation := range s.index {
		completions = append(completions, invocation)
	}
	sort.Strings(completions)
	return completions
}

// Dispatch runs the command named by line. Multi-word names win over
// shorter ones ("add card x" runs "add card", not "add").
func (s *Shell) Dispatch(ctx context.Context, line string) error {
	words, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("parse %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil
	}

	cmd, invoked, rest, ok := s.match(words)
	if !ok {
		return fmt.Errorf("%q: %w", words[0], ErrUnknownCommand)
	}

	s.logger.Debug("dispatch", "command", cmd.Name, "invoked", invoked, "args", rest)
	c := cmd.cobraCommand(invoked)
	c.SetArgs(append([]string{}, rest...))
	c.SetOut(s.out)
	c.SetErr(s.out)
	c.SetIn(strings.NewReader(""))
	return c.ExecuteContext(ctx)
}

func (s *Shell) match(words []string) (*Command, string, []string, bool) {
	n := min(len(words), s.maxWords)
	for ; n > 0; n-- {
		invoked := strings.Join(words[:n], " ")
		if name, ok := s.index[strings.ToLower(invoked)]; ok {
			return s.commands[name], strings.ToLower(invoked), words[n:], true
		}
	}
	return nil, "", nil, false
}

// Run reads and dispatches lines until exit, end of input or a fatal error.
func (s *Shell) Run(ctx context.Context) error {
	for {
		line, err := s.reader.ReadLine(ctx, s.prompt, s.Completions())
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		err = s.Dispatch(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, ErrExit):
			return nil
		case errors.Is(err, ErrUnknownCommand):
			fmt.Fprintln(s.out, "Invalid command.")
		case s.fatal != nil && s.fatal(err):
			return err
		default:
			s.logger.Warn("command failed", "line", line, "error", err)
			fmt.Fprintln(s.out, s.errorFmt(err))
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
