// Package prompt asks the user for confirmations, short input and
// free-form text.
package prompt

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Huh prompts with huh forms. When stdin is not a terminal it falls back to
// huh's accessible (line based) mode.
type Huh struct {
	in         io.Reader
	out        io.Writer
	accessible bool
}

// HuhOption configures a Huh prompter.
type HuhOption func(*Huh)

// WithIO replaces stdin/stdout.
func WithIO(in io.Reader, out io.Writer) HuhOption {
	return func(h *Huh) {
		h.in = in
		h.out = out
	}
}

// WithAccessible forces line based prompts.
func WithAccessible(accessible bool) HuhOption {
	return func(h *Huh) {
		h.accessible = accessible
	}
}

// NewHuh creates a prompter on stdin/stdout.
func NewHuh(opts ...HuhOption) *Huh {
	h := &Huh{
		in:         os.Stdin,
		out:        os.Stdout,
		accessible: !term.IsTerminal(int(os.Stdin.Fd())),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Huh) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(h.in).
		WithOutput(h.out).
		WithAccessible(h.accessible)
	return form.RunWithContext(ctx)
}

// Confirm asks a yes/no question. Aborting the form counts as "no".
func (h *Huh) Confirm(ctx context.Context, question string) (bool, error) {
	var confirmed bool
	field := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := h.run(ctx, field); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

// Input asks for a single line. Aborting returns "".
func (h *Huh) Input(ctx context.Context, title, placeholder string) (string, error) {
	var value string
	field := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)

	if err := h.run(ctx, field); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(value), nil
}
