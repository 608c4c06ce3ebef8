package prompt

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Editor edits text in an external editor through a temporary file.
type Editor struct {
	command []string
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
}

// NewEditor resolves $VISUAL, then $EDITOR, then the first of nano, vim
// and vi found on PATH.
func NewEditor() *Editor {
	return &Editor{command: resolveEditor(), in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

// NewEditorCommand runs the given command with the file path appended.
func NewEditorCommand(command ...string) *Editor {
	return &Editor{command: command, in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

func resolveEditor() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	for _, candidate := range []string{"nano", "vim", "vi"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return []string{path}
		}
	}
	return nil
}

// Edit opens initial in the editor and returns the saved text without the
// trailing newlines editors add.
func (e *Editor) Edit(ctx context.Context, initial string) (string, error) {
	if len(e.command) == 0 {
		return "", fmt.Errorf("no editor found (set EDITOR or install nano/vim)")
	}

	file, err := os.CreateTemp("", "trellis-*.md")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := file.Name()
	defer os.Remove(path)

	if _, err := file.WriteString(initial); err != nil {
		file.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	args := append(append([]string{}, e.command[1:]...), path)
	cmd := exec.CommandContext(ctx, e.command[0], args...)
	cmd.Stdin = e.in
	cmd.Stdout = e.out
	cmd.Stderr = e.errOut
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading edited text: %w", err)
	}
	return strings.TrimRight(string(edited), "\r\n"), nil
}
