package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// LineReader reads one line of input after showing prompt. suggestions are
// the completions currently valid. It returns io.EOF when input ends.
type LineReader interface {
	ReadLine(ctx context.Context, prompt string, suggestions []string) (string, error)
}

// NewReader picks the interactive reader when in is a terminal and the
// plain one otherwise.
func NewReader(in *os.File, out io.Writer) LineReader {
	if term.IsTerminal(int(in.Fd())) {
		return NewTerminalReader(in, out)
	}
	return NewScanReader(in, out)
}

// ScanReader reads lines from a plain stream, for pipes and tests.
type ScanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScanReader reads lines from in and writes prompts to out.
func NewScanReader(in io.Reader, out io.Writer) *ScanReader {
	return &ScanReader{scanner: bufio.NewScanner(in), out: out}
}

// ReadLine implements LineReader.
func (r *ScanReader) ReadLine(ctx context.Context, prompt string, _ []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		fmt.Fprintln(r.out)
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}
