package conversation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
)

// LineReader yields one line of user input per call and io.EOF at the end.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// scannerReader reads lines from a plain stream such as a pipe.
type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

// NewScannerReader returns a LineReader over r that writes prompt to out before each line.
func NewScannerReader(r io.Reader, out io.Writer, prompt string) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(r), out: out, prompt: prompt}
}

func (r *scannerReader) ReadLine() (string, error) {
	if r.out != nil && r.prompt != "" {
		fmt.Fprint(r.out, r.prompt)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *scannerReader) Close() error {
	return nil
}

// terminalReader adds line editing and in-memory history on an interactive terminal.
type terminalReader struct {
	rl *readline.Instance
}

// NewTerminalReader returns a readline-backed LineReader for stdin.
func NewTerminalReader(prompt string) (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("initializing line editor: %w", err)
	}
	return &terminalReader{rl: rl}, nil
}

func (r *terminalReader) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

func (r *terminalReader) Close() error {
	return r.rl.Close()
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return readline.IsTerminal(int(f.Fd()))
}

// NewStdinReader picks a terminal reader when stdin is a terminal and a plain
// scanner otherwise.
func NewStdinReader(out io.Writer) (LineReader, error) {
	if IsTerminal(os.Stdin) {
		return NewTerminalReader(UserPrompt)
	}
	return NewScannerReader(os.Stdin, out, UserPrompt), nil
}
