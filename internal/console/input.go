package console

import (
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// LineReader reads player input with line editing and in-session history.
// History is kept in memory only.
type LineReader struct {
	line *liner.State
}

// NewLineReader takes over the terminal until Close is called.
func NewLineReader() *LineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &LineReader{line: line}
}

// ReadLine reads one line. Ctrl+C and Ctrl+D both surface as io.EOF.
func (r *LineReader) ReadLine(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", abortAsEOF(err)
	}

	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// ReadSecret reads a line without echoing it. When the terminal cannot
// hide input it falls back to a normal prompt.
func (r *LineReader) ReadSecret(prompt string) (string, error) {
	secret, err := r.line.PasswordPrompt(prompt)
	if errors.Is(err, liner.ErrNotTerminalOutput) {
		secret, err = r.line.Prompt(prompt)
	}
	if err != nil {
		return "", abortAsEOF(err)
	}
	return secret, nil
}

func abortAsEOF(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) {
		return io.EOF
	}
	return err
}

// Close restores the terminal.
func (r *LineReader) Close() error {
	return r.line.Close()
}
