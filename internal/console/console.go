// Package console handles everything the player sees and types: styled
// status lines, story passages, line input and diagnostic logging.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// LipGloss palette shared with the rest of the CLI
var (
	statusColor  = lipgloss.Color("#6272A4") // Muted blue
	warnColor    = lipgloss.Color("#F1FA8C") // Yellow
	errorColor   = lipgloss.Color("#FF5555") // Red
	storyColor   = lipgloss.Color("#8BE9FD") // Cyan
	sectionColor = lipgloss.Color("#50FA7B") // Green
	titleColor   = lipgloss.Color("#F780FF") // Bright pink

	statusStyle  = lipgloss.NewStyle().Foreground(statusColor)
	warnStyle    = lipgloss.NewStyle().Foreground(warnColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	storyStyle   = lipgloss.NewStyle().Foreground(storyColor)
	sectionStyle = lipgloss.NewStyle().Foreground(sectionColor)
	titleStyle   = lipgloss.NewStyle().Foreground(titleColor).Bold(true)
)

// Console writes styled output for the player.
type Console struct {
	out      io.Writer
	markdown *glamour.TermRenderer
}

// New creates a console writing to out.
func New(out io.Writer) *Console {
	return &Console{out: out}
}

// EnableMarkdown renders passages as markdown wrapped at wordWrap columns.
func (c *Console) EnableMarkdown(wordWrap int) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	c.markdown = r
	return nil
}

// Banner prints the start-up title followed by dim notes.
func (c *Console) Banner(title string, notes ...string) {
	fmt.Fprintln(c.out, titleStyle.Render(title))
	fmt.Fprintln(c.out, sectionStyle.Render(strings.Repeat("=", lipgloss.Width(title))))
	for _, n := range notes {
		fmt.Fprintln(c.out, statusStyle.Render(n))
	}
}

// Status prints a progress line.
func (c *Console) Status(msg string) {
	fmt.Fprintln(c.out, statusStyle.Render(msg))
}

// Warn prints a recoverable problem.
func (c *Console) Warn(msg string) {
	fmt.Fprintln(c.out, warnStyle.Render("Warning: "+msg))
}

// Error prints a failure.
func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, errorStyle.Render(msg))
}

// Section prints a rule such as "--- Story Start ---".
func (c *Console) Section(title string) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, sectionStyle.Render(fmt.Sprintf("--- %s ---", title)))
}

// Passage prints a piece of the story.
func (c *Console) Passage(text string) {
	if c.markdown != nil {
		if rendered, err := c.markdown.Render(text); err == nil {
			fmt.Fprint(c.out, rendered)
			fmt.Fprintln(c.out)
			return
		}
	}
	fmt.Fprintln(c.out, storyStyle.Render(text))
	fmt.Fprintln(c.out)
}
