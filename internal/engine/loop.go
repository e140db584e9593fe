package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Yates-Labs/fable/internal/narrative"
	"github.com/Yates-Labs/fable/internal/story"
)

var (
	ErrInitialGeneration = errors.New("failed to generate initial story part")
)

const (
	// ExitToken ends the story when typed in any letter case.
	ExitToken = "quit"

	ActionPrompt = "What do you do next? (Type 'quit' to exit): "
)

// Generator produces the next passage from the full transcript.
type Generator interface {
	Generate(ctx context.Context, messages []story.Message) (string, error)
}

// LineReader reads one line of player input. io.EOF ends the story.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Output is where the loop reports progress and story text.
type Output interface {
	Status(msg string)
	Error(msg string)
	Section(title string)
	Passage(text string)
}

// CallScope derives the context for a single generation call. The cancel
// func is called as soon as the call returns.
type CallScope func(ctx context.Context) (context.Context, context.CancelFunc)

// Loop is the generation state machine. It owns its conversation for the
// whole run; nothing else may mutate it.
type Loop struct {
	gen    Generator
	conv   *story.Conversation
	in     LineReader
	out    Output
	logger *log.Logger
	scope  CallScope

	state State
}

// NewLoop creates a loop over a seeded conversation. logger may be nil.
func NewLoop(gen Generator, conv *story.Conversation, in LineReader, out Output, logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loop{
		gen:    gen,
		conv:   conv,
		in:     in,
		out:    out,
		logger: logger,
		scope:  context.WithCancel,
		state:  AwaitingInitialGeneration,
	}
}

// SetCallScope replaces how each generation call's context is derived from
// the run context. cmd uses it to let an interrupt abort only the call in
// flight.
func (l *Loop) SetCallScope(scope CallScope) {
	if scope == nil {
		scope = context.WithCancel
	}
	l.scope = scope
}

// State returns the current state.
func (l *Loop) State() State {
	return l.state
}

// Transcript returns a copy of the conversation so far.
func (l *Loop) Transcript() []story.Message {
	return l.conv.Messages()
}

// Run steps the loop until it terminates. It returns nil when the player
// quits and an error wrapping ErrInitialGeneration when the opening passage
// cannot be generated.
func (l *Loop) Run(ctx context.Context) error {
	for l.state != Terminated {
		if err := l.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step performs one transition. Terminated is absorbing.
func (l *Loop) Step(ctx context.Context) error {
	switch l.state {
	case AwaitingInitialGeneration:
		return l.generateInitial(ctx)
	case AwaitingUserInput:
		return l.readAction()
	case AwaitingFollowupGeneration:
		return l.generateFollowup(ctx)
	default:
		return nil
	}
}

func (l *Loop) generateInitial(ctx context.Context) error {
	l.out.Status("Generating initial story part...")

	text, err := l.generate(ctx)
	if err != nil {
		l.reportFailure(err)
		l.out.Error("Failed to generate initial story part. Exiting.")
		l.setState(Terminated)
		return fmt.Errorf("%w: %w", ErrInitialGeneration, err)
	}

	if err := l.conv.AppendAssistant(text); err != nil {
		l.setState(Terminated)
		return err
	}

	l.out.Section("Story Start")
	l.out.Passage(text)
	l.setState(AwaitingUserInput)
	return nil
}

func (l *Loop) readAction() error {
	line, err := l.in.ReadLine(ActionPrompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			l.out.Status("\nExiting story.")
			l.setState(Terminated)
			return nil
		}
		l.setState(Terminated)
		return fmt.Errorf("failed to read input: %w", err)
	}

	action := strings.TrimSpace(line)
	if strings.EqualFold(action, ExitToken) {
		l.out.Status("\nExiting story.")
		l.setState(Terminated)
		return nil
	}
	if action == "" {
		return nil
	}

	if err := l.conv.AppendUser(action); err != nil {
		return err
	}

	l.setState(AwaitingFollowupGeneration)
	return nil
}

func (l *Loop) generateFollowup(ctx context.Context) error {
	l.out.Status("\nGenerating next story part...")

	text, err := l.generate(ctx)
	if err != nil {
		if l.conv.RollbackLastUser() {
			l.logger.Debug("rolled back unanswered action", "messages", l.conv.Len())
		}

		switch {
		case ctx.Err() != nil:
			// the run itself is over; no later call could succeed
			l.logger.Debug("run context done", "err", ctx.Err())
			l.out.Status("\nExiting story.")
			l.setState(Terminated)
			return nil
		case errors.Is(err, context.Canceled):
			l.out.Error("Generation interrupted. Try again or type 'quit'.")
		default:
			l.reportFailure(err)
			l.out.Error("Failed to generate the next part. Try again or type 'quit'.")
		}

		l.setState(AwaitingUserInput)
		return nil
	}

	if err := l.conv.AppendAssistant(text); err != nil {
		l.setState(Terminated)
		return err
	}

	l.out.Section("Story Continues")
	l.out.Passage(text)
	l.setState(AwaitingUserInput)
	return nil
}

func (l *Loop) generate(ctx context.Context) (string, error) {
	callCtx, cancel := l.scope(ctx)
	defer cancel()
	return l.gen.Generate(callCtx, l.conv.Messages())
}

func (l *Loop) reportFailure(err error) {
	kind := narrative.Kind(err)
	l.logger.Warn("generation failed", "state", l.state, "kind", kind, "err", err)

	switch kind {
	case narrative.ErrRateLimited:
		l.out.Error("Rate limit reached. Please wait and try again.")
	case narrative.ErrAPI:
		l.out.Error(fmt.Sprintf("API error during generation: %v", err))
	default:
		l.out.Error(fmt.Sprintf("An unexpected error occurred during generation: %v", err))
	}
}

func (l *Loop) setState(next State) {
	l.logger.Debug("state transition", "from", l.state, "to", next, "messages", l.conv.Len())
	l.state = next
}
