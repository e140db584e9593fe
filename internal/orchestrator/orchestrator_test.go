package orchestrator

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/Yates-Labs/fable/internal/adapter"
	"github.com/Yates-Labs/fable/internal/config"
	"github.com/Yates-Labs/fable/internal/engine"
	"github.com/Yates-Labs/fable/internal/narrative"
	"github.com/Yates-Labs/fable/internal/story"
)

type fakeInput struct {
	lines   []string
	secret  string
	prompts []string
}

func (f *fakeInput) ReadLine(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func (f *fakeInput) ReadSecret(prompt string) (string, error) {
	return f.secret, nil
}

type fakeOutput struct {
	statuses []string
	warnings []string
	errors   []string
	passages []string
}

func (o *fakeOutput) Status(msg string)  { o.statuses = append(o.statuses, msg) }
func (o *fakeOutput) Warn(msg string)    { o.warnings = append(o.warnings, msg) }
func (o *fakeOutput) Error(msg string)   { o.errors = append(o.errors, msg) }
func (o *fakeOutput) Section(string)     {}
func (o *fakeOutput) Passage(msg string) { o.passages = append(o.passages, msg) }

type firstPicker struct{ calls int }

func (p *firstPicker) Choose(ctx context.Context, title string, items []string, defaultIndex int) (string, error) {
	p.calls++
	return items[defaultIndex], nil
}

func mockFactory(m *adapter.MockAdapter, seen *adapter.Config) func(adapter.Config) (adapter.Adapter, error) {
	return func(cfg adapter.Config) (adapter.Adapter, error) {
		*seen = cfg
		return m, nil
	}
}

func clearKeys(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GROQ_API_KEY", "OPENROUTER_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(name, "")
	}
}

func TestBootstrap(t *testing.T) {
	clearKeys(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")

	mock := adapter.NewMockAdapter(narrative.NewMockLLM("You shiver..."),
		"whisper-large-v3", "mixtral-8x7b-32768", "llama3-8b-8192", "gemma2-9b-it", "llama3-70b-8192")
	var seen adapter.Config
	picker := &firstPicker{}
	in := &fakeInput{lines: []string{"fantasy", "a dark forest", "lost and cold"}}
	out := &fakeOutput{}

	session, err := Bootstrap(context.Background(), config.Default(), Dependencies{
		Input:      in,
		Output:     out,
		Picker:     picker,
		NewAdapter: mockFactory(mock, &seen),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seen.APIKey != "gsk_test" || seen.Provider != adapter.ProviderGroq {
		t.Errorf("unexpected adapter config: %+v", seen)
	}
	wantCandidates := []string{"llama3-70b-8192", "llama3-8b-8192", "mixtral-8x7b-32768"}
	if !slices.Equal(session.Resolution.Candidates, wantCandidates) {
		t.Errorf("expected candidates %v, got %v", wantCandidates, session.Resolution.Candidates)
	}
	if session.Resolution.Model != "llama3-8b-8192" || session.Resolution.Degraded {
		t.Errorf("expected the default model picked, got %+v", session.Resolution)
	}
	if session.Generator.Model() != "llama3-8b-8192" {
		t.Errorf("generator bound to %q", session.Generator.Model())
	}
	if picker.calls != 1 {
		t.Errorf("expected picker shown once, got %d", picker.calls)
	}

	if n := session.Conversation.Len(); n != 1 {
		t.Fatalf("expected only the system message, got %d", n)
	}
	prompt, ok := session.Conversation.SystemPrompt()
	if !ok {
		t.Fatal("expected a system prompt")
	}
	for _, want := range []string{"fantasy genre, set in a dark forest", "lost and cold"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q: %s", want, prompt)
		}
	}
	if !slices.Contains(out.statuses, "Groq client initialized successfully.") {
		t.Errorf("missing client status in %v", out.statuses)
	}
}

func TestBootstrap_CustomSystemPrompt(t *testing.T) {
	clearKeys(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg := config.Default()
	cfg.SystemPrompt = "You are a gothic narrator."
	var seen adapter.Config

	session, err := Bootstrap(context.Background(), cfg, Dependencies{
		Input:      &fakeInput{lines: []string{"horror", "a manor", "the lights go out"}},
		Output:     &fakeOutput{},
		Picker:     &firstPicker{},
		NewAdapter: mockFactory(adapter.NewMockAdapter(nil, "x-chat"), &seen),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt, _ := session.Conversation.SystemPrompt()
	if !strings.HasPrefix(prompt, "You are a gothic narrator. The story is in the horror genre") {
		t.Errorf("base prompt not prepended: %s", prompt)
	}
}

func TestBootstrap_CredentialMissing(t *testing.T) {
	clearKeys(t)

	factoryCalled := false
	_, err := Bootstrap(context.Background(), config.Default(), Dependencies{
		Input:  &fakeInput{},
		Output: &fakeOutput{},
		NewAdapter: func(adapter.Config) (adapter.Adapter, error) {
			factoryCalled = true
			return nil, nil
		},
	})

	if !errors.Is(err, config.ErrCredentialMissing) {
		t.Errorf("expected ErrCredentialMissing, got %v", err)
	}
	if factoryCalled {
		t.Error("adapter built without a credential")
	}
}

func TestBootstrap_PromptedCredential(t *testing.T) {
	clearKeys(t)
	var seen adapter.Config

	_, err := Bootstrap(context.Background(), config.Default(), Dependencies{
		Input:      &fakeInput{secret: "typed-key", lines: []string{"a", "b", "c"}},
		Output:     &fakeOutput{},
		Picker:     &firstPicker{},
		NewAdapter: mockFactory(adapter.NewMockAdapter(nil), &seen),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.APIKey != "typed-key" {
		t.Errorf("expected typed key, got %q", seen.APIKey)
	}
}

func TestBootstrap_DegradedResolution(t *testing.T) {
	clearKeys(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")

	mock := adapter.NewMockAdapter(nil)
	mock.ListErr = errors.Join(narrative.ErrAPI, errors.New("503"))
	out := &fakeOutput{}
	var seen adapter.Config
	picker := &firstPicker{}

	session, err := Bootstrap(context.Background(), config.Default(), Dependencies{
		Input:      &fakeInput{lines: []string{"a", "b", "c"}},
		Output:     out,
		Picker:     picker,
		NewAdapter: mockFactory(mock, &seen),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !session.Resolution.Degraded {
		t.Error("expected degraded resolution")
	}
	if session.Generator.Model() != "llama3-8b-8192" {
		t.Errorf("expected fallback model, got %q", session.Generator.Model())
	}
	if picker.calls != 0 {
		t.Errorf("picker should not be shown, called %d times", picker.calls)
	}
	if len(out.warnings) != 1 {
		t.Errorf("expected one warning, got %v", out.warnings)
	}
}

func TestBootstrap_AdapterError(t *testing.T) {
	clearKeys(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")
	boom := errors.New("bad base url")

	_, err := Bootstrap(context.Background(), config.Default(), Dependencies{
		Input:  &fakeInput{},
		Output: &fakeOutput{},
		NewAdapter: func(adapter.Config) (adapter.Adapter, error) {
			return nil, boom
		},
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected adapter error, got %v", err)
	}
}

func TestGatherStoryParams_EOF(t *testing.T) {
	_, err := GatherStoryParams(&fakeInput{lines: []string{"fantasy"}}, &fakeOutput{})
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestSession_NewLoop_Scenario(t *testing.T) {
	clearKeys(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")

	llm := narrative.NewScriptedMockLLM(
		narrative.MockReply{Text: "You shiver..."},
		narrative.MockReply{Err: narrative.ErrRateLimited},
	)
	mock := adapter.NewMockAdapter(llm, "mixtral-chat")
	var seen adapter.Config
	in := &fakeInput{lines: []string{"fantasy", "a dark forest", "lost and cold"}}
	out := &fakeOutput{}

	session, err := Bootstrap(context.Background(), config.Default(), Dependencies{
		Input:      in,
		Output:     out,
		Picker:     &firstPicker{},
		NewAdapter: mockFactory(mock, &seen),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in.lines = []string{"light a fire", "quit"}
	loop := session.NewLoop(in, out, nil)
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	if loop.State() != engine.Terminated {
		t.Errorf("expected terminated, got %s", loop.State())
	}
	transcript := loop.Transcript()
	if len(transcript) != 2 || transcript[1].Role != story.RoleAssistant {
		t.Errorf("unexpected transcript: %+v", transcript)
	}
	if !slices.Equal(out.passages, []string{"You shiver..."}) {
		t.Errorf("unexpected passages: %v", out.passages)
	}
}
