package narrative

import (
	"strings"
	"testing"
)

func TestAssembleSystemPrompt_Default(t *testing.T) {
	prompt := AssembleSystemPrompt("", StoryParams{
		Genre:     "fantasy",
		Setting:   "a dark forest",
		Situation: "lost and cold",
	})

	// Minimal key checks (avoid brittle formatting tests)
	if !strings.HasPrefix(prompt, "You are an interactive story generator.") {
		t.Errorf("prompt missing storyteller instructions: %s", prompt)
	}
	if !strings.Contains(prompt, "in the fantasy genre, set in a dark forest") {
		t.Error("prompt missing genre and setting")
	}
	if !strings.Contains(prompt, "The story begins with: lost and cold.") {
		t.Error("prompt missing situation")
	}
	if !strings.Contains(prompt, "1-3 paragraphs") {
		t.Error("prompt missing length guidance")
	}
}

func TestAssembleSystemPrompt_WithBase(t *testing.T) {
	base := "You narrate grim tales in second person."
	prompt := AssembleSystemPrompt("  "+base+"\n", StoryParams{
		Genre:     " sci-fi ",
		Setting:   "a derelict spaceship",
		Situation: "the air is running out",
	})

	want := base + " The story is in the sci-fi genre, set in a derelict spaceship." +
		" The story begins with: the air is running out."
	if prompt != want {
		t.Errorf("unexpected prompt:\n got: %s\nwant: %s", prompt, want)
	}
	if strings.Contains(prompt, "interactive story generator") {
		t.Error("base prompt should replace the built-in instructions")
	}
}
