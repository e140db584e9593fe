package narrative

import (
	"fmt"
	"strings"
)

// StoryParams are the details the player supplies before the story starts.
type StoryParams struct {
	Genre     string
	Setting   string
	Situation string
}

// AssembleSystemPrompt builds the system message that seeds a story.
// When base is empty the built-in storyteller instructions are used; otherwise
// the story details are appended to base.
func AssembleSystemPrompt(base string, params StoryParams) string {
	genre := strings.TrimSpace(params.Genre)
	setting := strings.TrimSpace(params.Setting)
	situation := strings.TrimSpace(params.Situation)

	base = strings.TrimSpace(base)
	if base == "" {
		return assembleStorytellerPrompt(genre, setting, situation)
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString(fmt.Sprintf(" The story is in the %s genre, set in %s.", genre, setting))
	b.WriteString(fmt.Sprintf(" The story begins with: %s.", situation))
	return b.String()
}

func assembleStorytellerPrompt(genre, setting, situation string) string {
	var b strings.Builder

	b.WriteString("You are an interactive story generator. ")
	b.WriteString(fmt.Sprintf("Create a compelling narrative in the %s genre, set in %s. ", genre, setting))
	b.WriteString(fmt.Sprintf("The story begins with: %s. ", situation))
	b.WriteString("Continue the story based on user actions, ")
	b.WriteString("keeping responses concise (around 1-3 paragraphs).")

	return b.String()
}
