// Package engine runs the read-generate-print loop that drives a story.
package engine

import "fmt"

// State is a position in the generation loop.
type State int

const (
	AwaitingInitialGeneration State = iota
	AwaitingUserInput
	AwaitingFollowupGeneration
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingInitialGeneration:
		return "awaiting-initial-generation"
	case AwaitingUserInput:
		return "awaiting-user-input"
	case AwaitingFollowupGeneration:
		return "awaiting-followup-generation"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
