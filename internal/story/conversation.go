// Package story holds the conversation transcript that is replayed to the
// generation endpoint on every turn. A Conversation is owned by a single
// generation loop and is never shared across goroutines.
package story

import (
	"errors"
	"fmt"
)

var (
	ErrInvariantViolation = errors.New("conversation invariant violated")
)

// Role tags the author of a message in the transcript.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged entry in the transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered transcript. The system message, if any, sits at
// index 0; user and assistant messages alternate after it.
type Conversation struct {
	messages []Message
}

// Seed creates a transcript holding only the system prompt.
func Seed(systemPrompt string) *Conversation {
	return &Conversation{
		messages: []Message{{Role: RoleSystem, Content: systemPrompt}},
	}
}

// AppendUser appends a user message. It fails if the previous message is
// already an unanswered user message.
func (c *Conversation) AppendUser(text string) error {
	if last, ok := c.Last(); ok && last.Role == RoleUser {
		return fmt.Errorf("%w: user message follows unanswered user message", ErrInvariantViolation)
	}
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})
	return nil
}

// AppendAssistant appends an assistant reply. It fails on an empty transcript
// or when the previous message is already an assistant reply.
func (c *Conversation) AppendAssistant(text string) error {
	last, ok := c.Last()
	if !ok {
		return fmt.Errorf("%w: assistant reply on empty conversation", ErrInvariantViolation)
	}
	if last.Role == RoleAssistant {
		return fmt.Errorf("%w: consecutive assistant replies", ErrInvariantViolation)
	}
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: text})
	return nil
}

// RollbackLastUser drops the trailing user message, if there is one, and
// reports whether anything was removed.
func (c *Conversation) RollbackLastUser() bool {
	last, ok := c.Last()
	if !ok || last.Role != RoleUser {
		return false
	}
	c.messages = c.messages[:len(c.messages)-1]
	return true
}

// Last returns the final message of the transcript.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Len returns the number of messages in the transcript.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the transcript in order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// SystemPrompt returns the leading system message content, if present.
func (c *Conversation) SystemPrompt() (string, bool) {
	if len(c.messages) == 0 || c.messages[0].Role != RoleSystem {
		return "", false
	}
	return c.messages[0].Content, true
}
