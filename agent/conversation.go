package agent

import ai "github.com/spetersoncode/parley"

// Conversation is the append-only message history of one loop run.
// It is owned by a single run and is not safe for concurrent use.
type Conversation struct {
	messages []ai.Message
}

// NewConversation creates a conversation seeded with a copy of messages.
func NewConversation(messages []ai.Message) *Conversation {
	c := &Conversation{messages: make([]ai.Message, len(messages))}
	copy(c.messages, messages)
	return c
}

// Append adds messages to the end of the conversation.
func (c *Conversation) Append(msgs ...ai.Message) {
	c.messages = append(c.messages, msgs...)
}

// Messages returns a copy of all messages.
func (c *Conversation) Messages() []ai.Message {
	result := make([]ai.Message, len(c.messages))
	copy(result, c.messages)
	return result
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the last n messages. If n > Len(), returns all messages.
func (c *Conversation) Last(n int) []ai.Message {
	if n <= 0 {
		return nil
	}
	start := max(len(c.messages)-n, 0)
	result := make([]ai.Message, len(c.messages)-start)
	copy(result, c.messages[start:])
	return result
}
