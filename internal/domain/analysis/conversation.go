package analysis

import "github.com/yanqian/yogava/internal/infra/llm/chatgpt"

// Turn is one message of the conversation.
type Turn struct {
	Role    string
	Content string
}

// Conversation is an append-only list of turns. Append returns a new value and
// never writes into storage reachable from the receiver.
type Conversation struct {
	turns []Turn
}

// NewConversation starts a conversation with the given turns.
func NewConversation(turns ...Turn) Conversation {
	return Conversation{turns: append([]Turn(nil), turns...)}
}

// Append returns a copy of c extended by t.
func (c Conversation) Append(t Turn) Conversation {
	next := make([]Turn, len(c.turns), len(c.turns)+1)
	copy(next, c.turns)
	return Conversation{turns: append(next, t)}
}

// Len reports the number of turns.
func (c Conversation) Len() int {
	return len(c.turns)
}

func (c Conversation) messages() []chatgpt.Message {
	out := make([]chatgpt.Message, len(c.turns))
	for i, t := range c.turns {
		out[i] = chatgpt.Message{Role: t.Role, Content: t.Content}
	}
	return out
}
