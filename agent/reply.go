package agent

import (
	"errors"
	"strings"

	ai "github.com/spetersoncode/parley"
)

// ReplyKind discriminates the two successful shapes of a model reply.
type ReplyKind int

const (
	// ReplyFinal is a plain text answer that ends the conversation.
	ReplyFinal ReplyKind = iota + 1
	// ReplyToolCall asks for one tool to be invoked.
	ReplyToolCall
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyFinal:
		return "final_answer"
	case ReplyToolCall:
		return "tool_call"
	}
	return "unknown"
}

// Reply is the model's answer to one conversation turn.
type Reply struct {
	Kind ReplyKind
	// Text is the answer for ReplyFinal, and any accompanying text for ReplyToolCall.
	Text string
	// Call is set for ReplyToolCall.
	Call  ai.ToolCall
	Usage ai.Usage
}

// FinalAnswer builds a ReplyFinal.
func FinalAnswer(text string) Reply {
	return Reply{Kind: ReplyFinal, Text: text}
}

// CallTool builds a ReplyToolCall. An ID is generated.
func CallTool(name, arguments string) Reply {
	return Reply{
		Kind: ReplyToolCall,
		Call: ai.ToolCall{ID: ai.GenerateToolCallID(), Name: name, Arguments: arguments},
	}
}

// ErrMalformedResponse marks a model reply that is neither a final answer nor a tool call.
var ErrMalformedResponse = errors.New("agent: malformed model response")

// malformed returns a permanent error so retry policies never repeat the call.
func malformed(reason string) error {
	return ai.NewPermanentError(ErrMalformedResponse.Error()+": "+reason, 0, ErrMalformedResponse)
}

// Classify decides once whether a provider response is a final answer or a
// tool call.
//
// When the model requests several tools only the first is kept. A response
// with no tool call and no text, or a tool call without a name, is malformed.
func Classify(resp *ai.Response) (Reply, error) {
	if resp == nil {
		return Reply{}, malformed("no response")
	}

	if len(resp.ToolCalls) > 0 {
		call := resp.ToolCalls[0]
		if strings.TrimSpace(call.Name) == "" {
			return Reply{}, malformed("tool call without a name")
		}
		if call.ID == "" {
			call.ID = ai.GenerateToolCallID()
		}
		return Reply{Kind: ReplyToolCall, Text: resp.Content, Call: call, Usage: resp.Usage}, nil
	}

	if strings.TrimSpace(resp.Content) == "" {
		return Reply{}, malformed("empty answer")
	}
	return Reply{Kind: ReplyFinal, Text: resp.Content, Usage: resp.Usage}, nil
}
