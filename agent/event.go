package agent

import (
	"time"

	ai "github.com/spetersoncode/parley"
)

// EventType identifies the kind of event occurring during a run.
type EventType string

const (
	// EventTurnAppended fires for every message the loop appends.
	EventTurnAppended EventType = "turn_appended"

	// EventToolInvoked fires after a tool handler ran, successfully or not.
	EventToolInvoked EventType = "tool_invoked"

	// EventModelRetry fires before a failed model call is repeated.
	EventModelRetry EventType = "model_retry"

	// EventLoopTerminated fires once when the run ends.
	EventLoopTerminated EventType = "loop_terminated"
)

// Event is an observable occurrence during a run.
type Event struct {
	Type EventType

	// Iteration is the 1-indexed iteration the event belongs to.
	Iteration int

	// Message is set for EventTurnAppended.
	Message *ai.Message

	// ToolName and ToolResult are set for EventToolInvoked.
	ToolName   string
	ToolResult *ai.ToolResult

	// Error is set for EventModelRetry.
	Error error

	// Result is set for EventLoopTerminated.
	Result *Result

	Timestamp time.Time
}

// EventHandler receives events synchronously on the loop's goroutine.
type EventHandler func(Event)

// TerminationReason indicates why a run stopped.
type TerminationReason string

const (
	TerminationFinalAnswer       TerminationReason = "final_answer"
	TerminationIterationLimit    TerminationReason = "iteration_limit"
	TerminationUnknownTool       TerminationReason = "unknown_tool"
	TerminationInvalidArguments  TerminationReason = "invalid_arguments"
	TerminationMalformedResponse TerminationReason = "malformed_response"
	TerminationModelCallFailed   TerminationReason = "model_call_failed"
	TerminationCancelled         TerminationReason = "cancelled"
	TerminationInvalidInput      TerminationReason = "invalid_input"
)

// Aborted reports whether the run ended without a final answer.
func (r TerminationReason) Aborted() bool {
	return r != TerminationFinalAnswer
}

// Result is the outcome of a run.
type Result struct {
	// Termination indicates why the run stopped.
	Termination TerminationReason

	// Answer is the final answer text when Termination is TerminationFinalAnswer.
	Answer string

	// Err describes the abort. It is nil after a final answer.
	// Use errors.As with *tool.ErrUnknownTool or *tool.ErrInvalidArguments,
	// or errors.Is with ErrIterationLimit, ErrModelCallFailed or
	// ErrMalformedResponse.
	Err error

	// Iterations is the number of iterations started.
	Iterations int

	// ModelCalls counts every model invocation, retries included.
	ModelCalls int

	// Usage aggregates token usage across all replies.
	Usage ai.Usage

	conversation *Conversation
}

// Messages returns the full conversation, including the seed messages.
func (r *Result) Messages() []ai.Message {
	if r.conversation == nil {
		return nil
	}
	return r.conversation.Messages()
}

// MessageCount returns the number of messages in the conversation.
func (r *Result) MessageCount() int {
	if r.conversation == nil {
		return 0
	}
	return r.conversation.Len()
}

// LastMessages returns the last n messages of the conversation.
func (r *Result) LastMessages(n int) []ai.Message {
	if r.conversation == nil {
		return nil
	}
	return r.conversation.Last(n)
}

// Failure maps a model call failure onto its coarse signal.
func (r *Result) Failure() ai.Failure {
	if r.Termination != TerminationModelCallFailed {
		return ai.FailureNone
	}
	return ai.FailureOf(r.Err)
}
