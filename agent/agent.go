package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/retry"
	"github.com/spetersoncode/parley/tool"
)

// Agent drives tool-calling conversations against one model.
type Agent struct {
	model    ModelClient
	registry *tool.Registry
}

// New creates an Agent. A nil registry offers no tools.
func New(model ModelClient, registry *tool.Registry) *Agent {
	if registry == nil {
		registry = tool.NewRegistry()
	}
	return &Agent{
		model:    model,
		registry: registry,
	}
}

// run holds the state of one Run call.
type run struct {
	agent   *Agent
	options *Options
	log     *slog.Logger
	result  *Result
	tools   []ai.Tool
}

// Run executes the loop until the model produces a final answer or an
// abort condition is reached. The seed messages are copied, never modified.
//
// MaxIterations bounds model calls, retries included.
func (a *Agent) Run(ctx context.Context, messages []ai.Message, opts ...Option) *Result {
	options := ApplyOptions(opts...)
	r := &run{
		agent:   a,
		options: options,
		log:     options.Logger.With("component", "agent"),
		result:  &Result{conversation: NewConversation(messages)},
		tools:   a.registry.Tools(),
	}

	if len(messages) == 0 {
		return r.finish(TerminationInvalidInput, ai.ErrEmptyInput)
	}

	for {
		if err := ctx.Err(); err != nil {
			return r.finish(TerminationCancelled, err)
		}
		if r.result.ModelCalls >= options.MaxIterations {
			return r.finish(TerminationIterationLimit, ErrIterationLimit)
		}
		r.result.Iterations++
		r.log.Debug("iteration started", "iteration", r.result.Iterations, "messages", r.result.conversation.Len())

		reply, err := r.callModel(ctx)
		if err != nil {
			switch {
			case errors.Is(err, ErrMalformedResponse):
				return r.finish(TerminationMalformedResponse, err)
			case errors.Is(err, context.Canceled) && ctx.Err() != nil:
				return r.finish(TerminationCancelled, err)
			default:
				return r.finish(TerminationModelCallFailed, fmt.Errorf("%w: %w", ErrModelCallFailed, err))
			}
		}
		r.result.Usage = r.result.Usage.Add(reply.Usage)

		switch reply.Kind {
		case ReplyFinal:
			r.append(ai.Message{ID: ai.GenerateMessageID(), Role: ai.RoleAssistant, Content: reply.Text})
			r.result.Answer = reply.Text
			return r.finish(TerminationFinalAnswer, nil)

		case ReplyToolCall:
			if reason, err := r.dispatch(ctx, reply); err != nil {
				return r.finish(reason, err)
			}

		default:
			return r.finish(TerminationMalformedResponse, malformed("unknown reply kind "+reply.Kind.String()))
		}
	}
}

// callModel invokes the model with the configured timeout and retries.
func (r *run) callModel(ctx context.Context) (Reply, error) {
	o := r.options
	messages := r.result.conversation.Messages()

	notify := func(attempt int, err error, delay time.Duration) {
		r.log.Warn("model call failed, retrying",
			"iteration", r.result.Iterations, "attempt", attempt, "delay", delay, "error", err)
		r.emit(Event{Type: EventModelRetry, Error: err})
	}

	// Retries draw on the same budget as iterations.
	retries := min(o.ModelRetries, o.MaxIterations-r.result.ModelCalls-1)
	return retry.DoNotify(ctx, retry.Retries(retries, o.RetryDelay), notify,
		func(ctx context.Context) (Reply, error) {
			r.result.ModelCalls++
			if o.CallTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, o.CallTimeout)
				defer cancel()
			}
			return r.agent.model.Next(ctx, messages, r.tools, o.ChatOptions...)
		})
}

// dispatch records the tool request, then resolves, validates and invokes it.
// A non-nil error aborts the run with the returned reason.
func (r *run) dispatch(ctx context.Context, reply Reply) (TerminationReason, error) {
	call := reply.Call
	r.append(ai.Message{
		ID:        ai.GenerateMessageID(),
		Role:      ai.RoleAssistant,
		Content:   reply.Text,
		ToolCalls: []ai.ToolCall{call},
	})

	registry := r.agent.registry
	spec, ok := registry.Lookup(call.Name)
	if !ok {
		return TerminationUnknownTool, &tool.ErrUnknownTool{Name: call.Name}
	}

	args, err := registry.Validate(spec, call.Arguments)
	if err != nil {
		return TerminationInvalidArguments, err
	}

	result := ai.ToolResult{ToolCallID: call.ID, Name: call.Name}
	result.Content, err = r.invoke(ctx, spec, args)
	if err != nil {
		r.log.Warn("tool failed", "tool", call.Name, "error", err)
		result.Content = tool.ErrorContent(err)
		result.IsError = true
	}

	r.append(ai.NewToolResultMessage(result))
	r.emit(Event{Type: EventToolInvoked, ToolName: call.Name, ToolResult: &result})
	return "", nil
}

func (r *run) invoke(ctx context.Context, spec *tool.Spec, args json.RawMessage) (string, error) {
	if r.options.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.options.ToolTimeout)
		defer cancel()
	}
	return r.agent.registry.Invoke(ctx, spec, args)
}

func (r *run) append(msg ai.Message) {
	r.result.conversation.Append(msg)
	r.emit(Event{Type: EventTurnAppended, Message: &msg})
}

func (r *run) emit(ev Event) {
	if r.options.OnEvent == nil {
		return
	}
	ev.Iteration = r.result.Iterations
	ev.Timestamp = time.Now()
	r.options.OnEvent(ev)
}

func (r *run) finish(reason TerminationReason, err error) *Result {
	r.result.Termination = reason
	r.result.Err = err

	if reason.Aborted() {
		r.log.Warn("loop aborted", "reason", reason, "iterations", r.result.Iterations, "error", err)
	} else {
		r.log.Debug("loop finished", "iterations", r.result.Iterations, "model_calls", r.result.ModelCalls)
	}

	r.emit(Event{Type: EventLoopTerminated, Result: r.result})
	return r.result
}
