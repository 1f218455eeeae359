// Package agent runs bounded tool-calling conversations.
//
// An Agent sends the conversation to a ModelClient, which answers with a
// Reply: either a final answer or a request to call one tool. Tool calls are
// dispatched through a tool.Registry and their results appended to the
// conversation before the model is asked again. The loop stops on a final
// answer or on one of the abort reasons below, never silently:
//
//   - TerminationIterationLimit: the model was asked MaxIterations times without answering
//   - TerminationUnknownTool: the model named a tool that is not registered
//   - TerminationInvalidArguments: the arguments failed the tool's schema
//   - TerminationMalformedResponse: the reply was neither an answer nor a tool call
//   - TerminationModelCallFailed: the model call failed after its retries
//   - TerminationCancelled: the caller's context ended between iterations
//
// A tool handler that fails does not stop the loop. Its error is sent to the
// model as the tool result and the conversation continues.
//
// # Basic Usage
//
//	a := agent.New(agent.FromProvider(c), registry)
//	result := a.Run(ctx, []parley.Message{
//	    parley.NewSystemMessage(builtin.AnalystPrompt),
//	    parley.NewUserMessage(alert),
//	},
//	    agent.WithMaxIterations(5),
//	    agent.WithCallTimeout(30*time.Second),
//	    agent.WithEventHandler(func(e agent.Event) { ... }),
//	)
//
//	switch result.Termination {
//	case agent.TerminationFinalAnswer:
//	    fmt.Println(result.Answer)
//	default:
//	    log.Printf("aborted (%s): %v", result.Termination, result.Err)
//	}
//
// Run is synchronous and never returns a Go error; the outcome is carried
// by the Result. Each Run owns its conversation, so independent runs may
// proceed concurrently without coordination.
package agent
