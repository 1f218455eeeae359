package compat

import (
	"encoding/json"
	"errors"

	openai "github.com/sashabaranov/go-openai"
	ai "github.com/spetersoncode/parley"
)

func convertMessages(messages []ai.Message) []openai.ChatCompletionMessage {
	var result []openai.ChatCompletionMessage
	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleTool:
			for _, tr := range msg.ToolResults {
				result = append(result, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    tr.Content,
					Name:       tr.Name,
					ToolCallID: tr.ToolCallID,
				})
			}
		case ai.RoleAssistant:
			m := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: msg.Content}
			for _, tc := range msg.ToolCalls {
				m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
					ID:       tc.ID,
					Type:     openai.ToolTypeFunction,
					Function: openai.FunctionCall{Name: tc.Name, Arguments: tc.Arguments},
				})
			}
			result = append(result, m)
		default:
			role := openai.ChatMessageRoleUser
			if msg.Role == ai.RoleSystem {
				role = openai.ChatMessageRoleSystem
			}
			m := openai.ChatCompletionMessage{Role: role}
			if msg.HasParts() {
				m.MultiContent = convertParts(msg.Parts)
			} else {
				m.Content = msg.Content
			}
			result = append(result, m)
		}
	}
	return result
}

func convertParts(parts []ai.ContentPart) []openai.ChatMessagePart {
	var result []openai.ChatMessagePart
	for _, part := range parts {
		switch part.Type {
		case ai.ContentPartTypeText:
			result = append(result, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: part.Text})
		case ai.ContentPartTypeImage:
			if url := part.DataURL(); url != "" {
				result = append(result, openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: url},
				})
			}
		}
	}
	return result
}

func convertTools(tools []ai.Tool) []openai.Tool {
	result := make([]openai.Tool, len(tools))
	for i, t := range tools {
		var params any = json.RawMessage(`{"type":"object","properties":{}}`)
		if len(t.Parameters) > 0 {
			params = t.Parameters
		}
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		}
	}
	return result
}

func extractToolCalls(calls []openai.ToolCall) []ai.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	result := make([]ai.ToolCall, len(calls))
	for i, tc := range calls {
		result[i] = ai.ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments}
	}
	return result
}

// toolCallAccumulator joins streamed tool call fragments by index.
type toolCallAccumulator struct {
	calls []ai.ToolCall
}

func (a *toolCallAccumulator) add(deltas []openai.ToolCall) {
	for _, d := range deltas {
		idx := len(a.calls) - 1
		if d.Index != nil {
			idx = *d.Index
		} else if d.ID != "" || idx < 0 {
			idx = len(a.calls)
		}
		for len(a.calls) <= idx {
			a.calls = append(a.calls, ai.ToolCall{})
		}

		call := &a.calls[idx]
		if d.ID != "" {
			call.ID = d.ID
		}
		if d.Function.Name != "" {
			call.Name = d.Function.Name
		}
		call.Arguments += d.Function.Arguments
	}
}

func (a *toolCallAccumulator) result() []ai.ToolCall {
	if len(a.calls) == 0 {
		return nil
	}
	return a.calls
}

// wrapError categorizes HTTP failures reported by go-openai.
func wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return ai.CategorizeStatus("local", apiErr.HTTPStatusCode, 0, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return ai.CategorizeStatus("local", reqErr.HTTPStatusCode, 0, err)
	}
	return err
}
