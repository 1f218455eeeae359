package parley

import "encoding/json"

// Tool is a catalog entry describing a function the model may call.
type Tool struct {
	Name        string
	Description string
	// Parameters is a JSON Schema object describing the arguments.
	Parameters json.RawMessage
}

// ToolCall represents a request from the model to invoke a tool.
type ToolCall struct {
	// ID correlates the call with its ToolResult.
	ID   string `json:"id"`
	Name string `json:"name"`
	// Arguments is the raw JSON object the model produced.
	Arguments string `json:"arguments"`
}

// ToolResult carries the serialized outcome of a tool call back to the model.
type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Name       string `json:"name,omitempty"`
	Content    string `json:"content"`
	IsError    bool   `json:"isError,omitempty"`
}

// ToolChoice controls how the model uses tools.
type ToolChoice string

const (
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceNone     ToolChoice = "none"
	ToolChoiceRequired ToolChoice = "required"
)

// NewToolResultMessage creates a tool message carrying results.
func NewToolResultMessage(results ...ToolResult) Message {
	return Message{
		Role:        RoleTool,
		ToolResults: results,
	}
}
