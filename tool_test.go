package parley

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolChoiceConstants(t *testing.T) {
	assert.Equal(t, ToolChoice("auto"), ToolChoiceAuto)
	assert.Equal(t, ToolChoice("none"), ToolChoiceNone)
	assert.Equal(t, ToolChoice("required"), ToolChoiceRequired)
}

func TestNewToolResultMessage(t *testing.T) {
	t.Run("single result", func(t *testing.T) {
		msg := NewToolResultMessage(ToolResult{ToolCallID: "call_1", Name: "get_current_status", Content: `{"cpu":1}`})

		assert.Equal(t, RoleTool, msg.Role)
		assert.Empty(t, msg.Content)
		assert.Len(t, msg.ToolResults, 1)
		assert.Equal(t, "get_current_status", msg.ToolName())
	})

	t.Run("error result keeps flag", func(t *testing.T) {
		msg := NewToolResultMessage(ToolResult{ToolCallID: "call_1", Content: `{"error":"boom"}`, IsError: true})
		assert.True(t, msg.ToolResults[0].IsError)
	})

	t.Run("no results", func(t *testing.T) {
		msg := NewToolResultMessage()
		assert.Equal(t, RoleTool, msg.Role)
		assert.Empty(t, msg.ToolResults)
	})
}
