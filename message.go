package parley

import "github.com/google/uuid"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ContentPartType represents the type of content in a multimodal message part.
type ContentPartType string

const (
	ContentPartTypeText  ContentPartType = "text"
	ContentPartTypeImage ContentPartType = "image"
)

// ContentPart represents a single part of multimodal content.
// Text parts use Text; image parts use either ImageURL or Base64 with MimeType.
type ContentPart struct {
	Type     ContentPartType `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Base64   string          `json:"base64,omitempty"`
	MimeType string          `json:"mimeType,omitempty"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartTypeText, Text: text}
}

// NewImageURLPart creates an image content part from a URL.
func NewImageURLPart(url string) ContentPart {
	return ContentPart{Type: ContentPartTypeImage, ImageURL: url}
}

// NewImageBase64Part creates an image content part from base64 data.
func NewImageBase64Part(base64Data, mimeType string) ContentPart {
	return ContentPart{Type: ContentPartTypeImage, Base64: base64Data, MimeType: mimeType}
}

// DataURL returns the part's image as a data URL, or ImageURL when no inline data is set.
func (p ContentPart) DataURL() string {
	if p.Base64 == "" {
		return p.ImageURL
	}
	return "data:" + p.MimeType + ";base64," + p.Base64
}

// Message represents a single message in a conversation.
//
// An assistant message that requests a tool carries the request in ToolCalls.
// A tool message carries the outcome of that request in ToolResults.
// Messages are values: once appended to a conversation they are never edited.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	// Parts contains multimodal content. When set, providers that support
	// images send Parts instead of Content.
	Parts       []ContentPart `json:"parts,omitempty"`
	ToolCalls   []ToolCall    `json:"toolCalls,omitempty"`
	ToolResults []ToolResult  `json:"toolResults,omitempty"`
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// GenerateToolCallID creates an identifier for providers that omit one.
func GenerateToolCallID() string {
	return "call-" + uuid.New().String()
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message with plain text content.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// HasParts returns true if the message has multimodal content parts.
func (m Message) HasParts() bool {
	return len(m.Parts) > 0
}

// ToolName returns the name of the tool a tool or tool-calling assistant
// message refers to, or "" if it refers to none.
func (m Message) ToolName() string {
	switch {
	case m.Role == RoleTool && len(m.ToolResults) > 0:
		return m.ToolResults[0].Name
	case m.Role == RoleAssistant && len(m.ToolCalls) > 0:
		return m.ToolCalls[0].Name
	}
	return ""
}

// Text returns Content, or the concatenated text parts when Content is empty.
func (m Message) Text() string {
	if m.Content != "" || len(m.Parts) == 0 {
		return m.Content
	}
	var out string
	for _, p := range m.Parts {
		if p.Type == ContentPartTypeText {
			out += p.Text
		}
	}
	return out
}

// Response represents a complete response from a chat provider.
type Response struct {
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
	// ToolCalls holds the model's tool invocation requests, if any.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// Usage contains token usage information for a request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Add returns the sum of two usages.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}

// StreamEvent represents a single event in a streaming response.
type StreamEvent struct {
	Delta    string
	Done     bool
	Response *Response // set when Done is true
	Err      error
}
