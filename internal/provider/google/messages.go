package google

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	ai "github.com/spetersoncode/parley"
	"google.golang.org/genai"
)

// convertMessages maps the conversation to Gemini contents. System messages
// become the system instruction.
func convertMessages(messages []ai.Message) ([]*genai.Content, *genai.Content, error) {
	var contents []*genai.Content
	var system *genai.Content

	for _, msg := range messages {
		if msg.Role == ai.RoleSystem {
			if msg.Content == "" {
				continue
			}
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: msg.Content})
			continue
		}

		role := genai.RoleUser
		if msg.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}

		var parts []*genai.Part
		if msg.HasParts() {
			converted, err := convertParts(msg.Parts)
			if err != nil {
				return nil, nil, err
			}
			parts = converted
		} else if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}

		for _, tc := range msg.ToolCalls {
			var args map[string]any
			_ = json.Unmarshal([]byte(tc.Arguments), &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{Name: tc.Name, Args: args},
			})
		}

		for _, tr := range msg.ToolResults {
			var result map[string]any
			if err := json.Unmarshal([]byte(tr.Content), &result); err != nil {
				result = map[string]any{"result": tr.Content}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{Name: tr.Name, Response: result},
			})
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}

	return contents, system, nil
}

func convertParts(parts []ai.ContentPart) ([]*genai.Part, error) {
	var result []*genai.Part
	for _, part := range parts {
		switch part.Type {
		case ai.ContentPartTypeText:
			if part.Text != "" {
				result = append(result, &genai.Part{Text: part.Text})
			}
		case ai.ContentPartTypeImage:
			mimeType := part.MimeType
			if mimeType == "" {
				mimeType = inferMimeType(part.ImageURL)
			}
			if part.Base64 != "" {
				data, err := base64.StdEncoding.DecodeString(part.Base64)
				if err != nil {
					return nil, &ai.ImageError{Op: "decode", Source: "base64", Err: err}
				}
				result = append(result, &genai.Part{
					InlineData: &genai.Blob{Data: data, MIMEType: mimeType},
				})
			} else if part.ImageURL != "" {
				result = append(result, &genai.Part{
					FileData: &genai.FileData{FileURI: part.ImageURL, MIMEType: mimeType},
				})
			}
		}
	}
	return result, nil
}

func inferMimeType(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
