package openai

import (
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
	ai "github.com/spetersoncode/parley"
)

// convertTools builds function definitions. A tool without parameters gets an
// empty object schema.
func convertTools(tools []ai.Tool) ([]openai.ChatCompletionToolParam, error) {
	params := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		schema := shared.FunctionParameters{"type": "object", "properties": map[string]any{}}
		if len(t.Parameters) > 0 {
			if err := json.Unmarshal(t.Parameters, &schema); err != nil {
				return nil, ai.NewUserInputError(fmt.Sprintf("openai: parameters of tool %q", t.Name), 0, err)
			}
		}
		def := shared.FunctionDefinitionParam{Name: t.Name, Parameters: schema}
		if t.Description != "" {
			def.Description = openai.String(t.Description)
		}
		params = append(params, openai.ChatCompletionToolParam{Function: def})
	}
	return params, nil
}

var toolChoices = map[ai.ToolChoice]string{
	ai.ToolChoiceAuto:     "auto",
	ai.ToolChoiceNone:     "none",
	ai.ToolChoiceRequired: "required",
}

func convertToolChoice(choice ai.ToolChoice) openai.ChatCompletionToolChoiceOptionUnionParam {
	mode, ok := toolChoices[choice]
	if !ok {
		mode = "auto"
	}
	return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String(mode)}
}

func extractToolCalls(calls []openai.ChatCompletionMessageToolCall) []ai.ToolCall {
	var out []ai.ToolCall
	for _, tc := range calls {
		out = append(out, ai.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out
}
