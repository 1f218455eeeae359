package google

import (
	"errors"
	"fmt"

	ai "github.com/spetersoncode/parley"
	"google.golang.org/genai"
)

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("google: request blocked: %s", e.Reason)
}

func blocked(resp *genai.GenerateContentResponse) error {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return ai.NewUserInputError("google: request blocked", 0, &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)})
	}
	return nil
}

// wrapError categorizes GenAI API errors by status code.
// genai.APIError carries no headers, so no Retry-After hint is available.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.CategorizeStatus("google", apiErr.Code, 0, err)
}
