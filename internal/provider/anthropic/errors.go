package anthropic

import (
	"errors"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/spetersoncode/parley"
)

// wrapError categorizes Anthropic API errors by status code.
// Transport errors are returned unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	var retryAfter time.Duration
	if apiErr.Response != nil {
		if secs, convErr := strconv.Atoi(apiErr.Response.Header.Get("Retry-After")); convErr == nil {
			retryAfter = time.Duration(secs) * time.Second
		}
	}
	return ai.CategorizeStatus("anthropic", apiErr.StatusCode, retryAfter, err)
}
