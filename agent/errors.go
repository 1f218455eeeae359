package agent

import "errors"

// Sentinel errors for abort reasons that carry no further detail.
var (
	// ErrIterationLimit indicates the model never answered within MaxIterations.
	ErrIterationLimit = errors.New("agent: iteration limit exceeded")

	// ErrModelCallFailed wraps the last error of a model call that exhausted its retries.
	ErrModelCallFailed = errors.New("agent: model call failed")
)
