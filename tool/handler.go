package tool

import (
	"context"
	"encoding/json"
)

// Handler executes a tool with arguments that have already passed schema
// validation. The result is serialized with Serialize.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// TypedHandler is a Handler whose arguments are decoded into T.
type TypedHandler[T any] func(ctx context.Context, args T) (any, error)

// typed adapts a TypedHandler into a Handler.
func typed[T any](fn TypedHandler[T]) Handler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var v T
		if err := json.Unmarshal(args, &v); err != nil {
			return nil, err
		}
		return fn(ctx, v)
	}
}
