package tool

import "fmt"

// ErrUnknownTool is returned when a call names a tool that is not registered.
type ErrUnknownTool struct {
	Name string
}

func (e *ErrUnknownTool) Error() string {
	return fmt.Sprintf("tool: unknown tool: %s", e.Name)
}

// ErrInvalidArguments is returned when arguments fail schema validation.
type ErrInvalidArguments struct {
	Name string
	Err  error
}

func (e *ErrInvalidArguments) Error() string {
	return fmt.Sprintf("tool: %s: invalid arguments: %v", e.Name, e.Err)
}

func (e *ErrInvalidArguments) Unwrap() error {
	return e.Err
}

// ErrToolExecution wraps a failure raised by a tool handler.
type ErrToolExecution struct {
	Name string
	Err  error
}

func (e *ErrToolExecution) Error() string {
	return fmt.Sprintf("tool: %s execution failed: %v", e.Name, e.Err)
}

func (e *ErrToolExecution) Unwrap() error {
	return e.Err
}

// ErrToolAlreadyRegistered is returned when registering a tool with a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}

// ErrInvalidSchema is returned when a tool's parameter schema does not compile.
type ErrInvalidSchema struct {
	Name string
	Err  error
}

func (e *ErrInvalidSchema) Error() string {
	return fmt.Sprintf("tool: %s: invalid parameter schema: %v", e.Name, e.Err)
}

func (e *ErrInvalidSchema) Unwrap() error {
	return e.Err
}
