package tool

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	ai "github.com/spetersoncode/parley"
)

// Spec is a registered tool: its catalog entry, compiled argument schema
// and handler. Specs are immutable once registered.
type Spec struct {
	tool    ai.Tool
	schema  *jsonschema.Schema
	handler Handler
}

// Name returns the tool name.
func (s *Spec) Name() string { return s.tool.Name }

// Tool returns the catalog entry offered to the model.
func (s *Spec) Tool() ai.Tool { return s.tool }

// Registry manages registered tools and their handlers.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Spec
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Spec),
	}
}

// Register adds a tool with its handler to the registry.
// The parameter schema is compiled here so each call only validates.
func (r *Registry) Register(tool ai.Tool, handler Handler) error {
	if tool.Name == "" {
		return fmt.Errorf("tool: name is required")
	}
	if handler == nil {
		return fmt.Errorf("tool: %s: handler is required", tool.Name)
	}

	schema, err := compileSchema(tool.Parameters)
	if err != nil {
		return &ErrInvalidSchema{Name: tool.Name, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: tool.Name}
	}
	r.tools[tool.Name] = &Spec{tool: tool, schema: schema, handler: handler}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tool ai.Tool, handler Handler) {
	if err := r.Register(tool, handler); err != nil {
		panic(err)
	}
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.tools[name]
	return spec, ok
}

// Validate checks raw model arguments against the tool's schema and returns
// them as JSON ready for Invoke. Blank arguments are treated as {}.
func (r *Registry) Validate(spec *Spec, arguments string) (json.RawMessage, error) {
	args, err := validateArguments(spec.schema, arguments)
	if err != nil {
		return nil, &ErrInvalidArguments{Name: spec.Name(), Err: err}
	}
	return args, nil
}

// Invoke runs the tool's handler and serializes its result.
// Handler errors and panics are returned as *ErrToolExecution. When ctx ends
// first Invoke returns at once with the context error; a handler that ignores
// ctx keeps running in the background until it returns.
func (r *Registry) Invoke(ctx context.Context, spec *Spec, args json.RawMessage) (string, error) {
	type outcome struct {
		content string
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		var o outcome
		defer func() {
			if p := recover(); p != nil {
				o = outcome{err: &ErrToolExecution{Name: spec.Name(), Err: fmt.Errorf("panic: %v", p)}}
			}
			done <- o
		}()
		o.content, o.err = invokeHandler(ctx, spec, args)
	}()

	select {
	case o := <-done:
		return o.content, o.err
	case <-ctx.Done():
		return "", &ErrToolExecution{Name: spec.Name(), Err: ctx.Err()}
	}
}

func invokeHandler(ctx context.Context, spec *Spec, args json.RawMessage) (string, error) {
	result, err := spec.handler(ctx, args)
	if err != nil {
		return "", &ErrToolExecution{Name: spec.Name(), Err: err}
	}
	content, err := Serialize(result)
	if err != nil {
		return "", &ErrToolExecution{Name: spec.Name(), Err: fmt.Errorf("serialize result: %w", err)}
	}
	return content, nil
}

// Execute looks up, validates and invokes a single call.
//
// Unknown tools and invalid arguments are returned as errors. A handler
// failure becomes an error ToolResult so the model can react to it.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	spec, ok := r.Lookup(call.Name)
	if !ok {
		return ai.ToolResult{}, &ErrUnknownTool{Name: call.Name}
	}
	args, err := r.Validate(spec, call.Arguments)
	if err != nil {
		return ai.ToolResult{}, err
	}

	result := ai.ToolResult{ToolCallID: call.ID, Name: call.Name}
	content, err := r.Invoke(ctx, spec, args)
	if err != nil {
		result.Content = ErrorContent(err)
		result.IsError = true
		return result, nil
	}
	result.Content = content
	return result, nil
}

// Tools returns the tool catalog sorted by name.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.tools))
	for _, spec := range r.tools {
		tools = append(tools, spec.tool)
	}
	slices.SortFunc(tools, func(a, b ai.Tool) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return tools
}

// Names returns the sorted names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// RegisterFunc registers a tool whose schema is reflected from T and whose
// arguments are decoded into T before fn runs.
func RegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) error {
	reg := Func(name, description, fn)
	return r.Register(reg.Tool, reg.Handler)
}

// MustRegisterFunc is like RegisterFunc but panics on error.
func MustRegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) {
	if err := RegisterFunc(r, name, description, fn); err != nil {
		panic(err)
	}
}

// Registration holds a tool and its handler for fluent registration.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// Func creates a Registration with a schema reflected from T.
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_current_weather", "Get weather", weatherFn),
//	    tool.Func("get_current_status", "Get server status", statusFn),
//	)
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  ai.SchemaFor[T](),
		},
		Handler: typed(fn),
	}
}

// WithSchema creates a Registration from a hand-written schema.
func WithSchema(name, description string, schema json.RawMessage, h Handler) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		Handler: h,
	}
}

// Add registers one or more tools and returns the registry for chaining.
// Panics if any registration fails.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg.Tool, reg.Handler)
	}
	return r
}
