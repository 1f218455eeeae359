// Package tool holds the registry of local functions a model may call.
//
// A tool is registered once, before a conversation starts, with a JSON
// Schema describing its arguments and a handler that returns any
// JSON-serializable value. The registry validates the model's arguments
// against the schema before the handler runs:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" jsonschema:"description=City name"`
//	    Unit     string `json:"unit,omitempty" jsonschema:"enum=celsius,enum=fahrenheit"`
//	}
//
//	reg := tool.NewRegistry().Add(
//	    tool.Func("get_current_weather", "Get the current weather in a location",
//	        func(ctx context.Context, args WeatherArgs) (any, error) {
//	            return lookup(args.Location, args.Unit), nil
//	        }),
//	)
//
//	spec, ok := reg.Lookup(call.Name)
//	args, err := reg.Validate(spec, call.Arguments)  // *ErrInvalidArguments
//	content, err := reg.Invoke(ctx, spec, args)      // *ErrToolExecution
//
// Handler errors are meaningful to the model. ErrorContent renders them as a
// {"error": "..."} payload so a conversation can carry on.
package tool
