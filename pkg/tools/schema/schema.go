// Package schema declares tool arguments as tagged Go structs and validates
// incoming arguments against the declared schema.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools"
	"github.com/xeipuuv/gojsonschema"
)

var reflector = jsonschema.Reflector{
	DoNotReference:            true,
	ExpandedStruct:            true,
	AllowAdditionalProperties: true,
}

/*
For reflects an argument struct into the input schema advertised for a tool.
Field constraints come from `jsonschema` tags, descriptions from
`jsonschema_description` tags.
*/
func For(v any) (mcp.ToolInputSchema, error) {
	raw, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return mcp.ToolInputSchema{}, fmt.Errorf("encode schema for %T: %w", v, err)
	}

	var decoded struct {
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}

	if err := json.Unmarshal(raw, &decoded); err != nil {
		return mcp.ToolInputSchema{}, fmt.Errorf("decode schema for %T: %w", v, err)
	}

	if decoded.Properties == nil {
		decoded.Properties = map[string]any{}
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: decoded.Properties,
		Required:   decoded.Required,
	}, nil
}

// MustFor is For for package-level argument declarations; it panics on error.
func MustFor(v any) mcp.ToolInputSchema {
	s, err := For(v)
	if err != nil {
		panic(err)
	}

	return s
}

// ValidationError lists every way the arguments miss the schema.
type ValidationError struct {
	Tool       string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Unwrap() error {
	return tools.ErrInvalidParams
}

// Validate checks args against in. A nil args map is treated as empty.
func Validate(tool string, in mcp.ToolInputSchema, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(in),
		gojsonschema.NewGoLoader(args),
	)

	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))

	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}

	return &ValidationError{Tool: tool, Violations: violations}
}
