package utils

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetStringParam safely extracts a string parameter from the request
func GetStringParam(req mcp.CallToolRequest, key string, required bool) (string, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return "", fmt.Errorf("missing required parameter: '%s'", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("parameter '%s' must be a string", key)
	}

	return str, nil
}

// GetRequiredStringParam is a shorthand for GetStringParam with required=true
func GetRequiredStringParam(req mcp.CallToolRequest, key string) (string, error) {
	return GetStringParam(req, key, true)
}

// GetFloat64Param safely extracts a float64 parameter from the request.
// Whole numbers decoded as int by some clients are accepted too.
func GetFloat64Param(req mcp.CallToolRequest, key string, required bool) (float64, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return 0, fmt.Errorf("missing required parameter: '%s'", key)
		}
		return 0, nil
	}

	switch f := val.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	case int:
		return float64(f), nil
	case int64:
		return float64(f), nil
	default:
		return 0, fmt.Errorf("parameter '%s' must be a number", key)
	}
}

// GetRequiredFloat64Param is a shorthand for GetFloat64Param with required=true
func GetRequiredFloat64Param(req mcp.CallToolRequest, key string) (float64, error) {
	return GetFloat64Param(req, key, true)
}

// HandleParameterError returns a properly formatted error response for parameter validation errors
func HandleParameterError(tool string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf("Error running %s: %v", tool, err))
}
