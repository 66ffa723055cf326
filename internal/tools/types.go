package tools

import (
	"context"
)

// Error types reported in ExecutionResult.ErrorType.
const (
	ErrorTypeNotFound         = "tool_not_found"
	ErrorTypeInvalidArguments = "invalid_arguments"
	ErrorTypeExecution        = "execution_error"
)

// ToolHandler represents a function that handles tool execution
type ToolHandler func(context.Context, map[string]any) (map[string]any, error)

// Tool represents a single executable tool with its metadata and handler.
type Tool struct {
	Name        string      // Tool name
	Category    string      // Category for organizing tools (e.g., "match", "temperature")
	Description string      // Tool description
	InputSchema interface{} // Schema for tool parameters (map[string]any)
	Handler     ToolHandler // Handler function
}

// ExecutionResult represents the result of a tool execution.
type ExecutionResult struct {
	Success         bool           `json:"success"`
	ToolName        string         `json:"tool_name"`
	Result          map[string]any `json:"result,omitempty"`
	Error           string         `json:"error,omitempty"`
	ErrorType       string         `json:"error_type,omitempty"`
	ExecutionTimeMs int64          `json:"execution_time_ms"`
}

// BatchExecutionRequest represents a request to execute multiple tools.
type BatchExecutionRequest struct {
	Tools           []ToolExecution `json:"tools" jsonschema:"Tools to execute in order"`
	ContinueOnError bool            `json:"continue_on_error,omitempty" jsonschema:"Keep going after a failed tool. Default: false"`
}

// ToolExecution represents a single tool execution request.
type ToolExecution struct {
	ToolName  string         `json:"tool_name" jsonschema:"Name of the tool to execute"`
	Arguments map[string]any `json:"arguments,omitempty" jsonschema:"Tool-specific arguments as an object"`
}

// BatchExecutionResult represents the result of a batch execution.
type BatchExecutionResult struct {
	Results              []ExecutionResult `json:"results"`
	TotalExecutionTimeMs int64             `json:"total_execution_time_ms"`
	SuccessfulCount      int               `json:"successful_count"`
	FailedCount          int               `json:"failed_count"`
}

// ToolMetadata represents tool information for search results.
type ToolMetadata struct {
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"` // Schema as map
}
