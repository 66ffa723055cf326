package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/radutopala/seqmatch/internal/fuzzy"
)

// ErrInvalidArguments is wrapped by handlers when tool arguments are missing or mistyped.
var ErrInvalidArguments = errors.New("invalid arguments")

// Registry manages all available tools and their execution.
type Registry struct {
	tools  map[string]*Tool
	logger *slog.Logger
}

// NewRegistry creates a new tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]*Tool),
		logger: logger,
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool *Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool handler cannot be nil")
	}
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}

	r.tools[tool.Name] = tool
	r.logger.Info("Registered tool", "name", tool.Name, "category", tool.Category)
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (*Tool, error) {
	tool, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return tool, nil
}

// Search finds tools whose name or description contains the query as an
// in-order subsequence, ignoring case. Results are sorted by name.
func (r *Registry) Search(query, category string) []*Tool {
	var results []*Tool

	queryLower := strings.ToLower(query)

	for _, tool := range r.tools {
		// Filter by category if specified
		if category != "" && tool.Category != category {
			continue
		}

		if !fuzzy.Match(queryLower, strings.ToLower(tool.Name)) &&
			!fuzzy.Match(queryLower, strings.ToLower(tool.Description)) {
			continue
		}

		results = append(results, tool)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	return results
}

// Execute runs a tool with the given parameters.
// Tool failures are reported in the result; the error return is reserved for the caller's misuse.
func (r *Registry) Execute(ctx context.Context, toolName string, parameters map[string]any) (*ExecutionResult, error) {
	start := time.Now()

	tool, err := r.Get(toolName)
	if err != nil {
		return &ExecutionResult{
			Success:         false,
			ToolName:        toolName,
			Error:           err.Error(),
			ErrorType:       ErrorTypeNotFound,
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		}, nil
	}

	r.logger.InfoContext(ctx, "Executing tool", "name", toolName, "parameters", parameters)

	if parameters == nil {
		parameters = map[string]any{}
	}
	result, execErr := tool.Handler(ctx, parameters)

	executionTime := time.Since(start).Milliseconds()

	if execErr != nil {
		errorType := ErrorTypeExecution
		if errors.Is(execErr, ErrInvalidArguments) {
			errorType = ErrorTypeInvalidArguments
		}

		r.logger.ErrorContext(ctx, "Tool execution failed", "name", toolName, "error", execErr)
		return &ExecutionResult{
			Success:         false,
			ToolName:        toolName,
			Error:           execErr.Error(),
			ErrorType:       errorType,
			ExecutionTimeMs: executionTime,
		}, nil
	}

	r.logger.InfoContext(ctx, "Tool execution successful", "name", toolName, "execution_time_ms", executionTime)

	return &ExecutionResult{
		Success:         true,
		ToolName:        toolName,
		Result:          result,
		ExecutionTimeMs: executionTime,
	}, nil
}

// ExecuteBatch runs multiple tools in sequence.
func (r *Registry) ExecuteBatch(ctx context.Context, request *BatchExecutionRequest) (*BatchExecutionResult, error) {
	if request == nil {
		return nil, fmt.Errorf("batch request cannot be nil")
	}

	start := time.Now()

	results := make([]ExecutionResult, 0, len(request.Tools))
	successCount := 0
	failedCount := 0

	for _, toolExec := range request.Tools {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := r.Execute(ctx, toolExec.ToolName, toolExec.Arguments)
		if err != nil {
			return nil, err
		}

		results = append(results, *result)

		if result.Success {
			successCount++
		} else {
			failedCount++
			if !request.ContinueOnError {
				r.logger.WarnContext(ctx, "Stopping batch execution due to error", "tool", toolExec.ToolName)
				break
			}
		}
	}

	return &BatchExecutionResult{
		Results:              results,
		TotalExecutionTimeMs: time.Since(start).Milliseconds(),
		SuccessfulCount:      successCount,
		FailedCount:          failedCount,
	}, nil
}

// ListAll returns all registered tools sorted by name.
func (r *Registry) ListAll() []*Tool {
	tools := make([]*Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
	return tools
}
