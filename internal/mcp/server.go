package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/radutopala/seqmatch/internal/fuzzy"
	"github.com/radutopala/seqmatch/internal/temperature"
	"github.com/radutopala/seqmatch/internal/tools"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultSearchResultLimit = 5

// MatchServer exposes the matcher and converter as MCP tools.
type MatchServer struct {
	server            *mcp.Server
	logger            *slog.Logger
	registry          *tools.Registry
	searchResultLimit int // Number of tools to return per search
}

// NewMatchServer creates a new MCP server with the built-in tools registered.
func NewMatchServer(name, version string, logger *slog.Logger) (*MatchServer, error) {
	s := &MatchServer{
		logger:            logger,
		registry:          tools.NewRegistry(logger),
		searchResultLimit: defaultSearchResultLimit,
	}

	config, err := LoadConfig(ConfigPath(), logger)
	if err != nil {
		logger.Warn("Failed to load config, using defaults", "error", err)
	} else if config.Settings.SearchResultLimit > 0 {
		s.searchResultLimit = config.Settings.SearchResultLimit
		logger.Info("Using custom search result limit", "limit", config.Settings.SearchResultLimit)
	}

	if err := tools.RegisterBuiltins(s.registry); err != nil {
		return nil, fmt.Errorf("failed to register built-in tools: %w", err)
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    name,
			Version: version,
		},
		&mcp.ServerOptions{
			Logger: logger,
		},
	)

	s.registerTools(server)
	s.server = server

	return s, nil
}

// Run starts the MCP server with the given transport
func (s *MatchServer) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// Connect attaches a single session on transport and returns without blocking.
func (s *MatchServer) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

// HTTPHandler serves the MCP server over Streamable HTTP.
func (s *MatchServer) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// Registry returns the tool registry backing tool_search and tool_execute.
func (s *MatchServer) Registry() *tools.Registry {
	return s.registry
}

// === TOOL REGISTRATION ===

func (s *MatchServer) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        tools.ToolFuzzyMatch,
		Description: "Report whether every character of 'pattern' appears in 'subject' in the same order (not necessarily contiguous). Matching is exact and case sensitive, comparing Unicode code points.",
	}, s.handleFuzzyMatch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        tools.ToolFahrenheitToCelsius,
		Description: "Convert a Fahrenheit temperature to Celsius.",
	}, s.handleFahrenheitToCelsius)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tool_search",
		Description: "Search available tools. The query matches when its characters appear in order in a tool's name or description, ignoring case (e.g., 'fzymtch' finds 'fuzzy_match').",
	}, s.handleToolSearch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tool_execute",
		Description: "Execute a single tool by name with arguments. Use tool_search first to discover available tools.",
	}, s.handleToolExecute)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tool_execute_batch",
		Description: "Execute several tools in order. Stops at the first failure unless continue_on_error is set.",
	}, s.handleToolExecuteBatch)
}

// === TOOL HANDLERS ===

// FuzzyMatchInput defines the input for fuzzy_match
type FuzzyMatchInput struct {
	Pattern string `json:"pattern" jsonschema:"Characters to find, in order"`
	Subject string `json:"subject" jsonschema:"Text to search within"`
}

// FuzzyMatchOutput defines the output for fuzzy_match
type FuzzyMatchOutput struct {
	Matches bool `json:"matches"`
}

func (s *MatchServer) handleFuzzyMatch(ctx context.Context, req *mcp.CallToolRequest, input FuzzyMatchInput) (*mcp.CallToolResult, FuzzyMatchOutput, error) {
	output := FuzzyMatchOutput{Matches: fuzzy.Match(input.Pattern, input.Subject)}

	s.logger.Info("Fuzzy match request", "pattern", input.Pattern, "subject", input.Subject, "matches", output.Matches)

	return jsonResult(output), output, nil
}

// FahrenheitToCelsiusInput defines the input for fahrenheit_to_celsius
type FahrenheitToCelsiusInput struct {
	Fahrenheit float64 `json:"fahrenheit" jsonschema:"Temperature in degrees Fahrenheit"`
}

// FahrenheitToCelsiusOutput defines the output for fahrenheit_to_celsius
type FahrenheitToCelsiusOutput struct {
	Fahrenheit float64 `json:"fahrenheit"`
	Celsius    float64 `json:"celsius"`
}

func (s *MatchServer) handleFahrenheitToCelsius(ctx context.Context, req *mcp.CallToolRequest, input FahrenheitToCelsiusInput) (*mcp.CallToolResult, FahrenheitToCelsiusOutput, error) {
	output := FahrenheitToCelsiusOutput{
		Fahrenheit: input.Fahrenheit,
		Celsius:    temperature.FahrenheitToCelsius(input.Fahrenheit),
	}

	return jsonResult(output), output, nil
}

// ToolSearchInput defines the input for tool_search
type ToolSearchInput struct {
	Query       string `json:"query,omitempty" jsonschema:"Characters to look for, in order, in tool names and descriptions. Empty lists every tool."`
	Category    string `json:"category,omitempty" jsonschema:"Optional category filter"`
	DetailLevel string `json:"detail_level,omitempty" jsonschema:"Detail level: 'names_only', 'summary' (name + description), 'detailed' (includes parameter schema). Default: 'summary'"`
	Offset      int    `json:"offset,omitempty" jsonschema:"Number of results to skip for pagination. Default: 0"`
}

func (s *MatchServer) handleToolSearch(ctx context.Context, req *mcp.CallToolRequest, input ToolSearchInput) (*mcp.CallToolResult, any, error) {
	detailLevel := input.DetailLevel
	if detailLevel == "" {
		detailLevel = "summary"
	}

	limit := s.searchResultLimit

	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	s.logger.Info("Tool search request", "query", input.Query, "category", input.Category, "detail_level", detailLevel, "offset", offset, "limit", limit)

	foundTools := s.registry.Search(input.Query, input.Category)
	totalCount := len(foundTools)

	// Apply pagination
	start := min(offset, totalCount)
	end := min(start+limit, totalCount)
	paginatedTools := foundTools[start:end]

	s.logger.Info("Tool search response", "total_found", totalCount, "returned", len(paginatedTools))

	toolMetadata := make([]tools.ToolMetadata, len(paginatedTools))
	for i, tool := range paginatedTools {
		metadata := tools.ToolMetadata{
			Name:     tool.Name,
			Category: tool.Category,
		}

		if detailLevel != "names_only" {
			metadata.Description = tool.Description
		}

		if detailLevel == "detailed" {
			if schemaMap, ok := tool.InputSchema.(map[string]any); ok {
				metadata.Parameters = schemaMap
			}
		}

		toolMetadata[i] = metadata
	}

	result := map[string]any{
		"total_count":    totalCount,
		"returned_count": len(toolMetadata),
		"offset":         offset,
		"limit":          limit,
		"has_more":       end < totalCount,
		"tools":          toolMetadata,
	}

	return jsonResult(result), nil, nil
}

// ToolExecuteInput defines the input for tool_execute
type ToolExecuteInput struct {
	ToolName  string         `json:"tool_name" jsonschema:"Name of the tool to execute"`
	Arguments map[string]any `json:"arguments,omitempty" jsonschema:"Tool-specific arguments as an object"`
}

func (s *MatchServer) handleToolExecute(ctx context.Context, req *mcp.CallToolRequest, input ToolExecuteInput) (*mcp.CallToolResult, any, error) {
	result, err := s.registry.Execute(ctx, input.ToolName, input.Arguments)
	if err != nil {
		return errorResult(err), nil, nil
	}

	return jsonResult(result), nil, nil
}

func (s *MatchServer) handleToolExecuteBatch(ctx context.Context, req *mcp.CallToolRequest, input tools.BatchExecutionRequest) (*mcp.CallToolResult, any, error) {
	result, err := s.registry.ExecuteBatch(ctx, &input)
	if err != nil {
		return errorResult(err), nil, nil
	}

	return jsonResult(result), nil, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	// Marshalling plain maps and structs of primitives cannot fail
	data, _ := json.Marshal(v)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: err.Error()},
		},
	}
}
