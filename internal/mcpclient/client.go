package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPClient represents a client connection to a seqmatch MCP server.
type MCPClient struct {
	name        string
	session     *mcp.ClientSession
	logger      *slog.Logger
	schemaCache map[string]map[string]any // Cache tool schemas: toolName -> schema
}

// ServerConfig describes how to reach a seqmatch server.
// Supports multiple transport types:
// - Command transport (stdio): Provide "command" field
// - Streamable HTTP transport: Provide "url" field
type ServerConfig struct {
	Command string            `json:"command,omitempty"` // Command to execute (for stdio transport)
	Args    []string          `json:"args,omitempty"`    // Command arguments
	URL     string            `json:"url,omitempty"`     // HTTP URL (for Streamable HTTP transport)
	Env     map[string]string `json:"env,omitempty"`     // Environment variables (stdio only)
}

// Tool represents an MCP tool advertised by the server.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// NewMCPClient creates a new MCP client connected to a server.
// The transport is chosen from config: Streamable HTTP when URL is set,
// otherwise a spawned command speaking stdio.
func NewMCPClient(ctx context.Context, name string, config ServerConfig, logger *slog.Logger) (*MCPClient, error) {
	client := mcp.NewClient(
		&mcp.Implementation{
			Name:    "seqmatch-client",
			Version: "1.0.0",
		},
		nil,
	)

	var transport mcp.Transport
	var transportType string

	if config.URL != "" {
		transport = &mcp.StreamableClientTransport{
			Endpoint:   config.URL,
			MaxRetries: 5,
		}
		transportType = "streamable-http"
		logger.Info("Using Streamable HTTP transport", "name", name, "endpoint", config.URL)
	} else if config.Command != "" {
		cmd := exec.Command(config.Command, config.Args...)

		if len(config.Env) > 0 {
			env := os.Environ()
			for k, v := range config.Env {
				env = append(env, fmt.Sprintf("%s=%s", k, v))
			}
			cmd.Env = env
		}

		transport = &mcp.CommandTransport{
			Command: cmd,
		}
		transportType = "stdio"
		logger.Info("Using stdio transport", "name", name, "command", config.Command)
	} else {
		return nil, fmt.Errorf("no transport configured: must provide either 'command' or 'url'")
	}

	// Connect also performs the initialize handshake
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MCP server (%s): %w", transportType, err)
	}

	logger.Info("Connected to MCP server", "name", name, "transport", transportType)

	return &MCPClient{
		name:        name,
		session:     session,
		logger:      logger,
		schemaCache: make(map[string]map[string]any),
	}, nil
}

// ListTools retrieves all tools from the server and caches their schemas.
func (c *MCPClient) ListTools(ctx context.Context) ([]Tool, error) {
	result, err := c.session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("tools/list failed: %w", err)
	}

	tools := make([]Tool, len(result.Tools))
	for i, t := range result.Tools {
		schemaMap := make(map[string]any)
		if schema, ok := t.InputSchema.(map[string]any); ok {
			schemaMap = schema
			c.schemaCache[t.Name] = schemaMap
		}

		tools[i] = Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schemaMap,
		}
	}

	c.logger.Info("Listed tools from MCP server", "name", c.name, "count", len(tools), "cached_schemas", len(c.schemaCache))
	return tools, nil
}

// GetCachedSchema retrieves a cached schema for a tool
func (c *MCPClient) GetCachedSchema(toolName string) (map[string]any, bool) {
	schema, ok := c.schemaCache[toolName]
	return schema, ok
}

// CallTool executes a tool on the server and returns its first text content.
func (c *MCPClient) CallTool(ctx context.Context, toolName string, arguments map[string]any) (string, error) {
	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: arguments,
	})
	if err != nil {
		return "", fmt.Errorf("tools/call failed: %w", err)
	}

	var text string
	if len(result.Content) > 0 {
		if textContent, ok := result.Content[0].(*mcp.TextContent); ok {
			text = textContent.Text
		}
	}

	if result.IsError {
		if text == "" {
			text = "unknown error"
		}
		return "", fmt.Errorf("tool execution error: %s", text)
	}

	return text, nil
}

// Match evaluates the fuzzy_match tool remotely.
func (c *MCPClient) Match(ctx context.Context, pattern, subject string) (bool, error) {
	var out struct {
		Matches bool `json:"matches"`
	}
	if err := c.callJSON(ctx, "fuzzy_match", map[string]any{"pattern": pattern, "subject": subject}, &out); err != nil {
		return false, err
	}
	return out.Matches, nil
}

// FahrenheitToCelsius evaluates the fahrenheit_to_celsius tool remotely.
func (c *MCPClient) FahrenheitToCelsius(ctx context.Context, fahrenheit float64) (float64, error) {
	var out struct {
		Celsius float64 `json:"celsius"`
	}
	if err := c.callJSON(ctx, "fahrenheit_to_celsius", map[string]any{"fahrenheit": fahrenheit}, &out); err != nil {
		return 0, err
	}
	return out.Celsius, nil
}

func (c *MCPClient) callJSON(ctx context.Context, toolName string, arguments map[string]any, out any) error {
	text, err := c.CallTool(ctx, toolName, arguments)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", toolName, err)
	}
	return nil
}

// Close terminates the connection to the server.
func (c *MCPClient) Close() error {
	if err := c.session.Close(); err != nil {
		c.logger.Warn("MCP server close error", "name", c.name, "error", err)
		return err
	}

	c.logger.Info("Closed MCP server connection", "name", c.name)
	return nil
}
