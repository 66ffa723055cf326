//go:build integration
// +build integration

package integration

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/radutopala/seqmatch/internal/mcp"
	"github.com/radutopala/seqmatch/internal/mcpclient"
)

// HTTPIntegrationTestSuite runs "seqmatch serve --http" and talks to it over
// Streamable HTTP.
type HTTPIntegrationTestSuite struct {
	suite.Suite
	binaryPath string
	env        []string
	addr       string
	cmd        *exec.Cmd
	logger     *slog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

func (s *HTTPIntegrationTestSuite) SetupSuite() {
	projectRoot, err := filepath.Abs(filepath.Join(".."))
	require.NoError(s.T(), err)

	s.binaryPath = buildBinary(s.T(), projectRoot)
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tmpDir := s.T().TempDir()
	s.env = append(os.Environ(),
		"SEQMATCH_LOG_FILE="+filepath.Join(tmpDir, "seqmatch.log"),
		"SEQMATCH_CONFIG="+filepath.Join(tmpDir, "missing.json"),
	)
}

func (s *HTTPIntegrationTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 30*time.Second)
	s.addr = freeAddr(s.T())

	s.cmd = exec.CommandContext(s.ctx, s.binaryPath, "serve", "--http", s.addr)
	s.cmd.Env = s.env
	s.cmd.Stderr = os.Stderr
	require.NoError(s.T(), s.cmd.Start())

	waitForListener(s.T(), s.addr)
}

func (s *HTTPIntegrationTestSuite) TearDownTest() {
	if s.cmd != nil && s.cmd.Process != nil && s.cmd.ProcessState == nil {
		s.cmd.Process.Kill()
		s.cmd.Wait()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *HTTPIntegrationTestSuite) connect() *mcpclient.MCPClient {
	client, err := mcpclient.NewMCPClient(s.ctx, "http-integration", mcpclient.ServerConfig{URL: "http://" + s.addr}, s.logger)
	require.NoError(s.T(), err, "Failed to connect to seqmatch over HTTP")
	return client
}

func (s *HTTPIntegrationTestSuite) TestListTools() {
	client := s.connect()
	defer client.Close()

	tools, err := client.ListTools(s.ctx)
	require.NoError(s.T(), err)

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	require.Contains(s.T(), names, "fuzzy_match")
	require.Contains(s.T(), names, "fahrenheit_to_celsius")

	schema, ok := client.GetCachedSchema("fuzzy_match")
	require.True(s.T(), ok)
	require.Equal(s.T(), "object", schema["type"])
}

func (s *HTTPIntegrationTestSuite) TestMatchAndConvert() {
	client := s.connect()
	defer client.Close()

	scenarios := []struct {
		pattern  string
		subject  string
		expected bool
	}{
		{"str", "string", true},
		{"", "", true},
		{"a", "", false},
		{"tac", "cat", false},
		{"老虎é", "Löwe 老虎 Léopard", true},
		{"y\u0306", "ya\u014f", false},
	}
	for _, sc := range scenarios {
		matches, err := client.Match(s.ctx, sc.pattern, sc.subject)
		require.NoError(s.T(), err)
		require.Equal(s.T(), sc.expected, matches, "pattern=%q subject=%q", sc.pattern, sc.subject)
	}

	celsius, err := client.FahrenheitToCelsius(s.ctx, 212)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 100.0, celsius)
}

func (s *HTTPIntegrationTestSuite) TestGracefulShutdown() {
	client := s.connect()
	_, err := client.Match(s.ctx, "str", "string")
	require.NoError(s.T(), err)
	client.Close()

	require.NoError(s.T(), s.cmd.Process.Signal(os.Interrupt))

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		s.T().Fatal("server did not exit after interrupt")
	}
}

// TestMatchAgainstServer points the CLI's --server flag at an in-process server.
func (s *HTTPIntegrationTestSuite) TestMatchAgainstServer() {
	s.T().Setenv("SEQMATCH_CONFIG", filepath.Join(s.T().TempDir(), "missing.json"))
	matchServer, err := mcp.NewMatchServer("httptest-server", "1.0.0", s.logger)
	require.NoError(s.T(), err)

	httpServer := httptest.NewServer(matchServer.HTTPHandler())
	defer httpServer.Close()

	run := func(args ...string) (string, int) {
		cmd := exec.CommandContext(s.ctx, s.binaryPath, args...)
		cmd.Env = s.env
		out, err := cmd.Output()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode()
		}
		require.NoError(s.T(), err)
		return string(out), 0
	}

	out, code := run("match", "--server", httpServer.URL, "Super.cs", "SuperAwesomeClass.cs", "Super.go")
	require.Equal(s.T(), 0, code)
	require.True(s.T(), strings.Contains(out, "SuperAwesomeClass.cs"), out)

	_, code = run("match", "--quiet", "--server", httpServer.URL, "tac", "cat")
	require.Equal(s.T(), 1, code)
}

func TestHTTPIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	suite.Run(t, new(HTTPIntegrationTestSuite))
}

// freeAddr reserves a loopback port and releases it for the server to bind.
func freeAddr(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func waitForListener(t *testing.T, addr string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server never listened on %s", addr)
}
