package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/radutopala/seqmatch/internal/cli"
	"github.com/radutopala/seqmatch/internal/mcp"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command line and returns the process exit status:
// 0 on success, 1 when nothing matched, 2 on any other failure.
func run(args []string, stderr io.Writer) int {
	logPath := os.Getenv("SEQMATCH_LOG_FILE")
	if logPath == "" {
		logPath = "/tmp/seqmatch.log"
	}

	var logOut io.Writer = stderr
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		defer logFile.Close()
		logOut = logFile
	}

	level := slog.LevelInfo
	bootLogger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if config, err := mcp.LoadConfig(mcp.ConfigPath(), bootLogger); err != nil {
		bootLogger.Warn("Failed to load config, using defaults", "error", err)
	} else if configured, err := config.Settings.Level(); err == nil {
		level = configured
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(logger)
	root.SetArgs(args)

	err = root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrNoMatch):
		return 1
	default:
		logger.Error("seqmatch failed", "error", err)
		// Without a log file the error above is already on stderr.
		if logFile != nil {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 2
	}
}
