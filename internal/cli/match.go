package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/radutopala/seqmatch/internal/fuzzy"
	"github.com/radutopala/seqmatch/internal/mcpclient"
)

// matchFunc evaluates one pattern/subject pair.
type matchFunc func(ctx context.Context, pattern, subject string) (bool, error)

func localMatch(ctx context.Context, pattern, subject string) (bool, error) {
	return fuzzy.Match(pattern, subject), nil
}

func newMatchCommand(logger *slog.Logger) *cobra.Command {
	var (
		quiet     bool
		serverURL string
	)

	cmd := &cobra.Command{
		Use:   "match PATTERN SUBJECT...",
		Short: "Check whether PATTERN appears in order within each SUBJECT",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			match := matchFunc(localMatch)
			if serverURL != "" {
				client, err := mcpclient.NewMCPClient(ctx, "seqmatch", mcpclient.ServerConfig{URL: serverURL}, logger)
				if err != nil {
					return err
				}
				defer client.Close()
				match = client.Match
			}

			pattern, subjects := args[0], args[1:]
			results := make([]bool, len(subjects))
			matched := 0
			for i, subject := range subjects {
				ok, err := match(ctx, pattern, subject)
				if err != nil {
					return fmt.Errorf("failed to match %q: %w", subject, err)
				}
				results[i] = ok
				if ok {
					matched++
				}
			}

			logger.Info("Match completed", "pattern", pattern, "subjects", len(subjects), "matched", matched, "remote", serverURL != "")

			if !quiet {
				renderMatches(cmd.OutOrStdout(), subjects, results)
			}
			if matched == 0 {
				return ErrNoMatch
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print nothing; report through the exit status only")
	cmd.Flags().StringVar(&serverURL, "server", "", "Evaluate on a seqmatch MCP server at this Streamable HTTP URL")

	return cmd
}

func renderMatches(w io.Writer, subjects []string, results []bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Subject", "Match"})
	table.SetAutoWrapText(false)
	for i, subject := range subjects {
		table.Append([]string{subject, strconv.FormatBool(results[i])})
	}
	table.Render()
}

func newFilterCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "filter PATTERN",
		Short: "Print the lines of standard input that contain PATTERN in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			matches := fuzzy.Filter(args[0], lines)
			logger.Info("Filter completed", "pattern", args[0], "lines", len(lines), "matched", len(matches))

			out := cmd.OutOrStdout()
			for _, line := range matches {
				fmt.Fprintln(out, line)
			}
			if len(matches) == 0 {
				return ErrNoMatch
			}
			return nil
		},
	}
}

// readLines splits r into lines of any length, dropping line terminators.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
