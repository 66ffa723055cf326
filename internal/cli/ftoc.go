package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/radutopala/seqmatch/internal/prompt"
)

// historyReader records every non-blank answer in the liner history.
type historyReader struct {
	*liner.State
}

func (h historyReader) Prompt(p string) (string, error) {
	line, err := h.State.Prompt(p)
	if err == nil && strings.TrimSpace(line) != "" {
		h.AppendHistory(line)
	}
	return line, err
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func newFtocCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "ftoc",
		Short: "Interactively convert Fahrenheit values to Celsius",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			in, out := cmd.InOrStdin(), cmd.OutOrStdout()

			var reader prompt.LineReader
			if isTerminal(in) {
				line := liner.NewLiner()
				defer line.Close()
				line.SetCtrlCAborts(true)
				reader = historyReader{line}
				logger.Info("Starting interactive converter", "line_editing", true)
			} else {
				reader = prompt.NewStreamReader(in, out)
				logger.Info("Starting converter", "line_editing", false)
			}

			return prompt.Run(ctx, reader, out)
		},
	}
}
