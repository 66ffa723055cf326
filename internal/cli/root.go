package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
)

// ErrNoMatch is returned when no subject matched; callers exit with status 1.
var ErrNoMatch = errors.New("no match")

// NewRootCommand builds the seqmatch command tree.
func NewRootCommand(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "seqmatch",
		Short:         "In-order subsequence matching and temperature conversion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMatchCommand(logger),
		newFilterCommand(logger),
		newFtocCommand(logger),
		newServeCommand(logger),
	)

	return root
}
