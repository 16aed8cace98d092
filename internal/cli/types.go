package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/motifsim/internal/automaton"
)

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List automaton types",
		Long: `List the supported automaton types with their menu labels.

Examples:
  motifsim types
  motifsim types --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			kinds := automaton.Available()
			return f.Render(kinds, func(w io.Writer) error {
				for _, k := range kinds {
					fmt.Fprintf(w, "%-5s %s\n", k.Kind, k.Label)
				}
				return nil
			})
		},
	}
}
