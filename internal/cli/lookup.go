package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/inscripciones/internal/attendee"
)

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <dni>",
		Short: "Find an attendee by exact DNI",
		Long: `Find the attendee registered with the given DNI.
Exits with status 1 when nobody is registered under it.

Example:
  inscripciones lookup 34345678`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.service()
			if err != nil {
				return err
			}
			a, err := svc.FindByNationalID(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Render(a, func(w io.Writer) error {
				return writeAttendees(w, []attendee.Attendee{a}, msgNoMatches)
			})
		},
	}
}
