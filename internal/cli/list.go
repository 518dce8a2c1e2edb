package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/inscripciones/internal/attendee"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List every attendee in registration order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.service()
			if err != nil {
				return err
			}
			list, err := svc.List(commandContext(cmd))
			if err != nil {
				return err
			}
			return renderAttendees(rootOpts, cmd, list, msgNoAttendees)
		},
	}
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search [term]",
		Short: "Search attendees by name, last name, DNI or email",
		Long: `Search attendees whose first name, last name, DNI or email contains term.

Matching is case-sensitive and treats every character literally. Without a
term every attendee is listed.

Example:
  inscripciones search Gómez
  inscripciones search 456`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.service()
			if err != nil {
				return err
			}
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			list, err := svc.Search(commandContext(cmd), term)
			if err != nil {
				return err
			}
			return renderAttendees(rootOpts, cmd, list, msgNoMatches)
		},
	}
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	names := make([]string, 0, len(attendee.SortFields()))
	for _, f := range attendee.SortFields() {
		names = append(names, f.String())
	}

	return &cobra.Command{
		Use:   "sort <" + strings.Join(names, "|") + ">",
		Short: "List attendees ordered by first name, last name or registration date",
		Long: `List attendees in ascending order of the given field.
Attendees with equal values keep registration order.

Example:
  inscripciones sort last-name`,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     names,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := attendee.ParseSortField(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "invalid sort field", err)
			}
			svc, err := rootOpts.service()
			if err != nil {
				return err
			}
			list, err := svc.SortBy(commandContext(cmd), field)
			if err != nil {
				return err
			}
			return renderAttendees(rootOpts, cmd, list, msgNoAttendees)
		},
	}
}

func renderAttendees(opts *RootOptions, cmd *cobra.Command, list []attendee.Attendee, empty string) error {
	return opts.formatter(cmd).Render(list, func(w io.Writer) error {
		return writeAttendees(w, list, empty)
	})
}
