package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewReportCommand creates the report command and its subcommands.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show attendee statistics",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "total",
		Short:         "Show the number of registered attendees",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.service()
			if err != nil {
				return err
			}
			total, err := svc.TotalCount(commandContext(cmd))
			if err != nil {
				return err
			}
			data := map[string]int{"total": total}
			return rootOpts.formatter(cmd).Render(data, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Total de inscriptos: %d\n", total)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "institutions",
		Short: "Show attendees per institution",
		Long: `Show how many attendees belong to each institution.
Attendees without an institution are counted under "none".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.service()
			if err != nil {
				return err
			}
			counts, err := svc.CountByInstitution(commandContext(cmd))
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Render(counts, func(w io.Writer) error {
				return writeInstitutionCounts(w, counts)
			})
		},
	})

	return cmd
}
