package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/inscripciones/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Type   string
	Output string
}

type exportResult struct {
	Count  int    `json:"count"`
	Format string `json:"format"`
	Path   string `json:"path"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every attendee as CSV or YAML",
		Long: `Export every attendee in registration order.

Without --out the data is written to standard output.

Example:
  inscripciones export --type csv --out inscriptos.csv
  inscripciones export --type yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportAttendees(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", string(export.FormatCSV), "export format (csv|yaml)")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "output file (default stdout)")

	return cmd
}

func exportAttendees(opts *ExportOptions, cmd *cobra.Command) error {
	format, err := export.ParseFormat(opts.Type)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid export type", err)
	}
	svc, err := opts.service()
	if err != nil {
		return err
	}
	f := opts.formatter(cmd)

	if opts.Output == "" {
		n, err := svc.Export(commandContext(cmd), cmd.OutOrStdout(), format)
		if err != nil {
			return err
		}
		f.VerboseLog("Exportados %d inscriptos en formato %s", n, format)
		return nil
	}

	f.VerboseLog("Escribiendo %s en %s", format, opts.Output)
	out, err := os.Create(opts.Output)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create output file", err)
	}
	n, err := svc.Export(commandContext(cmd), out, format)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = WrapExitError(ExitCommandError, "failed to write output file", closeErr)
	}
	if err != nil {
		return err
	}

	result := exportResult{Count: n, Format: string(format), Path: opts.Output}
	return f.Render(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Exportados %d inscriptos a %s\n", result.Count, result.Path)
		return err
	})
}
