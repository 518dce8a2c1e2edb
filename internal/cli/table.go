package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/roach88/inscripciones/internal/attendee"
)

const (
	msgNoAttendees = "No hay inscriptos registrados"
	msgNoMatches   = "No se encontraron inscriptos"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeAttendees prints list as a table, or empty when there is nothing to show.
func writeAttendees(w io.Writer, list []attendee.Attendee, empty string) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tNOMBRE\tAPELLIDO\tDNI\tEMAIL\tTELÉFONO\tFECHA\tINSTITUCIÓN")
	for _, a := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.FirstName, a.LastName, a.NationalID, a.Email,
			orDash(a.Phone), orDash(a.RegisteredOn()), orDash(a.Institution))
	}
	return tw.Flush()
}

// writeInstitutionCounts prints counts sorted by institution name.
func writeInstitutionCounts(w io.Writer, counts map[string]int) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, msgNoAttendees)
		return err
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "INSTITUCIÓN\tINSCRIPTOS")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%d\n", name, counts[name])
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
