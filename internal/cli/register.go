package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/inscripciones/internal/attendee"
	"github.com/roach88/inscripciones/internal/registry"
)

// RegisterOptions holds flags for the register command.
type RegisterOptions struct {
	*RootOptions
	Payload attendee.Payload
}

type registerResult struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

func (r registerResult) String() string {
	return fmt.Sprintf("%s (id %d)", r.Message, r.ID)
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegisterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new attendee",
		Long: `Register a new attendee.

First name, last name, DNI and email are required. DNI and phone must contain
only digits; email must contain "@". The registration date is today's date.

Example:
  inscripciones register --first-name Lucía --last-name Sosa --dni 40111222 \
    --email lucia@example.com --institution "Universidad Nacional"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return registerAttendee(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Payload.FirstName, "first-name", "", "first name (required)")
	cmd.Flags().StringVar(&opts.Payload.LastName, "last-name", "", "last name (required)")
	cmd.Flags().StringVar(&opts.Payload.NationalID, "dni", "", "national ID, digits only (required)")
	cmd.Flags().StringVar(&opts.Payload.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&opts.Payload.Phone, "phone", "", "phone number, digits only")
	cmd.Flags().StringVar(&opts.Payload.Institution, "institution", "", "institution")

	return cmd
}

func registerAttendee(opts *RegisterOptions, cmd *cobra.Command) error {
	svc, err := opts.service()
	if err != nil {
		return err
	}

	id, err := svc.Register(commandContext(cmd), opts.Payload)
	if err != nil {
		return err
	}

	return opts.formatter(cmd).Success(registerResult{ID: id, Message: registry.MsgRegistered})
}
