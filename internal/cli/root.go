package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/inscripciones/internal/config"
	"github.com/roach88/inscripciones/internal/logging"
	"github.com/roach88/inscripciones/internal/registry"
	"github.com/roach88/inscripciones/internal/store"
)

// RootOptions holds global flags for all commands, plus the registry opened
// for the duration of one command.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string
	NoSeed     bool

	// Clock overrides the registration clock (for testing).
	// If nil, the store uses the system clock.
	Clock store.Clock

	// Tokens overrides the request token generator (for testing).
	// If nil, defaults to registry.UUIDv7Generator.
	Tokens registry.TokenGenerator

	logger   *slog.Logger
	store    *store.Store
	registry *registry.Service
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the inscripciones CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inscripciones",
		Short: "Registro de inscriptos a eventos",
		Long: `Registro local de inscriptos a eventos, guardado en un archivo SQLite.

Configuration is read from an optional CUE file (--config), a .env file and
INSCRIPCIONES_* environment variables; flags win over all of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a CUE config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.NoSeed, "no-seed", false, "do not load sample attendees into an empty database")

	// Add subcommands
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewSortCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewLookupCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// Execute runs the command tree with args, reports any error in the selected
// output format and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	return execute(ctx, newRootCommand(opts), opts, args, stdout, stderr)
}

func execute(ctx context.Context, cmd *cobra.Command, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)

	// PersistentPostRunE is skipped when RunE fails.
	if closeErr := opts.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err == nil {
		return ExitSuccess
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: stderr, Verbose: opts.Verbose}
	if opts.Format == "json" {
		formatter.Writer = stdout
	}
	code, message := describeError(err)
	_ = formatter.Error(code, message, err.Error())

	return GetExitCode(err)
}

// open loads configuration, sets up logging and opens the registry.
func (o *RootOptions) open(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Database != "" {
		cfg.Database.Path = o.Database
	}
	if o.NoSeed {
		cfg.Seed = false
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}

	o.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	storeOpts := []store.Option{store.WithDriver(cfg.Database.Driver)}
	if o.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(o.Clock))
	}

	o.logger.Debug("opening database", "path", cfg.Database.Path, "driver", cfg.Database.Driver)
	st, err := store.Open(cfg.Database.Path, storeOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	o.store = st

	if cfg.Seed {
		n, err := st.Seed(commandContext(cmd))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to seed database", err)
		}
		if n > 0 {
			o.logger.Info("loaded sample attendees", "count", n)
		}
	}

	regOpts := []registry.Option{registry.WithLogger(o.logger)}
	if o.Tokens != nil {
		regOpts = append(regOpts, registry.WithTokenGenerator(o.Tokens))
	}
	o.registry = registry.New(st, regOpts...)
	return nil
}

// close releases the store. Safe to call more than once.
func (o *RootOptions) close() error {
	if o.store == nil {
		return nil
	}
	st := o.store
	o.store = nil
	o.registry = nil
	if err := st.Close(); err != nil {
		return WrapExitError(ExitCommandError, "failed to close database", err)
	}
	return nil
}

// formatter returns an OutputFormatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// service returns the registry opened in PersistentPreRunE.
func (o *RootOptions) service() (*registry.Service, error) {
	if o.registry == nil {
		return nil, NewExitError(ExitCommandError, "registry not open")
	}
	return o.registry, nil
}
