// Package cli defines the asmkit cobra commands.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thediveo/enumflag/v2"

	"asmkit/internal/appcore"
	"asmkit/internal/config"
	"asmkit/internal/logging"
	"asmkit/internal/version"
)

// UsageError marks a problem with how asmkit was invoked, as opposed to a
// failure while running.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usage(err error) error { return &UsageError{Err: err} }

// Deps are the process-level collaborators of a command tree.
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	NumCPU int
	RunID  string
}

// session is shared by the root and its subcommands for one invocation.
type session struct {
	deps    Deps
	v       *viper.Viper
	cfg     config.Config
	env     appcore.Env
	started bool
}

// run marks the point past which errors are runtime failures.
func (s *session) run(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s.started = true
		return fn(cmd.Context(), args)
	}
}

// NewRootCmd builds the asmkit command tree.
func NewRootCmd(d Deps) *cobra.Command {
	cmd, _ := newRoot(d)
	return cmd
}

func newRoot(d Deps) (*cobra.Command, *session) {
	if d.RunID == "" {
		d.RunID = logging.NewRunID()
	}
	s := &session{deps: d, v: config.NewViper()}

	cmd := &cobra.Command{
		Use:           "asmkit",
		Short:         "Batch tools for genome assembly collections",
		Long:          "asmkit: assembly statistics, ENA sample metadata and assembly downloads, run in parallel batches.",
		Version:       version.Version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usage(err) })

	var (
		level  = logLevelInfo
		format = logFormatAuto
	)
	pf := cmd.PersistentFlags()
	pf.IntP("cores", "c", 1, "worker goroutines per batch (at most the number of CPUs)")
	pf.Var(enumflag.New(&level, "level", logLevelIds, enumflag.EnumCaseInsensitive),
		"log-level", "log level: trace | debug | info | warn | error")
	pf.Var(enumflag.New(&format, "format", logFormatIds, enumflag.EnumCaseInsensitive),
		"log-format", "log format: auto | console | json")
	pf.String("config", "", "config file (yaml, toml or json)")

	cmd.AddCommand(newStatsCmd(s), newHistogramsCmd(s), newMetadataCmd(s), newDownloadCmd(s))
	return cmd, s
}

func (s *session) setup(cmd *cobra.Command) error {
	if err := config.BindFlags(s.v, cmd.Flags()); err != nil {
		return err
	}
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(s.v, file)
	if err != nil {
		return err
	}
	if err := cfg.Validate(s.deps.NumCPU); err != nil {
		return err
	}
	s.cfg = cfg

	log := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Out:    s.deps.Stderr,
		RunID:  s.deps.RunID,
	})
	s.env = appcore.Env{Log: log, Cores: cfg.Cores, Stdout: s.deps.Stdout}
	log.Debug().
		Str("command", cmd.Name()).
		Int("cores", cfg.Cores).
		Str("config", s.v.ConfigFileUsed()).
		Msg("configured")
	return nil
}

// Execute runs the command tree on argv. Errors raised before a command
// starts its work are returned as *UsageError.
func Execute(ctx context.Context, argv []string, d Deps) error {
	cmd, s := newRoot(d)
	if argv == nil {
		argv = []string{}
	}
	cmd.SetArgs(argv)
	cmd.SetOut(d.Stdout)
	cmd.SetErr(d.Stderr)

	err := cmd.ExecuteContext(ctx)
	var ue *UsageError
	if err != nil && !s.started && !errors.As(err, &ue) {
		return usage(err)
	}
	return err
}

const rootCmdExample = `  # Contig counts and total length for every assembly in a directory
  asmkit stats --in-dir assemblies/ --out-table assembly_info_table.tsv --cores 8

  # Distribution of those numbers
  asmkit histograms --in-table assembly_info_table.tsv

  # Sample metadata from the ENA browser API
  asmkit metadata --samples samples.txt --output-table cobsi_sample_information.tsv

  # Download every E. coli assembly listed in the metadata table
  asmkit download --info-table cobsi_sample_information.tsv --taxon-id 562 --output-dir contigs/`
