// Command sweeper runs any registered expiry sweep by name.
//
// Usage:
//
//	sweeper list
//	sweeper run --store mongo unverified
//	sweeper run --store postgres password-reset --dry-run
//	sweeper run --store postgres --all
//	sweeper version
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/imagehub-sweeper/internal/app"
	"github.com/heartmarshall/imagehub-sweeper/internal/config"
	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
	"github.com/heartmarshall/imagehub-sweeper/internal/sweeper"
)

// exitError carries the exit status chosen by app.ExitCode out of cobra.
// logged marks errors already reported through the logger.
type exitError struct {
	code   int
	err    error
	logged bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(execute(newRootCmd(os.Stdout)))
}

// execute runs cmd and turns its error into an exit code, writing a
// diagnostic to stderr unless the logger already did.
func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	code := 1
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
		if ee.logged {
			return code
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "sweeper: %v\n", err)
	if ee == nil {
		// Usage errors from cobra: bad flags or argument counts.
		fmt.Fprintf(cmd.ErrOrStderr(), "run 'sweeper --help' for usage\n")
		code = 2
	}
	return code
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sweeper",
		Short:         "purge or redact expired account tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(newListCmd(), newRunCmd(), newVersionCmd())
	return rootCmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list registered sweeps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STORE\tNAME\tMODE\tEXPIRY FIELD\tCLEARS")
			for _, s := range sweeper.List() {
				clears := strings.Join(s.ClearFields, ",")
				if clears == "" {
					clears = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Store, s.Name, s.Mode, s.ExpiryField, clears)
			}
			return w.Flush()
		},
	}
}

func newRunCmd() *cobra.Command {
	var (
		store  string
		all    bool
		dryRun bool
	)

	runCmd := &cobra.Command{
		Use:   "run [--all | <sweep>]",
		Short: "run one sweep, or every sweep of a store, against the configured store",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseStoreKind(store)
			if err != nil {
				return &exitError{code: app.ExitCode(err), err: err}
			}

			cfg, err := config.Load()
			if err != nil {
				return &exitError{code: app.ExitCode(err), err: err}
			}

			logger := app.NewLogger(cfg.Log)

			// The flag overrides SWEEP_DRY_RUN only when set explicitly.
			if !cmd.Flags().Changed("dry-run") {
				dryRun = cfg.Sweep.DryRun
			}

			runner := app.NewRunner(cfg, logger, cmd.OutOrStdout())
			target := "all"
			if all {
				_, err = runner.SweepAll(cmd.Context(), kind, dryRun)
			} else {
				target = args[0]
				_, err = runner.Sweep(cmd.Context(), kind, target, dryRun)
			}
			if err != nil {
				logger.Error("sweep failed",
					slog.String("store", kind.String()),
					slog.String("sweep", target),
					slog.String("error", err.Error()),
				)
				return &exitError{code: app.ExitCode(err), err: err, logged: true}
			}
			return nil
		},
	}

	runCmd.Flags().StringVar(&store, "store", "", "target store: mongo or postgres")
	runCmd.Flags().BoolVar(&all, "all", false, "run every sweep of the store; on postgres in one transaction")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "count matching records without changing them")
	_ = runCmd.MarkFlagRequired("store")

	return runCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
		},
	}
}
