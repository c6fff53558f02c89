package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/appenv"
)

// NewRootCmd builds the appenv command tree: the launch cycle on the root
// command plus the reclaim and reset subcommands.
func NewRootCmd() *cobra.Command {
	var (
		global globalFlags
		run    runFlags
	)

	root := &cobra.Command{
		Use:   "appenv [flags] <scenario> [sync|async]",
		Short: "Launch the app server for an e2e scenario and wait until it is ready",
		Long: `appenv frees the server port, deletes the scenario's persisted chat state,
launches the server inside <e2e-dir>/<scenario> and exits 0 as soon as the
server reports readiness. The server keeps running for the browser tests.
Any failure exits 1 with the reason on stderr.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			global.setupLogging(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var modeArg string
			if len(args) == 2 {
				modeArg = args[1]
			}
			mode, err := appenv.ParseMode(modeArg)
			if err != nil {
				return err
			}

			opts, err := global.options()
			if err != nil {
				return err
			}
			runOpts, err := run.options()
			if err != nil {
				return err
			}
			opts = append(opts, runOpts...)
			opts = append(opts, appenv.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))

			srv, err := appenv.Run(cmd.Context(), args[0], mode, opts...)
			if err != nil {
				if errors.Is(err, appenv.ErrReadyTimeout) && srv != nil {
					return fmt.Errorf("%w (server pid %d left running)", err, srv.PID())
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "scenario %s ready (pid %d, cycle %s)\n", args[0], srv.PID(), srv.ID())
			return nil
		},
	}

	global.register(root)
	run.register(root)

	root.AddCommand(newReclaimCmd(&global))
	root.AddCommand(newResetCmd(&global))

	return root
}
