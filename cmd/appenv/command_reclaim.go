package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/appenv"
)

func newReclaimCmd(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reclaim",
		Short: "Terminate every process listening on the server port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := global.options()
			if err != nil {
				return err
			}
			pids, err := appenv.Reclaim(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			if len(pids) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no process listening on %s port %d\n", global.method, global.port)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "killed pids %v on %s port %d\n", pids, global.method, global.port)
			return nil
		},
	}
	return cmd
}
