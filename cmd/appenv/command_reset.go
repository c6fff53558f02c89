package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/appenv"
)

func newResetCmd(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset <scenario>",
		Short: "Delete the persisted chat files and database of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := global.options()
			if err != nil {
				return err
			}
			if err := appenv.Reset(args[0], opts...); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reset scenario %s\n", args[0])
			return nil
		},
	}
	return cmd
}
