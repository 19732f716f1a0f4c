package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the daemon and show resolved paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API address: %s\n", cfg.APIBind)
			fmt.Fprintf(out, "Log file:    %s\n", cfg.LogFilePath())
			fmt.Fprintf(out, "Database:    %s\n", cfg.DBPath)

			client, err := ctx.client()
			if err != nil {
				return err
			}
			if err := client.Health(cmd.Context()); err != nil {
				address, _ := ctx.apiAddress()
				fmt.Fprintln(out, "Daemon:      not reachable")
				return wrapUnavailable(err, address)
			}
			fmt.Fprintln(out, "Daemon:      running")
			return nil
		},
	}
}
