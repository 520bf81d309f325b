package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/artifactstore/component"
)

func newHealthCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe every artifact store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithStores(cmd, opts, func(ctx context.Context, s *session) error {
				for _, h := range s.app.Components.HealthAll(ctx) {
					line := fmt.Sprintf("%s: %s", h.Name, h.Status)
					if h.Status != component.StatusHealthy && h.Message != "" {
						line += " (" + h.Message + ")"
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return s.app.ReadyCheck(ctx)
			})
		},
	}
}
