package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/artifactstore/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the blobctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), serviceName, version.Get().Full())
		},
	}
}
