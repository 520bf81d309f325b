package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/artifactstore/actions"
	"github.com/kbukum/artifactstore/artifact"
	"github.com/kbukum/artifactstore/errors"
)

func newDownloadCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "download <package|droplet> <key>",
		Short: "Print where an artifact can be downloaded from",
		Long: `Print where an artifact can be downloaded from.

Local stores print "path: <file>", remote stores print "url: <public url>".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStores(cmd, opts, func(ctx context.Context, s *session) error {
				path, url, err := downloadLocation(ctx, s.stores, args[0], args[1])
				if err != nil {
					return err
				}
				if path != "" {
					fmt.Fprintln(cmd.OutOrStdout(), "path:", path)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "url:", url)
				return nil
			})
		},
	}
}

func downloadLocation(ctx context.Context, stores *artifact.Stores, kind, key string) (string, string, error) {
	switch kind {
	case "package":
		return actions.NewPackageDownload(stores).Download(ctx, artifact.Package{GUID: key})
	case "droplet":
		return actions.NewDropletDownload(stores).Download(ctx, artifact.Droplet{BlobstoreKey: key})
	default:
		return "", "", errors.InvalidInput("kind", fmt.Sprintf("cannot download %q", kind))
	}
}
