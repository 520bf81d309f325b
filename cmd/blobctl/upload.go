package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kbukum/artifactstore/artifact"
	"github.com/kbukum/artifactstore/errors"
)

var uploadKinds = map[string]artifact.Kind{
	"package":         artifact.KindPackages,
	"droplet":         artifact.KindDroplets,
	"buildpack":       artifact.KindBuildpacks,
	"buildpack-cache": artifact.KindBuildpackCache,
}

func newUploadCommand(opts *globalOptions) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "upload <package|droplet|buildpack|buildpack-cache> <file>",
		Short: "Upload a file into an artifact store and print its key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := uploadKinds[args[0]]
			if !ok {
				return errors.InvalidInput("kind", fmt.Sprintf("cannot upload %q", args[0]))
			}
			if key == "" {
				key = uuid.NewString()
			}
			return runWithStores(cmd, opts, func(ctx context.Context, s *session) error {
				if err := upload(ctx, s.stores, kind, key, args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Blob key (default: a new UUID)")
	return cmd
}

func upload(ctx context.Context, stores *artifact.Stores, kind artifact.Kind, key, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return stores.Store(kind).Upload(ctx, key, f)
}
