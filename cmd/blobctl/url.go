package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/artifactstore/artifact"
	"github.com/kbukum/artifactstore/errors"
	"github.com/kbukum/artifactstore/urlgen"
	"github.com/kbukum/artifactstore/util"
)

var urlKinds = map[string]artifact.Kind{
	"package":         artifact.KindPackages,
	"app-package":     artifact.KindPackages,
	"droplet":         artifact.KindDroplets,
	"buildpack":       artifact.KindBuildpacks,
	"buildpack-cache": artifact.KindBuildpackCache,
}

func newURLCommand(opts *globalOptions) *cobra.Command {
	var external bool

	cmd := &cobra.Command{
		Use:   "url <package|app-package|droplet|buildpack|buildpack-cache> <key> [stack]",
		Short: "Print the download URL of an artifact",
		Long: `Print the download URL of an artifact.

buildpack-cache takes either a cache key, or an app GUID and a stack for
the per-stack cache.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStores(cmd, opts, func(ctx context.Context, s *session) error {
				if store := s.stores.Store(urlKinds[args[0]]); store != nil && store.Local() {
					return errors.InvalidInput("kind", args[0]+" store is local, use download")
				}
				var gen urlgen.Generator = urlgen.NewInternal(s.stores)
				if external {
					gen = urlgen.NewExternal(s.stores)
				}
				u, err := resolveURL(ctx, gen, args[0], args[1:])
				if err != nil {
					return err
				}
				v, ok := u.Get()
				if !ok {
					return errors.NotFound(args[0], args[1])
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&external, "external", false, "Print the public URL instead of the internal one")
	return cmd
}

// resolveURL maps a CLI artifact kind onto the matching generator method.
func resolveURL(ctx context.Context, gen urlgen.Generator, kind string, args []string) (util.Optional[string], error) {
	if len(args) > 1 && kind != "buildpack-cache" {
		return util.None[string](), errors.InvalidInput("args", kind+" takes a single key")
	}
	key := args[0]

	switch kind {
	case "package":
		return gen.PackageDownloadURL(ctx, artifact.Package{GUID: key})
	case "app-package":
		return gen.AppPackageDownloadURL(ctx, artifact.App{GUID: key})
	case "droplet":
		return gen.VersionedDropletDownloadURL(ctx, artifact.Droplet{BlobstoreKey: key})
	case "buildpack":
		return gen.AdminBuildpackDownloadURL(ctx, artifact.Buildpack{Key: key})
	case "buildpack-cache":
		if len(args) == 2 {
			return gen.VersionedBuildpackCacheDownloadURL(ctx, key, args[1])
		}
		return gen.BuildpackCacheDownloadURL(ctx, artifact.App{BuildpackCacheKey: key})
	default:
		return util.None[string](), errors.InvalidInput("kind", fmt.Sprintf("unknown artifact kind %q", kind))
	}
}
