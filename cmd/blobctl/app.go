package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/artifactstore/artifact"
	"github.com/kbukum/artifactstore/blobstore/provider"
	"github.com/kbukum/artifactstore/bootstrap"
	"github.com/kbukum/artifactstore/observability"
)

// session is what a subcommand's task gets to work with.
type session struct {
	app    *bootstrap.App[*Config]
	stores *artifact.Stores
}

type task func(ctx context.Context, s *session) error

// runWithStores loads configuration, starts telemetry and the artifact
// stores, runs fn and shuts everything down.
func runWithStores(cmd *cobra.Command, opts *globalOptions, fn task) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var appOpts []bootstrap.Option
	if opts.summary {
		appOpts = append(appOpts, bootstrap.WithSummary(os.Stderr))
	}
	app, err := bootstrap.NewApp(cfg, appOpts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	shutdown, err := observability.Init(ctx, cfg.Telemetry, cfg.Name, cfg.Version)
	if err != nil {
		return err
	}
	app.OnStop(bootstrap.Hook(shutdown))

	metrics, err := observability.NewBlobMetrics(observability.Meter())
	if err != nil {
		return err
	}
	stores := artifact.NewComponent(cfg.Blobstores, app.Logger, provider.WithMetrics(metrics))
	if err := app.RegisterComponent(stores); err != nil {
		return err
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		return fn(ctx, &session{app: app, stores: stores.Stores()})
	})
}
