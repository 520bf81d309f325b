// Package bootstrap runs a command's lifecycle: it validates the typed
// configuration, initialises the logger, starts registered components,
// runs a finite task with signal-driven cancellation and stops everything
// in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(stores)
//	app.OnStop(shutdownTelemetry)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return work(ctx)
//	})
package bootstrap
