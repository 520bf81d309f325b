// Command blobctl inspects and populates the artifact blobstores: it
// resolves download URLs, resolves download locations, uploads artifacts
// and probes backend health.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "blobctl"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cmd := newRootCommand(out)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	envFile    string
	envPrefix  string
	summary    bool
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Artifact blobstore tool",
		Long:          "blobctl resolves, downloads and uploads packages, droplets and buildpacks.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to config.yml")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to a .env file")
	cmd.PersistentFlags().StringVar(&opts.envPrefix, "env-prefix", "", "Environment override prefix (default BLOBCTL)")
	cmd.PersistentFlags().BoolVar(&opts.summary, "summary", false, "Print a startup summary to stderr")

	cmd.AddCommand(
		newURLCommand(opts),
		newDownloadCommand(opts),
		newUploadCommand(opts),
		newHealthCommand(opts),
		newVersionCommand(),
	)
	return cmd
}
