// Package cli implements the getdeps command-line interface.
//
// This package provides commands for resolving dependency specifiers
// to source-control locations, serving the resolver as an HTTP API,
// and managing the registry response cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
//   - resolve: Resolve a package.json (or ad-hoc name@specifier
//     pairs) to repository URLs and commits
//   - serve: Expose the resolver over HTTP
//   - cache: Manage the registry response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
// Loggers are passed through context.Context.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/alexsaveliev/getdeps/pkg/buildinfo"
)

// Execute runs the getdeps CLI and returns an error if any command
// fails. The logger is attached to the command context and is
// accessible to all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "getdeps",
		Short:        "getdeps resolves declared dependencies to repository URLs and commits",
		Long:         `getdeps maps a dependency block (package names and version specifiers) to the source-control locations backing each dependency, for source indexing and provenance tooling.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newResolveCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
