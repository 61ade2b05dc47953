package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/alexsaveliev/getdeps/pkg/giturl"
	"github.com/alexsaveliev/getdeps/pkg/manifest"
	"github.com/alexsaveliev/getdeps/pkg/registry"
	"github.com/alexsaveliev/getdeps/pkg/resolve"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	dev         bool          // include devDependencies
	peer        bool          // include peerDependencies
	jsonOut     bool          // emit JSON instead of a table
	refresh     bool          // bypass the registry response cache
	interactive bool          // live bubbletea progress view
	registryURL string        // registry endpoint override
	timeout     time.Duration // deadline for the whole batch
}

// newResolveCmd creates the resolve command. It accepts either a
// package.json path (default "package.json") or ad-hoc
// name@specifier pairs.
func newResolveCmd() *cobra.Command {
	opts := resolveOpts{timeout: 2 * time.Minute}

	cmd := &cobra.Command{
		Use:   "resolve [package.json | name@specifier ...]",
		Short: "Resolve dependency specifiers to repository URLs and commits",
		Long: `Resolve dependency specifiers to concrete source-control locations.

Specifiers may be semver ranges (resolved against the npm registry),
hosting shorthand ("user/repo#commit"), or git/http URLs. Dependencies
that cannot be resolved are listed separately and omitted from the
output.

Examples:
  getdeps resolve                          # ./package.json
  getdeps resolve web/package.json --dev   # include devDependencies
  getdeps resolve express@^4.17.0 left-pad@stevemao/left-pad
  getdeps resolve react --json             # latest version, JSON output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dev, "dev", false, "include devDependencies")
	cmd.Flags().BoolVar(&opts.peer, "peer", false, "include peerDependencies")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "write the result mapping as JSON to stdout")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the registry response cache")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "show live progress while resolving")
	cmd.Flags().StringVar(&opts.registryURL, "registry", registry.DefaultBaseURL, "npm registry endpoint")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "deadline for the whole batch")

	return cmd
}

func runResolve(ctx context.Context, args []string, opts resolveOpts) error {
	logger := loggerFromContext(ctx)

	specs, err := collectSpecs(args, opts)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		printInfo("Nothing to resolve")
		return nil
	}

	resolver, err := newResolver(ctx, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	prog := newProgress(logger)
	result, err := runResolution(ctx, resolver, specs, opts)
	if err != nil {
		return err
	}
	prog.done("Resolution finished")

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	renderResult(specs, result)
	return nil
}

// newResolver wires the registry client and URL normalizer into the
// resolver, routing its diagnostics to the debug log.
func newResolver(ctx context.Context, opts resolveOpts) (*resolve.Resolver, error) {
	logger := loggerFromContext(ctx)

	client, err := registry.NewClient(registry.Options{BaseURL: opts.registryURL})
	if err != nil {
		return nil, fmt.Errorf("create registry client: %w", err)
	}

	return resolve.New(
		npmRegistry{client: client, refresh: opts.refresh},
		giturl.Normalize,
		resolve.Options{
			Logger: func(msg string, args ...any) { logger.Debugf(msg, args...) },
		},
	), nil
}

func runResolution(
	ctx context.Context,
	resolver *resolve.Resolver,
	specs map[string]string,
	opts resolveOpts,
) (map[string]resolve.Resolution, error) {
	if opts.interactive {
		return runResolveTUI(ctx, resolver, specs)
	}

	sp := newSpinnerWithContext(ctx, fmt.Sprintf("Resolving %d dependencies...", len(specs)))
	sp.Start()
	result := resolver.ResolveAll(ctx, specs)
	if err := ctx.Err(); err != nil {
		sp.StopWithError("Resolution interrupted")
		return nil, err
	}
	sp.Stop()
	return result, nil
}

// npmRegistry adapts registry.Client to the resolver's Registry
// interface, pinning the refresh flag for the whole batch.
type npmRegistry struct {
	client  *registry.Client
	refresh bool
}

func (n npmRegistry) View(ctx context.Context, ref string) (*resolve.PackageInfo, error) {
	info, err := n.client.View(ctx, ref, n.refresh)
	if err != nil {
		return nil, err
	}
	return &resolve.PackageInfo{
		Versions:   info.Versions,
		Latest:     info.Latest,
		Repository: info.Repository,
		GitHead:    info.GitHead,
	}, nil
}

// collectSpecs assembles the dependency block from the command line:
// a manifest path, name@specifier pairs, or ./package.json when no
// arguments are given.
func collectSpecs(args []string, opts resolveOpts) (map[string]string, error) {
	if len(args) == 0 {
		return readManifest("package.json", opts)
	}
	if isManifestArg(args[0]) {
		if len(args) > 1 {
			return nil, fmt.Errorf("cannot mix a manifest path with name@specifier pairs")
		}
		return readManifest(args[0], opts)
	}

	specs := make(map[string]string, len(args))
	for _, arg := range args {
		name, spec := splitPair(arg)
		if name == "" {
			return nil, fmt.Errorf("invalid dependency %q, want name@specifier", arg)
		}
		if spec == "" {
			spec = "*" // bare name resolves the latest version
		}
		specs[name] = spec
	}
	return specs, nil
}

func readManifest(path string, opts resolveOpts) (map[string]string, error) {
	pkg, err := manifest.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return pkg.Specs(opts.dev, opts.peer), nil
}

// isManifestArg reports whether the first positional argument names a
// manifest file rather than a dependency pair.
func isManifestArg(arg string) bool {
	if strings.HasSuffix(arg, ".json") {
		return true
	}
	_, err := os.Stat(arg)
	return err == nil
}

// splitPair splits "name@specifier" at the last "@", leaving scoped
// names ("@scope/name") intact.
func splitPair(arg string) (name, spec string) {
	if i := strings.LastIndex(arg, "@"); i > 0 {
		return arg[:i], arg[i+1:]
	}
	return arg, ""
}

func renderResult(specs map[string]string, result map[string]resolve.Resolution) {
	names := make([]string, 0, len(result))
	for name := range result {
		names = append(names, name)
	}
	slices.Sort(names)
	if len(names) > 0 {
		tbl := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(StyleDim).
			Headers("NAME", "VERSION", "REPOSITORY", "COMMIT")
		for _, name := range names {
			res := result[name]
			tbl.Row(name, orDash(res.Version), orDash(res.Repo), orDash(shortCommit(res.Commit)))
		}
		fmt.Println(tbl)
	}

	var unresolved []string
	for name := range specs {
		if _, ok := result[name]; !ok {
			unresolved = append(unresolved, name)
		}
	}
	if len(unresolved) > 0 {
		slices.Sort(unresolved)
		printWarning("Unresolved: %s", strings.Join(unresolved, ", "))
	}
	printSuccess("Resolved %d of %d dependencies", len(result), len(specs))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// shortCommit abbreviates full-length commit hashes for table output.
func shortCommit(commit string) string {
	if len(commit) == 40 {
		return commit[:12]
	}
	return commit
}
