package resolve

import (
	"context"
	"slices"
	"sync"
)

// Resolution locates the source of one dependency. Empty fields were
// not determined by the resolution path that produced the entry; an
// entry always has at least one populated field.
type Resolution struct {
	Version string `json:"version,omitempty"` // concrete version from the registry
	Repo    string `json:"repo,omitempty"`    // repository URL
	Commit  string `json:"commit,omitempty"`  // commit hash, tag, or branch
}

// PackageInfo is registry metadata for one package reference. For a
// bare-name query Versions holds every published version and Latest
// the "latest" dist-tag; Repository and GitHead describe the latest
// version. For a name@version query they describe that version.
type PackageInfo struct {
	Versions   []string
	Latest     string
	Repository string
	GitHead    string
}

// Registry answers package metadata queries. ref is a bare package
// name or "name@version". Implementations must return an error for
// unknown packages rather than an empty PackageInfo.
type Registry interface {
	View(ctx context.Context, ref string) (*PackageInfo, error)
}

// Normalizer canonicalizes a loosely-formed repository reference,
// returning "" when it cannot. See giturl.Normalize.
type Normalizer func(raw string) string

// Options configures a Resolver.
type Options struct {
	Logger func(string, ...any) // dropped-dependency diagnostics (optional)
}

// WithDefaults returns a copy of Options with zero values filled in.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Resolver resolves dependency specifiers to source locations using
// an injected registry and git URL normalizer.
type Resolver struct {
	registry  Registry
	normalize Normalizer
	opts      Options
}

// New creates a Resolver. normalize may be nil, in which case raw
// repository references are kept unchanged.
func New(registry Registry, normalize Normalizer, opts Options) *Resolver {
	if normalize == nil {
		normalize = func(string) string { return "" }
	}
	return &Resolver{registry: registry, normalize: normalize, opts: opts.WithDefaults()}
}

// ResolveAll resolves every dependency concurrently and returns the
// mapping of successfully resolved names to their locations. It
// blocks until all dependencies have finished; unresolvable ones are
// absent from the result. An empty input yields an empty result
// immediately.
//
// Each goroutine writes only to its own slot of the outcome slice,
// assigned before launch, so the fan-out needs no locking.
func (r *Resolver) ResolveAll(ctx context.Context, deps map[string]string) map[string]Resolution {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	slices.Sort(names)
	outcomes := make([]outcome, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		i, name := i, name
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = r.resolveOne(ctx, name, deps[name])
		}()
	}
	wg.Wait()

	result := make(map[string]Resolution, len(names))
	for i, name := range names {
		if outcomes[i].status == statusResolved {
			result[name] = outcomes[i].res
		}
	}
	return result
}

// status classifies the outcome of one dependency. It is deliberately
// unexported: the public contract collapses every failure into "no
// entry", and the distinction exists only for tests and logging.
type status int

const (
	statusResolved status = iota
	statusSkipped         // unclassifiable specifier or disallowed scheme
	statusFailed          // registry error, empty response, or no satisfying version
)

type outcome struct {
	status status
	res    Resolution
}
