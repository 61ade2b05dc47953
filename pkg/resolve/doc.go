// Package resolve translates a dependency block (name → version
// specifier) into concrete source-control locations (repository URL
// and commit-ish), so that downstream tooling can find the exact code
// behind a declared dependency.
//
// # Resolution paths
//
// Each specifier takes one of three paths:
//
//   - Hosting shorthand ("user/repo", optionally "#commit"): resolved
//     locally through the git URL normalizer, no registry traffic.
//   - URL (http, https, git:, git+*): split into repository and
//     commit-ish at the first "#" and normalized. Other schemes and
//     bare filesystem paths are dropped.
//   - Anything else is treated as a semver range and resolved against
//     the package registry: at most two queries yield the highest
//     satisfying version and its repository/commit metadata.
//
// # Failure policy
//
// Resolution is best-effort and silent: a dependency that cannot be
// resolved — for any reason — simply has no entry in the result.
// [Resolver.ResolveAll] never returns an error and always runs every
// dependency to completion. Causes are reported through the optional
// Options.Logger callback only.
//
// # Concurrency
//
// Dependencies are independent and resolved concurrently, one
// goroutine per entry. Each goroutine writes to its own pre-assigned
// slot, so no locking is involved; ResolveAll returns once all of
// them have finished.
//
// # Usage
//
//	client, _ := registry.NewClient(registry.Options{})
//	r := resolve.New(npmRegistry{client}, giturl.Normalize, resolve.Options{})
//	locations := r.ResolveAll(ctx, map[string]string{
//	    "express":  "^4.17.0",
//	    "left-pad": "stevemao/left-pad#v1.3.0",
//	})
package resolve
