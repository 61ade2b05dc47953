package resolve

import (
	"context"
	"net/url"
	"strings"

	"github.com/alexsaveliev/getdeps/pkg/giturl"
)

// resolveOne classifies a specifier and runs the matching resolution
// path. An outcome either carries a complete Resolution or none at
// all; there is no partial write.
func (r *Resolver) resolveOne(ctx context.Context, name, spec string) outcome {
	ref, commit := splitCommit(spec)

	// Hosting shorthand resolves locally, no registry traffic.
	if giturl.IsShorthand(ref) {
		return outcome{status: statusResolved, res: Resolution{
			Repo:   r.normalizeRef(ref),
			Commit: commit,
		}}
	}

	if strings.Contains(spec, "/") {
		if !allowedScheme(ref) {
			r.opts.Logger("skipping %s: unsupported specifier %q", name, spec)
			return outcome{status: statusSkipped}
		}
		return outcome{status: statusResolved, res: Resolution{
			Repo:   r.normalizeRef(ref),
			Commit: commit,
		}}
	}

	return r.lookup(ctx, name, spec)
}

// splitCommit splits a URL-like specifier at the first "#" into a
// repository reference and a commit-ish. A missing "#", or one in
// leading position, leaves the whole specifier as the reference.
func splitCommit(spec string) (ref, commit string) {
	if i := strings.Index(spec, "#"); i > 0 {
		return spec[:i], spec[i+1:]
	}
	return spec, ""
}

// allowedScheme reports whether a URL-like specifier uses a scheme
// the resolver accepts: http, https, git, or any git+ variant. Bare
// filesystem paths and everything else are rejected.
func allowedScheme(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	switch {
	case u.Scheme == "http", u.Scheme == "https", u.Scheme == "git":
		return true
	case strings.HasPrefix(u.Scheme, "git+"):
		return true
	}
	return false
}

// normalizeRef canonicalizes a repository reference, keeping the raw
// string when normalization fails. Normalization is best-effort and
// never fails the dependency.
func (r *Resolver) normalizeRef(ref string) string {
	if canonical := r.normalize(ref); canonical != "" {
		return canonical
	}
	return ref
}
