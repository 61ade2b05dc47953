package resolve

import (
	"context"

	"github.com/Masterminds/semver/v3"
)

// lookup resolves a semver range against the registry in at most two
// queries: the packument for the version list, and — only when the
// satisfying version is not the latest — a second query pinned to
// name@version for that version's source location.
func (r *Resolver) lookup(ctx context.Context, name, rng string) outcome {
	info, err := r.registry.View(ctx, name)
	if err != nil {
		r.opts.Logger("dropping %s: registry query failed: %v", name, err)
		return outcome{status: statusFailed}
	}

	constraint, err := semver.NewConstraint(rng)
	if err != nil {
		r.opts.Logger("dropping %s: unparsable range %q: %v", name, rng, err)
		return outcome{status: statusSkipped}
	}

	version, ok := maxSatisfying(info.Versions, constraint)
	if !ok {
		r.opts.Logger("dropping %s: no version satisfies %q", name, rng)
		return outcome{status: statusFailed}
	}

	if version == info.Latest {
		return outcome{status: statusResolved, res: Resolution{
			Version: version,
			Repo:    info.Repository,
			Commit:  info.GitHead,
		}}
	}

	pinned, err := r.registry.View(ctx, name+"@"+version)
	if err != nil {
		r.opts.Logger("dropping %s@%s: registry query failed: %v", name, version, err)
		return outcome{status: statusFailed}
	}
	return outcome{status: statusResolved, res: Resolution{
		Version: version,
		Repo:    pinned.Repository,
		Commit:  pinned.GitHead,
	}}
}

// maxSatisfying returns the highest version among candidates matching
// the constraint, by semver precedence. Unparsable candidates are
// ignored; pre-releases match only when the constraint names one.
func maxSatisfying(candidates []string, c *semver.Constraints) (string, bool) {
	var best *semver.Version
	var bestRaw string
	for _, raw := range candidates {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if !c.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	return bestRaw, best != nil
}
