// Package giturl canonicalizes loosely-formed repository references.
//
// Package registries and manifests refer to source repositories in
// many shapes: hosting shorthand ("user/repo"), scp-like ssh
// ("git@github.com:user/repo.git"), git protocol ("git://..."), and
// npm-style "git+" prefixed URLs. [Normalize] maps all of them to a
// canonical https URL, or reports failure with an empty string so
// callers can fall back to the raw reference.
package giturl

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	shorthandRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*/[A-Za-z0-9._-]+$`)
	scpLikeRe   = regexp.MustCompile(`^(?:[A-Za-z0-9._-]+@)?([A-Za-z0-9.-]+\.[A-Za-z]{2,}):(.+)$`)
)

// IsShorthand reports whether s is a hosting shorthand of the form
// "user/repo": exactly one slash, no scheme, no leading separator.
func IsShorthand(s string) bool {
	return shorthandRe.MatchString(s)
}

// Normalize converts raw into a canonical https repository URL.
// Hosting shorthand is assumed to live on github.com, matching npm's
// treatment of bare "user/repo" specifiers. Returns "" when raw
// cannot be interpreted as a repository reference.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if IsShorthand(s) {
		return "https://github.com/" + strings.TrimSuffix(s, ".git")
	}

	s = strings.TrimPrefix(s, "git+")

	// scp-like ssh: git@host:path
	if m := scpLikeRe.FindStringSubmatch(s); m != nil && !strings.Contains(s, "://") {
		return "https://" + m[1] + "/" + trimRepoPath(m[2])
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	switch u.Scheme {
	case "http", "https", "git", "ssh":
	default:
		return ""
	}
	return "https://" + u.Host + "/" + trimRepoPath(u.Path)
}

func trimRepoPath(p string) string {
	p = strings.Trim(p, "/")
	return strings.TrimSuffix(p, ".git")
}
