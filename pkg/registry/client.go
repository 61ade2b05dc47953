package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/alexsaveliev/getdeps/pkg/httputil"
)

// DefaultBaseURL is the public npm registry endpoint.
const DefaultBaseURL = "https://registry.npmjs.org"

const (
	httpTimeout     = 10 * time.Second
	DefaultCacheTTL = 24 * time.Hour
)

var (
	// ErrNotFound is returned when a package or version does not exist.
	ErrNotFound = errors.New("package not found")

	// ErrNetwork is returned for transport failures and server errors.
	ErrNetwork = errors.New("network error")
)

// PackageInfo is the subset of registry metadata the resolver needs.
// For a bare-name query, Versions and Latest describe the whole
// package and Repository/GitHead belong to the latest version. For a
// name@version query, Versions is empty and Latest is the queried
// version.
type PackageInfo struct {
	Name       string
	Latest     string
	Versions   []string
	Repository string
	GitHead    string
}

// Options configures a Client. The zero value selects the public npm
// registry, the default cache directory, and the default TTL.
type Options struct {
	BaseURL  string        // registry endpoint (default: DefaultBaseURL)
	CacheDir string        // cache directory ("" for ~/.cache/getdeps)
	CacheTTL time.Duration // cache entry lifetime (default: 24h)
}

// Client fetches package metadata from an npm-compatible registry.
type Client struct {
	http    *http.Client
	cache   *httputil.Cache
	baseURL string
}

// NewClient creates a Client with a file-backed response cache.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	cache, err := httputil.NewCache(opts.CacheDir, opts.CacheTTL)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   cache.Namespace("npm:"),
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
	}, nil
}

// View fetches metadata for ref, which is either a bare package name
// or "name@version". Scoped names ("@scope/name") are handled: only
// an "@" past the first character separates name and version.
func (c *Client) View(ctx context.Context, ref string, refresh bool) (*PackageInfo, error) {
	name, version := splitRef(ref)

	var info PackageInfo
	err := c.cached(ctx, ref, refresh, &info, func() error {
		if version == "" {
			return c.fetchPackument(ctx, name, &info)
		}
		return c.fetchVersion(ctx, name, version, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// splitRef splits "name@version" at the last "@", leaving scoped
// package names intact. A missing or leading "@" means no version.
func splitRef(ref string) (name, version string) {
	if i := strings.LastIndex(ref, "@"); i > 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	_ = c.cache.Set(key, v)
	return nil
}

func (c *Client) fetchPackument(ctx context.Context, name string, info *PackageInfo) error {
	var data packumentResponse
	if err := c.get(ctx, c.baseURL+"/"+name, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", ErrNotFound, name)
		}
		return err
	}
	if data.Name == "" && len(data.Versions) == 0 {
		return fmt.Errorf("%w: empty registry response for %s", ErrNotFound, name)
	}

	versions := make([]string, 0, len(data.Versions))
	for v := range data.Versions {
		versions = append(versions, v)
	}
	slices.Sort(versions)

	latest := data.DistTags.Latest
	latestManifest := data.Versions[latest]

	*info = PackageInfo{
		Name:       data.Name,
		Latest:     latest,
		Versions:   versions,
		Repository: repositoryURL(latestManifest.Repository),
		GitHead:    latestManifest.GitHead,
	}
	return nil
}

func (c *Client) fetchVersion(ctx context.Context, name, version string, info *PackageInfo) error {
	var data versionManifest
	if err := c.get(ctx, c.baseURL+"/"+name+"/"+version, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: npm package %s@%s", ErrNotFound, name, version)
		}
		return err
	}
	if data.Version == "" {
		return fmt.Errorf("%w: empty registry response for %s@%s", ErrNotFound, name, version)
	}

	*info = PackageInfo{
		Name:       data.Name,
		Latest:     data.Version,
		Repository: repositoryURL(data.Repository),
		GitHead:    data.GitHead,
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// repositoryURL extracts the repository URL from the packument field,
// which the registry serves either as a string or as {type, url}.
func repositoryURL(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val["url"].(string); ok {
			return s
		}
	}
	return ""
}

type packumentResponse struct {
	Name     string                     `json:"name"`
	DistTags distTags                   `json:"dist-tags"`
	Versions map[string]versionManifest `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionManifest struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	GitHead    string `json:"gitHead"`
	Repository any    `json:"repository"`
}
