// Package registry provides an HTTP client for the npm registry API.
//
// # Overview
//
// The client answers the two questions the resolver asks of a
// registry: "what versions of this package exist, and where does its
// latest version live?" (the packument) and "where does this exact
// version live?" (the version manifest).
//
// # Usage
//
//	client, err := registry.NewClient(registry.Options{CacheTTL: 24 * time.Hour})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	info, err := client.View(ctx, "express", false)        // packument
//	info, err = client.View(ctx, "express@4.17.1", false)  // one version
//
// # Errors
//
// Unknown packages and versions yield [ErrNotFound]; transport
// failures and 5xx responses yield [ErrNetwork] (retried with backoff
// before surfacing). Both are plain sentinels for errors.Is checks.
//
// # Caching
//
// Responses are cached on disk under "npm:"-prefixed keys to reduce
// registry load. Pass refresh=true to bypass the cache.
package registry
