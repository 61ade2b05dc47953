// Package httputil provides the HTTP-side infrastructure shared by
// registry clients: file-based response caching and retry with
// exponential backoff.
//
// # Caching
//
// [Cache] stores JSON-marshalable values on disk (~/.cache/getdeps/ by
// default) with a TTL derived from file modification time. Keys are
// hashed with SHA-256, so any string is a valid key. Use
// [Cache.Namespace] to prefix keys per registry:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	npm := cache.Namespace("npm:")
//	npm.Set("left-pad", data)
//
// # Retry
//
// [Retry] re-runs an operation for transient failures only. Wrap
// network errors and 5xx responses in [RetryableError]; any other
// error is returned immediately.
package httputil
