// Package cache provides pluggable result caching for corpus runs.
//
// Checking a large schema corpus repeats a lot of work between runs: most
// documents do not change, and their conformance results are a pure function
// of file content. The harness caches per-document results keyed by a hash
// of the document bytes, so unchanged files are skipped on subsequent runs.
//
// Three backends are provided:
//   - FileCache: file-based storage under the user cache directory (CLI default)
//   - RedisCache: shared storage for CI runners checking the same corpus
//   - NullCache: no-op, used with --no-cache and in tests
package cache

import (
	"context"
	"time"
)

// Cache is the interface all caching backends implement.
// Implementations must be safe for concurrent use: the harness writes
// results from multiple worker goroutines.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// ResultKey builds the cache key for a document's conformance result.
// The key is derived from the document's corpus-relative path and a hash of
// its content, so any edit to the file invalidates the entry.
func ResultKey(path string, contentHash string) string {
	return hashKey("result", path, contentHash)
}

// ReportKey builds the cache key for the most recent full-run report.
func ReportKey(corpusRoot string) string {
	return hashKey("report", corpusRoot)
}
