// Package cache provides content-addressed caching for composed page
// layouts and rendered artifacts.
//
// Composition is cheap but rendering is not, and both are deterministic
// functions of their inputs: a descriptor sequence is fully determined by
// the document content hash plus the layout configuration, and an
// artifact by the descriptor hash plus the output format. Cache keys are
// derived from exactly those inputs so stale entries are impossible by
// construction; TTLs exist only to bound disk usage.
//
// Backends: FileCache for CLI usage, RedisCache for a shared deployment,
// NullCache to disable caching.
package cache

import (
	"context"
	"time"
)

// =============================================================================
// Interfaces
// =============================================================================

// Cache is the storage backend interface.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys from content hashes and options.
type Keyer interface {
	// LayoutKey identifies a composed descriptor sequence.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// =============================================================================
// Key options
// =============================================================================

// LayoutKeyOpts are the composition inputs that change the descriptor
// sequence for the same document content.
type LayoutKeyOpts struct {
	PaperSize    string
	LayoutType   string
	MaxPages     int
	HasSidebar   bool
	SectionOrder []string
	Measured     bool // measurement-corrected vs pure estimate
}

// ArtifactKeyOpts are the render inputs that change an artifact for the
// same descriptor sequence.
type ArtifactKeyOpts struct {
	Format string
}

// TTLs per artifact class.
const (
	// TTLLayout bounds cached descriptor sequences.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact bounds cached rendered outputs.
	TTLArtifact = 7 * 24 * time.Hour
)

// =============================================================================
// DefaultKeyer
// =============================================================================

// DefaultKeyer derives keys by hashing the inputs with a type prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// LayoutKey generates a key for a composed descriptor sequence.
func (k *DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
