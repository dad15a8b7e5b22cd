package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/cache"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/errors"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/measure"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and preview server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete compose → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc *resume.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := errors.ValidateDocument(doc); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Compute document hash for cache keys
	docData, err := resume.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize document for cache key: %w", err)
	}
	result.DocHash = cache.Hash(docData)

	// Stage 1: Compose
	composeStart := time.Now()
	pages, composeHit, err := r.ComposeWithCacheInfo(ctx, doc, result.DocHash, opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Pages = pages
	result.Stats.ComposeTime = time.Since(composeStart)
	result.Stats.PageCount = len(pages)
	result.CacheInfo.ComposeHit = composeHit

	// Compute descriptor hash for cache keys and server responses
	if pageData, err := layout.MarshalPages(pages); err == nil {
		result.LayoutHash = cache.Hash(pageData)
	}

	r.Logger.Info("composed pages",
		"pages", len(pages),
		"measured", opts.Measured,
		"duration", result.Stats.ComposeTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, pages, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComposeWithCacheInfo composes pages with caching and returns cache hit info.
// docHash is the content hash of the document; callers that already hold it
// pass it in so it is computed once per Execute.
func (r *Runner) ComposeWithCacheInfo(ctx context.Context, doc *resume.Document, docHash string, opts Options) ([]layout.Page, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := layout.UnmarshalPages(data)
		if err == nil {
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompose
	}

	// Compose
	pages, err := ComposePages(doc, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := layout.MarshalPages(pages); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return pages, false, nil // Cache miss
}

// Compose is a convenience wrapper that computes the document hash and
// discards the cache hit info.
func (r *Runner) Compose(ctx context.Context, doc *resume.Document, opts Options) ([]layout.Page, error) {
	docData, err := resume.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize document for cache key: %w", err)
	}
	pages, _, err := r.ComposeWithCacheInfo(ctx, doc, cache.Hash(docData), opts)
	return pages, err
}

// ComposePages runs the uncached compose stage: estimate heights,
// optionally correct them with an off-screen measurement pass, then split
// the document across pages.
func ComposePages(doc *resume.Document, opts Options) ([]layout.Page, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	cfg := opts.Config()
	order := cfg.SectionOrder
	if len(order) == 0 {
		order = resume.DefaultOrder
	}
	order = doc.NonEmptySections(order)
	heights := layout.EstimateAll(doc, order)

	if opts.Measured {
		measured := measure.Read(measure.RenderOffscreen(doc, cfg))
		heights = measure.Apply(heights, measured)
	}

	return layout.Compose(heights, order, cfg), nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, pages []layout.Page, doc *resume.Document, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from descriptor data
	pageData, err := layout.MarshalPages(pages)
	if err != nil {
		return nil, false, fmt.Errorf("serialize pages for cache key: %w", err)
	}
	cacheKeyHash := cache.Hash(pageData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := RenderFromPages(pages, doc, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, pages []layout.Page, doc *resume.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, pages, doc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
