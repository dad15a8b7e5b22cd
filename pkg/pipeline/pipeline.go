// Package pipeline provides the core composition pipeline for the CV
// page builder.
//
// This package implements the complete estimate → compose → render flow
// that the CLI, the preview server, and the TUI all share. Centralizing
// it keeps the three entry points byte-for-byte consistent: they hand the
// same document and options to the same Runner and consume the same page
// descriptor sequence.
//
// # Architecture
//
// The pipeline consists of two cached stages:
//
//  1. Compose: estimate (optionally measurement-correct) item heights and
//     split the document across pages
//  2. Render: produce output artifacts (text, JSON, SVG, PDF) from the
//     descriptor sequence
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Paper: "A4", Formats: []string{"pdf"}}
//	result, err := runner.Execute(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Artifacts["pdf"]
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/cache"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, server, and TUI
// =============================================================================

// Format constants for output formats.
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatSVG:  true,
	FormatPDF:  true,
}

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatJSON

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run. The struct
// supports JSON serialization for the preview server.
type Options struct {
	// Compose options
	Paper        string   `json:"paper,omitempty"`
	Layout       string   `json:"layout,omitempty"`
	MaxPages     int      `json:"max_pages,omitempty"`
	Sidebar      bool     `json:"sidebar,omitempty"`
	SectionOrder []string `json:"section_order,omitempty"`

	// Measured runs the off-screen measurement pass and composes from
	// corrected heights instead of the raw estimate.
	Measured bool `json:"measured,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Pages is the composed page descriptor sequence.
	Pages []layout.Page

	// DocHash is the content hash of the input document.
	DocHash string

	// LayoutHash is the content hash of the descriptor sequence.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PageCount   int
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComposeHit bool // Whether the descriptor sequence came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: txt, json, svg, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks fields and applies defaults. This method
// is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	cfg := o.Config()
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return err
	}
	o.Paper = cfg.PaperSize
	o.Layout = cfg.LayoutType
	o.Sidebar = cfg.HasSidebar

	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	o.validated = true
	return nil
}

// Config converts the compose options to a layout configuration.
func (o *Options) Config() layout.Config {
	return layout.Config{
		PaperSize:    o.Paper,
		LayoutType:   o.Layout,
		MaxPages:     o.MaxPages,
		HasSidebar:   o.Sidebar,
		SectionOrder: o.SectionOrder,
	}
}

// LayoutKeyOpts returns cache key options for the compose stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		PaperSize:    o.Paper,
		LayoutType:   o.Layout,
		MaxPages:     o.MaxPages,
		HasSidebar:   o.Sidebar,
		SectionOrder: o.SectionOrder,
		Measured:     o.Measured,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}
